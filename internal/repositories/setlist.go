package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

const setlistColumns = `id, title, date, service_id, praise_leader, worship_leader, musical_director, estimated_duration, notes, status, created_at, updated_at, deleted_at`

// SetlistRepository implements [models.Repository] for generated setlists.
//
// Entries are stored in setlist_songs keyed by position and always rewritten as a whole.
type SetlistRepository struct {
	db *sql.DB
}

// NewSetlistRepository creates a new SetlistRepository with the given database connection
func NewSetlistRepository(db *sql.DB) *SetlistRepository {
	return &SetlistRepository{db: db}
}

// Create inserts the setlist and its entries in one transaction.
func (r *SetlistRepository) Create(setlist *models.GeneratedSetlist) error {
	if setlist.ID == "" {
		setlist.ID = shared.GenerateID()
	}
	if setlist.Status == "" {
		setlist.Status = models.SetlistDraft
	}
	if err := setlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	setlist.CreatedAt, setlist.UpdatedAt = now, now

	notes, err := encodeJSON(tagsOrEmpty(setlist.Notes))
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO setlists (
			id, title, date, service_id, praise_leader, worship_leader, musical_director,
			estimated_duration, notes, status, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		setlist.ID,
		setlist.Title,
		setlist.Date,
		setlist.ServiceID,
		setlist.PraiseLeader,
		setlist.WorshipLeader,
		setlist.MusicalDirector,
		setlist.EstimatedDuration,
		notes,
		setlist.Status,
		now,
		now,
	)
	if err != nil {
		return insertError("setlist", err)
	}

	if err := insertEntries(tx, setlist.ID, setlist.Songs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit setlist: %w", err)
	}
	return nil
}

// Get retrieves a setlist with its entries in order, excluding soft-deleted setlists
func (r *SetlistRepository) Get(id string) (*models.GeneratedSetlist, error) {
	query := `SELECT ` + setlistColumns + ` FROM setlists WHERE id = ? AND deleted_at IS NULL`

	setlist, err := scanSetlist(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrSetlistNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if setlist.Songs, err = r.entries(setlist.ID); err != nil {
		return nil, err
	}
	return setlist, nil
}

// Latest returns the setlist with the greatest date for a service.
func (r *SetlistRepository) Latest(serviceID string) (*models.GeneratedSetlist, error) {
	var id string
	err := r.db.QueryRow(`
		SELECT id FROM setlists WHERE service_id = ? AND deleted_at IS NULL ORDER BY date DESC, created_at DESC LIMIT 1
	`, serviceID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no setlist for service %s", shared.ErrSetlistNotFound, serviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query setlist: %w", err)
	}
	return r.Get(id)
}

// ExistsFor reports whether a setlist has been saved for the service on date (YYYY-MM-DD).
func (r *SetlistRepository) ExistsFor(serviceID, date string) (bool, error) {
	var n int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM setlists WHERE service_id = ? AND date = ? AND deleted_at IS NULL
	`, serviceID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query setlists: %w", err)
	}
	return n > 0, nil
}

// Update rewrites the setlist row and replaces all entries.
func (r *SetlistRepository) Update(setlist *models.GeneratedSetlist) error {
	if err := setlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	notes, err := encodeJSON(tagsOrEmpty(setlist.Notes))
	if err != nil {
		return err
	}

	now := time.Now()
	setlist.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE setlists
		SET title = ?, date = ?, service_id = ?, praise_leader = ?, worship_leader = ?, musical_director = ?,
			estimated_duration = ?, notes = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := tx.Exec(query,
		setlist.Title,
		setlist.Date,
		setlist.ServiceID,
		setlist.PraiseLeader,
		setlist.WorshipLeader,
		setlist.MusicalDirector,
		setlist.EstimatedDuration,
		notes,
		setlist.Status,
		now,
		setlist.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update setlist: %w", err)
	}
	if err := checkAffected(result, shared.ErrSetlistNotFound, setlist.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM setlist_songs WHERE setlist_id = ?`, setlist.ID); err != nil {
		return fmt.Errorf("failed to clear setlist entries: %w", err)
	}
	if err := insertEntries(tx, setlist.ID, setlist.Songs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit setlist: %w", err)
	}
	return nil
}

// Delete soft-deletes a setlist by ID. Entries stay in place for the soft-deleted row.
func (r *SetlistRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE setlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete setlist: %w", err)
	}
	return checkAffected(result, shared.ErrSetlistNotFound, id)
}

// List retrieves setlists ordered by date.
//
// Supported criteria: "service_id", "status" and "date".
func (r *SetlistRepository) List(criteria map[string]any) ([]*models.GeneratedSetlist, error) {
	query := `SELECT ` + setlistColumns + ` FROM setlists WHERE deleted_at IS NULL`
	args := []any{}

	if serviceID, ok := criteria["service_id"].(string); ok && serviceID != "" {
		query += " AND service_id = ?"
		args = append(args, serviceID)
	}

	status, _ := criteria["status"].(models.SetlistStatus)
	if s, ok := criteria["status"].(string); ok {
		status = models.SetlistStatus(s)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if date, ok := criteria["date"].(string); ok && date != "" {
		query += " AND date = ?"
		args = append(args, date)
	}

	query += " ORDER BY date ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query setlists: %w", err)
	}

	var setlists []*models.GeneratedSetlist
	for rows.Next() {
		setlist, err := scanSetlist(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		setlists = append(setlists, setlist)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, s := range setlists {
		if s.Songs, err = r.entries(s.ID); err != nil {
			return nil, err
		}
	}
	return setlists, nil
}

func (r *SetlistRepository) entries(setlistID string) ([]models.SetlistEntry, error) {
	rows, err := r.db.Query(`
		SELECT position, song_id, section, preferred_key, notes FROM setlist_songs WHERE setlist_id = ? ORDER BY position ASC
	`, setlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query setlist entries: %w", err)
	}
	defer rows.Close()

	entries := []models.SetlistEntry{}
	for rows.Next() {
		var e models.SetlistEntry
		if err := rows.Scan(&e.Order, &e.SongID, &e.Section, &e.PreferredKey, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan setlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

func insertEntries(tx *sql.Tx, setlistID string, entries []models.SetlistEntry) error {
	for _, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO setlist_songs (setlist_id, position, song_id, section, preferred_key, notes) VALUES (?, ?, ?, ?, ?, ?)
		`, setlistID, e.Order, e.SongID, e.Section, e.PreferredKey, e.Notes)
		if err != nil {
			return insertError("setlist entry", err)
		}
	}
	return nil
}

func scanSetlist(row rowScanner) (*models.GeneratedSetlist, error) {
	var (
		setlist   models.GeneratedSetlist
		notes     string
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&setlist.ID, &setlist.Title, &setlist.Date, &setlist.ServiceID, &setlist.PraiseLeader, &setlist.WorshipLeader,
		&setlist.MusicalDirector, &setlist.EstimatedDuration, &notes, &setlist.Status,
		&setlist.CreatedAt, &setlist.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan setlist: %w", err)
	}

	if err := decodeJSON(notes, &setlist.Notes); err != nil {
		return nil, err
	}
	setlist.DeletedAt = deletedAtPtr(deletedAt)

	return &setlist, nil
}
