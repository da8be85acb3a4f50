package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

const userColumns = `id, name, email, roles, instruments, default_preferred_note, created_at, updated_at, deleted_at`

// UserRepository implements [models.Repository] for team members.
//
// Song preferences live in their own table and are loaded with the user.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and its song preferences in one transaction.
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if user.ID == "" {
		user.ID = shared.GenerateID()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now

	roles, instruments, err := encodeUserLists(user)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (id, name, email, roles, instruments, default_preferred_note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query, user.ID, user.Name, user.Email, roles, instruments, user.DefaultPreferredNote, now, now)
	if err != nil {
		return insertError("user", err)
	}

	if err := insertPreferences(tx, user.ID, user.SongPreferences); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

// Get retrieves a user and their song preferences, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if user.SongPreferences, err = r.preferences(user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Update rewrites the user row and replaces their song preferences.
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	roles, instruments, err := encodeUserLists(user)
	if err != nil {
		return err
	}

	now := time.Now()
	user.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE users
		SET name = ?, email = ?, roles = ?, instruments = ?, default_preferred_note = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := tx.Exec(query, user.Name, user.Email, roles, instruments, user.DefaultPreferredNote, now, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := checkAffected(result, shared.ErrUserNotFound, user.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM user_song_preferences WHERE user_id = ?`, user.ID); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	if err := insertPreferences(tx, user.ID, user.SongPreferences); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

// SetPreference records or replaces a single song preference for a user.
func (r *UserRepository) SetPreference(userID string, pref models.SongPreference) error {
	query := `
		INSERT INTO user_song_preferences (user_id, song_id, preferred_note, notes) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, song_id) DO UPDATE SET preferred_note = excluded.preferred_note, notes = excluded.notes
	`

	if _, err := r.db.Exec(query, userID, pref.SongID, pref.PreferredNote, pref.Notes); err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}
	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result, shared.ErrUserNotFound, id)
}

// List retrieves users ordered by name, excluding soft-deleted users.
//
// Supported criteria: "role" ([models.Role] or string) and "email".
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`
	args := []any{}

	role, _ := criteria["role"].(models.Role)
	if s, ok := criteria["role"].(string); ok {
		role = models.Role(s)
	}
	if role != "" {
		query += " AND roles LIKE ?"
		args = append(args, `%"`+string(role)+`"%`)
	}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY name ASC"

	users, err := r.collect(query, args...)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.SongPreferences, err = r.preferences(u.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Team returns all users as values, the shape the composer consumes.
func (r *UserRepository) Team() ([]models.User, error) {
	users, err := r.List(map[string]any{})
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = *u
	}
	return out, nil
}

// collect drains the result set before any follow-up queries run.
func (r *UserRepository) collect(query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

func (r *UserRepository) preferences(userID string) ([]models.SongPreference, error) {
	rows, err := r.db.Query(`
		SELECT song_id, preferred_note, notes FROM user_song_preferences WHERE user_id = ? ORDER BY song_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []models.SongPreference
	for rows.Next() {
		var p models.SongPreference
		if err := rows.Scan(&p.SongID, &p.PreferredNote, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return prefs, nil
}

func insertPreferences(tx *sql.Tx, userID string, prefs []models.SongPreference) error {
	for _, p := range prefs {
		_, err := tx.Exec(`
			INSERT INTO user_song_preferences (user_id, song_id, preferred_note, notes) VALUES (?, ?, ?, ?)
		`, userID, p.SongID, p.PreferredNote, p.Notes)
		if err != nil {
			return insertError("song preference", err)
		}
	}
	return nil
}

func encodeUserLists(user *models.User) (string, string, error) {
	roles := user.Roles
	if roles == nil {
		roles = []models.Role{}
	}
	r, err := encodeJSON(roles)
	if err != nil {
		return "", "", err
	}
	i, err := encodeJSON(tagsOrEmpty(user.Instruments))
	if err != nil {
		return "", "", err
	}
	return r, i, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user        models.User
		roles       string
		instruments string
		deletedAt   sql.NullTime
	)

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &roles, &instruments, &user.DefaultPreferredNote,
		&user.CreatedAt, &user.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if err := decodeJSON(roles, &user.Roles); err != nil {
		return nil, err
	}
	if err := decodeJSON(instruments, &user.Instruments); err != nil {
		return nil, err
	}
	user.DeletedAt = deletedAtPtr(deletedAt)

	return &user, nil
}
