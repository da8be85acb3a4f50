package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

// AvailabilityRepository implements [models.Repository] for member unavailability ranges.
//
// Ranges are hard-deleted.
type AvailabilityRepository struct {
	db *sql.DB
}

// NewAvailabilityRepository creates a new AvailabilityRepository with the given database connection
func NewAvailabilityRepository(db *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(a *models.UserAvailability) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if a.ID == "" {
		a.ID = shared.GenerateID()
	}

	_, err := r.db.Exec(`
		INSERT INTO user_availability (id, user_id, unavailable_from, unavailable_to, reason) VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.UnavailableFrom, a.UnavailableTo, a.Reason)
	if err != nil {
		return insertError("availability", err)
	}
	return nil
}

func (r *AvailabilityRepository) Get(id string) (*models.UserAvailability, error) {
	var a models.UserAvailability
	err := r.db.QueryRow(`
		SELECT id, user_id, unavailable_from, unavailable_to, reason FROM user_availability WHERE id = ?
	`, id).Scan(&a.ID, &a.UserID, &a.UnavailableFrom, &a.UnavailableTo, &a.Reason)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: availability %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	return &a, nil
}

func (r *AvailabilityRepository) Update(a *models.UserAvailability) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.db.Exec(`
		UPDATE user_availability SET user_id = ?, unavailable_from = ?, unavailable_to = ?, reason = ? WHERE id = ?
	`, a.UserID, a.UnavailableFrom, a.UnavailableTo, a.Reason, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	return checkAffected(result, shared.ErrNotFound, a.ID)
}

func (r *AvailabilityRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM user_availability WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete availability: %w", err)
	}
	return checkAffected(result, shared.ErrNotFound, id)
}

// List returns ranges ordered by start date.
//
// Supported criteria: "user_id", and "date" (YYYY-MM-DD) to keep only ranges covering that day.
func (r *AvailabilityRepository) List(criteria map[string]any) ([]*models.UserAvailability, error) {
	query := `SELECT id, user_id, unavailable_from, unavailable_to, reason FROM user_availability WHERE 1 = 1`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if date, ok := criteria["date"].(string); ok && date != "" {
		query += " AND unavailable_from <= ? AND unavailable_to >= ?"
		args = append(args, date, date)
	}

	query += " ORDER BY unavailable_from ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var out []*models.UserAvailability
	for rows.Next() {
		var a models.UserAvailability
		if err := rows.Scan(&a.ID, &a.UserID, &a.UnavailableFrom, &a.UnavailableTo, &a.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		out = append(out, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// Covering returns the ranges that include date, as values for [setlist.WithAvailability].
func (r *AvailabilityRepository) Covering(date string) ([]models.UserAvailability, error) {
	ranges, err := r.List(map[string]any{"date": date})
	if err != nil {
		return nil, err
	}
	out := make([]models.UserAvailability, len(ranges))
	for i, a := range ranges {
		out[i] = *a
	}
	return out, nil
}
