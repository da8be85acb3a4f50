package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

const serviceColumns = `id, title, day_of_week, time, location, service_type, setlist_reminder_days, team_reminder_days, active, default_duration, required_roles, created_at, updated_at, deleted_at`

// ServiceRepository implements [models.Repository] for recurring services.
type ServiceRepository struct {
	db *sql.DB
}

// NewServiceRepository creates a new ServiceRepository with the given database connection
func NewServiceRepository(db *sql.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create validates and inserts a service. Services without an ID get a generated one.
func (r *ServiceRepository) Create(service *models.RecurringService) error {
	if err := service.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if service.ID == "" {
		service.ID = shared.GenerateID()
	}
	now := time.Now()
	service.CreatedAt, service.UpdatedAt = now, now

	roles, err := encodeRoles(service.RequiredRoles)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recurring_services (
			id, title, day_of_week, time, location, service_type, setlist_reminder_days,
			team_reminder_days, active, default_duration, required_roles, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		service.ID,
		service.Title,
		service.DayOfWeek,
		service.Time,
		service.Location,
		service.Type,
		service.SetlistReminderDays,
		service.TeamReminderDays,
		service.Active,
		service.DefaultDuration,
		roles,
		now,
		now,
	)
	if err != nil {
		return insertError("service", err)
	}

	return nil
}

// Get retrieves a service by ID, excluding soft-deleted services
func (r *ServiceRepository) Get(id string) (*models.RecurringService, error) {
	query := `SELECT ` + serviceColumns + ` FROM recurring_services WHERE id = ? AND deleted_at IS NULL`

	service, err := scanService(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrServiceNotFound, id)
	}
	return service, err
}

// Update modifies an existing service in the database
func (r *ServiceRepository) Update(service *models.RecurringService) error {
	if err := service.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	roles, err := encodeRoles(service.RequiredRoles)
	if err != nil {
		return err
	}

	now := time.Now()
	service.UpdatedAt = now

	query := `
		UPDATE recurring_services
		SET title = ?, day_of_week = ?, time = ?, location = ?, service_type = ?, setlist_reminder_days = ?,
			team_reminder_days = ?, active = ?, default_duration = ?, required_roles = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		service.Title,
		service.DayOfWeek,
		service.Time,
		service.Location,
		service.Type,
		service.SetlistReminderDays,
		service.TeamReminderDays,
		service.Active,
		service.DefaultDuration,
		roles,
		now,
		service.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	return checkAffected(result, shared.ErrServiceNotFound, service.ID)
}

// Delete soft-deletes a service by ID
func (r *ServiceRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE recurring_services SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return checkAffected(result, shared.ErrServiceNotFound, id)
}

// List retrieves services ordered by day and time, excluding soft-deleted services.
//
// Supported criteria: "active" (bool) and "type" (string).
func (r *ServiceRepository) List(criteria map[string]any) ([]*models.RecurringService, error) {
	query := `SELECT ` + serviceColumns + ` FROM recurring_services WHERE deleted_at IS NULL`
	args := []any{}

	if active, ok := criteria["active"].(bool); ok {
		query += " AND active = ?"
		args = append(args, active)
	}

	if kind, ok := criteria["type"].(string); ok && kind != "" {
		query += " AND service_type = ?"
		args = append(args, kind)
	}

	query += " ORDER BY day_of_week ASC, time ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []*models.RecurringService
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return services, nil
}

// All returns every service, active or not, as values for the scheduler.
func (r *ServiceRepository) All() ([]models.RecurringService, error) {
	services, err := r.List(map[string]any{})
	if err != nil {
		return nil, err
	}
	out := make([]models.RecurringService, len(services))
	for i, s := range services {
		out[i] = *s
	}
	return out, nil
}

func encodeRoles(roles []models.Role) (string, error) {
	if roles == nil {
		roles = []models.Role{}
	}
	return encodeJSON(roles)
}

func scanService(row rowScanner) (*models.RecurringService, error) {
	var (
		service   models.RecurringService
		roles     string
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&service.ID, &service.Title, &service.DayOfWeek, &service.Time, &service.Location, &service.Type,
		&service.SetlistReminderDays, &service.TeamReminderDays, &service.Active, &service.DefaultDuration,
		&roles, &service.CreatedAt, &service.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan service: %w", err)
	}

	if err := decodeJSON(roles, &service.RequiredRoles); err != nil {
		return nil, err
	}
	service.DeletedAt = deletedAtPtr(deletedAt)

	return &service, nil
}
