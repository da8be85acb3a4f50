package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

const notificationColumns = `id, type, service_id, target_date, status, assigned_to, message, created_at, updated_at`

// NotificationRepository implements [models.Repository] for reminders.
//
// The (service_id, type, target_date) index rejects a second reminder for the same occurrence.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository with the given database connection
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification. A duplicate occurrence yields [shared.ErrDuplicateRecord].
func (r *NotificationRepository) Create(n *models.SetlistNotification) error {
	if n.ID == "" {
		n.ID = shared.GenerateID()
	}
	if err := n.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	query := `
		INSERT INTO notifications (id, type, service_id, target_date, status, assigned_to, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, n.ID, n.Type, n.ServiceID, n.TargetDate, n.Status, n.AssignedTo, n.Message, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return insertError("notification", err)
	}
	return nil
}

func (r *NotificationRepository) Get(id string) (*models.SetlistNotification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`

	n, err := scanNotification(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: notification %s", shared.ErrNotFound, id)
	}
	return n, err
}

func (r *NotificationRepository) Update(n *models.SetlistNotification) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	n.UpdatedAt = now

	result, err := r.db.Exec(`
		UPDATE notifications SET status = ?, assigned_to = ?, message = ?, updated_at = ? WHERE id = ?
	`, n.Status, n.AssignedTo, n.Message, now, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return checkAffected(result, shared.ErrNotFound, n.ID)
}

// SetStatus moves a notification to status.
func (r *NotificationRepository) SetStatus(id string, status models.NotificationStatus) error {
	n, err := r.Get(id)
	if err != nil {
		return err
	}
	n.Status = status
	return r.Update(n)
}

// Delete removes a notification. Notifications are not soft-deleted so a dismissed occurrence can be re-issued.
func (r *NotificationRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return checkAffected(result, shared.ErrNotFound, id)
}

// List retrieves notifications ordered by target date.
//
// Supported criteria: "service_id", "status" and "type".
func (r *NotificationRepository) List(criteria map[string]any) ([]*models.SetlistNotification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE 1 = 1`
	args := []any{}

	if serviceID, ok := criteria["service_id"].(string); ok && serviceID != "" {
		query += " AND service_id = ?"
		args = append(args, serviceID)
	}

	status, _ := criteria["status"].(models.NotificationStatus)
	if s, ok := criteria["status"].(string); ok {
		status = models.NotificationStatus(s)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	kind, _ := criteria["type"].(models.NotificationType)
	if s, ok := criteria["type"].(string); ok {
		kind = models.NotificationType(s)
	}
	if kind != "" {
		query += " AND type = ?"
		args = append(args, kind)
	}

	query += " ORDER BY target_date ASC, type ASC, service_id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var out []*models.SetlistNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// ListByService returns a service's notifications ordered by target date.
func (r *NotificationRepository) ListByService(serviceID string) ([]*models.SetlistNotification, error) {
	return r.List(map[string]any{"service_id": serviceID})
}

// All returns every notification as values for the scheduler.
func (r *NotificationRepository) All() ([]models.SetlistNotification, error) {
	ns, err := r.List(map[string]any{})
	if err != nil {
		return nil, err
	}
	out := make([]models.SetlistNotification, len(ns))
	for i, n := range ns {
		out[i] = *n
	}
	return out, nil
}

func scanNotification(row rowScanner) (*models.SetlistNotification, error) {
	var n models.SetlistNotification

	err := row.Scan(&n.ID, &n.Type, &n.ServiceID, &n.TargetDate, &n.Status, &n.AssignedTo, &n.Message, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}
	return &n, nil
}
