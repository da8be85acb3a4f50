package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/chosen/internal/shared"
)

// NotificationType distinguishes the reminders the scheduler emits.
type NotificationType string

const (
	NotificationSetlistReminder NotificationType = "setlist-reminder"
	NotificationTeamReminder    NotificationType = "team-reminder"
	NotificationServiceReminder NotificationType = "service-reminder"
)

// NotificationStatus is the lifecycle state of a notification.
type NotificationStatus string

const (
	StatusPending      NotificationStatus = "pending"
	StatusAcknowledged NotificationStatus = "acknowledged"
	StatusCompleted    NotificationStatus = "completed"
)

// SetlistNotification is a reminder tied to a service occurrence.
//
// TargetDate is the occurrence's calendar date (YYYY-MM-DD). At most one setlist reminder exists
// per (ServiceID, TargetDate).
type SetlistNotification struct {
	ID         string             `json:"id"`
	Type       NotificationType   `json:"type"`
	ServiceID  string             `json:"serviceId"`
	TargetDate string             `json:"targetDate"`
	Status     NotificationStatus `json:"status"`
	AssignedTo string             `json:"assignedTo,omitempty"`
	Message    string             `json:"message"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func (n *SetlistNotification) Identifier() string { return n.ID }

func (n *SetlistNotification) Validate() error {
	switch n.Type {
	case NotificationSetlistReminder, NotificationTeamReminder, NotificationServiceReminder:
	default:
		return fmt.Errorf("%w: unknown notification type %q", shared.ErrInvalidInput, n.Type)
	}
	switch n.Status {
	case StatusPending, StatusAcknowledged, StatusCompleted:
	default:
		return fmt.Errorf("%w: unknown notification status %q", shared.ErrInvalidInput, n.Status)
	}
	if n.ServiceID == "" {
		return fmt.Errorf("%w: notification requires a service", shared.ErrInvalidInput)
	}
	if _, err := shared.ParseDate(n.TargetDate, time.UTC); err != nil {
		return err
	}
	return nil
}
