package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/chosen/internal/shared"
)

// RecurringService is a weekly service definition.
//
// DayOfWeek follows [time.Weekday] (0 = Sunday). Time is "HH:MM" in 24-hour form.
// The reminder offsets count whole days before an occurrence.
type RecurringService struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	DayOfWeek           int        `json:"dayOfWeek"`
	Time                string     `json:"time"`
	Location            string     `json:"location,omitempty"`
	Type                string     `json:"type,omitempty"`
	SetlistReminderDays int        `json:"setlistReminderDays"`
	TeamReminderDays    int        `json:"teamReminderDays"`
	Active              bool       `json:"active"`
	DefaultDuration     int        `json:"defaultDuration"`
	RequiredRoles       []Role     `json:"requiredRoles,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	DeletedAt           *time.Time `json:"-"`
}

func (s *RecurringService) Identifier() string { return s.ID }

// Validate rejects definitions the scheduler cannot work with. Callers should validate before scheduling.
func (s *RecurringService) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidService)
	}
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return fmt.Errorf("%w: day of week %d out of range 0-6", shared.ErrInvalidService, s.DayOfWeek)
	}
	if _, _, err := ParseClock(s.Time); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidService, err)
	}
	if s.SetlistReminderDays < 0 || s.TeamReminderDays < 0 {
		return fmt.Errorf("%w: reminder offsets must be non-negative", shared.ErrInvalidService)
	}
	if s.DefaultDuration < 0 {
		return fmt.Errorf("%w: default duration must be non-negative", shared.ErrInvalidService)
	}
	return nil
}

// Weekday returns DayOfWeek as a [time.Weekday].
func (s RecurringService) Weekday() time.Weekday {
	return time.Weekday(s.DayOfWeek)
}
