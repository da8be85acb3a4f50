package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

// DefaultWeeksAhead is the look-ahead used when a caller passes a non-positive window.
const DefaultWeeksAhead = 4

// activeWindow is how far ahead, in calendar days, a pending notification counts as active.
const activeWindow = 7

// Scheduler computes occurrences and reminders relative to Now.
type Scheduler struct {
	// Now reports the current time. Occurrences are computed in its location.
	Now func() time.Time
	// TeamReminders also emits a team-reminder per occurrence.
	TeamReminders bool
	// Assignee is copied into generated notifications.
	Assignee string
}

// NewScheduler returns a Scheduler on the system clock.
func NewScheduler() *Scheduler {
	return &Scheduler{Now: time.Now}
}

// Current returns Now(), or the system time when Now is unset.
func (s *Scheduler) Current() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Reminders holds the reminder times for one occurrence.
type Reminders struct {
	Setlist time.Time
	Team    time.Time
}

// NextServiceDate returns the first occurrence strictly after the calendar day of from.
//
// Called on the service's own weekday it returns next week's occurrence. The service time is
// applied in from's location with seconds zeroed. A time skipped by a daylight-saving jump moves
// forward by the size of the jump (02:30 becomes 03:30).
func (s *Scheduler) NextServiceDate(service models.RecurringService, from time.Time) (time.Time, error) {
	if service.DayOfWeek < 0 || service.DayOfWeek > 6 {
		return time.Time{}, fmt.Errorf("%w: day of week %d out of range 0-6", shared.ErrInvalidService, service.DayOfWeek)
	}
	hours, minutes, err := models.ParseClock(service.Time)
	if err != nil {
		return time.Time{}, err
	}

	days := (service.DayOfWeek - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}

	return wallClock(from.Year(), from.Month(), from.Day()+days, hours, minutes, from.Location()), nil
}

// wallClock is time.Date with nonexistent local times resolved forward.
func wallClock(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Hour() == hour && t.Minute() == minute {
		return t
	}

	wall := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	_, before := t.Zone()
	first := wall.Add(-time.Duration(before) * time.Second)
	_, after := first.In(loc).Zone()
	second := wall.Add(-time.Duration(after) * time.Second)

	latest := t
	for _, c := range []time.Time{first, second} {
		if c.After(latest) {
			latest = c
		}
	}
	return latest.In(loc)
}

// ReminderDates subtracts the service's reminder offsets from serviceDate, keeping the time of day.
func (s *Scheduler) ReminderDates(service models.RecurringService, serviceDate time.Time) Reminders {
	return Reminders{
		Setlist: serviceDate.AddDate(0, 0, -service.SetlistReminderDays),
		Team:    serviceDate.AddDate(0, 0, -service.TeamReminderDays),
	}
}

type reminderKey struct {
	serviceID string
	kind      models.NotificationType
	date      string
}

// UpcomingNotifications returns reminders for active services over weeksAhead weekly checkpoints.
//
// A reminder is skipped when one of the same type already exists for the service and occurrence
// date, either in existing or earlier in this batch, or when its reminder time is not after now.
// A service with a malformed time fails the whole call.
func (s *Scheduler) UpcomingNotifications(services []models.RecurringService, existing []models.SetlistNotification, weeksAhead int) ([]models.SetlistNotification, error) {
	if weeksAhead <= 0 {
		weeksAhead = DefaultWeeksAhead
	}

	now := s.Current()
	seen := make(map[reminderKey]bool, len(existing))
	for _, n := range existing {
		seen[reminderKey{n.ServiceID, n.Type, n.TargetDate}] = true
	}

	out := []models.SetlistNotification{}
	emit := func(service models.RecurringService, kind models.NotificationType, occurrence, remindAt time.Time) {
		key := reminderKey{service.ID, kind, shared.FormatDate(occurrence)}
		if seen[key] || !remindAt.After(now) {
			return
		}
		seen[key] = true
		out = append(out, newNotification(service, kind, occurrence, now, s.Assignee))
	}

	for _, service := range services {
		if !service.Active {
			continue
		}
		for week := range weeksAhead {
			checkpoint := now.AddDate(0, 0, 7*week)
			occurrence, err := s.NextServiceDate(service, checkpoint)
			if err != nil {
				return nil, fmt.Errorf("service %s: %w", service.ID, err)
			}
			reminders := s.ReminderDates(service, occurrence)

			emit(service, models.NotificationSetlistReminder, occurrence, reminders.Setlist)
			if s.TeamReminders {
				emit(service, models.NotificationTeamReminder, occurrence, reminders.Team)
			}
		}
	}

	return out, nil
}

func newNotification(service models.RecurringService, kind models.NotificationType, occurrence, now time.Time, assignee string) models.SetlistNotification {
	prefix, action := "setlist", "Create setlist"
	if kind == models.NotificationTeamReminder {
		prefix, action = "team", "Confirm team"
	}

	return models.SetlistNotification{
		ID:         fmt.Sprintf("notif_%s_%s_%d", prefix, service.ID, occurrence.UnixMilli()),
		Type:       kind,
		ServiceID:  service.ID,
		TargetDate: shared.FormatDate(occurrence),
		Status:     models.StatusPending,
		AssignedTo: assignee,
		Message:    fmt.Sprintf("Reminder: %s for %s (%s)", action, service.Title, occurrence.Format("Jan 2, 2006")),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ActiveNotifications keeps pending notifications whose target date is between the calendar day of
// current and seven days later, inclusive. Notifications with unparseable dates are dropped.
func (s *Scheduler) ActiveNotifications(notifications []models.SetlistNotification, current time.Time) []models.SetlistNotification {
	today := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, time.UTC)

	out := []models.SetlistNotification{}
	for _, n := range notifications {
		if n.Status != models.StatusPending {
			continue
		}
		target, err := shared.ParseDate(n.TargetDate, time.UTC)
		if err != nil {
			continue
		}
		days := int(target.Sub(today).Hours() / 24)
		if days >= 0 && days <= activeWindow {
			out = append(out, n)
		}
	}
	return out
}

// IsSetlistOverdue reports whether the setlist reminder for the occurrence on targetDate has passed
// without a setlist being created.
func (s *Scheduler) IsSetlistOverdue(service models.RecurringService, targetDate time.Time, hasSetlist bool) bool {
	if hasSetlist {
		return false
	}
	return s.Current().After(targetDate.AddDate(0, 0, -service.SetlistReminderDays))
}

// SetlistID returns the id of a manually planned setlist for a service occurrence.
func SetlistID(serviceID, date string) string {
	return fmt.Sprintf("setlist_%s_%s", serviceID, strings.ReplaceAll(date, "-", ""))
}
