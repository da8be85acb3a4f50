package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/chosen/internal/formatter"
	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/urfave/cli/v3"
)

// nextOccurrence is the printable answer to "when is this service next".
type nextOccurrence struct {
	ServiceID       string `json:"serviceId"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	SetlistReminder string `json:"setlistReminder"`
	TeamReminder    string `json:"teamReminder"`
	SetlistID       string `json:"setlistId"`
	HasSetlist      bool   `json:"hasSetlist"`
	Overdue         bool   `json:"overdue"`
}

func (r *Runner) nextOccurrence(stores *Stores, service models.RecurringService) (nextOccurrence, error) {
	date, err := r.scheduler.NextServiceDate(service, r.scheduler.Current())
	if err != nil {
		return nextOccurrence{}, err
	}
	clock, err := scheduling.FormatServiceTime(service.Time)
	if err != nil {
		return nextOccurrence{}, err
	}

	day := shared.FormatDate(date)
	exists, err := stores.Setlists.ExistsFor(service.ID, day)
	if err != nil {
		return nextOccurrence{}, err
	}
	reminders := r.scheduler.ReminderDates(service, date)

	return nextOccurrence{
		ServiceID:       service.ID,
		Title:           service.Title,
		Date:            day,
		Time:            clock,
		SetlistReminder: shared.FormatDate(reminders.Setlist),
		TeamReminder:    shared.FormatDate(reminders.Team),
		SetlistID:       scheduling.SetlistID(service.ID, day),
		HasSetlist:      exists,
		Overdue:         r.scheduler.IsSetlistOverdue(service, date, exists),
	}, nil
}

// ScheduleNext prints a service's next occurrence and its reminder dates.
func (r *Runner) ScheduleNext(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("service")
	if id == "" {
		return fmt.Errorf("%w: service id is required", shared.ErrMissingArgument)
	}

	stores, err := r.Stores()
	if err != nil {
		return err
	}
	service, err := stores.Services.Get(id)
	if err != nil {
		return err
	}

	next, err := r.nextOccurrence(stores, *service)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(next, false)
	}

	r.writePlainHeader(next.Title)
	r.writePlain("Next service:     %s at %s (%s)\n", next.Date, next.Time, scheduling.DayName(service.DayOfWeek))
	r.writePlain("Setlist reminder: %s\n", next.SetlistReminder)
	r.writePlain("Team reminder:    %s\n", next.TeamReminder)
	switch {
	case next.HasSetlist:
		r.writePlain("Setlist:          ready\n")
	case next.Overdue:
		r.writePlain("Setlist:          OVERDUE\n")
	default:
		r.writePlain("Setlist:          not yet created\n")
	}
	return nil
}

// ScheduleNotify plans upcoming reminders and saves the new ones.
func (r *Runner) ScheduleNotify(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}
	services, err := stores.Services.All()
	if err != nil {
		return fmt.Errorf("failed to load services: %w", err)
	}
	existing, err := stores.Notifications.All()
	if err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}

	weeks := cmd.Int("weeks")
	if weeks <= 0 {
		weeks = r.config.Scheduler.WeeksAhead
	}
	planned, err := r.scheduler.UpcomingNotifications(services, existing, weeks)
	if err != nil {
		return err
	}

	if !cmd.Bool("dry-run") {
		for i := range planned {
			if err := stores.Notifications.Create(&planned[i]); err != nil {
				return fmt.Errorf("failed to save reminder %s: %w", planned[i].ID, err)
			}
		}
		r.logger.Info("saved reminders", "count", len(planned), "weeks", weeks)
	}

	_, err = r.output.Write(formatter.FormatNotifications(planned))
	return err
}

// ScheduleActive lists pending reminders due within the coming week.
func (r *Runner) ScheduleActive(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}
	all, err := stores.Notifications.All()
	if err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}

	active := r.scheduler.ActiveNotifications(all, r.scheduler.Current())
	if cmd.Bool("json") {
		return r.writeJSON(active, cmd.Bool("pretty"))
	}
	_, err = r.output.Write(formatter.FormatNotifications(active))
	return err
}

// ScheduleOverdue lists active services whose next setlist reminder passed with no setlist saved.
func (r *Runner) ScheduleOverdue(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}
	services, err := stores.Services.List(map[string]any{"active": true})
	if err != nil {
		return fmt.Errorf("failed to load services: %w", err)
	}

	overdue := 0
	for _, s := range services {
		next, err := r.nextOccurrence(stores, *s)
		if err != nil {
			r.logger.Warn("skipping service", "service", s.ID, "error", err)
			continue
		}
		if !next.Overdue {
			continue
		}
		overdue++
		r.writePlain("%s  %s on %s (reminder was %s)\n", next.ServiceID, next.Title, next.Date, next.SetlistReminder)
	}

	if overdue == 0 {
		r.writePlain("No overdue setlists\n")
	}
	return nil
}
