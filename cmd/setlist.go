package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/chosen/internal/formatter"
	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/setlist"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetlistGenerate composes a setlist for a service occurrence, saves it and prints the summary.
//
// Regenerating for the same service and date replaces the earlier setlist.
func (r *Runner) SetlistGenerate(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	stores, err := r.Stores()
	if err != nil {
		return err
	}

	service, err := stores.Services.Get(cmd.String("service"))
	if err != nil {
		return err
	}
	tmpl, err := r.resolveTemplate(stores, cmd.String("template"), service.Type)
	if err != nil {
		return err
	}

	date := cmd.String("date")
	if date == "" {
		next, err := r.scheduler.NextServiceDate(*service, r.scheduler.Current())
		if err != nil {
			return err
		}
		date = shared.FormatDate(next)
	}

	songs, err := stores.Songs.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	team, err := stores.Users.Team()
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}
	unavailable, err := stores.Availability.Covering(date)
	if err != nil {
		return fmt.Errorf("failed to load availability: %w", err)
	}

	opts := []setlist.Option{setlist.WithAvailability(unavailable)}
	seed := cmd.Uint64("seed")
	if seed == 0 {
		seed = r.config.Composer.Seed
	}
	if seed != 0 {
		opts = append(opts, setlist.WithSeed(seed))
	}
	if cmd.Bool("unique") {
		opts = append(opts, setlist.WithUniqueSongs())
	}

	generated, err := setlist.NewComposer(opts...).Generate(*tmpl, songs, team, date, service.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("adjust") {
		if director, ok := findUser(team, generated.MusicalDirector); ok {
			generated = setlist.AdjustKeys(generated, director, songs)
		} else {
			r.logger.Warn("no musical director assigned, keys left as original")
		}
	}
	if cmd.Bool("optimize") {
		generated = setlist.OptimizeKeyFlow(generated, songs)
	}

	r.logger.Info("generated setlist", "id", generated.ID, "service", service.ID, "date", date,
		"template", tmpl.Name, "songs", len(generated.Songs))

	if !cmd.Bool("dry-run") {
		if err := r.saveSetlist(stores, generated); err != nil {
			return err
		}
	}

	summary := setlist.SummarizeWithTemplate(generated, songs, team, *tmpl)
	for _, s := range summary.Shortfalls {
		r.logger.Warn("section short", "detail", s)
	}
	return r.writeSummary(summary, format)
}

// SetlistShow prints or exports a saved setlist.
func (r *Runner) SetlistShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: setlist id is required", shared.ErrMissingArgument)
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	stores, err := r.Stores()
	if err != nil {
		return err
	}
	saved, err := stores.Setlists.Get(id)
	if err != nil {
		return err
	}
	songs, err := stores.Songs.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	team, err := stores.Users.Team()
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}

	summary := setlist.Summarize(saved, songs, team)

	if output := cmd.String("output"); output != "" || cmd.Bool("save") {
		path, err := formatter.WriteExport(summary, format, output)
		if err != nil {
			return err
		}
		r.logger.Info("exported setlist", "id", id, "path", path)
		r.writePlain("✓ Exported to %s\n", path)
		return nil
	}
	return r.writeSummary(summary, format)
}

// resolveTemplate looks ref up as an ID, then a name. With no ref it takes the newest template for
// serviceType, then the newest template of any type.
func (r *Runner) resolveTemplate(stores *Stores, ref, serviceType string) (*models.SetlistTemplate, error) {
	if ref != "" {
		tmpl, err := stores.Templates.Get(ref)
		if err == nil {
			return tmpl, nil
		}
		if !errors.Is(err, shared.ErrTemplateNotFound) {
			return nil, err
		}
		return stores.Templates.GetByName(ref)
	}

	for _, criteria := range []map[string]any{{"service_type": serviceType}, {}} {
		templates, err := stores.Templates.List(criteria)
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}
		if len(templates) > 0 {
			return templates[len(templates)-1], nil
		}
	}
	return nil, fmt.Errorf("%w: no templates saved; run templates import first", shared.ErrTemplateNotFound)
}

func (r *Runner) saveSetlist(stores *Stores, generated *models.GeneratedSetlist) error {
	var previous []models.SetlistEntry
	err := stores.Setlists.Create(generated)
	if errors.Is(err, shared.ErrDuplicateRecord) {
		r.logger.Info("replacing existing setlist", "id", generated.ID)
		existing, getErr := stores.Setlists.Get(generated.ID)
		if getErr != nil {
			return fmt.Errorf("failed to load existing setlist: %w", getErr)
		}
		previous = existing.Songs
		err = stores.Setlists.Update(generated)
	}
	if err != nil {
		return fmt.Errorf("failed to save setlist: %w", err)
	}

	added, released := usageDelta(previous, generated.Songs)
	if err := stores.Songs.RecordUsage(generated.Date, added, released); err != nil {
		return fmt.Errorf("failed to record song usage: %w", err)
	}
	return r.completeReminders(stores, generated.ServiceID, generated.Date)
}

// usageDelta compares the song entries of a replaced setlist with its replacement and returns the
// songs gained and lost, counting repeats.
func usageDelta(previous, current []models.SetlistEntry) (added, released []string) {
	counts := map[string]int{}
	for _, e := range current {
		counts[e.SongID]++
	}
	for _, e := range previous {
		counts[e.SongID]--
	}
	for _, e := range current {
		if counts[e.SongID] > 0 {
			added = append(added, e.SongID)
			counts[e.SongID]--
		}
	}
	for _, e := range previous {
		if counts[e.SongID] < 0 {
			released = append(released, e.SongID)
			counts[e.SongID]++
		}
	}
	return added, released
}

// completeReminders closes pending setlist reminders for the occurrence a setlist now covers.
func (r *Runner) completeReminders(stores *Stores, serviceID, date string) error {
	notifications, err := stores.Notifications.ListByService(serviceID)
	if err != nil {
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	for _, n := range notifications {
		if n.Type != models.NotificationSetlistReminder || n.TargetDate != date || n.Status != models.StatusPending {
			continue
		}
		if err := stores.Notifications.SetStatus(n.ID, models.StatusCompleted); err != nil {
			return fmt.Errorf("failed to complete reminder %s: %w", n.ID, err)
		}
		r.logger.Debug("setlist reminder completed", "id", n.ID)
	}
	return nil
}

func (r *Runner) writeSummary(summary setlist.Summary, format formatter.Format) error {
	data, err := formatter.Export(summary, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

func findUser(users []models.User, id string) (models.User, bool) {
	if id == "" {
		return models.User{}, false
	}
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}
