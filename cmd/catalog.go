package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/chosen/internal/importer"
	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/urfave/cli/v3"
)

func readImportFile(cmd *cli.Command) (string, []byte, error) {
	path := cmd.StringArg("file")
	if path == "" {
		return "", nil, fmt.Errorf("%w: file path is required", shared.ErrMissingArgument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, data, nil
}

// SongsImport validates a song file against the catalog and saves the new songs.
func (r *Runner) SongsImport(ctx context.Context, cmd *cli.Command) error {
	path, data, err := readImportFile(cmd)
	if err != nil {
		return err
	}
	inputs, err := importer.ParseSongs(path, data)
	if err != nil {
		return err
	}

	stores, err := r.Stores()
	if err != nil {
		return err
	}
	existing, err := stores.Songs.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	result := importer.ProcessBulkImport(inputs, existing)
	r.logger.Info("processed import", "file", path, "valid", len(result.Imported),
		"duplicates", len(result.Duplicates), "invalid", len(result.Errors))

	saved := 0
	if !cmd.Bool("dry-run") {
		for i := range result.Imported {
			if err := stores.Songs.Create(&result.Imported[i]); err != nil {
				return fmt.Errorf("failed to save %q: %w", result.Imported[i].Title, err)
			}
			saved++
		}
	}

	r.writePlain("✓ %d songs imported (%d valid)\n", saved, len(result.Imported))
	for _, title := range result.Duplicates {
		r.writePlain("  skipped duplicate: %s\n", title)
	}
	for _, e := range result.Errors {
		r.writePlain("  rejected %q: %v\n", e.Input.Title, e.Err)
	}

	if !result.Success() {
		return fmt.Errorf("%w: %d songs rejected", shared.ErrInvalidInput, len(result.Errors))
	}
	return nil
}

// SongsList prints the catalog, optionally filtered by tag or artist.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if tag := cmd.String("tag"); tag != "" {
		criteria["tag"] = tag
	}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	songs, err := stores.Songs.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		r.writePlain("No songs found\n")
		return nil
	}
	for _, s := range songs {
		r.writePlain("%-36s  %-3s  %-32s  %s\n", s.ID, s.OriginalKey, s.Title, strings.Join(s.Tags, ", "))
	}
	r.writePlainln("%d songs", len(songs))
	return nil
}

// SongsSuggestTags prints tags suggested by the words in a title.
func (r *Runner) SongsSuggestTags(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrMissingArgument)
	}

	tags := importer.SuggestTags(title)
	if len(tags) == 0 {
		r.writePlain("No suggestions for %q\n", title)
		r.writePlain("Common tags:\n")
		for _, c := range importer.CommonTags {
			r.writePlain("  %-8s %s\n", c.Name, strings.Join(c.Tags, ", "))
		}
		return nil
	}

	r.writePlain("%s\n", strings.Join(tags, ", "))
	return nil
}

// SongsTemplate prints an example import file.
func (r *Runner) SongsTemplate(ctx context.Context, cmd *cli.Command) error {
	return r.writePlain("%s\n", importer.SongTemplate)
}

// TeamImport creates team members from a file, updating members whose ID already exists.
func (r *Runner) TeamImport(ctx context.Context, cmd *cli.Command) error {
	path, data, err := readImportFile(cmd)
	if err != nil {
		return err
	}
	users, err := importer.ParseUsers(path, data)
	if err != nil {
		return err
	}

	stores, err := r.Stores()
	if err != nil {
		return err
	}

	created, updated := 0, 0
	for i := range users {
		u := &users[i]
		err := stores.Users.Create(u)
		switch {
		case err == nil:
			created++
		case errors.Is(err, shared.ErrDuplicateRecord) && u.ID != "":
			if err := stores.Users.Update(u); err != nil {
				return fmt.Errorf("failed to update %s: %w", u.Name, err)
			}
			updated++
		default:
			return fmt.Errorf("failed to save %s: %w", u.Name, err)
		}
	}

	r.logger.Info("imported team", "file", path, "created", created, "updated", updated)
	r.writePlain("✓ %d team members created, %d updated\n", created, updated)
	return nil
}

// TeamList prints team members, optionally filtered by role.
func (r *Runner) TeamList(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if role := cmd.String("role"); role != "" {
		criteria["role"] = models.Role(role)
	}
	users, err := stores.Users.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list team: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, cmd.Bool("pretty"))
	}
	if len(users) == 0 {
		r.writePlain("No team members found\n")
		return nil
	}
	for _, u := range users {
		roles := make([]string, len(u.Roles))
		for i, role := range u.Roles {
			roles[i] = string(role)
		}
		r.writePlain("%-36s  %-24s  %-3s  %s\n", u.ID, u.Name, u.DefaultPreferredNote, strings.Join(roles, ", "))
	}
	return nil
}

// TeamUnavailable records a date range a team member cannot serve.
func (r *Runner) TeamUnavailable(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}

	user, err := stores.Users.Get(cmd.String("user"))
	if err != nil {
		return err
	}

	to := cmd.String("to")
	if to == "" {
		to = cmd.String("from")
	}
	a := &models.UserAvailability{
		UserID:          user.ID,
		UnavailableFrom: cmd.String("from"),
		UnavailableTo:   to,
		Reason:          cmd.String("reason"),
	}
	if err := stores.Availability.Create(a); err != nil {
		return err
	}

	r.writePlain("✓ %s unavailable %s to %s\n", user.Name, a.UnavailableFrom, a.UnavailableTo)
	return nil
}

// ServicesImport creates recurring services from a file, updating services whose ID already exists.
func (r *Runner) ServicesImport(ctx context.Context, cmd *cli.Command) error {
	path, data, err := readImportFile(cmd)
	if err != nil {
		return err
	}
	services, err := importer.ParseServices(path, data)
	if err != nil {
		return err
	}

	stores, err := r.Stores()
	if err != nil {
		return err
	}

	created, updated := 0, 0
	for i := range services {
		s := &services[i]
		err := stores.Services.Create(s)
		switch {
		case err == nil:
			created++
		case errors.Is(err, shared.ErrDuplicateRecord) && s.ID != "":
			if err := stores.Services.Update(s); err != nil {
				return fmt.Errorf("failed to update %s: %w", s.Title, err)
			}
			updated++
		default:
			return fmt.Errorf("failed to save %s: %w", s.Title, err)
		}
	}

	r.logger.Info("imported services", "file", path, "created", created, "updated", updated)
	r.writePlain("✓ %d services created, %d updated\n", created, updated)
	return nil
}

// ServicesList prints recurring services with their weekly slot.
func (r *Runner) ServicesList(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if !cmd.Bool("all") {
		criteria["active"] = true
	}
	services, err := stores.Services.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(services, cmd.Bool("pretty"))
	}
	if len(services) == 0 {
		r.writePlain("No services found\n")
		return nil
	}
	for _, s := range services {
		clock, err := scheduling.FormatServiceTime(s.Time)
		if err != nil {
			clock = s.Time
		}
		r.writePlain("%-20s  %-28s  %-9s %8s\n", s.ID, s.Title, scheduling.DayName(s.DayOfWeek), clock)
	}
	return nil
}

// TemplatesImport saves every template in a YAML or JSON file.
func (r *Runner) TemplatesImport(ctx context.Context, cmd *cli.Command) error {
	path, data, err := readImportFile(cmd)
	if err != nil {
		return err
	}
	templates, err := importer.ParseTemplates(data)
	if err != nil {
		return err
	}

	stores, err := r.Stores()
	if err != nil {
		return err
	}
	for i := range templates {
		if err := stores.Templates.Create(&templates[i]); err != nil {
			return fmt.Errorf("failed to save template %q: %w", templates[i].Name, err)
		}
		r.writePlain("✓ %s (%d sections) saved as %s\n", templates[i].Name, len(templates[i].Sections), templates[i].ID)
	}

	r.logger.Info("imported templates", "file", path, "count", len(templates))
	return nil
}

// TemplatesList prints saved templates and their sections.
func (r *Runner) TemplatesList(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if st := cmd.String("service-type"); st != "" {
		criteria["service_type"] = st
	}
	templates, err := stores.Templates.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(templates, cmd.Bool("pretty"))
	}
	if len(templates) == 0 {
		r.writePlain("No templates found\n")
		return nil
	}
	for _, t := range templates {
		r.writePlain("%s  %s (%d min)\n", t.ID, t.Name, t.EstimatedDuration)
		for _, s := range t.Sections {
			r.writePlain("    %-12s %d %s, %s tempo\n", s.Name, s.Count, s.Type, s.Tempo)
		}
	}
	return nil
}
