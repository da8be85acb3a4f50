package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/desertthunder/chosen/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard of upcoming services.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	stores, err := r.Stores()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Deps{
		Scheduler: r.scheduler,
		Services:  stores.Services,
		Setlists:  stores.Setlists,
		Songs:     stores.Songs,
		Team:      stores.Users,
		Engine:    r.reminderEngine(stores),
	})
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
