package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/chosen/internal/server"
	"github.com/desertthunder/chosen/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) reminderEngine(stores *Stores) *tasks.ReminderEngine {
	return tasks.NewReminderEngine(
		r.scheduler,
		stores.Services,
		stores.Notifications,
		nil,
		r.logger,
		tasks.EngineOpts{
			WeeksAhead:   r.config.Scheduler.WeeksAhead,
			DispatchRate: r.config.Scheduler.DispatchRate,
		},
	)
}

// Daemon sweeps reminders on the configured cron schedule until interrupted.
func (r *Runner) Daemon(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}
	engine := r.reminderEngine(stores)

	if cmd.Bool("once") {
		result, err := engine.Sweep(ctx, nil)
		if err != nil {
			return err
		}
		r.writePlain("✓ Sweep complete: %d created, %d already scheduled, %d dispatched, %d failed\n",
			len(result.Created), result.Duplicates, result.Dispatched, len(result.Failed))
		return nil
	}

	spec := cmd.String("spec")
	if spec == "" {
		spec = r.config.Scheduler.SweepSpec
	}
	loc, err := tasks.LoadLocation(r.config.Scheduler.Timezone)
	if err != nil {
		return err
	}
	sweeper, err := tasks.NewSweeper(engine, spec, loc, r.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Info("reminder daemon started", "spec", spec, "timezone", loc.String())
	return sweeper.Run(ctx)
}

// Serve runs the read-only scheduling API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = net.JoinHostPort(r.config.Server.Host, strconv.Itoa(r.config.Server.Port))
	}

	var router server.Router = server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	server.NewAPI(r.scheduler, stores.Services, stores.Notifications, stores.Setlists).Register(router)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, addr, router, r.logger); err != nil {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}
