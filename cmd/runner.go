package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chosen/internal/repositories"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/desertthunder/chosen/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	logger    *log.Logger
	output    io.Writer
	db        *sql.DB
	ownsDB    bool
	stores    *Stores
	scheduler *scheduling.Scheduler
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	// DB is an already migrated database. When nil the database at Config.Database.Path is
	// opened and migrated on first use.
	DB *sql.DB
	// Scheduler overrides the clock and reminder settings derived from Config.
	Scheduler *scheduling.Scheduler
}

// Stores groups the repositories commands read from and write to.
type Stores struct {
	Songs         *repositories.SongRepository
	Users         *repositories.UserRepository
	Availability  *repositories.AvailabilityRepository
	Services      *repositories.ServiceRepository
	Templates     *repositories.TemplateRepository
	Setlists      *repositories.SetlistRepository
	Notifications *repositories.NotificationRepository
}

// NewStores builds every repository over db.
func NewStores(db *sql.DB) *Stores {
	return &Stores{
		Songs:         repositories.NewSongRepository(db),
		Users:         repositories.NewUserRepository(db),
		Availability:  repositories.NewAvailabilityRepository(db),
		Services:      repositories.NewServiceRepository(db),
		Templates:     repositories.NewTemplateRepository(db),
		Setlists:      repositories.NewSetlistRepository(db),
		Notifications: repositories.NewNotificationRepository(db),
	}
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Scheduler == nil {
		opts.Scheduler = newScheduler(opts.Config, opts.Logger)
	}

	r := &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		output:    opts.Output,
		db:        opts.DB,
		scheduler: opts.Scheduler,
	}
	if opts.DB != nil {
		r.stores = NewStores(opts.DB)
	}
	return r
}

// newScheduler builds a Scheduler on the system clock in the configured timezone.
func newScheduler(config *shared.Config, logger *log.Logger) *scheduling.Scheduler {
	loc, err := tasks.LoadLocation(config.Scheduler.Timezone)
	if err != nil {
		logger.Warn("falling back to local time", "error", err)
		loc = time.Local
	}
	return &scheduling.Scheduler{
		Now:           func() time.Time { return time.Now().In(loc) },
		TeamReminders: config.Scheduler.TeamReminders,
		Assignee:      config.Notifications.DefaultAssignee,
	}
}

// Configure swaps in a loaded config before any command runs, rebuilding the scheduler and log level from it.
func (r *Runner) Configure(config *shared.Config) error {
	level, err := shared.ParseLogLevel(config.Log.Level)
	if err != nil {
		return err
	}
	shared.SetLogLevel(r.logger, level)
	r.config = config
	r.scheduler = newScheduler(config, r.logger)
	return nil
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Stores opens the configured database on first use and returns its repositories.
func (r *Runner) Stores() (*Stores, error) {
	if r.stores != nil {
		return r.stores, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Debug("database ready", "path", r.config.Database.Path)
	r.db = db
	r.ownsDB = true
	r.stores = NewStores(db)
	return r.stores, nil
}

// Close releases a database the runner opened itself.
func (r *Runner) Close() error {
	if r.ownsDB && r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, transposeCommand, songsCommand, teamCommand, servicesCommand, templatesCommand,
		setlistCommand, scheduleCommand, daemonCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
