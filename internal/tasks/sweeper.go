package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/desertthunder/chosen/internal/shared"
)

// DefaultSweepSpec runs a sweep at the top of every hour.
const DefaultSweepSpec = "0 * * * *"

// Sweeper runs [ReminderEngine.Sweep] on a cron schedule.
type Sweeper struct {
	engine *ReminderEngine
	logger *log.Logger
	spec   string
	loc    *time.Location
	parser cron.Parser

	mu sync.Mutex
	c  *cron.Cron
}

// NewSweeper validates spec (five fields or a descriptor such as "@hourly") and returns a stopped Sweeper.
func NewSweeper(engine *ReminderEngine, spec string, loc *time.Location, logger *log.Logger) (*Sweeper, error) {
	if strings.TrimSpace(spec) == "" {
		spec = DefaultSweepSpec
	}
	if loc == nil {
		loc = time.Local
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("%w: sweep spec %q: %v", shared.ErrInvalidConfig, spec, err)
	}

	return &Sweeper{engine: engine, logger: logger, spec: spec, loc: loc, parser: parser}, nil
}

// LoadLocation resolves a timezone name. Blank and "Local" mean the system zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", shared.ErrInvalidConfig, name, err)
	}
	return loc, nil
}

// cronLogger adapts a charm logger to [cron.Logger]. Cron's routine info lines go to debug.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// Start registers the sweep and starts the cron loop. Sweeps run with ctx.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	clog := cronLogger{s.logger}
	c := cron.New(
		cron.WithParser(s.parser),
		cron.WithLocation(s.loc),
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	if _, err := c.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.c = c
	s.c.Start()
	s.logger.Info("sweeper started", "spec", s.spec, "tz", s.loc.String())
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return
	}
	<-s.c.Stop().Done()
	s.c = nil
	s.logger.Info("sweeper stopped")
}

// Run sweeps once immediately, then on schedule until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	s.runOnce(ctx)
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Next reports when the next sweep is due, or the zero time when stopped.
func (s *Sweeper) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return time.Time{}
	}
	entries := s.c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Sweeper) runOnce(ctx context.Context) {
	start := time.Now()
	result, err := s.engine.Sweep(ctx, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("sweep failed", "error", err)
		return
	}
	s.logger.Info("sweep finished",
		"created", len(result.Created),
		"dispatched", result.Dispatched,
		"failed", len(result.Failed),
		"took", time.Since(start).Round(time.Millisecond),
	)
}
