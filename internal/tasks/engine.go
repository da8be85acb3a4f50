package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/shared"
)

// DefaultDispatchRate is the number of notifications dispatched per second when none is configured.
const DefaultDispatchRate = 2.0

// ServiceSource lists recurring services (repositories.ServiceRepository).
type ServiceSource interface {
	All() ([]models.RecurringService, error)
}

// NotificationStore persists reminders (repositories.NotificationRepository).
type NotificationStore interface {
	All() ([]models.SetlistNotification, error)
	Create(n *models.SetlistNotification) error
}

// DispatchError records a reminder the notifier failed to deliver.
type DispatchError struct {
	Notification models.SetlistNotification
	Err          error
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Created    []models.SetlistNotification // Reminders persisted this sweep
	Duplicates int                          // Planned reminders the store already had
	Dispatched int                          // Reminders delivered this sweep
	Failed     []DispatchError              // Reminders the notifier rejected
}

// ReminderEngine plans, persists and dispatches reminders.
//
// A sweep claims the reminders it is about to dispatch; overlapping sweeps skip claimed IDs.
// Delivered IDs stay claimed for the life of the engine, so a reminder is delivered once per
// process even though it stays active for a week. Failed deliveries release their claim.
type ReminderEngine struct {
	scheduler  *scheduling.Scheduler
	services   ServiceSource
	store      NotificationStore
	notifier   Notifier
	limiter    *rate.Limiter
	logger     *log.Logger
	weeksAhead int

	mu      sync.Mutex
	claimed map[string]claimState
}

type claimState int

const (
	claimInFlight claimState = iota + 1
	claimDelivered
)

// EngineOpts configures a [ReminderEngine].
type EngineOpts struct {
	WeeksAhead   int     // Look-ahead window (default: scheduling.DefaultWeeksAhead)
	DispatchRate float64 // Notifications per second (default: 2)
}

// NewReminderEngine creates a ReminderEngine. A nil notifier logs reminders with logger.
func NewReminderEngine(
	scheduler *scheduling.Scheduler,
	services ServiceSource,
	store NotificationStore,
	notifier Notifier,
	logger *log.Logger,
	opts EngineOpts,
) *ReminderEngine {
	if opts.DispatchRate <= 0 {
		opts.DispatchRate = DefaultDispatchRate
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	return &ReminderEngine{
		scheduler:  scheduler,
		services:   services,
		store:      store,
		notifier:   notifier,
		limiter:    rate.NewLimiter(rate.Limit(opts.DispatchRate), 1),
		logger:     logger,
		weeksAhead: opts.WeeksAhead,
		claimed:    make(map[string]claimState),
	}
}

// Sweep performs one plan, persist and dispatch pass.
//
// Store failures abort the sweep. Notifier failures are collected in the result and the reminder
// is retried on the next sweep.
func (e *ReminderEngine) Sweep(ctx context.Context, progress chan<- ProgressUpdate) (*SweepResult, error) {
	if e.services == nil || e.store == nil {
		return nil, fmt.Errorf("%w: reminder stores not configured", shared.ErrServiceUnavailable)
	}

	services, err := e.services.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	existing, err := e.store.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	sendProgress(progress, loadedServicesUpdate(len(services), len(existing)))

	planned, err := e.scheduler.UpcomingNotifications(services, existing, e.weeksAhead)
	if err != nil {
		return nil, fmt.Errorf("failed to plan reminders: %w", err)
	}
	sendProgress(progress, plannedUpdate(len(planned)))

	result := &SweepResult{Created: []models.SetlistNotification{}, Failed: []DispatchError{}}
	for i := range planned {
		n := planned[i]
		if err := e.store.Create(&n); err != nil {
			if errors.Is(err, shared.ErrDuplicateRecord) {
				result.Duplicates++
				continue
			}
			return result, fmt.Errorf("failed to save reminder %s: %w", n.ID, err)
		}
		result.Created = append(result.Created, n)
		sendProgress(progress, savedUpdate(i+1, len(planned), n))
	}

	all := append(existing, result.Created...)
	due := e.claim(e.scheduler.ActiveNotifications(all, e.scheduler.Current()))

	for i, n := range due {
		if err := e.limiter.Wait(ctx); err != nil {
			e.release(due[i:]...)
			return result, err
		}

		err := e.notifier.Notify(ctx, n)
		sendProgress(progress, dispatchedUpdate(i+1, len(due), n, err))
		if err != nil {
			e.release(n)
			e.logger.Warn("failed to dispatch reminder", "id", n.ID, "error", err)
			result.Failed = append(result.Failed, DispatchError{Notification: n, Err: err})
			continue
		}

		e.markDelivered(n.ID)
		result.Dispatched++
	}

	e.logger.Debug("sweep complete",
		"created", len(result.Created),
		"duplicates", result.Duplicates,
		"dispatched", result.Dispatched,
		"failed", len(result.Failed),
	)
	return result, nil
}

// claim marks unclaimed active reminders in flight and returns them.
func (e *ReminderEngine) claim(active []models.SetlistNotification) []models.SetlistNotification {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.SetlistNotification, 0, len(active))
	for _, n := range active {
		if _, taken := e.claimed[n.ID]; taken {
			continue
		}
		e.claimed[n.ID] = claimInFlight
		out = append(out, n)
	}
	return out
}

func (e *ReminderEngine) release(ns ...models.SetlistNotification) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range ns {
		if e.claimed[n.ID] == claimInFlight {
			delete(e.claimed, n.ID)
		}
	}
}

func (e *ReminderEngine) markDelivered(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.claimed[id] = claimDelivered
}
