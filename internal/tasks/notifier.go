package tasks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/chosen/internal/models"
)

// Notifier delivers a reminder to whoever needs to act on it.
type Notifier interface {
	Notify(ctx context.Context, n models.SetlistNotification) error
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(ctx context.Context, n models.SetlistNotification) error

func (f NotifierFunc) Notify(ctx context.Context, n models.SetlistNotification) error {
	return f(ctx, n)
}

// LogNotifier writes reminders to a [log.Logger].
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n models.SetlistNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.logger.Info(n.Message,
		"type", n.Type,
		"service", n.ServiceID,
		"date", n.TargetDate,
		"assignee", n.AssignedTo,
	)
	return nil
}
