package tasks

import (
	"fmt"

	"github.com/desertthunder/chosen/internal/models"
)

// ProgressUpdate represents a progress event during a sweep.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadServices Phase = iota
	PlanReminders
	SaveReminders
	Dispatch
)

func (p Phase) String() string {
	switch p {
	case LoadServices:
		return "load_services"
	case PlanReminders:
		return "plan_reminders"
	case SaveReminders:
		return "save_reminders"
	case Dispatch:
		return "dispatch"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadedServicesUpdate(services, existing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadServices,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d services and %d notifications", services, existing),
	}
}

func plannedUpdate(planned int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlanReminders,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Planned %d new reminders", planned),
	}
}

func savedUpdate(step, total int, n models.SetlistNotification) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveReminders,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, n.Type, n.TargetDate),
		Data:    n,
	}
}

func dispatchedUpdate(step, total int, n models.SetlistNotification, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   Dispatch,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, n.Message, err),
		}
	}
	return ProgressUpdate{
		Phase:   Dispatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, n.Message),
		Data:    n,
	}
}
