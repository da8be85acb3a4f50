// package models defines the data model for the worship planning service
package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/chosen/internal/shared"
)

// Model defines the base interface for all persistent models.
// Implementations include Song, User, RecurringService, etc.
type Model interface {
	Identifier() string // Identifier returns the unique identifier for this model
	Validate() error    // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// ParseClock splits an "HH:MM" 24-hour time into hours and minutes.
func ParseClock(s string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q (expected HH:MM)", shared.ErrInvalidTime, s)
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, fmt.Errorf("%w: %q has invalid hours", shared.ErrInvalidTime, s)
	}

	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("%w: %q has invalid minutes", shared.ErrInvalidTime, s)
	}

	return hours, minutes, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return slices.Clone(in)
}
