package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Music and scheduling errors
	ErrInvalidKey      = fmt.Errorf("invalid key")
	ErrInvalidTemplate = fmt.Errorf("invalid setlist template")
	ErrInvalidService  = fmt.Errorf("invalid recurring service")
	ErrInvalidTime     = fmt.Errorf("invalid service time")
	ErrInvalidDate     = fmt.Errorf("invalid date")

	// Persistence errors
	ErrNotFound           = fmt.Errorf("record not found")
	ErrSongNotFound       = fmt.Errorf("song not found")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrServiceNotFound    = fmt.Errorf("recurring service not found")
	ErrTemplateNotFound   = fmt.Errorf("setlist template not found")
	ErrSetlistNotFound    = fmt.Errorf("setlist not found")
	ErrDuplicateRecord    = fmt.Errorf("duplicate record")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
