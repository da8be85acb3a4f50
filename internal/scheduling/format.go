package scheduling

import (
	"fmt"
	"time"

	"github.com/desertthunder/chosen/internal/models"
)

// FormatServiceTime renders "HH:MM" as a 12-hour clock, e.g. "19:30" becomes "7:30 PM".
func FormatServiceTime(hhmm string) (string, error) {
	hours, minutes, err := models.ParseClock(hhmm)
	if err != nil {
		return "", err
	}

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours
	switch {
	case hours == 0:
		display = 12
	case hours > 12:
		display = hours - 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minutes, period), nil
}

// DayName returns the English name for a 0-6 day of week, or "" when out of range.
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ""
	}
	return time.Weekday(dayOfWeek).String()
}
