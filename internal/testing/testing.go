// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/chosen/internal/models"
)

// NewSong builds a catalog song for tests.
func NewSong(id, title, key string, tags ...string) models.Song {
	return models.Song{ID: id, Title: title, OriginalKey: key, Tags: tags}
}

// NewUser builds a team member for tests.
func NewUser(id, name, defaultNote string, roles ...models.Role) models.User {
	return models.User{ID: id, Name: name, DefaultPreferredNote: defaultNote, Roles: roles}
}

// NewService builds an active weekly service for tests.
func NewService(id string, day time.Weekday, at string, setlistDays, teamDays int) models.RecurringService {
	return models.RecurringService{
		ID:                  id,
		Title:               "Service " + id,
		DayOfWeek:           int(day),
		Time:                at,
		SetlistReminderDays: setlistDays,
		TeamReminderDays:    teamDays,
		Active:              true,
		DefaultDuration:     90,
	}
}

// WorshipPool returns n songs tagged worship/slow with keys cycling through C, D, E, F, G.
func WorshipPool(n int) []models.Song {
	keys := []string{"C", "D", "E", "F", "G"}
	songs := make([]models.Song, n)
	for i := range songs {
		id := "w" + string(rune('a'+i))
		songs[i] = NewSong(id, "Worship "+id, keys[i%len(keys)], "worship", "slow")
	}
	return songs
}

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
