package music

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/desertthunder/chosen/internal/shared"
)

// ErrInvalidKey is returned when a key string does not resolve to a pitch class.
var ErrInvalidKey = shared.ErrInvalidKey

// Scale is the fixed display table, indexed by pitch class.
var Scale = [12]string{
	"C", "C#/Db", "D", "D#/Eb", "E", "F",
	"F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B",
}

// Index resolves key to its position on [Scale].
func Index(key string) (int, error) {
	prefix := normalize(key)
	if prefix == "" {
		return -1, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for i, k := range Scale {
		if strings.HasPrefix(k, prefix) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrInvalidKey, key)
}

// ValidKey reports whether key resolves to a pitch class.
func ValidKey(key string) bool {
	_, err := Index(key)
	return err == nil
}

// Canonical returns the [Scale] spelling for key.
func Canonical(key string) (string, error) {
	i, err := Index(key)
	if err != nil {
		return "", err
	}
	return Scale[i], nil
}

// normalize keeps the text before "/" and upper-cases the note letter.
func normalize(key string) string {
	prefix, _, _ := strings.Cut(strings.TrimSpace(key), "/")
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	r := []rune(prefix)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}
