package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/chosen/internal/shared"
)

// Song is a catalog entry. The composer treats songs as read-only input.
type Song struct {
	ID          string     `json:"id"`
	Sequence    int        `json:"-"`
	Title       string     `json:"title"`
	Artist      string     `json:"artist,omitempty"`
	OriginalKey string     `json:"originalKey"`
	Tags        []string   `json:"tags,omitempty"`
	LyricsURL   string     `json:"lyricsUrl,omitempty"`
	CCLINumber  string     `json:"ccliNumber,omitempty"`
	UsageCount  int        `json:"usageCount,omitempty"`
	LastUsed    string     `json:"lastUsed,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"-"`
}

func (s *Song) Identifier() string { return s.ID }

// Validate checks required fields. Key resolution is left to the music package.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: song title is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(s.OriginalKey) == "" {
		return fmt.Errorf("%w: song original key is required", shared.ErrInvalidInput)
	}
	return nil
}

// HasTag reports whether any tag contains word, ignoring case.
func (s Song) HasTag(word string) bool {
	word = strings.ToLower(word)
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), word) {
			return true
		}
	}
	return false
}

// SongIndex maps song IDs to songs for lookups during composition and summaries.
func SongIndex(songs []Song) map[string]Song {
	idx := make(map[string]Song, len(songs))
	for _, s := range songs {
		idx[s.ID] = s
	}
	return idx
}
