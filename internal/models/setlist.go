package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/desertthunder/chosen/internal/shared"
)

// SetlistStatus tracks a setlist through planning.
type SetlistStatus string

const (
	SetlistDraft     SetlistStatus = "draft"
	SetlistReady     SetlistStatus = "ready"
	SetlistCompleted SetlistStatus = "completed"
)

// SetlistEntry places one song in a setlist. Order is 1-based and global across sections.
type SetlistEntry struct {
	SongID       string `json:"songId"`
	Section      string `json:"section"`
	Order        int    `json:"order"`
	PreferredKey string `json:"preferredKey,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// GeneratedSetlist is a concrete setlist for one service occurrence.
//
// Transformations return new values; Notes is an append-only log of what produced the setlist.
type GeneratedSetlist struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Date              string         `json:"date"`
	ServiceID         string         `json:"serviceId"`
	Songs             []SetlistEntry `json:"songs"`
	PraiseLeader      string         `json:"praiseLeader,omitempty"`
	WorshipLeader     string         `json:"worshipLeader,omitempty"`
	MusicalDirector   string         `json:"musicalDirector,omitempty"`
	EstimatedDuration int            `json:"estimatedDuration"`
	Notes             []string       `json:"notes"`
	Status            SetlistStatus  `json:"status"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         *time.Time     `json:"-"`
}

func (s *GeneratedSetlist) Identifier() string { return s.ID }

func (s *GeneratedSetlist) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: setlist id is required", shared.ErrInvalidInput)
	}
	if _, err := shared.ParseDate(s.Date, time.UTC); err != nil {
		return err
	}
	for i, e := range s.Songs {
		if e.SongID == "" {
			return fmt.Errorf("%w: setlist entry %d has no song", shared.ErrInvalidInput, i)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can derive a new setlist without touching the original.
func (s *GeneratedSetlist) Clone() *GeneratedSetlist {
	c := *s
	c.Songs = slices.Clone(s.Songs)
	c.Notes = cloneStrings(s.Notes)
	if s.DeletedAt != nil {
		d := *s.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

// WithNote returns a copy of s with note appended to the log.
func (s *GeneratedSetlist) WithNote(note string) *GeneratedSetlist {
	c := s.Clone()
	c.Notes = append(c.Notes, note)
	return c
}
