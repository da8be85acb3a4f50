package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/chosen/internal/shared"
)

// SectionType classifies the songs a section wants.
type SectionType string

const (
	SectionPraise  SectionType = "praise"
	SectionWorship SectionType = "worship"
)

// Tempo is the target tempo of a section. [TempoMixed] disables tempo filtering.
type Tempo string

const (
	TempoSlow   Tempo = "slow"
	TempoMedium Tempo = "medium"
	TempoFast   Tempo = "fast"
	TempoMixed  Tempo = "mixed"
)

// Section is one named block of a template, e.g. "Opening" or "Praise Set".
type Section struct {
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Type  SectionType `json:"type"`
	Tempo Tempo       `json:"tempo"`
}

// Validate checks the section's count, type and tempo.
func (s Section) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: section name is required", shared.ErrInvalidTemplate)
	}
	if s.Count <= 0 {
		return fmt.Errorf("%w: section %q count must be positive, got %d", shared.ErrInvalidTemplate, s.Name, s.Count)
	}
	switch s.Type {
	case SectionPraise, SectionWorship:
	default:
		return fmt.Errorf("%w: section %q has unknown type %q", shared.ErrInvalidTemplate, s.Name, s.Type)
	}
	switch s.Tempo {
	case TempoSlow, TempoMedium, TempoFast, TempoMixed:
	default:
		return fmt.Errorf("%w: section %q has unknown tempo %q", shared.ErrInvalidTemplate, s.Name, s.Tempo)
	}
	return nil
}

// SetlistTemplate describes the target shape of a generated setlist. Sections are kept in iteration order.
type SetlistTemplate struct {
	ID                string     `json:"id"`
	Sequence          int        `json:"-"`
	Name              string     `json:"name"`
	ServiceType       string     `json:"serviceType,omitempty"`
	Sections          []Section  `json:"sections"`
	EstimatedDuration int        `json:"estimatedDuration"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	DeletedAt         *time.Time `json:"-"`
}

func (t *SetlistTemplate) Identifier() string { return t.ID }

// Validate checks every section and rejects duplicate section names.
func (t *SetlistTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: template name is required", shared.ErrInvalidTemplate)
	}
	seen := make(map[string]bool, len(t.Sections))
	for _, s := range t.Sections {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate section %q", shared.ErrInvalidTemplate, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// TotalSongs sums the target count across sections.
func (t SetlistTemplate) TotalSongs() int {
	total := 0
	for _, s := range t.Sections {
		total += s.Count
	}
	return total
}
