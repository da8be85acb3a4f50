package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/chosen/internal/shared"
)

// Role is a responsibility a team member can take on during a service.
type Role string

const (
	RoleLeader          Role = "leader"
	RoleWorship         Role = "worship"
	RolePraise          Role = "praise"
	RoleMusicalDirector Role = "musical-director"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleLeader, RoleWorship, RolePraise, RoleMusicalDirector:
		return true
	}
	return false
}

// SongPreference overrides a user's default key for a single song.
type SongPreference struct {
	SongID        string `json:"songId"`
	PreferredNote string `json:"preferredNote"`
	Notes         string `json:"notes,omitempty"`
}

// User is a worship team member.
type User struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Email                string           `json:"email,omitempty"`
	Roles                []Role           `json:"roles"`
	Instruments          []string         `json:"instruments,omitempty"`
	DefaultPreferredNote string           `json:"defaultPreferredNote,omitempty"`
	SongPreferences      []SongPreference `json:"songPreferences,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
	DeletedAt            *time.Time       `json:"-"`
}

func (u *User) Identifier() string { return u.ID }

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: user name is required", shared.ErrInvalidInput)
	}
	for _, r := range u.Roles {
		if !r.Valid() {
			return fmt.Errorf("%w: unknown role %q", shared.ErrInvalidInput, r)
		}
	}
	return nil
}

// HasRole reports whether the user holds role r.
func (u User) HasRole(r Role) bool {
	return slices.Contains(u.Roles, r)
}

// PreferenceFor returns the user's preferred note for songID, if one is set.
func (u User) PreferenceFor(songID string) (string, bool) {
	for _, p := range u.SongPreferences {
		if p.SongID == songID && p.PreferredNote != "" {
			return p.PreferredNote, true
		}
	}
	return "", false
}

// UserAvailability records a date range (inclusive, YYYY-MM-DD) during which a user cannot serve.
type UserAvailability struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	UnavailableFrom string `json:"unavailableFrom"`
	UnavailableTo   string `json:"unavailableTo"`
	Reason          string `json:"reason,omitempty"`
}

func (a *UserAvailability) Identifier() string { return a.ID }

func (a *UserAvailability) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("%w: availability requires a user", shared.ErrInvalidInput)
	}
	from, err := shared.ParseDate(a.UnavailableFrom, time.UTC)
	if err != nil {
		return err
	}
	to, err := shared.ParseDate(a.UnavailableTo, time.UTC)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("%w: availability ends before it starts", shared.ErrInvalidInput)
	}
	return nil
}

// Covers reports whether the YYYY-MM-DD date falls inside the unavailable range.
// Dates in this format order lexically, so no parsing is needed.
func (a UserAvailability) Covers(date string) bool {
	return date >= a.UnavailableFrom && date <= a.UnavailableTo
}
