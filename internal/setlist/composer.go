package setlist

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

// Composer generates setlists. It is safe for concurrent use.
//
// The zero value matches with [TagMatcher] and draws from an entropy-seeded source.
type Composer struct {
	mu           sync.Mutex
	rng          *rand.Rand
	matcher      Matcher
	availability []models.UserAvailability
	unique       bool
}

// Option configures a [Composer].
type Option func(*Composer)

// WithRand sets the random source used to draw songs.
func WithRand(r *rand.Rand) Option {
	return func(c *Composer) { c.rng = r }
}

// WithSeed seeds the random source deterministically.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithMatcher replaces [TagMatcher].
func WithMatcher(m Matcher) Option {
	return func(c *Composer) { c.matcher = m }
}

// WithAvailability skips leaders who are unavailable on the service date.
//
// Without it the first user holding each role is chosen regardless of their calendar.
func WithAvailability(a []models.UserAvailability) Option {
	return func(c *Composer) { c.availability = a }
}

// WithUniqueSongs keeps a song from being drawn into more than one section.
func WithUniqueSongs() Option {
	return func(c *Composer) { c.unique = true }
}

// NewComposer returns a Composer seeded from system entropy unless an option says otherwise.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{matcher: TagMatcher}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func entropySource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// AutoID returns the stable id of the generated setlist for a service occurrence.
func AutoID(serviceID, date string) string {
	return fmt.Sprintf("setlist_auto_%s_%s", serviceID, strings.ReplaceAll(date, "-", ""))
}

// Generate builds a setlist for serviceID on serviceDate (YYYY-MM-DD) from tmpl.
//
// The template and date are validated before anything is built. Sections the pool cannot fill
// come out short.
func (c *Composer) Generate(tmpl models.SetlistTemplate, songs []models.Song, users []models.User, serviceDate, serviceID string) (*models.GeneratedSetlist, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	date, err := shared.ParseDate(serviceDate, time.UTC)
	if err != nil {
		return nil, err
	}

	setlist := &models.GeneratedSetlist{
		ID:                AutoID(serviceID, serviceDate),
		Title:             fmt.Sprintf("%s - %s", tmpl.Name, date.Format("Jan 2, 2006")),
		Date:              serviceDate,
		ServiceID:         serviceID,
		Songs:             []models.SetlistEntry{},
		EstimatedDuration: tmpl.EstimatedDuration,
		Notes:             []string{},
		Status:            models.SetlistDraft,
	}

	used := make(map[string]bool)
	order := 1
	for _, section := range tmpl.Sections {
		candidates := Filter(c.matcher, songs, section)
		if c.unique {
			candidates = without(candidates, used)
		}

		for _, song := range c.draw(candidates, section.Count) {
			used[song.ID] = true
			setlist.Songs = append(setlist.Songs, models.SetlistEntry{
				SongID:       song.ID,
				Section:      section.Name,
				Order:        order,
				PreferredKey: song.OriginalKey,
				Notes:        fmt.Sprintf("Auto-generated for %s section", section.Name),
			})
			order++
		}

		setlist.Notes = append(setlist.Notes,
			fmt.Sprintf("%s: %d %s song(s) (%s tempo)", section.Name, section.Count, section.Type, section.Tempo))
	}

	leaders := c.assignLeaders(users, serviceDate)
	setlist.PraiseLeader = leaders.praise
	setlist.WorshipLeader = leaders.worship
	setlist.MusicalDirector = leaders.director

	return setlist, nil
}

// draw shuffles a copy of candidates and returns at most n of them.
func (c *Composer) draw(candidates []models.Song, n int) []models.Song {
	pool := make([]models.Song, len(candidates))
	copy(pool, candidates)

	c.mu.Lock()
	if c.rng == nil {
		c.rng = entropySource()
	}
	c.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	c.mu.Unlock()

	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

func without(songs []models.Song, used map[string]bool) []models.Song {
	var out []models.Song
	for _, s := range songs {
		if !used[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

type leaders struct {
	praise   string
	worship  string
	director string
}

// assignLeaders picks, for each leader role, the first user in input order who holds it.
func (c *Composer) assignLeaders(users []models.User, serviceDate string) leaders {
	var l leaders
	first := func(role models.Role) string {
		for _, u := range users {
			if u.HasRole(role) && c.available(u.ID, serviceDate) {
				return u.ID
			}
		}
		return ""
	}
	l.praise = first(models.RolePraise)
	l.worship = first(models.RoleWorship)
	l.director = first(models.RoleMusicalDirector)
	return l
}

func (c *Composer) available(userID, date string) bool {
	for _, a := range c.availability {
		if a.UserID == userID && a.Covers(date) {
			return false
		}
	}
	return true
}
