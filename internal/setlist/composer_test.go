package setlist

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"sort"
	"testing"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
	tu "github.com/desertthunder/chosen/internal/testing"
)

func worshipTemplate(count int) models.SetlistTemplate {
	return models.SetlistTemplate{
		ID:                "tmpl1",
		Name:              "Sunday Morning",
		EstimatedDuration: 75,
		Sections:          []models.Section{{Name: "A", Count: count, Type: models.SectionWorship, Tempo: models.TempoSlow}},
	}
}

func TestTagMatcher(t *testing.T) {
	worshipSlow := models.Section{Name: "W", Count: 1, Type: models.SectionWorship, Tempo: models.TempoSlow}
	praiseFast := models.Section{Name: "P", Count: 1, Type: models.SectionPraise, Tempo: models.TempoFast}
	praiseMixed := models.Section{Name: "M", Count: 1, Type: models.SectionPraise, Tempo: models.TempoMixed}

	tc := []struct {
		name    string
		tags    []string
		section models.Section
		want    bool
	}{
		{name: "type and tempo words", tags: []string{"worship", "slow"}, section: worshipSlow, want: true},
		{name: "slow implies worship", tags: []string{"Slow Ballad"}, section: worshipSlow, want: true},
		{name: "intimate implies worship but tempo missing", tags: []string{"intimate"}, section: worshipSlow, want: false},
		{name: "upbeat implies praise", tags: []string{"upbeat", "fast"}, section: praiseFast, want: true},
		{name: "substring match", tags: []string{"high-praise", "faster"}, section: praiseFast, want: true},
		{name: "mixed tempo ignores tempo", tags: []string{"praise"}, section: praiseMixed, want: true},
		{name: "wrong type", tags: []string{"worship", "medium"}, section: praiseMixed, want: false},
		{name: "no tags", tags: nil, section: praiseMixed, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			song := tu.NewSong("s", "Song", "C", tt.tags...)
			if got := TagMatcher.Match(song, tt.section); got != tt.want {
				t.Errorf("Match(%v, %s/%s) = %v, want %v", tt.tags, tt.section.Type, tt.section.Tempo, got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	t.Run("zero value composer", func(t *testing.T) {
		var c Composer
		setlist, err := c.Generate(worshipTemplate(2), tu.WorshipPool(5), nil, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(setlist.Songs) != 2 {
			t.Errorf("expected 2 songs, got %d", len(setlist.Songs))
		}
		if got := Filter(nil, tu.WorshipPool(3), worshipTemplate(1).Sections[0]); len(got) != 3 {
			t.Errorf("nil matcher should fall back to tag matching, got %d songs", len(got))
		}
	})

	t.Run("fills a section from the pool", func(t *testing.T) {
		pool := tu.WorshipPool(5)
		c := NewComposer(WithSeed(7))

		setlist, err := c.Generate(worshipTemplate(2), pool, nil, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if setlist.ID != "setlist_auto_svc1_20250309" {
			t.Errorf("unexpected id %s", setlist.ID)
		}
		if len(setlist.Songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(setlist.Songs))
		}

		idx := models.SongIndex(pool)
		for i, e := range setlist.Songs {
			if e.Section != "A" {
				t.Errorf("entry %d in section %q, want A", i, e.Section)
			}
			if e.Order != i+1 {
				t.Errorf("entry %d has order %d", i, e.Order)
			}
			if e.PreferredKey != idx[e.SongID].OriginalKey {
				t.Errorf("entry %d preferred key %s, want original %s", i, e.PreferredKey, idx[e.SongID].OriginalKey)
			}
			if e.Notes != "Auto-generated for A section" {
				t.Errorf("unexpected entry note %q", e.Notes)
			}
		}

		if setlist.Songs[0].SongID == setlist.Songs[1].SongID {
			t.Error("expected distinct songs within a section")
		}
		if setlist.EstimatedDuration != 75 {
			t.Errorf("expected duration copied from template, got %d", setlist.EstimatedDuration)
		}
		if want := []string{"A: 2 worship song(s) (slow tempo)"}; !reflect.DeepEqual(setlist.Notes, want) {
			t.Errorf("notes = %v, want %v", setlist.Notes, want)
		}
		if setlist.Title != "Sunday Morning - Mar 9, 2025" {
			t.Errorf("unexpected title %q", setlist.Title)
		}
	})

	t.Run("shortfall yields a shorter section", func(t *testing.T) {
		pool := []models.Song{
			tu.NewSong("w1", "Only Worship", "D", "worship", "slow"),
			tu.NewSong("p1", "Praise", "G", "praise", "fast"),
		}

		setlist, err := NewComposer(WithSeed(1)).Generate(worshipTemplate(3), pool, nil, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("expected no error for shortfall, got %v", err)
		}
		if len(setlist.Songs) != 1 || setlist.Songs[0].SongID != "w1" {
			t.Errorf("expected exactly w1, got %+v", setlist.Songs)
		}
	})

	t.Run("orders continue across sections", func(t *testing.T) {
		pool := append(tu.WorshipPool(4),
			tu.NewSong("p1", "Shout", "A", "praise", "fast"),
			tu.NewSong("p2", "Dance", "B", "upbeat", "fast"),
		)
		tmpl := models.SetlistTemplate{
			Name: "Full",
			Sections: []models.Section{
				{Name: "Opening", Count: 2, Type: models.SectionPraise, Tempo: models.TempoFast},
				{Name: "Worship", Count: 3, Type: models.SectionWorship, Tempo: models.TempoMixed},
			},
		}

		setlist, err := NewComposer(WithSeed(3)).Generate(tmpl, pool, nil, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(setlist.Songs) != 5 {
			t.Fatalf("expected 5 songs, got %d", len(setlist.Songs))
		}
		for i, e := range setlist.Songs {
			if e.Order != i+1 {
				t.Errorf("entry %d has order %d", i, e.Order)
			}
			want := "Opening"
			if i >= 2 {
				want = "Worship"
			}
			if e.Section != want {
				t.Errorf("entry %d in %s, want %s", i, e.Section, want)
			}
		}
		if len(setlist.Notes) != 2 {
			t.Errorf("expected one note per section, got %v", setlist.Notes)
		}
	})

	t.Run("same seed gives same setlist", func(t *testing.T) {
		pool := tu.WorshipPool(10)
		a, _ := NewComposer(WithSeed(99)).Generate(worshipTemplate(4), pool, nil, "2025-03-09", "svc1")
		b, _ := NewComposer(WithRand(rand.New(rand.NewPCG(99, 99)))).Generate(worshipTemplate(4), pool, nil, "2025-03-09", "svc1")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("expected identical setlists for identical seeds")
		}
	})

	t.Run("invalid template is rejected", func(t *testing.T) {
		_, err := NewComposer().Generate(worshipTemplate(0), tu.WorshipPool(3), nil, "2025-03-09", "svc1")
		if !errors.Is(err, shared.ErrInvalidTemplate) {
			t.Errorf("expected ErrInvalidTemplate, got %v", err)
		}
	})

	t.Run("invalid date is rejected", func(t *testing.T) {
		_, err := NewComposer().Generate(worshipTemplate(1), tu.WorshipPool(3), nil, "March 9", "svc1")
		if !errors.Is(err, shared.ErrInvalidDate) {
			t.Errorf("expected ErrInvalidDate, got %v", err)
		}
	})

	t.Run("does not mutate the pool", func(t *testing.T) {
		pool := tu.WorshipPool(6)
		before := make([]models.Song, len(pool))
		copy(before, pool)

		if _, err := NewComposer(WithSeed(5)).Generate(worshipTemplate(3), pool, nil, "2025-03-09", "svc1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(pool, before) {
			t.Error("pool order or contents changed")
		}
	})

	t.Run("unique songs across sections", func(t *testing.T) {
		pool := tu.WorshipPool(3)
		tmpl := models.SetlistTemplate{
			Name: "Two Sets",
			Sections: []models.Section{
				{Name: "First", Count: 2, Type: models.SectionWorship, Tempo: models.TempoSlow},
				{Name: "Second", Count: 2, Type: models.SectionWorship, Tempo: models.TempoSlow},
			},
		}

		setlist, err := NewComposer(WithSeed(11), WithUniqueSongs()).Generate(tmpl, pool, nil, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(setlist.Songs) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(setlist.Songs))
		}
		ids := []string{}
		for _, e := range setlist.Songs {
			ids = append(ids, e.SongID)
		}
		sort.Strings(ids)
		if !reflect.DeepEqual(ids, []string{"wa", "wb", "wc"}) {
			t.Errorf("expected each song once, got %v", ids)
		}
	})

	t.Run("custom matcher", func(t *testing.T) {
		pool := tu.WorshipPool(3)
		none := MatcherFunc(func(models.Song, models.Section) bool { return false })

		setlist, err := NewComposer(WithMatcher(none)).Generate(worshipTemplate(2), pool, nil, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(setlist.Songs) != 0 {
			t.Errorf("expected no songs, got %d", len(setlist.Songs))
		}
	})
}

func TestAssignLeaders(t *testing.T) {
	users := []models.User{
		tu.NewUser("u1", "Ana", "", models.RoleLeader),
		tu.NewUser("u2", "Ben", "", models.RoleWorship, models.RolePraise),
		tu.NewUser("u3", "Cy", "", models.RolePraise),
		tu.NewUser("u4", "Dee", "G", models.RoleMusicalDirector),
	}

	t.Run("first role match in input order", func(t *testing.T) {
		setlist, err := NewComposer(WithSeed(1)).Generate(worshipTemplate(1), tu.WorshipPool(2), users, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if setlist.PraiseLeader != "u2" || setlist.WorshipLeader != "u2" || setlist.MusicalDirector != "u4" {
			t.Errorf("unexpected leaders: praise=%s worship=%s md=%s", setlist.PraiseLeader, setlist.WorshipLeader, setlist.MusicalDirector)
		}
	})

	t.Run("missing role stays unassigned", func(t *testing.T) {
		setlist, err := NewComposer(WithSeed(1)).Generate(worshipTemplate(1), tu.WorshipPool(2), users[:1], "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if setlist.PraiseLeader != "" || setlist.WorshipLeader != "" || setlist.MusicalDirector != "" {
			t.Errorf("expected no leaders, got %+v", setlist)
		}
	})

	t.Run("availability skips unavailable users", func(t *testing.T) {
		away := []models.UserAvailability{{UserID: "u2", UnavailableFrom: "2025-03-01", UnavailableTo: "2025-03-15"}}
		setlist, err := NewComposer(WithSeed(1), WithAvailability(away)).Generate(worshipTemplate(1), tu.WorshipPool(2), users, "2025-03-09", "svc1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if setlist.PraiseLeader != "u3" {
			t.Errorf("expected u3 to lead praise, got %s", setlist.PraiseLeader)
		}
		if setlist.WorshipLeader != "" {
			t.Errorf("expected worship unassigned, got %s", setlist.WorshipLeader)
		}
	})
}
