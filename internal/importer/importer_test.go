package importer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
	tu "github.com/desertthunder/chosen/internal/testing"
)

func TestValidateSong(t *testing.T) {
	tc := []struct {
		name    string
		song    models.Song
		wantErr []error
	}{
		{name: "valid", song: tu.NewSong("", "Way Maker", "E")},
		{name: "sharp key", song: tu.NewSong("", "Way Maker", "C#")},
		{name: "missing title", song: tu.NewSong("", "  ", "E"), wantErr: []error{shared.ErrInvalidInput}},
		{name: "bad key", song: tu.NewSong("", "Way Maker", "H"), wantErr: []error{shared.ErrInvalidKey}},
		{name: "both", song: tu.NewSong("", "", ""), wantErr: []error{shared.ErrInvalidInput, shared.ErrInvalidKey}},
		{
			name:    "relative lyrics url",
			song:    models.Song{Title: "Way Maker", OriginalKey: "E", LyricsURL: "lyrics/way-maker"},
			wantErr: []error{shared.ErrInvalidInput},
		},
		{
			name: "absolute lyrics url",
			song: models.Song{Title: "Way Maker", OriginalKey: "E", LyricsURL: "https://example.com/way-maker"},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSong(tt.song)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("expected %v in %v", want, err)
				}
			}
		})
	}
}

func TestProcessBulkImport(t *testing.T) {
	existing := []models.Song{tu.NewSong("s1", "Goodness of God", "A")}
	inputs := []SongInput{
		{Title: "goodness of god", OriginalKey: "A"},
		{Title: " Build My Life ", OriginalKey: "G", Tags: []string{"worship"}},
		{Title: "BUILD MY LIFE", OriginalKey: "G"},
		{Title: "No Key", OriginalKey: ""},
		{Title: "Gratitude", OriginalKey: "B"},
	}

	result := ProcessBulkImport(inputs, existing)

	if result.Success() {
		t.Error("expected failure with an invalid song")
	}
	if len(result.Imported) != 2 {
		t.Fatalf("expected 2 imported, got %d", len(result.Imported))
	}
	if result.Imported[0].Title != "Build My Life" {
		t.Errorf("expected trimmed title, got %q", result.Imported[0].Title)
	}
	if want := []string{"goodness of god", "BUILD MY LIFE"}; !reflect.DeepEqual(result.Duplicates, want) {
		t.Errorf("duplicates = %v, want %v", result.Duplicates, want)
	}
	if len(result.Errors) != 1 || result.Errors[0].Input.Title != "No Key" {
		t.Errorf("unexpected errors %+v", result.Errors)
	}

	clean := ProcessBulkImport(inputs[1:2], nil)
	if !clean.Success() || len(clean.Duplicates) != 0 {
		t.Errorf("expected clean import, got %+v", clean)
	}
}

func TestSuggestTags(t *testing.T) {
	tc := []struct {
		title string
		want  []string
	}{
		{"Holy Forever", []string{"worship"}},
		{"Celebrate the Victory", []string{"joy", "fast", "upbeat"}},
		{"Be Still", []string{"peace", "slow", "ballad"}},
		{"Hallelujah, Here Below", []string{"praise"}},
		{"Nothing Matches", []string{}},
	}

	for _, tt := range tc {
		t.Run(tt.title, func(t *testing.T) {
			if got := SuggestTags(tt.title); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SuggestTags(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestParseSongs(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		data := []byte(`[{"title": "Way Maker", "originalKey": "E", "tags": ["worship"]}]`)
		songs, err := ParseSongs("songs.json", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(songs) != 1 || songs[0].OriginalKey != "E" || songs[0].Tags[0] != "worship" {
			t.Errorf("unexpected songs %+v", songs)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		data := []byte("- title: Way Maker\n  originalKey: E\n- title: Gratitude\n  originalKey: B\n  artist: Brandon Lake\n")
		songs, err := ParseSongs("songs.yaml", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(songs) != 2 || songs[1].Artist != "Brandon Lake" {
			t.Errorf("unexpected songs %+v", songs)
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		data := []byte(`[{"title": "Way Maker", "key": "E"}]`)
		if _, err := ParseSongs("songs.json", data); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("template parses", func(t *testing.T) {
		songs, err := ParseSongs("template.json", []byte(SongTemplate))
		if err != nil {
			t.Fatalf("song template should decode: %v", err)
		}
		if len(songs) != 1 {
			t.Errorf("expected one song, got %d", len(songs))
		}
	})
}

func TestParseServicesAndUsers(t *testing.T) {
	t.Run("services default to active", func(t *testing.T) {
		data := []byte(`
- id: sun
  title: Sunday Morning
  dayOfWeek: 0
  time: "10:00"
  setlistReminderDays: 3
  teamReminderDays: 1
- id: wed
  title: Midweek
  dayOfWeek: 3
  time: "19:00"
  active: false
`)
		services, err := ParseServices("services.yml", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(services) != 2 || !services[0].Active || services[1].Active {
			t.Errorf("unexpected services %+v", services)
		}
		if services[0].SetlistReminderDays != 3 {
			t.Errorf("expected 3 reminder days, got %d", services[0].SetlistReminderDays)
		}
	})

	t.Run("invalid service", func(t *testing.T) {
		data := []byte(`[{"id": "x", "title": "X", "dayOfWeek": 8, "time": "10:00"}]`)
		if _, err := ParseServices("services.json", data); !errors.Is(err, shared.ErrInvalidService) {
			t.Errorf("expected ErrInvalidService, got %v", err)
		}
	})

	t.Run("users", func(t *testing.T) {
		data := []byte(`
- id: ana
  name: Ana
  roles: [musical-director, worship]
  defaultPreferredNote: G
  songPreferences:
    - songId: s1
      preferredNote: A
`)
		users, err := ParseUsers("team.yaml", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(users) != 1 || !users[0].HasRole(models.RoleMusicalDirector) {
			t.Fatalf("unexpected users %+v", users)
		}
		if note, ok := users[0].PreferenceFor("s1"); !ok || note != "A" {
			t.Errorf("expected preference A, got %q", note)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		data := []byte(`[{"name": "Ana", "roles": ["drums"]}]`)
		if _, err := ParseUsers("team.json", data); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestParseTemplates(t *testing.T) {
	t.Run("mapping keeps document order", func(t *testing.T) {
		data := []byte(`
name: Sunday Morning
serviceType: sunday
estimatedDuration: 30
structure:
  Opening: {count: 1, type: praise, tempo: fast}
  Worship: {count: 2, type: worship, tempo: slow}
  Altar: {count: 1, type: worship}
  Benediction: {count: 1, type: praise, tempo: medium}
`)
		templates, err := ParseTemplates(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(templates) != 1 {
			t.Fatalf("expected 1 template, got %d", len(templates))
		}

		tmpl := templates[0]
		var names []string
		for _, s := range tmpl.Sections {
			names = append(names, s.Name)
		}
		if want := []string{"Opening", "Worship", "Altar", "Benediction"}; !reflect.DeepEqual(names, want) {
			t.Errorf("sections = %v, want %v", names, want)
		}
		if tmpl.Sections[2].Tempo != models.TempoMixed {
			t.Errorf("expected omitted tempo to be mixed, got %s", tmpl.Sections[2].Tempo)
		}
		if tmpl.EstimatedDuration != 30 || tmpl.TotalSongs() != 5 {
			t.Errorf("unexpected template %+v", tmpl)
		}
	})

	t.Run("list form and multiple documents", func(t *testing.T) {
		data := []byte(`
name: Midweek
structure:
  - {name: Worship, count: 3, type: worship, tempo: slow}
---
name: Youth
structure:
  Praise: {count: 3, type: praise, tempo: fast}
`)
		templates, err := ParseTemplates(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(templates) != 2 || templates[1].Name != "Youth" || templates[0].Sections[0].Count != 3 {
			t.Errorf("unexpected templates %+v", templates)
		}
	})

	t.Run("json is accepted", func(t *testing.T) {
		data := []byte(`{"name": "J", "structure": {"B": {"count": 1, "type": "praise", "tempo": "fast"}, "A": {"count": 1, "type": "worship", "tempo": "slow"}}}`)
		templates, err := ParseTemplates(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if templates[0].Sections[0].Name != "B" {
			t.Errorf("expected B first, got %s", templates[0].Sections[0].Name)
		}
	})

	t.Run("errors", func(t *testing.T) {
		for name, data := range map[string]string{
			"empty":         "",
			"no structure":  "name: X\n",
			"zero count":    "name: X\nstructure:\n  A: {count: 0, type: praise, tempo: fast}\n",
			"bad type":      "name: X\nstructure:\n  A: {count: 1, type: hymn, tempo: fast}\n",
			"unknown field": "name: X\ncolor: blue\nstructure:\n  A: {count: 1, type: praise}\n",
			"scalar":        "name: X\nstructure: lots\n",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := ParseTemplates([]byte(data))
				if !errors.Is(err, shared.ErrInvalidTemplate) {
					t.Errorf("expected ErrInvalidTemplate, got %v", err)
				}
				if err != nil && strings.TrimSpace(err.Error()) == "" {
					t.Error("expected a message")
				}
			})
		}
	})
}
