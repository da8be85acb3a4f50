package setlist

import "github.com/desertthunder/chosen/internal/models"

// Unassigned is shown for leader roles nobody fills.
const Unassigned = "Unassigned"

// SummaryEntry is a display row for one song.
type SummaryEntry struct {
	Title        string `json:"title"`
	OriginalKey  string `json:"originalKey"`
	PreferredKey string `json:"preferredKey"`
	Order        int    `json:"order"`
}

// SectionSummary lists a section's songs. Target is zero unless a template was supplied.
type SectionSummary struct {
	Name   string         `json:"name"`
	Songs  []SummaryEntry `json:"songs"`
	Target int            `json:"target,omitempty"`
}

// Short reports whether the section holds fewer songs than its template asked for.
func (s SectionSummary) Short() bool {
	return s.Target > 0 && len(s.Songs) < s.Target
}

// Leaders holds display names for the service leaders.
type Leaders struct {
	Praise          string `json:"praise"`
	Worship         string `json:"worship"`
	MusicalDirector string `json:"musicalDirector"`
}

// Summary is a read-only view of a setlist for presentation.
type Summary struct {
	Title             string           `json:"title"`
	Date              string           `json:"date"`
	EstimatedDuration int              `json:"estimatedDuration"`
	TotalSongs        int              `json:"totalSongs"`
	Leaders           Leaders          `json:"leaders"`
	Sections          []SectionSummary `json:"sections"`
	Shortfalls        []string         `json:"shortfalls,omitempty"`
	Notes             []string         `json:"notes"`
}

// Summarize resolves songs and leaders for display. Entries whose song is unknown are skipped.
func Summarize(setlist *models.GeneratedSetlist, songs []models.Song, users []models.User) Summary {
	songIdx := models.SongIndex(songs)
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	leader := func(id string) string {
		if id == "" {
			return Unassigned
		}
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	summary := Summary{
		Title:             setlist.Title,
		Date:              setlist.Date,
		EstimatedDuration: setlist.EstimatedDuration,
		TotalSongs:        len(setlist.Songs),
		Leaders: Leaders{
			Praise:          leader(setlist.PraiseLeader),
			Worship:         leader(setlist.WorshipLeader),
			MusicalDirector: leader(setlist.MusicalDirector),
		},
		Sections: []SectionSummary{},
		Notes:    append([]string(nil), setlist.Notes...),
	}

	pos := make(map[string]int)
	for _, e := range setlist.Songs {
		song, ok := songIdx[e.SongID]
		if !ok {
			continue
		}
		i, ok := pos[e.Section]
		if !ok {
			i = len(summary.Sections)
			pos[e.Section] = i
			summary.Sections = append(summary.Sections, SectionSummary{Name: e.Section})
		}
		key := e.PreferredKey
		if key == "" {
			key = song.OriginalKey
		}
		summary.Sections[i].Songs = append(summary.Sections[i].Songs, SummaryEntry{
			Title:        song.Title,
			OriginalKey:  song.OriginalKey,
			PreferredKey: key,
			Order:        e.Order,
		})
	}

	return summary
}

// SummarizeWithTemplate is [Summarize] with section targets from tmpl.
//
// Sections appear in template order, including ones the pool left empty, and short sections are
// listed in Shortfalls.
func SummarizeWithTemplate(setlist *models.GeneratedSetlist, songs []models.Song, users []models.User, tmpl models.SetlistTemplate) Summary {
	summary := Summarize(setlist, songs, users)

	byName := make(map[string]SectionSummary, len(summary.Sections))
	for _, s := range summary.Sections {
		byName[s.Name] = s
	}

	sections := make([]SectionSummary, 0, len(tmpl.Sections))
	for _, ts := range tmpl.Sections {
		s := byName[ts.Name]
		s.Name = ts.Name
		s.Target = ts.Count
		delete(byName, ts.Name)
		sections = append(sections, s)
		if s.Short() {
			summary.Shortfalls = append(summary.Shortfalls, ts.Name)
		}
	}
	for _, s := range summary.Sections {
		if _, ok := byName[s.Name]; ok {
			sections = append(sections, s)
		}
	}
	summary.Sections = sections

	return summary
}
