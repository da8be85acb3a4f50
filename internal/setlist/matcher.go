package setlist

import (
	"strings"

	"github.com/desertthunder/chosen/internal/models"
)

// Matcher decides whether a song belongs in a section.
type Matcher interface {
	Match(song models.Song, section models.Section) bool
}

// MatcherFunc adapts a function to [Matcher].
type MatcherFunc func(song models.Song, section models.Section) bool

func (f MatcherFunc) Match(song models.Song, section models.Section) bool { return f(song, section) }

// indicators are extra tag words that imply a section type.
var indicators = map[models.SectionType][]string{
	models.SectionWorship: {"slow", "intimate"},
	models.SectionPraise:  {"fast", "upbeat"},
}

// TagMatcher classifies songs by case-insensitive substrings of their tags.
//
// A song matches a type when a tag contains the type word or one of its indicators. Unless the
// section tempo is mixed, some tag must also contain the tempo word.
var TagMatcher = MatcherFunc(func(song models.Song, section models.Section) bool {
	if !matchesType(song.Tags, section.Type) {
		return false
	}
	if section.Tempo == models.TempoMixed {
		return true
	}
	return song.HasTag(string(section.Tempo))
})

func matchesType(tags []string, t models.SectionType) bool {
	words := append([]string{string(t)}, indicators[t]...)
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		for _, w := range words {
			if strings.Contains(tag, w) {
				return true
			}
		}
	}
	return false
}

// Filter returns the songs in pool that m accepts for section, in pool order. A nil m means
// [TagMatcher].
func Filter(m Matcher, pool []models.Song, section models.Section) []models.Song {
	if m == nil {
		m = TagMatcher
	}
	var out []models.Song
	for _, s := range pool {
		if m.Match(s, section) {
			out = append(out, s)
		}
	}
	return out
}
