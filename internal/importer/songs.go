package importer

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/music"
	"github.com/desertthunder/chosen/internal/shared"
)

// SongInput is one song in a bulk import file.
type SongInput struct {
	Title       string   `json:"title"`
	OriginalKey string   `json:"originalKey"`
	Tags        []string `json:"tags,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	LyricsURL   string   `json:"lyricsUrl,omitempty"`
	CCLINumber  string   `json:"ccliNumber,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Song converts the input to a catalog song with a trimmed title.
func (in SongInput) Song() models.Song {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Song{
		Title:       strings.TrimSpace(in.Title),
		OriginalKey: strings.TrimSpace(in.OriginalKey),
		Tags:        tags,
		Artist:      in.Artist,
		LyricsURL:   in.LyricsURL,
		CCLINumber:  in.CCLINumber,
	}
}

// ValidateSong reports every problem with song at once.
//
// A title and a key that resolves on the display table are required. A lyrics URL, when present,
// must be absolute.
func ValidateSong(song models.Song) error {
	var errs []error

	if strings.TrimSpace(song.Title) == "" {
		errs = append(errs, fmt.Errorf("%w: song title is required", shared.ErrInvalidInput))
	}

	if !music.ValidKey(song.OriginalKey) {
		errs = append(errs, fmt.Errorf("%w: valid original key is required, got %q", shared.ErrInvalidKey, song.OriginalKey))
	}

	if song.LyricsURL != "" {
		if u, err := url.ParseRequestURI(song.LyricsURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: lyrics url %q is not a valid url", shared.ErrInvalidInput, song.LyricsURL))
		}
	}

	return errors.Join(errs...)
}

// SongError pairs a rejected input with why it was rejected.
type SongError struct {
	Input SongInput
	Err   error
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported   []models.Song
	Errors     []SongError
	Duplicates []string
}

// Success reports whether every non-duplicate input was valid.
func (r ImportResult) Success() bool {
	return len(r.Errors) == 0
}

// ProcessBulkImport validates inputs against the existing catalog.
//
// Titles already in existing, or earlier in the batch, are reported as duplicates and skipped.
// Title comparison ignores case and extra whitespace. Nothing is persisted.
func ProcessBulkImport(inputs []SongInput, existing []models.Song) ImportResult {
	titles := make(map[string]bool, len(existing)+len(inputs))
	for _, s := range existing {
		titles[shared.NormalizeTitle(s.Title)] = true
	}

	result := ImportResult{Imported: []models.Song{}, Errors: []SongError{}, Duplicates: []string{}}
	for _, in := range inputs {
		key := shared.NormalizeTitle(in.Title)
		if key != "" && titles[key] {
			result.Duplicates = append(result.Duplicates, in.Title)
			continue
		}

		song := in.Song()
		if err := ValidateSong(song); err != nil {
			result.Errors = append(result.Errors, SongError{Input: in, Err: err})
			continue
		}

		titles[key] = true
		result.Imported = append(result.Imported, song)
	}

	return result
}

// TagCategory groups common worship tags for reference.
type TagCategory struct {
	Name string
	Tags []string
}

// CommonTags lists the tags worth reaching for when cataloging a song.
var CommonTags = []TagCategory{
	{Name: "style", Tags: []string{"contemporary", "traditional", "hymn", "modern"}},
	{Name: "tempo", Tags: []string{"fast", "slow", "medium", "ballad", "upbeat"}},
	{Name: "theme", Tags: []string{"worship", "praise", "salvation", "grace", "love", "faith", "hope", "peace", "joy"}},
	{Name: "season", Tags: []string{"christmas", "easter", "thanksgiving"}},
	{Name: "usage", Tags: []string{"opening", "closing", "communion", "baptism", "altar-call", "offertory"}},
}

type tagRule struct {
	words []string
	tags  []string
}

var tagRules = []tagRule{
	{words: []string{"praise", "hallelujah"}, tags: []string{"praise"}},
	{words: []string{"worship", "holy"}, tags: []string{"worship"}},
	{words: []string{"love", "heart"}, tags: []string{"love"}},
	{words: []string{"grace", "mercy"}, tags: []string{"grace"}},
	{words: []string{"cross", "blood"}, tags: []string{"salvation"}},
	{words: []string{"joy", "celebrate"}, tags: []string{"joy", "fast"}},
	{words: []string{"peace", "still"}, tags: []string{"peace", "slow"}},
	{words: []string{"alive", "shout", "dance", "celebrate", "rise", "victory"}, tags: []string{"fast", "upbeat"}},
	{words: []string{"still", "quiet", "gentle", "peace", "rest", "whisper"}, tags: []string{"slow", "ballad"}},
}

// SuggestTags proposes tags from words appearing anywhere in title, in rule order without repeats.
func SuggestTags(title string) []string {
	lower := strings.ToLower(title)

	out := []string{}
	for _, rule := range tagRules {
		if !slices.ContainsFunc(rule.words, func(w string) bool { return strings.Contains(lower, w) }) {
			continue
		}
		for _, tag := range rule.tags {
			if !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
	}
	return out
}

// SongTemplate is a starting point for hand-written import files.
const SongTemplate = `[
  {
    "title": "Song Title Here",
    "originalKey": "C",
    "tags": ["worship", "slow"],
    "artist": "Artist Name (optional)",
    "lyricsUrl": "https://example.com/lyrics (optional)",
    "ccliNumber": "1234567 (optional)",
    "notes": "Any notes about the song (optional)"
  }
]
`
