package setlist

import (
	"fmt"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/music"
)

// AdjustKeys sets each entry's preferred key from the musical director's preferences.
//
// A per-song preference wins over the director's default, which wins over the song's original
// key. Entries whose song is not in songs are left alone. When the director has no default key the
// setlist is returned as is.
func AdjustKeys(setlist *models.GeneratedSetlist, director models.User, songs []models.Song) *models.GeneratedSetlist {
	if director.DefaultPreferredNote == "" {
		return setlist
	}

	idx := models.SongIndex(songs)
	out := setlist.WithNote(fmt.Sprintf("Keys adjusted for musical director: %s", director.Name))
	for i, entry := range out.Songs {
		song, ok := idx[entry.SongID]
		if !ok {
			continue
		}
		key, ok := director.PreferenceFor(song.ID)
		if !ok {
			key = director.DefaultPreferredNote
		}
		if key == "" {
			key = song.OriginalKey
		}
		out.Songs[i].PreferredKey = key
	}
	return out
}

// OptimizeKeyFlow groups entries by section and orders each section for small key changes.
//
// Sections keep the order in which they first appear. Within a section the first song stays put
// and each following slot takes the remaining song whose key is closest to the previous one, with
// ties going to the song that came first. Orders are renumbered from 1. Applying it twice gives
// the same order as applying it once.
func OptimizeKeyFlow(setlist *models.GeneratedSetlist, songs []models.Song) *models.GeneratedSetlist {
	idx := models.SongIndex(songs)

	var sections []string
	grouped := make(map[string][]models.SetlistEntry)
	for _, e := range setlist.Songs {
		if _, ok := grouped[e.Section]; !ok {
			sections = append(sections, e.Section)
		}
		grouped[e.Section] = append(grouped[e.Section], e)
	}

	out := setlist.WithNote("Song order optimized for key flow")
	out.Songs = make([]models.SetlistEntry, 0, len(setlist.Songs))
	order := 1
	for _, name := range sections {
		for _, e := range smoothKeys(grouped[name], idx) {
			e.Order = order
			out.Songs = append(out.Songs, e)
			order++
		}
	}
	return out
}

// smoothKeys orders entries by greedy nearest key starting from the first entry.
func smoothKeys(entries []models.SetlistEntry, idx map[string]models.Song) []models.SetlistEntry {
	if len(entries) < 3 {
		return entries
	}

	remaining := make([]models.SetlistEntry, len(entries)-1)
	copy(remaining, entries[1:])
	ordered := []models.SetlistEntry{entries[0]}

	for len(remaining) > 0 {
		prev := effectiveKey(ordered[len(ordered)-1], idx)
		best, bestDist := 0, keyDistance(prev, effectiveKey(remaining[0], idx))
		for i := 1; i < len(remaining); i++ {
			if d := keyDistance(prev, effectiveKey(remaining[i], idx)); d < bestDist {
				best, bestDist = i, d
			}
		}
		ordered = append(ordered, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}

func effectiveKey(e models.SetlistEntry, idx map[string]models.Song) string {
	if e.PreferredKey != "" {
		return e.PreferredKey
	}
	return idx[e.SongID].OriginalKey
}

// keyDistance is the shortest semitone distance between two keys. Unresolvable keys sort last.
func keyDistance(a, b string) int {
	info, err := music.CalculateTransposition(a, b)
	if err != nil {
		return 12
	}
	return info.Magnitude()
}
