package music

// Preference is one team member's requested key for a song.
type Preference struct {
	UserID string `json:"userId"`
	Key    string `json:"preferredKey"`
}

// ChartSuggestion pairs a preference with the transposition it requires.
type ChartSuggestion struct {
	UserID        string            `json:"userId"`
	PreferredKey  string            `json:"preferredKey"`
	Transposition TranspositionInfo `json:"transposition"`
}

// TranspositionChart summarizes the keys a team wants for one song.
type TranspositionChart struct {
	OriginalKey   string            `json:"originalKey"`
	MostCommonKey string            `json:"mostCommonKey,omitempty"`
	Suggestions   []ChartSuggestion `json:"suggestions"`
	KeyFrequency  map[string]int    `json:"keyFrequency"`
}

// NewTranspositionChart computes a transposition for each preference and counts requested keys.
//
// Keys are counted by their literal spelling. When several keys share the highest count the one
// requested first in prefs wins.
func NewTranspositionChart(originalKey string, prefs []Preference) (*TranspositionChart, error) {
	chart := &TranspositionChart{
		OriginalKey:  originalKey,
		Suggestions:  make([]ChartSuggestion, 0, len(prefs)),
		KeyFrequency: make(map[string]int),
	}

	var firstSeen []string
	for _, p := range prefs {
		info, err := CalculateTransposition(originalKey, p.Key)
		if err != nil {
			return nil, err
		}
		chart.Suggestions = append(chart.Suggestions, ChartSuggestion{
			UserID:        p.UserID,
			PreferredKey:  p.Key,
			Transposition: info,
		})
		if chart.KeyFrequency[p.Key] == 0 {
			firstSeen = append(firstSeen, p.Key)
		}
		chart.KeyFrequency[p.Key]++
	}

	best := 0
	for _, k := range firstSeen {
		if n := chart.KeyFrequency[k]; n > best {
			best = n
			chart.MostCommonKey = k
		}
	}

	return chart, nil
}
