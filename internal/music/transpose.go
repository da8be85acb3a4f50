package music

import "fmt"

// Direction is the shorter way to move between two keys.
type Direction string

const (
	DirectionSame Direction = "same"
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// maxCapo is the highest capo fret worth suggesting.
const maxCapo = 7

// TranspositionInfo describes the move from one key to another.
//
// Semitones is always the upward distance in [0, 11]. For downward moves the description reports
// the shorter distance 12 - Semitones. CapoSuggestion is zero when no capo is suggested.
type TranspositionInfo struct {
	Semitones      int       `json:"semitones"`
	Direction      Direction `json:"direction"`
	CapoSuggestion int       `json:"capoSuggestion,omitempty"`
	Description    string    `json:"description"`
}

// Magnitude returns the number of semitones travelled in Direction.
func (t TranspositionInfo) Magnitude() int {
	if t.Direction == DirectionDown {
		return 12 - t.Semitones
	}
	return t.Semitones
}

// CalculateTransposition computes the interval from originalKey to targetKey.
func CalculateTransposition(originalKey, targetKey string) (TranspositionInfo, error) {
	from, err := Index(originalKey)
	if err != nil {
		return TranspositionInfo{}, err
	}
	to, err := Index(targetKey)
	if err != nil {
		return TranspositionInfo{}, err
	}

	info := TranspositionInfo{
		Semitones:   mod12(to - from),
		Direction:   DirectionSame,
		Description: "Same key",
	}

	switch {
	case info.Semitones == 0:
	case info.Semitones <= 6:
		info.Direction = DirectionUp
		info.Description = describe(info.Semitones, "up")
		if info.Semitones <= maxCapo {
			info.CapoSuggestion = info.Semitones
		}
	default:
		info.Direction = DirectionDown
		info.Description = describe(12-info.Semitones, "down")
	}

	return info, nil
}

func describe(n int, dir string) string {
	if n == 1 {
		return fmt.Sprintf("1 semitone %s", dir)
	}
	return fmt.Sprintf("%d semitones %s", n, dir)
}

// CapoKey returns the key sounding with a capo on capoFret over chord shapes in originalKey.
//
// Unresolvable keys are returned unchanged; this is advisory output, not validation.
func CapoKey(originalKey string, capoFret int) string {
	i, err := Index(originalKey)
	if err != nil {
		return originalKey
	}
	return Scale[mod12(i+capoFret)]
}

// Transpose moves key by semitones (negative for down) and returns the [Scale] spelling.
func Transpose(key string, semitones int) (string, error) {
	i, err := Index(key)
	if err != nil {
		return "", err
	}
	return Scale[mod12(i+semitones)], nil
}
