package music

import (
	"errors"
	"testing"

	"github.com/desertthunder/chosen/internal/shared"
)

func TestIndex(t *testing.T) {
	tc := []struct {
		key  string
		want int
	}{
		{key: "C", want: 0},
		{key: "C#", want: 1},
		{key: "C#/Db", want: 1},
		{key: "D", want: 2},
		{key: "F#/Gb", want: 6},
		{key: "g", want: 7},
		{key: " A ", want: 9},
		{key: "A#", want: 10},
		{key: "B", want: 11},
	}

	for _, tt := range tc {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Index(tt.key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Index(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "H", "Db", "Bb", "E#", "/"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			if _, err := Index(bad); !errors.Is(err, shared.ErrInvalidKey) {
				t.Errorf("expected ErrInvalidKey for %q, got %v", bad, err)
			}
		})
	}
}

func TestCalculateTransposition(t *testing.T) {
	tc := []struct {
		name      string
		from, to  string
		semitones int
		direction Direction
		capo      int
		desc      string
	}{
		{name: "same key", from: "G", to: "G", semitones: 0, direction: DirectionSame, desc: "Same key"},
		{name: "one up", from: "C", to: "C#", semitones: 1, direction: DirectionUp, capo: 1, desc: "1 semitone up"},
		{name: "whole step up", from: "G", to: "A", semitones: 2, direction: DirectionUp, capo: 2, desc: "2 semitones up"},
		{name: "tritone is up", from: "C", to: "F#/Gb", semitones: 6, direction: DirectionUp, capo: 6, desc: "6 semitones up"},
		{name: "seven is down five", from: "C", to: "G", semitones: 7, direction: DirectionDown, desc: "5 semitones down"},
		{name: "half step down", from: "D", to: "C#/Db", semitones: 11, direction: DirectionDown, desc: "1 semitone down"},
		{name: "wraps", from: "A", to: "C", semitones: 3, direction: DirectionUp, capo: 3, desc: "3 semitones up"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			info, err := CalculateTransposition(tt.from, tt.to)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Semitones != tt.semitones {
				t.Errorf("semitones = %d, want %d", info.Semitones, tt.semitones)
			}
			if info.Direction != tt.direction {
				t.Errorf("direction = %s, want %s", info.Direction, tt.direction)
			}
			if info.CapoSuggestion != tt.capo {
				t.Errorf("capo = %d, want %d", info.CapoSuggestion, tt.capo)
			}
			if info.Description != tt.desc {
				t.Errorf("description = %q, want %q", info.Description, tt.desc)
			}
		})
	}

	t.Run("invalid keys", func(t *testing.T) {
		if _, err := CalculateTransposition("X", "C"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
		if _, err := CalculateTransposition("C", "Bb"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})

	t.Run("every pair is in range and inverts", func(t *testing.T) {
		for _, a := range Scale {
			for _, b := range Scale {
				ab, err := CalculateTransposition(a, b)
				if err != nil {
					t.Fatalf("unexpected error for %s->%s: %v", a, b, err)
				}
				ba, err := CalculateTransposition(b, a)
				if err != nil {
					t.Fatalf("unexpected error for %s->%s: %v", b, a, err)
				}
				if ab.Semitones < 0 || ab.Semitones > 11 {
					t.Errorf("%s->%s semitones %d out of range", a, b, ab.Semitones)
				}
				if ba.Semitones != (12-ab.Semitones)%12 {
					t.Errorf("%s->%s = %d but %s->%s = %d", a, b, ab.Semitones, b, a, ba.Semitones)
				}
				if a == b && (ab.Semitones != 0 || ab.Direction != DirectionSame) {
					t.Errorf("%s->%s expected same key, got %+v", a, b, ab)
				}
			}
		}
	})

	t.Run("Magnitude", func(t *testing.T) {
		info, _ := CalculateTransposition("C", "A")
		if info.Magnitude() != 3 {
			t.Errorf("expected magnitude 3 down, got %d", info.Magnitude())
		}
	})
}

func TestCapoKey(t *testing.T) {
	for _, k := range Scale {
		if got := CapoKey(k, 0); got != k {
			t.Errorf("CapoKey(%s, 0) = %s", k, got)
		}
		if got := CapoKey(k, 12); got != k {
			t.Errorf("CapoKey(%s, 12) = %s", k, got)
		}
	}

	if got := CapoKey("G", 2); got != "A" {
		t.Errorf("CapoKey(G, 2) = %s, want A", got)
	}
	if got := CapoKey("A#", 3); got != "C#/Db" {
		t.Errorf("CapoKey(A#, 3) = %s, want C#/Db", got)
	}
	if got := CapoKey("Bb", 2); got != "Bb" {
		t.Errorf("expected unresolvable key to pass through, got %s", got)
	}
}

func TestTranspose(t *testing.T) {
	got, err := Transpose("D", -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "B" {
		t.Errorf("Transpose(D, -3) = %s, want B", got)
	}

	if _, err := Transpose("Q", 1); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestTranspositionChart(t *testing.T) {
	t.Run("most common key", func(t *testing.T) {
		chart, err := NewTranspositionChart("G", []Preference{
			{UserID: "u1", Key: "A"},
			{UserID: "u2", Key: "E"},
			{UserID: "u3", Key: "E"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if chart.MostCommonKey != "E" {
			t.Errorf("expected E, got %s", chart.MostCommonKey)
		}
		if chart.KeyFrequency["E"] != 2 || chart.KeyFrequency["A"] != 1 {
			t.Errorf("unexpected frequency %v", chart.KeyFrequency)
		}
		if len(chart.Suggestions) != 3 {
			t.Fatalf("expected 3 suggestions, got %d", len(chart.Suggestions))
		}
		if chart.Suggestions[0].Transposition.Semitones != 2 {
			t.Errorf("expected G->A to be 2 semitones, got %d", chart.Suggestions[0].Transposition.Semitones)
		}
	})

	t.Run("ties go to the first requested key", func(t *testing.T) {
		chart, err := NewTranspositionChart("C", []Preference{
			{UserID: "u1", Key: "D"},
			{UserID: "u2", Key: "F"},
			{UserID: "u3", Key: "F"},
			{UserID: "u4", Key: "D"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if chart.MostCommonKey != "D" {
			t.Errorf("expected D, got %s", chart.MostCommonKey)
		}
	})

	t.Run("empty preferences", func(t *testing.T) {
		chart, err := NewTranspositionChart("C", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if chart.MostCommonKey != "" || len(chart.Suggestions) != 0 {
			t.Errorf("expected empty chart, got %+v", chart)
		}
	})

	t.Run("invalid preference", func(t *testing.T) {
		if _, err := NewTranspositionChart("C", []Preference{{UserID: "u1", Key: "Bb"}}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})
}
