package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/music"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/urfave/cli/v3"
)

// Transpose prints the semitone shift between two keys.
func (r *Runner) Transpose(ctx context.Context, cmd *cli.Command) error {
	from, to := cmd.Args().Get(0), cmd.Args().Get(1)
	if from == "" || to == "" {
		return fmt.Errorf("%w: usage: transpose <from> <to>", shared.ErrMissingArgument)
	}

	info, err := music.CalculateTransposition(from, to)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, false)
	}

	r.writePlain("%s → %s: %s\n", from, to, info.Description)
	if info.CapoSuggestion > 0 {
		r.writePlain("Capo: fret %d\n", info.CapoSuggestion)
	}
	return nil
}

// TransposeCapo prints the sounding key for chord shapes in key with a capo on fret.
func (r *Runner) TransposeCapo(ctx context.Context, cmd *cli.Command) error {
	key, fretArg := cmd.StringArg("key"), cmd.StringArg("fret")
	if key == "" || fretArg == "" {
		return fmt.Errorf("%w: usage: transpose capo <key> <fret>", shared.ErrMissingArgument)
	}
	if !music.ValidKey(key) {
		return fmt.Errorf("%w: %q", shared.ErrInvalidKey, key)
	}

	fret, err := strconv.Atoi(fretArg)
	if err != nil || fret < 0 || fret > 11 {
		return fmt.Errorf("%w: fret must be a number from 0 to 11, got %q", shared.ErrInvalidArgument, fretArg)
	}

	r.writePlain("%s shapes with capo %d sound in %s\n", key, fret, music.CapoKey(key, fret))
	return nil
}

// TransposeChart prints the keys the team prefers for a song and the shift each one needs.
//
// A member's per-song preference wins over their default preferred note. Members with neither are
// left out.
func (r *Runner) TransposeChart(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.Stores()
	if err != nil {
		return err
	}

	song, err := r.findSong(stores, cmd.String("song"))
	if err != nil {
		return err
	}
	team, err := stores.Users.Team()
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}

	chart, err := music.NewTranspositionChart(song.OriginalKey, teamPreferences(team, song.ID))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(chart, cmd.Bool("pretty"))
	}

	names := make(map[string]string, len(team))
	for _, u := range team {
		names[u.ID] = u.Name
	}

	r.writePlainHeader(fmt.Sprintf("%s (original key %s)", song.Title, song.OriginalKey))
	if len(chart.Suggestions) == 0 {
		r.writePlain("No key preferences recorded\n")
		return nil
	}
	for _, s := range chart.Suggestions {
		r.writePlain("%-20s %-3s %s\n", names[s.UserID], s.PreferredKey, s.Transposition.Description)
	}

	keys := make([]string, 0, len(chart.KeyFrequency))
	for k := range chart.KeyFrequency {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r.writePlainln("Most requested: %s", chart.MostCommonKey)
	for _, k := range keys {
		r.writePlain("  %s × %d\n", k, chart.KeyFrequency[k])
	}
	return nil
}

// findSong resolves ref as an ID first, then as a title.
func (r *Runner) findSong(stores *Stores, ref string) (*models.Song, error) {
	song, err := stores.Songs.Get(ref)
	if err == nil {
		return song, nil
	}
	if !errors.Is(err, shared.ErrSongNotFound) {
		return nil, err
	}
	return stores.Songs.GetByTitle(ref)
}

func teamPreferences(team []models.User, songID string) []music.Preference {
	prefs := []music.Preference{}
	for _, u := range team {
		key, ok := u.PreferenceFor(songID)
		if !ok {
			key = u.DefaultPreferredNote
		}
		if key == "" {
			continue
		}
		prefs = append(prefs, music.Preference{UserID: u.ID, Key: key})
	}
	return prefs
}
