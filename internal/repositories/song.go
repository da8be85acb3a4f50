package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

const songColumns = `id, sequence, title, artist, original_key, tags, lyrics_url, ccli_number, usage_count, last_used, created_at, updated_at, deleted_at`

// SongRepository implements [models.Repository] for the song catalog.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a song with the next sequence. Songs without an ID get a generated one.
func (r *SongRepository) Create(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if song.ID == "" {
		song.ID = shared.GenerateID()
	}
	now := time.Now()
	song.Sequence = sequence
	song.CreatedAt, song.UpdatedAt = now, now

	tags, err := encodeJSON(tagsOrEmpty(song.Tags))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO songs (id, sequence, title, artist, original_key, tags, lyrics_url, ccli_number, usage_count, last_used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		song.ID,
		song.Sequence,
		song.Title,
		song.Artist,
		song.OriginalKey,
		tags,
		song.LyricsURL,
		song.CCLINumber,
		song.UsageCount,
		song.LastUsed,
		song.CreatedAt,
		song.UpdatedAt,
	)
	if err != nil {
		return insertError("song", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ? AND deleted_at IS NULL`

	song, err := scanSong(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	return song, err
}

// GetByTitle finds a song by title, ignoring case and surrounding whitespace.
func (r *SongRepository) GetByTitle(title string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE lower(trim(title)) = ? AND deleted_at IS NULL LIMIT 1`

	song, err := scanSong(r.db.QueryRow(query, shared.NormalizeTitle(title)))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", shared.ErrSongNotFound, title)
	}
	return song, err
}

// Update modifies an existing song in the database
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tags, err := encodeJSON(tagsOrEmpty(song.Tags))
	if err != nil {
		return err
	}

	now := time.Now()
	song.UpdatedAt = now

	query := `
		UPDATE songs
		SET title = ?, artist = ?, original_key = ?, tags = ?, lyrics_url = ?, ccli_number = ?, usage_count = ?, last_used = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		song.Title,
		song.Artist,
		song.OriginalKey,
		tags,
		song.LyricsURL,
		song.CCLINumber,
		song.UsageCount,
		song.LastUsed,
		now,
		song.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	return checkAffected(result, shared.ErrSongNotFound, song.ID)
}

// RecordUsage bumps the usage count of each added song and releases one use of each released song.
// last_used only moves forward; released songs keep theirs.
func (r *SongRepository) RecordUsage(date string, added, released []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, id := range added {
		_, err := tx.Exec(`
			UPDATE songs SET usage_count = usage_count + 1, last_used = MAX(last_used, ?), updated_at = ?
			WHERE id = ? AND deleted_at IS NULL
		`, date, now, id)
		if err != nil {
			return fmt.Errorf("failed to record usage for %s: %w", id, err)
		}
	}
	for _, id := range released {
		_, err := tx.Exec(`
			UPDATE songs SET usage_count = MAX(usage_count - 1, 0), updated_at = ?
			WHERE id = ? AND deleted_at IS NULL
		`, now, id)
		if err != nil {
			return fmt.Errorf("failed to release usage for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit usage: %w", err)
	}
	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE songs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return checkAffected(result, shared.ErrSongNotFound, id)
}

// List retrieves songs ordered by sequence, excluding soft-deleted songs.
//
// Supported criteria: "tag" (substring match against the tag list) and "artist" (exact).
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE deleted_at IS NULL`
	args := []any{}

	if tag, ok := criteria["tag"].(string); ok && tag != "" {
		query += " AND lower(tags) LIKE ?"
		args = append(args, "%"+strings.ToLower(tag)+"%")
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Catalog returns the whole catalog as values, the shape the composer consumes.
func (r *SongRepository) Catalog() ([]models.Song, error) {
	songs, err := r.List(map[string]any{})
	if err != nil {
		return nil, err
	}
	out := make([]models.Song, len(songs))
	for i, s := range songs {
		out[i] = *s
	}
	return out, nil
}

func scanSong(row rowScanner) (*models.Song, error) {
	var (
		song      models.Song
		tags      string
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&song.ID, &song.Sequence, &song.Title, &song.Artist, &song.OriginalKey, &tags, &song.LyricsURL,
		&song.CCLINumber, &song.UsageCount, &song.LastUsed, &song.CreatedAt, &song.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	if err := decodeJSON(tags, &song.Tags); err != nil {
		return nil, err
	}
	song.DeletedAt = deletedAtPtr(deletedAt)

	return &song, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
