package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

const templateColumns = `id, sequence, name, service_type, structure, estimated_duration, created_at, updated_at, deleted_at`

// TemplateRepository implements [models.Repository] for setlist templates.
//
// Sections are stored as a JSON array so their order survives a round trip.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new TemplateRepository with the given database connection
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(tmpl *models.SetlistTemplate) error {
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "templates")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if tmpl.ID == "" {
		tmpl.ID = shared.GenerateID()
	}
	now := time.Now()
	tmpl.Sequence = sequence
	tmpl.CreatedAt, tmpl.UpdatedAt = now, now

	structure, err := encodeSections(tmpl.Sections)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO setlist_templates (id, sequence, name, service_type, structure, estimated_duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, tmpl.ID, sequence, tmpl.Name, tmpl.ServiceType, structure, tmpl.EstimatedDuration, now, now)
	if err != nil {
		return insertError("template", err)
	}
	return nil
}

// Get retrieves a template by ID, excluding soft-deleted templates
func (r *TemplateRepository) Get(id string) (*models.SetlistTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM setlist_templates WHERE id = ? AND deleted_at IS NULL`

	tmpl, err := scanTemplate(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, id)
	}
	return tmpl, err
}

// GetByName finds the most recent template with the given name.
func (r *TemplateRepository) GetByName(name string) (*models.SetlistTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM setlist_templates WHERE name = ? AND deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`

	tmpl, err := scanTemplate(r.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", shared.ErrTemplateNotFound, name)
	}
	return tmpl, err
}

func (r *TemplateRepository) Update(tmpl *models.SetlistTemplate) error {
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	structure, err := encodeSections(tmpl.Sections)
	if err != nil {
		return err
	}

	now := time.Now()
	tmpl.UpdatedAt = now

	result, err := r.db.Exec(`
		UPDATE setlist_templates
		SET name = ?, service_type = ?, structure = ?, estimated_duration = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, tmpl.Name, tmpl.ServiceType, structure, tmpl.EstimatedDuration, now, tmpl.ID)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	return checkAffected(result, shared.ErrTemplateNotFound, tmpl.ID)
}

// Delete soft-deletes a template by ID
func (r *TemplateRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE setlist_templates SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return checkAffected(result, shared.ErrTemplateNotFound, id)
}

// List retrieves templates ordered by sequence. Supported criteria: "service_type".
func (r *TemplateRepository) List(criteria map[string]any) ([]*models.SetlistTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM setlist_templates WHERE deleted_at IS NULL`
	args := []any{}

	if kind, ok := criteria["service_type"].(string); ok && kind != "" {
		query += " AND service_type = ?"
		args = append(args, kind)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.SetlistTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return templates, nil
}

func encodeSections(sections []models.Section) (string, error) {
	if sections == nil {
		sections = []models.Section{}
	}
	return encodeJSON(sections)
}

func scanTemplate(row rowScanner) (*models.SetlistTemplate, error) {
	var (
		tmpl      models.SetlistTemplate
		structure string
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&tmpl.ID, &tmpl.Sequence, &tmpl.Name, &tmpl.ServiceType, &structure, &tmpl.EstimatedDuration,
		&tmpl.CreatedAt, &tmpl.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	if err := decodeJSON(structure, &tmpl.Sections); err != nil {
		return nil, err
	}
	tmpl.DeletedAt = deletedAtPtr(deletedAt)

	return &tmpl, nil
}
