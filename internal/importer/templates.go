package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	yaml "go.yaml.in/yaml/v3"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

// templateDoc is one template document. Structure is either a mapping of section name to
// section, kept in document order, or a sequence of sections carrying their own names.
type templateDoc struct {
	Name              string    `yaml:"name"`
	ServiceType       string    `yaml:"serviceType"`
	EstimatedDuration int       `yaml:"estimatedDuration"`
	Structure         yaml.Node `yaml:"structure"`
}

type sectionDoc struct {
	Name  string             `yaml:"name"`
	Count int                `yaml:"count"`
	Type  models.SectionType `yaml:"type"`
	Tempo models.Tempo       `yaml:"tempo"`
}

// ParseTemplates reads one template per YAML document. JSON input is accepted as YAML.
//
// Every template is validated; the first invalid one fails the whole file.
func ParseTemplates(data []byte) ([]models.SetlistTemplate, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var out []models.SetlistTemplate
	for n := 1; ; n++ {
		var doc templateDoc
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: template %d: %v", shared.ErrInvalidTemplate, n, err)
		}

		sections, err := parseStructure(&doc.Structure)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", n, err)
		}

		tmpl := models.SetlistTemplate{
			Name:              doc.Name,
			ServiceType:       doc.ServiceType,
			Sections:          sections,
			EstimatedDuration: doc.EstimatedDuration,
		}
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("template %d: %w", n, err)
		}
		out = append(out, tmpl)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no templates found", shared.ErrInvalidTemplate)
	}
	return out, nil
}

func parseStructure(node *yaml.Node) ([]models.Section, error) {
	switch node.Kind {
	case yaml.MappingNode:
		sections := make([]models.Section, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var s sectionDoc
			if err := node.Content[i+1].Decode(&s); err != nil {
				return nil, fmt.Errorf("%w: section %q: %v", shared.ErrInvalidTemplate, node.Content[i].Value, err)
			}
			s.Name = node.Content[i].Value
			sections = append(sections, s.section())
		}
		return sections, nil
	case yaml.SequenceNode:
		var docs []sectionDoc
		if err := node.Decode(&docs); err != nil {
			return nil, fmt.Errorf("%w: sections: %v", shared.ErrInvalidTemplate, err)
		}
		sections := make([]models.Section, len(docs))
		for i, s := range docs {
			sections[i] = s.section()
		}
		return sections, nil
	case 0:
		return nil, fmt.Errorf("%w: structure is required", shared.ErrInvalidTemplate)
	default:
		return nil, fmt.Errorf("%w: structure must be a mapping or a list", shared.ErrInvalidTemplate)
	}
}

// section converts the document form. An omitted tempo means any tempo.
func (s sectionDoc) section() models.Section {
	if s.Tempo == "" {
		s.Tempo = models.TempoMixed
	}
	return models.Section{Name: s.Name, Count: s.Count, Type: s.Type, Tempo: s.Tempo}
}
