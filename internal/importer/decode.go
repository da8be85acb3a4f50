package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/shared"
)

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// coerceToJSON converts YAML input to JSON bytes so both formats share the strict JSON decoder.
func coerceToJSON(path string, data []byte) ([]byte, error) {
	if !IsYAML(path) {
		return data, nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: yaml unmarshal: %v", shared.ErrInvalidInput, err)
	}

	j, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, fmt.Errorf("%w: yaml->json marshal: %v", shared.ErrInvalidInput, err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}

// decodeList strictly decodes a JSON or YAML array of T.
func decodeList[T any](path string, data []byte) ([]T, error) {
	j, err := coerceToJSON(path, data)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(j))
	dec.DisallowUnknownFields()

	var out []T
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, filepath.Base(path), err)
	}
	return out, nil
}

// ParseSongs decodes a list of songs from a JSON or YAML file's contents.
func ParseSongs(path string, data []byte) ([]SongInput, error) {
	return decodeList[SongInput](path, data)
}

// ParseUsers decodes a list of team members. Each is validated.
func ParseUsers(path string, data []byte) ([]models.User, error) {
	users, err := decodeList[models.User](path, data)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, fmt.Errorf("user %d: %w", i+1, err)
		}
	}
	return users, nil
}

// ParseServices decodes a list of recurring services. Each is validated.
//
// Services default to active unless the file says otherwise.
func ParseServices(path string, data []byte) ([]models.RecurringService, error) {
	type service struct {
		models.RecurringService
		Active *bool `json:"active"`
	}

	raw, err := decodeList[service](path, data)
	if err != nil {
		return nil, err
	}

	out := make([]models.RecurringService, len(raw))
	for i, r := range raw {
		out[i] = r.RecurringService
		out[i].Active = r.Active == nil || *r.Active
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("service %d: %w", i+1, err)
		}
	}
	return out, nil
}
