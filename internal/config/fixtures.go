package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/wodboard/internal/domain/model"
)

// Fixtures is a YAML document listing competitions.
type Fixtures struct {
	Competitions []model.Competition `yaml:"competitions"`
}

// LoadFixtures reads competitions from a YAML file. The file holds either a
// list under "competitions" or a single competition document.
func LoadFixtures(path string) ([]model.Competition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return DecodeFixtures(b)
}

// DecodeFixtures parses a fixtures document.
func DecodeFixtures(b []byte) ([]model.Competition, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var probe map[string]any
	if err := yaml.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixtures, err)
	}
	if _, ok := probe["competitions"]; !ok {
		var c model.Competition
		if err := decodeStrict(b, &c); err != nil {
			return nil, err
		}
		return []model.Competition{c}, nil
	}

	var f Fixtures
	if err := decodeStrict(b, &f); err != nil {
		return nil, err
	}
	return f.Competitions, nil
}

func decodeStrict(b []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidFixtures, err)
	}
	return nil
}
