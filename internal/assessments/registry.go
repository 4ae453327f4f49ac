// Package assessments holds the catalog of assessment definitions. Each
// definition is a YAML file embedded at compile time and validated on load.
package assessments

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jonathan/growth-compass/internal/scoring"
	"gopkg.in/yaml.v3"
)

//go:embed definitions/*.yaml
var definitionFiles embed.FS

// Registry is a read-only set of validated assessment definitions keyed by id.
type Registry struct {
	configs map[string]*scoring.AssessmentConfig
	ids     []string
}

// Load parses and validates the embedded definitions.
func Load() (*Registry, error) {
	return LoadFS(definitionFiles, "definitions/*.yaml")
}

// LoadFS parses every file in fsys matching pattern. Any malformed or invalid
// definition fails the whole load.
func LoadFS(fsys fs.FS, pattern string) (*Registry, error) {
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment definitions: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no assessment definitions match %s", pattern)
	}

	r := &Registry{configs: make(map[string]*scoring.AssessmentConfig, len(matches))}
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		if _, exists := r.configs[cfg.ID]; exists {
			return nil, fmt.Errorf("%s: duplicate assessment id %s", path.Base(name), cfg.ID)
		}
		r.configs[cfg.ID] = cfg
		r.ids = append(r.ids, cfg.ID)
	}
	sort.Strings(r.ids)

	return r, nil
}

// Parse decodes a single YAML definition, applies defaults and validates it.
// Unknown fields are rejected.
func Parse(data []byte) (*scoring.AssessmentConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg scoring.AssessmentConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode assessment definition: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the definition with the given id.
func (r *Registry) Get(id string) (*scoring.AssessmentConfig, bool) {
	cfg, ok := r.configs[id]
	return cfg, ok
}

// List returns every definition ordered by id.
func (r *Registry) List() []*scoring.AssessmentConfig {
	out := make([]*scoring.AssessmentConfig, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.configs[id])
	}
	return out
}

// IDs returns the registered assessment ids in sorted order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}
