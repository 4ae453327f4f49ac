// Package catalog loads the static resource catalog of courses and tools.
// The default catalog is embedded; an override file can replace it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/growth-compass/internal/schemas"
	"github.com/jonathan/growth-compass/internal/types"
)

//go:embed resources.json
var defaultCatalog []byte

//go:embed resources.schema.json
var catalogSchema []byte

// Catalog is the read-only set of recommendable resources, split by type.
type Catalog struct {
	Courses []types.Resource `json:"courses"`
	Tools   []types.Resource `json:"tools"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load returns the catalog at path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse validates data against the catalog schema and decodes it. Each
// resource takes the type of the list it appears in; ids must be unique
// across both lists.
func Parse(data []byte) (*Catalog, error) {
	if err := schemas.ValidateBytes("resources.schema.json", catalogSchema, data); err != nil {
		return nil, err
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(cat.Courses)+len(cat.Tools))
	for _, part := range []struct {
		kind      types.ResourceType
		resources []types.Resource
	}{
		{types.ResourceCourse, cat.Courses},
		{types.ResourceTool, cat.Tools},
	} {
		for i := range part.resources {
			res := &part.resources[i]
			if res.Type != "" && res.Type != part.kind {
				return nil, fmt.Errorf("resource %s is listed as %s but typed %s", res.ID, part.kind, res.Type)
			}
			res.Type = part.kind
			if seen[res.ID] {
				return nil, fmt.Errorf("duplicate resource id %s", res.ID)
			}
			seen[res.ID] = true
		}
	}

	return &cat, nil
}

// Size returns the total number of resources.
func (c *Catalog) Size() int {
	return len(c.Courses) + len(c.Tools)
}

// Find returns the resource with the given id.
func (c *Catalog) Find(id string) (types.Resource, bool) {
	for _, list := range [][]types.Resource{c.Courses, c.Tools} {
		for _, res := range list {
			if res.ID == id {
				return res, true
			}
		}
	}
	return types.Resource{}, false
}
