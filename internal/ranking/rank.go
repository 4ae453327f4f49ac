package ranking

import (
	"sort"

	"github.com/jonathan/growth-compass/internal/catalog"
	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/jonathan/growth-compass/internal/types"
)

// Result sizes per resource type.
const (
	MaxCourses = 5
	MaxTools   = 3
)

// Ranked holds the selected courses and tools, best first.
type Ranked struct {
	Courses []types.ScoredResource `json:"courses"`
	Tools   []types.ScoredResource `json:"tools"`
}

// RankCatalog scores courses and tools independently and keeps the best of
// each. Resources with equal scores keep catalog order, and a score of zero
// is still eligible.
func RankCatalog(cat *catalog.Catalog, sig signals.Set) Ranked {
	if cat == nil {
		return Ranked{Courses: []types.ScoredResource{}, Tools: []types.ScoredResource{}}
	}
	return Ranked{
		Courses: rankResources(cat.Courses, sig, MaxCourses),
		Tools:   rankResources(cat.Tools, sig, MaxTools),
	}
}

func rankResources(resources []types.Resource, sig signals.Set, limit int) []types.ScoredResource {
	scored := make([]types.ScoredResource, 0, len(resources))
	for _, res := range resources {
		scored = append(scored, types.ScoredResource{
			Resource:       res,
			RelevanceScore: ScoreResource(res, sig),
		})
	}

	// Sort by relevance score (descending), catalog order on ties
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
