package scoring

import (
	"github.com/jonathan/growth-compass/internal/types"
)

// flaggedBands is the number of top bands whose dimensions are reported as
// challenge areas (e.g. "High" and "Moderate").
const flaggedBands = 2

// BuildInsights turns a scoring result into the insights object stored with
// the assessment and later read by the signal aggregator.
func BuildInsights(cfg *AssessmentConfig, result *Result) map[string]any {
	switch {
	case result.Dimensions != nil:
		return dimensionInsights(cfg, result.Dimensions)
	case result.Personas != nil:
		return personaInsights(cfg, result.Personas)
	default:
		return map[string]any{}
	}
}

// BuildResponses captures the raw selections of an attempt.
func BuildResponses(answers AnswerSet, priorities []string) map[string]any {
	responses := map[string]any{
		types.ResponseAnswers: answers.Map(),
	}
	if len(priorities) > 0 {
		responses[types.ResponsePriorities] = stringsToAny(priorities)
	}
	return responses
}

func dimensionInsights(cfg *AssessmentConfig, res *DimensionResult) map[string]any {
	byName := make(map[string]Dimension, len(cfg.Dimensions))
	for _, d := range cfg.Dimensions {
		byName[d.Name] = d
	}

	scores := make(map[string]any, len(res.All))
	for _, ds := range res.All {
		if ds.Answered > 0 {
			scores[ds.Dimension] = ds.Score
		}
	}

	areas := make(map[string]any)
	var skills, needs orderedSet
	for _, ds := range res.Ranked {
		if cfg.Bands.rank(ds.Score) >= flaggedBands {
			continue
		}
		dim := byName[ds.Dimension]
		areas[dim.Name] = map[string]any{
			"label":      dim.Label,
			"score":      ds.Score,
			"level":      ds.Level,
			"challenges": stringsToAny(dim.Challenges),
		}
		skills.add(dim.Skills...)
		needs.add(dim.Needs...)
	}

	return map[string]any{
		"dimensionScores":               scores,
		"overallScore":                  res.Overall,
		"level":                         res.Level,
		types.InsightMainChallengeAreas: areas,
		types.InsightSkillsToImprove:    stringsToAny(skills.items),
		types.InsightSupportNeeded:      stringsToAny(needs.items),
	}
}

func personaInsights(cfg *AssessmentConfig, res *PersonaResult) map[string]any {
	scores := make(map[string]any, len(res.Ranked))
	for _, ps := range res.Ranked {
		scores[ps.Persona] = ps.Score
	}

	secondary := make([]string, 0, len(res.Secondary))
	for _, ps := range res.Secondary {
		secondary = append(secondary, ps.Persona)
	}

	var skills orderedSet
	for _, p := range cfg.Personas {
		if p.Name == res.Primary.Persona {
			skills.add(p.Skills...)
			break
		}
	}

	return map[string]any{
		"primaryPersona":             res.Primary.Persona,
		"secondaryPersonas":          stringsToAny(secondary),
		"personaScores":              scores,
		types.InsightSkillsToImprove: stringsToAny(skills.items),
	}
}

// orderedSet keeps the first occurrence of each string.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func (s *orderedSet) add(values ...string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	for _, v := range values {
		if v == "" || s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

// stringsToAny converts to the []any shape JSON decoding produces, so freshly
// built and reloaded insights look the same.
func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
