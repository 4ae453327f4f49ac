package signals

import (
	"github.com/jonathan/growth-compass/internal/types"
)

// Results written before field names were unified use skillGaps,
// supportNeeds and selectedPriorities. The readers below accept both spellings;
// Canonicalize rewrites a result to the current names before it is stored.

// legacySkillGaps reads insights.skillGaps, either a list or an object of
// lists keyed by area.
func legacySkillGaps(insights map[string]any) []string {
	switch gaps := insights[types.LegacyInsightSkillGaps].(type) {
	case map[string]any:
		var out []string
		for _, key := range sortedKeys(gaps) {
			out = append(out, stringList(gaps[key])...)
		}
		return out
	default:
		return stringList(gaps)
	}
}

// legacyResponsePriorities reads responses.priorities, falling back to
// responses.selectedPriorities when the current field holds no labels
// (absent, null, empty or not a list).
func legacyResponsePriorities(responses map[string]any) []string {
	if current := stringList(responses[types.ResponsePriorities]); current != nil {
		return current
	}
	return stringList(responses[types.LegacyResponseSelectedPriorities])
}

// Canonicalize returns copies of insights and responses with legacy fields
// merged into their current names. Applying it twice gives the same result,
// and the aggregate of a canonicalized result equals the aggregate of the
// original.
func Canonicalize(insights, responses map[string]any) (map[string]any, map[string]any) {
	outInsights := copyMap(insights)
	outResponses := copyMap(responses)

	if _, ok := outInsights[types.LegacyInsightSkillGaps]; ok {
		skills := append(stringList(outInsights[types.InsightSkillsToImprove]), legacySkillGaps(outInsights)...)
		delete(outInsights, types.LegacyInsightSkillGaps)
		outInsights[types.InsightSkillsToImprove] = toAny(skills)
	}

	if _, ok := outInsights[types.LegacyInsightSupportNeeds]; ok {
		needs := needLabels(outInsights)
		delete(outInsights, types.LegacyInsightSupportNeeds)
		outInsights[types.InsightSupportNeeded] = toAny(needs)
	}

	if _, ok := outResponses[types.LegacyResponseSelectedPriorities]; ok {
		priorities := legacyResponsePriorities(outResponses)
		delete(outResponses, types.LegacyResponseSelectedPriorities)
		outResponses[types.ResponsePriorities] = toAny(priorities)
	}

	return outInsights, outResponses
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
