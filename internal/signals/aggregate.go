// Package signals turns a member's stored assessment results into ranked
// challenge, skill, support-need and focus-area signals.
package signals

import (
	"sort"
	"strings"

	"github.com/jonathan/growth-compass/internal/types"
)

// DefaultLimit is the number of signals kept per category.
const DefaultLimit = 5

// Set is the aggregated view of a member's results.
type Set struct {
	Challenges   []Signal `json:"challenges"`
	Skills       []Signal `json:"skills"`
	Needs        []Signal `json:"needs"`
	FocusAreas   []Signal `json:"focusAreas"`
	TotalResults int      `json:"totalResults"`
}

// Aggregate counts every signal found in results and keeps the top limit per
// category. Missing or malformed fields are skipped.
func Aggregate(results []types.AssessmentResult, limit int) Set {
	if limit <= 0 {
		limit = DefaultLimit
	}

	challenges := NewCounter(CategoryChallenge)
	skills := NewCounter(CategorySkill)
	needs := NewCounter(CategoryNeed)
	focus := NewCounter(CategoryFocusArea)

	for _, r := range results {
		for _, label := range challengeLabels(r.Insights) {
			challenges.Add(label)
		}
		for _, label := range skillLabels(r.Insights) {
			skills.Add(label)
		}
		for _, label := range needLabels(r.Insights) {
			needs.Add(label)
		}
		for _, id := range priorityIDs(r.Insights, r.Responses) {
			focus.Add(PriorityLabel(id))
		}
	}

	return Set{
		Challenges:   challenges.Top(limit),
		Skills:       skills.Top(limit),
		Needs:        needs.Top(limit),
		FocusAreas:   focus.Top(limit),
		TotalResults: len(results),
	}
}

// ChallengeLabels returns the challenge labels in rank order.
func (s Set) ChallengeLabels() []string { return labels(s.Challenges) }

// SkillLabels returns the skill labels in rank order.
func (s Set) SkillLabels() []string { return labels(s.Skills) }

// NeedLabels returns the support-need labels in rank order.
func (s Set) NeedLabels() []string { return labels(s.Needs) }

// FocusAreaLabels returns the focus-area labels in rank order.
func (s Set) FocusAreaLabels() []string { return labels(s.FocusAreas) }

// TagTerms is the union of all four label lists, deduplicated
// case-insensitively in category order.
func (s Set) TagTerms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]Signal{s.Challenges, s.Skills, s.Needs, s.FocusAreas} {
		for _, sig := range list {
			key := strings.ToLower(sig.Label)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, sig.Label)
		}
	}
	return out
}

// Empty reports whether no signal of any category was found.
func (s Set) Empty() bool {
	return len(s.Challenges) == 0 && len(s.Skills) == 0 && len(s.Needs) == 0 && len(s.FocusAreas) == 0
}

func labels(list []Signal) []string {
	out := make([]string, 0, len(list))
	for _, sig := range list {
		out = append(out, sig.Label)
	}
	return out
}

func challengeLabels(insights map[string]any) []string {
	switch areas := insights[types.InsightMainChallengeAreas].(type) {
	case map[string]any:
		var out []string
		for _, key := range sortedKeys(areas) {
			switch area := areas[key].(type) {
			case map[string]any:
				out = append(out, stringList(area["challenges"])...)
			default:
				out = append(out, stringList(area)...)
			}
		}
		return out
	default:
		return stringList(areas)
	}
}

func skillLabels(insights map[string]any) []string {
	out := stringList(insights[types.InsightSkillsToImprove])
	return append(out, legacySkillGaps(insights)...)
}

func needLabels(insights map[string]any) []string {
	out := stringList(insights[types.InsightSupportNeeded])
	return append(out, stringList(insights[types.LegacyInsightSupportNeeds])...)
}

func priorityIDs(insights, responses map[string]any) []string {
	out := legacyResponsePriorities(responses)
	return append(out, stringList(insights[types.InsightPriorities])...)
}

// stringList extracts the non-empty strings of a list value. Anything that is
// not a list yields nil.
func stringList(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
