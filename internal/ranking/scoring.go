// Package ranking scores catalog resources against a member's aggregated
// signals and selects the top courses and tools.
package ranking

import (
	"strings"

	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/jonathan/growth-compass/internal/types"
)

// Weights added per matching (resource term, member term) pair.
const (
	challengeWeight = 30
	skillWeight     = 20
	needWeight      = 25
	tagWeight       = 10
)

// ScoreResource returns the relevance of res for the given signals. Every
// matching pair adds its weight; there is no cap and no deduplication.
func ScoreResource(res types.Resource, sig signals.Set) int {
	score := 0
	score += challengeWeight * countMatches(res.TargetChallenges, sig.ChallengeLabels())
	score += skillWeight * countMatches(res.TargetSkills, sig.SkillLabels())
	score += needWeight * countMatches(res.TargetNeeds, sig.NeedLabels())
	score += tagWeight * countMatches(res.Tags, sig.TagTerms())
	return score
}

// countMatches counts the pairs of resource and member terms that match.
func countMatches(resourceTerms, memberTerms []string) int {
	if len(resourceTerms) == 0 || len(memberTerms) == 0 {
		return 0
	}

	n := 0
	for _, rt := range resourceTerms {
		for _, mt := range memberTerms {
			if termsMatch(rt, mt) {
				n++
			}
		}
	}
	return n
}

// termsMatch reports whether either term contains the other, ignoring case.
// Whitespace is significant. Empty terms never match.
func termsMatch(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
