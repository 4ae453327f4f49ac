package scoring

import (
	"testing"

	"github.com/jonathan/growth-compass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsights_FlagsTopBands(t *testing.T) {
	cfg := burnoutConfig()
	cfg.Dimensions[0].Challenges = []string{"Energy depletion"}
	cfg.Dimensions[0].Skills = []string{"Boundary setting"}
	cfg.Dimensions[0].Needs = []string{"Workload review"}
	cfg.Dimensions[1].Challenges = []string{"Disengagement"}
	cfg.Dimensions[1].Skills = []string{"Boundary setting", "Reframing"}

	answers := NewAnswerSet(
		types.Answer{QuestionID: "e1", Value: 5},
		types.Answer{QuestionID: "c1", Value: 3},
		types.Answer{QuestionID: "i1", Value: 5}, // reverse: 1.0, not flagged
	)
	result, err := Score(cfg, answers)
	require.NoError(t, err)

	insights := BuildInsights(cfg, result)

	areas, ok := insights[types.InsightMainChallengeAreas].(map[string]any)
	require.True(t, ok)
	assert.Len(t, areas, 2)
	assert.Contains(t, areas, "exhaustion")
	assert.Contains(t, areas, "cynicism")
	assert.NotContains(t, areas, "inefficacy")

	exhaustion := areas["exhaustion"].(map[string]any)
	assert.Equal(t, []any{"Energy depletion"}, exhaustion["challenges"])
	assert.Equal(t, "High Risk", exhaustion["level"])

	assert.Equal(t, []any{"Boundary setting", "Reframing"}, insights[types.InsightSkillsToImprove])
	assert.Equal(t, []any{"Workload review"}, insights[types.InsightSupportNeeded])
	assert.InDelta(t, 3.0, insights["overallScore"].(float64), 0.0001)
}

func TestBuildInsights_Personas(t *testing.T) {
	cfg := personaConfig()
	cfg.Personas[0].Skills = []string{"Delegation"}

	result, err := Score(cfg, answerMap(map[string]int{"q1": 5, "q2": 5, "q3": 5, "q4": 5, "q5": 4, "q6": 4}))
	require.NoError(t, err)

	insights := BuildInsights(cfg, result)

	assert.Equal(t, "builder", insights["primaryPersona"])
	assert.Equal(t, []any{"expert"}, insights["secondaryPersonas"])
	assert.Equal(t, []any{"Delegation"}, insights[types.InsightSkillsToImprove])
}

func TestBuildResponses(t *testing.T) {
	answers := NewAnswerSet(types.Answer{QuestionID: "e1", Value: 2})

	responses := BuildResponses(answers, []string{"growth"})
	assert.Equal(t, map[string]any{"e1": 2}, responses[types.ResponseAnswers])
	assert.Equal(t, []any{"growth"}, responses[types.ResponsePriorities])

	responses = BuildResponses(answers, nil)
	assert.NotContains(t, responses, types.ResponsePriorities)
}
