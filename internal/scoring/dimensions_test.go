package scoring

import (
	"testing"

	"github.com/jonathan/growth-compass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burnoutConfig() *AssessmentConfig {
	cfg := &AssessmentConfig{
		ID:   "burnout",
		Kind: KindDimensions,
		Bands: Bands{
			High: 4, Moderate: 3, Low: 2,
			Labels: []string{"High Risk", "Moderate Risk", "Low Risk", "Minimal Risk"},
		},
		Questions: []Question{
			{ID: "e1"}, {ID: "e2"}, {ID: "e3"},
			{ID: "c1"}, {ID: "c2"},
			{ID: "i1"}, {ID: "i2"}, {ID: "i3"},
		},
		Dimensions: []Dimension{
			{Name: "exhaustion", Label: "Exhaustion", Questions: []string{"e1", "e2", "e3"}},
			{Name: "cynicism", Label: "Cynicism", Questions: []string{"c1", "c2"}},
			{Name: "inefficacy", Label: "Inefficacy", Reverse: true, Questions: []string{"i1", "i2", "i3"}},
		},
	}
	cfg.Normalize()
	return cfg
}

func TestScoreDimensions_ExhaustionHighRisk(t *testing.T) {
	cfg := burnoutConfig()
	answers := NewAnswerSet(
		types.Answer{QuestionID: "e1", Value: 5},
		types.Answer{QuestionID: "e2", Value: 5},
		types.Answer{QuestionID: "e3", Value: 5},
	)

	result := ScoreDimensions(cfg, answers)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "exhaustion", result.Ranked[0].Dimension)
	assert.InDelta(t, 5.0, result.Ranked[0].Score, 0.0001)
	assert.Equal(t, "High Risk", result.Ranked[0].Level)
}

func TestScoreDimensions_ReverseScoredInefficacy(t *testing.T) {
	cfg := burnoutConfig()
	answers := NewAnswerSet(
		types.Answer{QuestionID: "i1", Value: 5},
		types.Answer{QuestionID: "i2", Value: 5},
		types.Answer{QuestionID: "i3", Value: 5},
	)

	result := ScoreDimensions(cfg, answers)

	require.Len(t, result.Ranked, 1)
	assert.InDelta(t, 1.0, result.Ranked[0].Score, 0.0001)
	assert.Equal(t, "Minimal Risk", result.Ranked[0].Level)
}

func TestScoreDimensions_ReverseIsSixMinusAverage(t *testing.T) {
	cfg := burnoutConfig()
	for v := 1; v <= 5; v++ {
		answers := NewAnswerSet(
			types.Answer{QuestionID: "i1", Value: v},
			types.Answer{QuestionID: "i2", Value: v},
		)
		result := ScoreDimensions(cfg, answers)
		require.Len(t, result.Ranked, 1)
		assert.InDelta(t, float64(6-v), result.Ranked[0].Score, 0.0001, "value %d", v)
	}
}

func TestScoreDimensions_UnansweredDimensionsExcluded(t *testing.T) {
	cfg := burnoutConfig()
	answers := NewAnswerSet(
		types.Answer{QuestionID: "e1", Value: 4},
		types.Answer{QuestionID: "c1", Value: 2},
	)

	result := ScoreDimensions(cfg, answers)

	require.Len(t, result.All, 3)
	assert.Equal(t, 0.0, result.All[2].Score)
	assert.Equal(t, 0, result.All[2].Answered)
	assert.Empty(t, result.All[2].Level)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "exhaustion", result.Ranked[0].Dimension)
	assert.Equal(t, "cynicism", result.Ranked[1].Dimension)
	assert.InDelta(t, 3.0, result.Overall, 0.0001)
	assert.Equal(t, "Moderate Risk", result.Level)
}

func TestScoreDimensions_OverallAndOrdering(t *testing.T) {
	cfg := burnoutConfig()
	answers := NewAnswerSet(
		types.Answer{QuestionID: "e1", Value: 2},
		types.Answer{QuestionID: "e2", Value: 3},
		types.Answer{QuestionID: "e3", Value: 4},
		types.Answer{QuestionID: "c1", Value: 5},
		types.Answer{QuestionID: "c2", Value: 4},
		types.Answer{QuestionID: "i1", Value: 2},
		types.Answer{QuestionID: "i2", Value: 2},
		types.Answer{QuestionID: "i3", Value: 2},
	)

	result := ScoreDimensions(cfg, answers)

	require.Len(t, result.Ranked, 3)
	assert.Equal(t, "cynicism", result.Ranked[0].Dimension)
	assert.InDelta(t, 4.5, result.Ranked[0].Score, 0.0001)
	assert.Equal(t, "inefficacy", result.Ranked[1].Dimension)
	assert.InDelta(t, 4.0, result.Ranked[1].Score, 0.0001)
	assert.Equal(t, "exhaustion", result.Ranked[2].Dimension)
	assert.InDelta(t, 3.0, result.Ranked[2].Score, 0.0001)
	assert.InDelta(t, 11.5/3.0, result.Overall, 0.0001)
	assert.Equal(t, "Moderate Risk", result.Level)
}

func TestScoreDimensions_EqualScoresKeepDeclaredOrder(t *testing.T) {
	cfg := burnoutConfig()
	answers := NewAnswerSet(
		types.Answer{QuestionID: "e1", Value: 3},
		types.Answer{QuestionID: "c1", Value: 3},
		types.Answer{QuestionID: "i1", Value: 3},
	)

	result := ScoreDimensions(cfg, answers)

	require.Len(t, result.Ranked, 3)
	assert.Equal(t, []string{"exhaustion", "cynicism", "inefficacy"},
		[]string{result.Ranked[0].Dimension, result.Ranked[1].Dimension, result.Ranked[2].Dimension})
}

func TestScoreDimensions_NoAnswers(t *testing.T) {
	result := ScoreDimensions(burnoutConfig(), NewAnswerSet())

	assert.Empty(t, result.Ranked)
	assert.Len(t, result.All, 3)
	assert.Equal(t, 0.0, result.Overall)
	assert.Equal(t, "Minimal Risk", result.Level)
}

func TestScoreDimensions_Deterministic(t *testing.T) {
	cfg := burnoutConfig()
	answers := NewAnswerSet(
		types.Answer{QuestionID: "e1", Value: 4},
		types.Answer{QuestionID: "c2", Value: 1},
		types.Answer{QuestionID: "i3", Value: 3},
	)

	first := ScoreDimensions(cfg, answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreDimensions(cfg, answers))
	}
}

func TestNewAnswerSet_LaterAnswerOverwrites(t *testing.T) {
	answers := NewAnswerSet(
		types.Answer{QuestionID: "e1", Value: 1},
		types.Answer{QuestionID: "e1", Value: 4},
	)

	v, ok := answers.Value("e1")
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Len(t, answers, 1)
}

func TestBands_Level(t *testing.T) {
	b := Bands{High: 4, Moderate: 3, Low: 2, Labels: []string{"A", "B", "C", "D"}}

	assert.Equal(t, "A", b.Level(4))
	assert.Equal(t, "A", b.Level(5))
	assert.Equal(t, "B", b.Level(3.99))
	assert.Equal(t, "C", b.Level(2))
	assert.Equal(t, "D", b.Level(1.99))
	assert.Equal(t, "", Bands{}.Level(3))
}
