package scoring

import "sort"

// DimensionScore is the final score of one dimension.
type DimensionScore struct {
	Dimension string  `json:"dimension"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Answered  int     `json:"answered"`
	Reverse   bool    `json:"reverse,omitempty"`
	Level     string  `json:"level,omitempty"`
}

// DimensionResult is the output of ScoreDimensions.
type DimensionResult struct {
	// Ranked holds answered dimensions, highest score first.
	Ranked []DimensionScore `json:"ranked"`
	// All holds every dimension in declared order, unanswered ones at 0.
	All     []DimensionScore `json:"all"`
	Overall float64          `json:"overall"`
	Level   string           `json:"level"`
}

// ScoreDimensions averages the answers of each dimension, inverting the
// scale for reverse dimensions, and derives the overall score and level.
func ScoreDimensions(cfg *AssessmentConfig, answers AnswerSet) DimensionResult {
	maxScale := cfg.MaxScale
	if maxScale == 0 {
		maxScale = DefaultMaxScale
	}

	result := DimensionResult{
		Ranked: make([]DimensionScore, 0, len(cfg.Dimensions)),
		All:    make([]DimensionScore, 0, len(cfg.Dimensions)),
	}

	total := 0.0
	for _, dim := range cfg.Dimensions {
		score := DimensionScore{
			Dimension: dim.Name,
			Label:     dim.Label,
			Reverse:   dim.Reverse,
		}

		sum := 0
		for _, qid := range dim.Questions {
			if v, ok := answers.Value(qid); ok {
				sum += v
				score.Answered++
			}
		}

		if score.Answered > 0 {
			average := float64(sum) / float64(score.Answered)
			if dim.Reverse {
				average = float64(maxScale+1) - average
			}
			score.Score = average
			score.Level = cfg.Bands.Level(average)
			total += average
			result.Ranked = append(result.Ranked, score)
		}
		result.All = append(result.All, score)
	}

	sort.SliceStable(result.Ranked, func(i, j int) bool {
		return result.Ranked[i].Score > result.Ranked[j].Score
	})

	if len(result.Ranked) > 0 {
		result.Overall = total / float64(len(result.Ranked))
	}
	result.Level = cfg.Bands.Level(result.Overall)

	return result
}
