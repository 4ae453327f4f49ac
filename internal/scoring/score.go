package scoring

import "fmt"

// Result is the outcome of scoring one assessment attempt. Exactly one of
// Dimensions or Personas is set, according to Kind.
type Result struct {
	AssessmentID string           `json:"assessmentId"`
	Kind         Kind             `json:"kind"`
	Dimensions   *DimensionResult `json:"dimensions,omitempty"`
	Personas     *PersonaResult   `json:"personas,omitempty"`
}

// Score runs the algorithm selected by the config kind.
func Score(cfg *AssessmentConfig, answers AnswerSet) (*Result, error) {
	result := &Result{AssessmentID: cfg.ID, Kind: cfg.Kind}

	switch cfg.Kind {
	case KindDimensions:
		dims := ScoreDimensions(cfg, answers)
		result.Dimensions = &dims
	case KindPersonas:
		personas := ClassifyPersonas(cfg, answers)
		result.Personas = &personas
	default:
		return nil, fmt.Errorf("unknown assessment kind %q for %s", cfg.Kind, cfg.ID)
	}

	return result, nil
}
