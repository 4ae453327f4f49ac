package scoring

import "sort"

// PersonaScore is the summed raw score of one persona (3-15 on a 1-5 scale).
type PersonaScore struct {
	Persona string `json:"persona"`
	Label   string `json:"label"`
	Score   int    `json:"score"`
}

// PersonaResult is the output of ClassifyPersonas.
type PersonaResult struct {
	Primary   PersonaScore   `json:"primary"`
	Secondary []PersonaScore `json:"secondary"`
	Ranked    []PersonaScore `json:"ranked"`
}

// ClassifyPersonas sums each persona's questions, ranks them (ties keep the
// declared order) and selects the primary plus every persona within the
// configured tolerance of it.
func ClassifyPersonas(cfg *AssessmentConfig, answers AnswerSet) PersonaResult {
	tolerance := cfg.PersonaTolerance()

	ranked := make([]PersonaScore, 0, len(cfg.Personas))
	for _, p := range cfg.Personas {
		score := 0
		for _, qid := range p.Questions {
			if v, ok := answers.Value(qid); ok {
				score += v
			}
		}
		ranked = append(ranked, PersonaScore{Persona: p.Name, Label: p.Label, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	result := PersonaResult{
		Secondary: []PersonaScore{},
		Ranked:    ranked,
	}
	if len(ranked) == 0 {
		return result
	}

	result.Primary = ranked[0]
	for _, ps := range ranked[1:] {
		if ps.Score >= result.Primary.Score-tolerance {
			result.Secondary = append(result.Secondary, ps)
		}
	}
	return result
}
