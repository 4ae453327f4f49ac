package scoring

import "github.com/jonathan/growth-compass/internal/types"

// AnswerSet holds at most one value per question id.
type AnswerSet map[string]int

// NewAnswerSet builds an AnswerSet; a later answer for the same question
// replaces an earlier one.
func NewAnswerSet(answers ...types.Answer) AnswerSet {
	set := make(AnswerSet, len(answers))
	for _, a := range answers {
		set.Set(a.QuestionID, a.Value)
	}
	return set
}

// Set records (or overwrites) the answer for a question.
func (s AnswerSet) Set(questionID string, value int) {
	s[questionID] = value
}

// Value returns the answer for a question and whether it was answered.
func (s AnswerSet) Value(questionID string) (int, bool) {
	v, ok := s[questionID]
	return v, ok
}

// Map returns a plain copy suitable for storing as raw responses.
func (s AnswerSet) Map() map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
