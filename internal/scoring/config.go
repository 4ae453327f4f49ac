// Package scoring implements the generic Likert scoring engine shared by every
// assessment: dimension averages with reverse scoring, and persona
// classification over summed question groups.
package scoring

import (
	"fmt"
)

// Kind selects which scoring algorithm an assessment uses.
type Kind string

const (
	// KindDimensions averages answers per dimension.
	KindDimensions Kind = "dimensions"
	// KindPersonas sums three answers per persona and picks a primary.
	KindPersonas Kind = "personas"
)

// Defaults applied by Normalize when a definition leaves them unset.
const (
	DefaultMaxScale         = 5
	DefaultPersonaTolerance = 3
	personaQuestionCount    = 3
	maxPersonasPerQuestion  = 3
)

// AssessmentConfig is the declarative definition of one assessment.
type AssessmentConfig struct {
	ID          string      `yaml:"id" json:"id"`
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description" json:"description,omitempty"`
	Kind        Kind        `yaml:"kind" json:"kind"`
	MaxScale    int         `yaml:"maxScale" json:"maxScale"`
	Tolerance   *int        `yaml:"tolerance" json:"tolerance,omitempty"`
	Bands       Bands       `yaml:"bands" json:"bands"`
	Questions   []Question  `yaml:"questions" json:"questions"`
	Dimensions  []Dimension `yaml:"dimensions" json:"dimensions,omitempty"`
	Personas    []Persona   `yaml:"personas" json:"personas,omitempty"`
}

// Question is an immutable prompt in an assessment.
type Question struct {
	ID     string `yaml:"id" json:"id"`
	Prompt string `yaml:"prompt" json:"prompt"`
}

// Dimension is a named axis scored from a subset of questions.
// Reverse marks dimensions where a high raw answer is the healthy outcome.
type Dimension struct {
	Name       string   `yaml:"name" json:"name"`
	Label      string   `yaml:"label" json:"label"`
	Reverse    bool     `yaml:"reverse" json:"reverse,omitempty"`
	Questions  []string `yaml:"questions" json:"questions"`
	Challenges []string `yaml:"challenges" json:"challenges,omitempty"`
	Skills     []string `yaml:"skills" json:"skills,omitempty"`
	Needs      []string `yaml:"needs" json:"needs,omitempty"`
}

// Persona is a behavioral archetype scored from exactly three questions.
type Persona struct {
	Name        string   `yaml:"name" json:"name"`
	Label       string   `yaml:"label" json:"label"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Questions   []string `yaml:"questions" json:"questions"`
	Skills      []string `yaml:"skills" json:"skills,omitempty"`
}

// Bands holds the three descending thresholds and four labels used to
// bucket a score. Labels[0] applies at or above High, Labels[3] below Low.
type Bands struct {
	High     float64  `yaml:"high" json:"high"`
	Moderate float64  `yaml:"moderate" json:"moderate"`
	Low      float64  `yaml:"low" json:"low"`
	Labels   []string `yaml:"labels" json:"labels"`
}

// Level returns the label of the band the score falls into.
func (b Bands) Level(score float64) string {
	if len(b.Labels) != 4 {
		return ""
	}
	switch {
	case score >= b.High:
		return b.Labels[0]
	case score >= b.Moderate:
		return b.Labels[1]
	case score >= b.Low:
		return b.Labels[2]
	default:
		return b.Labels[3]
	}
}

// rank returns the 0-based band index for score (0 = highest band).
func (b Bands) rank(score float64) int {
	switch {
	case score >= b.High:
		return 0
	case score >= b.Moderate:
		return 1
	case score >= b.Low:
		return 2
	default:
		return 3
	}
}

// Normalize fills unset scale and tolerance values with their defaults.
func (c *AssessmentConfig) Normalize() {
	if c.MaxScale == 0 {
		c.MaxScale = DefaultMaxScale
	}
	if c.Kind == KindPersonas && c.Tolerance == nil {
		tolerance := DefaultPersonaTolerance
		c.Tolerance = &tolerance
	}
}

// HasQuestion reports whether id is one of the definition's questions.
func (c *AssessmentConfig) HasQuestion(id string) bool {
	for _, q := range c.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// PersonaTolerance returns the configured tolerance, or the default when unset.
// Zero is a valid setting: only ties with the primary become secondary.
func (c *AssessmentConfig) PersonaTolerance() int {
	if c.Tolerance == nil {
		return DefaultPersonaTolerance
	}
	return *c.Tolerance
}

// Validate checks the structural rules of a definition.
func (c *AssessmentConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("assessment id is required")
	}
	if c.MaxScale < 2 {
		return fmt.Errorf("assessment %s: maxScale must be at least 2, got %d", c.ID, c.MaxScale)
	}

	questions := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("assessment %s: question with empty id", c.ID)
		}
		if questions[q.ID] {
			return fmt.Errorf("assessment %s: duplicate question %s", c.ID, q.ID)
		}
		questions[q.ID] = true
	}

	switch c.Kind {
	case KindDimensions:
		return c.validateDimensions(questions)
	case KindPersonas:
		return c.validatePersonas(questions)
	default:
		return fmt.Errorf("assessment %s: unknown kind %q", c.ID, c.Kind)
	}
}

func (c *AssessmentConfig) validateDimensions(questions map[string]bool) error {
	if len(c.Dimensions) == 0 {
		return fmt.Errorf("assessment %s: at least one dimension is required", c.ID)
	}
	if len(c.Bands.Labels) != 4 {
		return fmt.Errorf("assessment %s: bands need exactly 4 labels, got %d", c.ID, len(c.Bands.Labels))
	}
	if c.Bands.High < c.Bands.Moderate || c.Bands.Moderate < c.Bands.Low {
		return fmt.Errorf("assessment %s: band thresholds must be descending", c.ID)
	}

	names := make(map[string]bool, len(c.Dimensions))
	for _, d := range c.Dimensions {
		if d.Name == "" {
			return fmt.Errorf("assessment %s: dimension with empty name", c.ID)
		}
		if names[d.Name] {
			return fmt.Errorf("assessment %s: duplicate dimension %s", c.ID, d.Name)
		}
		names[d.Name] = true
		if len(d.Questions) == 0 {
			return fmt.Errorf("assessment %s: dimension %s has no questions", c.ID, d.Name)
		}
		for _, qid := range d.Questions {
			if !questions[qid] {
				return fmt.Errorf("assessment %s: dimension %s references unknown question %s", c.ID, d.Name, qid)
			}
		}
	}
	return nil
}

func (c *AssessmentConfig) validatePersonas(questions map[string]bool) error {
	if len(c.Personas) == 0 {
		return fmt.Errorf("assessment %s: at least one persona is required", c.ID)
	}
	if c.Tolerance != nil && *c.Tolerance < 0 {
		return fmt.Errorf("assessment %s: tolerance must be non-negative", c.ID)
	}

	membership := make(map[string]int, len(questions))
	names := make(map[string]bool, len(c.Personas))
	for _, p := range c.Personas {
		if p.Name == "" {
			return fmt.Errorf("assessment %s: persona with empty name", c.ID)
		}
		if names[p.Name] {
			return fmt.Errorf("assessment %s: duplicate persona %s", c.ID, p.Name)
		}
		names[p.Name] = true
		if len(p.Questions) != personaQuestionCount {
			return fmt.Errorf("assessment %s: persona %s needs exactly %d questions, got %d",
				c.ID, p.Name, personaQuestionCount, len(p.Questions))
		}
		seen := make(map[string]bool, personaQuestionCount)
		for _, qid := range p.Questions {
			if !questions[qid] {
				return fmt.Errorf("assessment %s: persona %s references unknown question %s", c.ID, p.Name, qid)
			}
			if seen[qid] {
				return fmt.Errorf("assessment %s: persona %s repeats question %s", c.ID, p.Name, qid)
			}
			seen[qid] = true
			membership[qid]++
		}
	}

	for _, q := range c.Questions {
		n := membership[q.ID]
		if n < 1 || n > maxPersonasPerQuestion {
			return fmt.Errorf("assessment %s: question %s belongs to %d personas (want 1-%d)",
				c.ID, q.ID, n, maxPersonasPerQuestion)
		}
	}
	return nil
}
