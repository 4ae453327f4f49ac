// Package types provides type definitions for structured data used throughout the growth-compass system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Answer is a single Likert response (1-5) to one question.
type Answer struct {
	QuestionID string `json:"questionId" yaml:"questionId" validate:"required"`
	Value      int    `json:"value" yaml:"value" validate:"min=1,max=5"`
}

// AssessmentResult is a completed assessment as stored for one user.
// Insights and Responses are free-form JSON objects; readers must treat
// their shape defensively.
type AssessmentResult struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	AssessmentType string         `json:"assessmentType"`
	Insights       map[string]any `json:"insights"`
	Responses      map[string]any `json:"responses"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Profile is the member record a verified email resolves to.
type Profile struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitAnswersRequest is the body accepted by the scoring endpoints.
type SubmitAnswersRequest struct {
	Answers    []Answer `json:"answers" validate:"required,min=1,dive"`
	Priorities []string `json:"priorities,omitempty" validate:"omitempty,dive,required"`
}

// Validate validates the SubmitAnswersRequest using the validator.
func (r *SubmitAnswersRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
