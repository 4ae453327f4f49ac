package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAssessmentNotFound indicates an unknown assessment id
type ErrAssessmentNotFound struct {
	ID string
}

func (e *ErrAssessmentNotFound) Error() string {
	return fmt.Sprintf("assessment not found: %s", e.ID)
}

// ErrResourceNotFound indicates an unknown catalog resource id
type ErrResourceNotFound struct {
	ID string
}

func (e *ErrResourceNotFound) Error() string {
	return fmt.Sprintf("resource not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing or invalid identity
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized"
}

// ErrUnavailable indicates a dependency the route needs is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s unavailable", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound     *ErrAssessmentNotFound
		noResource   *ErrResourceNotFound
		validation   *ErrValidation
		unauthorized *ErrUnauthorized
		unavailable  *ErrUnavailable
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &noResource):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
