package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/growth-compass/internal/scoring"
	"github.com/jonathan/growth-compass/internal/server/middleware"
	"github.com/jonathan/growth-compass/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// AssessmentSummary is the list view of an assessment.
type AssessmentSummary struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Kind          scoring.Kind `json:"kind"`
	QuestionCount int          `json:"questionCount"`
}

// ScoreResponse is returned by the stateless scoring endpoint.
type ScoreResponse struct {
	Result   *scoring.Result `json:"result"`
	Insights map[string]any  `json:"insights"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAssessments(w http.ResponseWriter, _ *http.Request) {
	configs := s.registry.List()
	out := make([]AssessmentSummary, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, AssessmentSummary{
			ID:            cfg.ID,
			Title:         cfg.Title,
			Description:   cfg.Description,
			Kind:          cfg.Kind,
			QuestionCount: len(cfg.Questions),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"assessments": out})
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.lookupAssessment(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cfg)
}

// handleScore scores answers without storing anything.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	sub, err := s.scoreRequest(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ScoreResponse{
		Result:   sub.result,
		Insights: scoring.BuildInsights(sub.cfg, sub.result),
	})
}

// handleSaveResult scores answers and stores the result for the caller.
func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "result storage"})
		return
	}

	email, err := middleware.GetEmail(r)
	if err != nil {
		s.errorFromErr(w, &ErrUnauthorized{})
		return
	}

	sub, err := s.scoreRequest(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	if _, err := s.results.UpsertProfile(r.Context(), email, middleware.GetName(r)); err != nil {
		s.logger.Error("failed to upsert profile", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to save assessment result")
		return
	}

	saved, err := s.results.SaveAssessmentResult(r.Context(), types.AssessmentResult{
		Email:          email,
		AssessmentType: sub.cfg.ID,
		Insights:       scoring.BuildInsights(sub.cfg, sub.result),
		Responses:      scoring.BuildResponses(sub.answers, sub.priorities),
	})
	if err != nil {
		s.logger.Error("failed to save assessment result", zap.String("assessment", sub.cfg.ID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to save assessment result")
		return
	}

	s.jsonResponse(w, http.StatusCreated, saved)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.recommender == nil {
		s.errorFromErr(w, &ErrUnavailable{Feature: "recommendations"})
		return
	}

	email, err := middleware.GetEmail(r)
	if err != nil {
		s.errorFromErr(w, &ErrUnauthorized{})
		return
	}

	rec, err := s.recommender.Recommend(r.Context(), email)
	if err != nil {
		s.logger.Error("failed to generate recommendations", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate recommendations")
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.catalog)
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, ok := s.catalog.Find(id)
	if !ok {
		s.errorFromErr(w, &ErrResourceNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) lookupAssessment(r *http.Request) (*scoring.AssessmentConfig, error) {
	id := r.PathValue("id")
	cfg, ok := s.registry.Get(id)
	if !ok {
		return nil, &ErrAssessmentNotFound{ID: id}
	}
	return cfg, nil
}

// submission is a decoded, validated and scored request.
type submission struct {
	cfg        *scoring.AssessmentConfig
	result     *scoring.Result
	answers    scoring.AnswerSet
	priorities []string
}

// scoreRequest decodes and validates a submission and scores it.
func (s *Server) scoreRequest(r *http.Request) (*submission, error) {
	cfg, err := s.lookupAssessment(r)
	if err != nil {
		return nil, err
	}

	req, err := decodeSubmission(r.Body)
	if err != nil {
		return nil, err
	}

	for _, a := range req.Answers {
		if !cfg.HasQuestion(a.QuestionID) {
			return nil, &ErrValidation{Field: "answers", Message: fmt.Sprintf("unknown question %q", a.QuestionID)}
		}
	}

	answers := scoring.NewAnswerSet(req.Answers...)
	result, err := scoring.Score(cfg, answers)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordScored(cfg.ID)
	return &submission{cfg: cfg, result: result, answers: answers, priorities: req.Priorities}, nil
}

func decodeSubmission(body io.Reader) (*types.SubmitAnswersRequest, error) {
	var req types.SubmitAnswersRequest
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}

	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ErrValidation{Field: fieldPath(verrs[0].Namespace()), Message: verrs[0].Tag()}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return &req, nil
}

// fieldPath turns "SubmitAnswersRequest.Answers[0].Value" into "answers[0].value".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return strings.ToLower(namespace)
}
