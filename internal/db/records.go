package db

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/jonathan/growth-compass/internal/types"
)

// NormalizeEmail is the key form used for every lookup and write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// encodedResult is a result ready to be written: canonical field names,
// id and timestamp assigned, JSON columns marshaled.
type encodedResult struct {
	result    types.AssessmentResult
	insights  []byte
	responses []byte
}

func prepareResult(r types.AssessmentResult, now time.Time) (*encodedResult, error) {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return nil, fmt.Errorf("assessment result email is required")
	}
	if strings.TrimSpace(r.AssessmentType) == "" {
		return nil, fmt.Errorf("assessment result type is required")
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.Insights, r.Responses = signals.Canonicalize(r.Insights, r.Responses)

	insights, err := json.Marshal(r.Insights)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal insights: %w", err)
	}
	responses, err := json.Marshal(r.Responses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responses: %w", err)
	}
	return &encodedResult{result: r, insights: insights, responses: responses}, nil
}

// decodeObject unmarshals a JSON column. Anything that is not a JSON object
// decodes to an empty map so readers never see nil.
func decodeObject(raw []byte) map[string]any {
	out := map[string]any{}
	if len(raw) == 0 {
		return out
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return out
	}
	return m
}
