package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/growth-compass/internal/assessments"
	"github.com/jonathan/growth-compass/internal/catalog"
	"github.com/jonathan/growth-compass/internal/config"
	"github.com/jonathan/growth-compass/internal/db"
	"github.com/jonathan/growth-compass/internal/observability"
	"github.com/jonathan/growth-compass/internal/recommend"
	"github.com/jonathan/growth-compass/internal/server/ratelimit"
	"github.com/jonathan/growth-compass/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommender struct {
	mu    sync.Mutex
	email string
	rec   *types.Recommendations
	err   error
}

func (f *fakeRecommender) Recommend(_ context.Context, email string) (*types.Recommendations, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
	return f.rec, f.err
}

type fakeResults struct {
	mu       sync.Mutex
	saved    []types.AssessmentResult
	profiles map[string]string
	err      error
}

func (f *fakeResults) UpsertProfile(_ context.Context, email, name string) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.profiles == nil {
		f.profiles = make(map[string]string)
	}
	if name != "" || f.profiles[email] == "" {
		f.profiles[email] = name
	}
	return &types.Profile{Email: email, Name: f.profiles[email]}, nil
}

func (f *fakeResults) SaveAssessmentResult(_ context.Context, r types.AssessmentResult) (*types.AssessmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.saved = append(f.saved, r)
	return &r, nil
}

type testServer struct {
	*Server
	recommender *fakeRecommender
	results     *fakeResults
	jwt         *JWTService
}

func newTestServer(t *testing.T, mutate func(*Deps)) *testServer {
	t.Helper()

	reg, err := assessments.Load()
	require.NoError(t, err)
	cat, err := catalog.Default()
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(promReg)
	require.NoError(t, err)

	jwtService := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 1,
		Issuer:          "compass-test",
	})

	ts := &testServer{
		recommender: &fakeRecommender{rec: types.EmptyRecommendations(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))},
		results:     &fakeResults{},
		jwt:         jwtService,
	}
	deps := Deps{
		Registry:    reg,
		Catalog:     cat,
		Recommender: ts.recommender,
		Results:     ts.results,
		JWT:         jwtService,
		Metrics:     metrics,
		Gatherer:    promReg,
	}
	if mutate != nil {
		mutate(&deps)
	}

	s, err := New(0, deps)
	require.NoError(t, err)
	ts.Server = s
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func (ts *testServer) token(t *testing.T, email string) string {
	t.Helper()
	token, err := ts.jwt.GenerateToken(email)
	require.NoError(t, err)
	return token
}

const burnoutAnswers = `{"answers":[
	{"questionId":"exhaustion-1","value":5},
	{"questionId":"exhaustion-2","value":5},
	{"questionId":"exhaustion-3","value":5},
	{"questionId":"inefficacy-1","value":5},
	{"questionId":"inefficacy-2","value":5},
	{"questionId":"inefficacy-3","value":5}
], "priorities":["wellbeing"]}`

func TestNew_RequiresRegistryAndCatalog(t *testing.T) {
	_, err := New(0, Deps{})
	assert.ErrorContains(t, err, "registry is required")

	reg, err := assessments.Load()
	require.NoError(t, err)
	_, err = New(0, Deps{Registry: reg})
	assert.ErrorContains(t, err, "catalog is required")
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestHandleListAssessments(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodGet, "/assessments", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Assessments []AssessmentSummary `json:"assessments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	ids := make([]string, 0, len(body.Assessments))
	for _, a := range body.Assessments {
		ids = append(ids, a.ID)
		assert.Positive(t, a.QuestionCount)
	}
	assert.Equal(t, []string{"burnout", "career-drivers", "change-style", "trust"}, ids)
}

func TestHandleGetAssessment(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/assessments/burnout", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exhaustion-1"`)

	w = ts.do(t, http.MethodGet, "/assessments/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"assessment not found: nope"}`, w.Body.String())
}

func TestHandleScore(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodPost, "/assessments/burnout/score", burnoutAnswers, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Result struct {
			AssessmentID string `json:"assessmentId"`
			Dimensions   struct {
				All []struct {
					Dimension string  `json:"dimension"`
					Score     float64 `json:"score"`
					Level     string  `json:"level"`
				} `json:"all"`
			} `json:"dimensions"`
		} `json:"result"`
		Insights map[string]any `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "burnout", body.Result.AssessmentID)
	levels := map[string]string{}
	for _, d := range body.Result.Dimensions.All {
		levels[d.Dimension] = d.Level
	}
	assert.Equal(t, "High Risk", levels["exhaustion"])
	assert.Equal(t, "Minimal Risk", levels["inefficacy"])
	assert.Contains(t, body.Insights[types.InsightMainChallengeAreas], "exhaustion")

	// Stateless: nothing was written
	assert.Empty(t, ts.results.saved)
}

func TestHandleScore_Validation(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name      string
		path      string
		body      string
		wantCode  int
		wantError string
	}{
		{"invalid JSON", "/assessments/burnout/score", `{`, http.StatusBadRequest, "validation error: body - invalid JSON"},
		{"no answers", "/assessments/burnout/score", `{"answers":[]}`, http.StatusBadRequest, "validation error: answers - min"},
		{"value too high", "/assessments/burnout/score", `{"answers":[{"questionId":"exhaustion-1","value":6}]}`, http.StatusBadRequest, "validation error: answers[0].value - max"},
		{"value too low", "/assessments/burnout/score", `{"answers":[{"questionId":"exhaustion-1","value":0}]}`, http.StatusBadRequest, "validation error: answers[0].value - min"},
		{"unknown question", "/assessments/burnout/score", `{"answers":[{"questionId":"trust-1","value":3}]}`, http.StatusBadRequest, `validation error: answers - unknown question "trust-1"`},
		{"unknown assessment", "/assessments/nope/score", burnoutAnswers, http.StatusNotFound, "assessment not found: nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, tt.path, tt.body, "")
			assert.Equal(t, tt.wantCode, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestHandleSaveResult(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.token(t, "sam@example.com")

	w := ts.do(t, http.MethodPost, "/assessments/burnout/results", burnoutAnswers, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, ts.results.saved, 1)
	saved := ts.results.saved[0]
	assert.Equal(t, "sam@example.com", saved.Email)
	assert.Equal(t, "burnout", saved.AssessmentType)
	assert.Contains(t, saved.Insights, types.InsightSkillsToImprove)
	assert.Equal(t, []any{"wellbeing"}, saved.Responses[types.ResponsePriorities])
	assert.NotContains(t, saved.Insights, types.InsightPriorities)

	var body types.AssessmentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, saved.ID, body.ID)

	assert.Contains(t, ts.results.profiles, "sam@example.com")
}

func TestHandleSaveResult_RecordsNameClaim(t *testing.T) {
	ts := newTestServer(t, nil)
	token, err := ts.jwt.GenerateMemberToken("sam@example.com", "Sam")
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/assessments/burnout/results", burnoutAnswers, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Sam", ts.results.profiles["sam@example.com"])

	// a later token without a name keeps it
	w = ts.do(t, http.MethodPost, "/assessments/burnout/results", burnoutAnswers, ts.token(t, "sam@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Sam", ts.results.profiles["sam@example.com"])
}

func TestHandleSaveResult_Errors(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		ts := newTestServer(t, nil)
		w := ts.do(t, http.MethodPost, "/assessments/burnout/results", burnoutAnswers, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, ts.results.saved)
	})

	t.Run("store failure", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.results.err = errors.New("disk full")
		w := ts.do(t, http.MethodPost, "/assessments/burnout/results", burnoutAnswers, ts.token(t, "sam@example.com"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"failed to save assessment result"}`, w.Body.String())
	})

	t.Run("no store", func(t *testing.T) {
		ts := newTestServer(t, func(d *Deps) { d.Results = nil })
		w := ts.do(t, http.MethodPost, "/assessments/burnout/results", burnoutAnswers, ts.token(t, "sam@example.com"))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleRecommendations(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodGet, "/recommendations", "", ts.token(t, "sam@example.com"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sam@example.com", ts.recommender.email)
	assert.JSONEq(t, `{
		"courses": [], "tools": [],
		"insights": {"topChallenges": [], "topSkills": [], "topNeeds": [], "topFocusAreas": [], "aiSummary": null},
		"metadata": {"totalAssessments": 0, "lastUpdated": "2026-03-01T00:00:00Z"}
	}`, w.Body.String())
}

func TestHandleRecommendations_Errors(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		ts := newTestServer(t, nil)
		w := ts.do(t, http.MethodGet, "/recommendations", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, ts.recommender.email)
	})

	t.Run("forged token", func(t *testing.T) {
		ts := newTestServer(t, nil)
		other := NewJWTService(&config.JWTConfig{Secret: "another-secret-key-0123456789", ExpirationHours: 1, Issuer: "compass-test"})
		token, err := other.GenerateToken("sam@example.com")
		require.NoError(t, err)

		w := ts.do(t, http.MethodGet, "/recommendations", "", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("recommender failure", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.recommender.err = errors.New("connection refused")
		w := ts.do(t, http.MethodGet, "/recommendations", "", ts.token(t, "sam@example.com"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"failed to generate recommendations"}`, w.Body.String())
	})

	t.Run("no recommender", func(t *testing.T) {
		ts := newTestServer(t, func(d *Deps) { d.Recommender = nil })
		w := ts.do(t, http.MethodGet, "/recommendations", "", ts.token(t, "sam@example.com"))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"recommendations unavailable"}`, w.Body.String())
	})

	t.Run("no jwt", func(t *testing.T) {
		ts := newTestServer(t, func(d *Deps) { d.JWT = nil })
		w := ts.do(t, http.MethodGet, "/recommendations", "", "whatever")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleCatalog(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodGet, "/catalog", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Courses []types.Resource `json:"courses"`
		Tools   []types.Resource `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Courses)
	assert.NotEmpty(t, body.Tools)
}

func TestHandleGetResource(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/catalog/tool-energy-journal", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res types.Resource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "tool-energy-journal", res.ID)
	assert.Equal(t, types.ResourceTool, res.Type)

	w = ts.do(t, http.MethodGet, "/catalog/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"resource not found: missing"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodPost, "/assessments/trust/score", `{"answers":[{"questionId":"integrity-1","value":4}]}`, "")

	w := ts.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "compass_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="POST /assessments/{id}/score"`)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) { d.CORSOrigin = "https://app.example.com" })
	w := ts.do(t, http.MethodOptions, "/recommendations", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Hour,
	})
	ts := newTestServer(t, func(d *Deps) { d.RateLimiter = limiter })

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodGet, "/catalog", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := ts.do(t, http.MethodGet, "/catalog", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Health stays reachable
	w = ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSaveThenRecommend_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "compass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cat, err := catalog.Default()
	require.NoError(t, err)

	ts := newTestServer(t, func(d *Deps) {
		d.Results = store
		d.Recommender = recommend.NewService(store, cat)
	})
	token, err := ts.jwt.GenerateMemberToken("Sam@Example.com", "Sam")
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/assessments/burnout/results", burnoutAnswers, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/recommendations", "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rec types.Recommendations
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 1, rec.Metadata.TotalAssessments)
	assert.Equal(t, "Sam", rec.Metadata.MemberName)
	assert.Equal(t, "sam@example.com", rec.Metadata.MemberEmail)
	assert.Contains(t, rec.Insights.TopChallenges, "Energy depletion")
	assert.Equal(t, []string{"Wellbeing"}, rec.Insights.TopFocusAreas)
	assert.NotEmpty(t, rec.Courses)
}
