package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/growth-compass/internal/catalog"
	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/jonathan/growth-compass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu         sync.Mutex
	profiles   map[string]*types.Profile
	results    map[string][]types.AssessmentResult
	profileErr error
	resultsErr error
	calls      []string
}

func (f *fakeStore) GetProfileByEmail(_ context.Context, email string) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "profile:"+email)
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profiles[email], nil
}

func (f *fakeStore) ListAssessmentResults(_ context.Context, email string) ([]types.AssessmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "results:"+email)
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.results[email], nil
}

type fakeSummarizer struct {
	text  string
	calls int
	name  string
}

func (f *fakeSummarizer) Summarize(_ context.Context, sig signals.Set, name string) *string {
	f.calls++
	f.name = name
	if f.text == "" || len(sig.Challenges) == 0 {
		return nil
	}
	text := f.text
	return &text
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Courses: []types.Resource{
			{ID: "c-generic", Type: types.ResourceCourse, Title: "Generic"},
			{ID: "c-time", Type: types.ResourceCourse, Title: "Time", TargetChallenges: []string{"Time pressure"}, Tags: []string{"prioritization"}},
			{ID: "c-energy", Type: types.ResourceCourse, Title: "Energy", TargetSkills: []string{"Energy management"}},
		},
		Tools: []types.Resource{
			{ID: "t-journal", Type: types.ResourceTool, Title: "Journal", TargetNeeds: []string{"Recovery time"}},
		},
	}
}

func burnoutResult(at time.Time) types.AssessmentResult {
	return types.AssessmentResult{
		Email:          "sam@example.com",
		AssessmentType: "burnout",
		Insights: map[string]any{
			types.InsightMainChallengeAreas: map[string]any{
				"workload": map[string]any{"challenges": []any{"Time pressure"}},
			},
			types.InsightSkillsToImprove: []any{"Prioritization"},
			types.InsightSupportNeeded:   []any{"Recovery time"},
		},
		Responses: map[string]any{types.ResponsePriorities: []any{"wellbeing"}},
		CreatedAt: at,
	}
}

func newTestService(store Store, opts ...Option) *Service {
	opts = append([]Option{withClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(store, testCatalog(), opts...)
}

func TestRecommend_EmptyEmail(t *testing.T) {
	store := &fakeStore{}
	rec, err := newTestService(store).Recommend(context.Background(), "  ")

	require.NoError(t, err)
	if diff := cmp.Diff(types.EmptyRecommendations(fixedNow), rec); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, store.calls)
}

func TestRecommend_NoProfile(t *testing.T) {
	store := &fakeStore{}
	rec, err := newTestService(store).Recommend(context.Background(), "ghost@example.com")

	require.NoError(t, err)
	assert.Equal(t, types.EmptyRecommendations(fixedNow), rec)
	assert.ElementsMatch(t, []string{"profile:ghost@example.com", "results:ghost@example.com"}, store.calls)
}

func TestRecommend_NoResults(t *testing.T) {
	store := &fakeStore{profiles: map[string]*types.Profile{
		"sam@example.com": {Email: "sam@example.com", Name: "Sam"},
	}}
	summarizer := &fakeSummarizer{text: "unused"}

	rec, err := newTestService(store, WithSummarizer(summarizer)).Recommend(context.Background(), "sam@example.com")

	require.NoError(t, err)
	assert.Empty(t, rec.Courses)
	assert.NotNil(t, rec.Courses)
	assert.NotNil(t, rec.Insights.TopChallenges)
	assert.Nil(t, rec.Insights.AISummary)
	assert.Equal(t, 0, rec.Metadata.TotalAssessments)
	assert.Equal(t, fixedNow, rec.Metadata.LastUpdated)
	assert.Equal(t, "Sam", rec.Metadata.MemberName)
	assert.Equal(t, 0, summarizer.calls)
}

func TestRecommend_FullPayload(t *testing.T) {
	older := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		profiles: map[string]*types.Profile{"sam@example.com": {Email: "sam@example.com", Name: "Sam"}},
		results: map[string][]types.AssessmentResult{
			"sam@example.com": {burnoutResult(older), burnoutResult(newer)},
		},
	}
	summarizer := &fakeSummarizer{text: "Protect your focus time."}

	rec, err := newTestService(store, WithSummarizer(summarizer)).Recommend(context.Background(), "sam@example.com")
	require.NoError(t, err)

	summary := "Protect your focus time."
	want := &types.Recommendations{
		Courses: []types.ScoredResource{
			// 30 (challenge) + 10 (tag "prioritization" vs skill label)
			{Resource: testCatalog().Courses[1], RelevanceScore: 40},
			{Resource: testCatalog().Courses[0], RelevanceScore: 0},
			{Resource: testCatalog().Courses[2], RelevanceScore: 0},
		},
		Tools: []types.ScoredResource{
			{Resource: testCatalog().Tools[0], RelevanceScore: 25},
		},
		Insights: types.InsightSummary{
			TopChallenges: []string{"Time pressure"},
			TopSkills:     []string{"Prioritization"},
			TopNeeds:      []string{"Recovery time"},
			TopFocusAreas: []string{"Wellbeing"},
			AISummary:     &summary,
		},
		Metadata: types.Metadata{
			TotalAssessments: 2,
			LastUpdated:      newer,
			MemberName:       "Sam",
			MemberEmail:      "sam@example.com",
		},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Sam", summarizer.name)
}

func TestRecommend_SummaryAbsentIsNull(t *testing.T) {
	store := &fakeStore{
		profiles: map[string]*types.Profile{"sam@example.com": {Email: "sam@example.com"}},
		results:  map[string][]types.AssessmentResult{"sam@example.com": {burnoutResult(fixedNow)}},
	}

	rec, err := newTestService(store, WithSummarizer(&fakeSummarizer{})).Recommend(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.Nil(t, rec.Insights.AISummary)
	assert.NotEmpty(t, rec.Courses)
}

func TestRecommend_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name    string
		store   *fakeStore
		wantMsg string
	}{
		{"profile", &fakeStore{profileErr: boom}, "failed to load profile"},
		{"results", &fakeStore{resultsErr: boom}, "failed to list assessment results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := newTestService(tt.store).Recommend(context.Background(), "sam@example.com")
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	store := &fakeStore{
		profiles: map[string]*types.Profile{"sam@example.com": {Email: "sam@example.com"}},
		results:  map[string][]types.AssessmentResult{"sam@example.com": {burnoutResult(fixedNow), burnoutResult(fixedNow)}},
	}
	svc := newTestService(store)

	first, err := svc.Recommend(context.Background(), "sam@example.com")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Recommend(context.Background(), "sam@example.com")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first, again))
	}
}

func TestBuild_Anonymous(t *testing.T) {
	svc := newTestService(&fakeStore{})

	rec := svc.Build(context.Background(), nil, []types.AssessmentResult{burnoutResult(fixedNow)})

	assert.Empty(t, rec.Metadata.MemberName)
	assert.Equal(t, 1, rec.Metadata.TotalAssessments)
	assert.Equal(t, []string{"Time pressure"}, rec.Insights.TopChallenges)
}
