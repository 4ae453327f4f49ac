package types

import "time"

// Recommendations is the payload returned for a recommendation request.
type Recommendations struct {
	Courses  []ScoredResource `json:"courses"`
	Tools    []ScoredResource `json:"tools"`
	Insights InsightSummary   `json:"insights"`
	Metadata Metadata         `json:"metadata"`
}

// InsightSummary carries the aggregated top-N signal labels and the optional
// generated summary (null when absent).
type InsightSummary struct {
	TopChallenges []string `json:"topChallenges"`
	TopSkills     []string `json:"topSkills"`
	TopNeeds      []string `json:"topNeeds"`
	TopFocusAreas []string `json:"topFocusAreas"`
	AISummary     *string  `json:"aiSummary"`
}

// Metadata describes the history the payload was computed from.
type Metadata struct {
	TotalAssessments int       `json:"totalAssessments"`
	LastUpdated      time.Time `json:"lastUpdated"`
	MemberName       string    `json:"memberName,omitempty"`
	MemberEmail      string    `json:"memberEmail,omitempty"`
}

// EmptyRecommendations returns the payload shape used when there is no
// profile or no history: every list is non-nil and empty.
func EmptyRecommendations(now time.Time) *Recommendations {
	return &Recommendations{
		Courses: []ScoredResource{},
		Tools:   []ScoredResource{},
		Insights: InsightSummary{
			TopChallenges: []string{},
			TopSkills:     []string{},
			TopNeeds:      []string{},
			TopFocusAreas: []string{},
		},
		Metadata: Metadata{LastUpdated: now.UTC()},
	}
}
