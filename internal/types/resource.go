package types

// ResourceType distinguishes the two catalog partitions.
type ResourceType string

const (
	ResourceCourse ResourceType = "course"
	ResourceTool   ResourceType = "tool"
)

// Resource is a static catalog entry (course or tool).
type Resource struct {
	ID               string       `json:"id"`
	Type             ResourceType `json:"type,omitempty"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Category         string       `json:"category"`
	Duration         string       `json:"duration"`
	URL              string       `json:"url,omitempty"`
	Tags             []string     `json:"tags"`
	TargetChallenges []string     `json:"targetChallenges"`
	TargetSkills     []string     `json:"targetSkills"`
	TargetNeeds      []string     `json:"targetNeeds"`
}

// ScoredResource is a Resource with its relevance for one user.
type ScoredResource struct {
	Resource
	RelevanceScore int `json:"relevanceScore"`
}
