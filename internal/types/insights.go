package types

// Canonical field names of the free-form insights and responses objects.
// Older records may carry the legacy aliases; readers accept both, writers
// only produce the canonical names.
const (
	InsightMainChallengeAreas = "mainChallengeAreas"
	InsightSkillsToImprove    = "skillsToImprove"
	InsightSupportNeeded      = "supportNeeded"
	InsightPriorities         = "priorities"

	LegacyInsightSkillGaps    = "skillGaps"
	LegacyInsightSupportNeeds = "supportNeeds"

	ResponseAnswers                  = "answers"
	ResponsePriorities               = "priorities"
	LegacyResponseSelectedPriorities = "selectedPriorities"
)
