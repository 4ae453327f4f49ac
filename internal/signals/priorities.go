package signals

// priorityLabels maps priority ids selected in the assessment wizard to their
// display labels.
var priorityLabels = map[string]string{
	"work-life-balance":  "Work-Life Balance",
	"career-growth":      "Career Growth",
	"leadership":         "Leadership Development",
	"communication":      "Communication Skills",
	"stress-management":  "Stress Management",
	"team-collaboration": "Team Collaboration",
	"time-management":    "Time Management",
	"technical-skills":   "Technical Skills",
	"wellbeing":          "Wellbeing",
	"confidence":         "Confidence Building",
	"change-management":  "Navigating Change",
	"relationships":      "Building Relationships",
}

// PriorityLabel returns the display label for a priority id. Unknown ids are
// returned unchanged.
func PriorityLabel(id string) string {
	if label, ok := priorityLabels[id]; ok {
		return label
	}
	return id
}
