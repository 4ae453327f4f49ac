package signals

import "sort"

// Category names the kind of signal a label was counted under.
type Category string

const (
	CategoryChallenge Category = "challenge"
	CategorySkill     Category = "skill"
	CategoryNeed      Category = "support-need"
	CategoryFocusArea Category = "focus-area"
)

// Signal is a label with the number of times it occurred across results.
type Signal struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
}

// Counter counts label occurrences and remembers the order in which labels
// were first seen.
type Counter struct {
	category Category
	index    map[string]int
	entries  []Signal
}

// NewCounter returns an empty counter for a category.
func NewCounter(category Category) *Counter {
	return &Counter{
		category: category,
		index:    make(map[string]int),
	}
}

// Add increments the count of label by one.
func (c *Counter) Add(label string) {
	if i, ok := c.index[label]; ok {
		c.entries[i].Count++
		return
	}
	c.index[label] = len(c.entries)
	c.entries = append(c.entries, Signal{Category: c.category, Label: label, Count: 1})
}

// count returns the current count of label.
func (c *Counter) count(label string) int {
	if i, ok := c.index[label]; ok {
		return c.entries[i].Count
	}
	return 0
}

// distinct returns the number of distinct labels.
func (c *Counter) distinct() int {
	return len(c.entries)
}

// Top returns up to n signals by descending count. Labels with equal counts
// keep first-encounter order.
func (c *Counter) Top(n int) []Signal {
	out := make([]Signal, len(c.entries))
	copy(out, c.entries)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
