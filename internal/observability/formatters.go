// Package observability provides logging, metrics and formatted output for
// verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/growth-compass/internal/scoring"
	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/jonathan/growth-compass/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScoreResult outputs dimension scores or persona rankings of one attempt.
func (p *Printer) PrintScoreResult(result *scoring.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	switch {
	case result.Dimensions != nil:
		dims := result.Dimensions
		sb.WriteString(fmt.Sprintf("Overall: %.2f (%s)\n\n", dims.Overall, dims.Level))
		for _, ds := range dims.All {
			if ds.Answered == 0 {
				sb.WriteString(fmt.Sprintf("  %-22s  -\n", ds.Label))
				continue
			}
			marker := ""
			if ds.Reverse {
				marker = " (r)"
			}
			sb.WriteString(fmt.Sprintf("  %-22s %.2f  %s%s\n", ds.Label, ds.Score, ds.Level, marker))
		}
	case result.Personas != nil:
		personas := result.Personas
		sb.WriteString(fmt.Sprintf("Primary:   %s (%d)\n", personas.Primary.Label, personas.Primary.Score))
		if len(personas.Secondary) > 0 {
			names := make([]string, 0, len(personas.Secondary))
			for _, ps := range personas.Secondary {
				names = append(names, ps.Label)
			}
			sb.WriteString(fmt.Sprintf("Secondary: %s\n", strings.Join(names, ", ")))
		}
		sb.WriteString("\n")
		count := min(len(personas.Ranked), maxItemsToShow)
		for i := 0; i < count; i++ {
			ps := personas.Ranked[i]
			sb.WriteString(fmt.Sprintf("  #%d %-20s %2d\n", i+1, ps.Label, ps.Score))
		}
		if len(personas.Ranked) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(personas.Ranked)-maxItemsToShow))
		}
	}

	p.printBox(strings.ToUpper(result.AssessmentID)+" RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSignals outputs the aggregated signals with their counts.
func (p *Printer) PrintSignals(set signals.Set) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Assessments: %d\n", set.TotalResults))
	if set.Empty() {
		sb.WriteString("No signals yet")
		p.printBox("AGGREGATED SIGNALS", sb.String())
		return
	}

	sections := []struct {
		title string
		list  []signals.Signal
	}{
		{"Challenges", set.Challenges},
		{"Skills", set.Skills},
		{"Support needs", set.Needs},
		{"Focus areas", set.FocusAreas},
	}
	for _, s := range sections {
		if len(s.list) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s:\n", s.title))
		for _, sig := range s.list {
			sb.WriteString(fmt.Sprintf("  • %s ×%d\n", sig.Label, sig.Count))
		}
	}

	p.printBox("AGGREGATED SIGNALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the ranked courses and tools of a payload.
func (p *Printer) PrintRecommendations(rec *types.Recommendations) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	if rec.Metadata.MemberName != "" {
		sb.WriteString(fmt.Sprintf("Member:  %s\n", rec.Metadata.MemberName))
	}
	sb.WriteString(fmt.Sprintf("Based on %d assessment(s)\n", rec.Metadata.TotalAssessments))

	writeResources(&sb, "Courses", rec.Courses)
	writeResources(&sb, "Tools", rec.Tools)

	if rec.Insights.AISummary != nil {
		sb.WriteString("\nSummary:\n")
		for _, line := range wrap(*rec.Insights.AISummary, boxWidth-6) {
			sb.WriteString("  " + line + "\n")
		}
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeResources(sb *strings.Builder, title string, resources []types.ScoredResource) {
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(resources) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for i, r := range resources {
		sb.WriteString(fmt.Sprintf("  #%d %s [%d]\n", i+1, truncate(r.Title, 40), r.RelevanceScore))
	}
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// wrap splits text into lines no longer than width at word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
