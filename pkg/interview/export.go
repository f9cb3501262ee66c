package interview

import (
	"fmt"
	"strings"
)

// RenderText formats a report as the plain-text download of the results view.
func RenderText(r Report) string {
	var b strings.Builder
	title := fmt.Sprintf("Interview Report - %s", r.Position)
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(&b, "Overall Score: %d%%\n", r.OverallScore)
	fmt.Fprintf(&b, "Date: %s\n\n", r.CompletedAt.Format("2006-01-02"))

	b.WriteString("Scores Breakdown:\n")
	fmt.Fprintf(&b, "- Clarity: %.0f%%\n", r.OverallScores.Clarity)
	fmt.Fprintf(&b, "- Relevance: %.0f%%\n", r.OverallScores.Relevance)
	fmt.Fprintf(&b, "- Depth: %.0f%%\n", r.OverallScores.Depth)
	fmt.Fprintf(&b, "- Confidence: %.0f%%\n\n", r.OverallScores.Confidence)

	writeList(&b, "Strengths:", r.Strengths)
	writeList(&b, "Areas for Improvement:", r.Improvements)

	b.WriteString("Questions & Responses:\n")
	if len(r.PerQuestion) == 0 {
		b.WriteString("No questions recorded\n")
	}
	for i, q := range r.PerQuestion {
		response := q.UserResponse
		if q.Skipped {
			response = "(skipped)"
		}
		fmt.Fprintf(&b, "\nQ%d: %s\nResponse: %s\nScore: %d%%\n", i+1, q.QuestionText, response, q.Analysis.OverallScore)
	}
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	b.WriteString(heading + "\n")
	if len(items) == 0 {
		b.WriteString("None recorded\n\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
