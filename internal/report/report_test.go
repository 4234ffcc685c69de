package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

func TestRenderLayout(t *testing.T) {
	entries := []types.Entry{
		{Title: "first", Summary: "AI will reshape diagnostics."},
		{Title: "second", Summary: "Regulation lags deployment."},
	}

	out, err := Render("AI in medicine", []string{"diagnostics", "regulation"}, entries)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Research Report on: AI in medicine",
		"Insights:",
		"2 entries analyzed. Emerging themes: diagnostics, regulation.",
		"Knowledge Base:",
		"1. AI will reshape diagnostics.",
		"2. Regulation lags deployment.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSingleSummaryLine(t *testing.T) {
	out, err := Render("AI in medicine", nil, []types.Entry{{Title: "t", Summary: "X"}})
	if err != nil {
		t.Fatal(err)
	}

	var listLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "1.") || strings.HasPrefix(line, "2.") {
			listLines = append(listLines, line)
		}
	}
	if len(listLines) != 1 || listLines[0] != "1. X" {
		t.Errorf("numbered list = %v, want exactly [\"1. X\"]", listLines)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	entries := []types.Entry{
		{Title: "a", Summary: "alpha"},
		{Title: "b", RawText: "bravo raw text"},
		{Title: "c"},
	}

	first, err := Render("Determinism", []string{"themes"}, entries)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render("Determinism", []string{"themes"}, entries)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("identical inputs produced different output")
	}
}

func TestRenderFallbacks(t *testing.T) {
	longRaw := strings.Repeat("x", rawTextPreviewLen+50)

	tests := []struct {
		name  string
		entry types.Entry
		want  string
	}{
		{"summary wins", types.Entry{Title: "t", RawText: "raw", Summary: "sum"}, "1. sum"},
		{"raw text fallback", types.Entry{Title: "t", RawText: "raw only"}, "1. raw only"},
		{"raw text truncated", types.Entry{Title: "t", RawText: longRaw}, "1. " + strings.Repeat("x", rawTextPreviewLen) + "..."},
		{"bare title", types.Entry{Title: "just a title"}, "1. just a title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render("Fallbacks", nil, []types.Entry{tt.entry})
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, tt.want+"\n") {
				t.Errorf("report missing line %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRenderPreservesOrderAndDuplicates(t *testing.T) {
	// Near-duplicate paraphrases across ingestion runs stay verbatim;
	// the assembler never filters.
	entries := []types.Entry{
		{Title: "a", Summary: "same line"},
		{Title: "b", Summary: "same line"},
	}

	out, err := Render("Dups", nil, entries)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1. same line\n2. same line\n") {
		t.Errorf("duplicates were filtered or reordered:\n%s", out)
	}
}

func TestRenderValidation(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		entries []types.Entry
	}{
		{"empty topic", "", []types.Entry{{Title: "t"}}},
		{"blank topic", "   ", []types.Entry{{Title: "t"}}},
		{"empty entries", "Topic", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.topic, nil, tt.entries)

			var verr *types.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestInsights(t *testing.T) {
	if got := Insights(12, nil); got != "12 entries analyzed." {
		t.Errorf("Insights(12, nil) = %q", got)
	}
	want := "3 entries analyzed. Emerging themes: AI disruption, ethics, applications."
	if got := Insights(3, []string{"AI disruption", "ethics", "applications"}); got != want {
		t.Errorf("Insights = %q, want %q", got, want)
	}
}
