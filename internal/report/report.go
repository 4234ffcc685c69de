// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders knowledge entries into a fixed Markdown layout.
package report

import (
	"fmt"
	"strings"

	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

// rawTextPreviewLen bounds the fallback line taken from RawText when an
// entry has no summary.
const rawTextPreviewLen = 200

// Insights formats the insights line for a batch of entries. Theme
// extraction happens upstream; themes arrive here precomputed and may be
// empty.
func Insights(count int, themes []string) string {
	if len(themes) == 0 {
		return fmt.Sprintf("%d entries analyzed.", count)
	}
	return fmt.Sprintf("%d entries analyzed. Emerging themes: %s.", count, strings.Join(themes, ", "))
}

// Render produces the research report for topic from the given entries.
// The layout is fixed: a title line embedding the topic, the insights
// line, then a numbered knowledge list in the order given. Rendering is
// pure; identical inputs always yield byte-identical output, and no entry
// is reordered, deduplicated, or filtered here.
//
// Each list line uses the entry summary, falling back to a bounded
// raw-text preview, falling back to the bare title.
func Render(topic string, themes []string, entries []types.Entry) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", types.NewValidationError("topic", "must not be empty")
	}
	if len(entries) == 0 {
		return "", types.NewValidationError("entries", "must not be empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n\U0001F4D8 Research Report on: %s\n", topic)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "\U0001F50D Insights:\n%s\n\n", Insights(len(entries), themes))
	b.WriteString("\U0001F4DA Knowledge Base:\n")

	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, entryLine(e))
	}

	return b.String(), nil
}

// entryLine picks the text rendered for one entry.
func entryLine(e types.Entry) string {
	if e.Summary != "" {
		return e.Summary
	}
	if e.RawText != "" {
		return truncate(e.RawText, rawTextPreviewLen)
	}
	return e.Title
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
