// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent runs the depth-bounded research loop: search, summarize,
// store, derive follow-up queries, and assemble the final report.
package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/knowledge"
	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/report"
	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

const (
	defaultMaxDepth           = 2
	defaultMaxQueriesPerDepth = 5

	// followUpPrefixLen bounds the summary prefix reused in derived queries.
	followUpPrefixLen = 50
)

// Agent drives one research invocation against a topic.
type Agent struct {
	topic      string
	queries    []string
	themes     []string
	cfg        types.AgentConfig
	store      *knowledge.Store
	searcher   Searcher
	summarizer Summarizer
	log        *zap.Logger
	out        io.Writer
}

// New builds an Agent. Themes are precomputed keywords carried into the
// insights line; pass nil to omit them. A nil logger is replaced with a
// no-op logger and a nil out discards progress lines.
func New(topic string, initialQueries, themes []string, cfg types.AgentConfig, store *knowledge.Store, searcher Searcher, summarizer Summarizer, log *zap.Logger, out io.Writer) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Agent{
		topic:      topic,
		queries:    append([]string(nil), initialQueries...),
		themes:     append([]string(nil), themes...),
		cfg:        cfg,
		store:      store,
		searcher:   searcher,
		summarizer: summarizer,
		log:        log,
		out:        out,
	}
}

// RunSummary holds counts from one research invocation.
type RunSummary struct {
	SessionID  int64
	QueriesRun int
	Stored     int
	Failed     int
}

// Run executes the research loop. Each depth selects the most promising
// queries, searches them, summarizes each result, and stores the outcome
// at that depth. After the final depth the knowledge gathered in this
// session is rendered into the report and exported as JSON.
func (a *Agent) Run(ctx context.Context) (RunSummary, error) {
	if strings.TrimSpace(a.topic) == "" {
		return RunSummary{}, types.NewValidationError("topic", "must not be empty")
	}
	if len(a.queries) == 0 {
		return RunSummary{}, types.NewValidationError("queries", "at least one initial query is required")
	}

	maxDepth := a.cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	sessionID, err := a.store.InsertSession(ctx, slug(a.topic), a.queries[0])
	if err != nil {
		return RunSummary{}, fmt.Errorf("recording session: %w", err)
	}

	summary := RunSummary{SessionID: sessionID}
	a.log.Info("research started",
		zap.String("topic", a.topic),
		zap.Int("max_depth", maxDepth),
		zap.Int64("session_id", sessionID))

	for depth := 1; depth <= maxDepth; depth++ {
		fmt.Fprintf(a.out, "===== Depth %d =====\n", depth)

		for _, query := range a.selectPromising() {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			default:
			}

			summary.QueriesRun++

			results, err := a.searcher.Search(ctx, query)
			if err != nil {
				fmt.Fprintf(a.out, "failed  %q: %v\n", query, err)
				a.log.Warn("search failed", zap.String("query", query), zap.Error(err))
				summary.Failed++
				continue
			}

			stored, followUps := a.processResults(ctx, results, depth, sessionID, &summary)
			fmt.Fprintf(a.out, "stored  %d entries for %q\n", stored, query)
			a.queries = append(a.queries, followUps...)
		}

		insights, err := a.analyze(ctx, sessionID)
		if err != nil {
			return summary, err
		}
		fmt.Fprintf(a.out, "%s\n", insights)

		a.queries = append(a.queries, "Explore: "+insights)
		a.queries = dedupe(a.queries)
	}

	if err := a.finish(ctx, sessionID); err != nil {
		return summary, err
	}

	a.log.Info("research completed",
		zap.Int("queries_run", summary.QueriesRun),
		zap.Int("stored", summary.Stored),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// selectPromising picks the queries to run at the current depth. The
// heuristic is positional: the front of the list is most promising.
func (a *Agent) selectPromising() []string {
	limit := a.cfg.MaxQueriesPerDepth
	if limit <= 0 {
		limit = defaultMaxQueriesPerDepth
	}
	if len(a.queries) < limit {
		limit = len(a.queries)
	}
	return a.queries[:limit]
}

// processResults summarizes and stores each search result with a snippet,
// returning the stored count and derived follow-up queries. A failed
// summarization falls back to the raw text rather than dropping the result.
func (a *Agent) processResults(ctx context.Context, results []types.SearchResult, depth int, sessionID int64, summary *RunSummary) (int, []string) {
	var (
		stored    int
		followUps []string
	)

	for _, res := range results {
		if res.Snippet == "" {
			continue
		}

		rawText := res.Title + ": " + res.Snippet

		text, err := a.summarizer.Summarize(ctx, rawText)
		if err != nil {
			a.log.Warn("summarization failed, keeping raw text",
				zap.String("title", res.Title), zap.Error(err))
			text = rawText
		}

		_, err = a.store.InsertEntry(ctx, types.Entry{
			Title:     res.Title,
			URL:       res.Link,
			RawText:   rawText,
			Summary:   text,
			Depth:     depth,
			SessionID: sessionID,
		})
		if err != nil {
			a.log.Warn("storing entry failed", zap.String("title", res.Title), zap.Error(err))
			summary.Failed++
			continue
		}

		stored++
		summary.Stored++
		followUps = append(followUps, "More on "+truncateRunes(text, followUpPrefixLen))
	}

	return stored, followUps
}

// analyze produces the insights line for everything stored in this session.
func (a *Agent) analyze(ctx context.Context, sessionID int64) (string, error) {
	entries, err := a.store.ListEntries(ctx, knowledge.Filter{SessionID: sessionID})
	if err != nil {
		return "", fmt.Errorf("analyzing knowledge base: %w", err)
	}
	return report.Insights(len(entries), a.themes), nil
}

// finish renders the report and exports the session's knowledge. With
// nothing stored there is nothing to render; the run ends with a warning
// instead of an empty report.
func (a *Agent) finish(ctx context.Context, sessionID int64) error {
	entries, err := a.store.ListEntries(ctx, knowledge.Filter{SessionID: sessionID})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		a.log.Warn("no entries stored, skipping report")
		fmt.Fprintln(a.out, "no entries stored; report skipped")
		return nil
	}

	doc, err := report.Render(a.topic, a.themes, entries)
	if err != nil {
		return err
	}

	reportPath := a.cfg.ReportPath
	if reportPath == "" {
		reportPath = "report.md"
	}
	if err := os.WriteFile(reportPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(a.out, "report saved to %s\n", reportPath)

	exportPath := a.cfg.ExportPath
	if exportPath == "" {
		exportPath = "knowledge.json"
	}
	f, err := os.Create(exportPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := a.store.Export(ctx, f, knowledge.ExportJSON, knowledge.Filter{SessionID: sessionID}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "knowledge base saved to %s\n", exportPath)

	return nil
}

// slug lowercases a topic into a hyphenated session name.
func slug(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "-")
}

// dedupe removes duplicate queries preserving first-seen order.
func dedupe(queries []string) []string {
	seen := make(map[string]bool, len(queries))
	out := queries[:0:0]
	for _, q := range queries {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
