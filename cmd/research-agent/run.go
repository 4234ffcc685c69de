// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/agent"
	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a depth-bounded research loop on a topic",
	Long: `Run searches the web for each query, summarizes the results, and stores
them in the knowledge base tagged with the current depth. Follow-up queries are
derived from the summaries and explored at the next depth. The final report and
a JSON export are written when the loop completes.

API keys load from .secrets/serpapi-api-key and .secrets/openai-api-key, or
from the --serpapi-key and --openai-key flags.`,
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	queries, _ := cmd.Flags().GetStringArray("query")
	themes, _ := cmd.Flags().GetStringArray("theme")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	maxQueries, _ := cmd.Flags().GetInt("max-queries")
	reportPath, _ := cmd.Flags().GetString("report")
	exportPath, _ := cmd.Flags().GetString("export")
	model, _ := cmd.Flags().GetString("model")
	serpKey, _ := cmd.Flags().GetString("serpapi-key")
	openaiKey, _ := cmd.Flags().GetString("openai-key")

	if len(queries) == 0 && topic != "" {
		queries = []string{topic}
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	client := &http.Client{Timeout: 30 * time.Second}

	searcher := &agent.SerpAPIBackend{
		APIKey: secretDefault("serpapi-api-key", serpKey),
		Client: client,
		Config: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{UserAgent: "research-agent/" + version},
		},
	}
	summarizer := &agent.OpenAIBackend{
		APIKey: secretDefault("openai-api-key", openaiKey),
		Model:  model,
		Client: client,
	}

	cfg := types.AgentConfig{
		MaxDepth:           maxDepth,
		MaxQueriesPerDepth: maxQueries,
		ReportPath:         reportPath,
		ExportPath:         exportPath,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a := agent.New(topic, queries, themes, cfg, store, searcher, summarizer, log, os.Stdout)

	summary, err := a.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nqueries: %d, stored: %d, failed: %d (session %d)\n",
		summary.QueriesRun, summary.Stored, summary.Failed, summary.SessionID)
	if summary.Failed > 0 {
		return fmt.Errorf("%d quer(ies) failed", summary.Failed)
	}
	return nil
}

func init() {
	runCmd.Flags().String("topic", "", "research topic (required)")
	runCmd.Flags().StringArray("query", nil, "initial search query (repeatable; defaults to the topic)")
	runCmd.Flags().StringArray("theme", nil, "precomputed theme keyword for the insights line (repeatable)")
	runCmd.Flags().Int("max-depth", 2, "maximum research recursion depth")
	runCmd.Flags().Int("max-queries", 5, "maximum queries per depth")
	runCmd.Flags().String("report", "report.md", "path for the rendered Markdown report")
	runCmd.Flags().String("export", "knowledge.json", "path for the JSON knowledge export")
	runCmd.Flags().String("model", "", "summarization model (default: gpt-3.5-turbo)")
	runCmd.Flags().String("serpapi-key", "", "SerpAPI key (overrides .secrets/serpapi-api-key)")
	runCmd.Flags().String("openai-key", "", "OpenAI key (overrides .secrets/openai-api-key)")
	runCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(runCmd)
}
