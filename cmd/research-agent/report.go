// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/knowledge"
	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render stored knowledge into a Markdown report",
	Long: `Report reads entries from the knowledge base, optionally narrowed by
filter flags, and renders them into the standard report layout. The report is
written to stdout unless --out is given.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	themes, _ := cmd.Flags().GetStringArray("theme")
	outPath, _ := cmd.Flags().GetString("out")

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.ListEntries(context.Background(), filter)
	if err != nil {
		return err
	}

	rendered, err := report.Render(topic, themes, entries)
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Print(rendered)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("Report written to %s (%d entries)\n", outPath, len(entries))
	return nil
}

// filterFromFlags builds a store filter from the shared filter flags on cmd.
func filterFromFlags(cmd *cobra.Command) (knowledge.Filter, error) {
	var filter knowledge.Filter

	if cmd.Flags().Changed("cluster") {
		cluster, _ := cmd.Flags().GetInt("cluster")
		filter.Cluster = &cluster
	}
	filter.MinDepth, _ = cmd.Flags().GetInt("min-depth")
	filter.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	filter.SessionID, _ = cmd.Flags().GetInt64("session")
	filter.Contains, _ = cmd.Flags().GetString("contains")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	if filter.MinDepth < 0 || filter.MaxDepth < 0 {
		return knowledge.Filter{}, fmt.Errorf("depth bounds must be non-negative")
	}
	return filter, nil
}

// addFilterFlags registers the shared filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("cluster", 0, "only entries with this cluster label")
	cmd.Flags().Int("min-depth", 0, "only entries at or above this depth")
	cmd.Flags().Int("max-depth", 0, "only entries at or below this depth")
	cmd.Flags().Int64("session", 0, "only entries from this research session")
	cmd.Flags().String("contains", "", "only entries whose text contains this substring")
	cmd.Flags().Int("limit", 0, "maximum number of entries (0 = unlimited)")
}

func init() {
	reportCmd.Flags().String("topic", "", "report topic (required)")
	reportCmd.Flags().StringArray("theme", nil, "theme keyword for the insights line (repeatable)")
	reportCmd.Flags().String("out", "", "write the report to this file instead of stdout")
	addFilterFlags(reportCmd)
	reportCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(reportCmd)
}
