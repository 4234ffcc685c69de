package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/knowledge"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the knowledge base as JSON, YAML, or Markdown",
	Long: `Export writes the stored knowledge entries, optionally narrowed by
filter flags, to stdout or to --out in the chosen format.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
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

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := store.Export(context.Background(), w, knowledge.ExportFormat(format), filter); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Printf("Knowledge exported to %s\n", outPath)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "json", "export format: json, yaml, or markdown")
	exportCmd.Flags().String("out", "", "write the export to this file instead of stdout")
	addFilterFlags(exportCmd)

	rootCmd.AddCommand(exportCmd)
}
