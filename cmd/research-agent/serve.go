// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/server"
	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agent query endpoint for the browser extension",
	Long: `Serve exposes POST /api/query and GET /api/status over HTTP. The
extension popup sends the user's question plus the current page context and
receives an answer assembled from stored knowledge.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	maxSources, _ := cmd.Flags().GetInt("max-sources")

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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(store, types.ServerConfig{Addr: addr, MaxSources: maxSources}, log)
	return s.Run(ctx, addr)
}

func init() {
	serveCmd.Flags().String("addr", ":8765", "listen address")
	serveCmd.Flags().Int("max-sources", 5, "maximum sources cited per answer")

	rootCmd.AddCommand(serveCmd)
}
