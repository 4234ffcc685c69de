// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the knowledge database (init, show, reset)",
	Long: `Db manages the SQLite knowledge database: initialize the schema,
inspect it, or wipe it clean.`,
}

// --- init subcommand ---

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema if it does not exist",
	Long: `Init opens the database and creates the knowledge and research_sessions
tables. Running it against an existing database is harmless.`,
	RunE: runDBInit,
}

func runDBInit(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Println("Database initialized.")
	return nil
}

// --- show subcommand ---

var dbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the table and column definitions",
	RunE:  runDBShow,
}

func runDBShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	text, err := store.Schema(context.Background())
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

// --- reset subcommand ---

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate both tables (destructive)",
	Long: `Reset deletes all stored knowledge entries and research sessions, then
recreates the empty schema. It asks for confirmation unless --yes is given.`,
	RunE: runDBReset,
}

func runDBReset(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Fprint(os.Stderr, "WARNING: this will delete all data. Are you sure? (y/N): ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Database reset cancelled.")
			return nil
		}
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(context.Background()); err != nil {
		return err
	}
	fmt.Println("Database reset.")
	return nil
}

func init() {
	dbResetCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbShowCmd)
	dbCmd.AddCommand(dbResetCmd)

	rootCmd.AddCommand(dbCmd)
}
