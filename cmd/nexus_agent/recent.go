package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creatorforge/nexus/internal/config"
	"github.com/creatorforge/nexus/internal/observability"
	"github.com/creatorforge/nexus/internal/store"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent runs, newest first",
	RunE:  runRecent,
}

var (
	recentConfigPath string
	recentLimit      int
	recentDBPath     string
)

func init() {
	recentCmd.Flags().StringVar(&recentConfigPath, "config", "", "Path to config.json file")
	recentCmd.Flags().IntVar(&recentLimit, "limit", 10, "Maximum number of runs to list")
	recentCmd.Flags().StringVar(&recentDBPath, "db", "", "Path to the run database (overrides config)")
	rootCmd.AddCommand(recentCmd)
}

// runRecent opens the store directly: listing history needs no LLM client
// or stage wiring.
func runRecent(cmd *cobra.Command, _ []string) error {
	dbPath := recentDBPath
	if dbPath == "" {
		cfg, err := loadRecentConfig(recentConfigPath)
		if err != nil {
			return err
		}
		dbPath = cfg.DBPath
	}

	runStore, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer func() { _ = runStore.Close() }()

	runs, err := runStore.ListRecent(cmd.Context(), recentLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	for i := range runs {
		printer.PrintRunRecord(&runs[i])
	}
	return nil
}

// loadRecentConfig resolves the database path without requiring API
// credentials: listing history must work on a machine with no keys set.
func loadRecentConfig(path string) (config.Config, error) {
	cfg := config.Config{}
	if path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = *fileCfg
	}
	return cfg.Merge(config.FromEnv()).Merge(config.Default()), nil
}
