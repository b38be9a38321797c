// Package main provides the entry point for the Nexus content co-founder agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nexus_agent",
	Short: "Nexus content co-founder agent",
	Long:  "Nexus discovers trends, writes short-form video scripts, clips and posts shot footage, and drafts sponsor outreach, suspending mid-run for the human video shoot.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
