package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creatorforge/nexus/internal/observability"
)

var processCmd = &cobra.Command{
	Use:   "process <video-file>",
	Short: "Resume a suspended run with the shot footage",
	Long: `Runs the second half of the pipeline for a suspended run: clips the
supplied video, posts the clips, and drafts sponsor outreach.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

var (
	processConfigPath string
	processRunID      int64
)

func init() {
	processCmd.Flags().StringVar(&processConfigPath, "config", "", "Path to config.json file")
	processCmd.Flags().Int64Var(&processRunID, "run-id", 0, "Run id returned by the script command (required)")
	_ = processCmd.MarkFlagRequired("run-id")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processRunID <= 0 {
		return fmt.Errorf("--run-id must be a positive integer")
	}

	a, err := buildApp(cmd.Context(), processConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	state, err := a.pipeline.RunPhase2(cmd.Context(), processRunID, args[0])
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintClips(state.ClippedSegments)
	printer.PrintOffers(state.OutreachOffers)
	return nil
}
