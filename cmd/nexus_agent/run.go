package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/creatorforge/nexus/internal/observability"
	"github.com/creatorforge/nexus/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline end-to-end with pre-shot footage",
	Long: `Runs discovery, scripting, clipping, posting, and outreach in one pass.
Use this when the footage was shot in advance; without --video the clipping
stage substitutes mock segments so the rest of the run still completes.`,
	RunE: runFull,
}

var (
	runConfigPath string
	runTopic      string
	runNiche      string
	runStyle      string
	runGoals      string
	runVideoPath  string
)

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file")
	runCmd.Flags().StringVarP(&runTopic, "topic", "t", "", "Video topic (required)")
	runCmd.Flags().StringVarP(&runNiche, "niche", "n", "", "Content niche")
	runCmd.Flags().StringVarP(&runStyle, "style", "s", "", "Creator style profile")
	runCmd.Flags().StringVarP(&runGoals, "goals", "g", "", "Channel goals")
	runCmd.Flags().StringVar(&runVideoPath, "video", "", "Path to pre-shot video file")
	_ = runCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(runCmd)
}

func runFull(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context(), runConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	state, err := a.pipeline.RunFull(cmd.Context(), pipeline.Inputs{
		Topic: runTopic,
		Niche: runNiche,
		Style: runStyle,
		Goals: runGoals,
	}, runVideoPath)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if state.Failed() {
		printer.PrintFailure(state.Failure)
		return nil
	}

	printer.PrintTrends(state.DiscoveredItems)
	printer.PrintScript(state.Script)
	printer.PrintClips(state.ClippedSegments)
	printer.PrintOffers(state.OutreachOffers)
	return nil
}
