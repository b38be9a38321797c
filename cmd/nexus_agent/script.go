package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creatorforge/nexus/internal/observability"
	"github.com/creatorforge/nexus/internal/pipeline"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Run discovery and scripting, then suspend for the video shoot",
	Long: `Runs the first half of the pipeline: trend discovery and script writing.
The script is persisted under a run id; shoot the video, then resume with
'nexus_agent process --run-id <id> <video>'.`,
	RunE: runScript,
}

var (
	scriptConfigPath string
	scriptTopic      string
	scriptNiche      string
	scriptStyle      string
	scriptGoals      string
)

func init() {
	scriptCmd.Flags().StringVar(&scriptConfigPath, "config", "", "Path to config.json file")
	scriptCmd.Flags().StringVarP(&scriptTopic, "topic", "t", "", "Video topic (required)")
	scriptCmd.Flags().StringVarP(&scriptNiche, "niche", "n", "", "Content niche")
	scriptCmd.Flags().StringVarP(&scriptStyle, "style", "s", "", "Creator style profile")
	scriptCmd.Flags().StringVarP(&scriptGoals, "goals", "g", "", "Channel goals")
	_ = scriptCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context(), scriptConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.pipeline.RunPhase1(cmd.Context(), pipeline.Inputs{
		Topic: scriptTopic,
		Niche: scriptNiche,
		Style: scriptStyle,
		Goals: scriptGoals,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if result.State.Failed() {
		printer.PrintFailure(result.State.Failure)
		return nil
	}

	printer.PrintTrends(result.State.DiscoveredItems)
	printer.PrintScript(result.State.Script)
	fmt.Printf("\nRun %d suspended awaiting video. Resume with:\n", result.RunID)
	fmt.Printf("  nexus_agent process --run-id %d <video.mp4>\n", result.RunID)
	return nil
}
