// Package scripting implements the script writing stage.
//
// The stage asks the LLM to remix discovered trends into a 15-second
// reel script shot in the creator's style. LLM failures degrade to a
// deterministic fallback script rather than aborting the run; the
// fallback keeps the run shootable even when the model is unavailable.
package scripting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/creatorforge/nexus/internal/llm"
	"github.com/creatorforge/nexus/internal/prompts"
	"github.com/creatorforge/nexus/internal/types"
	"github.com/creatorforge/nexus/schemas"
)

// scriptTemperature is deliberately high: the stage remixes trends into
// new content rather than extracting facts.
const scriptTemperature = 0.8

// Stage runs script writing
type Stage struct {
	client llm.Client
	retry  func(context.Context, func() error) error
}

// NewStage creates a scripting stage
func NewStage(client llm.Client) *Stage {
	return &Stage{
		client: client,
		retry:  llm.Retry,
	}
}

// Run writes a reel script for the state's topic, niche, and style,
// remixing the discovered trends. It always returns a script: generation
// failures produce a fallback built from the topic and niche.
func (s *Stage) Run(ctx context.Context, state *types.PipelineState) *types.Script {
	template, err := prompts.Get("scripting.json", "write-reel-script")
	if err != nil {
		slog.Error("failed to load scripting prompt", "error", err)
		return genericFallback(state)
	}

	prompt := prompts.Format(template, map[string]string{
		"Topic":  state.Topic,
		"Niche":  state.Niche,
		"Style":  state.StyleProfile,
		"Trends": formatTrends(state.DiscoveredItems),
	})

	var raw string
	err = s.retry(ctx, func() error {
		var genErr error
		raw, genErr = s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced, scriptTemperature)
		return genErr
	})
	if err != nil {
		slog.Error("script generation failed, using fallback", "error", err)
		return genericFallback(state)
	}

	if err := schemas.Validate(schemas.Script, raw); err != nil {
		slog.Error("generated script failed validation, using fallback", "error", err)
		return parseFallback(state)
	}

	var script types.Script
	if err := json.Unmarshal([]byte(raw), &script); err != nil {
		slog.Error("failed to parse generated script, using fallback", "error", err)
		return parseFallback(state)
	}

	script.Topic = state.Topic
	script.Style = state.StyleProfile
	if script.ShotCount == 0 {
		script.ShotCount = 1
	}

	slog.Info("script generated",
		"length", len(script.FullText),
		"shots", script.ShotCount,
		"difficulty", script.Difficulty)
	return &script
}

// formatTrends renders trends as a bulleted list for prompt interpolation
func formatTrends(trends []types.Trend) string {
	if len(trends) == 0 {
		return "(no current trends available)"
	}

	var b strings.Builder
	for _, trend := range trends {
		fmt.Fprintf(&b, "- %s: %s\n", trend.Title, trend.Summary)
	}
	return b.String()
}

// parseFallback is used when the model answered but the answer was not a
// usable script
func parseFallback(state *types.PipelineState) *types.Script {
	hook := fmt.Sprintf("Let's talk about %s...", state.Topic)
	body := fmt.Sprintf("Everyone in %s is talking about this, but here's what they're missing. [Hold up phone to camera] The real story is way more interesting.", state.Niche)
	closing := "Drop a comment if you want more on this. Follow for daily insights."

	return &types.Script{
		Hook:              hook,
		Body:              body,
		Closing:           closing,
		FullText:          strings.Join([]string{hook, body, closing}, " "),
		ShotCount:         1,
		Difficulty:        "easy",
		PropsNeeded:       []string{"smartphone"},
		EstimatedDuration: "15 seconds",
		Topic:             state.Topic,
		Style:             state.StyleProfile,
	}
}

// genericFallback is used when the model could not be reached at all
func genericFallback(state *types.PipelineState) *types.Script {
	hook := "Here's something you need to know..."
	body := fmt.Sprintf("About %s. [Look directly at camera] This is important.", state.Topic)
	closing := "Follow for more."

	return &types.Script{
		Hook:              hook,
		Body:              body,
		Closing:           closing,
		FullText:          strings.Join([]string{hook, body, closing}, " "),
		ShotCount:         1,
		Difficulty:        "easy",
		PropsNeeded:       []string{},
		EstimatedDuration: "15 seconds",
		Topic:             state.Topic,
		Style:             state.StyleProfile,
	}
}
