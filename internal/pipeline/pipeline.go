// Package pipeline orchestrates the content co-founder run.
//
// A run is a fixed sequence of stages over one PipelineState with two
// conditional edges: no discovered trends ends the run with a discovery
// failure, and an empty script ends it with a writing failure. Everything
// downstream of writing degrades instead of failing. The run is split in
// two phases around the human video shoot: Phase 1 ends by persisting the
// script and returning a run id, Phase 2 rehydrates that run and carries
// it to completion.
//
// Stages never return errors; they embed fallbacks. The only hard errors
// out of the pipeline are run-store write failures, which must surface so
// run history is never silently lost.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/creatorforge/nexus/internal/clipping"
	"github.com/creatorforge/nexus/internal/store"
	"github.com/creatorforge/nexus/internal/types"
)

// Stage names recorded on failure terminals
const (
	StageDiscovery = "discovery"
	StageWriting   = "writing"
)

// RunStore is the persistence the pipeline requires
type RunStore interface {
	CreateRun(ctx context.Context, topic, niche, style, goals string) (int64, error)
	AppendScript(ctx context.Context, runID int64, script *types.Script) error
	AppendMedia(ctx context.Context, runID int64, meta types.MediaMeta, segments []types.ClippedSegment) (int64, error)
	AppendOutreach(ctx context.Context, runID int64, offers []types.OutreachOffer) error
	GetRun(ctx context.Context, runID int64) (*store.RunRecord, error)
}

// DiscoveryStage produces trends for the run inputs
type DiscoveryStage interface {
	Run(ctx context.Context, state *types.PipelineState) []types.Trend
}

// ScriptingStage produces the reel script
type ScriptingStage interface {
	Run(ctx context.Context, state *types.PipelineState) *types.Script
}

// ClippingStage cuts and distributes clips
type ClippingStage interface {
	Run(ctx context.Context, state *types.PipelineState) []types.ClippedSegment
}

// OutreachStage drafts sponsor pitches
type OutreachStage interface {
	Run(ctx context.Context, state *types.PipelineState) []types.OutreachOffer
}

// Inputs are the user-supplied run configuration
type Inputs struct {
	Topic string
	Niche string
	Style string
	Goals string
}

// Phase1Result is returned at the suspend checkpoint: the run id to
// resume with, plus the state as of suspension.
type Phase1Result struct {
	RunID int64
	State *types.PipelineState
}

// Pipeline wires the stages and store into the two-phase run
type Pipeline struct {
	store     RunStore
	discovery DiscoveryStage
	scripting ScriptingStage
	clipping  ClippingStage
	outreach  OutreachStage
	prober    clipping.Prober
}

// New creates a pipeline over the given stages and store
func New(runStore RunStore, discovery DiscoveryStage, scripting ScriptingStage, clippingStage ClippingStage, outreach OutreachStage, prober clipping.Prober) *Pipeline {
	return &Pipeline{
		store:     runStore,
		discovery: discovery,
		scripting: scripting,
		clipping:  clippingStage,
		outreach:  outreach,
		prober:    prober,
	}
}

// RunPhase1 executes discovery and writing, then suspends: the script is
// persisted under a fresh run id and control returns to the caller so a
// human can shoot the video.
//
// A routing failure (no trends, empty script) is not a Go error: it is
// recorded on the returned state and the run is simply not persisted.
// Errors are store write failures only.
func (p *Pipeline) RunPhase1(ctx context.Context, inputs Inputs) (*Phase1Result, error) {
	state := &types.PipelineState{
		Topic:        inputs.Topic,
		Niche:        inputs.Niche,
		StyleProfile: inputs.Style,
		Goals:        inputs.Goals,
	}

	slog.Info("starting run", "topic", state.Topic, "niche", state.Niche)

	state.DiscoveredItems = p.discovery.Run(ctx, state)
	if len(state.DiscoveredItems) == 0 {
		state.Failure = &types.Failure{Stage: StageDiscovery, Message: "no items found"}
		slog.Warn("run failed", "stage", StageDiscovery)
		return &Phase1Result{State: state}, nil
	}

	state.Script = p.scripting.Run(ctx, state)
	if state.Script == nil || state.Script.FullText == "" {
		state.Failure = &types.Failure{Stage: StageWriting, Message: "script has no full text"}
		slog.Warn("run failed", "stage", StageWriting)
		return &Phase1Result{State: state}, nil
	}

	runID, err := p.store.CreateRun(ctx, inputs.Topic, inputs.Niche, inputs.Style, inputs.Goals)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	if err := p.store.AppendScript(ctx, runID, state.Script); err != nil {
		return nil, fmt.Errorf("failed to persist script for run %d: %w", runID, err)
	}

	slog.Info("run suspended awaiting video", "run_id", runID)
	return &Phase1Result{RunID: runID, State: state}, nil
}

// RunPhase2 resumes a suspended run: it rehydrates the persisted state,
// cuts and distributes clips from the supplied media file, drafts sponsor
// outreach, and persists the results. A missing or unusable media file
// does not fail the run — the clipping stage substitutes mock segments.
func (p *Pipeline) RunPhase2(ctx context.Context, runID int64, mediaPath string) (*types.PipelineState, error) {
	record, err := p.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to rehydrate run %d: %w", runID, err)
	}

	state := &types.PipelineState{
		Topic:          record.Topic,
		Niche:          record.Niche,
		StyleProfile:   record.Style,
		Goals:          record.Goals,
		Script:         record.Script,
		MediaAssetPath: mediaPath,
	}

	slog.Info("resuming run", "run_id", runID, "media", mediaPath)

	state.ClippedSegments = p.clipping.Run(ctx, state)

	if hasRealClips(state.ClippedSegments) {
		meta := p.probeMedia(ctx, mediaPath)
		if _, err := p.store.AppendMedia(ctx, runID, meta, state.ClippedSegments); err != nil {
			return nil, fmt.Errorf("failed to persist media for run %d: %w", runID, err)
		}
	}

	state.OutreachOffers = p.outreach.Run(ctx, state)
	if err := p.store.AppendOutreach(ctx, runID, state.OutreachOffers); err != nil {
		return nil, fmt.Errorf("failed to persist outreach for run %d: %w", runID, err)
	}

	slog.Info("run complete", "run_id", runID,
		"clips", len(state.ClippedSegments),
		"offers", len(state.OutreachOffers))
	return state, nil
}

// RunFull executes both phases back to back with an already-available
// media file. Used by the CLI when the footage was shot in advance.
func (p *Pipeline) RunFull(ctx context.Context, inputs Inputs, mediaPath string) (*types.PipelineState, error) {
	phase1, err := p.RunPhase1(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if phase1.State.Failed() {
		return phase1.State, nil
	}
	return p.RunPhase2(ctx, phase1.RunID, mediaPath)
}

// probeMedia reads source metadata for the media batch record. A probe
// failure degrades to path-plus-size: the batch row is still written.
func (p *Pipeline) probeMedia(ctx context.Context, mediaPath string) types.MediaMeta {
	if p.prober != nil {
		if meta, err := p.prober.Probe(ctx, mediaPath); err == nil {
			return meta
		}
	}

	meta := types.MediaMeta{Path: mediaPath}
	if info, err := os.Stat(mediaPath); err == nil {
		meta.SizeBytes = info.Size()
	}
	return meta
}

func hasRealClips(clips []types.ClippedSegment) bool {
	for _, clip := range clips {
		if !clip.IsMock {
			return true
		}
	}
	return false
}
