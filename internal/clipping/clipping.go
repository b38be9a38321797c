// Package clipping implements the clipping and distribution stage.
//
// Given the shot video, the stage probes its duration, plans an even
// split into short segments, cuts each with ffmpeg, and hands the results
// to the configured publishers. When no usable media exists (nothing
// uploaded, ffmpeg missing, every cut failed) the stage emits mock clip
// metadata so the rest of the run can complete and the operator can see
// what would have been produced.
package clipping

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/creatorforge/nexus/internal/publishing"
	"github.com/creatorforge/nexus/internal/types"
)

// MockPathPlaceholder marks clip records that have no file behind them
const MockPathPlaceholder = "[MOCK] User needs to shoot video"

// Options configures a clipping stage
type Options struct {
	ClipDir     string
	MinSeconds  float64
	MaxSeconds  float64
	TargetCount int
}

// Stage cuts the shot video into shorts and distributes them
type Stage struct {
	prober     Prober
	clipper    Clipper
	publishers []publishing.Publisher
	opts       Options
}

// NewStage creates a clipping stage
func NewStage(prober Prober, clipper Clipper, publishers []publishing.Publisher, opts Options) *Stage {
	if opts.ClipDir == "" {
		opts.ClipDir = "shorts"
	}
	if opts.MinSeconds <= 0 {
		opts.MinSeconds = 15
	}
	if opts.MaxSeconds <= 0 {
		opts.MaxSeconds = 60
	}
	if opts.TargetCount <= 0 {
		opts.TargetCount = 3
	}
	return &Stage{
		prober:     prober,
		clipper:    clipper,
		publishers: publishers,
		opts:       opts,
	}
}

// Run cuts and distributes clips for the state's media asset. It always
// returns at least mock clips; real clips are additionally posted to
// every configured publisher.
func (s *Stage) Run(ctx context.Context, state *types.PipelineState) []types.ClippedSegment {
	clips := s.cutClips(ctx, state.MediaAssetPath)
	if len(clips) == 0 {
		slog.Warn("no clips produced, emitting mock clip metadata")
		return MockClips()
	}

	for i := range clips {
		s.publish(ctx, &clips[i], state)
	}

	posted := 0
	for _, clip := range clips {
		if clip.Posted {
			posted++
		}
	}
	slog.Info("clipping complete", "clips", len(clips), "posted", posted)
	return clips
}

// cutClips probes the source and cuts the planned segments. A nil result
// means the mock fallback should be used.
func (s *Stage) cutClips(ctx context.Context, mediaPath string) []types.ClippedSegment {
	if mediaPath == "" {
		slog.Warn("no video uploaded yet")
		return nil
	}
	if _, err := os.Stat(mediaPath); err != nil {
		slog.Warn("media asset not found", "path", mediaPath)
		return nil
	}
	if !s.clipper.Available(ctx) {
		slog.Warn("ffmpeg not available")
		return nil
	}

	meta, err := s.prober.Probe(ctx, mediaPath)
	if err != nil {
		slog.Warn("failed to probe media", "error", err)
		return nil
	}

	plan := PlanSegments(meta.Duration, s.opts.MinSeconds, s.opts.MaxSeconds, s.opts.TargetCount)
	if len(plan) == 0 {
		slog.Warn("video too short to clip",
			"duration", meta.Duration,
			"min_seconds", s.opts.MinSeconds)
		return nil
	}

	if err := os.MkdirAll(s.opts.ClipDir, 0o755); err != nil {
		slog.Error("failed to create clip directory", "dir", s.opts.ClipDir, "error", err)
		return nil
	}

	clips := make([]types.ClippedSegment, 0, len(plan))
	for i, segment := range plan {
		filename := fmt.Sprintf("short_%d_%ds.mp4", i+1, int(segment.Duration))
		output := filepath.Join(s.opts.ClipDir, filename)

		slog.Info("cutting segment",
			"clip", i+1,
			"start", segment.Start,
			"duration", segment.Duration)
		if err := s.clipper.Cut(ctx, mediaPath, output, segment.Start, segment.Duration); err != nil {
			slog.Warn("failed to cut segment", "clip", i+1, "error", err)
			continue
		}

		var size int64
		if info, err := os.Stat(output); err == nil {
			size = info.Size()
		}

		clips = append(clips, types.ClippedSegment{
			ID:          i + 1,
			Filename:    filename,
			SourcePath:  mediaPath,
			Path:        output,
			StartOffset: segment.Start,
			Duration:    segment.Duration,
			SizeBytes:   size,
		})
	}
	return clips
}

// publish fans one clip out to every configured publisher in parallel
// and records the per-platform outcomes on the clip. Results arrive in
// publisher order regardless of completion order.
func (s *Stage) publish(ctx context.Context, clip *types.ClippedSegment, state *types.PipelineState) {
	if len(s.publishers) == 0 {
		return
	}

	details := buildPost(clip, state)
	results := make([]types.PublishResult, len(s.publishers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, publisher := range s.publishers {
		i, publisher := i, publisher
		g.Go(func() error {
			results[i] = publisher.Publish(gCtx, clip.Path, details)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range results {
		clip.PublishResults = append(clip.PublishResults, result)
		if result.Success {
			clip.Posted = true
			slog.Info("posted clip", "clip", clip.ID, "platform", result.Platform, "url", result.URL)
		} else if result.Skipped {
			slog.Info("skipped platform", "clip", clip.ID, "platform", result.Platform)
		} else {
			slog.Warn("failed to post clip", "clip", clip.ID, "platform", result.Platform, "error", result.Error)
		}
	}
}

// buildPost assembles platform post metadata from the run's script
func buildPost(clip *types.ClippedSegment, state *types.PipelineState) publishing.PostDetails {
	topic := state.Topic
	hook := ""
	fullText := ""
	if state.Script != nil {
		hook = state.Script.Hook
		fullText = state.Script.FullText
	}
	if len(hook) > 200 {
		hook = hook[:200]
	}

	hashtag := strings.ReplaceAll(topic, " ", "")
	caption := fmt.Sprintf("🎬 %s | Clip %d\n\n%s\n\n#%s #Shorts", topic, clip.ID, hook, hashtag)

	return publishing.PostDetails{
		Caption:       caption,
		Title:         fmt.Sprintf("%s - Short #%d", topic, clip.ID),
		Description:   fullText + "\n\nGenerated with Nexus",
		PrivacyStatus: "public",
	}
}

// MockClips returns placeholder clip metadata for runs with no usable
// media. The offsets and durations sketch the batch a real shoot would
// produce.
func MockClips() []types.ClippedSegment {
	return []types.ClippedSegment{
		{ID: 1, Filename: "short_1_15s.mp4", Path: MockPathPlaceholder, StartOffset: 0, Duration: 15, IsMock: true},
		{ID: 2, Filename: "short_2_30s.mp4", Path: MockPathPlaceholder, StartOffset: 15, Duration: 30, IsMock: true},
		{ID: 3, Filename: "short_3_20s.mp4", Path: MockPathPlaceholder, StartOffset: 45, Duration: 20, IsMock: true},
	}
}
