package main

import (
	"context"
	"fmt"

	"github.com/creatorforge/nexus/internal/clipping"
	"github.com/creatorforge/nexus/internal/config"
	"github.com/creatorforge/nexus/internal/discovery"
	"github.com/creatorforge/nexus/internal/llm"
	"github.com/creatorforge/nexus/internal/outreach"
	"github.com/creatorforge/nexus/internal/pipeline"
	"github.com/creatorforge/nexus/internal/publishing"
	"github.com/creatorforge/nexus/internal/scripting"
	"github.com/creatorforge/nexus/internal/store"
)

// app holds everything a command needs to run the pipeline, plus the
// resources to release afterwards.
type app struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	store    *store.Store
	client   llm.Client
}

// buildApp assembles the full pipeline from configuration: the run store,
// the LLM client, and all four stages with their external collaborators.
func buildApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	runStore, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}

	client, err := llm.NewClient(ctx, nil, cfg.GeminiAPIKey)
	if err != nil {
		_ = runStore.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	// Without a Serper key discovery goes straight to simulated trends
	var searcher discovery.Searcher
	if cfg.SerperAPIKey != "" {
		searcher = discovery.NewSerperClient(cfg.SerperAPIKey)
	}

	publishers := []publishing.Publisher{
		publishing.NewTwitterPublisher(cfg.TwitterAPIKey, cfg.TwitterAPISecret,
			cfg.TwitterAccessToken, cfg.TwitterAccessSecret),
		publishing.NewYouTubePublisher(cfg.YouTubeTokenPath),
	}

	prober := clipping.NewFFprobe(cfg.FFprobeBinary)
	clipStage := clipping.NewStage(prober, clipping.NewFFmpeg(cfg.FFmpegBinary), publishers, clipping.Options{
		ClipDir:     cfg.ClipDir,
		MinSeconds:  cfg.MinClipSeconds,
		MaxSeconds:  cfg.MaxClipSeconds,
		TargetCount: cfg.TargetClipCount,
	})

	p := pipeline.New(
		runStore,
		discovery.NewStage(searcher, client),
		scripting.NewStage(client),
		clipStage,
		outreach.NewStage(client),
		prober,
	)

	return &app{cfg: cfg, pipeline: p, store: runStore, client: client}, nil
}

// close releases the LLM client and the run store
func (a *app) close() {
	_ = a.client.Close()
	_ = a.store.Close()
}
