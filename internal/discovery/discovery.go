// Package discovery implements the trend discovery stage.
//
// Discovery is a two-tier lookup: a real-time search backend (Serper) is
// tried first, and if it is unavailable or returns nothing the LLM is asked
// to simulate plausible trends for the niche. The stage never fails hard;
// an empty result is the signal the router uses to abort the run.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/creatorforge/nexus/internal/llm"
	"github.com/creatorforge/nexus/internal/prompts"
	"github.com/creatorforge/nexus/internal/types"
	"github.com/creatorforge/nexus/schemas"
)

// DefaultTrendCount is how many trends a discovery pass aims to surface
const DefaultTrendCount = 5

// Stage runs trend discovery for a niche
type Stage struct {
	searcher Searcher
	client   llm.Client
	count    int
	retry    func(context.Context, func() error) error
}

// NewStage creates a discovery stage. searcher may be nil, in which case
// only the LLM simulation path is available.
func NewStage(searcher Searcher, client llm.Client) *Stage {
	return &Stage{
		searcher: searcher,
		client:   client,
		count:    DefaultTrendCount,
		retry:    llm.Retry,
	}
}

// Run discovers trends for the state's niche and goals. It returns the
// discovered trends, which may be empty when both the search backend and
// the simulation fallback fail; callers decide what an empty result means.
func (s *Stage) Run(ctx context.Context, state *types.PipelineState) []types.Trend {
	query := state.Topic
	if query == "" {
		query = state.Niche
	}

	if s.searcher != nil {
		trends, err := s.search(ctx, query)
		if err != nil {
			slog.Warn("trend search failed, falling back to simulation", "error", err)
		} else if len(trends) > 0 {
			slog.Info("discovered trends via search", "query", query, "count", len(trends))
			return trends
		}
	}

	trends, err := s.simulate(ctx, query, state.Niche, state.Goals)
	if err != nil {
		slog.Error("trend simulation failed", "error", err)
		return nil
	}

	slog.Info("discovered trends via simulation", "query", query, "count", len(trends))
	return trends
}

// search queries the real-time backend with the stage retry policy
func (s *Stage) search(ctx context.Context, query string) ([]types.Trend, error) {
	var trends []types.Trend
	err := s.retry(ctx, func() error {
		var searchErr error
		trends, searchErr = s.searcher.Search(ctx, query, s.count)
		return searchErr
	})
	if err != nil {
		return nil, err
	}
	return trends, nil
}

// simulate asks the LLM to produce plausible trends for the niche
func (s *Stage) simulate(ctx context.Context, query, niche, goals string) ([]types.Trend, error) {
	template, err := prompts.Get("discovery.json", "simulate-trends")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Count": strconv.Itoa(s.count),
		"Query": query,
		"Niche": niche,
		"Goals": goals,
	})

	var raw string
	err = s.retry(ctx, func() error {
		var genErr error
		raw, genErr = s.client.GenerateJSON(ctx, prompt, llm.TierStandard, 0.9)
		return genErr
	})
	if err != nil {
		return nil, &APICallError{Message: "trend simulation", Cause: err}
	}

	if err := schemas.Validate(schemas.TrendList, raw); err != nil {
		return nil, fmt.Errorf("simulated trends failed validation: %w", err)
	}

	var trends []types.Trend
	if err := json.Unmarshal([]byte(raw), &trends); err != nil {
		return nil, &ParseError{Message: "failed to parse simulated trends", Cause: err}
	}

	if len(trends) > s.count {
		trends = trends[:s.count]
	}
	return trends, nil
}
