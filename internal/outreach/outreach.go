// Package outreach implements the sponsor outreach stage.
//
// The stage asks the LLM for sponsor matches with personalized pitch
// drafts that quote the run's actual script, so an operator can send
// them with minimal editing. Generation failures degrade to a fixed
// roster of creator-economy sponsors with script-enhanced pitches.
package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/creatorforge/nexus/internal/llm"
	"github.com/creatorforge/nexus/internal/prompts"
	"github.com/creatorforge/nexus/internal/types"
	"github.com/creatorforge/nexus/schemas"
)

const (
	// maxOffers caps the sponsor list regardless of what the model returns
	maxOffers = 3

	// sampleChars is how much of the script a pitch quotes
	sampleChars = 150
)

// Stage runs sponsor outreach
type Stage struct {
	client llm.Client
	retry  func(context.Context, func() error) error
}

// NewStage creates an outreach stage
func NewStage(client llm.Client) *Stage {
	return &Stage{
		client: client,
		retry:  llm.Retry,
	}
}

// Run drafts sponsor pitches for the run. It always returns offers:
// generation failures fall back to a fixed sponsor roster.
func (s *Stage) Run(ctx context.Context, state *types.PipelineState) []types.OutreachOffer {
	sample := ""
	if state.Script != nil {
		sample = state.Script.Sample(sampleChars)
	}
	clipCount := realClipCount(state.ClippedSegments)

	offers, err := s.draft(ctx, state, sample, clipCount)
	if err != nil {
		slog.Warn("sponsor pitch generation failed, using fallback roster", "error", err)
		return fallbackOffers(state, sample, clipCount)
	}

	slog.Info("drafted sponsor pitches", "offers", len(offers))
	return offers
}

// draft asks the LLM for sponsor matches with personalized pitches
func (s *Stage) draft(ctx context.Context, state *types.PipelineState, sample string, clipCount int) ([]types.OutreachOffer, error) {
	template, err := prompts.Get("outreach.json", "draft-sponsor-pitches")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Topic":        state.Topic,
		"Niche":        state.Niche,
		"Style":        state.StyleProfile,
		"ScriptSample": sample,
		"ClipCount":    strconv.Itoa(clipCount),
	})

	var raw string
	err = s.retry(ctx, func() error {
		var genErr error
		raw, genErr = s.client.GenerateJSON(ctx, prompt, llm.TierStandard, 0.7)
		return genErr
	})
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.OutreachList, raw); err != nil {
		return nil, fmt.Errorf("sponsor pitches failed validation: %w", err)
	}

	var offers []types.OutreachOffer
	if err := json.Unmarshal([]byte(raw), &offers); err != nil {
		return nil, fmt.Errorf("failed to parse sponsor pitches: %w", err)
	}
	if len(offers) > maxOffers {
		offers = offers[:maxOffers]
	}

	for i := range offers {
		if offers[i].PartnershipType == "" {
			offers[i].PartnershipType = "sponsored content"
		}
		offers[i].ScriptIncluded = sample != "" && strings.Contains(offers[i].MessageDraft, sample)
	}
	return offers, nil
}

// realClipCount counts clips with actual files behind them
func realClipCount(clips []types.ClippedSegment) int {
	count := 0
	for _, clip := range clips {
		if !clip.IsMock {
			count++
		}
	}
	return count
}

// fallbackOffers is the fixed roster used when pitch generation fails.
// All three sponsor programs are broadly creator-friendly, so the pitches
// stay plausible for any niche.
func fallbackOffers(state *types.PipelineState, sample string, clipCount int) []types.OutreachOffer {
	topic := state.Topic
	niche := state.Niche
	style := state.StyleProfile
	hasSample := sample != ""

	return []types.OutreachOffer{
		{
			PartnerName: "Skillshare",
			ContactURL:  "skillshare.com",
			Rationale:   fmt.Sprintf("Offers educational courses relevant to creators in the %s space, perfect for audience upskilling. Actively sponsors content creators across YouTube and social media.", niche),
			MessageDraft: fmt.Sprintf("Hey Skillshare team,\n\nI create %s content about %s. Here's a sample from my latest script: '%s' - this authentic approach is what my audience loves.\n\nI've created %d short-form videos that are resonating strongly with viewers who love learning new skills. Your platform is a perfect fit for my community.\n\nMy content reaches engaged viewers who are always looking to level up. I'd love to partner with Skillshare to offer my community a special discount while creating a dedicated integration in my %s series.\n\nInterested in a quick call this week?\n\nBest,\n[Your Name]",
				style, topic, sample, clipCount, topic),
			PartnershipType: "sponsored video + affiliate",
			ScriptIncluded:  hasSample,
		},
		{
			PartnerName: "Squarespace",
			ContactURL:  "squarespace.com",
			Rationale:   fmt.Sprintf("Website builder commonly sponsored by creators, helps audience build their own %s presence online. Known for influencer partnerships and creator-friendly programs.", topic),
			MessageDraft: fmt.Sprintf("Hi Squarespace partnerships team,\n\nI create %s content about %s. Check out this line from my recent script: '%s' - this is the authentic voice my %d short videos deliver.\n\nMy audience is passionate about building their online presence. Many are aspiring creators and entrepreneurs who need professional websites to showcase their %s projects.\n\nI'd love to showcase how Squarespace can help them launch with a custom discount code.\n\nCan we schedule a brief call?\n\nCheers,\n[Your Name]",
				style, topic, sample, clipCount, topic),
			PartnershipType: "sponsored integration",
			ScriptIncluded:  hasSample,
		},
		{
			PartnerName: "NordVPN",
			ContactURL:  "nordvpn.com",
			Rationale:   fmt.Sprintf("Privacy and security tool that appeals to tech-savvy audiences interested in %s. One of the most active sponsors in the creator economy.", topic),
			MessageDraft: fmt.Sprintf("Hello NordVPN team,\n\nI cover %s with a %s style. Here's my latest script sample: '%s' - this honest, direct approach drives my %d short-form videos.\n\nMy audience trusts my recommendations because I keep it real. I'd love to integrate NordVPN into my content with a dedicated segment on why online privacy matters for %s enthusiasts, plus a custom promo code.\n\nWould you be open to a 15-minute intro call?\n\nThanks,\n[Your Name]",
				topic, style, sample, clipCount, topic),
			PartnershipType: "sponsored segment + promo code",
			ScriptIncluded:  hasSample,
		},
	}
}
