// Package types provides type definitions for structured data used throughout the nexus pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PipelineState is the single record threaded through every pipeline stage.
// Input fields (Topic, Niche, StyleProfile, Goals) are set once at run start
// and never mutated; each stage fully replaces the output fields it owns.
type PipelineState struct {
	Topic        string `json:"topic"`
	Niche        string `json:"niche"`
	StyleProfile string `json:"style_profile"`
	Goals        string `json:"goals,omitempty"`

	DiscoveredItems []Trend          `json:"discovered_items,omitempty"`
	Script          *Script          `json:"script,omitempty"`
	MediaAssetPath  string           `json:"media_asset_path,omitempty"`
	ClippedSegments []ClippedSegment `json:"clipped_segments,omitempty"`
	OutreachOffers  []OutreachOffer  `json:"outreach_offers,omitempty"`

	// Failure is set by the router when a required output is missing after a
	// stage runs; its presence terminates the run.
	Failure *Failure `json:"failure,omitempty"`
}

// Failure records which stage terminated a run and why
type Failure struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Failed reports whether the run has been terminated by the router
func (s *PipelineState) Failed() bool {
	return s.Failure != nil
}

// HasScript reports whether the writing stage produced a usable script
func (s *PipelineState) HasScript() bool {
	return s.Script != nil && s.Script.FullText != ""
}
