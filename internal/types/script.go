package types

import "strings"

// Script represents a generated short-form video script with its three
// spoken sections plus shooting metadata
type Script struct {
	Hook     string `json:"hook"`
	Body     string `json:"body"`
	Closing  string `json:"closing"`
	FullText string `json:"full_text"`

	ShotCount         int      `json:"shot_count,omitempty"`
	Difficulty        string   `json:"difficulty,omitempty"`
	PropsNeeded       []string `json:"props_needed,omitempty"`
	EstimatedDuration string   `json:"estimated_duration,omitempty"`

	// Provenance, copied from the run inputs when the script is produced
	Topic string `json:"topic,omitempty"`
	Style string `json:"style,omitempty"`
}

// Sample returns a short excerpt of the full script, suitable for
// embedding in outreach pitches
func (s *Script) Sample(maxChars int) string {
	if s == nil || s.FullText == "" {
		return ""
	}
	text := strings.TrimSpace(s.FullText)
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + "..."
}
