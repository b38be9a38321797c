package types

// PublishResult records the outcome of publishing one clip to one platform
type PublishResult struct {
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	Skipped  bool   `json:"skipped,omitempty"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ClippedSegment represents one short clip cut from the source video.
// IsMock marks placeholder segments produced when no usable media exists.
type ClippedSegment struct {
	ID          int     `json:"id"`
	Filename    string  `json:"filename"`
	SourcePath  string  `json:"source_path"`
	Path        string  `json:"path"`
	StartOffset float64 `json:"start_offset"`
	Duration    float64 `json:"duration"`
	SizeBytes   int64   `json:"size_bytes"`

	Posted         bool            `json:"posted"`
	PublishResults []PublishResult `json:"publish_results,omitempty"`
	IsMock         bool            `json:"is_mock,omitempty"`
}

// MediaMeta describes the source video a batch of clips was cut from
type MediaMeta struct {
	Path      string  `json:"path"`
	Duration  float64 `json:"duration"`
	SizeBytes int64   `json:"size_bytes"`
}
