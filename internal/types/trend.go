package types

// Trend represents one discovered trending item (article, thread, or video)
type Trend struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}
