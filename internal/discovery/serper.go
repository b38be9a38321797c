package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/creatorforge/nexus/internal/types"
)

// DefaultSerperEndpoint is the Serper search API endpoint
const DefaultSerperEndpoint = "https://google.serper.dev/search"

// serperTimeout bounds a single search call (metadata-probe class)
const serperTimeout = 10 * time.Second

// Searcher finds trending items for a query. Implementations talk to a
// real-time search backend; a nil Searcher means discovery relies on the
// LLM simulation path only.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]types.Trend, error)
}

// SerperClient implements Searcher against the Serper Google-search API
type SerperClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSerperClient creates a Serper-backed Searcher
func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		apiKey:   apiKey,
		endpoint: DefaultSerperEndpoint,
		client:   &http.Client{Timeout: serperTimeout},
	}
}

// WithEndpoint overrides the API endpoint (used in tests)
func (c *SerperClient) WithEndpoint(endpoint string) *SerperClient {
	c.endpoint = endpoint
	return c
}

type serperRequest struct {
	Query    string `json:"q"`
	Num      int    `json:"num"`
	Location string `json:"gl"`
	Language string `json:"hl"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search queries Serper for viral/trending results about the query.
// Transport and non-200 failures return an APICallError so callers can
// apply their retry policy.
func (c *SerperClient) Search(ctx context.Context, query string, count int) ([]types.Trend, error) {
	payload, err := json.Marshal(serperRequest{
		Query:    query + " viral trending",
		Num:      count,
		Location: "us",
		Language: "en",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &APICallError{Message: "search request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APICallError{Message: fmt.Sprintf("search returned status %d", resp.StatusCode)}
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ParseError{Message: "failed to decode search response", Cause: err}
	}

	trends := make([]types.Trend, 0, len(parsed.Organic))
	for _, result := range parsed.Organic {
		if len(trends) >= count {
			break
		}
		trends = append(trends, types.Trend{
			Title:   result.Title,
			URL:     result.Link,
			Summary: result.Snippet,
		})
	}
	return trends, nil
}
