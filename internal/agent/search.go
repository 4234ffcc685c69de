// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/httputil"
	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

// Searcher runs one web search query and returns simplified results.
// Implementations are substituted in tests.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
}

// SerpAPIBackend queries the SerpAPI Google engine.
type SerpAPIBackend struct {
	APIKey string
	Client *http.Client
	Config types.SearchConfig
}

// serpResponse is the subset of the SerpAPI response the agent consumes.
type serpResponse struct {
	OrganicResults []serpResult `json:"organic_results"`
}

// serpResult is one organic result from SerpAPI.
type serpResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search queries the Google engine and returns title/link/snippet triples.
func (b *SerpAPIBackend) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	if b.APIKey == "" {
		return nil, types.NewValidationError("api_key", "SerpAPI key is not configured")
	}

	maxResults := b.Config.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", b.APIKey)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("hl", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if b.Config.UserAgent != "" {
		req.Header.Set("User-Agent", b.Config.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		results = append(results, types.SearchResult{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
		})
	}
	return results, nil
}
