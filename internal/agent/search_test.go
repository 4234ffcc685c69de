package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

func TestSerpAPIBackendSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "AI and job automation", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "5", r.URL.Query().Get("num"))

		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "First", "link": "https://a.example", "snippet": "alpha"},
				{"title": "Second", "link": "https://b.example", "snippet": "beta"},
			},
		})
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "test-key", Client: ts.Client()}
	results, err := b.Search(context.Background(), "AI and job automation")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, types.SearchResult{Title: "First", Link: "https://a.example", Snippet: "alpha"}, results[0])
	assert.Equal(t, types.SearchResult{Title: "Second", Link: "https://b.example", Snippet: "beta"}, results[1])
}

func TestSerpAPIBackendMissingKey(t *testing.T) {
	b := &SerpAPIBackend{}
	_, err := b.Search(context.Background(), "query")

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "api_key", verr.Field)
}

func TestSerpAPIBackendHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "bad", Client: ts.Client()}
	_, err := b.Search(context.Background(), "query")
	assert.ErrorContains(t, err, "HTTP 401")
}

func TestSerpAPIBackendEmptyResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "k", Client: ts.Client()}
	results, err := b.Search(context.Background(), "query")
	require.NoError(t, err)
	assert.Empty(t, results)
}
