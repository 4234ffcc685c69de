package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIBackendSummarize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "long search result text", req.Messages[1].Content)

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: "A short summary."}}},
		})
	}))
	defer ts.Close()

	old := openAIAPIURL
	openAIAPIURL = ts.URL
	defer func() { openAIAPIURL = old }()

	b := &OpenAIBackend{APIKey: "sk-test", Client: ts.Client()}
	got, err := b.Summarize(context.Background(), "long search result text")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)
}

func TestOpenAIBackendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad request"}`))
	}))
	defer ts.Close()

	old := openAIAPIURL
	openAIAPIURL = ts.URL
	defer func() { openAIAPIURL = old }()

	b := &OpenAIBackend{APIKey: "sk-test", Client: ts.Client()}
	_, err := b.Summarize(context.Background(), "text")
	assert.ErrorContains(t, err, "returned 400")
}

func TestOpenAIBackendNoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	old := openAIAPIURL
	openAIAPIURL = ts.URL
	defer func() { openAIAPIURL = old }()

	b := &OpenAIBackend{APIKey: "sk-test", Client: ts.Client()}
	_, err := b.Summarize(context.Background(), "text")
	assert.ErrorContains(t, err, "no choices")
}
