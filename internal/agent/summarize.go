// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coreyalejandro/code-genie-deep-research-agent/internal/httputil"
)

// summaryPrompt instructs the model to condense one search result.
const summaryPrompt = "You are a helpful research assistant. Summarize this search result in 1-2 clear sentences."

// openAIAPIURL is the chat completions endpoint. Package-level var for
// test substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// Summarizer condenses raw search result text into a short summary.
// Implementations are substituted in tests.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// OpenAIBackend calls the OpenAI chat completions API to summarize text.
type OpenAIBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion candidate.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Summarize sends text to the chat model and returns the summary.
func (o *OpenAIBackend) Summarize(ctx context.Context, text string) (string, error) {
	model := o.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: summaryPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   100,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return cResp.Choices[0].Message.Content, nil
}

var _ Summarizer = (*OpenAIBackend)(nil)
var _ Searcher = (*SerpAPIBackend)(nil)
