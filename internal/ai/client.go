// Package ai calls an OpenAI-compatible chat-completions endpoint to
// analyze journal entries for sentiment, themes and writing
// suggestions. The model is asked for a JSON object; its reply is
// schema-validated rather than trusted, so a malformed completion
// surfaces as an error instead of garbage reaching the client.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream indicates the completion API itself failed (transport
// error or non-200 status). Handlers map it to 502.
var ErrUpstream = errors.New("analysis service unavailable")

// ErrBadCompletion indicates the API answered but the completion did
// not contain a valid analysis object.
var ErrBadCompletion = errors.New("malformed analysis from model")

// Analysis is the validated result of one entry analysis.
type Analysis struct {
	Sentiment   string   `json:"sentiment"`
	Themes      []string `json:"themes"`
	Suggestions []string `json:"suggestions"`
}

// Client talks to one chat-completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

// NewClient builds a Client. baseURL should point at the API root
// (e.g. https://api.openai.com/v1); the /chat/completions suffix is
// appended when missing.
func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) url() string {
	if strings.HasSuffix(c.baseURL, "/chat/completions") {
		return c.baseURL
	}
	return c.baseURL + "/chat/completions"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const promptTemplate = `Analyze the following journal entry for sentiment, key themes, and provide 2 writing suggestions to improve it:

Entry: """%s"""

Please provide your answer in JSON format with keys "sentiment", "themes", and "suggestions".`

// Analyze sends one completion request for the given entry text and
// returns the validated analysis.
func (c *Client) Analyze(ctx context.Context, text string) (*Analysis, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: fmt.Sprintf(promptTemplate, text)}},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCompletion, err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrBadCompletion)
	}
	return parseAnalysis(cr.Choices[0].Message.Content)
}

// parseAnalysis validates the model's reply. Models often wrap JSON in
// markdown fences; those are stripped before decoding.
func parseAnalysis(content string) (*Analysis, error) {
	content = stripFences(content)
	var a Analysis
	if err := json.Unmarshal([]byte(content), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCompletion, err)
	}
	if strings.TrimSpace(a.Sentiment) == "" {
		return nil, fmt.Errorf("%w: missing sentiment", ErrBadCompletion)
	}
	if a.Themes == nil {
		a.Themes = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	return &a, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
