package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"stem-buddy/internal/domain"
)

// Message is one entry of the prompt sent to the completion provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single completion call. Summarization-style tasks run at
// lower temperature than open-ended tutoring.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Client generates a completion for an ordered list of messages.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// HTTPClient talks to an OpenAI-compatible chat completions API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient builds a client pointed at the chat completions API.
func NewHTTPClient(baseURL, apiKey, model string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// Complete issues one provider call. The credential is checked before any
// network I/O so a missing key never burns a retry on an unfixable condition.
func (c *HTTPClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrNotConfigured
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Transport failures and timeouts both classify as upstream.
		return "", fmt.Errorf("%w: do request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Warn("llm error response",
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", respBody),
			)
		}
		return "", fmt.Errorf("%w: status=%d", domain.ErrUpstream, resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", domain.ErrUpstream, err)
	}

	if cr.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUpstream, cr.Error.Message)
	}

	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}

	return cr.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
