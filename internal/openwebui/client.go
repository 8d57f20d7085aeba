// Package openwebui is a client for the OpenWebUI chat-completions API. It
// works with any endpoint implementing the OpenAI chat completions interface
// behind OpenWebUI's /api prefix.
package openwebui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/bestvpnai/relaybot/internal/config"
)

// maxErrorBodySize caps how much of an error response body is kept for error messages.
const maxErrorBodySize = 4096

// Client issues single synchronous chat-completion requests. No retries;
// each failure surfaces immediately to the caller.
type Client struct {
	cfg  config.Upstream
	http *http.Client
}

// NewClient creates a client from the upstream config section.
func NewClient(cfg config.Upstream) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// chatRequest is the wire format for the chat completions request body.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the completion response the relay reads.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Ask sends text as a single-message conversation and returns the
// assistant's reply. text must be non-empty; empty messages are the caller's
// responsibility to reject.
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openwebui: marshal request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/api/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openwebui: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("openwebui: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no choices in body", ErrMalformed)
	}

	return completion.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// isTimeout reports whether err is a client timeout or context deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
