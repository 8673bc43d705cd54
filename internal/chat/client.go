package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ChatMessage is the wire format shared with the upstream completion API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces an assistant reply for a message history.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

var ErrEmptyCompletion = errors.New("upstream returned no choices")

// CompletionClient talks to an OpenAI-compatible chat completions endpoint.
// Requests are throttled client-side so one chatty user cannot burn the
// upstream quota.
type CompletionClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	limiter    *rate.Limiter
}

var _ Completer = (*CompletionClient)(nil)

func NewCompletionClient(endpoint, apiKey, model string) *CompletionClient {
	return &CompletionClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		limiter:    rate.NewLimiter(rate.Limit(2), 5),
	}
}

func (c *CompletionClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]any{
		"model":    c.model,
		"messages": messages,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[chat] upstream status=%d duration=%dms",
		resp.StatusCode, time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, body)
	}

	var result struct {
		Choices []struct {
			Message ChatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upstream response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return result.Choices[0].Message.Content, nil
}
