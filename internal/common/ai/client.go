// internal/common/ai/client.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"greenmatch/internal/common/config"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/metrics"
)

var (
	ErrTimeout     = errors.New("AI_TIMEOUT")
	ErrUnavailable = errors.New("AI_SERVICE_UNAVAILABLE")
)

// Message is one turn of a reasoning conversation.
type Message struct {
	Role    string `json:"role"` // system|user|assistant
	Content string `json:"content"`
}

// CompleteOptions tunes a single reasoning call.
type CompleteOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// Client is the boundary to the external reasoning and embedding
// capabilities. Both are black boxes: the service only depends on "produce a
// natural-language answer" and "produce a fixed-length vector of text".
type Client interface {
	Complete(ctx context.Context, messages []Message, opts CompleteOptions) (string, error)
	Embed(ctx context.Context, text string) ([]float64, error)
}

// HTTPClient talks to an OpenAI-compatible API.
type HTTPClient struct {
	cfg    config.AIConfig
	client *http.Client
	logger logger.Logger
}

func NewHTTPClient(cfg config.AIConfig, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "ai-client"}),
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Complete sends a chat completion request and returns the raw response text.
func (c *HTTPClient) Complete(ctx context.Context, messages []Message, opts CompleteOptions) (string, error) {
	start := time.Now()
	defer func() {
		metrics.AICallDuration.WithLabelValues("complete").Observe(time.Since(start).Seconds())
	}()

	body, _ := json.Marshal(chatRequest{
		Model:       c.cfg.ChatModel,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxOutputTokens,
	})

	raw, err := c.post(ctx, "/v1/chat/completions", body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	return parsed.Choices[0].Message.Content, nil
}

// Embed returns a fixed-length vector embedding of the given text.
func (c *HTTPClient) Embed(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()
	defer func() {
		metrics.AICallDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
	}()

	body, _ := json.Marshal(embedRequest{
		Model: c.cfg.EmbedModel,
		Input: text,
	})

	raw, err := c.post(ctx, "/v1/embeddings", body)
	if err != nil {
		return nil, err
	}

	var parsed embedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}

	return parsed.Data[0].Embedding, nil
}

// post issues the request with bounded retries and exponential backoff.
func (c *HTTPClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrTimeout
			}
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			// Client errors will not improve on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				break
			}
			continue
		}

		var out bytes.Buffer
		_, err = out.ReadFrom(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return out.Bytes(), nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return nil, ErrTimeout
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}
