// Package llm implements the prediction advisor on top of an OpenAI-compatible
// chat-completions endpoint.
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

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/config"
	"github.com/yourusername/odds-oracle/internal/httpclient"
	"github.com/yourusername/odds-oracle/internal/models"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4.1-mini"
	maxResponseBytes   = 1 << 20
	chatCompletionPath = "/chat/completions"
	modelsPath         = "/models"
)

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls the chat-completions API and returns the raw answer text
type Client struct {
	http        *httpclient.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	logger      *logrus.Entry
}

// NewClient creates a new advisor client
func NewClient(cfg *config.LLMConfig, logger *logrus.Logger) (*Client, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	httpCfg := httpclient.DefaultConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = cfg.Timeout()
	}
	httpCfg.MaxRetries = cfg.MaxRetries
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	return &Client{
		http:        httpclient.New(httpCfg, logger),
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger.WithField("component", "llm"),
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Advise sends the payload to the model and returns the message content with
// any markdown code fences removed
func (c *Client) Advise(ctx context.Context, payload *models.PredictionPayload) (string, error) {
	start := time.Now()
	defer func() {
		LLMRequestLatency.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	}()

	userPrompt, err := buildUserPrompt(payload)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		LLMRequestsTotal.WithLabelValues("network_error").Inc()
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		LLMRequestsTotal.WithLabelValues("network_error").Inc()
		return "", fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		LLMRequestsTotal.WithLabelValues("http_error").Inc()
		return "", fmt.Errorf("%w: status=%d body=%s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		LLMRequestsTotal.WithLabelValues("decode_error").Inc()
		return "", fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}
	if len(decoded.Choices) == 0 {
		LLMRequestsTotal.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}

	content := stripCodeFences(decoded.Choices[0].Message.Content)
	if content == "" {
		LLMRequestsTotal.WithLabelValues("empty").Inc()
		return "", ErrEmptyResponse
	}

	LLMRequestsTotal.WithLabelValues("success").Inc()
	c.logger.WithFields(logrus.Fields{
		"model":       c.model,
		"sample_size": payload.SampleSize,
		"duration":    time.Since(start),
	}).Debug("Advisor answered")

	return content, nil
}

// HealthCheck verifies the API is reachable and the key is accepted
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+modelsPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.http.Close()
}

// stripCodeFences removes a surrounding ```json ... ``` block
func stripCodeFences(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
