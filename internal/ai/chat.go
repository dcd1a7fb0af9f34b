// Package ai wraps the hosted model APIs: OpenAI-compatible chat
// completions with provider fallback, image generation, and long-running
// video generation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/metrics"
	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured = errors.New("API key not configured")
	ErrEmptyResponse = errors.New("empty response from API")
)

// Provider is one OpenAI-compatible chat completions endpoint.
type Provider struct {
	Name  string
	URL   string
	Key   string
	Model string
}

// ChatClient tries each provider in order until one answers.
type ChatClient struct {
	providers []Provider
	client    *http.Client
	limiter   *rate.Limiter
}

// NewChatClient builds the GLM then DeepSeek chain. limiter is shared with
// the other AI clients so AI_RATE_PER_MINUTE bounds all provider calls.
func NewChatClient(cfg *config.Config, limiter *rate.Limiter) *ChatClient {
	return NewChatClientWithProviders([]Provider{
		{Name: "glm", URL: cfg.GLMAPIURL, Key: cfg.GLMAPIKey, Model: cfg.GLMModel},
		{Name: "deepseek", URL: cfg.DeepSeekAPIURL, Key: cfg.DeepSeekAPIKey, Model: cfg.DeepSeekModel},
	}, cfg.AITimeout, limiter)
}

func NewChatClientWithProviders(providers []Provider, timeout time.Duration, limiter *rate.Limiter) *ChatClient {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &ChatClient{
		providers: providers,
		client:    &http.Client{Timeout: timeout},
		limiter:   limiter,
	}
}

// NewLimiter returns a token bucket allowing perMinute calls per minute.
// A non-positive value disables throttling.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// ChatRequest is a single system+user exchange.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete returns the first provider's answer with code fences removed.
func (c *ChatClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ai rate limit: %w", err)
	}

	var lastErr error = ErrNotConfigured
	for i, p := range c.providers {
		if p.Key == "" {
			continue
		}
		start := time.Now()
		content, err := c.callProvider(ctx, p, req)
		metrics.AIDuration.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())
		if err == nil {
			return content, nil
		}
		lastErr = err
		if i < len(c.providers)-1 {
			slog.Warn("llm provider failed, trying next", "provider", p.Name, "error", err)
		} else {
			slog.Warn("llm provider failed", "provider", p.Name, "error", err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all LLM providers failed: %w", lastErr)
}

// CompleteJSON decodes the answer into out.
func (c *ChatClient) CompleteJSON(ctx context.Context, req ChatRequest, out interface{}) error {
	content, err := c.Complete(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return nil
}

func (c *ChatClient) callProvider(ctx context.Context, p Provider, in ChatRequest) (string, error) {
	temperature := in.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := in.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	messages := make([]llmMessage, 0, 2)
	if in.System != "" {
		messages = append(messages, llmMessage{Role: "system", Content: in.System})
	}
	messages = append(messages, llmMessage{Role: "user", Content: in.User})

	reqBody, err := json.Marshal(llmRequest{
		Model:       p.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.Key)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var llmResp llmResponse
	if err := json.Unmarshal(body, &llmResp); err != nil {
		return "", err
	}
	if len(llmResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := StripFences(llmResp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// StripFences removes a surrounding ``` or ```json block.
func StripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
