package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/metrics"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	SizeSquare    = "1024x1024"
	SizeLandscape = "1792x1024"
)

// SizeForAspect maps "1:1" to a square image and everything else to 16:9.
func SizeForAspect(aspect string) string {
	if aspect == "1:1" {
		return SizeSquare
	}
	return SizeLandscape
}

// ImageClient calls an OpenAI-style images/generations endpoint.
type ImageClient struct {
	url     string
	key     string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

func NewImageClient(cfg *config.Config, limiter *rate.Limiter) *ImageClient {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &ImageClient{
		url:     cfg.ImageAPIURL,
		key:     cfg.ImageAPIKey,
		model:   cfg.ImageModel,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

// Generate returns the base64-encoded PNG for prompt.
func (c *ImageClient) Generate(ctx context.Context, prompt, size string) (string, error) {
	if c.key == "" {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ai rate limit: %w", err)
	}

	reqBody, err := json.Marshal(imageRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           size,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.AIDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API returned %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	b64 := gjson.GetBytes(body, "data.0.b64_json").String()
	if b64 == "" {
		return "", ErrEmptyResponse
	}
	return b64, nil
}
