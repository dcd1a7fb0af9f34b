package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Operation is the decoded state of a long-running video generation.
type Operation struct {
	Done  bool
	URI   string
	Error string
}

// VideoClient drives predictLongRunning video generation.
type VideoClient struct {
	baseURL string
	key     string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewVideoClient throttles Start with limiter. Polls and downloads are not
// billed generations and are left unthrottled.
func NewVideoClient(cfg *config.Config, limiter *rate.Limiter) *VideoClient {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &VideoClient{
		baseURL: strings.TrimSuffix(cfg.VideoAPIURL, "/"),
		key:     cfg.VideoAPIKey,
		model:   cfg.VideoModel,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Start submits prompt and returns the operation name.
func (c *VideoClient) Start(ctx context.Context, prompt string) (string, error) {
	if c.key == "" {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ai rate limit: %w", err)
	}
	payload := map[string]interface{}{
		"instances":  []map[string]string{{"prompt": prompt}},
		"parameters": map[string]interface{}{"aspectRatio": "16:9", "sampleCount": 1},
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, c.model)
	body, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}

	name := gjson.GetBytes(body, "name").String()
	if name == "" {
		return "", fmt.Errorf("video API returned no operation name")
	}
	return name, nil
}

// Poll fetches the current state of operation name.
func (c *VideoClient) Poll(ctx context.Context, name string) (*Operation, error) {
	if c.key == "" {
		return nil, ErrNotConfigured
	}
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/"+strings.TrimPrefix(name, "/"), nil)
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	op := &Operation{Done: result.Get("done").Bool()}
	if msg := result.Get("error.message"); msg.Exists() {
		op.Error = msg.String()
		if op.Error == "" {
			op.Error = "video generation failed"
		}
		return op, nil
	}
	op.URI = result.Get("response.generateVideoResponse.generatedSamples.0.video.uri").String()
	return op, nil
}

// Download fetches the generated file; the API key travels as a query parameter.
func (c *VideoClient) Download(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid video uri: %w", err)
	}
	q := u.Query()
	q.Set("key", c.key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download video: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *VideoClient) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video API returned %d: %s", resp.StatusCode, truncate(string(data), 300))
	}
	return data, nil
}
