package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func chatServer(t *testing.T, status int, content string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatClient_FallsBackToSecondProvider(t *testing.T) {
	var primaryCalls, fallbackCalls int32
	primary := chatServer(t, http.StatusInternalServerError, "", &primaryCalls)
	fallback := chatServer(t, http.StatusOK, "```json\n{\"ok\":true}\n```", &fallbackCalls)

	c := NewChatClientWithProviders([]Provider{
		{Name: "glm", URL: primary.URL, Key: "key", Model: "m1"},
		{Name: "deepseek", URL: fallback.URL, Key: "key", Model: "m2"},
	}, time.Second, nil)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.CompleteJSON(context.Background(), ChatRequest{User: "hi"}, &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(1), primaryCalls)
	assert.Equal(t, int32(1), fallbackCalls)
}

func TestChatClient_SkipsUnconfiguredProviders(t *testing.T) {
	c := NewChatClientWithProviders([]Provider{{Name: "glm", URL: "http://unused"}}, time.Second, nil)
	_, err := c.Complete(context.Background(), ChatRequest{User: "hi"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestChatClient_AllProvidersFail(t *testing.T) {
	var calls int32
	srv := chatServer(t, http.StatusBadGateway, "", &calls)
	c := NewChatClientWithProviders([]Provider{
		{Name: "glm", URL: srv.URL, Key: "key"},
		{Name: "deepseek", URL: srv.URL, Key: "key"},
	}, time.Second, nil)

	_, err := c.Complete(context.Background(), ChatRequest{User: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all LLM providers failed")
	assert.Equal(t, int32(2), calls)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", StripFences("  plain "))
	assert.Equal(t, "x", StripFences("```x```"))
}

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(0)
	assert.True(t, l.Allow())

	l = NewLimiter(1)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestImageClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, SizeSquare, req.Size)
		assert.Equal(t, "b64_json", req.ResponseFormat)
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"aGVsbG8="}]}`))
	}))
	defer srv.Close()

	c := NewImageClient(&config.Config{ImageAPIURL: srv.URL, ImageAPIKey: "key", ImageModel: "dall-e-3"}, nil)
	b64, err := c.Generate(context.Background(), "a cat", SizeForAspect("1:1"))
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", b64)
}

func TestImageClient_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewImageClient(&config.Config{ImageAPIURL: srv.URL, ImageAPIKey: "key"}, nil)
	_, err := c.Generate(context.Background(), "a cat", SizeLandscape)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestSizeForAspect(t *testing.T) {
	assert.Equal(t, "1024x1024", SizeForAspect("1:1"))
	assert.Equal(t, "1792x1024", SizeForAspect("16:9"))
	assert.Equal(t, "1792x1024", SizeForAspect(""))
}

func TestVideoClient_Lifecycle(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/models/veo:predictLongRunning", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "vkey", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"prompt":"a sunset"`)
		_, _ = w.Write([]byte(`{"name":"operations/op-1"}`))
	})
	mux.HandleFunc("/operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":"` + srv.URL + `/files/v.mp4?alt=media"}}]}}}`))
	})
	mux.HandleFunc("/files/v.mp4", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vkey", r.URL.Query().Get("key"))
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		_, _ = w.Write([]byte("mp4-bytes"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := NewVideoClient(&config.Config{VideoAPIURL: srv.URL + "/", VideoAPIKey: "vkey", VideoModel: "veo"}, nil)

	name, err := c.Start(context.Background(), "a sunset")
	require.NoError(t, err)
	assert.Equal(t, "operations/op-1", name)

	op, err := c.Poll(context.Background(), name)
	require.NoError(t, err)
	assert.True(t, op.Done)
	assert.True(t, strings.HasSuffix(op.URI, "/files/v.mp4?alt=media"))

	data, err := c.Download(context.Background(), op.URI)
	require.NoError(t, err)
	assert.Equal(t, "mp4-bytes", string(data))
}

func TestVideoClient_PollError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"done":true,"error":{"code":3,"message":"prompt rejected"}}`))
	}))
	defer srv.Close()

	c := NewVideoClient(&config.Config{VideoAPIURL: srv.URL, VideoAPIKey: "vkey", VideoModel: "veo"}, nil)
	op, err := c.Poll(context.Background(), "operations/x")
	require.NoError(t, err)
	assert.True(t, op.Done)
	assert.Equal(t, "prompt rejected", op.Error)
	assert.Empty(t, op.URI)
}

func TestClients_ShareOneRateBucket(t *testing.T) {
	var chatCalls, videoCalls int32
	chat := chatServer(t, http.StatusOK, "hi", &chatCalls)
	video := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&videoCalls, 1)
		_, _ = w.Write([]byte(`{"name":"operations/op-1"}`))
	}))
	defer video.Close()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	cfg := &config.Config{VideoAPIURL: video.URL, VideoAPIKey: "vkey", VideoModel: "veo"}
	c := NewChatClientWithProviders([]Provider{{Name: "glm", URL: chat.URL, Key: "key"}}, time.Second, limiter)
	v := NewVideoClient(cfg, limiter)

	_, err := c.Complete(context.Background(), ChatRequest{System: "s", User: "u"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = v.Start(ctx, "a sunset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai rate limit")
	assert.Equal(t, int32(0), atomic.LoadInt32(&videoCalls))
}
