package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/cv-pipeline/internal/config"
)

func newOpenRouterTestService(endpoint string, callTimeout time.Duration) *openRouterService {
	return &openRouterService{
		client:      resty.New(),
		apiKey:      "test-key",
		model:       "test-model",
		endpoint:    endpoint,
		callTimeout: callTimeout,
	}
}

func TestOpenRouterGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices": [{"message": {"content": "{\"ok\": true}"}}]}`))
	}))
	defer srv.Close()

	s := newOpenRouterTestService(srv.URL, time.Second)

	content, err := s.GenerateText(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, content)
}

func TestOpenRouterGenerateTextTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	s := newOpenRouterTestService(srv.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := s.GenerateText(context.Background(), "system", "prompt")
	require.Error(t, err)

	// A stalled upstream must not block the caller past the call timeout.
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpenRouterGenerateTextUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	s := newOpenRouterTestService(srv.URL, time.Second)

	_, err := s.GenerateText(context.Background(), "system", "prompt")
	require.Error(t, err)
	assert.ErrorContains(t, err, "429")
}

func TestOpenRouterRequiresAPIKey(t *testing.T) {
	_, err := NewOpenRouterService(config.OpenRouterConfig{}, time.Second)
	assert.Error(t, err)
}
