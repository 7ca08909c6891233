package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProviderChatCompletion(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"## Day 1: Alfama"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(Config{Provider: ProviderGroq, APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := p.PlanItinerary(context.Background(), "plan lisbon")
	require.NoError(t, err)
	assert.Equal(t, "## Day 1: Alfama", out)
	assert.Equal(t, "groq/"+defaultGroqModel, p.Name())

	assert.Equal(t, defaultGroqModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "plan lisbon", got.Messages[1].Content)
}

func TestOpenAIProviderRateLimitIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.PlanItinerary(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestOpenAIProviderSendsZeroTemperature(t *testing.T) {
	var got struct {
		Temperature *float64 `json:"temperature"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL, Temperature: 0})
	require.NoError(t, err)
	_, err = p.PlanItinerary(context.Background(), "x")
	require.NoError(t, err)

	require.NotNil(t, got.Temperature, "temperature must be sent")
	assert.InDelta(t, 0, *got.Temperature, 1e-6)
}

func TestOpenAIProviderRequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{Provider: ProviderOpenAI})
	assert.EqualError(t, err, "openai: missing api key")
}
