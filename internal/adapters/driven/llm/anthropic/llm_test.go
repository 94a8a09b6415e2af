package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
		assert.Equal(t, "assess", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Risk: "},{"type":"tool_use"},{"type":"text","text":"High"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	s, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := s.Generate(context.Background(), "assess", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Risk: High", out)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"overloaded", 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, "Overloaded"},
		{"empty content", http.StatusOK, `{"content":[],"stop_reason":"max_tokens"}`, "max_tokens"},
		{"bad json", http.StatusBadGateway, `<html>`, "status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = s.Generate(context.Background(), "x", driven.GenerateOptions{})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		if r.Header.Get("x-api-key") != "good" {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	good, _ := NewLLMService(Config{APIKey: "good", BaseURL: server.URL})
	assert.NoError(t, good.Ping(context.Background()))

	bad, _ := NewLLMService(Config{APIKey: "bad", BaseURL: server.URL})
	assert.Error(t, bad.Ping(context.Background()))
}
