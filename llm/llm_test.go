package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
)

var querySpec = models.ToolSpec{
	Name:        "query_assets",
	Description: "Query assets",
	Schema:      json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`),
}

func newTestOpenAI(t *testing.T, url string, maxRetries int) *OpenAIClient {
	t.Helper()
	c := NewOpenAIClient(OpenAIOptions{
		APIKey:     "test-key",
		BaseURL:    url,
		MaxRetries: maxRetries,
		Timeout:    5 * time.Second,
	}, logger.Nop())
	c.RetryDelay = time.Millisecond
	return c
}

func TestOpenAIClient_ChatRequestShapeAndToolCall(t *testing.T) {
	var got models.OpenAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": null,
					"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "query_assets", "arguments": "{\"query\":\"all\"}"}}]
				}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	}))
	defer srv.Close()

	c := newTestOpenAI(t, srv.URL, 0)
	resp, err := c.Chat(context.Background(), ChatRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: "sys"},
			{Role: models.RoleUser, Content: "What do I own?"},
		},
		Tools: []models.ToolSpec{querySpec},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultOpenAIModel, got.Model)
	assert.Equal(t, 0.0, got.Temperature)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
	assert.Equal(t, "query_assets", got.Tools[0].Function.Name)
	require.Len(t, got.Messages, 2)
	require.NotNil(t, got.Messages[1].Content)
	assert.Equal(t, "What do I own?", *got.Messages[1].Content)

	require.Len(t, resp.Message.ToolCalls, 1)
	tc := resp.Message.ToolCalls[0]
	assert.Equal(t, "call_1", tc.ID)
	assert.Equal(t, "query_assets", tc.Name)
	assert.JSONEq(t, `{"query":"all"}`, string(tc.Arguments))
	assert.Equal(t, 10, resp.Usage.PromptTokens)
}

func TestToOpenAIMessages_ToolRoundTrip(t *testing.T) {
	msgs := toOpenAIMessages([]models.ChatMessage{
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{ID: "call_1", Name: "query_assets"}}},
		{Role: models.RoleTool, Content: "Assets: Chair ($50.0)", ToolCallID: "call_1", Name: "query_assets"},
	})
	require.Len(t, msgs, 2)
	assert.Nil(t, msgs[0].Content)
	assert.Equal(t, "{}", msgs[0].ToolCalls[0].Function.Arguments)
	assert.Equal(t, "call_1", msgs[1].ToolCallID)
	require.NotNil(t, msgs[1].Content)
	assert.Equal(t, "Assets: Chair ($50.0)", *msgs[1].Content)
}

func TestRawArguments(t *testing.T) {
	assert.JSONEq(t, `{}`, string(rawArguments("")))
	assert.JSONEq(t, `{"query":"x"}`, string(rawArguments(`{"query":"x"}`)))
	assert.JSONEq(t, `"{query"`, string(rawArguments(`{query`)))
}

func TestOpenAIClient_MissingAPIKey(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIOptions{BaseURL: srv.URL, Timeout: time.Second}, logger.Nop())
	_, err := c.Chat(context.Background(), ChatRequest{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestOpenAIClient_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
	}))
	defer srv.Close()

	c := newTestOpenAI(t, srv.URL, 2)
	resp, err := c.Chat(context.Background(), ChatRequest{Messages: []models.ChatMessage{{Role: "user", Content: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Message.Content)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestOpenAIClient_RetriesExhausted(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer srv.Close()

	c := newTestOpenAI(t, srv.URL, 2)
	_, err := c.Chat(context.Background(), ChatRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestOpenAIClient_ClientErrorNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	c := newTestOpenAI(t, srv.URL, 2)
	_, err := c.Chat(context.Background(), ChatRequest{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "bad key")
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestOpenAIClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := newTestOpenAI(t, srv.URL, 0).Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer empty.Close()

	_, err = newTestOpenAI(t, empty.URL, 0).Chat(context.Background(), ChatRequest{})
	assert.Error(t, err)
}

func TestOpenAIClient_ContextCanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestOpenAI(t, srv.URL, 5)
	c.RetryDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Chat(ctx, ChatRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOllamaClient_Chat(t *testing.T) {
	var got models.OllamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"query_assets","arguments":{"query":"all"}}}]},"done":true}`)
	}))
	defer srv.Close()

	c := NewOllamaClient(OllamaOptions{BaseURL: srv.URL + "/", Temperature: DefaultOllamaTemperature, Timeout: time.Second}, logger.Nop())
	resp, err := c.Chat(context.Background(), ChatRequest{
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "What do I own?"},
			{Role: models.RoleTool, Content: "No assets found.", Name: "query_assets"},
		},
		Tools: []models.ToolSpec{querySpec},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultOllamaModel, got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.5, got.Options.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "query_assets", got.Messages[1].ToolName)
	require.Len(t, got.Tools, 1)

	require.Len(t, resp.Message.ToolCalls, 1)
	tc := resp.Message.ToolCalls[0]
	assert.True(t, strings.HasPrefix(tc.ID, "call_"))
	assert.Equal(t, "query_assets", tc.Name)
	assert.JSONEq(t, `{"query":"all"}`, string(tc.Arguments))
}

func TestOllamaClient_ErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"model not found"}`)
	}))
	defer srv.Close()

	c := NewOllamaClient(OllamaOptions{BaseURL: srv.URL, Timeout: time.Second}, logger.Nop())
	_, err := c.Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestNewChatModel(t *testing.T) {
	temp := 0.2
	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantType any
		wantTemp float64
		wantErr  bool
	}{
		{name: "openai default", cfg: config.LLMConfig{Provider: "openai", MaxRetries: 2}, wantType: &OpenAIClient{}, wantTemp: 0},
		{name: "ollama default", cfg: config.LLMConfig{Provider: "ollama"}, wantType: &OllamaClient{}, wantTemp: 0.5},
		{name: "ollama override", cfg: config.LLMConfig{Provider: "ollama", Temperature: &temp}, wantType: &OllamaClient{}, wantTemp: 0.2},
		{name: "unknown", cfg: config.LLMConfig{Provider: "bard"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewChatModel(tt.cfg, logger.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, m)
			switch c := m.(type) {
			case *OpenAIClient:
				assert.Equal(t, tt.wantTemp, c.temperature)
				assert.Equal(t, DefaultOpenAIModel, c.model)
				assert.Equal(t, 2, c.MaxRetries)
			case *OllamaClient:
				assert.Equal(t, tt.wantTemp, c.temperature)
				assert.Equal(t, DefaultOllamaModel, c.model)
			}
		})
	}
}
