package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not configured")

// OpenAIClient, OpenAI uyumlu /chat/completions endpoint'ine konuşur.
type OpenAIClient struct {
	baseClient
	apiKey      string
	baseURL     string
	model       string
	temperature float64
}

type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxRetries  int
	Timeout     time.Duration
}

func NewOpenAIClient(opts OpenAIOptions, log *logger.Logger) *OpenAIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOpenAIBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}
	return &OpenAIClient{
		baseClient:  newBaseClient("openai", opts.Timeout, opts.MaxRetries, log),
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		model:       opts.Model,
		temperature: opts.Temperature,
	}
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	ctx, span := otel.Tracer("asset-smith/llm").Start(ctx, "llm.openai.chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.messages", len(req.Messages)),
	)

	if c.apiKey == "" {
		span.SetStatus(codes.Error, ErrMissingAPIKey.Error())
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(models.OpenAIChatRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(req.Messages),
		Tools:       toOpenAITools(req.Tools),
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	body, err := c.doWithRetry(ctx, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+c.apiKey)
		return r, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}

	var resp models.OpenAIChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: malformed response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: response has no choices")
	}

	msg := fromOpenAIMessage(resp.Choices[0].Message)
	c.log.Debug("openai response",
		"model", c.model,
		"tool_calls", len(msg.ToolCalls),
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	span.SetAttributes(attribute.Int("llm.total_tokens", resp.Usage.TotalTokens))

	return &ChatResponse{
		Message: msg,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// --- Araçları OpenAI Formatına Çevir ---
func toOpenAITools(specs []models.ToolSpec) []models.OpenAITool {
	if len(specs) == 0 {
		return nil
	}
	out := make([]models.OpenAITool, len(specs))
	for i, spec := range specs {
		out[i] = models.OpenAITool{
			Type: "function",
			Function: models.OpenAIFunction{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Schema,
			},
		}
	}
	return out
}

func toOpenAIMessages(msgs []models.ChatMessage) []models.OpenAIMessage {
	out := make([]models.OpenAIMessage, 0, len(msgs))
	for _, m := range msgs {
		om := models.OpenAIMessage{Role: m.Role, ToolCallID: m.ToolCallID}
		content := m.Content
		// tool call taşıyan asistan mesajında içerik null gitmeli
		if !(m.Role == models.RoleAssistant && content == "" && len(m.ToolCalls) > 0) {
			om.Content = &content
		}
		for _, tc := range m.ToolCalls {
			args := string(tc.Arguments)
			if args == "" {
				args = "{}"
			}
			om.ToolCalls = append(om.ToolCalls, models.OpenAIToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: models.OpenAIToolCallFunction{
					Name:      tc.Name,
					Arguments: args,
				},
			})
		}
		out = append(out, om)
	}
	return out
}

func fromOpenAIMessage(m models.OpenAIMessage) models.ChatMessage {
	msg := models.ChatMessage{Role: models.RoleAssistant}
	if m.Content != nil {
		msg.Content = *m.Content
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: rawArguments(tc.Function.Arguments),
		})
	}
	return msg
}

// rawArguments OpenAI'nin string argümanını RawMessage'a çevirir. Geçersiz JSON bir string olarak saklanır,
// böylece şema doğrulaması hatayı modele geri bildirebilir.
func rawArguments(s string) json.RawMessage {
	s = strings.TrimSpace(s)
	if s == "" {
		return json.RawMessage("{}")
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}
