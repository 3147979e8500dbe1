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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
)

const (
	DefaultOllamaBaseURL     = "http://localhost:11434"
	DefaultOllamaModel       = "gemma:2b"
	DefaultOllamaTemperature = 0.5
)

// OllamaClient yerel Ollama sunucusunun /api/chat endpoint'ine konuşur.
type OllamaClient struct {
	baseClient
	baseURL     string
	model       string
	temperature float64
	keepAlive   string
}

type OllamaOptions struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxRetries  int
	Timeout     time.Duration
}

func NewOllamaClient(opts OllamaOptions, log *logger.Logger) *OllamaClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOllamaBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultOllamaModel
	}
	return &OllamaClient{
		baseClient:  newBaseClient("ollama", opts.Timeout, opts.MaxRetries, log),
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		model:       opts.Model,
		temperature: opts.Temperature,
		keepAlive:   "1h",
	}
}

func (c *OllamaClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	ctx, span := otel.Tracer("asset-smith/llm").Start(ctx, "llm.ollama.chat")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	payload, err := json.Marshal(models.OllamaChatRequest{
		Model:     c.model,
		Messages:  toOllamaMessages(req.Messages),
		Tools:     toOllamaTools(req.Tools),
		Stream:    false,
		KeepAlive: c.keepAlive,
		Options:   models.OllamaOptions{Temperature: c.temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.doWithRetry(ctx, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}

	var resp models.OllamaChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: malformed response: %w", err)
	}
	if resp.Error != "" {
		return nil, errors.New("ollama: " + resp.Error)
	}

	msg := models.ChatMessage{Role: models.RoleAssistant, Content: resp.Message.Content}
	for _, tc := range resp.Message.ToolCalls {
		// Ollama id göndermiyor, tool sonucunu eşlemek için biz üretiyoruz
		args := tc.Function.Arguments
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		msg.ToolCalls = append(msg.ToolCalls, models.ToolCall{
			ID:        "call_" + uuid.NewString(),
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	c.log.Debug("ollama response", "model", c.model, "tool_calls", len(msg.ToolCalls))
	return &ChatResponse{Message: msg}, nil
}

// --- Araçları Ollama Formatına Çevir ---
func toOllamaTools(specs []models.ToolSpec) []models.OllamaTool {
	if len(specs) == 0 {
		return nil
	}
	out := make([]models.OllamaTool, len(specs))
	for i, spec := range specs {
		out[i] = models.OllamaTool{
			Type: "function",
			Function: models.OllamaFunction{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Schema,
			},
		}
	}
	return out
}

func toOllamaMessages(msgs []models.ChatMessage) []models.OllamaMessage {
	out := make([]models.OllamaMessage, 0, len(msgs))
	for _, m := range msgs {
		om := models.OllamaMessage{Role: m.Role, Content: m.Content, ToolName: m.Name}
		for _, tc := range m.ToolCalls {
			om.ToolCalls = append(om.ToolCalls, models.OllamaToolCall{
				Function: models.OllamaToolCallFunction{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		out = append(out, om)
	}
	return out
}
