package llm

import (
	"context"
	"fmt"

	"github.com/uslanozan/asset-smith/models"
)

// ChatModel, araç çağırabilen bir sohbet modeline tek turluk istek atar.
type ChatModel interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages []models.ChatMessage
	Tools    []models.ToolSpec
}

type ChatResponse struct {
	Message models.ChatMessage
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// APIError, sağlayıcının tekrar denenmeyecek (ya da denemeleri tükenmiş) HTTP cevabıdır.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error: status %d: %s", e.Provider, e.StatusCode, truncate(e.Body, 300))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
