package models

import (
	"encoding/json"
)

// Ollama'ya göndereceğimiz /api/chat request'inin formatı
type OllamaChatRequest struct {
	Model     string          `json:"model"`
	Messages  []OllamaMessage `json:"messages"`
	Tools     []OllamaTool    `json:"tools,omitempty"`
	Stream    bool            `json:"stream"`               // Cevabı tek parça halinde almak için
	KeepAlive string          `json:"keep_alive,omitempty"` // LLM'in kapanmaması için
	Options   OllamaOptions   `json:"options"`
}

type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
}

// Mesaj formatı
type OllamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []OllamaToolCall `json:"tool_calls,omitempty"`
	ToolName  string           `json:"tool_name,omitempty"` // role=tool mesajlarında hangi araca cevap verildiği
}

// Ollama'nın tool tanımı formatı
type OllamaTool struct {
	Type     string         `json:"type"`
	Function OllamaFunction `json:"function"`
}

// Araç fonksiyonları
type OllamaFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Ollama'dan gelen /api/chat response'unun formatı
type OllamaChatResponse struct {
	Message OllamaResponseMessage `json:"message"`
	Done    bool                  `json:"done"`
	Error   string                `json:"error,omitempty"`
}

// Cevap içeriği
type OllamaResponseMessage struct {
	Content   string           `json:"content"`              // Normal metin cevabı
	ToolCalls []OllamaToolCall `json:"tool_calls,omitempty"` // Araç çağırma isteği
}

// Ollama'nın araç çağırma formatı. Ollama id göndermez, argümanlar string değil obje olarak gelir.
type OllamaToolCall struct {
	Function OllamaToolCallFunction `json:"function"`
}

type OllamaToolCallFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}
