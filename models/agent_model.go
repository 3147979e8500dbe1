package models

import (
	"encoding/json"
	"time"
)

// POST /agent/query gövdesi. Question pointer: alanın eksik olması 422, boş string geçerli.
// SessionID boşsa istek durumsuzdur.
type AgentRequest struct {
	Question  *string `json:"question" binding:"required"`
	SessionID string  `json:"session_id,omitempty"`
}

type AgentResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"session_id,omitempty"`
}

// GET /agent/tools endpoint'inden dönen format
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
}

// Mesaj rolleri
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage, sağlayıcıdan bağımsız konuşma mesajıdır. OpenAI ve Ollama formatlarına buradan çevrilir.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"` // role=tool: cevap verilen aracın adı
}

// ToolCall, modelin istediği tek bir araç çağrısıdır.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// GET /agent/sessions/:id cevabı
type SessionHistory struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	FetchedAt time.Time     `json:"fetched_at"`
}
