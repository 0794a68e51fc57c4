// Package llm is a small chat-completions abstraction with tool calling.
package llm

import (
	"context"
	"encoding/json"
)

// Roles used in Message.Role.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Finish reasons reported by the model.
const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
	FinishLength    = "length"
)

// Message is one entry of a conversation.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolDef describes a function the model may call.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is a function invocation requested by the model. Arguments is
// the raw JSON the model produced and may be invalid.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type ChatRequest struct {
	Messages []Message
	Tools    []ToolDef
	// JSONMode asks the model for a single JSON object.
	JSONMode  bool
	MaxTokens int
	// Purpose labels the call for logs and metrics.
	Purpose string
}

type ChatResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
	Model        string
	InputTokens  int
	OutputTokens int
}

// WantsTools reports whether the model asked for tool execution.
func (r *ChatResponse) WantsTools() bool {
	return r.FinishReason == FinishToolCalls || len(r.ToolCalls) > 0
}

// Provider sends chat requests to a model.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
