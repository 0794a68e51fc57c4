package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockProvider is a scripted Provider for tests. Responses are returned in
// order; the last one repeats once the script is exhausted.
type MockProvider struct {
	mu        sync.Mutex
	responses []*ChatResponse
	requests  []ChatRequest
	err       error

	// ChatFunc, when set, replaces the scripted behaviour.
	ChatFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

func NewMockProvider(responses ...*ChatResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Text builds a plain stop response.
func Text(content string) *ChatResponse {
	return &ChatResponse{Content: content, FinishReason: FinishStop, Model: "mock"}
}

// Calls builds a response requesting the given tool calls.
func Calls(calls ...ToolCall) *ChatResponse {
	return &ChatResponse{ToolCalls: calls, FinishReason: FinishToolCalls, Model: "mock"}
}

// Call builds a ToolCall with JSON-encoded arguments.
func Call(id, name string, args any) ToolCall {
	raw, _ := json.Marshal(args)
	return ToolCall{ID: id, Name: name, Arguments: raw}
}

func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns every request received so far.
func (m *MockProvider) Requests() []ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ChatRequest(nil), m.requests...)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	m.mu.Lock()
	n := len(m.requests)
	m.requests = append(m.requests, req)
	fn, err := m.ChatFunc, m.err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if len(m.responses) == 0 {
		return Text(""), nil
	}
	if n >= len(m.responses) {
		n = len(m.responses) - 1
	}
	resp := *m.responses[n]
	return &resp, nil
}
