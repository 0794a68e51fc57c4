// Package assistant runs one conversational turn: a model call with tools,
// the requested tool executions, and a final answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"website-assistant/internal/llm"
	"website-assistant/internal/tools"
)

var ErrEmptyMessage = errors.New("empty message")

// Executor runs tool calls and describes the available tools.
type Executor interface {
	Definitions(names ...string) []llm.ToolDef
	Execute(ctx context.Context, call llm.ToolCall) string
}

var _ Executor = (*tools.Registry)(nil)

type Assistant struct {
	provider llm.Provider
	tools    Executor
	variant  Variant
	log      *slog.Logger
	onTurn   func(variant string, err error)
}

type Option func(*Assistant)

func WithLogger(l *slog.Logger) Option { return func(a *Assistant) { a.log = l } }

// WithTurnHook is called after every Chat.
func WithTurnHook(f func(variant string, err error)) Option {
	return func(a *Assistant) { a.onTurn = f }
}

func New(provider llm.Provider, exec Executor, v Variant, opts ...Option) *Assistant {
	a := &Assistant{provider: provider, tools: exec, variant: v, log: slog.Default()}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Assistant) Variant() Variant { return a.variant }

// Chat answers message given the prior history. History holds only user and
// assistant turns; the system prompt is added here.
func (a *Assistant) Chat(ctx context.Context, history []llm.Message, message string) (reply string, err error) {
	defer func() {
		if a.onTurn != nil {
			a.onTurn(a.variant.Name, err)
		}
	}()
	if message == "" {
		return "", ErrEmptyMessage
	}

	msgs := make([]llm.Message, 0, len(history)+4)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: a.variant.SystemPrompt})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := a.provider.Chat(ctx, llm.ChatRequest{
		Messages: msgs,
		Tools:    a.tools.Definitions(a.variant.Tools...),
		Purpose:  "chat",
	})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	if !resp.WantsTools() {
		return resp.Content, nil
	}

	msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})
	msgs = append(msgs, a.runTools(ctx, resp.ToolCalls)...)

	final, err := a.provider.Chat(ctx, llm.ChatRequest{Messages: msgs, Purpose: "chat_followup"})
	if err != nil {
		return "", fmt.Errorf("chat after tools: %w", err)
	}
	return final.Content, nil
}

// runTools executes calls concurrently and returns one tool message per call,
// in call order.
func (a *Assistant) runTools(ctx context.Context, calls []llm.ToolCall) []llm.Message {
	out := make([]llm.Message, len(calls))
	var wg sync.WaitGroup
	for i, c := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.log.Debug("tool call", "tool", c.Name, "id", c.ID)
			out[i] = llm.Message{Role: llm.RoleTool, Content: a.tools.Execute(ctx, c), ToolCallID: c.ID}
		}()
	}
	wg.Wait()
	return out
}
