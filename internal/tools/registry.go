// Package tools exposes the website pipeline to the model as callable
// functions and dispatches the model's tool calls.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"website-assistant/internal/llm"
)

// ErrUnknownTool is reported when the model names a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool called")

// Tool is a function the model can call.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON schema of the arguments.
	Parameters() map[string]any
	Execute(ctx context.Context, args json.RawMessage) (any, error)
}

// Hook observes every executed call.
type Hook func(tool string, elapsed time.Duration, err error)

type Registry struct {
	tools map[string]Tool
	hook  Hook
	log   *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{tools: make(map[string]Tool), log: log}
}

func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

func (r *Registry) SetHook(h Hook) {
	r.hook = h
}

// Get returns a tool by name, or nil.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// Names lists registered tools alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Definitions returns model-facing definitions for the named tools, in the
// given order. Names that are not registered are skipped. No names means all.
func (r *Registry) Definitions(names ...string) []llm.ToolDef {
	if len(names) == 0 {
		names = r.Names()
	}
	defs := make([]llm.ToolDef, 0, len(names))
	for _, n := range names {
		t, ok := r.tools[n]
		if !ok {
			continue
		}
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Execute runs call and returns the JSON content of the tool message.
// Failures become {"error": "..."} so the model can explain them.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) string {
	start := time.Now()
	result, err := r.execute(ctx, call)
	elapsed := time.Since(start)
	if r.hook != nil {
		r.hook(call.Name, elapsed, err)
	}
	if err != nil {
		r.log.Warn("tool failed", "tool", call.Name, "duration", elapsed, "error", err)
		return errorJSON(err)
	}
	r.log.Debug("tool done", "tool", call.Name, "duration", elapsed)

	out, err := json.Marshal(result)
	if err != nil {
		return errorJSON(fmt.Errorf("encode %s result: %w", call.Name, err))
	}
	return string(out)
}

func (r *Registry) execute(ctx context.Context, call llm.ToolCall) (any, error) {
	t, ok := r.tools[call.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}
	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	r.log.Info("tool called", "tool", call.Name, "args", string(args))
	return t.Execute(ctx, args)
}

func errorJSON(err error) string {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(out)
}
