package assistant

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"website-assistant/internal/llm"
)

// Session keeps the history of one conversation. History is never trimmed.
type Session struct {
	ID string

	mu      sync.Mutex
	a       *Assistant
	history []llm.Message
}

func NewSession(a *Assistant) *Session {
	return &Session{ID: uuid.NewString(), a: a}
}

// Send asks the assistant and records both turns on success.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.a.Chat(ctx, s.history, message)
	if err != nil {
		return "", err
	}
	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: message},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	return reply, nil
}

func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history...)
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
