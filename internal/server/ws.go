package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"website-assistant/internal/assistant"
)

const maxMessageSize = 64 * 1024

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the chat page is served from this same origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frames exchanged with the chat page.
type inbound struct {
	Type    string `json:"type"` // "message" or "reset"
	Message string `json:"message,omitempty"`
}

type outbound struct {
	Type    string `json:"type"` // "hello", "reply" or "error"
	Session string `json:"session,omitempty"`
	Variant string `json:"variant,omitempty"`
	Reply   string `json:"reply,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleWS runs one chat session per connection. The variant comes from the
// "variant" query parameter.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	bot, err := s.app.Assistant(r.URL.Query().Get("variant"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	session := assistant.NewSession(bot)
	log := s.log.With("session", session.ID)
	log.Info("chat session opened", "variant", bot.Variant().Name)
	defer log.Info("chat session closed", "turns", len(session.History())/2)

	if err := conn.WriteJSON(outbound{Type: "hello", Session: session.ID, Variant: bot.Variant().Name}); err != nil {
		return
	}
	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read", "error", err)
			}
			return
		}

		var out outbound
		switch in.Type {
		case "reset":
			session.Reset()
			out = outbound{Type: "hello", Session: session.ID, Variant: bot.Variant().Name}
		case "message", "":
			ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
			reply, err := session.Send(ctx, in.Message)
			cancel()
			if err != nil {
				log.Warn("chat turn failed", "error", err)
				out = outbound{Type: "error", Error: err.Error()}
			} else {
				out = outbound{Type: "reply", Reply: reply}
			}
		default:
			out = outbound{Type: "error", Error: "unknown frame type " + in.Type}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(out); err != nil {
			log.Debug("websocket write", "error", err)
			return
		}
	}
}
