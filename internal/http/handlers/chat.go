package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

// SessionHeader carries the chat session id in both directions.
const SessionHeader = "X-Session-Id"

const maxChatMessageLen = 2000

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	SessionID  string               `json:"sessionId"`
	Reply      *domain.ChatMessage  `json:"reply,omitempty"`
	Transcript []domain.ChatMessage `json:"transcript"`
}

// sessionID returns the caller's session, or a new one when the header is
// missing or not a uuid.
func sessionID(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Chat sends the message with the session's full transcript and appends
// both turns. Concurrent messages on one session are answered one at a time. The reply is never empty: generation failures come back as a
// fallback model message.
func (a *App) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !a.decode(w, r, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "message is required")
		return
	}
	if len(message) > maxChatMessageLen {
		a.error(w, http.StatusBadRequest, "bad_request", "message is too long")
		return
	}

	sid := sessionID(r)
	var reply domain.ChatMessage
	transcript, err := a.Transcripts.Exchange(r.Context(), sid, func(history domain.Transcript) []domain.ChatMessage {
		reply = domain.ChatMessage{Role: domain.RoleModel, Text: a.AI.Chat(r.Context(), message, history)}
		return []domain.ChatMessage{{Role: domain.RoleUser, Text: message}, reply}
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set(SessionHeader, sid)
	a.json(w, http.StatusOK, chatResponse{SessionID: sid, Reply: &reply, Transcript: transcript})
}

func (a *App) ChatTranscript(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	transcript, err := a.Transcripts.Transcript(r.Context(), sid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set(SessionHeader, sid)
	a.json(w, http.StatusOK, chatResponse{SessionID: sid, Transcript: transcript})
}
