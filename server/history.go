package server

import (
	"net/http"
	"time"

	"github.com/fwojciec/relay"
)

type historyResponse struct {
	Messages []apiMessage `json:"messages"`
}

// apiMessage is the thread message shape browser chat runtimes load.
type apiMessage struct {
	ID        string       `json:"id"`
	Role      relay.Role   `json:"role"`
	Content   []apiContent `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// handleHistory never fails: a missing session id or an upstream error
// yields an empty message list.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	resp := historyResponse{Messages: []apiMessage{}}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	msgs, err := s.history.History(r.Context(), sessionID)
	if err != nil {
		s.logger.Warn("history failed", "session", sessionID, "err", err)
		writeJSON(w, http.StatusOK, resp)
		return
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, apiMessage{
			ID:        m.ID,
			Role:      m.Role,
			Content:   []apiContent{{Type: "text", Text: m.Text}},
			CreatedAt: m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
