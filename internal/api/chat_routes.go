package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kjannette/cryptochat/internal/chat"
	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/session"
)

type postMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.Create(r.Context())
	if err != nil {
		fmt.Printf("Error creating session: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	h, ok := s.openSession(w, r)
	if !ok {
		return
	}

	msgs, err := h.Messages(r.Context())
	if err != nil {
		fmt.Printf("Error reading session %s: %v\n", r.PathValue("id"), err)
		writeError(w, http.StatusInternalServerError, "failed to read messages")
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	h, ok := s.openSession(w, r)
	if !ok {
		return
	}

	unlock := s.locks.Lock(r.PathValue("id"))
	defer unlock()

	reply, err := s.bot.Respond(r.Context(), h, content)
	if err != nil {
		fmt.Printf("Error recording turn for session %s: %v\n", r.PathValue("id"), err)
		writeError(w, http.StatusInternalServerError, "failed to record message")
		return
	}
	for _, n := range reply.Notices {
		s.logger.Warn("upstream failure", "session", r.PathValue("id"), "notice", n)
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.All())
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) (chat.History, bool) {
	id := r.PathValue("id")
	if !session.ValidID(id) {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}

	h, err := s.store.Open(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		fmt.Printf("Error opening session %s: %v\n", id, err)
		writeError(w, http.StatusInternalServerError, "failed to open session")
		return nil, false
	}
	return h, true
}
