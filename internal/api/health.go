package api

import (
	"net/http"
	"strings"
	"time"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  map[string]string{},
	}
	for name, check := range s.checks {
		state := check(r.Context())
		resp.Services[name] = state
		if strings.HasPrefix(state, "down") {
			resp.Status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
