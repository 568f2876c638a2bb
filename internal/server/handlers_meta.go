package server

import (
	"net/http"

	"fragments/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: api.StatusOK, Version: s.version})
}
