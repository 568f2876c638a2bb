package server

import (
	"fmt"
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Fragments collection.
	mux.Handle("POST /v1/fragments", s.withAuth(http.HandlerFunc(s.handleCreateFragment)))
	mux.Handle("GET /v1/fragments", s.withAuth(http.HandlerFunc(s.handleListFragments)))

	// Single fragment. The id segment may carry a conversion extension.
	mux.Handle("GET /v1/fragments/{id}", s.withAuth(http.HandlerFunc(s.handleGetFragment)))
	mux.Handle("GET /v1/fragments/{id}/info", s.withAuth(http.HandlerFunc(s.handleFragmentInfo)))
	mux.Handle("PUT /v1/fragments/{id}", s.withAuth(http.HandlerFunc(s.handleUpdateFragment)))
	mux.Handle("DELETE /v1/fragments/{id}", s.withAuth(http.HandlerFunc(s.handleDeleteFragment)))

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("not found"), ErrCodeRouteNotFound))
}
