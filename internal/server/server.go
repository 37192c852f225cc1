// internal/server/server.go

// Package server exposes the HTTP surface: the streaming chat endpoint,
// the health probe and the Prometheus scrape target.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	router *chi.Mux
}

func New(chat *ChatHandler) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/chat", chat.ServeHTTP)

	return &Server{router: r}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
