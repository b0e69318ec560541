package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"packtracer/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
	s.router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1/sessions/{key}", func(r chi.Router) {
		r.Get("/", s.getSession)
		r.Get("/players", s.getPlayers)
		r.Get("/picks", s.getPicks)
		r.Get("/cards/{cardID}", s.getCard)
		r.Get("/trace", s.getTrace)
		r.Get("/seats", s.getValidSeats)
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
