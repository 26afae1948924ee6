package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.securityHeadersMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.GetHead)

	// Unsupported methods on known paths are reported like unknown paths.
	r.NotFound(s.handleRouteNotFound)
	r.MethodNotAllowed(s.handleRouteNotFound)

	r.Get("/health", s.handleHealth)

	r.Get("/todos", s.handleListTodos)
	r.Post("/todos", s.handleCreateTodo)
	r.Get("/todos/{id}", s.handleGetTodo)
	r.Put("/todos/{id}", s.handleUpdateTodo)
	r.Delete("/todos/{id}", s.handleDeleteTodo)

	if s.hub != nil {
		r.Get(s.wsCfg.Path, s.handleWebSocket)
	}

	return r
}
