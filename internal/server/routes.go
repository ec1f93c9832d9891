package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/giogio-dev/todo-service/internal/validation"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface: banner, token issuance, maintenance tools.
	r.Get("/", s.rootHandler)
	r.Post("/auth", s.authHandler)
	r.Route("/tools", func(r chi.Router) {
		r.Get("/health", s.healthHandler)
		r.Post("/seed", s.seedHandler)
		r.Post("/reset", s.resetHandler)
	})

	// Everything touching todos requires a bearer token.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/todo", func(r chi.Router) {
			r.Post("/", s.createTodoHandler)
			r.Get("/{id}", s.getTodoByIDHandler)
			r.Patch("/{id}", s.updateTodoHandler)
			r.Delete("/{id}", s.deleteTodoHandler)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", s.listTodosHandler)
			r.Post("/", s.bulkCreateHandler)
			r.Patch("/", s.bulkUpdateHandler)
			r.Delete("/", s.bulkDeleteHandler)
		})
	})

	return r
}

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondWithError(w, http.StatusUnauthorized, codeUnauthorized, "Missing token")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if _, err := s.auth.Verify(token); err != nil {
			respondWithError(w, http.StatusUnauthorized, codeUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusTeapot)
	fmt.Fprintf(w, "Todo API running on port %d", s.cfg.Port)
}

type authRequest struct {
	Username string `json:"username"`
}

func (s *Server) authHandler(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	if fe := validation.Username("username", req.Username); fe != nil {
		respondWithFieldErrors(w, []validation.FieldError{*fe})
		return
	}

	token, err := s.auth.Sign(req.Username)
	if err != nil {
		log.Printf("Error signing token for %q: %v", req.Username, err)
		respondWithError(w, http.StatusInternalServerError, codeInternal, "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"type":    "Bearer",
		"message": "Authentication successful",
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "error",
			"database": "disconnected",
			"message":  "Database connection failed",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": "connected",
		"version":  apiVersion,
		"uptime":   time.Since(s.startedAt).Seconds(),
		"pool":     s.db.Stats(),
	})
}

func (s *Server) seedHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.todoService.Seed(r.Context()); err != nil {
		log.Printf("Error seeding database: %v", err)
		respondWithError(w, http.StatusInternalServerError, codeInternal, "Failed to seed database")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Database seeded"})
}

func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.todoService.Reset(r.Context()); err != nil {
		log.Printf("Error resetting database: %v", err)
		respondWithError(w, http.StatusInternalServerError, codeInternal, "Failed to reset database")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Database reset"})
}
