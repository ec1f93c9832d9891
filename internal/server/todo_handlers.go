package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giogio-dev/todo-service/internal/domain"
	"github.com/giogio-dev/todo-service/internal/service"
	"github.com/giogio-dev/todo-service/internal/validation"
)

// respondServiceError maps typed service errors onto the error
// envelope. Anything that is not a NotFoundError is an internal
// failure: log the cause, hide it from the caller.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		respondWithError(w, http.StatusNotFound, codeNotFound, notFound.Message)
		return
	}
	log.Printf("Error calling %s: %v", op, err)
	respondWithError(w, http.StatusInternalServerError, codeInternal, "An unexpected error occurred")
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, fe := validation.ParseID("id", chi.URLParam(r, "id"))
	if fe != nil {
		respondWithFieldErrors(w, []validation.FieldError{*fe})
		return
	}

	env, err := s.todoService.GetTodo(r.Context(), id)
	if err != nil {
		respondServiceError(w, "GetTodo", err)
		return
	}
	respondWithJSON(w, http.StatusOK, env)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	if fe := validation.RequiredTitle("title", req.Title); fe != nil {
		respondWithFieldErrors(w, []validation.FieldError{*fe})
		return
	}

	env, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		respondServiceError(w, "CreateTodo", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, env)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, fe := validation.ParseID("id", chi.URLParam(r, "id"))
	if fe != nil {
		respondWithFieldErrors(w, []validation.FieldError{*fe})
		return
	}

	var req service.UpdateTodoRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	if fe := validation.OptionalTitle("title", req.Title); fe != nil {
		respondWithFieldErrors(w, []validation.FieldError{*fe})
		return
	}

	env, err := s.todoService.UpdateTodo(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, "UpdateTodo", err)
		return
	}
	respondWithJSON(w, http.StatusOK, env)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, fe := validation.ParseID("id", chi.URLParam(r, "id"))
	if fe != nil {
		respondWithFieldErrors(w, []validation.FieldError{*fe})
		return
	}

	env, err := s.todoService.DeleteTodo(r.Context(), id)
	if err != nil {
		respondServiceError(w, "DeleteTodo", err)
		return
	}
	respondWithJSON(w, http.StatusOK, env)
}
