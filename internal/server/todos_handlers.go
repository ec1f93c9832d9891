package server

import (
	"fmt"
	"net/http"

	"github.com/giogio-dev/todo-service/internal/service"
	"github.com/giogio-dev/todo-service/internal/validation"
)

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.ListTodos(r.Context())
	if err != nil {
		respondServiceError(w, "ListTodos", err)
		return
	}
	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) bulkCreateHandler(w http.ResponseWriter, r *http.Request) {
	var items []service.BulkCreateItem
	if err := decodeJSONBody(r, &items); err != nil {
		respondWithError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	var fieldErrors []validation.FieldError
	if fe := validation.BulkSize("body", len(items), s.cfg.BulkCreateLimit); fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	for i, item := range items {
		if fe := validation.RequiredTitle(fmt.Sprintf("[%d].title", i), item.Title); fe != nil {
			fieldErrors = append(fieldErrors, *fe)
		}
	}
	if len(fieldErrors) > 0 {
		respondWithFieldErrors(w, fieldErrors)
		return
	}

	env, err := s.todoService.BulkCreate(r.Context(), items)
	if err != nil {
		respondServiceError(w, "BulkCreate", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, env)
}

func (s *Server) bulkUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req service.BulkUpdateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	fieldErrors := validation.IDList("ids", req.IDs, s.cfg.BulkUpdateLimit)
	if fe := validation.OptionalTitle("title", req.Title); fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	if len(fieldErrors) > 0 {
		respondWithFieldErrors(w, fieldErrors)
		return
	}

	env, err := s.todoService.BulkUpdate(r.Context(), req)
	if err != nil {
		respondServiceError(w, "BulkUpdate", err)
		return
	}
	respondWithJSON(w, http.StatusOK, env)
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (s *Server) bulkDeleteHandler(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	if fieldErrors := validation.IDList("ids", req.IDs, s.cfg.BulkDeleteLimit); len(fieldErrors) > 0 {
		respondWithFieldErrors(w, fieldErrors)
		return
	}

	env, err := s.todoService.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		respondServiceError(w, "BulkDelete", err)
		return
	}
	respondWithJSON(w, http.StatusOK, env)
}
