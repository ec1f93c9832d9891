package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/giogio-dev/todo-service/internal/validation"
)

// Error envelope codes. The shape is
// {code, message, timestamp, errors?} on every failure path.
const (
	codeNotFound     = "NOT_FOUND"
	codeValidation   = "VALIDATION"
	codeUnauthorized = "UNAUTHORIZED"
	codeInternal     = "INTERNAL_ERROR"
)

type errorResponse struct {
	Code      string                  `json:"code"`
	Message   string                  `json:"message"`
	Timestamp string                  `json:"timestamp"`
	Errors    []validation.FieldError `json:"errors,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":"INTERNAL_ERROR","message":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, errorResponse{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondWithFieldErrors(w http.ResponseWriter, fieldErrors []validation.FieldError) {
	respondWithJSON(w, http.StatusBadRequest, errorResponse{
		Code:      codeValidation,
		Message:   "Validation Failed",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Errors:    fieldErrors,
	})
}

// decodeJSONBody decodes a request body strictly (unknown fields are
// rejected) and turns decoder failures into caller-facing messages.
func decodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return nil
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		return fmt.Errorf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Errorf("Request body contains unknown field %s", fieldName)
	case errors.Is(err, io.EOF):
		return errors.New("Request body must not be empty")
	default:
		return err
	}
}
