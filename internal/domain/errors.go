package domain

import "fmt"

// NotFoundError signals that a requested todo (or a subset of a bulk
// ID set) does not exist. Handlers translate it to HTTP 404; the
// message is part of the API contract and is returned verbatim.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NotFoundf builds a NotFoundError with a formatted message.
func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
