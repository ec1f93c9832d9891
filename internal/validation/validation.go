// Package validation evaluates the per-endpoint input rules before any
// core logic runs. Each helper checks one field constraint and returns
// a FieldError carrying the offending field, a human-readable message,
// and the rejected value.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxTitleLength is the longest title the store accepts.
const MaxTitleLength = 255

// maxID caps IDs to the positive 32-bit range the API promises.
const maxID = math.MaxInt32

// idRangeMessage is returned verbatim for any out-of-range or
// unparseable ID; the wording is part of the API contract.
const idRangeMessage = "ID must be a positive integer within 32-bit range (1 to 2,147,483,647)"

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// RequiredTitle checks a mandatory title: non-blank after trimming,
// at most MaxTitleLength characters.
func RequiredTitle(field, title string) *FieldError {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return &FieldError{Field: field, Message: "title must not be empty or whitespace-only", Value: title}
	}
	if len(trimmed) > MaxTitleLength {
		return &FieldError{
			Field:   field,
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
			Value:   title,
		}
	}
	return nil
}

// OptionalTitle applies the title rules only when the field is present.
func OptionalTitle(field string, title *string) *FieldError {
	if title == nil {
		return nil
	}
	return RequiredTitle(field, *title)
}

// ParseID parses a path parameter and bounds-checks it.
func ParseID(field, raw string) (uint, *FieldError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: field, Message: idRangeMessage, Value: raw}
	}
	if fe := ID(field, id); fe != nil {
		return 0, fe
	}
	return uint(id), nil
}

// ID bounds-checks an already-numeric ID.
func ID(field string, id int64) *FieldError {
	if id < 1 || id > maxID {
		return &FieldError{Field: field, Message: idRangeMessage, Value: id}
	}
	return nil
}

// BulkSize enforces the [1, max] cardinality every bulk endpoint shares.
func BulkSize(field string, n, max int) *FieldError {
	if n < 1 || n > max {
		return &FieldError{
			Field:   field,
			Message: fmt.Sprintf("Batch operation must contain between 1 and %d todos", max),
			Value:   n,
		}
	}
	return nil
}

// IDList checks cardinality and the 32-bit bound of every element.
func IDList(field string, ids []int64, max int) []FieldError {
	var errs []FieldError
	if fe := BulkSize(field, len(ids), max); fe != nil {
		errs = append(errs, *fe)
	}
	for i, id := range ids {
		if fe := ID(fmt.Sprintf("%s[%d]", field, i), id); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

// Username checks the /auth username rule.
func Username(field, username string) *FieldError {
	if len(username) < 3 {
		return &FieldError{Field: field, Message: "username must be at least 3 characters", Value: username}
	}
	return nil
}
