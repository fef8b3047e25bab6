package service

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field failures so a response can report
// all of them at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
