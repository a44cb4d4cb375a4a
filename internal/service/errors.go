package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("resource not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrUnknownKind     = errors.New("unknown fetch kind")
	ErrUnknownFileType = errors.New("unknown file type")
	ErrDecryption      = errors.New("stored file could not be decrypted")
)

// ValidationError carries per-field messages. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
