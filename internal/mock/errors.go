package mock

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInactive  = errors.New("mock is not active")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries field-level messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e as an error, or nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
