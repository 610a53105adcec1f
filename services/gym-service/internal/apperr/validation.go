// Package apperr holds the error shapes shared by the domain packages.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError lists every offending field with a human readable message.
type ValidationError struct {
	Fields map[string]string
}

func NewValidation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Require adds "<label> is required" when value is blank.
func (e *ValidationError) Require(field, label, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, label+" is required")
	}
}

// Err returns nil when nothing was recorded, so callers can `return v.Err()`.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message()
}

// Message joins the field messages in field order.
func (e *ValidationError) Message() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, ", ")
}

func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
