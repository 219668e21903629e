package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound reports a referenced post, group, or user that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden reports an authenticated caller acting on a resource they do
	// not own. Handlers resolve it by redirecting, not by failing the request.
	ErrForbidden = errors.New("operation not permitted")
	// ErrSelfFollow reports an attempt to create a follow edge from a user to
	// themselves at the graph-store level.
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// ValidationError carries per-field messages for rejected input, so handlers
// can re-present the form with errors attached to the offending fields.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func fieldError(field, message string) ValidationError {
	return ValidationError{Fields: map[string]string{field: message}}
}
