package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared by stores and services. Stores return these
// (optionally wrapped) so callers can branch with errors.Is; the HTTP layer
// maps them to status codes.
var (
	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the operation lost against an invariant (current assignment
	// already exists, stock overdraft, storage uniqueness constraint fired).
	ErrConflict = errors.New("conflict")
)

// FieldErrors aggregates validation failures keyed by field name. Every
// violated rule is reported, not just the first one, so a UI can render each
// message beside the offending input.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(parts, "; ")
}

// AsFieldErrors unwraps err into FieldErrors when possible.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}
