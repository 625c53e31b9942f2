package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when an id does not resolve to an active record.
var ErrNotFound = errors.New("resource not found")

// ErrInvalidCredentials is returned by the auth gate on a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError carries per-field messages and maps 1:1 onto the API error
// body. A nil or empty ValidationError is not an error; callers use Err().
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns e as an error only when it holds at least one message.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var b strings.Builder
	b.WriteString("validation failed:")
	for _, f := range fields {
		fmt.Fprintf(&b, " %s: %s;", f, strings.Join(e.Fields[f], ", "))
	}
	return strings.TrimSuffix(b.String(), ";")
}

// StateOp identifies which guard rejected a mutation.
type StateOp string

const (
	OpUpdate     StateOp = "update"
	OpDelete     StateOp = "delete"
	OpTransition StateOp = "transition"
)

// StateError is a lifecycle guard violation. It always names the current
// status; for rejected transitions it also names the requested one.
type StateError struct {
	Op     StateOp
	Status Status
	Next   Status
}

func (e *StateError) Error() string {
	switch e.Op {
	case OpTransition:
		return fmt.Sprintf("Invalid status transition from %s to %s.", e.Status, e.Next)
	case OpDelete:
		return fmt.Sprintf("Cannot delete order with status %s.", e.Status)
	default:
		return fmt.Sprintf("Cannot modify order with status %s.", e.Status)
	}
}
