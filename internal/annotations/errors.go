package annotations

import (
	"fmt"
	"strings"

	"wobble/internal/services"
)

// ErrorKind classifies a ValidationError.
type ErrorKind string

const (
	KindNegativeFrameIndex ErrorKind = "NegativeFrameIndex"
	KindInvalidThreshold   ErrorKind = "InvalidThreshold"
	KindInvalidRange       ErrorKind = "InvalidRange"
	KindUnknownMatchSymbol ErrorKind = "UnknownMatchSymbol"
	KindEmptyMatches       ErrorKind = "EmptyMatches"
	KindOutOfBounds        ErrorKind = "OutOfBounds"
	KindMissingField       ErrorKind = "MissingField"
	KindInvalidPosition    ErrorKind = "InvalidPosition"
	KindStaleOrphan        ErrorKind = "StaleOrphan"
)

// ValidationError reports malformed annotation data. It is raised at
// construction time and never deferred.
type ValidationError struct {
	Kind   ErrorKind
	Field  string
	Index  int
	Detail string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, " [%d]", e.Index)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap exposes the classification marker for errors.Is.
func (e *ValidationError) Unwrap() error {
	if e.Kind == KindUnknownMatchSymbol {
		return services.ErrUnknownMatchSymbol
	}
	return services.ErrValidation
}

// NewValidationError builds a ValidationError. Pass index -1 when the error
// is not tied to a position.
func NewValidationError(kind ErrorKind, field string, index int, format string, args ...any) *ValidationError {
	return newValidationError(kind, field, index, format, args...)
}

func newValidationError(kind ErrorKind, field string, index int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:   kind,
		Field:  field,
		Index:  index,
		Detail: fmt.Sprintf(format, args...),
	}
}

// checkNonNegative fails on the first negative frame index.
func checkNonNegative(field string, frames ...int) error {
	for i, frame := range frames {
		if frame < 0 {
			return newValidationError(KindNegativeFrameIndex, field, i, "frame %d is negative", frame)
		}
	}
	return nil
}
