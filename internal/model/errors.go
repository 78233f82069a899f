package model

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the closed validation error taxonomy.
type ErrorKind string

const (
	ErrUnknownQuestionID          ErrorKind = "unknown_question_id"
	ErrInvalidOptionValue         ErrorKind = "invalid_option_value"
	ErrPredicateTypeIncompatible  ErrorKind = "predicate_type_incompatible"
	ErrMissingRangeBound          ErrorKind = "missing_range_bound"
	ErrInvalidRangeBounds         ErrorKind = "invalid_range_bounds"
	ErrMetricQuestionIncompatible ErrorKind = "metric_question_incompatible"
	ErrUnknownDimension           ErrorKind = "unknown_dimension"
	ErrUnknownSegment             ErrorKind = "unknown_segment"
)

// ValidationError is an ordinary return value, never a raised fault.
// A request with one or more of these is reported back verbatim; the engine
// never substitutes, clamps or defaults its way around one.
type ValidationError struct {
	Kind    ErrorKind `json:"kind" bson:"kind"`
	Message string    `json:"message" bson:"message"`
	Field   string    `json:"field,omitempty" bson:"field,omitempty"` // Offending spec field or question id
}

// NewValidationError builds one taxonomy entry.
func NewValidationError(kind ErrorKind, field, format string, args ...any) ValidationError {
	return ValidationError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
	}
}

// ErrInternalInconsistency marks precondition violations the engine cannot
// classify as user error: a malformed catalog, a dataset column the validator
// approved but the evaluator cannot find. It is surfaced as a Go error,
// never routed into the validation-error channel.
var ErrInternalInconsistency = errors.New("internal inconsistency")

// Internalf wraps ErrInternalInconsistency with detail.
func Internalf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInternalInconsistency}, args...)...)
}
