package render

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedAction is wrapped by UnsupportedActionError.
	ErrUnsupportedAction = errors.New("unsupported operation")

	// ErrMalformedExpression is wrapped by MalformedExpressionError.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrUnsupportedFeature is wrapped by UnsupportedFeatureError.
	ErrUnsupportedFeature = errors.New("unsupported feature")
)

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

func (UnsupportedFeatureError) Unwrap() error { return ErrUnsupportedFeature }

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// UnsupportedActionError indicates the compiler has no render routine for
// the statement's action.
type UnsupportedActionError struct {
	Dialect string
	Action  string
}

func (e UnsupportedActionError) Error() string {
	return fmt.Sprintf("%s: unsupported operation: %q", e.Dialect, e.Action)
}

func (UnsupportedActionError) Unwrap() error { return ErrUnsupportedAction }

// MalformedExpressionError indicates a predicate the compiler cannot render.
type MalformedExpressionError struct {
	Kind   string
	Reason string
}

func (e MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression (%s): %s", e.Kind, e.Reason)
}

func (MalformedExpressionError) Unwrap() error { return ErrMalformedExpression }

func malformed(kind fmt.Stringer, format string, args ...any) error {
	return MalformedExpressionError{Kind: kind.String(), Reason: fmt.Sprintf(format, args...)}
}
