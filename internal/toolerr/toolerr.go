// Package toolerr defines the error taxonomy returned by tools and the
// Normalize chokepoint that maps any failure into it.
package toolerr

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind classifies a tool failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for nil or foreign errors.
	KindUnknown Kind = iota
	// InvalidArguments means the input failed schema or structural checks.
	InvalidArguments
	// UnknownTool means the dispatch key is not registered.
	UnknownTool
	// UpstreamFailure means a remote HTTP call failed or returned a non-success status.
	UpstreamFailure
	// InternalError covers anything unanticipated.
	InternalError
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case InvalidArguments:
		return "InvalidArguments"
	case UnknownTool:
		return "UnknownTool"
	case UpstreamFailure:
		return "UpstreamFailure"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Violation is a single field-level validation failure.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// Error is the uniform failure shape handed back to the caller.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	cause      error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the original cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Invalid builds an InvalidArguments error listing every violation.
func Invalid(violations ...Violation) *Error {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	return &Error{
		Kind:       InvalidArguments,
		Message:    "Invalid arguments: " + strings.Join(parts, ", "),
		Violations: violations,
	}
}

// InvalidMessage builds an InvalidArguments error for a structural check that is
// not tied to a single field.
func InvalidMessage(format string, args ...any) *Error {
	return Invalid(Violation{Message: fmt.Sprintf(format, args...)})
}

// Unknown builds an UnknownTool error.
func Unknown(name string) *Error {
	return &Error{Kind: UnknownTool, Message: "Unknown tool: " + name}
}

// Upstream wraps a remote failure behind a fixed human-readable prefix.
func Upstream(cause error, prefix string) *Error {
	return wrap(UpstreamFailure, cause, prefix)
}

// Internal wraps an unanticipated failure behind a fixed human-readable prefix.
func Internal(cause error, prefix string) *Error {
	return wrap(InternalError, cause, prefix)
}

func wrap(kind Kind, cause error, prefix string) *Error {
	if cause == nil {
		cause = errors.New("unspecified error")
	}
	wrapped := errors.Wrap(cause, prefix)
	return &Error{Kind: kind, Message: wrapped.Error(), cause: wrapped}
}

// Normalize maps any error to a *Error. Tool errors already present in the chain
// are returned unchanged; everything else becomes an InternalError carrying prefix.
func Normalize(err error, prefix string) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return Internal(err, prefix)
}

// KindOf reports the kind of the first tool error in err's chain.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}
