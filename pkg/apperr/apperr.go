// Package apperr defines the tagged error kinds used by the scan workflow.
// Business rule violations are expected-and-handled outcomes, so transitions
// return an *Error carrying a Kind instead of relying on sentinel comparison
// at every call site. Infrastructure faults wrap the underlying error.
package apperr

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInvalidTransition
	KindForbidden
	KindNotFound
	KindFileMissing
	KindAnalysisFailed
	KindMalformedResult
	KindTemplateError
	KindDeliveryFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindFileMissing:
		return "file_missing"
	case KindAnalysisFailed:
		return "analysis_failed"
	case KindMalformedResult:
		return "malformed_result"
	case KindTemplateError:
		return "template_error"
	case KindDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func InvalidTransition(message string) *Error {
	return New(KindInvalidTransition, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func FileMissing(message string) *Error {
	return New(KindFileMissing, message)
}

func AnalysisFailed(message string, err error) *Error {
	return Wrap(KindAnalysisFailed, message, err)
}

func MalformedResult(message string) *Error {
	return New(KindMalformedResult, message)
}

func TemplateError(message string, err error) *Error {
	return Wrap(KindTemplateError, message, err)
}

func DeliveryFailed(message string, err error) *Error {
	return Wrap(KindDeliveryFailed, message, err)
}

// KindOf returns the Kind carried by err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
