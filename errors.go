package geoquiz

import "errors"

// Kind classifies an [Error] so callers can map it to a response.
type Kind string

const (
	// KindValidation marks missing or malformed required input. Never retried.
	KindValidation Kind = "validation"
	// KindAuthorization marks a missing identity or an identity that is not
	// entitled to the operation. Never retried.
	KindAuthorization Kind = "authorization"
	// KindAuthentication marks rejected credentials.
	KindAuthentication Kind = "authentication"
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound Kind = "not_found"
	// KindStore marks an I/O failure against the store. Safe to retry with
	// backoff; the repositories never retry themselves.
	KindStore Kind = "store"
)

// Sentinels for use with errors.Is. They match any [Error] of the same kind.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrAuthorization  = &Error{Kind: KindAuthorization}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrStore          = &Error{Kind: KindStore}
)

// Error is the error type returned by the repositories and the store adapter.
type Error struct {
	Kind    Kind   // Machine-readable classification
	Message string // Caller-facing message
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// ValidationError creates a validation error.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// AuthorizationError creates an authorization error.
func AuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// AuthenticationError creates an authentication error.
func AuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NotFoundError creates a not found error.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// TransientStoreError wraps a failed store operation.
func TransientStoreError(message string, cause error) *Error {
	return &Error{Kind: KindStore, Message: message, Cause: cause}
}

// KindOf returns the kind of the first [Error] in err's chain, or an empty
// Kind if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
