package fetchrequest

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error type identifiers. The set is closed: every failure surfaced by the
// client carries exactly one of these.
const (
	// Status-mapped variants.
	ErrorTypeInvalid      = "InvalidError"      // 422
	ErrorTypeUnauthorized = "UnauthorizedError" // 401
	ErrorTypeForbidden    = "ForbiddenError"    // 403
	ErrorTypeBadRequest   = "BadRequestError"   // 400
	ErrorTypeNotFound     = "NotFoundError"     // 404
	ErrorTypeGone         = "GoneError"         // 410
	ErrorTypeConflict     = "ConflictError"     // 409
	ErrorTypeServer       = "ServerError"       // 500 and any unmapped non-2xx

	// Transport-signal variants, detected from the transport error rather
	// than a status code.
	ErrorTypeNetwork = "NetworkError"
	ErrorTypeTimeout = "TimeoutError"
	ErrorTypeAbort   = "AbortError"

	// Body-decode variant.
	ErrorTypeUnsupportedContentType = "UnsupportedContentTypeError"

	// Construction-time configuration failure; never produced by a request.
	ErrorTypeValidation = "ValidationError"
)

// Error represents a failed request. Status, Header and Body are populated
// when the transport produced a protocol-level response; Body carries the
// decoded error payload so callers never lose a diagnostic response body.
type Error struct {
	Type      string
	Message   string
	Status    int
	Header    http.Header
	Body      any
	Method    string
	URL       string
	RequestID string
	Timestamp time.Time
	Duration  time.Duration
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *Error) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.Status > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.Status)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// StatusErrorType maps an HTTP status to an error type identifier, or ""
// for a success status. The mapping is total: any non-2xx status without an
// explicit entry falls through to ErrorTypeServer.
func StatusErrorType(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return ErrorTypeInvalid
	case http.StatusUnauthorized:
		return ErrorTypeUnauthorized
	case http.StatusForbidden:
		return ErrorTypeForbidden
	case http.StatusBadRequest:
		return ErrorTypeBadRequest
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusGone:
		return ErrorTypeGone
	case http.StatusConflict:
		return ErrorTypeConflict
	case http.StatusInternalServerError:
		return ErrorTypeServer
	default:
		if status >= 200 && status < 300 {
			return ""
		}
		return ErrorTypeServer
	}
}

func isErrorType(err error, errType string) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == errType
}

// IsInvalidError reports whether err is a 422 Unprocessable Entity failure.
func IsInvalidError(err error) bool { return isErrorType(err, ErrorTypeInvalid) }

// IsUnauthorizedError reports whether err is a 401 Unauthorized failure.
func IsUnauthorizedError(err error) bool { return isErrorType(err, ErrorTypeUnauthorized) }

// IsForbiddenError reports whether err is a 403 Forbidden failure.
func IsForbiddenError(err error) bool { return isErrorType(err, ErrorTypeForbidden) }

// IsBadRequestError reports whether err is a 400 Bad Request failure.
func IsBadRequestError(err error) bool { return isErrorType(err, ErrorTypeBadRequest) }

// IsNotFoundError reports whether err is a 404 Not Found failure.
func IsNotFoundError(err error) bool { return isErrorType(err, ErrorTypeNotFound) }

// IsGoneError reports whether err is a 410 Gone failure.
func IsGoneError(err error) bool { return isErrorType(err, ErrorTypeGone) }

// IsConflictError reports whether err is a 409 Conflict failure.
func IsConflictError(err error) bool { return isErrorType(err, ErrorTypeConflict) }

// IsServerError reports whether err is a 5xx or otherwise unmapped
// protocol-level failure.
func IsServerError(err error) bool { return isErrorType(err, ErrorTypeServer) }

// IsNetworkError reports whether err means the transport produced no
// protocol-level response at all.
func IsNetworkError(err error) bool { return isErrorType(err, ErrorTypeNetwork) }

// IsTimeoutError reports whether err is a transport timeout.
func IsTimeoutError(err error) bool { return isErrorType(err, ErrorTypeTimeout) }

// IsAbortError reports whether err means the caller cancelled the request.
func IsAbortError(err error) bool { return isErrorType(err, ErrorTypeAbort) }

// IsUnsupportedContentTypeError reports whether err means the response body
// declared a content type this client cannot decode.
func IsUnsupportedContentTypeError(err error) bool {
	return isErrorType(err, ErrorTypeUnsupportedContentType)
}
