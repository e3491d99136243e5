package fetchrequest

import (
	"io"
	"net/http"
)

// Middleware represents a middleware function
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper represents the HTTP transport interface
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc is a helper type for middleware
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Option represents a configuration option
type Option func(*Client)

// RequestOptions holds the per-call settings of a single request. A zero
// value is a plain GET with no headers and no body. The struct is consumed
// during normalization and never retained past the call.
type RequestOptions struct {
	// Method defaults to GET when empty.
	Method string

	// Headers are merged over the client's default headers. Per-call
	// entries win on key collision. Defaults are withheld entirely when
	// the target is an absolute URL on a different host.
	Headers map[string]string

	// ContentType overrides any Content-Type from Headers or the client
	// default.
	ContentType string

	// Body is the request payload. Structured values are JSON-encoded for
	// JSON content types; for GET requests the body is folded into the
	// query string and dropped. Strings, []byte and io.Reader values pass
	// through untouched.
	Body any

	// Query is serialized and appended to the URL for any method.
	Query any

	// Host and Namespace override the client defaults for this call only.
	Host      string
	Namespace string
}

// RequestDescriptor is the normalized, transport-ready form of a request.
type RequestDescriptor struct {
	Method string
	URL    string
	Header http.Header
	Body   io.Reader
}

// RawResponse is the outcome of Client.Raw: the decoded payload together
// with the response status and headers, with no status-based error raised.
type RawResponse struct {
	Status  int
	Header  http.Header
	Payload any
}
