package fetchrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client normalizes requests against service-level defaults before handing
// them to the underlying transport, and normalizes every outcome into a
// decoded value or a typed error. It is safe for concurrent use; the
// defaults are read-only once construction finishes.
type Client struct {
	httpClient  *http.Client
	host        string
	namespace   string
	headers     map[string]string
	contentType string
	parser      URLParser
	middleware  []Middleware
	metrics     *MetricsCollector
	logger      Logger
	debug       *DebugConfig

	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers:    map[string]string{},
		parser:     DefaultURLParser(),
		middleware: []Middleware{},
		debug:      DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Request is the single entry point of the pipeline: it normalizes the
// target and options, dispatches the call, decodes the response body and
// classifies the status. On a 2xx status it returns the decoded body; on
// any failure it returns a typed *Error carrying the response status,
// headers and decoded payload where a response exists.
func (c *Client) Request(ctx context.Context, target string, opts *RequestOptions) (any, error) {
	resp, data, state, err := c.send(ctx, target, opts)
	if err != nil {
		return nil, err
	}

	payload, err := c.decodePayload(resp, data, state)
	if err != nil {
		return nil, err
	}

	if errType := StatusErrorType(resp.StatusCode); errType != "" {
		return nil, c.statusError(errType, resp, payload, state)
	}
	return payload, nil
}

// Raw behaves like Request but never raises on a non-2xx status: the
// decoded payload is returned together with the response status and
// headers. Transport and decode failures still fail.
func (c *Client) Raw(ctx context.Context, target string, opts *RequestOptions) (*RawResponse, error) {
	resp, data, state, err := c.send(ctx, target, opts)
	if err != nil {
		return nil, err
	}

	payload, err := c.decodePayload(resp, data, state)
	if err != nil {
		return nil, err
	}

	return &RawResponse{
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Payload: payload,
	}, nil
}

// RequestInto dispatches like Request and unmarshals a JSON response body
// directly into v. Non-JSON success responses leave v untouched.
func (c *Client) RequestInto(ctx context.Context, target string, opts *RequestOptions, v any) error {
	resp, data, state, err := c.send(ctx, target, opts)
	if err != nil {
		return err
	}

	if errType := StatusErrorType(resp.StatusCode); errType != "" {
		payload, decErr := c.decodePayload(resp, data, state)
		if decErr != nil {
			return decErr
		}
		return c.statusError(errType, resp, payload, state)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || !strings.Contains(strings.ToLower(contentType), "json") {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.metrics.RecordDecodeFailure(state.method, state.endpoint, contentType)
		return fmt.Errorf("fetchrequest: decode json body: %w", err)
	}
	return nil
}

// Get dispatches a GET request.
func (c *Client) Get(ctx context.Context, target string, opts *RequestOptions) (any, error) {
	return c.requestWithMethod(ctx, http.MethodGet, target, opts)
}

// Post dispatches a POST request.
func (c *Client) Post(ctx context.Context, target string, opts *RequestOptions) (any, error) {
	return c.requestWithMethod(ctx, http.MethodPost, target, opts)
}

// Put dispatches a PUT request.
func (c *Client) Put(ctx context.Context, target string, opts *RequestOptions) (any, error) {
	return c.requestWithMethod(ctx, http.MethodPut, target, opts)
}

// Patch dispatches a PATCH request.
func (c *Client) Patch(ctx context.Context, target string, opts *RequestOptions) (any, error) {
	return c.requestWithMethod(ctx, http.MethodPatch, target, opts)
}

// Delete dispatches a DELETE request.
func (c *Client) Delete(ctx context.Context, target string, opts *RequestOptions) (any, error) {
	return c.requestWithMethod(ctx, http.MethodDelete, target, opts)
}

func (c *Client) requestWithMethod(ctx context.Context, method, target string, opts *RequestOptions) (any, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	opts.Method = method
	return c.Request(ctx, target, opts)
}

// requestState carries per-call bookkeeping between pipeline stages.
type requestState struct {
	method    string
	url       string
	endpoint  string
	requestID string
	start     time.Time
}

// send runs normalization and dispatch, classifying transport-level
// failures. When the transport produced no protocol-level status the body
// is never read and a NetworkError is returned; otherwise the body is
// fully consumed and returned as bytes.
func (c *Client) send(ctx context.Context, target string, opts *RequestOptions) (*http.Response, []byte, *requestState, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	state := &requestState{start: time.Now()}

	desc, err := c.normalizeOptions(target, opts)
	if err != nil {
		return nil, nil, state, err
	}
	state.method = desc.Method
	state.url = desc.URL

	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		state.requestID = c.debug.RequestIDGen()
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, desc.URL, desc.Body)
	if err != nil {
		return nil, nil, state, fmt.Errorf("fetchrequest: build request: %w", err)
	}
	req.Header = desc.Header
	state.endpoint = getEndpointFromRequest(req)

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", state.requestID, "method", req.Method, "url", req.URL.String(), "endpoint", state.endpoint)
	}

	c.metrics.RecordRequestStart(req.Method, state.endpoint)
	resp, err := c.executeMiddleware(req)
	c.metrics.RecordRequestEnd(req.Method, state.endpoint)
	duration := time.Since(state.start)

	if err != nil {
		errType := classifyTransportError(err)
		c.metrics.RecordError(errType, state.method, state.endpoint)
		c.metrics.RecordRequest(state.method, state.endpoint, 0, duration)
		return nil, nil, state, c.transportError(errType, err, state, duration)
	}

	c.metrics.RecordRequest(state.method, state.endpoint, resp.StatusCode, duration)

	if c.debug != nil && c.debug.Enabled && c.debug.LogResponses && c.logger != nil {
		c.logger.Debug("Received response", "requestID", state.requestID, "status", resp.StatusCode, "endpoint", state.endpoint, "duration", duration)
	}

	if resp.StatusCode == 0 {
		// No protocol-level status: the body is never touched. Synthetic
		// middleware responses may omit the body entirely.
		if resp.Body != nil {
			resp.Body.Close()
		}
		c.metrics.RecordError(ErrorTypeNetwork, state.method, state.endpoint)
		return nil, nil, state, c.transportError(ErrorTypeNetwork, nil, state, duration)
	}

	var data []byte
	if resp.Body != nil {
		data, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			c.metrics.RecordError(ErrorTypeNetwork, state.method, state.endpoint)
			return nil, nil, state, c.transportError(ErrorTypeNetwork, err, state, duration)
		}
	}

	return resp, data, state, nil
}

// decodePayload decodes the consumed body per its declared content type.
// Error-status responses are decoded too: diagnostic payloads matter.
func (c *Client) decodePayload(resp *http.Response, data []byte, state *requestState) (any, error) {
	contentType := resp.Header.Get("Content-Type")
	payload, err := decodeRawBody(contentType, data)
	if err == nil {
		return payload, nil
	}

	c.metrics.RecordDecodeFailure(state.method, state.endpoint, contentType)
	if fe, ok := err.(*Error); ok {
		fe.Status = resp.StatusCode
		fe.Header = resp.Header
		fe.Method = state.method
		fe.URL = state.url
		fe.RequestID = state.requestID
		fe.Timestamp = time.Now()
		fe.Duration = time.Since(state.start)
	}
	return nil, err
}

func (c *Client) transportError(errType string, cause error, state *requestState, duration time.Duration) *Error {
	message := "request failed without a protocol-level response"
	switch errType {
	case ErrorTypeTimeout:
		message = "request timed out"
	case ErrorTypeAbort:
		message = "request was aborted"
	}

	if c.debug != nil && c.debug.Enabled && c.logger != nil {
		c.logger.Warn("Request failed", "requestID", state.requestID, "type", errType, "url", state.url, "error", cause)
	}

	return &Error{
		Type:      errType,
		Message:   message,
		Method:    state.method,
		URL:       state.url,
		RequestID: state.requestID,
		Timestamp: time.Now(),
		Duration:  duration,
		Cause:     cause,
	}
}

func (c *Client) statusError(errType string, resp *http.Response, payload any, state *requestState) *Error {
	c.metrics.RecordError(errType, state.method, state.endpoint)

	message := http.StatusText(resp.StatusCode)
	if message == "" {
		message = fmt.Sprintf("request rejected with status %d", resp.StatusCode)
	}

	return &Error{
		Type:      errType,
		Message:   message,
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      payload,
		Method:    state.method,
		URL:       state.url,
		RequestID: state.requestID,
		Timestamp: time.Now(),
		Duration:  time.Since(state.start),
	}
}

func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripperFunc(c.httpClient.Do)

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

func getEndpointFromRequest(req *http.Request) string {
	if req.URL == nil {
		return "unknown"
	}

	host := req.URL.Host
	path := req.URL.Path

	var builder strings.Builder
	builder.WriteString(host)

	if path != "" && path != "/" {
		builder.WriteString(path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
