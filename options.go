package fetchrequest

import (
	"fmt"
	"net/http"
	"time"
)

// WithHost sets the default origin prepended to relative targets,
// e.g. "https://api.example.com".
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = host
	}
}

// WithNamespace sets the default path prefix inserted between the host and
// relative targets, e.g. "api/v1".
func WithNamespace(namespace string) Option {
	return func(c *Client) {
		c.namespace = namespace
	}
}

// WithHeader adds one default header sent with every request on the
// configured host.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.headers[name] = value
	}
}

// WithHeaders merges a set of default headers sent with every request on
// the configured host.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithContentType sets a default Content-Type applied when neither the
// per-call options nor the per-call headers carry one.
func WithContentType(contentType string) Option {
	return func(c *Client) {
		c.contentType = contentType
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the underlying client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithURLParser replaces the URL decomposition capability. The parser is
// selected once here, never per call.
func WithURLParser(parser URLParser) Option {
	return func(c *Client) {
		c.parser = parser
	}
}

// WithMiddleware appends middleware executed around the transport dispatch,
// in the order provided.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithMetrics enables Prometheus metrics collection
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithDebug enables debug instrumentation with the default config.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	var errors []string

	errors = append(errors, c.validateHostConfig()...)
	errors = append(errors, c.validateDebugConfig()...)
	errors = append(errors, c.validateHTTPClientConfig()...)

	if len(errors) > 0 {
		return &Error{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errors),
		}
	}

	return nil
}

// validateHostConfig validates the default host and namespace
func (c *Client) validateHostConfig() []string {
	var errors []string

	if c.parser == nil {
		errors = append(errors, "url parser must not be nil")
		return errors
	}

	if c.host != "" {
		if !IsAbsoluteURL(c.host) {
			errors = append(errors, "host must be an absolute http or https origin")
		} else if _, err := c.parser.Parse(c.host); err != nil {
			errors = append(errors, fmt.Sprintf("host is not a parseable URL: %v", err))
		}
	}

	return errors
}

// validateDebugConfig validates debug configuration
func (c *Client) validateDebugConfig() []string {
	var errors []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errors = append(errors, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errors = append(errors, "logger must be set when debug is enabled")
		}
	}

	return errors
}

// validateHTTPClientConfig validates the underlying HTTP client
func (c *Client) validateHTTPClientConfig() []string {
	var errors []string

	if c.httpClient == nil {
		errors = append(errors, "http client must not be nil")
	} else if c.httpClient.Timeout < 0 {
		errors = append(errors, "timeout must be non-negative")
	}

	return errors
}
