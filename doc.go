// Package fetchrequest normalizes HTTP requests and responses around the
// standard net/http client:
//
//   - URL resolution: relative targets are composed from a configured host
//     and namespace with exactly one slash between segments; absolute
//     targets pass through untouched
//   - Header merging: service-level default headers apply to requests on
//     the configured host and are withheld from third-party hosts
//   - Body encoding: structured bodies are JSON-encoded for JSON content
//     types; GET bodies fold into the query string with nested bracket
//     notation
//   - Response classification: bodies decode by declared content type and
//     non-success statuses map onto a closed typed error taxonomy
//     (NotFound, Unauthorized, Timeout, Network, ...)
//
// Design goals:
//   - One request per call, one outcome per call – no retries, no caching
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - Pluggable URL parsing, middleware, logging and Prometheus metrics
//
// Typical usage:
//
//	client := fetchrequest.New(
//	    fetchrequest.WithHost("https://api.example.com"),
//	    fetchrequest.WithNamespace("v1"),
//	    fetchrequest.WithHeader("Authorization", "Bearer ..."),
//	)
//	users, err := client.Get(ctx, "users", nil)
//	if fetchrequest.IsNotFoundError(err) {
//	    // ...
//	}
//
// Failure categories are the point: callers can distinguish an unreachable
// server from a rejected request from an undecodable response without
// string-matching error text.
package fetchrequest
