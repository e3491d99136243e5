package fetchrequest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// DecodeBody reads and decodes a response body according to its declared
// content type. A response with no Content-Type header decodes to nil
// without touching the body. Types containing "json" decode to a structured
// value, types containing "text" decode to a string, and anything else
// fails with an UnsupportedContentTypeError naming the offending type.
func DecodeBody(resp *http.Response) (any, error) {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetchrequest: read response body: %w", err)
	}
	return decodeRawBody(contentType, data)
}

func decodeRawBody(contentType string, data []byte) (any, error) {
	if contentType == "" {
		return nil, nil
	}
	lower := strings.ToLower(contentType)
	switch {
	case strings.Contains(lower, "json"):
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("fetchrequest: decode json body: %w", err)
		}
		return v, nil
	case strings.Contains(lower, "text"):
		return string(data), nil
	default:
		return nil, &Error{
			Type:    ErrorTypeUnsupportedContentType,
			Message: fmt.Sprintf("unsupported content type %q", contentType),
		}
	}
}

// classifyTransportError maps a transport-level failure onto the error
// taxonomy. Timeouts and caller cancellation are recognized through the
// error chain; everything else means the transport produced no
// protocol-level answer at all.
func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorTypeAbort
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}
	return ErrorTypeNetwork
}
