package fetchrequest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
)

// BuildURL composes a dispatch-ready URL from a host, a namespace and a
// target. Absolute targets pass through untouched. Relative targets are
// joined with exactly one "/" between the parts regardless of slashes the
// caller supplied. The namespace is skipped when the target already begins
// with it, so pre-built paths are not double-prefixed. A bare target with no
// host and no namespace keeps its own leading and trailing slashes: some
// backends route trailing-slash paths differently.
func BuildURL(host, namespace, target string) string {
	if IsAbsoluteURL(target) {
		return target
	}

	var parts []string

	host = strings.TrimSuffix(host, "/")
	if host != "" {
		parts = append(parts, host)
	}

	ns := namespace
	if ns != "" {
		ns = strings.TrimSuffix(ns, "/")
		if host != "" {
			ns = strings.TrimPrefix(ns, "/")
		}
	}
	if ns != "" && !hasNamespacePrefix(target, ns) {
		parts = append(parts, ns)
	}

	if len(parts) > 0 {
		target = strings.TrimPrefix(target, "/")
	}
	parts = append(parts, target)

	return strings.Join(parts, "/")
}

func hasNamespacePrefix(target, namespace string) bool {
	namespace = strings.TrimPrefix(namespace, "/")
	return strings.HasPrefix(target, namespace+"/") ||
		strings.HasPrefix(target, "/"+namespace+"/")
}

// normalizeOptions resolves a target and per-call options against the
// client defaults into a transport-ready descriptor. It never rejects a
// request: malformed inputs pass through for the transport to deal with.
func (c *Client) normalizeOptions(target string, opts *RequestOptions) (*RequestDescriptor, error) {
	host := opts.Host
	if host == "" {
		host = c.host
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = c.namespace
	}

	desc := &RequestDescriptor{
		Method: strings.ToUpper(opts.Method),
		URL:    BuildURL(host, namespace, target),
		Header: make(http.Header),
	}
	if desc.Method == "" {
		desc.Method = http.MethodGet
	}

	if c.defaultHeadersApply(target, host) {
		for k, v := range c.headers {
			desc.Header.Set(k, v)
		}
	}
	for k, v := range opts.Headers {
		desc.Header.Set(k, v)
	}

	contentType := opts.ContentType
	if contentType == "" && desc.Header.Get("Content-Type") == "" {
		contentType = c.contentType
	}
	if contentType != "" {
		desc.Header.Set("Content-Type", contentType)
	}

	if opts.Query != nil {
		appendQueryString(desc, SerializeQuery(opts.Query))
	}

	if opts.Body != nil {
		effectiveType := opts.ContentType
		if effectiveType == "" {
			effectiveType = desc.Header.Get("Content-Type")
		}
		switch {
		case desc.Method != http.MethodGet && isJSONContentType(effectiveType) && !isScalarBody(opts.Body):
			encoded, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("fetchrequest: encode request body: %w", err)
			}
			desc.Body = bytes.NewReader(encoded)
		case desc.Method == http.MethodGet:
			appendQueryString(desc, SerializeQuery(opts.Body))
		default:
			desc.Body = rawBodyReader(opts.Body)
		}
	}

	return desc, nil
}

// defaultHeadersApply decides whether the client's default headers are
// merged into a request. Relative targets always receive them; absolute
// targets only when they resolve to the configured host, so credentials
// never leak to third-party hosts.
func (c *Client) defaultHeadersApply(target, host string) bool {
	if !IsAbsoluteURL(target) {
		return true
	}
	if host == "" {
		return false
	}
	return SameHost(c.parser, target, host)
}

func appendQueryString(desc *RequestDescriptor, qs string) {
	if qs == "" {
		return
	}
	if strings.Contains(desc.URL, "?") {
		desc.URL += "&" + qs
	} else {
		desc.URL += "?" + qs
	}
}

// isJSONContentType matches application/json and the vnd.api+json family,
// case-insensitively, ignoring media type parameters.
func isJSONContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/vnd.api+json")
}

// isScalarBody reports whether a body value is already a transmittable
// payload rather than a structured value needing JSON encoding.
func isScalarBody(body any) bool {
	switch body.(type) {
	case string, []byte, io.Reader:
		return true
	}
	rv := reflect.ValueOf(body)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return false
	}
	return true
}

func rawBodyReader(body any) io.Reader {
	switch b := body.(type) {
	case io.Reader:
		return b
	case []byte:
		return bytes.NewReader(b)
	case string:
		return strings.NewReader(b)
	default:
		return strings.NewReader(fmt.Sprintf("%v", b))
	}
}
