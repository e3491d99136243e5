package fetchrequest

import (
	"net/url"
	"strings"
)

// URLParts is the decomposed form of a URL string. The shape is identical
// regardless of which URLParser produced it.
type URLParts struct {
	Href     string
	Protocol string // includes the trailing colon, e.g. "https:"
	Hostname string
	Port     string
	Pathname string
	Search   string // includes the leading "?", empty when no query
	Hash     string // includes the leading "#", empty when no fragment
}

// URLParser decomposes a URL string into its components. Implementations
// must be safe for concurrent use; a Client holds exactly one parser,
// selected at construction.
type URLParser interface {
	Parse(rawURL string) (URLParts, error)
}

// stdURLParser backs URLParser with net/url.
type stdURLParser struct{}

// DefaultURLParser returns the net/url backed parser used when no
// WithURLParser option is supplied.
func DefaultURLParser() URLParser {
	return stdURLParser{}
}

func (stdURLParser) Parse(rawURL string) (URLParts, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return URLParts{}, err
	}

	parts := URLParts{
		Href:     u.String(),
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: u.Path,
	}
	if u.Scheme != "" {
		parts.Protocol = u.Scheme + ":"
	}
	if u.RawQuery != "" {
		parts.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		parts.Hash = "#" + u.Fragment
	}
	return parts, nil
}

// IsAbsoluteURL reports whether the string carries an http/https scheme
// prefix. This is a syntactic prefix check, not full URI validation.
func IsAbsoluteURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http")
}

// SameHost reports whether two URLs share protocol, hostname and port.
// Ports are compared verbatim: a URL with an explicit default port is not
// equal to one relying on the implicit default.
func SameHost(parser URLParser, a, b string) bool {
	if parser == nil {
		parser = DefaultURLParser()
	}
	pa, err := parser.Parse(a)
	if err != nil {
		return false
	}
	pb, err := parser.Parse(b)
	if err != nil {
		return false
	}
	return pa.Protocol == pb.Protocol && pa.Hostname == pb.Hostname && pa.Port == pb.Port
}
