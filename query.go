package fetchrequest

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	querystring "github.com/google/go-querystring/query"
)

// QueryParam is a single name/value pair. A []QueryParam root passed to
// SerializeQuery is encoded with form-element semantics: each pair
// contributes one name=value entry without bracket expansion.
type QueryParam struct {
	Name  string
	Value any
}

// SerializeQuery flattens a value into a query string using nested bracket
// notation (`a[b]=1&a[c][]=2`), compatible with jQuery.param and the deep
// object parsers of common server frameworks.
//
// Accepted roots: nil (empty string), []QueryParam, url.Values,
// map[string]any, map[string]string, or a struct carrying `url` tags
// (converted via github.com/google/go-querystring). Map keys are emitted in
// sorted order so output is deterministic.
//
// Nested values recurse: sequences append `prefix[i]` for composite elements
// and `prefix[]` for scalars; mappings append `prefix[name]`. A zero-argument
// func() any value is invoked and its result encoded. Nil values encode as
// an empty string.
func SerializeQuery(v any) string {
	if v == nil {
		return ""
	}

	var pairs []string
	switch root := v.(type) {
	case []QueryParam:
		for _, p := range root {
			pairs = appendQueryPair(pairs, p.Name, p.Value)
		}
	case url.Values:
		pairs = appendValues(pairs, "", root)
	case map[string]string:
		for _, k := range sortedStringKeys(root) {
			pairs = appendQueryPair(pairs, k, root[k])
		}
	case map[string]any:
		for _, k := range sortedAnyKeys(root) {
			pairs = buildQueryParams(pairs, k, root[k])
		}
	default:
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return ""
			}
			rv = rv.Elem()
		}
		switch rv.Kind() {
		case reflect.Struct:
			vals, err := querystring.Values(v)
			if err != nil {
				return ""
			}
			pairs = appendValues(pairs, "", vals)
		case reflect.Map:
			for _, k := range sortedMapKeys(rv) {
				pairs = buildQueryParams(pairs, k.name, rv.MapIndex(k.value).Interface())
			}
		default:
			return ""
		}
	}
	return strings.Join(pairs, "&")
}

// buildQueryParams recurses over one prefix/value pair, accumulating
// encoded name=value entries.
func buildQueryParams(pairs []string, prefix string, value any) []string {
	if fn, ok := value.(func() any); ok {
		value = fn()
	}
	if value == nil {
		return appendQueryPair(pairs, prefix, nil)
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return appendQueryPair(pairs, prefix, nil)
		}
		rv = rv.Elem()
		value = rv.Interface()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte is a scalar payload, not a sequence.
			return appendQueryPair(pairs, prefix, string(rv.Bytes()))
		}
		for i := 0; i < rv.Len(); i++ {
			el := rv.Index(i).Interface()
			if isCompositeValue(el) {
				pairs = buildQueryParams(pairs, fmt.Sprintf("%s[%d]", prefix, i), el)
			} else {
				pairs = buildQueryParams(pairs, prefix+"[]", el)
			}
		}
		return pairs
	case reflect.Map:
		for _, k := range sortedMapKeys(rv) {
			pairs = buildQueryParams(pairs, prefix+"["+k.name+"]", rv.MapIndex(k.value).Interface())
		}
		return pairs
	case reflect.Struct:
		vals, err := querystring.Values(value)
		if err != nil {
			return appendQueryPair(pairs, prefix, value)
		}
		for _, k := range sortedValuesKeys(vals) {
			for _, v := range vals[k] {
				pairs = appendQueryPair(pairs, prefix+"["+k+"]", v)
			}
		}
		return pairs
	default:
		return appendQueryPair(pairs, prefix, value)
	}
}

func appendQueryPair(pairs []string, name string, value any) []string {
	return append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(queryScalarString(value)))
}

func appendValues(pairs []string, prefix string, vals url.Values) []string {
	for _, k := range sortedValuesKeys(vals) {
		name := k
		if prefix != "" {
			name = prefix + "[" + k + "]"
		}
		for _, v := range vals[k] {
			pairs = appendQueryPair(pairs, name, v)
		}
	}
	return pairs
}

func queryScalarString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// isCompositeValue reports whether a sequence element should recurse under
// an indexed key rather than empty brackets.
func isCompositeValue(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return true
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	}
	return false
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedValuesKeys(m url.Values) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mapKey pairs a map key with its string form so arbitrary key types can be
// emitted in a deterministic order.
type mapKey struct {
	name  string
	value reflect.Value
}

func sortedMapKeys(rv reflect.Value) []mapKey {
	keys := make([]mapKey, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, mapKey{name: fmt.Sprintf("%v", k.Interface()), value: k})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].name < keys[j].name })
	return keys
}

// ParseQuery is the inverse of SerializeQuery for flat and bracketed keys:
// `a=1` assigns a string, repeated keys and `a[]=` accumulate a []any, and
// `a[b][c]=1` rebuilds arbitrarily deep string-keyed maps. Indexed composite
// sequences do not round-trip: `a[0][b]=1` comes back as a map keyed "0",
// not a sequence. A leading "?" is tolerated.
func ParseQuery(qs string) (map[string]any, error) {
	out := make(map[string]any)
	qs = strings.TrimPrefix(qs, "?")
	if qs == "" {
		return out, nil
	}
	for _, raw := range strings.Split(qs, "&") {
		if raw == "" {
			continue
		}
		name, value, _ := strings.Cut(raw, "=")
		key, err := url.QueryUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("fetchrequest: parse query key %q: %w", name, err)
		}
		val, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("fetchrequest: parse query value %q: %w", value, err)
		}
		if err := assignQueryValue(out, key, val); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func assignQueryValue(out map[string]any, key, val string) error {
	base, rest, bracketed := strings.Cut(key, "[")
	if !bracketed {
		switch existing := out[base].(type) {
		case nil:
			out[base] = val
		case []any:
			out[base] = append(existing, val)
		default:
			out[base] = []any{existing, val}
		}
		return nil
	}

	node := out
	for rest != "" {
		seg, tail, ok := strings.Cut(rest, "]")
		if !ok {
			return fmt.Errorf("fetchrequest: unbalanced bracket in query key %q", key)
		}
		tail = strings.TrimPrefix(tail, "[")

		if seg == "" {
			// prefix[] appends under the current base.
			list, _ := node[base].([]any)
			node[base] = append(list, val)
			return nil
		}
		if tail == "" {
			child, ok := node[base].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[base] = child
			}
			child[seg] = val
			return nil
		}
		child, ok := node[base].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[base] = child
		}
		node = child
		base = seg
		rest = tail
	}
	return nil
}
