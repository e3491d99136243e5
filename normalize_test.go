package fetchrequest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		namespace string
		target    string
		want      string
	}{
		{"host and namespace", "https://api.example.com", "v1", "users", "https://api.example.com/v1/users"},
		{"trailing slash on host", "https://api.example.com/", "v1", "users", "https://api.example.com/v1/users"},
		{"slashed namespace", "https://api.example.com", "/v1/", "users", "https://api.example.com/v1/users"},
		{"leading slash on target", "https://api.example.com", "v1", "/users", "https://api.example.com/v1/users"},
		{"host only", "https://api.example.com", "", "users/1", "https://api.example.com/users/1"},
		{"namespace only", "", "v1", "users", "v1/users"},
		{"namespace only with leading slash", "", "/v1", "users", "/v1/users"},
		{"absolute target untouched", "https://api.example.com", "v1", "https://other.com/x", "https://other.com/x"},
		{"namespace already on target", "https://api.example.com", "v1", "v1/users", "https://api.example.com/v1/users"},
		{"namespace already on slashed target", "https://api.example.com", "v1", "/v1/users", "https://api.example.com/v1/users"},
		{"bare target keeps slashes", "", "", "/users/", "/users/"},
		{"trailing slash preserved", "https://api.example.com", "v1", "users/", "https://api.example.com/v1/users/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.host, tt.namespace, tt.target); got != tt.want {
				t.Errorf("BuildURL(%q, %q, %q) = %q, want %q", tt.host, tt.namespace, tt.target, got, tt.want)
			}
		})
	}
}

func TestNormalizeOptionsMethodDefault(t *testing.T) {
	client := New(WithHost("https://api.example.com"))

	desc, err := client.normalizeOptions("users", &RequestOptions{})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if desc.Method != http.MethodGet {
		t.Errorf("Expected method GET, got %q", desc.Method)
	}
	if desc.URL != "https://api.example.com/users" {
		t.Errorf("Expected resolved URL, got %q", desc.URL)
	}
	if desc.Header == nil {
		t.Error("Expected headers to be a concrete map")
	}
}

func TestNormalizeOptionsHeaderMergeRelative(t *testing.T) {
	client := New(
		WithHost("https://api.example.com"),
		WithHeader("Authorization", "secret"),
		WithHeader("X-From", "default"),
	)

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Headers: map[string]string{"X-From": "call"},
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if got := desc.Header.Get("Authorization"); got != "secret" {
		t.Errorf("Expected default Authorization header, got %q", got)
	}
	if got := desc.Header.Get("X-From"); got != "call" {
		t.Errorf("Expected per-call header to win, got %q", got)
	}
}

func TestNormalizeOptionsHeadersWithheldForOtherHost(t *testing.T) {
	client := New(
		WithHost("https://api.example.com"),
		WithHeader("Authorization", "secret"),
	)

	desc, err := client.normalizeOptions("https://other.com/resource", &RequestOptions{})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if got := desc.Header.Get("Authorization"); got != "" {
		t.Errorf("Expected Authorization withheld for other host, got %q", got)
	}
}

func TestNormalizeOptionsHeadersSentForSameHost(t *testing.T) {
	client := New(
		WithHost("https://api.example.com"),
		WithHeader("Authorization", "secret"),
	)

	desc, err := client.normalizeOptions("https://api.example.com/users", &RequestOptions{})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if got := desc.Header.Get("Authorization"); got != "secret" {
		t.Errorf("Expected Authorization sent for same host, got %q", got)
	}
}

func TestNormalizeOptionsContentTypeOverride(t *testing.T) {
	client := New()

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Headers:     map[string]string{"Content-Type": "text/plain"},
		ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if got := desc.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected override to win, got %q", got)
	}
}

func TestNormalizeOptionsJSONBody(t *testing.T) {
	client := New()

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Method:      "POST",
		ContentType: "application/json",
		Body:        map[string]any{"name": "ana"},
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	data, err := io.ReadAll(desc.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Body is not valid JSON: %v", err)
	}
	if decoded["name"] != "ana" {
		t.Errorf("Expected encoded body, got %s", data)
	}
}

func TestNormalizeOptionsVndAPIJSONBody(t *testing.T) {
	client := New()

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Method:      "POST",
		ContentType: "Application/VND.API+JSON",
		Body:        map[string]any{"id": 1},
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if desc.Body == nil {
		t.Fatal("Expected an encoded body for vnd.api+json")
	}
}

func TestNormalizeOptionsGetBodyFoldsIntoQuery(t *testing.T) {
	client := New(WithHost("https://api.x.com"), WithNamespace("v1"))

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Method: "GET",
		Body:   map[string]any{"filter": map[string]any{"active": true}},
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	want := "https://api.x.com/v1/users?filter%5Bactive%5D=true"
	if desc.URL != want {
		t.Errorf("Expected URL %q, got %q", want, desc.URL)
	}
	if desc.Body != nil {
		t.Error("Expected body to be dropped for GET")
	}
}

func TestNormalizeOptionsRawBodyPassthrough(t *testing.T) {
	client := New()

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Method:      "POST",
		ContentType: "application/x-www-form-urlencoded",
		Body:        "a=1&b=2",
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	data, _ := io.ReadAll(desc.Body)
	if string(data) != "a=1&b=2" {
		t.Errorf("Expected raw body passthrough, got %q", data)
	}
}

func TestNormalizeOptionsScalarBodyNotJSONEncoded(t *testing.T) {
	client := New()

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Method:      "POST",
		ContentType: "application/json",
		Body:        `{"already":"encoded"}`,
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	data, _ := io.ReadAll(desc.Body)
	if string(data) != `{"already":"encoded"}` {
		t.Errorf("Expected pre-encoded string untouched, got %q", data)
	}
}

func TestNormalizeOptionsQueryAppended(t *testing.T) {
	client := New(WithHost("https://api.example.com"))

	desc, err := client.normalizeOptions("users?page=2", &RequestOptions{
		Query: map[string]any{"sort": "name"},
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if !strings.Contains(desc.URL, "page=2&sort=name") {
		t.Errorf("Expected query appended with '&', got %q", desc.URL)
	}
}

func TestNormalizeOptionsPerCallHostOverride(t *testing.T) {
	client := New(WithHost("https://api.example.com"), WithNamespace("v1"))

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Host:      "https://staging.example.com",
		Namespace: "v2",
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	want := "https://staging.example.com/v2/users"
	if desc.URL != want {
		t.Errorf("Expected URL %q, got %q", want, desc.URL)
	}
}

func TestNormalizeOptionsDefaultContentType(t *testing.T) {
	client := New(WithContentType("application/json"))

	desc, err := client.normalizeOptions("users", &RequestOptions{
		Method: "POST",
		Body:   map[string]any{"a": 1},
	})
	if err != nil {
		t.Fatalf("normalizeOptions() returned error: %v", err)
	}

	if got := desc.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected client default content type, got %q", got)
	}
	if desc.Body == nil {
		t.Error("Expected JSON-encoded body under the default content type")
	}
}

func TestIsJSONContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"APPLICATION/JSON", true},
		{"application/json; charset=utf-8", true},
		{"application/vnd.api+json", true},
		{"text/plain", false},
		{"application/xml", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isJSONContentType(tt.contentType); got != tt.want {
			t.Errorf("isJSONContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
