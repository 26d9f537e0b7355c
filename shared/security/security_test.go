package security_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourbook/shared/security"

	"github.com/stretchr/testify/assert"
)

func TestDetectSQLInjection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "plain search", input: "kandy hill country", want: false},
		{name: "empty", input: "", want: false},
		{name: "tautology", input: "x' OR 1=1", want: true},
		{name: "comment marker", input: "admin'--", want: true},
		{name: "statement separator", input: "a; b", want: true},
		{name: "union select", input: "1 UNION SELECT password FROM users", want: true},
		{name: "lower case keyword", input: "drop table tours", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, security.DetectSQLInjection(tt.input))
		})
	}
}

func TestDetectXSS(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "review text", input: "Wonderful guide, saw elephants at Minneriya!", want: false},
		{name: "script tag", input: "<script>alert(1)</script>", want: true},
		{name: "mixed case script", input: "<ScRiPt src=x>", want: true},
		{name: "javascript url", input: "javascript:alert(1)", want: true},
		{name: "event handler", input: `<img src=x onerror="alert(1)">`, want: true},
		{name: "iframe", input: "<iframe src=evil>", want: true},
		{name: "object", input: "<object data=x>", want: true},
		{name: "word starting with on", input: "once upon a time", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, security.DetectXSS(tt.input))
			assert.Equal(t, !tt.want, security.IsSafeText(tt.input))
		})
	}
}

func TestIsSafeSearch(t *testing.T) {
	assert.True(t, security.IsSafeSearch("  whale watching "))
	assert.False(t, security.IsSafeSearch("beach' OR 1=1"))
	assert.False(t, security.IsSafeSearch("<script>"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello world", security.SanitizeInput("  hello <script>alert(1)</script>world "))
	assert.Equal(t, "alert(1)", security.SanitizeInput("javascript:alert(1)"))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded first hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, want: "203.0.113.5"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": " 198.51.100.7 "}, want: "198.51.100.7"},
		{name: "client ip", headers: map[string]string{"X-Client-IP": "192.0.2.44"}, want: "192.0.2.44"},
		{name: "remote addr", remote: "192.0.2.10:53211", want: "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/tours", nil)
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}

			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, security.ClientIP(r))
		})
	}
}

func TestValidContentType(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		want        bool
	}{
		{name: "get without type", method: http.MethodGet, want: true},
		{name: "json post", method: http.MethodPost, contentType: "application/json; charset=utf-8", body: "{}", want: true},
		{name: "multipart", method: http.MethodPost, contentType: "multipart/form-data; boundary=x", body: "--x", want: true},
		{name: "xml rejected", method: http.MethodPut, contentType: "application/xml", body: "<a/>", want: false},
		{name: "body without type", method: http.MethodPost, body: "{}", want: false},
		{name: "empty post without type", method: http.MethodPost, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/api/bookings", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			assert.Equal(t, tt.want, security.ValidContentType(r))
		})
	}
}

func TestValidRequestSize(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/tours", strings.NewReader(strings.Repeat("a", 64)))

	assert.True(t, security.ValidRequestSize(r, 64))
	assert.False(t, security.ValidRequestSize(r, 63))
}

func TestSameOrigin(t *testing.T) {
	allowed := []string{"https://tourbook.lk", "http://localhost:3000"}

	tests := []struct {
		name    string
		origin  string
		referer string
		want    bool
	}{
		{name: "allowed origin", origin: "https://tourbook.lk", want: true},
		{name: "foreign origin", origin: "https://evil.example", want: false},
		{name: "allowed referer", referer: "http://localhost:3000/bookings/new", want: true},
		{name: "foreign referer", referer: "https://evil.example/page", want: false},
		{name: "neither header", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}

			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}

			assert.Equal(t, tt.want, security.SameOrigin(r, allowed))
		})
	}
}
