package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourbook/config"
	otelMocks "tourbook/infras/otel/mocks"
	cacheMocks "tourbook/shared/cache/mocks"
	"tourbook/shared/constant"
	"tourbook/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newApp(t *testing.T, mutate func(cfg *config.Config)) middleware.AppMiddleware {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.MaxBodyBytes = 64
	cfg.App.URL = "https://tourbook.example"
	cfg.App.CORS.AllowedOrigins = []string{"https://admin.tourbook.example/", "*"}

	if mutate != nil {
		mutate(cfg)
	}

	return middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cacheMocks.NewMockRedisCache(gomock.NewController(t)))
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestAppMiddleware_SecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		wantHSTS bool
	}{
		{name: "development", env: "development", wantHSTS: false},
		{name: "production", env: "production", wantHSTS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(t, func(cfg *config.Config) { cfg.Server.Env = tt.env })

			rec := httptest.NewRecorder()
			app.SecurityHeaders(http.HandlerFunc(noContent)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, tt.wantHSTS, rec.Header().Get("Strict-Transport-Security") != "")
		})
	}
}

func TestAppMiddleware_RequestGuard(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		wantCode    int
	}{
		{name: "json body", method: http.MethodPost, body: `{"a":1}`, contentType: constant.ContentTypeJSON, wantCode: http.StatusNoContent},
		{name: "xml body", method: http.MethodPost, body: `<a/>`, contentType: "application/xml", wantCode: http.StatusUnsupportedMediaType},
		{name: "body over the limit", method: http.MethodPut, body: strings.Repeat("x", 65), contentType: constant.ContentTypeJSON, wantCode: http.StatusRequestEntityTooLarge},
		{name: "reads are not inspected", method: http.MethodGet, contentType: "application/xml", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(t, nil)

			req := httptest.NewRequest(tt.method, "/api/tours", strings.NewReader(tt.body))
			req.Header.Set(constant.RequestHeaderContentType, tt.contentType)

			rec := httptest.NewRecorder()
			app.RequestGuard(http.HandlerFunc(noContent)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAppMiddleware_CSRF(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		source   string
		origin   string
		referer  string
		wantCode int
	}{
		{name: "cookie post from app origin", method: http.MethodPost, source: constant.AuthSourceCookie, origin: "https://tourbook.example", wantCode: http.StatusNoContent},
		{name: "cookie post from cors origin", method: http.MethodPost, source: constant.AuthSourceCookie, origin: "https://admin.tourbook.example", wantCode: http.StatusNoContent},
		{name: "cookie post via referer", method: http.MethodDelete, source: constant.AuthSourceCookie, referer: "https://tourbook.example/bookings/1", wantCode: http.StatusNoContent},
		{name: "cookie post from foreign origin", method: http.MethodPost, source: constant.AuthSourceCookie, origin: "https://evil.example", wantCode: http.StatusForbidden},
		{name: "cookie post without origin", method: http.MethodPut, source: constant.AuthSourceCookie, wantCode: http.StatusForbidden},
		{name: "bearer post is not checked", method: http.MethodPost, source: constant.AuthSourceHeader, origin: "https://evil.example", wantCode: http.StatusNoContent},
		{name: "cookie read is not checked", method: http.MethodGet, source: constant.AuthSourceCookie, origin: "https://evil.example", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(t, nil)

			req := httptest.NewRequest(tt.method, "/api/bookings", nil)
			req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyAuthSource, tt.source))

			if tt.origin != "" {
				req.Header.Set(constant.RequestHeaderOrigin, tt.origin)
			}

			if tt.referer != "" {
				req.Header.Set(constant.RequestHeaderReferer, tt.referer)
			}

			rec := httptest.NewRecorder()
			app.CSRF(http.HandlerFunc(noContent)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
