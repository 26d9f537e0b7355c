package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tourbook/config"
	"tourbook/infras/metrics"
	"tourbook/infras/otel"
	"tourbook/shared/cache"
	"tourbook/shared/constant"
	"tourbook/shared/failure"
	"tourbook/shared/security"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	otelHTTPScopeName = "http"

	hstsValue = "max-age=31536000; includeSubDomains"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	Metrics(next http.Handler) http.Handler
	SecurityHeaders(next http.Handler) http.Handler
	RequestGuard(next http.Handler) http.Handler
	CSRF(next http.Handler) http.Handler
	RateLimit(next http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
	rules  map[string]LimitRule
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
		rules:  DefaultLimitRules(config.App.RateLimiter.ProviderRegistrationMax),
	}
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.method":     r.Method,
			"http.user_agent": r.UserAgent(),
			"http.host":       r.Host,
			"http.source":     security.ClientIP(r),
		})

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		scope.SetAttributes(map[string]any{
			"http.route":       routePattern(r),
			"http.status_code": ww.Status(),
		})
	})
}

// Metrics records request counts and latency by route pattern, keeping label cardinality bounded.
func (a *appMiddleware) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.RecordHTTPRequest(r.Method, routePattern(r), status, time.Since(start))
	})
}

func (a *appMiddleware) SecurityHeaders(next http.Handler) http.Handler {
	production := a.config.IsProduction()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-XSS-Protection", "1; mode=block")
		header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		header.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		if production {
			header.Set("Strict-Transport-Security", hstsValue)
		}

		next.ServeHTTP(w, r)
	})
}

// RequestGuard rejects unsupported bodies with 415 and oversized ones with 413.
func (a *appMiddleware) RequestGuard(next http.Handler) http.Handler {
	maxBytes := a.config.App.MaxBodyBytes

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mutating(r.Method) {
			next.ServeHTTP(w, r)

			return
		}

		if !security.ValidContentType(r) {
			response.WithError(w, failure.UnsupportedMediaType("Unsupported content type"))

			return
		}

		if maxBytes > 0 {
			if !security.ValidRequestSize(r, maxBytes) {
				response.WithError(w, failure.PayloadTooLarge("Request body too large"))

				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		next.ServeHTTP(w, r)
	})
}

// CSRF requires a trusted Origin or Referer on mutating requests authenticated
// by the session cookie. Header and API key callers are not affected.
func (a *appMiddleware) CSRF(next http.Handler) http.Handler {
	allowed := trustedOrigins(a.config)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source, _ := r.Context().Value(constant.ContextKeyAuthSource).(string)

		if !mutating(r.Method) || source != constant.AuthSourceCookie {
			next.ServeHTTP(w, r)

			return
		}

		if !security.SameOrigin(r, allowed) {
			response.WithError(w, failure.Forbidden("Cross-site request rejected"))

			return
		}

		next.ServeHTTP(w, r)
	})
}

func trustedOrigins(cfg *config.Config) []string {
	origins := make([]string, 0, len(cfg.App.CORS.AllowedOrigins)+1)

	if cfg.App.URL != "" {
		origins = append(origins, strings.TrimRight(cfg.App.URL, "/"))
	}

	for _, origin := range cfg.App.CORS.AllowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" && origin != "*" {
			origins = append(origins, origin)
		}
	}

	return origins
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
