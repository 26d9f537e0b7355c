package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tourbook/infras/metrics"
	"tourbook/shared"
	"tourbook/shared/constant"
	"tourbook/shared/security"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	backendRedis = "redis"
	backendLocal = "local"

	anyRoute = "*"
)

// LimitRule caps requests per client IP within a sliding window.
type LimitRule struct {
	Limit  int
	Window time.Duration
}

// RuleKey formats the lookup key for a method and chi route pattern.
func RuleKey(method, pattern string) string {
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}

	return method + ":" + pattern
}

// DefaultLimitRules is the route table. Exact routes win over the method wildcard.
func DefaultLimitRules(providerRegistrationMax int) map[string]LimitRule {
	if providerRegistrationMax <= 0 {
		providerRegistrationMax = 1
	}

	return map[string]LimitRule{
		RuleKey(http.MethodPost, "/api/auth/login"):      {Limit: 5, Window: 15 * time.Minute},
		RuleKey(http.MethodPost, "/api/auth/register"):   {Limit: 3, Window: time.Hour},
		RuleKey(http.MethodPost, "/api/bookings"):        {Limit: 5, Window: time.Hour},
		RuleKey(http.MethodPost, "/api/reviews"):         {Limit: 3, Window: time.Hour},
		RuleKey(http.MethodPost, "/api/providers"):       {Limit: providerRegistrationMax, Window: time.Hour},
		RuleKey(http.MethodPost, "/api/payments/intent"): {Limit: 10, Window: 15 * time.Minute},
		RuleKey(http.MethodGet, anyRoute):                {Limit: 100, Window: 15 * time.Minute},
		RuleKey(http.MethodPost, anyRoute):               {Limit: 30, Window: 15 * time.Minute},
		RuleKey(http.MethodPut, anyRoute):                {Limit: 20, Window: 15 * time.Minute},
		RuleKey(http.MethodDelete, anyRoute):             {Limit: 10, Window: 15 * time.Minute},
	}
}

// matchRule resolves the rule for a request, trying the route pattern first.
func matchRule(rules map[string]LimitRule, method, pattern string) (string, LimitRule, bool) {
	if pattern != "" {
		key := RuleKey(method, pattern)
		if rule, ok := rules[key]; ok {
			return key, rule, true
		}
	}

	key := RuleKey(method, anyRoute)
	rule, ok := rules[key]

	return key, rule, ok
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path); pattern != "" {
		return pattern
	}

	return r.URL.Path
}

func writeLimitHeaders(w http.ResponseWriter, rule LimitRule, remaining int) {
	w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(rule.Limit))
	w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, remaining)))
	w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(int(rule.Window.Seconds())))
}

// localLimiters builds one in-process limiter per rule, used while Redis is unreachable.
func localLimiters(rules map[string]LimitRule, next http.Handler) map[string]http.Handler {
	handlers := make(map[string]http.Handler, len(rules))

	for key, rule := range rules {
		handlers[key] = httprate.Limit(
			rule.Limit,
			rule.Window,
			httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
				return security.ClientIP(r), nil
			}),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				metrics.RecordRateLimitRejection(key, backendLocal)
				writeLimitHeaders(w, rule, 0)
				response.WithRequestLimitExceeded(w)
			}),
		)(next)
	}

	return handlers
}

// RateLimit applies the per-IP, per-route sliding window held in Redis.
func (a *appMiddleware) RateLimit(next http.Handler) http.Handler {
	if !a.config.App.RateLimiter.Enable {
		return next
	}

	fallback := localLimiters(a.rules, next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, rule, ok := matchRule(a.rules, r.Method, routePattern(r))
		if !ok {
			next.ServeHTTP(w, r)

			return
		}

		clientIP := security.ClientIP(r)
		cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, key, clientIP)

		allowed, count, err := a.cache.SlidingWindow(r.Context(), cacheKey, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("rule", key).Msg("rate limiter falling back to local window")
			fallback[key].ServeHTTP(w, r)

			return
		}

		writeLimitHeaders(w, rule, rule.Limit-count)

		if !allowed {
			metrics.RecordRateLimitRejection(key, backendRedis)
			log.Warn().Str("rule", key).Str("ip", clientIP).Msg("rate limit exceeded")
			response.WithRequestLimitExceeded(w)

			return
		}

		next.ServeHTTP(w, r)
	})
}
