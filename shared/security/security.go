package security

import (
	"net"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"tourbook/shared/constant"
)

var (
	sqlInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|UNION|SCRIPT)\b`),
		regexp.MustCompile(`(?i)\b(OR|AND)\s+\d+\s*=\s*\d+`),
		regexp.MustCompile(`(--|/\*|\*/|;)`),
		regexp.MustCompile(`(?i)\b(UNION|SELECT)\b.*\b(FROM|WHERE)\b`),
	}

	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script\b`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
		regexp.MustCompile(`(?i)<iframe\b`),
		regexp.MustCompile(`(?i)<object\b`),
	}

	sanitizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script\b.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
	}
)

// AllowedContentTypes are the bodies accepted on mutating requests.
var AllowedContentTypes = []string{
	constant.ContentTypeJSON,
	constant.ContentTypeMultipartFormData,
	constant.ContentTypeTextPlain,
}

// DetectSQLInjection reports whether input looks like an SQL injection attempt.
func DetectSQLInjection(input string) bool {
	return matchAny(sqlInjectionPatterns, input)
}

// DetectXSS reports whether input carries script-capable markup.
func DetectXSS(input string) bool {
	return matchAny(xssPatterns, input)
}

// IsSafeText is the inverse of DetectXSS after trimming.
func IsSafeText(input string) bool {
	return !DetectXSS(strings.TrimSpace(input))
}

// IsSafeSearch rejects search terms that look like SQL injection or XSS.
func IsSafeSearch(input string) bool {
	input = strings.TrimSpace(input)

	return !DetectSQLInjection(input) && !DetectXSS(input)
}

// SanitizeInput strips script blocks, javascript: URLs and inline handlers.
func SanitizeInput(input string) string {
	out := strings.TrimSpace(input)
	for _, pattern := range sanitizePatterns {
		out = pattern.ReplaceAllString(out, "")
	}

	return out
}

func matchAny(patterns []*regexp.Regexp, input string) bool {
	if input == "" {
		return false
	}

	for _, pattern := range patterns {
		if pattern.MatchString(input) {
			return true
		}
	}

	return false
}

// ClientIP resolves the caller address from proxy headers, falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constant.RequestHeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	for _, header := range []string{constant.RequestHeaderRealIP, constant.RequestHeaderClientIP} {
		if ip := strings.TrimSpace(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}

		return r.RemoteAddr
	}

	return host
}

// ValidContentType reports whether the request may carry its body.
// GET, HEAD and OPTIONS never need a content type.
func ValidContentType(r *http.Request, allowed ...string) bool {
	contentType := r.Header.Get(constant.RequestHeaderContentType)
	if contentType == "" {
		return r.Method == http.MethodGet || r.Method == http.MethodHead ||
			r.Method == http.MethodOptions || r.ContentLength == 0
	}

	if len(allowed) == 0 {
		allowed = AllowedContentTypes
	}

	return slices.ContainsFunc(allowed, func(t string) bool {
		return strings.Contains(strings.ToLower(contentType), t)
	})
}

// ValidRequestSize checks the declared Content-Length against maxBytes.
func ValidRequestSize(r *http.Request, maxBytes int64) bool {
	if r.ContentLength > 0 {
		return r.ContentLength <= maxBytes
	}

	declared := r.Header.Get("Content-Length")
	if declared == "" {
		return true
	}

	size, err := strconv.ParseInt(declared, 10, 64)
	if err != nil {
		return true
	}

	return size <= maxBytes
}

// SameOrigin reports whether the request's Origin, or Referer when Origin is
// absent, names one of the allowed origins.
func SameOrigin(r *http.Request, allowed []string) bool {
	if origin := r.Header.Get(constant.RequestHeaderOrigin); origin != "" {
		return slices.Contains(allowed, strings.TrimRight(origin, "/"))
	}

	referer := r.Header.Get(constant.RequestHeaderReferer)
	if referer == "" {
		return false
	}

	parsed, err := url.Parse(referer)
	if err != nil || parsed.Host == "" {
		return false
	}

	return slices.Contains(allowed, parsed.Scheme+"://"+parsed.Host)
}
