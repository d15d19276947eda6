package middleware

import (
	"net/http"
	"slices"
)

// PageCSP allows the inline boundary swap script streamed pages rely on.
const PageCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'"

// PageHeaders builds the header set once and stamps it on every response
// before the handler runs, so streamed pages carry it with their first flush.
// HSTS is only sent over HTTPS; an empty csp sends no policy.
func PageHeaders(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	fixed := http.Header{}
	fixed.Set("X-Frame-Options", "DENY")
	fixed.Set("X-Content-Type-Options", "nosniff")
	fixed.Set("Referrer-Policy", "same-origin")
	if csp != "" {
		fixed.Set("Content-Security-Policy", csp)
	}
	if isHTTPS {
		fixed.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, values := range fixed {
				h[name] = slices.Clone(values)
			}
			next.ServeHTTP(w, r)
		})
	}
}
