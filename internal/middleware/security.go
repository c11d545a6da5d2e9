package middleware

import "net/http"

// SecurityHeaders adds security-related HTTP headers to all responses.
// Apart from the static API docs page the server only answers JSON, so the
// content policy allows inline styles and WebSocket connections and nothing else.
func SecurityHeaders() func(http.Handler) http.Handler {
	const csp = "default-src 'none'; style-src 'unsafe-inline'; connect-src 'self' wss: ws:; frame-ancestors 'none'"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-XSS-Protection", "0")
			w.Header().Set("Content-Security-Policy", csp)
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

			next.ServeHTTP(w, r)
		})
	}
}
