package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAllowWindow(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	cfg := RateLimitConfig{MaxRequests: 2, Window: time.Minute}

	for i, want := range []int{1, 0} {
		allowed, remaining, _ := rl.Allow("ip", cfg)
		if !allowed || remaining != want {
			t.Fatalf("request %d: allowed %v remaining %d", i, allowed, remaining)
		}
	}
	if allowed, _, _ := rl.Allow("ip", cfg); allowed {
		t.Fatalf("third request in the window must be rejected")
	}
	if allowed, _, _ := rl.Allow("other", cfg); !allowed {
		t.Fatalf("keys must be limited independently")
	}

	now = now.Add(time.Minute + time.Second)
	if allowed, _, _ := rl.Allow("ip", cfg); !allowed {
		t.Fatalf("a new window must allow requests again")
	}
}

func TestIPRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	h := rl.IPRateLimitMiddleware(MoveLimit(1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/ai/move", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	if first.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", first.Code)
	}
	if first.Header().Get("X-RateLimit-Limit") != "1" || first.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected rate limit headers %v", first.Header())
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected a Retry-After header")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1", "203.0.113.5"},
		{"forwarded with port", map[string]string{"X-Forwarded-For": "203.0.113.6:8080"}, "10.0.0.2:1", "203.0.113.6"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.2:1", "198.51.100.7"},
		{"bad forwarded falls back", map[string]string{"X-Forwarded-For": "nonsense"}, "192.0.2.9:1", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRequestLoggerAssignsID(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected a uuid request id, got %q", seen)
	}
	if w.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("response header does not carry the request id")
	}
	if w.Code != http.StatusAccepted {
		t.Fatalf("status not passed through: %d", w.Code)
	}

	supplied := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set(RequestIDHeader, supplied)
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != supplied {
		t.Fatalf("expected the client id %s to be reused, got %s", supplied, seen)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, name := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy"} {
		if w.Header().Get(name) == "" {
			t.Fatalf("missing %s", name)
		}
	}
}
