package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestPurpose: Verify per-client rate limiting keys on the transport
// address by default.
// Scope: RateLimiter bucket selection and the 429 rejection path.
// Security: A client must not be able to reset its budget by rotating
// forwarded-for headers; those are only honored behind a trusted proxy.
// Expected: Header rotation from one peer shares one bucket and trips
// the limit; with trust enabled, distinct forwarded IPs get distinct
// buckets.
// Test Case ID: SEC-RL-01

func rateLimitedHandler(rl *RateLimiter) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimitMiddleware(rl)(ok)
}

func TestRateLimiter_HeaderRotationSharesBucket(t *testing.T) {
	rl := NewRateLimiter(1, 2, false)
	handler := rateLimitedHandler(rl)

	forwarded := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	var statuses []int
	for _, ip := range forwarded {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("expected first two requests to pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request from same peer to be limited despite rotated headers, got %d", statuses[2])
	}
}

func TestRateLimiter_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, 1, true)
	handler := rateLimitedHandler(rl)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected forwarded IP %s to get its own bucket, got %d", ip, rec.Code)
		}
	}

	// Same forwarded IP twice exhausts its bucket.
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.RemoteAddr = "203.0.113.8:40000"
		req.Header.Set("X-Forwarded-For", "10.0.0.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("request %d for trusted IP: expected %d, got %d", i, want, rec.Code)
		}
	}
}

func TestRateLimiter_ClientKeyStripsPort(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:1111"
	if got := rl.clientKey(req); got != "198.51.100.4" {
		t.Errorf("expected port stripped from peer address, got %q", got)
	}

	// Different ephemeral ports from one host share a key.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "198.51.100.4:2222"
	if rl.clientKey(req) != rl.clientKey(req2) {
		t.Error("expected the same key regardless of source port")
	}

	// An address without a port is used verbatim.
	req3 := httptest.NewRequest(http.MethodGet, "/", nil)
	req3.RemoteAddr = "198.51.100.5"
	if got := rl.clientKey(req3); got != "198.51.100.5" {
		t.Errorf("expected raw address fallback, got %q", got)
	}
}
