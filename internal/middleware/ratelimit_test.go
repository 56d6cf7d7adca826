package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPForRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header wins",
			remoteAddr: "10.0.0.1:80",
			forwarded:  "198.51.100.23",
			want:       "198.51.100.23",
		},
		{
			name:       "forwarded header first valid entry",
			remoteAddr: "10.0.0.1:80",
			forwarded:  "garbage, 198.51.100.23, 10.0.0.2",
			want:       "198.51.100.23",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := clientIPForRateLimit(req); got != tc.want {
				t.Fatalf("clientIPForRateLimit() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/score", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := do("203.0.113.7:1000"); got != http.StatusOK {
		t.Fatalf("first request = %d, want 200", got)
	}
	if got := do("203.0.113.7:1001"); got != http.StatusOK {
		t.Fatalf("second request = %d, want 200", got)
	}
	if got := do("203.0.113.7:1002"); got != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", got)
	}
	// A different client keeps its own bucket.
	if got := do("198.51.100.23:1000"); got != http.StatusOK {
		t.Fatalf("other client = %d, want 200", got)
	}
}
