package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Team-NaBang/Bang-Backend/pkg/config"
)

func testConfig(limits config.RateLimits) *config.Config {
	return &config.Config{
		AppEnv:             "test",
		AuthenticationCode: testCode,
		ClientDomain:       "https://blog.example.com",
		SessionTTL:         time.Hour,
		Location:           time.UTC,
		RateLimits:         limits,
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{name: "Peer Address", remoteAddr: "10.0.0.7:52311", want: "10.0.0.7"},
		{name: "Forwarded Single", forwarded: "203.0.113.9", remoteAddr: "10.0.0.7:1", want: "203.0.113.9"},
		{name: "Forwarded Chain", forwarded: " 203.0.113.9 , 70.41.3.18, 150.172.238.178", remoteAddr: "10.0.0.7:1", want: "203.0.113.9"},
		{name: "Forwarded Empty Entry", forwarded: " ,70.41.3.18", remoteAddr: "10.0.0.7:1", want: "10.0.0.7"},
		{name: "IPv6 Peer", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "No Port", remoteAddr: "10.0.0.7", want: "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimitMiddleware(t *testing.T) {
	limits := config.DefaultRateLimits()
	limits.Routes[config.RouteDeletePost] = config.Limit{Limit: 2, Window: time.Minute}
	mw := NewMiddleware(testConfig(limits), zap.NewNop(), nil)
	handler := mw.Limit(config.RouteDeletePost, okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/api/v1/posts/x", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rr := httptest.NewRecorder()
		handler(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send("198.51.100.1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, rr.Code)
		}
	}

	rr := send("198.51.100.1")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d, want 429", rr.Code)
	}
	if ra := rr.Header().Get("Retry-After"); ra == "" || ra == "0" {
		t.Errorf("Retry-After = %q", ra)
	}
	var body errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil || body.Detail == "" {
		t.Errorf("bad error body: %v %+v", err, body)
	}

	if rr := send("198.51.100.2"); rr.Code != http.StatusOK {
		t.Errorf("other client limited: got %d", rr.Code)
	}
}

func TestLimitMiddlewarePanicsOnUnknownRoute(t *testing.T) {
	mw := NewMiddleware(testConfig(config.DefaultRateLimits()), zap.NewNop(), nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unconfigured route")
		}
	}()
	mw.Limit("no_such_route", okHandler)
}

func TestGlobalLikeMiddleware(t *testing.T) {
	limits := config.DefaultRateLimits()
	limits.GlobalLike = config.Limit{Limit: 3, Window: time.Hour}
	mw := NewMiddleware(testConfig(limits), zap.NewNop(), nil)
	handler := mw.Limit(config.RouteAddLike, mw.GlobalLike(okHandler))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/v1/posts/x/likes", nil)
		req.RemoteAddr = "192.0.2." + string(rune('1'+i)) + ":1000"
		rr := httptest.NewRecorder()
		handler(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("like %d: got %d", i+1, rr.Code)
		}
	}

	req := httptest.NewRequest("POST", "/api/v1/posts/x/likes", nil)
	req.RemoteAddr = "192.0.2.99:1000"
	rr := httptest.NewRecorder()
	handler(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("fourth like from a fresh client: got %d, want 429", rr.Code)
	}
	if ra := rr.Header().Get("Retry-After"); ra != "3600" {
		t.Errorf("Retry-After = %q, want 3600", ra)
	}
}

func TestCORS(t *testing.T) {
	mw := NewMiddleware(testConfig(config.DefaultRateLimits()), zap.NewNop(), nil)
	handler := mw.CORS(http.HandlerFunc(okHandler))

	tests := []struct {
		name           string
		method         string
		origin         string
		preflight      bool
		expectedStatus int
		expectedOrigin string
	}{
		{name: "Allowed Origin", method: "GET", origin: "https://blog.example.com", expectedStatus: http.StatusOK, expectedOrigin: "https://blog.example.com"},
		{name: "Foreign Origin", method: "GET", origin: "https://evil.example.com", expectedStatus: http.StatusOK},
		{name: "No Origin", method: "GET", expectedStatus: http.StatusOK},
		{name: "Preflight", method: "OPTIONS", origin: "https://blog.example.com", preflight: true, expectedStatus: http.StatusNoContent, expectedOrigin: "https://blog.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/posts", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "PATCH")
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.expectedOrigin)
			}
			if tt.expectedOrigin != "" && !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "authentication-code") {
				t.Error("authentication-code header not allowed")
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	want := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Content-Security-Policy": "default-src 'self'",
	}
	for k, v := range want {
		if got := rr.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestRequestLoggerMasksCredentials(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mw := NewMiddleware(testConfig(config.DefaultRateLimits()), zap.New(core), nil)

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("DELETE", "/api/v1/posts/abc", nil)
	req.Header.Set("authentication-code", "super-secret-code")
	rr := httptest.NewRecorder()
	mw.RequestLogger(mux).ServeHTTP(rr, req)

	reqLogs := logs.FilterMessage("Request: DELETE /api/v1/posts/abc").All()
	if len(reqLogs) != 1 {
		t.Fatalf("expected one request log, got %d", len(reqLogs))
	}
	headers, ok := reqLogs[0].ContextMap()["headers"].(map[string]string)
	if !ok {
		t.Fatalf("headers field has type %T", reqLogs[0].ContextMap()["headers"])
	}
	if got := headers["Authentication-Code"]; got != "****code" {
		t.Errorf("authentication-code logged as %q", got)
	}

	respLogs := logs.FilterMessage("Response: 204").All()
	if len(respLogs) != 1 {
		t.Fatalf("expected one response log, got %d", len(respLogs))
	}
	if route := respLogs[0].ContextMap()["route"]; route != "DELETE /api/v1/posts/{id}" {
		t.Errorf("route = %v", route)
	}
}
