package handler

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/config"
	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/logger"
	"github.com/Team-NaBang/Bang-Backend/pkg/metrics"
	"github.com/Team-NaBang/Bang-Backend/pkg/ratelimit"
)

const authCodeHeader = "authentication-code"

type Middleware struct {
	log          *zap.Logger
	metrics      *metrics.Metrics
	clientDomain string
	limiters     map[string]*ratelimit.WindowLimiter
	globalLike   *ratelimit.SlidingLog
}

func NewMiddleware(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *Middleware {
	limiters := make(map[string]*ratelimit.WindowLimiter, len(cfg.RateLimits.Routes))
	for route, l := range cfg.RateLimits.Routes {
		limiters[route] = ratelimit.NewWindowLimiter(l.Limit, l.Window)
	}
	global := cfg.RateLimits.GlobalLike
	return &Middleware{
		log:          log,
		metrics:      m,
		clientDomain: cfg.ClientDomain,
		limiters:     limiters,
		globalLike:   ratelimit.NewSlidingLog(global.Limit, global.Window),
	}
}

// Limit applies the per-client budget of route. Routes sharing a key share
// the budget.
func (m *Middleware) Limit(route string, next http.HandlerFunc) http.HandlerFunc {
	limiter, ok := m.limiters[route]
	if !ok {
		panic(fmt.Sprintf("handler: no rate limit configured for %q", route))
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if d := limiter.Allow(ClientIP(r)); !d.Allowed {
			m.reject(w, r, metrics.LimiterRoute, route, d)
			return
		}
		next(w, r)
	}
}

// GlobalLike applies the like budget shared by every client.
func (m *Middleware) GlobalLike(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d := m.globalLike.Allow(); !d.Allowed {
			m.reject(w, r, metrics.LimiterGlobalLike, config.RouteAddLike, d)
			return
		}
		next(w, r)
	}
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, limiter, route string, d ratelimit.Decision) {
	m.metrics.RateLimited(limiter, route)
	m.log.Warn("rate limited",
		zap.String("limiter", limiter),
		zap.String("route", route),
		zap.String("client", ClientIP(r)),
		zap.Duration("retry_after", d.RetryAfter),
	)
	w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(d.RetryAfter)))
	writeError(w, r, m.log, domain.ErrRateLimited)
}

func retrySeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// CORS admits the configured client origin and answers preflight requests.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && origin == m.clientDomain {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE")
			h.Set("Access-Control-Allow-Headers", "Content-Type, authentication-code, X-Forwarded-For")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs every request and response and records request metrics.
// The route label is the matched mux pattern.
func (m *Middleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.log.Info(fmt.Sprintf("Request: %s %s", r.Method, r.URL.String()),
			zap.String("client", ClientIP(r)),
			zap.Any("headers", logger.MaskHeaders(r.Header)),
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.metrics.ObserveRequest(route, rec.status, elapsed)
		m.log.Info(fmt.Sprintf("Response: %d", rec.status),
			zap.String("route", route),
			zap.Duration("elapsed", elapsed),
		)
	})
}

// ClientIP is the first X-Forwarded-For entry, else the peer address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// credential resolves the caller's credential: body field, then the
// authentication-code header, then the session cookie.
func credential(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if h := r.Header.Get(authCodeHeader); h != "" {
		return h
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}
