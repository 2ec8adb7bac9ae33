package handler

import (
	"encoding/json"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/config"
	"github.com/Team-NaBang/Bang-Backend/pkg/core/auth"
	"github.com/Team-NaBang/Bang-Backend/pkg/metrics"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

// Dependencies are the collaborators NewRouter wires into handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Posts    ports.PostService
	Listings ports.ListingService
	Visits   ports.VisitService
	// Codes verifies the raw authentication code only.
	Codes    ports.CredentialVerifier
	Sessions *auth.SessionIssuer
}

// NewRouter creates and configures the main application router
func NewRouter(d Dependencies) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Initialize Handlers
	ph := NewPostHandler(d.Posts, d.Listings, log, d.Metrics)
	bh := NewBlogHandler(d.Listings, d.Visits, log, d.Metrics)
	sh := NewSessionHandler(d.Codes, d.Sessions, log, d.Config.IsProduction())

	// Initialize Middleware
	mw := NewMiddleware(d.Config, log, d.Metrics)

	// Setup Router
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&res)
	})
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	// Blog page
	mux.HandleFunc("GET /api/v1/blog", mw.Limit(config.RouteBlogMain, bh.Main))
	mux.HandleFunc("POST /api/v1/visits", mw.Limit(config.RouteBlogMain, bh.RecordVisit))
	mux.HandleFunc("GET /api/v1/visits/stats", mw.Limit(config.RouteBlogMain, bh.Stats))

	// Listings
	mux.HandleFunc("GET /api/v1/posts", mw.Limit(config.RouteBlogMain, ph.ListAll))
	mux.HandleFunc("GET /api/v1/posts/popular", mw.Limit(config.RouteBlogMain, ph.ListPopular))
	mux.HandleFunc("GET /api/v1/posts/latest", mw.Limit(config.RouteBlogMain, ph.ListLatest))

	// Posts
	mux.HandleFunc("POST /api/v1/posts", mw.Limit(config.RouteCreatePost, ph.Create))
	mux.HandleFunc("GET /api/v1/posts/{id}", mw.Limit(config.RouteGetPost, ph.Detail))
	mux.HandleFunc("PATCH /api/v1/posts/{id}", mw.Limit(config.RouteUpdatePost, ph.Update))
	mux.HandleFunc("DELETE /api/v1/posts/{id}", mw.Limit(config.RouteDeletePost, ph.Delete))
	mux.HandleFunc("POST /api/v1/posts/{id}/likes", mw.Limit(config.RouteAddLike, mw.GlobalLike(ph.AddLike)))

	// Admin session
	mux.HandleFunc("POST /api/v1/auth/session", mw.Limit(config.RouteCreateSession, sh.Create))
	mux.HandleFunc("DELETE /api/v1/auth/session", sh.Logout)

	return mw.CORS(SecurityHeaders(mw.RequestLogger(gzhttp.GzipHandler(mux))))
}
