package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/metrics"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

// BlogHandler serves the landing page aggregate and visitor analytics.
type BlogHandler struct {
	listings ports.ListingService
	visits   ports.VisitService
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewBlogHandler(listings ports.ListingService, visits ports.VisitService, log *zap.Logger, m *metrics.Metrics) *BlogHandler {
	return &BlogHandler{listings: listings, visits: visits, log: log, metrics: m}
}

// BlogMainResponse is everything the landing page renders.
type BlogMainResponse struct {
	AllPosts     []domain.PostSummary  `json:"all_posts"`
	PopularPosts []domain.PostSummary  `json:"popular_posts"`
	LatestPosts  []domain.PostSummary  `json:"latest_posts"`
	VisitorStats []domain.VisitorStats `json:"visitor_stats"`
}

// Main records the caller's visit, then returns the listings and stats.
func (h *BlogHandler) Main(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.visits.RecordVisit(ctx, ClientIP(r)); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.metrics.VisitRecorded()

	var (
		resp BlogMainResponse
		err  error
	)
	if resp.AllPosts, err = h.listings.GetAll(ctx); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if resp.PopularPosts, err = h.listings.GetPopular(ctx); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if resp.LatestPosts, err = h.listings.GetLatest(ctx); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	stats, err := h.visits.GetStats(ctx)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	resp.VisitorStats = []domain.VisitorStats{*stats}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BlogHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	if err := h.visits.RecordVisit(r.Context(), ClientIP(r)); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.metrics.VisitRecorded()
	w.WriteHeader(http.StatusNoContent)
}

func (h *BlogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.visits.GetStats(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
