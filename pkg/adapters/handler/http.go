package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/metrics"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

type PostHandler struct {
	posts    ports.PostService
	listings ports.ListingService
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewPostHandler(posts ports.PostService, listings ports.ListingService, log *zap.Logger, m *metrics.Metrics) *PostHandler {
	return &PostHandler{posts: posts, listings: listings, log: log, metrics: m}
}

// CreatePostRequest payload
type CreatePostRequest struct {
	Title              string          `json:"title"`
	Summary            string          `json:"summary"`
	Content            string          `json:"content"`
	Category           domain.Category `json:"category"`
	Thumbnail          string          `json:"thumbnail"`
	AuthenticationCode string          `json:"authentication_code"`
}

// UpdatePostRequest payload. Absent, null and empty fields are left unchanged.
type UpdatePostRequest struct {
	Title              *string `json:"title"`
	Summary            *string `json:"summary"`
	Content            *string `json:"content"`
	Category           *string `json:"category"`
	Thumbnail          *string `json:"thumbnail"`
	AuthenticationCode string  `json:"authentication_code"`
}

func (req UpdatePostRequest) patch() domain.PostPatch {
	var p domain.PostPatch
	p.Title = present(req.Title)
	p.Summary = present(req.Summary)
	p.Content = present(req.Content)
	p.Thumbnail = present(req.Thumbnail)
	if c := present(req.Category); c != nil {
		cat := domain.Category(*c)
		p.Category = &cat
	}
	return p
}

func present(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// Create Post
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decodeBody(r, createPostSchema, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	draft := domain.PostDraft{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		Category:  req.Category,
		Thumbnail: req.Thumbnail,
	}
	post, err := h.posts.Create(r.Context(), credential(r, req.AuthenticationCode), draft)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info("post created", zap.String("id", post.ID))
	writeJSON(w, http.StatusCreated, post)
}

// Detail returns one post with its full content
func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.posts.GetDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Update applies a partial update
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if err := decodeBody(r, updatePostSchema, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	id := r.PathValue("id")
	post, err := h.posts.Update(r.Context(), credential(r, req.AuthenticationCode), id, req.patch())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info("post updated", zap.String("id", id))
	writeJSON(w, http.StatusOK, post)
}

// Delete takes the authentication code from the header, there is no body.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.posts.Delete(r.Context(), credential(r, ""), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info("post deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.IncrementLike(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.metrics.LikeAdded()
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.listings.GetAll)
}

func (h *PostHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.listings.GetPopular)
}

func (h *PostHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.listings.GetLatest)
}

func (h *PostHandler) writeList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context) ([]domain.PostSummary, error)) {
	posts, err := list(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
