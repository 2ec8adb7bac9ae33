package ports

import (
	"context"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
)

// PostRepository defines storage operations for posts. Missing rows are
// reported as domain.ErrNotFound, storage failures as *domain.PersistenceError.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	// Update applies the fields present in patch and returns the stored post.
	Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error

	// Listings
	ListAll(ctx context.Context) ([]domain.Post, error)
	ListPopular(ctx context.Context, limit int) ([]domain.Post, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Post, error)

	// Restore inserts a post as-is, keeping its id, timestamp and likes. For migration.
	Restore(ctx context.Context, post *domain.Post) error
}

// VisitRepository defines storage operations for the visit log
type VisitRepository interface {
	RecordVisit(ctx context.Context, visit *domain.VisitLog) error
	CountDistinctVisitorsOn(ctx context.Context, date string) (int64, error)
	CountDistinctVisitors(ctx context.Context) (int64, error)
}

// PostService defines the post mutation operations. credential is the
// authentication code or a session token.
type PostService interface {
	Create(ctx context.Context, credential string, draft domain.PostDraft) (*domain.Post, error)
	Update(ctx context.Context, credential, id string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, credential, id string) error
	IncrementLike(ctx context.Context, id string) error
	GetDetail(ctx context.Context, id string) (*domain.PostDetail, error)
}

// ListingService defines the read projections
type ListingService interface {
	GetAll(ctx context.Context) ([]domain.PostSummary, error)
	GetPopular(ctx context.Context) ([]domain.PostSummary, error)
	GetLatest(ctx context.Context) ([]domain.PostSummary, error)
}

// VisitService defines visitor tracking
type VisitService interface {
	RecordVisit(ctx context.Context, ip string) error
	GetStats(ctx context.Context) (*domain.VisitorStats, error)
}

// CredentialVerifier checks an authentication credential.
type CredentialVerifier interface {
	Verify(credential string) bool
}
