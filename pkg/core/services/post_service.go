package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

// PostService owns every mutation of a post record.
type PostService struct {
	repo     ports.PostRepository
	verifier ports.CredentialVerifier
	loc      *time.Location
	now      func() time.Time
	newID    func() string
}

// NewPostService dates post details in loc.
func NewPostService(repo ports.PostRepository, verifier ports.CredentialVerifier, loc *time.Location) *PostService {
	return &PostService{
		repo:     repo,
		verifier: verifier,
		loc:      loc,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *PostService) Create(ctx context.Context, credential string, draft domain.PostDraft) (*domain.Post, error) {
	if !s.verifier.Verify(credential) {
		return nil, domain.ErrUnauthorized
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	post := &domain.Post{
		ID:        s.newID(),
		Title:     draft.Title,
		Summary:   draft.Summary,
		Content:   draft.Content,
		Category:  draft.Category,
		Thumbnail: draft.Thumbnail,
		CreatedAt: s.now().UTC(),
		Likes:     0,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Update replaces only the fields present in patch.
func (s *PostService) Update(ctx context.Context, credential, id string, patch domain.PostPatch) (*domain.Post, error) {
	if !s.verifier.Verify(credential) {
		return nil, domain.ErrUnauthorized
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if patch.Empty() {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *PostService) Delete(ctx context.Context, credential, id string) error {
	if !s.verifier.Verify(credential) {
		return domain.ErrUnauthorized
	}
	return s.repo.Delete(ctx, id)
}

// IncrementLike is the only public write; it needs no credential.
func (s *PostService) IncrementLike(ctx context.Context, id string) error {
	return s.repo.IncrementLikes(ctx, id)
}

func (s *PostService) GetDetail(ctx context.Context, id string) (*domain.PostDetail, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := post.Detail(s.loc)
	return &detail, nil
}

var _ ports.PostService = (*PostService)(nil)
