package services

import (
	"context"
	"time"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

// TopN is the size of the popular and latest listings.
const TopN = 3

// ListingService dates its entries in loc, the zone visits are counted in.
type ListingService struct {
	repo ports.PostRepository
	loc  *time.Location
}

func NewListingService(repo ports.PostRepository, loc *time.Location) *ListingService {
	return &ListingService{repo: repo, loc: loc}
}

// GetAll returns every post, newest first, with its summary text.
func (s *ListingService) GetAll(ctx context.Context) ([]domain.PostSummary, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(posts, true), nil
}

// GetPopular returns the TopN most liked posts. Ties go to the newer post.
func (s *ListingService) GetPopular(ctx context.Context) ([]domain.PostSummary, error) {
	posts, err := s.repo.ListPopular(ctx, TopN)
	if err != nil {
		return nil, err
	}
	return s.summarize(posts, false), nil
}

func (s *ListingService) GetLatest(ctx context.Context) ([]domain.PostSummary, error) {
	posts, err := s.repo.ListLatest(ctx, TopN)
	if err != nil {
		return nil, err
	}
	return s.summarize(posts, false), nil
}

func (s *ListingService) summarize(posts []domain.Post, withAbstract bool) []domain.PostSummary {
	out := make([]domain.PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Summarize(s.loc, withAbstract))
	}
	return out
}

var _ ports.ListingService = (*ListingService)(nil)
