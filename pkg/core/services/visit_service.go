package services

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

// VisitService tracks distinct visitors per calendar day. "Today" is
// evaluated in loc.
type VisitService struct {
	repo ports.VisitRepository
	loc  *time.Location
	now  func() time.Time
}

func NewVisitService(repo ports.VisitRepository, loc *time.Location) *VisitService {
	if loc == nil {
		loc = time.UTC
	}
	return &VisitService{repo: repo, loc: loc, now: time.Now}
}

// RecordVisit appends a visit for ip on the current date.
func (s *VisitService) RecordVisit(ctx context.Context, ip string) error {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return domain.NewValidationError("visitor_ip", "is not a valid IP address")
	}

	now := s.now()
	visit := &domain.VisitLog{
		ID:        uuid.NewString(),
		VisitorIP: parsed.String(),
		VisitDate: s.today(now),
		CreatedAt: now.UTC(),
	}
	return s.repo.RecordVisit(ctx, visit)
}

func (s *VisitService) GetStats(ctx context.Context) (*domain.VisitorStats, error) {
	today, err := s.repo.CountDistinctVisitorsOn(ctx, s.today(s.now()))
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountDistinctVisitors(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.VisitorStats{TodayVisitors: today, TotalVisitors: total}, nil
}

func (s *VisitService) today(now time.Time) string {
	return now.In(s.loc).Format(domain.DateLayout)
}

var _ ports.VisitService = (*VisitService)(nil)
