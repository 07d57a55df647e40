package service

import (
	"context"
	"time"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type summaryStore interface {
	GetVillage(ctx context.Context, id int64) (*domain.Village, error)
	Summary(ctx context.Context, villageID *int64) (*domain.Summary, error)
}

type DashboardService struct {
	store summaryStore
	now   func() time.Time
}

// Summary rolls up billing across every village, or one when villageID is set.
func (s *DashboardService) Summary(ctx context.Context, villageID *int64) (*domain.Summary, error) {
	if villageID != nil {
		if _, err := s.store.GetVillage(ctx, *villageID); err != nil {
			return nil, err
		}
	}
	sum, err := s.store.Summary(ctx, villageID)
	if err != nil {
		return nil, err
	}
	sum.GeneratedAt = s.now()
	return sum, nil
}
