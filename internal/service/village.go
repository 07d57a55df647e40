package service

import (
	"context"
	"strings"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type villageStore interface {
	CreateVillage(ctx context.Context, v *domain.Village) error
	GetVillage(ctx context.Context, id int64) (*domain.Village, error)
	ListVillages(ctx context.Context) ([]domain.Village, error)
	UpdateVillage(ctx context.Context, v *domain.Village) error
}

type VillageService struct {
	store villageStore
}

func normalizeVillage(v *domain.Village) error {
	v.Name = strings.TrimSpace(v.Name)
	v.Code = strings.ToUpper(strings.TrimSpace(v.Code))
	if v.Name == "" || v.Code == "" {
		return invalidf("village name and code are required")
	}
	return nil
}

// Create registers a village. Its tariff table starts with every rate at zero.
func (s *VillageService) Create(ctx context.Context, v *domain.Village) error {
	if err := normalizeVillage(v); err != nil {
		return err
	}
	return s.store.CreateVillage(ctx, v)
}

func (s *VillageService) Get(ctx context.Context, id int64) (*domain.Village, error) {
	return s.store.GetVillage(ctx, id)
}

func (s *VillageService) List(ctx context.Context) ([]domain.Village, error) {
	return s.store.ListVillages(ctx)
}

func (s *VillageService) Update(ctx context.Context, v *domain.Village) error {
	if err := normalizeVillage(v); err != nil {
		return err
	}
	return s.store.UpdateVillage(ctx, v)
}
