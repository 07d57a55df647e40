package service

import (
	"context"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type houseStore interface {
	GetVillage(ctx context.Context, id int64) (*domain.Village, error)
	CreateHouse(ctx context.Context, h *domain.House) error
	GetHouse(ctx context.Context, id int64) (*domain.House, error)
	ListHouses(ctx context.Context, villageID *int64) ([]domain.House, error)
	UpdateHouse(ctx context.Context, h *domain.House) error
}

type HouseService struct {
	store houseStore
	now   func() time.Time
}

func validateHouse(h *domain.House) error {
	h.HouseNo = strings.TrimSpace(h.HouseNo)
	h.MeterNo = strings.TrimSpace(h.MeterNo)
	if h.HouseNo == "" || h.MeterNo == "" {
		return invalidf("house number and meter number are required")
	}
	if !h.UsageType.Valid() {
		return invalidf("unknown usage type %q", h.UsageType)
	}
	return nil
}

// Create connects a new, active house to its village.
func (s *HouseService) Create(ctx context.Context, h *domain.House) error {
	if err := validateHouse(h); err != nil {
		return err
	}
	if _, err := s.store.GetVillage(ctx, h.VillageID); err != nil {
		return err
	}
	h.Active = true
	if h.ConnectedOn.IsZero() {
		h.ConnectedOn = s.now()
	}
	return s.store.CreateHouse(ctx, h)
}

func (s *HouseService) Get(ctx context.Context, id int64) (*domain.House, error) {
	return s.store.GetHouse(ctx, id)
}

func (s *HouseService) List(ctx context.Context, villageID *int64) ([]domain.House, error) {
	return s.store.ListHouses(ctx, villageID)
}

// Update changes the house details. The village of a house is fixed.
func (s *HouseService) Update(ctx context.Context, h *domain.House) error {
	if err := validateHouse(h); err != nil {
		return err
	}
	return s.store.UpdateHouse(ctx, h)
}

// Deactivate disconnects a house. No further bills can be generated for it.
func (s *HouseService) Deactivate(ctx context.Context, id int64) (*domain.House, error) {
	h, err := s.store.GetHouse(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Active = false
	if err := s.store.UpdateHouse(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}
