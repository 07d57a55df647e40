package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type tariffStore interface {
	GetTariff(ctx context.Context, villageID int64) (*domain.TariffTable, error)
	UpdateTariff(ctx context.Context, t *domain.TariffTable) error
}

type TariffService struct {
	store tariffStore
}

// Quote is the demand a usage would be charged under a village's current tariff.
type Quote struct {
	VillageID int64                `json:"village_id"`
	UsageType domain.UsageType     `json:"usage_type"`
	UsageKL   decimal.Decimal      `json:"usage_kl"`
	Demand    decimal.Decimal      `json:"demand"`
	Slabs     []billing.SlabCharge `json:"slabs,omitempty"`
}

func (s *TariffService) Get(ctx context.Context, villageID int64) (*domain.TariffTable, error) {
	return s.store.GetTariff(ctx, villageID)
}

// Update replaces every rate of the village's table and records who changed it.
func (s *TariffService) Update(ctx context.Context, t *domain.TariffTable, actorID int64) error {
	if err := billing.ValidateTariff(*t); err != nil {
		return err
	}
	t.UpdatedBy = &actorID
	return s.store.UpdateTariff(ctx, t)
}

// Quote prices usage without creating a bill. Residential quotes carry the slab breakdown.
func (s *TariffService) Quote(ctx context.Context, villageID int64, usageType domain.UsageType, usageKL decimal.Decimal) (*Quote, error) {
	table, err := s.store.GetTariff(ctx, villageID)
	if err != nil {
		return nil, err
	}

	demand, err := billing.Demand(domain.ConsumptionRecord{
		PreviousReading: decimal.Zero,
		CurrentReading:  usageKL,
		UsageType:       usageType,
	}, *table)
	if err != nil {
		return nil, err
	}

	q := &Quote{VillageID: villageID, UsageType: usageType, UsageKL: usageKL, Demand: demand}
	if usageType == domain.UsageResidential {
		if q.Slabs, err = billing.SlabBreakdown(usageKL, table.Domestic); err != nil {
			return nil, err
		}
	}
	return q, nil
}
