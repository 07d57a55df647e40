package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type tariffRow struct {
	VillageID                 int64           `db:"village_id"`
	UpTo7KL                   decimal.Decimal `db:"up_to_7kl"`
	From7To10KL               decimal.Decimal `db:"from_7_to_10kl"`
	From10To15KL              decimal.Decimal `db:"from_10_to_15kl"`
	From15To20KL              decimal.Decimal `db:"from_15_to_20kl"`
	Above20KL                 decimal.Decimal `db:"above_20kl"`
	PublicPrivateInstitutions decimal.Decimal `db:"public_private_institutions"`
	CommercialEnterprises     decimal.Decimal `db:"commercial_enterprises"`
	IndustrialEnterprises     decimal.Decimal `db:"industrial_enterprises"`
	UpdatedBy                 *int64          `db:"updated_by"`
	UpdatedAt                 time.Time       `db:"updated_at"`
}

func (t tariffRow) toDomain() *domain.TariffTable {
	return &domain.TariffTable{
		VillageID: t.VillageID,
		Domestic: domain.DomesticRates{
			UpTo7KL:      t.UpTo7KL,
			From7To10KL:  t.From7To10KL,
			From10To15KL: t.From10To15KL,
			From15To20KL: t.From15To20KL,
			Above20KL:    t.Above20KL,
		},
		NonDomestic: domain.NonDomesticRates{
			PublicPrivateInstitutions: t.PublicPrivateInstitutions,
			CommercialEnterprises:     t.CommercialEnterprises,
			IndustrialEnterprises:     t.IndustrialEnterprises,
		},
		UpdatedBy: t.UpdatedBy,
		UpdatedAt: t.UpdatedAt,
	}
}

const tariffColumns = `village_id, up_to_7kl, from_7_to_10kl, from_10_to_15kl, from_15_to_20kl, above_20kl,
	public_private_institutions, commercial_enterprises, industrial_enterprises, updated_by, updated_at`

func (r *Repos) GetTariff(ctx context.Context, villageID int64) (*domain.TariffTable, error) {
	var row tariffRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+tariffColumns+` FROM tariffs WHERE village_id = $1`, villageID); err != nil {
		return nil, translate(err, "tariff of village %d", villageID)
	}
	return row.toDomain(), nil
}

func (r *Repos) UpdateTariff(ctx context.Context, t *domain.TariffTable) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE tariffs SET up_to_7kl = $2, from_7_to_10kl = $3, from_10_to_15kl = $4, from_15_to_20kl = $5, above_20kl = $6,
		 public_private_institutions = $7, commercial_enterprises = $8, industrial_enterprises = $9,
		 updated_by = $10, updated_at = now()
		 WHERE village_id = $1 RETURNING updated_at`,
		t.VillageID,
		t.Domestic.UpTo7KL, t.Domestic.From7To10KL, t.Domestic.From10To15KL, t.Domestic.From15To20KL, t.Domestic.Above20KL,
		t.NonDomestic.PublicPrivateInstitutions, t.NonDomestic.CommercialEnterprises, t.NonDomestic.IndustrialEnterprises,
		t.UpdatedBy,
	).Scan(&t.UpdatedAt)
	return translate(err, "update tariff of village %d", t.VillageID)
}
