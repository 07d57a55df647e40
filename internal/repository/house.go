package repository

import (
	"context"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

const houseColumns = `id, village_id, house_no, owner_name, phone, email, meter_no, usage_type, active, connected_on, created_at`

func (r *Repos) CreateHouse(ctx context.Context, h *domain.House) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO houses(village_id, house_no, owner_name, phone, email, meter_no, usage_type, active, connected_on)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id, created_at`,
		h.VillageID, h.HouseNo, h.OwnerName, h.Phone, h.Email, h.MeterNo, h.UsageType, h.Active, h.ConnectedOn,
	).Scan(&h.ID, &h.CreatedAt)
	return translate(err, "insert house %q", h.HouseNo)
}

func (r *Repos) GetHouse(ctx context.Context, id int64) (*domain.House, error) {
	var h domain.House
	if err := r.db.GetContext(ctx, &h, `SELECT `+houseColumns+` FROM houses WHERE id = $1`, id); err != nil {
		return nil, translate(err, "house %d", id)
	}
	return &h, nil
}

func (r *Repos) GetHouseByMeter(ctx context.Context, meterNo string) (*domain.House, error) {
	var h domain.House
	if err := r.db.GetContext(ctx, &h, `SELECT `+houseColumns+` FROM houses WHERE meter_no = $1`, meterNo); err != nil {
		return nil, translate(err, "house with meter %q", meterNo)
	}
	return &h, nil
}

// ListHouses returns every house, or only those of one village when villageID is set.
func (r *Repos) ListHouses(ctx context.Context, villageID *int64) ([]domain.House, error) {
	out := []domain.House{}
	var err error
	if villageID != nil {
		err = r.db.SelectContext(ctx, &out, `SELECT `+houseColumns+` FROM houses WHERE village_id = $1 ORDER BY id`, *villageID)
	} else {
		err = r.db.SelectContext(ctx, &out, `SELECT `+houseColumns+` FROM houses ORDER BY id`)
	}
	return out, translate(err, "list houses")
}

func (r *Repos) UpdateHouse(ctx context.Context, h *domain.House) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE houses SET house_no = $2, owner_name = $3, phone = $4, email = $5, meter_no = $6, usage_type = $7, active = $8
		 WHERE id = $1 RETURNING village_id, connected_on, created_at`,
		h.ID, h.HouseNo, h.OwnerName, h.Phone, h.Email, h.MeterNo, h.UsageType, h.Active,
	).Scan(&h.VillageID, &h.ConnectedOn, &h.CreatedAt)
	return translate(err, "update house %d", h.ID)
}
