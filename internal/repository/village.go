package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

const villageColumns = `id, name, code, district, state, created_at`

// CreateVillage inserts the village together with its all-zero tariff table.
func (r *Repos) CreateVillage(ctx context.Context, v *domain.Village) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO villages(name, code, district, state) VALUES ($1,$2,$3,$4) RETURNING id, created_at`,
			v.Name, v.Code, v.District, v.State,
		).Scan(&v.ID, &v.CreatedAt)
		if err != nil {
			return translate(err, "insert village %q", v.Code)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tariffs(village_id) VALUES ($1)`, v.ID); err != nil {
			return translate(err, "seed tariff for village %d", v.ID)
		}
		return nil
	})
}

func (r *Repos) GetVillage(ctx context.Context, id int64) (*domain.Village, error) {
	var v domain.Village
	err := r.db.GetContext(ctx, &v, `SELECT `+villageColumns+` FROM villages WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err, "village %d", id)
	}
	return &v, nil
}

func (r *Repos) ListVillages(ctx context.Context) ([]domain.Village, error) {
	out := []domain.Village{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+villageColumns+` FROM villages ORDER BY id`)
	return out, translate(err, "list villages")
}

func (r *Repos) UpdateVillage(ctx context.Context, v *domain.Village) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE villages SET name = $2, code = $3, district = $4, state = $5 WHERE id = $1 RETURNING created_at`,
		v.ID, v.Name, v.Code, v.District, v.State,
	).Scan(&v.CreatedAt)
	return translate(err, "update village %d", v.ID)
}
