package repository

import (
	"context"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

func (r *Repos) InsertReading(ctx context.Context, rd *domain.MeterReading) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO meter_readings(house_id, reading_kl, recorded_at, source) VALUES ($1,$2,$3,$4) RETURNING id`,
		rd.HouseID, rd.ReadingKL, rd.RecordedAt, rd.Source,
	).Scan(&rd.ID)
	return translate(err, "insert reading for house %d", rd.HouseID)
}

// ListReadings returns the most recent readings of a house, newest first.
func (r *Repos) ListReadings(ctx context.Context, houseID int64, limit int) ([]domain.MeterReading, error) {
	out := []domain.MeterReading{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, house_id, reading_kl, recorded_at, source FROM meter_readings
		 WHERE house_id = $1 ORDER BY recorded_at DESC LIMIT $2`, houseID, limit)
	return out, translate(err, "list readings of house %d", houseID)
}
