package repository

import (
	"context"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

// Summary aggregates billing figures system-wide, or for one village when villageID is set.
// A carried forward bill contributes only what was paid on it; its balance is
// counted in the later bill that took it over as arrears.
func (r *Repos) Summary(ctx context.Context, villageID *int64) (*domain.Summary, error) {
	var s domain.Summary
	err := r.db.GetContext(ctx, &s,
		`SELECT
		   (SELECT COUNT(*) FROM villages WHERE $1::BIGINT IS NULL OR id = $1) AS villages,
		   (SELECT COUNT(*) FROM houses WHERE $1::BIGINT IS NULL OR village_id = $1) AS houses,
		   COUNT(b.id) AS bills,
		   COALESCE(SUM(CASE WHEN b.carried_to IS NULL THEN b.total_amount ELSE b.paid_amount END), 0) AS billed,
		   COALESCE(SUM(b.paid_amount), 0) AS collected,
		   COALESCE(SUM(GREATEST(b.remaining_amount, 0)) FILTER (WHERE b.carried_to IS NULL), 0) AS outstanding
		 FROM bills b WHERE $1::BIGINT IS NULL OR b.village_id = $1`, villageID)
	if err != nil {
		return nil, translate(err, "summary")
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT status, COUNT(*) FROM bills WHERE $1::BIGINT IS NULL OR village_id = $1 GROUP BY status`, villageID)
	if err != nil {
		return nil, translate(err, "bill status counts")
	}
	defer rows.Close()

	s.ByStatus = map[string]int64{}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, translate(err, "scan status count")
		}
		s.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "bill status counts")
	}
	return &s, nil
}
