package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

const billColumns = `id, bill_no, house_id, village_id, month, year, usage_type, previous_reading, current_reading,
	total_usage, current_demand, arrears, interest, others, total_amount, paid_amount, remaining_amount,
	status, due_date, created_at, updated_at, carried_to`

const paymentColumns = `id, bill_id, amount, mode, transaction_id, remarks, paid_at, recorded_by`

func (r *Repos) CreateBill(ctx context.Context, b *domain.Bill) error {
	return insertBill(ctx, r.db, b)
}

func insertBill(ctx context.Context, q sqlx.QueryerContext, b *domain.Bill) error {
	err := q.QueryRowxContext(ctx,
		`INSERT INTO bills(bill_no, house_id, village_id, month, year, usage_type, previous_reading, current_reading,
		   total_usage, current_demand, arrears, interest, others, total_amount, paid_amount, remaining_amount, status, due_date)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		 RETURNING id, created_at, updated_at`,
		b.BillNo, b.HouseID, b.VillageID, b.Month, b.Year, b.UsageType, b.PreviousReading, b.CurrentReading,
		b.TotalUsage, b.CurrentDemand, b.Arrears, b.Interest, b.Others, b.TotalAmount, b.PaidAmount, b.RemainingAmount,
		b.Status, b.DueDate,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return translate(err, "insert bill for house %d %04d-%02d", b.HouseID, b.Year, b.Month)
}

// CarryForward stores b and closes from, whose remaining balance b takes over as
// arrears. Both happen in one transaction. ErrConflict is returned when from was
// paid into, revised or carried since the caller read it.
func (r *Repos) CarryForward(ctx context.Context, b *domain.Bill, from domain.Bill) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var cur domain.Bill
		if err := tx.GetContext(ctx, &cur, `SELECT `+billColumns+` FROM bills WHERE id = $1 FOR UPDATE`, from.ID); err != nil {
			return translate(err, "lock bill %d", from.ID)
		}
		if !cur.Open() || !cur.RemainingAmount.Equal(from.RemainingAmount) {
			return errors.Wrapf(ErrConflict, "bill %d changed while carrying its balance forward", from.ID)
		}

		if err := insertBill(ctx, tx, b); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE bills SET carried_to = $2, updated_at = now() WHERE id = $1`, from.ID, b.ID)
		return translate(err, "carry bill %d to %d", from.ID, b.ID)
	})
}

// GetBill loads a bill with its payments.
func (r *Repos) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	var b domain.Bill
	if err := r.db.GetContext(ctx, &b, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id); err != nil {
		return nil, translate(err, "bill %d", id)
	}
	payments, err := listPayments(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	b.Payments = payments
	return &b, nil
}

func (r *Repos) ListPayments(ctx context.Context, billID int64) ([]domain.Payment, error) {
	return listPayments(ctx, r.db, billID)
}

func listPayments(ctx context.Context, q sqlx.QueryerContext, billID int64) ([]domain.Payment, error) {
	out := []domain.Payment{}
	err := sqlx.SelectContext(ctx, q, &out,
		`SELECT `+paymentColumns+` FROM payments WHERE bill_id = $1 ORDER BY paid_at, id`, billID)
	return out, translate(err, "payments of bill %d", billID)
}

// ListBills returns bills matching f, newest period first. Payments are not loaded.
func (r *Repos) ListBills(ctx context.Context, f domain.BillFilter) ([]domain.Bill, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.VillageID != nil {
		add("village_id = $%d", *f.VillageID)
	}
	if f.HouseID != nil {
		add("house_id = $%d", *f.HouseID)
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.Month != nil {
		add("month = $%d", *f.Month)
	}
	if f.Year != nil {
		add("year = $%d", *f.Year)
	}
	if f.DueBefore != nil {
		add("due_date < $%d", *f.DueBefore)
	}
	if f.OpenOnly {
		conds = append(conds, "status <> 'paid' AND carried_to IS NULL")
	}

	query := `SELECT ` + billColumns + ` FROM bills`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY year DESC, month DESC, id DESC`

	out := []domain.Bill{}
	err := r.db.SelectContext(ctx, &out, query, args...)
	return out, translate(err, "list bills")
}

// LatestBillBefore returns the house's most recent bill for a period earlier than year/month.
func (r *Repos) LatestBillBefore(ctx context.Context, houseID int64, year, month int) (*domain.Bill, error) {
	var b domain.Bill
	err := r.db.GetContext(ctx, &b,
		`SELECT `+billColumns+` FROM bills
		 WHERE house_id = $1 AND (year < $2 OR (year = $2 AND month < $3))
		 ORDER BY year DESC, month DESC LIMIT 1`, houseID, year, month)
	if err != nil {
		return nil, translate(err, "previous bill of house %d", houseID)
	}
	return &b, nil
}

// MutateBill serializes changes to one bill. The row is locked with FOR UPDATE,
// loaded with its payments and handed to fn. Payments in the result without an
// ID are appended, and the bill's charges, totals, status and due date are saved
// before commit. Concurrent callers on the same bill queue on the row lock.
func (r *Repos) MutateBill(ctx context.Context, id int64, fn func(domain.Bill) (domain.Bill, error)) (*domain.Bill, error) {
	var out domain.Bill
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var cur domain.Bill
		if err := tx.GetContext(ctx, &cur, `SELECT `+billColumns+` FROM bills WHERE id = $1 FOR UPDATE`, id); err != nil {
			return translate(err, "lock bill %d", id)
		}
		payments, err := listPayments(ctx, tx, id)
		if err != nil {
			return err
		}
		cur.Payments = payments

		next, err := fn(cur)
		if err != nil {
			return err
		}

		for i := range next.Payments {
			p := &next.Payments[i]
			if p.ID != 0 {
				continue
			}
			p.BillID = id
			err := tx.QueryRowxContext(ctx,
				`INSERT INTO payments(bill_id, amount, mode, transaction_id, remarks, paid_at, recorded_by)
				 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
				p.BillID, p.Amount, p.Mode, p.TransactionID, p.Remarks, p.PaidAt, p.RecordedBy,
			).Scan(&p.ID)
			if err != nil {
				return translate(err, "insert payment for bill %d", id)
			}
		}

		err = tx.QueryRowxContext(ctx,
			`UPDATE bills SET arrears = $2, interest = $3, others = $4, total_amount = $5, paid_amount = $6,
			   remaining_amount = $7, status = $8, due_date = $9, updated_at = now()
			 WHERE id = $1 RETURNING updated_at`,
			id, next.Arrears, next.Interest, next.Others, next.TotalAmount, next.PaidAmount,
			next.RemainingAmount, next.Status, next.DueDate,
		).Scan(&next.UpdatedAt)
		if err != nil {
			return translate(err, "update bill %d", id)
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
