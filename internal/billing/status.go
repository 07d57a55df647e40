package billing

import (
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

// DeriveStatus places a bill on pending -> partial -> paid.
// A bill whose remaining amount is zero or below is paid, including a zero-total bill.
func DeriveStatus(total, paid decimal.Decimal) domain.BillStatus {
	switch {
	case total.Sub(paid).LessThanOrEqual(decimal.Zero):
		return domain.BillStatusPaid
	case paid.IsPositive():
		return domain.BillStatusPartial
	default:
		return domain.BillStatusPending
	}
}

// Reconcile recomputes PaidAmount from the bill's payments, then RemainingAmount and Status.
func Reconcile(b *domain.Bill) {
	b.PaidAmount = PaidAmount(b.Payments)
	b.RemainingAmount = b.TotalAmount.Sub(b.PaidAmount)
	b.Status = DeriveStatus(b.TotalAmount, b.PaidAmount)
}
