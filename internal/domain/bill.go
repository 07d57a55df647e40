package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPartial BillStatus = "partial"
	BillStatusPaid    BillStatus = "paid"
)

func (s BillStatus) Valid() bool {
	return s == BillStatusPending || s == BillStatusPartial || s == BillStatusPaid
}

type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeOnline PaymentMode = "online"
)

func (m PaymentMode) Valid() bool {
	return m == PaymentModeCash || m == PaymentModeUPI || m == PaymentModeOnline
}

// Payment is an append-only record of money received against a bill.
type Payment struct {
	ID            int64           `db:"id" json:"id"`
	BillID        int64           `db:"bill_id" json:"bill_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Mode          PaymentMode     `db:"mode" json:"payment_mode"`
	TransactionID string          `db:"transaction_id" json:"transaction_id,omitempty"`
	Remarks       string          `db:"remarks" json:"remarks,omitempty"`
	PaidAt        time.Time       `db:"paid_at" json:"paid_at"`
	RecordedBy    int64           `db:"recorded_by" json:"recorded_by"`
}

type Bill struct {
	ID              int64           `db:"id" json:"id"`
	BillNo          string          `db:"bill_no" json:"bill_no"`
	HouseID         int64           `db:"house_id" json:"house_id"`
	VillageID       int64           `db:"village_id" json:"village_id"`
	Month           int             `db:"month" json:"month"`
	Year            int             `db:"year" json:"year"`
	UsageType       UsageType       `db:"usage_type" json:"usage_type"`
	PreviousReading decimal.Decimal `db:"previous_reading" json:"previous_reading"`
	CurrentReading  decimal.Decimal `db:"current_reading" json:"current_reading"`
	TotalUsage      decimal.Decimal `db:"total_usage" json:"total_usage"`
	CurrentDemand   decimal.Decimal `db:"current_demand" json:"current_demand"`
	Arrears         decimal.Decimal `db:"arrears" json:"arrears"`
	Interest        decimal.Decimal `db:"interest" json:"interest"`
	Others          decimal.Decimal `db:"others" json:"others"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount" json:"remaining_amount"`
	Status          BillStatus      `db:"status" json:"status"`
	DueDate         time.Time       `db:"due_date" json:"due_date"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
	// CarriedTo is set once the remaining balance has become the arrears of a later bill.
	CarriedTo *int64 `db:"carried_to" json:"carried_to,omitempty"`

	Payments []Payment `db:"-" json:"payments,omitempty"`
}

// Open reports whether the bill still takes payments.
func (b *Bill) Open() bool {
	return b.Status != BillStatusPaid && b.CarriedTo == nil
}

// Overdue reports whether an open bill is past its due date at now.
func (b *Bill) Overdue(now time.Time) bool {
	return b.Open() && now.After(b.DueDate)
}

// BillFilter narrows bill listings. Nil fields are ignored.
type BillFilter struct {
	VillageID *int64
	HouseID   *int64
	Status    *BillStatus
	Month     *int
	Year      *int
	DueBefore *time.Time
	// OpenOnly keeps unpaid bills that were not carried forward.
	OpenOnly bool
}
