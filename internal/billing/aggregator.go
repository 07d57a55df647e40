package billing

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

// Charges are the additions carried on top of the current demand.
type Charges struct {
	Arrears  decimal.Decimal `json:"arrears"`
	Interest decimal.Decimal `json:"interest"`
	Others   decimal.Decimal `json:"others"`
}

// BuildBill sums the demand and the additional charges.
func BuildBill(demand, arrears, interest, others decimal.Decimal) (decimal.Decimal, error) {
	parts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"demand", demand},
		{"arrears", arrears},
		{"interest", interest},
		{"others", others},
	}
	total := decimal.Zero
	for _, p := range parts {
		if p.value.IsNegative() {
			return decimal.Zero, invalidInputf("%s %s is negative", p.name, p.value)
		}
		if err := CheckPrecision(p.name, p.value); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(p.value)
	}
	return total, nil
}

// Draft prices a consumption record and returns an unpaid bill carrying the
// readings, demand, charges and totals. Identity, period and dates are left to the caller.
func Draft(record domain.ConsumptionRecord, table domain.TariffTable, charges Charges) (domain.Bill, error) {
	demand, err := Demand(record, table)
	if err != nil {
		return domain.Bill{}, err
	}
	total, err := BuildBill(demand, charges.Arrears, charges.Interest, charges.Others)
	if err != nil {
		return domain.Bill{}, err
	}

	b := domain.Bill{
		UsageType:       record.UsageType,
		PreviousReading: record.PreviousReading,
		CurrentReading:  record.CurrentReading,
		TotalUsage:      record.TotalUsage(),
		CurrentDemand:   demand,
		Arrears:         charges.Arrears,
		Interest:        charges.Interest,
		Others:          charges.Others,
		TotalAmount:     total,
	}
	Reconcile(&b)
	return b, nil
}

// ValidatePayment checks a payment before it is applied to any bill.
func ValidatePayment(p domain.Payment) error {
	if !p.Amount.IsPositive() {
		return invalidInputf("payment amount %s must be positive", p.Amount)
	}
	if err := CheckPrecision("payment amount", p.Amount); err != nil {
		return err
	}
	if !p.Mode.Valid() {
		return invalidInputf("unknown payment mode %q", p.Mode)
	}
	if p.Mode != domain.PaymentModeCash && p.TransactionID == "" {
		return invalidInputf("transaction id is required for %s payments", p.Mode)
	}
	return nil
}

func checkOpen(bill domain.Bill) error {
	if bill.CarriedTo != nil {
		return errors.Wrapf(ErrBillCarriedForward, "bill %q moved to bill %d", bill.BillNo, *bill.CarriedTo)
	}
	if bill.Status == domain.BillStatusPaid {
		return errors.Wrapf(ErrBillAlreadySettled, "bill %q", bill.BillNo)
	}
	return nil
}

// ApplyPayment appends p to the bill's payments and re-derives the paid and
// remaining amounts and the status. The input bill is left untouched.
// Payments larger than the remaining balance are accepted. Paid and carried
// forward bills take no further payments.
func ApplyPayment(bill domain.Bill, p domain.Payment) (domain.Bill, error) {
	if err := checkOpen(bill); err != nil {
		return bill, err
	}
	if err := ValidatePayment(p); err != nil {
		return bill, err
	}

	out := bill
	out.Payments = make([]domain.Payment, 0, len(bill.Payments)+1)
	out.Payments = append(out.Payments, bill.Payments...)
	out.Payments = append(out.Payments, p)
	Reconcile(&out)
	return out, nil
}

// ReviseCharges replaces the additional charges and due date of an unpaid bill.
func ReviseCharges(bill domain.Bill, charges Charges, dueDate time.Time) (domain.Bill, error) {
	if err := checkOpen(bill); err != nil {
		return bill, err
	}
	total, err := BuildBill(bill.CurrentDemand, charges.Arrears, charges.Interest, charges.Others)
	if err != nil {
		return bill, err
	}

	out := bill
	out.Arrears = charges.Arrears
	out.Interest = charges.Interest
	out.Others = charges.Others
	out.TotalAmount = total
	if !dueDate.IsZero() {
		out.DueDate = dueDate
	}
	Reconcile(&out)
	return out, nil
}

// PaidAmount sums the amounts of the given payments.
func PaidAmount(payments []domain.Payment) decimal.Decimal {
	return lo.Reduce(payments, func(acc decimal.Decimal, p domain.Payment, _ int) decimal.Decimal {
		return acc.Add(p.Amount)
	}, decimal.Zero)
}
