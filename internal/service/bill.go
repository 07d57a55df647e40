package service

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/metrics"
)

type billStore interface {
	GetVillage(ctx context.Context, id int64) (*domain.Village, error)
	GetHouse(ctx context.Context, id int64) (*domain.House, error)
	GetTariff(ctx context.Context, villageID int64) (*domain.TariffTable, error)
	LatestBillBefore(ctx context.Context, houseID int64, year, month int) (*domain.Bill, error)
	CreateBill(ctx context.Context, b *domain.Bill) error
	CarryForward(ctx context.Context, b *domain.Bill, from domain.Bill) error
	GetBill(ctx context.Context, id int64) (*domain.Bill, error)
	ListBills(ctx context.Context, f domain.BillFilter) ([]domain.Bill, error)
	MutateBill(ctx context.Context, id int64, fn func(domain.Bill) (domain.Bill, error)) (*domain.Bill, error)
}

type BillService struct {
	store    billStore
	archiver Archiver
	notifier Notifier
	dueDays  int
	now      func() time.Time
}

// GenerateBillInput describes one billing period of a house. Nil readings and
// arrears are derived from the house's previous bill. An explicit Arrears still
// closes an open previous bill, replacing its balance.
type GenerateBillInput struct {
	HouseID         int64
	Month           int
	Year            int
	CurrentReading  decimal.Decimal
	PreviousReading *decimal.Decimal
	Arrears         *decimal.Decimal
	Interest        decimal.Decimal
	Others          decimal.Decimal
}

// BillNumber formats GP-<village code>-<yyyymm>-<ULID>.
func BillNumber(villageCode string, year, month int, at time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy())
	return fmt.Sprintf("GP-%s-%04d%02d-%s", villageCode, year, month, id)
}

// Generate prices the period and stores the bill. A house gets one bill per period.
func (s *BillService) Generate(ctx context.Context, in GenerateBillInput) (*domain.Bill, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, invalidf("month %d is out of range", in.Month)
	}
	if in.Year < 2000 || in.Year > 9999 {
		return nil, invalidf("year %d is out of range", in.Year)
	}

	house, err := s.store.GetHouse(ctx, in.HouseID)
	if err != nil {
		return nil, err
	}
	if !house.Active {
		return nil, invalidf("house %s is disconnected", house.HouseNo)
	}
	village, err := s.store.GetVillage(ctx, house.VillageID)
	if err != nil {
		return nil, err
	}
	table, err := s.store.GetTariff(ctx, house.VillageID)
	if err != nil {
		return nil, err
	}
	prev, err := s.store.LatestBillBefore(ctx, house.ID, in.Year, in.Month)
	if prev, err = optional(prev, err); err != nil {
		return nil, err
	}

	// An open earlier bill with a balance is closed by this one: its balance
	// becomes the arrears here and it takes no further payments.
	previous, arrears := decimal.Zero, decimal.Zero
	var carry *domain.Bill
	if prev != nil {
		previous = prev.CurrentReading
		if prev.Open() && prev.RemainingAmount.IsPositive() {
			arrears = prev.RemainingAmount
			carry = prev
		}
	}
	if in.PreviousReading != nil {
		previous = *in.PreviousReading
	}
	if in.Arrears != nil {
		arrears = *in.Arrears
	}

	b, err := billing.Draft(domain.ConsumptionRecord{
		PreviousReading: previous,
		CurrentReading:  in.CurrentReading,
		UsageType:       house.UsageType,
	}, *table, billing.Charges{Arrears: arrears, Interest: in.Interest, Others: in.Others})
	if err != nil {
		return nil, err
	}

	now := s.now()
	b.BillNo = BillNumber(village.Code, in.Year, in.Month, now)
	b.HouseID = house.ID
	b.VillageID = house.VillageID
	b.Month = in.Month
	b.Year = in.Year
	b.DueDate = now.Truncate(24*time.Hour).AddDate(0, 0, s.dueDays)

	if carry != nil {
		err = s.store.CarryForward(ctx, &b, *carry)
	} else {
		err = s.store.CreateBill(ctx, &b)
	}
	if err != nil {
		return nil, err
	}
	if carry != nil {
		log.Info().Int64("bill_id", carry.ID).Int64("carried_to", b.ID).
			Str("amount", carry.RemainingAmount.StringFixed(2)).Msg("balance carried forward")
	}
	metrics.BillsGenerated.WithLabelValues(string(b.UsageType)).Inc()
	log.Info().Int64("bill_id", b.ID).Int64("house_id", b.HouseID).Int64("village_id", b.VillageID).
		Str("bill_no", b.BillNo).Str("amount", b.TotalAmount.StringFixed(2)).Msg("bill generated")

	s.publish(ctx, b, *house)
	return &b, nil
}

// publish archives the statement and notifies the owner. Failures are logged only.
func (s *BillService) publish(ctx context.Context, b domain.Bill, h domain.House) {
	if key, err := s.archiver.ArchiveStatement(ctx, b); err != nil {
		log.Error().Err(err).Int64("bill_id", b.ID).Msg("statement archive failed")
	} else if key != "" {
		log.Debug().Int64("bill_id", b.ID).Str("key", key).Msg("statement archived")
	}
	if err := s.notifier.BillIssued(ctx, b, h); err != nil {
		log.Error().Err(err).Int64("bill_id", b.ID).Msg("bill notice failed")
	}
}

// Get returns the bill with its payments.
func (s *BillService) Get(ctx context.Context, id int64) (*domain.Bill, error) {
	return s.store.GetBill(ctx, id)
}

func (s *BillService) List(ctx context.Context, f domain.BillFilter) ([]domain.Bill, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, invalidf("unknown bill status %q", *f.Status)
	}
	return s.store.ListBills(ctx, f)
}

// ChargeUpdate lists the charges to change on a bill. Nil fields keep their current value.
type ChargeUpdate struct {
	Arrears  *decimal.Decimal
	Interest *decimal.Decimal
	Others   *decimal.Decimal
	DueDate  *time.Time
}

// Revise changes the additional charges or due date of an unpaid bill.
func (s *BillService) Revise(ctx context.Context, id int64, upd ChargeUpdate) (*domain.Bill, error) {
	b, err := s.store.MutateBill(ctx, id, func(cur domain.Bill) (domain.Bill, error) {
		charges := billing.Charges{Arrears: cur.Arrears, Interest: cur.Interest, Others: cur.Others}
		if upd.Arrears != nil {
			charges.Arrears = *upd.Arrears
		}
		if upd.Interest != nil {
			charges.Interest = *upd.Interest
		}
		if upd.Others != nil {
			charges.Others = *upd.Others
		}
		var due time.Time
		if upd.DueDate != nil {
			due = *upd.DueDate
		}
		return billing.ReviseCharges(cur, charges, due)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("bill_id", id).Str("amount", b.TotalAmount.StringFixed(2)).Msg("bill charges revised")
	return b, nil
}
