package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/metrics"
)

type paymentStore interface {
	GetBill(ctx context.Context, id int64) (*domain.Bill, error)
	ListPayments(ctx context.Context, billID int64) ([]domain.Payment, error)
	MutateBill(ctx context.Context, id int64, fn func(domain.Bill) (domain.Bill, error)) (*domain.Bill, error)
}

type PaymentService struct {
	store    paymentStore
	notifier Notifier
	now      func() time.Time
}

// Record applies p to the bill. Payments on one bill are serialized by the store,
// so each sees the totals left by the previous one.
func (s *PaymentService) Record(ctx context.Context, billID int64, p domain.Payment) (*domain.Bill, error) {
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	if err := billing.ValidatePayment(p); err != nil {
		return nil, err
	}

	b, err := s.store.MutateBill(ctx, billID, func(cur domain.Bill) (domain.Bill, error) {
		return billing.ApplyPayment(cur, p)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObservePayment(string(p.Mode), p.Amount)
	log.Info().Int64("bill_id", billID).Str("amount", p.Amount.StringFixed(2)).Str("mode", string(p.Mode)).
		Str("status", string(b.Status)).Msg("payment recorded")

	if err := s.notifier.PaymentReceived(ctx, *b, b.Payments[len(b.Payments)-1]); err != nil {
		log.Error().Err(err).Int64("bill_id", billID).Msg("payment receipt failed")
	}
	return b, nil
}

func (s *PaymentService) List(ctx context.Context, billID int64) ([]domain.Payment, error) {
	if _, err := s.store.GetBill(ctx, billID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, billID)
}
