package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/metrics"
)

type reminderStore interface {
	ListBills(ctx context.Context, f domain.BillFilter) ([]domain.Bill, error)
}

type ReminderService struct {
	store    reminderStore
	notifier Notifier
	now      func() time.Time
}

// SendOverdue publishes one reminder covering every unpaid bill past its due date
// and returns how many bills it named.
func (s *ReminderService) SendOverdue(ctx context.Context) (int, error) {
	now := s.now()
	bills, err := s.store.ListBills(ctx, domain.BillFilter{DueBefore: &now, OpenOnly: true})
	if err != nil {
		return 0, err
	}
	overdue := lo.Filter(bills, func(b domain.Bill, _ int) bool { return b.Overdue(now) })
	if len(overdue) == 0 {
		log.Debug().Msg("no overdue bills")
		return 0, nil
	}

	if err := s.notifier.OverdueReminder(ctx, overdue); err != nil {
		return 0, err
	}
	metrics.RemindersSent.Add(float64(len(overdue)))
	log.Info().Int("bills", len(overdue)).Msg("overdue reminder sent")
	return len(overdue), nil
}
