package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/mailer"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/repository"
)

// ErrUnavailable is returned when an optional backend is not configured.
var ErrUnavailable = errors.New("service unavailable")

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(billing.ErrInvalidInput, format, args...)
}

// Archiver stores a bill statement and returns where it was put.
type Archiver interface {
	ArchiveStatement(ctx context.Context, b domain.Bill) (string, error)
}

// Notifier sends consumer notices.
type Notifier interface {
	BillIssued(ctx context.Context, b domain.Bill, h domain.House) error
	PaymentReceived(ctx context.Context, b domain.Bill, p domain.Payment) error
	OverdueReminder(ctx context.Context, bills []domain.Bill) error
}

// TelemetryStore mirrors raw meter readings outside the billing database.
type TelemetryStore interface {
	PutReading(ctx context.Context, meterNo string, r domain.MeterReading) error
	RecentReadings(ctx context.Context, meterNo string, since time.Time) ([]domain.MeterReading, error)
}

type noopCloud struct{}

func (noopCloud) ArchiveStatement(context.Context, domain.Bill) (string, error)      { return "", nil }
func (noopCloud) BillIssued(context.Context, domain.Bill, domain.House) error        { return nil }
func (noopCloud) PaymentReceived(context.Context, domain.Bill, domain.Payment) error { return nil }
func (noopCloud) OverdueReminder(context.Context, []domain.Bill) error               { return nil }

// Options carries the optional collaborators of the services. Nil cloud
// collaborators are replaced by no-ops and a nil OTP service disables OTP.
type Options struct {
	Archiver    Archiver
	Notifier    Notifier
	Telemetry   TelemetryStore
	OTP         *mailer.OTPService
	BillDueDays int
	Now         func() time.Time
}

type Services struct {
	Repos     *repository.Repos
	Villages  *VillageService
	Houses    *HouseService
	Users     *UserService
	Tariffs   *TariffService
	Readings  *ReadingService
	Bills     *BillService
	Payments  *PaymentService
	Dashboard *DashboardService
	Reminders *ReminderService
	OTP       *mailer.OTPService
}

func New(db *sqlx.DB, opts Options) *Services {
	return NewWithRepos(repository.New(db), opts)
}

func NewWithRepos(repos *repository.Repos, opts Options) *Services {
	if opts.Archiver == nil {
		opts.Archiver = noopCloud{}
	}
	if opts.Notifier == nil {
		opts.Notifier = noopCloud{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BillDueDays <= 0 {
		opts.BillDueDays = 15
	}

	return &Services{
		Repos:     repos,
		Villages:  &VillageService{store: repos},
		Houses:    &HouseService{store: repos, now: opts.Now},
		Users:     &UserService{store: repos},
		Tariffs:   &TariffService{store: repos},
		Readings:  &ReadingService{store: repos, telemetry: opts.Telemetry, now: opts.Now},
		Bills:     &BillService{store: repos, archiver: opts.Archiver, notifier: opts.Notifier, dueDays: opts.BillDueDays, now: opts.Now},
		Payments:  &PaymentService{store: repos, notifier: opts.Notifier, now: opts.Now},
		Dashboard: &DashboardService{store: repos, now: opts.Now},
		Reminders: &ReminderService{store: repos, notifier: opts.Notifier, now: opts.Now},
		OTP:       opts.OTP,
	}
}

// optional turns ErrNotFound into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
