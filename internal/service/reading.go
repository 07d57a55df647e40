package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/metrics"
)

const (
	defaultReadingLimit = 12
	maxReadingLimit     = 100
)

type readingStore interface {
	GetHouse(ctx context.Context, id int64) (*domain.House, error)
	GetHouseByMeter(ctx context.Context, meterNo string) (*domain.House, error)
	InsertReading(ctx context.Context, rd *domain.MeterReading) error
	ListReadings(ctx context.Context, houseID int64, limit int) ([]domain.MeterReading, error)
}

type ReadingService struct {
	store     readingStore
	telemetry TelemetryStore
	now       func() time.Time
}

// MeterPayload is the JSON a smart meter publishes on the readings topic.
type MeterPayload struct {
	MeterNo   string          `json:"meter_no"`
	ReadingKL decimal.Decimal `json:"reading_kl"`
	Timestamp time.Time       `json:"timestamp"`
}

func (s *ReadingService) save(ctx context.Context, rd *domain.MeterReading) error {
	if rd.ReadingKL.IsNegative() {
		return invalidf("meter reading %s KL is negative", rd.ReadingKL)
	}
	if err := billing.CheckPrecision("meter reading", rd.ReadingKL); err != nil {
		return err
	}
	if rd.RecordedAt.IsZero() {
		rd.RecordedAt = s.now()
	}
	if err := s.store.InsertReading(ctx, rd); err != nil {
		return err
	}
	metrics.ReadingsIngested.WithLabelValues(string(rd.Source)).Inc()
	return nil
}

// Submit records a reading entered by hand at the Gram Panchayat office.
func (s *ReadingService) Submit(ctx context.Context, houseID int64, readingKL decimal.Decimal, recordedAt time.Time) (*domain.MeterReading, error) {
	if _, err := s.store.GetHouse(ctx, houseID); err != nil {
		return nil, err
	}
	rd := &domain.MeterReading{
		HouseID:    houseID,
		ReadingKL:  readingKL,
		RecordedAt: recordedAt,
		Source:     domain.ReadingSourceManual,
	}
	if err := s.save(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

// FromMQTT stores one telemetry message. The meter number resolves the house.
func (s *ReadingService) FromMQTT(ctx context.Context, topic string, payload []byte) error {
	var p MeterPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return invalidf("decode payload on %s: %v", topic, err)
	}
	if p.MeterNo == "" {
		return invalidf("payload on %s has no meter_no", topic)
	}

	h, err := s.store.GetHouseByMeter(ctx, p.MeterNo)
	if err != nil {
		return err
	}
	rd := &domain.MeterReading{
		HouseID:    h.ID,
		ReadingKL:  p.ReadingKL,
		RecordedAt: p.Timestamp,
		Source:     domain.ReadingSourceMQTT,
	}
	if err := s.save(ctx, rd); err != nil {
		return err
	}

	if s.telemetry != nil {
		if err := s.telemetry.PutReading(ctx, p.MeterNo, *rd); err != nil {
			log.Error().Err(err).Str("meter_no", p.MeterNo).Msg("telemetry mirror failed")
		}
	}
	return nil
}

// List returns the latest readings of a house, newest first.
func (s *ReadingService) List(ctx context.Context, houseID int64, limit int) ([]domain.MeterReading, error) {
	if limit <= 0 {
		limit = defaultReadingLimit
	}
	if limit > maxReadingLimit {
		limit = maxReadingLimit
	}
	return s.store.ListReadings(ctx, houseID, limit)
}

// Telemetry returns the raw readings of a house's meter over the last window.
func (s *ReadingService) Telemetry(ctx context.Context, houseID int64, window time.Duration) ([]domain.MeterReading, error) {
	if s.telemetry == nil {
		return nil, errors.Wrap(ErrUnavailable, "telemetry store is disabled")
	}
	h, err := s.store.GetHouse(ctx, houseID)
	if err != nil {
		return nil, err
	}
	return s.telemetry.RecentReadings(ctx, h.MeterNo, s.now().Add(-window))
}
