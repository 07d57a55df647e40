package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	BillsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpwater_bills_generated_total",
		Help: "Bills generated, by usage type",
	}, []string{"usage_type"})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpwater_payments_recorded_total",
		Help: "Payments recorded, by payment mode",
	}, []string{"mode"})

	AmountCollected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gpwater_amount_collected_rupees_total",
		Help: "Total money collected against bills",
	})

	ReadingsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpwater_meter_readings_total",
		Help: "Meter readings stored, by source",
	}, []string{"source"})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gpwater_overdue_reminders_total",
		Help: "Overdue bills included in reminder notices",
	})
)

// ObservePayment counts one payment of amount in the given mode.
func ObservePayment(mode string, amount decimal.Decimal) {
	PaymentsRecorded.WithLabelValues(mode).Inc()
	AmountCollected.Add(amount.InexactFloat64())
}

// Handler serves the default registry through fiber.
func Handler() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}
