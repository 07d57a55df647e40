package http

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/metrics"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/service"
)

// ActorHeader carries the id of the admin performing a write.
const ActorHeader = "X-Actor-ID"

var validate = validator.New()

// New builds the API application: health, metrics and the v1 routes.
func New(svcs *service.Services) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	app.Get("/health", func(c *fiber.Ctx) error {
		if svcs.Repos != nil {
			if err := svcs.Repos.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).SendString("database not ready")
			}
		}
		return c.SendString("ok")
	})
	app.Get("/metrics", metrics.Handler())

	Register(app, svcs)
	return app
}

func Register(app *fiber.App, svcs *service.Services) {
	h := &handlers{svcs: svcs}
	g := app.Group("/api/v1")

	g.Post("/villages", h.createVillage)
	g.Get("/villages", h.listVillages)
	g.Get("/villages/:id", h.getVillage)
	g.Put("/villages/:id", h.updateVillage)
	g.Get("/villages/:id/tariff", h.getTariff)
	g.Put("/villages/:id/tariff", h.updateTariff)
	g.Post("/villages/:id/tariff/quote", h.quoteTariff)
	g.Get("/villages/:id/summary", h.villageSummary)
	g.Get("/dashboard/summary", h.summary)

	g.Post("/houses", h.createHouse)
	g.Get("/houses", h.listHouses)
	g.Get("/houses/:id", h.getHouse)
	g.Put("/houses/:id", h.updateHouse)
	g.Post("/houses/:id/deactivate", h.deactivateHouse)
	g.Post("/houses/:id/readings", h.submitReading)
	g.Get("/houses/:id/readings", h.listReadings)
	g.Get("/houses/:id/telemetry", h.telemetry)

	g.Post("/users", h.createUser)
	g.Get("/users", h.listUsers)
	g.Get("/users/:id", h.getUser)
	g.Put("/users/:id", h.updateUser)

	g.Post("/bills", h.generateBill)
	g.Get("/bills", h.listBills)
	g.Get("/bills/:id", h.getBill)
	g.Patch("/bills/:id/charges", h.reviseBill)
	g.Post("/bills/:id/payments", h.recordPayment)
	g.Get("/bills/:id/payments", h.listPayments)
	g.Post("/reminders/overdue", h.sendReminders)

	g.Post("/otp/send", h.sendOTP)
	g.Post("/otp/verify", h.verifyOTP)
}

type handlers struct {
	svcs *service.Services
}

// bind decodes the JSON body into req and validates it.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return validate.Struct(req)
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id "+strconv.Quote(c.Params("id")))
	}
	return id, nil
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
	}
	return &v, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	v, err := queryInt64(c, key)
	if err != nil || v == nil {
		return nil, err
	}
	n := int(*v)
	return &n, nil
}

func actorID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Get(ActorHeader), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, ActorHeader+" header is required")
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "dates use YYYY-MM-DD")
	}
	return t, nil
}
