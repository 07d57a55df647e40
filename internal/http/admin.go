package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/mailer"
)

type villageRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Code     string `json:"code" validate:"required,alphanum,max=12"`
	District string `json:"district" validate:"max=120"`
	State    string `json:"state" validate:"max=120"`
}

func (r villageRequest) toDomain() *domain.Village {
	return &domain.Village{Name: r.Name, Code: r.Code, District: r.District, State: r.State}
}

func (h *handlers) createVillage(c *fiber.Ctx) error {
	var req villageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	v := req.toDomain()
	if err := h.svcs.Villages.Create(c.UserContext(), v); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(v)
}

func (h *handlers) listVillages(c *fiber.Ctx) error {
	items, err := h.svcs.Villages.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *handlers) getVillage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	v, err := h.svcs.Villages.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *handlers) updateVillage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req villageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	v := req.toDomain()
	v.ID = id
	if err := h.svcs.Villages.Update(c.UserContext(), v); err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *handlers) getTariff(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	t, err := h.svcs.Tariffs.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

type tariffRequest struct {
	Domestic    domain.DomesticRates    `json:"domestic"`
	NonDomestic domain.NonDomesticRates `json:"non_domestic"`
}

func (h *handlers) updateTariff(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	var req tariffRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	t := &domain.TariffTable{VillageID: id, Domestic: req.Domestic, NonDomestic: req.NonDomestic}
	if err := h.svcs.Tariffs.Update(c.UserContext(), t, actor); err != nil {
		return err
	}
	return c.JSON(t)
}

type quoteRequest struct {
	UsageType domain.UsageType `json:"usage_type" validate:"required"`
	UsageKL   *decimal.Decimal `json:"usage_kl" validate:"required"`
}

func (h *handlers) quoteTariff(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req quoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	q, err := h.svcs.Tariffs.Quote(c.UserContext(), id, req.UsageType, *req.UsageKL)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func (h *handlers) villageSummary(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	s, err := h.svcs.Dashboard.Summary(c.UserContext(), &id)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *handlers) summary(c *fiber.Ctx) error {
	s, err := h.svcs.Dashboard.Summary(c.UserContext(), nil)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

type houseRequest struct {
	VillageID   int64            `json:"village_id" validate:"required,gt=0"`
	HouseNo     string           `json:"house_no" validate:"required,max=40"`
	OwnerName   string           `json:"owner_name" validate:"required,max=120"`
	Phone       string           `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	Email       string           `json:"email" validate:"omitempty,email"`
	MeterNo     string           `json:"meter_no" validate:"required,max=40"`
	UsageType   domain.UsageType `json:"usage_type" validate:"required,oneof=residential commercial institutional industrial"`
	ConnectedOn string           `json:"connected_on"`
}

func (r houseRequest) toDomain() (*domain.House, error) {
	on, err := parseDate(r.ConnectedOn)
	if err != nil {
		return nil, err
	}
	return &domain.House{
		VillageID: r.VillageID, HouseNo: r.HouseNo, OwnerName: r.OwnerName, Phone: r.Phone,
		Email: r.Email, MeterNo: r.MeterNo, UsageType: r.UsageType, ConnectedOn: on,
	}, nil
}

func (h *handlers) createHouse(c *fiber.Ctx) error {
	var req houseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	house, err := req.toDomain()
	if err != nil {
		return err
	}
	if err := h.svcs.Houses.Create(c.UserContext(), house); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(house)
}

func (h *handlers) listHouses(c *fiber.Ctx) error {
	village, err := queryInt64(c, "village_id")
	if err != nil {
		return err
	}
	items, err := h.svcs.Houses.List(c.UserContext(), village)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *handlers) getHouse(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	house, err := h.svcs.Houses.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(house)
}

func (h *handlers) updateHouse(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req houseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	house, err := req.toDomain()
	if err != nil {
		return err
	}
	house.ID = id
	house.Active = true
	if err := h.svcs.Houses.Update(c.UserContext(), house); err != nil {
		return err
	}
	return c.JSON(house)
}

func (h *handlers) deactivateHouse(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	house, err := h.svcs.Houses.Deactivate(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(house)
}

type readingRequest struct {
	ReadingKL  *decimal.Decimal `json:"reading_kl" validate:"required"`
	RecordedAt time.Time        `json:"recorded_at"`
}

func (h *handlers) submitReading(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req readingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rd, err := h.svcs.Readings.Submit(c.UserContext(), id, *req.ReadingKL, req.RecordedAt)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rd)
}

func (h *handlers) listReadings(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	items, err := h.svcs.Readings.List(c.UserContext(), id, c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Raw telemetry is kept for one billing cycle.
const maxTelemetryHours = 31 * 24

func (h *handlers) telemetry(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	hours := c.QueryInt("hours", 24)
	if hours <= 0 || hours > maxTelemetryHours {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("hours must be between 1 and %d", maxTelemetryHours))
	}
	items, err := h.svcs.Readings.Telemetry(c.UserContext(), id, time.Duration(hours)*time.Hour)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

type userRequest struct {
	Name      string      `json:"name" validate:"required,max=120"`
	Email     string      `json:"email" validate:"required,email"`
	Phone     string      `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	Role      domain.Role `json:"role" validate:"required,oneof=super_admin gp_admin"`
	VillageID *int64      `json:"village_id" validate:"omitempty,gt=0"`
	Active    *bool       `json:"active"`
}

func (r userRequest) toDomain() *domain.User {
	u := &domain.User{Name: r.Name, Email: r.Email, Phone: r.Phone, Role: r.Role, VillageID: r.VillageID, Active: true}
	if r.Active != nil {
		u.Active = *r.Active
	}
	return u
}

func (h *handlers) createUser(c *fiber.Ctx) error {
	var req userRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u := req.toDomain()
	if err := h.svcs.Users.Create(c.UserContext(), u); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *handlers) listUsers(c *fiber.Ctx) error {
	village, err := queryInt64(c, "village_id")
	if err != nil {
		return err
	}
	items, err := h.svcs.Users.List(c.UserContext(), village)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *handlers) getUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := h.svcs.Users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *handlers) updateUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req userRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u := req.toDomain()
	u.ID = id
	if err := h.svcs.Users.Update(c.UserContext(), u); err != nil {
		return err
	}
	return c.JSON(u)
}

type otpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"omitempty,len=6,numeric"`
}

func (h *handlers) otp() (*mailer.OTPService, error) {
	if h.svcs.OTP == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "otp is not configured")
	}
	return h.svcs.OTP, nil
}

func (h *handlers) sendOTP(c *fiber.Ctx) error {
	otp, err := h.otp()
	if err != nil {
		return err
	}
	var req otpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := otp.Send(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"sent": true})
}

func (h *handlers) verifyOTP(c *fiber.Ctx) error {
	otp, err := h.otp()
	if err != nil {
		return err
	}
	var req otpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}
	if err := otp.Verify(req.Email, req.Code); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"verified": true})
}
