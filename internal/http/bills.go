package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/service"
)

type generateBillRequest struct {
	HouseID         int64            `json:"house_id" validate:"required,gt=0"`
	Month           int              `json:"month" validate:"required,min=1,max=12"`
	Year            int              `json:"year" validate:"required,min=2000,max=9999"`
	CurrentReading  *decimal.Decimal `json:"current_reading" validate:"required"`
	PreviousReading *decimal.Decimal `json:"previous_reading"`
	Arrears         *decimal.Decimal `json:"arrears"`
	Interest        decimal.Decimal  `json:"interest"`
	Others          decimal.Decimal  `json:"others"`
}

func (h *handlers) generateBill(c *fiber.Ctx) error {
	var req generateBillRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.svcs.Bills.Generate(c.UserContext(), service.GenerateBillInput{
		HouseID:         req.HouseID,
		Month:           req.Month,
		Year:            req.Year,
		CurrentReading:  *req.CurrentReading,
		PreviousReading: req.PreviousReading,
		Arrears:         req.Arrears,
		Interest:        req.Interest,
		Others:          req.Others,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *handlers) listBills(c *fiber.Ctx) error {
	var (
		f   domain.BillFilter
		err error
	)
	if f.VillageID, err = queryInt64(c, "village_id"); err != nil {
		return err
	}
	if f.HouseID, err = queryInt64(c, "house_id"); err != nil {
		return err
	}
	if f.Month, err = queryInt(c, "month"); err != nil {
		return err
	}
	if f.Year, err = queryInt(c, "year"); err != nil {
		return err
	}
	if raw := c.Query("status"); raw != "" {
		st := domain.BillStatus(raw)
		f.Status = &st
	}

	items, err := h.svcs.Bills.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *handlers) getBill(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	b, err := h.svcs.Bills.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(b)
}

// reviseRequest is a partial update: omitted fields keep their current value.
type reviseRequest struct {
	Arrears  *decimal.Decimal `json:"arrears"`
	Interest *decimal.Decimal `json:"interest"`
	Others   *decimal.Decimal `json:"others"`
	DueDate  string           `json:"due_date"`
}

func (h *handlers) reviseBill(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req reviseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	upd := service.ChargeUpdate{Arrears: req.Arrears, Interest: req.Interest, Others: req.Others}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return err
		}
		upd.DueDate = &due
	}
	b, err := h.svcs.Bills.Revise(c.UserContext(), id, upd)
	if err != nil {
		return err
	}
	return c.JSON(b)
}

type paymentRequest struct {
	Amount        *decimal.Decimal   `json:"amount" validate:"required"`
	Mode          domain.PaymentMode `json:"payment_mode" validate:"required,oneof=cash upi online"`
	TransactionID string             `json:"transaction_id" validate:"max=80"`
	Remarks       string             `json:"remarks" validate:"max=255"`
}

func (h *handlers) recordPayment(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.svcs.Payments.Record(c.UserContext(), id, domain.Payment{
		Amount:        *req.Amount,
		Mode:          req.Mode,
		TransactionID: req.TransactionID,
		Remarks:       req.Remarks,
		RecordedBy:    actor,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *handlers) listPayments(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	items, err := h.svcs.Payments.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *handlers) sendReminders(c *fiber.Ctx) error {
	n, err := h.svcs.Reminders.SendOverdue(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reminded": n})
}
