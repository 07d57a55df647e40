package http

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/mailer"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/repository"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/service"
)

func statusOf(err error) int {
	var fe *fiber.Error
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve), errors.Is(err, billing.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, repository.ErrConflict),
		errors.Is(err, billing.ErrBillAlreadySettled), errors.Is(err, billing.ErrBillCarriedForward):
		return fiber.StatusConflict
	case errors.Is(err, mailer.ErrInvalidOTP):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every handler error as {"error": message}.
// Internal errors are logged and their details withheld.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("internal server error")
		msg = "internal server error"
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
