package billing

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput covers negative volumes or amounts and unknown usage types, classes or modes.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBillAlreadySettled is returned for any change attempted on a paid bill.
	ErrBillAlreadySettled = errors.New("bill already settled")
	// ErrBillCarriedForward is returned for any change attempted on a bill whose
	// balance was moved into a later bill as arrears.
	ErrBillCarriedForward = errors.New("bill carried forward")
)

func invalidInputf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

// CheckPrecision rejects amounts and volumes finer than CurrencyPlaces. They would
// otherwise be rounded on storage.
func CheckPrecision(name string, v decimal.Decimal) error {
	if !v.Equal(v.Round(CurrencyPlaces)) {
		return invalidInputf("%s %s has more than %d decimal places", name, v, CurrencyPlaces)
	}
	return nil
}
