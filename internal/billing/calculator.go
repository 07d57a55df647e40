// Package billing holds the tariff arithmetic and the bill state transitions.
// Every function here is pure: no I/O, no clocks, no shared state.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

// CurrencyPlaces is the precision every computed demand is rounded to.
const CurrencyPlaces = 2

// Residential slab boundaries in KL. Only the rates are configurable.
var slabBounds = []decimal.Decimal{
	decimal.NewFromInt(0),
	decimal.NewFromInt(7),
	decimal.NewFromInt(10),
	decimal.NewFromInt(15),
	decimal.NewFromInt(20),
}

var slabBands = []string{"0-7 KL", "7-10 KL", "10-15 KL", "15-20 KL", "above 20 KL"}

// SlabCharge is the portion of residential usage that falls into one slab.
// Amount is exact; only the summed demand is rounded.
type SlabCharge struct {
	Band     string          `json:"band"`
	Billable decimal.Decimal `json:"billable_kl"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

func slabRates(r domain.DomesticRates) []decimal.Decimal {
	return []decimal.Decimal{r.UpTo7KL, r.From7To10KL, r.From10To15KL, r.From15To20KL, r.Above20KL}
}

// SlabBreakdown splits usage across the five residential slabs. Each slab is billed
// only for the volume inside it, at its own rate. Usage sitting exactly on a boundary
// stays in the lower slab.
func SlabBreakdown(usageKL decimal.Decimal, rates domain.DomesticRates) ([]SlabCharge, error) {
	if usageKL.IsNegative() {
		return nil, invalidInputf("usage %s KL is negative", usageKL)
	}

	lines := make([]SlabCharge, 0, len(slabBounds))
	for i, rate := range slabRates(rates) {
		lower := slabBounds[i]
		var billable decimal.Decimal
		if i+1 < len(slabBounds) {
			billable = decimal.Min(usageKL, slabBounds[i+1]).Sub(lower)
		} else {
			billable = usageKL.Sub(lower)
		}
		billable = decimal.Max(decimal.Zero, billable)

		lines = append(lines, SlabCharge{
			Band:     slabBands[i],
			Billable: billable,
			Rate:     rate,
			Amount:   billable.Mul(rate),
		})
	}
	return lines, nil
}

// DomesticDemand prices residential usage progressively across the slabs.
func DomesticDemand(usageKL decimal.Decimal, rates domain.DomesticRates) (decimal.Decimal, error) {
	lines, err := SlabBreakdown(usageKL, rates)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total.Round(CurrencyPlaces), nil
}

// NonDomesticDemand prices usage at the flat rate of the given class.
func NonDomesticDemand(usageKL decimal.Decimal, class domain.NonDomesticClass, rates domain.NonDomesticRates) (decimal.Decimal, error) {
	if usageKL.IsNegative() {
		return decimal.Zero, invalidInputf("usage %s KL is negative", usageKL)
	}

	var rate decimal.Decimal
	switch class {
	case domain.ClassPublicPrivateInstitutions:
		rate = rates.PublicPrivateInstitutions
	case domain.ClassCommercialEnterprises:
		rate = rates.CommercialEnterprises
	case domain.ClassIndustrialEnterprises:
		rate = rates.IndustrialEnterprises
	default:
		return decimal.Zero, invalidInputf("unknown non-domestic class %q", class)
	}
	return usageKL.Mul(rate).Round(CurrencyPlaces), nil
}

// ClassFor maps a non-residential usage type onto its flat-rate class.
func ClassFor(u domain.UsageType) (domain.NonDomesticClass, error) {
	switch u {
	case domain.UsageCommercial:
		return domain.ClassCommercialEnterprises, nil
	case domain.UsageInstitutional:
		return domain.ClassPublicPrivateInstitutions, nil
	case domain.UsageIndustrial:
		return domain.ClassIndustrialEnterprises, nil
	}
	return "", invalidInputf("usage type %q has no non-domestic class", u)
}

// ValidateRecord checks the readings of a consumption record.
func ValidateRecord(record domain.ConsumptionRecord) error {
	if record.PreviousReading.IsNegative() || record.CurrentReading.IsNegative() {
		return invalidInputf("meter readings must be non-negative (previous %s, current %s)",
			record.PreviousReading, record.CurrentReading)
	}
	if err := CheckPrecision("previous reading", record.PreviousReading); err != nil {
		return err
	}
	if err := CheckPrecision("current reading", record.CurrentReading); err != nil {
		return err
	}
	if record.CurrentReading.LessThan(record.PreviousReading) {
		return invalidInputf("current reading %s is below previous reading %s",
			record.CurrentReading, record.PreviousReading)
	}
	if !record.UsageType.Valid() {
		return invalidInputf("unknown usage type %q", record.UsageType)
	}
	return nil
}

// Demand computes the current-period charge for a consumption record.
func Demand(record domain.ConsumptionRecord, table domain.TariffTable) (decimal.Decimal, error) {
	if err := ValidateRecord(record); err != nil {
		return decimal.Zero, err
	}
	usage := record.TotalUsage()

	if record.UsageType == domain.UsageResidential {
		return DomesticDemand(usage, table.Domestic)
	}
	class, err := ClassFor(record.UsageType)
	if err != nil {
		return decimal.Zero, err
	}
	return NonDomesticDemand(usage, class, table.NonDomestic)
}

// ValidateTariff rejects tables carrying a negative rate or a rate finer than paise.
func ValidateTariff(table domain.TariffTable) error {
	rates := append(slabRates(table.Domestic),
		table.NonDomestic.PublicPrivateInstitutions,
		table.NonDomestic.CommercialEnterprises,
		table.NonDomestic.IndustrialEnterprises,
	)
	for _, r := range rates {
		if r.IsNegative() {
			return invalidInputf("tariff rate %s is negative", r)
		}
		if err := CheckPrecision("tariff rate", r); err != nil {
			return err
		}
	}
	return nil
}
