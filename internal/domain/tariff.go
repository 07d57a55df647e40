package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageType classifies a connection and selects the tariff branch used to bill it.
type UsageType string

const (
	UsageResidential   UsageType = "residential"
	UsageCommercial    UsageType = "commercial"
	UsageInstitutional UsageType = "institutional"
	UsageIndustrial    UsageType = "industrial"
)

func (u UsageType) Valid() bool {
	switch u {
	case UsageResidential, UsageCommercial, UsageInstitutional, UsageIndustrial:
		return true
	}
	return false
}

// NonDomesticClass names one of the flat-rate customer classes.
type NonDomesticClass string

const (
	ClassPublicPrivateInstitutions NonDomesticClass = "public_private_institutions"
	ClassCommercialEnterprises     NonDomesticClass = "commercial_enterprises"
	ClassIndustrialEnterprises     NonDomesticClass = "industrial_enterprises"
)

// DomesticRates are the per-KL rates of the five residential slabs.
// The slab boundaries themselves (7, 10, 15, 20 KL) are fixed.
type DomesticRates struct {
	UpTo7KL      decimal.Decimal `json:"up_to_7kl"`
	From7To10KL  decimal.Decimal `json:"from_7_to_10kl"`
	From10To15KL decimal.Decimal `json:"from_10_to_15kl"`
	From15To20KL decimal.Decimal `json:"from_15_to_20kl"`
	Above20KL    decimal.Decimal `json:"above_20kl"`
}

// NonDomesticRates are flat per-KL rates, one per class.
type NonDomesticRates struct {
	PublicPrivateInstitutions decimal.Decimal `json:"public_private_institutions"`
	CommercialEnterprises     decimal.Decimal `json:"commercial_enterprises"`
	IndustrialEnterprises     decimal.Decimal `json:"industrial_enterprises"`
}

// TariffTable is the rate configuration owned by one village.
type TariffTable struct {
	VillageID   int64            `json:"village_id"`
	Domestic    DomesticRates    `json:"domestic"`
	NonDomestic NonDomesticRates `json:"non_domestic"`
	UpdatedBy   *int64           `json:"updated_by,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ConsumptionRecord is a pair of meter readings for one billing period.
type ConsumptionRecord struct {
	PreviousReading decimal.Decimal `json:"previous_reading"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	UsageType       UsageType       `json:"usage_type"`
}

// TotalUsage is the volume consumed between the two readings.
func (r ConsumptionRecord) TotalUsage() decimal.Decimal {
	return r.CurrentReading.Sub(r.PreviousReading)
}
