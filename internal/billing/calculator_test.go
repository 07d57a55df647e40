package billing

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleTable() domain.TariffTable {
	return domain.TariffTable{
		VillageID: 1,
		Domestic: domain.DomesticRates{
			UpTo7KL:      d("5"),
			From7To10KL:  d("6"),
			From10To15KL: d("7"),
			From15To20KL: d("8"),
			Above20KL:    d("9"),
		},
		NonDomestic: domain.NonDomesticRates{
			PublicPrivateInstitutions: d("12.50"),
			CommercialEnterprises:     d("20"),
			IndustrialEnterprises:     d("35.75"),
		},
	}
}

func TestDomesticDemand(t *testing.T) {
	rates := sampleTable().Domestic

	tests := []struct {
		name     string
		usage    string
		expected string
	}{
		{"zero usage", "0", "0"},
		{"inside first slab", "4", "20"},
		{"first boundary", "7", "35"},
		{"second boundary", "10", "53"},
		{"third boundary", "15", "88"},
		{"fourth boundary", "20", "128"},
		{"eighteen KL", "18", "112"},
		{"top slab", "25", "173"},
		{"fractional usage", "7.5", "38"},
		{"fraction rounds to paise", "0.333", "1.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DomesticDemand(d(tt.usage), rates)
			require.NoError(t, err)
			assert.True(t, d(tt.expected).Equal(got), "usage %s: expected %s, got %s", tt.usage, tt.expected, got)
		})
	}
}

func TestDomesticDemand_NegativeUsage(t *testing.T) {
	_, err := DomesticDemand(d("-0.01"), sampleTable().Domestic)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDomesticDemand_SlabAdditivity(t *testing.T) {
	rates := sampleTable().Domestic

	at7, err := DomesticDemand(d("7"), rates)
	require.NoError(t, err)
	assert.True(t, d("7").Mul(rates.UpTo7KL).Equal(at7))

	at10, err := DomesticDemand(d("10"), rates)
	require.NoError(t, err)
	assert.True(t, at7.Add(d("3").Mul(rates.From7To10KL)).Equal(at10))
}

func TestDomesticDemand_Monotonic(t *testing.T) {
	rates := sampleTable().Domestic
	step := d("0.25")

	prev := decimal.Zero
	for u := decimal.Zero; u.LessThanOrEqual(d("40")); u = u.Add(step) {
		got, err := DomesticDemand(u, rates)
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev), "demand fell at %s KL", u)
		prev = got
	}
}

func TestDomesticDemand_ZeroForAnyTable(t *testing.T) {
	tables := []domain.DomesticRates{
		{},
		sampleTable().Domestic,
		{UpTo7KL: d("100"), From7To10KL: d("0"), From10To15KL: d("3.3"), From15To20KL: d("1"), Above20KL: d("999")},
	}
	for _, rates := range tables {
		got, err := DomesticDemand(decimal.Zero, rates)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	}
}

func TestSlabBreakdown(t *testing.T) {
	lines, err := SlabBreakdown(d("18"), sampleTable().Domestic)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	expected := []struct{ billable, amount string }{
		{"7", "35"},
		{"3", "18"},
		{"5", "35"},
		{"3", "24"},
		{"0", "0"},
	}
	for i, e := range expected {
		assert.True(t, d(e.billable).Equal(lines[i].Billable), "slab %s billable", lines[i].Band)
		assert.True(t, d(e.amount).Equal(lines[i].Amount), "slab %s amount", lines[i].Band)
	}
	assert.Equal(t, "above 20 KL", lines[4].Band)
}

func TestNonDomesticDemand(t *testing.T) {
	rates := sampleTable().NonDomestic

	t.Run("flat rate per class", func(t *testing.T) {
		got, err := NonDomesticDemand(d("10"), domain.ClassCommercialEnterprises, rates)
		require.NoError(t, err)
		assert.True(t, d("200").Equal(got))

		got, err = NonDomesticDemand(d("3"), domain.ClassIndustrialEnterprises, rates)
		require.NoError(t, err)
		assert.True(t, d("107.25").Equal(got))
	})

	t.Run("linear in usage", func(t *testing.T) {
		for _, class := range []domain.NonDomesticClass{
			domain.ClassPublicPrivateInstitutions,
			domain.ClassCommercialEnterprises,
			domain.ClassIndustrialEnterprises,
		} {
			single, err := NonDomesticDemand(d("13.4"), class, rates)
			require.NoError(t, err)
			double, err := NonDomesticDemand(d("26.8"), class, rates)
			require.NoError(t, err)
			assert.True(t, single.Mul(decimal.NewFromInt(2)).Equal(double), "class %s", class)
		}
	})

	t.Run("negative usage", func(t *testing.T) {
		_, err := NonDomesticDemand(d("-1"), domain.ClassCommercialEnterprises, rates)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := NonDomesticDemand(d("1"), domain.NonDomesticClass("agricultural"), rates)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestDemand(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name      string
		usageType domain.UsageType
		prev      string
		curr      string
		expected  string
	}{
		{"residential uses slabs", domain.UsageResidential, "100", "118", "112"},
		{"commercial", domain.UsageCommercial, "50", "60", "200"},
		{"institutional", domain.UsageInstitutional, "0", "4", "50"},
		{"industrial", domain.UsageIndustrial, "10", "12", "71.5"},
		{"no consumption", domain.UsageResidential, "42", "42", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.ConsumptionRecord{PreviousReading: d(tt.prev), CurrentReading: d(tt.curr), UsageType: tt.usageType}
			got, err := Demand(rec, table)
			require.NoError(t, err)
			assert.True(t, d(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)

			again, err := Demand(rec, table)
			require.NoError(t, err)
			assert.True(t, got.Equal(again))
		})
	}
}

func TestDemand_InvalidRecords(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name string
		rec  domain.ConsumptionRecord
	}{
		{"current below previous", domain.ConsumptionRecord{PreviousReading: d("20"), CurrentReading: d("10"), UsageType: domain.UsageResidential}},
		{"negative reading", domain.ConsumptionRecord{PreviousReading: d("-5"), CurrentReading: d("10"), UsageType: domain.UsageResidential}},
		{"unknown usage type", domain.ConsumptionRecord{PreviousReading: d("0"), CurrentReading: d("10"), UsageType: "agricultural"}},
		{"reading finer than 2 places", domain.ConsumptionRecord{PreviousReading: d("0"), CurrentReading: d("10.125"), UsageType: domain.UsageResidential}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Demand(tt.rec, table)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestValidateTariff(t *testing.T) {
	assert.NoError(t, ValidateTariff(sampleTable()))

	bad := sampleTable()
	bad.NonDomestic.CommercialEnterprises = d("-0.5")
	assert.True(t, errors.Is(ValidateTariff(bad), ErrInvalidInput))

	fine := sampleTable()
	fine.Domestic.UpTo7KL = d("5.555")
	assert.True(t, errors.Is(ValidateTariff(fine), ErrInvalidInput))

	trailing := sampleTable()
	trailing.Domestic.UpTo7KL = d("5.500")
	assert.NoError(t, ValidateTariff(trailing))
}

func TestCheckPrecision(t *testing.T) {
	assert.NoError(t, CheckPrecision("amount", d("12.30")))
	assert.NoError(t, CheckPrecision("amount", d("12.300")))
	assert.True(t, errors.Is(CheckPrecision("amount", d("0.004")), ErrInvalidInput))
}
