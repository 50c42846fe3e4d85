package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyIntraState(t *testing.T) {
	t.Parallel()

	template := &Template{
		ESIRate:            dec("4.75"),
		ServiceChargeRate:  dec("8"),
		CGSTRate:           dec("9"),
		SGSTRate:           dec("9"),
		ApplyESI:           true,
		ApplyServiceCharge: true,
		ApplyCGSTSGST:      true,
	}

	totals := Apply(template, dec("100000"))

	// taxable = 100000 + 4750 + 8000
	require.True(t, totals.TaxableValue.Equal(dec("112750.00")), "taxable %s", totals.TaxableValue)
	require.True(t, totals.CGST.Equal(dec("10147.50")), "cgst %s", totals.CGST)
	require.True(t, totals.SGST.Equal(dec("10147.50")), "sgst %s", totals.SGST)
	require.True(t, totals.IGST.IsZero())
	require.True(t, totals.Total.Equal(dec("133045.00")), "total %s", totals.Total)
	require.True(t, totals.RoundedTotal.Equal(totals.Total))
	require.True(t, totals.RoundingDifference.IsZero())
}

func TestApplyInterState(t *testing.T) {
	t.Parallel()

	template := &Template{
		IGSTRate:  dec("18"),
		ApplyIGST: true,
	}

	totals := Apply(template, dec("50000"))
	require.True(t, totals.TaxableValue.Equal(dec("50000.00")))
	require.True(t, totals.CGST.IsZero())
	require.True(t, totals.SGST.IsZero())
	require.True(t, totals.IGST.Equal(dec("9000.00")), "igst %s", totals.IGST)
	require.True(t, totals.Total.Equal(dec("59000.00")), "total %s", totals.Total)
}

func TestApplyNoTaxMode(t *testing.T) {
	t.Parallel()

	template := &Template{
		ESIRate:  dec("4.75"),
		ApplyESI: true,
	}

	totals := Apply(template, dec("10000"))
	require.True(t, totals.TaxableValue.Equal(dec("10475.00")), "taxable %s", totals.TaxableValue)
	require.True(t, totals.CGST.IsZero())
	require.True(t, totals.SGST.IsZero())
	require.True(t, totals.IGST.IsZero())
	require.True(t, totals.Total.Equal(totals.TaxableValue))
}

func TestApplyRoundToNearestFiveRupees(t *testing.T) {
	t.Parallel()

	template := &Template{
		IGSTRate:       dec("18"),
		ApplyIGST:      true,
		RoundToNearest: dec("5"),
	}

	totals := Apply(template, dec("10001"))
	// total = 10001 + 1800.18 = 11801.18, nearest 5 is 11800
	require.True(t, totals.Total.Equal(dec("11801.18")), "total %s", totals.Total)
	require.True(t, totals.RoundedTotal.Equal(dec("11800")), "rounded %s", totals.RoundedTotal)
	require.True(t, totals.RoundingDifference.Equal(dec("-1.18")), "difference %s", totals.RoundingDifference)
}

func TestApplyRoundToNearestPaisaIsNoop(t *testing.T) {
	t.Parallel()

	template := &Template{
		CGSTRate:       dec("9"),
		SGSTRate:       dec("9"),
		ApplyCGSTSGST:  true,
		RoundToNearest: dec("0.01"),
	}

	totals := Apply(template, dec("12345.67"))
	require.True(t, totals.RoundedTotal.Equal(totals.Total))
	require.True(t, totals.RoundingDifference.IsZero())
}

func TestTemplateReqValidateExclusiveTaxModes(t *testing.T) {
	t.Parallel()

	req := &TemplateReq{
		Name:          "Both modes",
		ApplyCGSTSGST: true,
		ApplyIGST:     true,
	}
	require.Error(t, req.Validate())

	req.ApplyIGST = false
	require.NoError(t, req.Validate())
}

func TestTemplateReqValidateNegativeRate(t *testing.T) {
	t.Parallel()

	req := &TemplateReq{
		Name:    "Negative",
		ESIRate: dec("-1"),
	}
	require.Error(t, req.Validate())
}
