package gst

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

func TestSplitTaxIntraState(t *testing.T) {
	t.Parallel()

	split := SplitTax(dec("10000"), dec("9"), dec("9"), decimal.Zero)
	require.True(t, split.CGST.Equal(dec("900.00")), "cgst %s", split.CGST)
	require.True(t, split.SGST.Equal(dec("900.00")), "sgst %s", split.SGST)
	require.True(t, split.IGST.IsZero())
	require.True(t, split.Total.Equal(dec("1800.00")), "total %s", split.Total)
}

func TestSplitTaxInterState(t *testing.T) {
	t.Parallel()

	split := SplitTax(dec("10000"), decimal.Zero, decimal.Zero, dec("18"))
	require.True(t, split.CGST.IsZero())
	require.True(t, split.SGST.IsZero())
	require.True(t, split.IGST.Equal(dec("1800.00")), "igst %s", split.IGST)
	require.True(t, split.Total.Equal(dec("1800.00")), "total %s", split.Total)
}

func TestSplitTaxRoundsPerHead(t *testing.T) {
	t.Parallel()

	// 2.5% of 333.33 is 8.33325, each half rounds to 8.33 independently.
	split := SplitTax(dec("333.33"), dec("2.5"), dec("2.5"), decimal.Zero)
	require.True(t, split.CGST.Equal(dec("8.33")), "cgst %s", split.CGST)
	require.True(t, split.SGST.Equal(dec("8.33")), "sgst %s", split.SGST)
	require.True(t, split.Total.Equal(dec("16.66")), "total %s", split.Total)
}

func TestSplitTaxZeroRates(t *testing.T) {
	t.Parallel()

	split := SplitTax(dec("5000"), decimal.Zero, decimal.Zero, decimal.Zero)
	require.True(t, split.Total.IsZero())
}

func TestLineItemCompute(t *testing.T) {
	t.Parallel()

	line := &LineItem{
		Description: "Safety helmets",
		UnitCost:    dec("250"),
		Quantity:    dec("40"),
		CGSTPct:     dec("9"),
		SGSTPct:     dec("9"),
	}

	amounts := line.Compute()
	require.True(t, amounts.Gross.Equal(dec("10000.00")), "gross %s", amounts.Gross)
	require.True(t, amounts.Tax.CGST.Equal(dec("900.00")))
	require.True(t, amounts.Tax.SGST.Equal(dec("900.00")))
	require.True(t, amounts.Net.Equal(dec("11800.00")), "net %s", amounts.Net)
}

func TestLineItemComputeFractionalQuantity(t *testing.T) {
	t.Parallel()

	line := &LineItem{
		UnitCost: dec("99.99"),
		Quantity: dec("2.5"),
		IGSTPct:  dec("18"),
	}

	amounts := line.Compute()
	require.True(t, amounts.Gross.Equal(dec("249.98")), "gross %s", amounts.Gross)
	require.True(t, amounts.Tax.IGST.Equal(dec("45.00")), "igst %s", amounts.Tax.IGST)
	require.True(t, amounts.Net.Equal(dec("294.98")), "net %s", amounts.Net)
}
