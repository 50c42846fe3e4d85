package money

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

func TestRound2HalfUp(t *testing.T) {
	cases := map[string]string{
		"13866.666666": "13866.67",
		"112.505":      "112.51",
		"112.504":      "112.50",
		"2.675":        "2.68",
		"0":            "0",
	}

	for in, want := range cases {
		require.True(t, Round2(dec(in)).Equal(dec(want)), "Round2(%s)", in)
	}
}

func TestPercent(t *testing.T) {
	require.True(t, Percent(dec("15000"), dec("12")).Equal(dec("1800.00")))
	require.True(t, Percent(dec("15000"), dec("0.75")).Equal(dec("112.50")))
	require.True(t, Percent(dec("100"), decimal.Zero).Equal(decimal.Zero))

	// A negative rate counts as zero.
	require.True(t, Percent(dec("100"), dec("-3.25")).Equal(decimal.Zero))
}

func TestRoundToNearest(t *testing.T) {
	require.True(t, RoundToNearest(dec("1013.40"), dec("5")).Equal(dec("1015")))
	require.True(t, RoundToNearest(dec("1012.40"), dec("5")).Equal(dec("1010")))
	require.True(t, RoundToNearest(dec("1012.50"), dec("1")).Equal(dec("1013")))

	// An increment of 0.01 never moves a two-decimal amount.
	require.True(t, RoundToNearest(dec("1012.53"), dec("0.01")).Equal(dec("1012.53")))

	// No increment means no rounding.
	require.True(t, RoundToNearest(dec("1012.53"), decimal.Zero).Equal(dec("1012.53")))
}

func TestSum(t *testing.T) {
	require.True(t, Sum(dec("1.10"), dec("2.20"), dec("3.30")).Equal(dec("6.60")))
	require.True(t, Sum().Equal(decimal.Zero))
}
