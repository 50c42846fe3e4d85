package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmountInWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount string
		want   string
	}{
		{"1234.50", "One Thousand Two Hundred Thirty Four Rupees and Fifty Paise Only"},
		{"100.00", "One Hundred Rupees Only"},
		{"0", "Zero Rupees Only"},
		{"0.05", "Zero Rupees and Five Paise Only"},
		{"19", "Nineteen Rupees Only"},
		{"20", "Twenty Rupees Only"},
		{"21", "Twenty One Rupees Only"},
		{"99999", "Ninety Nine Thousand Nine Hundred Ninety Nine Rupees Only"},
		{"100000", "One Lakh Rupees Only"},
		{"2550000", "Twenty Five Lakh Fifty Thousand Rupees Only"},
		{"10000000", "One Crore Rupees Only"},
		{"12345678.90", "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees and Ninety Paise Only"},
	}

	for _, tt := range tests {
		got := AmountInWords(dec(tt.amount))
		require.Equal(t, tt.want, got, "amount %s", tt.amount)
	}
}

func TestAmountInWordsRoundsPaise(t *testing.T) {
	t.Parallel()

	// 99.999 rounds up to a whole hundred, no paise clause.
	require.Equal(t, "One Hundred Rupees Only", AmountInWords(dec("99.999")))
	require.Equal(t, "Ten Rupees and One Paise Only", AmountInWords(dec("10.0051")))
}
