package advance

import (
	"testing"
	"time"

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

func TestApplyTransaction(t *testing.T) {
	// Starting from nothing, taking 2000 leaves a 2000 balance.
	balance := ApplyTransaction(decimal.Zero, dec("2000"), decimal.Zero)
	require.True(t, balance.Equal(dec("2000")), "got %s", balance)

	// Recovering 500 the next period brings it to 1500.
	balance = ApplyTransaction(balance, decimal.Zero, dec("500"))
	require.True(t, balance.Equal(dec("1500")), "got %s", balance)
}

func TestApplyTransactionSameEntryBothWays(t *testing.T) {
	balance := ApplyTransaction(dec("1200"), dec("300"), dec("450.50"))
	require.True(t, balance.Equal(dec("1049.50")), "got %s", balance)
}

func TestReplay(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	txs := []*Transaction{
		{Date: day(1), Taken: dec("2000")},
		{Date: day(10), Deducted: dec("500")},
		{Date: day(20), Taken: dec("1000"), Deducted: dec("250")},
	}

	closing := Replay(decimal.Zero, txs)
	require.True(t, closing.Equal(dec("2250")), "got %s", closing)

	require.True(t, txs[0].Balance.Equal(dec("2000")))
	require.True(t, txs[1].Balance.Equal(dec("1500")))
	require.True(t, txs[2].Balance.Equal(dec("2250")))
}

func TestReplayWithOpeningBalance(t *testing.T) {
	txs := []*Transaction{
		{Taken: dec("100")},
	}
	closing := Replay(dec("400"), txs)
	require.True(t, closing.Equal(dec("500")), "got %s", closing)
}

func TestReplayEmptyLedger(t *testing.T) {
	closing := Replay(decimal.Zero, nil)
	require.True(t, closing.Equal(decimal.Zero))
}
