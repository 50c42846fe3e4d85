// Package advance keeps the staff advance ledger: money paid out to staff
// ahead of wages and recovered from later salaries. The ledger is append
// only; every transaction's balance is derived from the one before it.
package advance

import (
	"time"

	"github.com/arush420/Project-X/internal/money"
	"github.com/arush420/Project-X/internal/types"
	"github.com/shopspring/decimal"
)

// Transaction is one advance ledger entry. Balance is the running balance
// after this entry, derived from the preceding entry's balance.
type Transaction struct {
	ID             int64           `json:"id"`
	EmployeeCode   string          `json:"employeeCode"`
	Date           time.Time       `json:"date"`
	Taken          decimal.Decimal `json:"taken"`
	Deducted       decimal.Decimal `json:"deducted"`
	Balance        decimal.Decimal `json:"balance"`
	Nature         string          `json:"nature"`
	Mode           types.PayMode   `json:"mode"`
	ChequeNo       string          `json:"chequeNo"`
	PaidReceivedBy string          `json:"paidReceivedBy"`
	Comment        string          `json:"comment"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ApplyTransaction computes the balance after one ledger entry:
//
//	new = previous - deducted + taken
//
// When no prior entry exists the previous balance is zero.
func ApplyTransaction(previousBalance, taken, deducted decimal.Decimal) decimal.Decimal {
	return money.Round2(previousBalance.Sub(deducted).Add(taken))
}

// Replay folds an ordered sequence of transactions from an opening balance,
// filling in each entry's running balance, and returns the closing balance.
// The caller supplies the order; Replay does not sort. Inserting a backdated
// entry does not rewrite balances already written to the ledger; replaying
// is how a discrepancy would be found.
func Replay(opening decimal.Decimal, txs []*Transaction) decimal.Decimal {
	balance := opening
	for _, tx := range txs {
		balance = ApplyTransaction(balance, tx.Taken, tx.Deducted)
		tx.Balance = balance
	}
	return balance
}
