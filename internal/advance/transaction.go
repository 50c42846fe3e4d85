package advance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arush420/Project-X/internal/pager"
	"github.com/arush420/Project-X/internal/types"
	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

// ErrTransactionNotFound is returned when an advance transaction is not found in the database.
var ErrTransactionNotFound = errors.New("advance transaction not found")

type TransactionReq struct {
	EmployeeCode   string          `json:"employeeCode"`
	Date           time.Time       `json:"date"`
	Taken          decimal.Decimal `json:"taken"`
	Deducted       decimal.Decimal `json:"deducted"`
	Nature         string          `json:"nature"`
	Mode           types.PayMode   `json:"mode"`
	ChequeNo       string          `json:"chequeNo"`
	PaidReceivedBy string          `json:"paidReceivedBy"`
	Comment        string          `json:"comment"`
}

func (r *TransactionReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.EmployeeCode == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "employeeCode",
			Description: "Employee code must not be empty",
		})
	}
	if r.Date.IsZero() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "date",
			Description: "Date must not be empty",
		})
	}
	if r.Taken.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "taken",
			Description: "Taken amount must not be negative",
		})
	}
	if r.Deducted.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "deducted",
			Description: "Deducted amount must not be negative",
		})
	}
	if r.Taken.IsZero() && r.Deducted.IsZero() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "taken",
			Description: "Either taken or deducted amount must be provided",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Advance transaction is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type ListTransactionsResult struct {
	Transactions  []*Transaction `json:"transactions"`
	NextPageToken string         `json:"nextPageToken"`
}

type TransactionQuery struct {
	ID           int64  `json:"id" param:"id" query:"id"`
	EmployeeCode string `json:"employeeCode" query:"employeeCode"`
	Month        int    `json:"month" query:"month"`
	Year         int    `json:"year" query:"year"`
	PageSize     uint64 `json:"pageSize" query:"pageSize"`
	PageToken    string `json:"pageToken" query:"pageToken"`

	noLimit bool
}

func (q *TransactionQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.ID > 0 {
		and = append(and, sq.Eq{"id": q.ID})
	}
	if q.EmployeeCode != "" {
		and = append(and, sq.Eq{"employee_code": q.EmployeeCode})
	}
	if q.Month > 0 {
		and = append(and, sq.Expr("MONTH(date) = ?", q.Month))
	}
	if q.Year > 0 {
		and = append(and, sq.Expr("YEAR(date) = ?", q.Year))
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

func saveTransaction(ctx context.Context, db *sql.DB, in *Transaction) error {
	q, args := sq.Insert("advance_transactions").
		Columns(
			"employee_code",
			"date",
			"taken",
			"deducted",
			"balance",
			"nature",
			"mode",
			"cheque_no",
			"paid_received_by",
			"comment",
			"created_at",
		).
		Values(
			in.EmployeeCode,
			in.Date,
			in.Taken,
			in.Deducted,
			in.Balance,
			in.Nature,
			in.Mode,
			in.ChequeNo,
			in.PaidReceivedBy,
			in.Comment,
			in.CreatedAt,
		).
		Suffix("SELECT SCOPE_IDENTITY()").
		PlaceholderFormat(sq.AtP).
		MustSql()

	row := db.QueryRowContext(ctx, q, args...)
	if err := row.Scan(&in.ID); err != nil {
		return fmt.Errorf("failed to insert advance transaction: %w", err)
	}

	return nil
}

func listTransactions(ctx context.Context, db *sql.DB, in *TransactionQuery) ([]*Transaction, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))
	if in.noLimit {
		id = "id"
	}

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"employee_code",
		"date",
		"taken",
		"deducted",
		"balance",
		"nature",
		"mode",
		"cheque_no",
		"paid_received_by",
		"comment",
		"created_at",
	).
		From("advance_transactions").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*Transaction, 0)
	for rows.Next() {
		t := new(Transaction)
		err := rows.Scan(
			&t.ID,
			&t.EmployeeCode,
			&t.Date,
			&t.Taken,
			&t.Deducted,
			&t.Balance,
			&t.Nature,
			&t.Mode,
			&t.ChequeNo,
			&t.PaidReceivedBy,
			&t.Comment,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance transaction: %w", err)
		}

		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over advance transactions: %w", err)
	}

	return txs, nil
}

// latestBalance returns the balance of the employee's most recently recorded
// transaction, or zero when the ledger is empty.
func latestBalance(ctx context.Context, db *sql.DB, employeeCode string) (decimal.Decimal, error) {
	q, args := sq.Select("TOP 1 balance").
		From("advance_transactions").
		Where(sq.Eq{"employee_code": employeeCode}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	var balance decimal.Decimal
	err := db.QueryRowContext(ctx, q, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get latest balance: %w", err)
	}

	return balance, nil
}

// sumDeductionsByPeriod sums advance deductions per employee for the given month.
func sumDeductionsByPeriod(ctx context.Context, db *sql.DB, period types.Period) (map[string]decimal.Decimal, error) {
	q, args := sq.Select("employee_code", "COALESCE(SUM(deducted), 0)").
		From("advance_transactions").
		Where(sq.And{
			sq.Expr("MONTH(date) = ?", int(period.Month)),
			sq.Expr("YEAR(date) = ?", period.Year),
		}).
		GroupBy("employee_code").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum advance deductions: %w", err)
	}
	defer rows.Close()

	deductions := make(map[string]decimal.Decimal)
	for rows.Next() {
		var code string
		var sum decimal.Decimal
		if err := rows.Scan(&code, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan advance deduction: %w", err)
		}

		deductions[code] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over advance deductions: %w", err)
	}

	return deductions, nil
}
