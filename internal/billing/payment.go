package billing

import (
	"context"
	"database/sql"
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

// Payment is money received from a client against a service bill.
type Payment struct {
	ID          int64           `json:"id"`
	BillID      int64           `json:"billId"`
	CompanyName string          `json:"companyName"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        types.PayMode   `json:"mode"`
	Date        time.Time       `json:"date"`
	Comment     string          `json:"comment"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type PaymentReq struct {
	BillID      int64           `json:"billId"`
	CompanyName string          `json:"companyName"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        types.PayMode   `json:"mode"`
	Date        time.Time       `json:"date"`
	Comment     string          `json:"comment"`
}

func (r *PaymentReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.BillID <= 0 {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "billId",
			Description: "Bill must be provided",
		})
	}
	if !r.Amount.IsPositive() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "amount",
			Description: "Amount must be greater than zero",
		})
	}
	if r.Date.IsZero() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "date",
			Description: "Date must not be empty",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Payment is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type ListPaymentsResult struct {
	Payments      []*Payment `json:"payments"`
	NextPageToken string     `json:"nextPageToken"`
}

type PaymentQuery struct {
	BillID    int64  `json:"billId" param:"id" query:"billId"`
	PageSize  uint64 `json:"pageSize" query:"pageSize"`
	PageToken string `json:"pageToken" query:"pageToken"`
}

func (q *PaymentQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.BillID > 0 {
		and = append(and, sq.Eq{"bill_id": q.BillID})
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

func savePayment(ctx context.Context, db *sql.DB, in *Payment) error {
	q, args := sq.Insert("bill_payments").
		Columns(
			"bill_id",
			"company_name",
			"amount",
			"mode",
			"date",
			"comment",
			"created_at",
		).
		Values(
			in.BillID,
			in.CompanyName,
			in.Amount,
			in.Mode,
			in.Date,
			in.Comment,
			in.CreatedAt,
		).
		Suffix("SELECT SCOPE_IDENTITY()").
		PlaceholderFormat(sq.AtP).
		MustSql()

	row := db.QueryRowContext(ctx, q, args...)
	if err := row.Scan(&in.ID); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func listPayments(ctx context.Context, db *sql.DB, in *PaymentQuery) ([]*Payment, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"bill_id",
		"company_name",
		"amount",
		"mode",
		"date",
		"comment",
		"created_at",
	).
		From("bill_payments").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*Payment, 0)
	for rows.Next() {
		p := new(Payment)
		err := rows.Scan(
			&p.ID,
			&p.BillID,
			&p.CompanyName,
			&p.Amount,
			&p.Mode,
			&p.Date,
			&p.Comment,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over payments: %w", err)
	}

	return payments, nil
}
