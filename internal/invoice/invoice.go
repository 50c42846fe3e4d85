// Package invoice keeps GST e-invoices raised against client sites.
package invoice

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

// ErrInvoiceNotFound is returned when an e-invoice is not found in the database.
var ErrInvoiceNotFound = errors.New("invoice not found")

// EInvoice is one GST invoice. Figures are stored as computed at creation;
// cancelling marks the invoice rather than deleting it, since issued invoice
// numbers must stay on record.
type EInvoice struct {
	ID        int64       `json:"id"`
	InvoiceNo string      `json:"invoiceNo"`
	Site      string      `json:"site"`
	Month     types.Month `json:"month"`
	Year      int         `json:"year"`

	BuyerName    string `json:"buyerName"`
	BuyerGSTIN   string `json:"buyerGstin"`
	BuyerAddress string `json:"buyerAddress"`

	TaxableValue decimal.Decimal `json:"taxableValue"`
	CGSTPct      decimal.Decimal `json:"cgstPct"`
	SGSTPct      decimal.Decimal `json:"sgstPct"`
	IGSTPct      decimal.Decimal `json:"igstPct"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Cess         decimal.Decimal `json:"cess"`
	Total        decimal.Decimal `json:"total"`

	Deduction          decimal.Decimal `json:"deduction"`
	DeductionNarration string          `json:"deductionNarration"`
	BillAmount         decimal.Decimal `json:"billAmount"`

	Cancelled bool      `json:"cancelled"`
	CreatedAt time.Time `json:"createdAt"`
}

type InvoiceReq struct {
	ID   int64  `json:"-" param:"id"`
	Site string `json:"site"`

	Month types.Month `json:"month"`
	Year  int         `json:"year"`

	BuyerName    string `json:"buyerName"`
	BuyerGSTIN   string `json:"buyerGstin"`
	BuyerAddress string `json:"buyerAddress"`

	TaxableValue decimal.Decimal `json:"taxableValue"`
	CGSTPct      decimal.Decimal `json:"cgstPct"`
	SGSTPct      decimal.Decimal `json:"sgstPct"`
	IGSTPct      decimal.Decimal `json:"igstPct"`
	Cess         decimal.Decimal `json:"cess"`

	Deduction          decimal.Decimal `json:"deduction"`
	DeductionNarration string          `json:"deductionNarration"`
}

func (r *InvoiceReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.Site == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "site",
			Description: "Site must not be empty",
		})
	}

	period := types.Period{Month: r.Month, Year: r.Year}
	if !period.Valid() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "month",
			Description: "Month and year must form a valid period",
		})
	}
	if r.BuyerName == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "buyerName",
			Description: "Buyer name must not be empty",
		})
	}
	if !types.ValidGSTIN(r.BuyerGSTIN) {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "buyerGstin",
			Description: "Buyer GSTIN is not a valid GST number",
		})
	}
	if r.TaxableValue.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "taxableValue",
			Description: "Taxable value must not be negative",
		})
	}
	if r.Cess.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "cess",
			Description: "Cess must not be negative",
		})
	}
	if r.Deduction.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "deduction",
			Description: "Deduction must not be negative",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Invoice is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type ListInvoicesResult struct {
	Invoices      []*EInvoice `json:"invoices"`
	NextPageToken string      `json:"nextPageToken"`
}

type InvoiceQuery struct {
	ID        int64       `json:"id" param:"id" query:"id"`
	InvoiceNo string      `json:"invoiceNo" query:"invoiceNo"`
	Site      string      `json:"site" query:"site"`
	Month     types.Month `json:"month" query:"month"`
	Year      int         `json:"year" query:"year"`
	Cancelled *bool       `json:"cancelled" query:"cancelled"`
	PageSize  uint64      `json:"pageSize" query:"pageSize"`
	PageToken string      `json:"pageToken" query:"pageToken"`
}

func (q *InvoiceQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.ID > 0 {
		and = append(and, sq.Eq{"id": q.ID})
	}
	if q.InvoiceNo != "" {
		and = append(and, sq.Eq{"invoice_no": q.InvoiceNo})
	}
	if q.Site != "" {
		and = append(and, sq.Eq{"site": q.Site})
	}
	if q.Month.Valid() {
		and = append(and, sq.Eq{"month": int(q.Month)})
	}
	if q.Year > 0 {
		and = append(and, sq.Eq{"year": q.Year})
	}
	if q.Cancelled != nil {
		and = append(and, sq.Eq{"cancelled": *q.Cancelled})
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

func saveInvoice(ctx context.Context, db *sql.DB, in *EInvoice) error {
	updatedQuery, args := sq.Update("e_invoices").
		Set("site", in.Site).
		Set("month", int(in.Month)).
		Set("year", in.Year).
		Set("buyer_name", in.BuyerName).
		Set("buyer_gstin", in.BuyerGSTIN).
		Set("buyer_address", in.BuyerAddress).
		Set("taxable_value", in.TaxableValue).
		Set("cgst_pct", in.CGSTPct).
		Set("sgst_pct", in.SGSTPct).
		Set("igst_pct", in.IGSTPct).
		Set("cgst", in.CGST).
		Set("sgst", in.SGST).
		Set("igst", in.IGST).
		Set("cess", in.Cess).
		Set("total", in.Total).
		Set("deduction", in.Deduction).
		Set("deduction_narration", in.DeductionNarration).
		Set("bill_amount", in.BillAmount).
		Set("cancelled", in.Cancelled).
		Where(sq.Eq{"id": in.ID}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	effected, err := db.ExecContext(ctx, updatedQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rowsAffected, err := effected.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		insertQuery, args := sq.Insert("e_invoices").
			Columns(
				"invoice_no",
				"site",
				"month",
				"year",
				"buyer_name",
				"buyer_gstin",
				"buyer_address",
				"taxable_value",
				"cgst_pct",
				"sgst_pct",
				"igst_pct",
				"cgst",
				"sgst",
				"igst",
				"cess",
				"total",
				"deduction",
				"deduction_narration",
				"bill_amount",
				"cancelled",
				"created_at",
			).
			Values(
				in.InvoiceNo,
				in.Site,
				int(in.Month),
				in.Year,
				in.BuyerName,
				in.BuyerGSTIN,
				in.BuyerAddress,
				in.TaxableValue,
				in.CGSTPct,
				in.SGSTPct,
				in.IGSTPct,
				in.CGST,
				in.SGST,
				in.IGST,
				in.Cess,
				in.Total,
				in.Deduction,
				in.DeductionNarration,
				in.BillAmount,
				in.Cancelled,
				in.CreatedAt,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := db.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&in.ID); err != nil {
			return fmt.Errorf("failed to insert invoice: %w", err)
		}
	}

	return nil
}

func listInvoices(ctx context.Context, db *sql.DB, in *InvoiceQuery) ([]*EInvoice, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"invoice_no",
		"site",
		"month",
		"year",
		"buyer_name",
		"buyer_gstin",
		"buyer_address",
		"taxable_value",
		"cgst_pct",
		"sgst_pct",
		"igst_pct",
		"cgst",
		"sgst",
		"igst",
		"cess",
		"total",
		"deduction",
		"deduction_narration",
		"bill_amount",
		"cancelled",
		"created_at",
	).
		From("e_invoices").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]*EInvoice, 0)
	for rows.Next() {
		inv := new(EInvoice)
		err := rows.Scan(
			&inv.ID,
			&inv.InvoiceNo,
			&inv.Site,
			&inv.Month,
			&inv.Year,
			&inv.BuyerName,
			&inv.BuyerGSTIN,
			&inv.BuyerAddress,
			&inv.TaxableValue,
			&inv.CGSTPct,
			&inv.SGSTPct,
			&inv.IGSTPct,
			&inv.CGST,
			&inv.SGST,
			&inv.IGST,
			&inv.Cess,
			&inv.Total,
			&inv.Deduction,
			&inv.DeductionNarration,
			&inv.BillAmount,
			&inv.Cancelled,
			&inv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over invoices: %w", err)
	}

	return invoices, nil
}

func getInvoice(ctx context.Context, db *sql.DB, in *InvoiceQuery) (*EInvoice, error) {
	in.PageSize = 1

	if in.ID == 0 && in.InvoiceNo == "" {
		return nil, ErrInvoiceNotFound
	}

	invoices, err := listInvoices(ctx, db, in)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, ErrInvoiceNotFound
	}

	return invoices[0], nil
}
