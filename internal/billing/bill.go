package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arush420/Project-X/internal/pager"
	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

var (
	// ErrTemplateNotFound is returned when a bill template is not found in the database.
	ErrTemplateNotFound = errors.New("bill template not found")

	// ErrBillNotFound is returned when a service bill is not found in the database.
	ErrBillNotFound = errors.New("service bill not found")
)

// ServiceBill is one bill raised for a client. It references a template but
// stores the totals as computed at the time its items last changed, so a
// later template edit does not alter it.
type ServiceBill struct {
	ID         int64  `json:"id"`
	BillNo     string `json:"billNo"`
	TemplateID int64  `json:"templateId"`
	ClientName string `json:"clientName"`
	Site       string `json:"site"`

	Items []*BillItem `json:"items"`

	Totals        Totals    `json:"totals"`
	AmountInWords string    `json:"amountInWords"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BillItem is one billed line, in display order.
type BillItem struct {
	ID          int64           `json:"id"`
	BillID      int64           `json:"-"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type BillItemReq struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type BillReq struct {
	ID         int64          `json:"-" param:"id"`
	TemplateID int64          `json:"templateId"`
	ClientName string         `json:"clientName"`
	Site       string         `json:"site"`
	Items      []*BillItemReq `json:"items"`
	Date       time.Time      `json:"date"`
}

func (r *BillReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.TemplateID <= 0 {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "templateId",
			Description: "Template must be provided",
		})
	}
	if r.ClientName == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "clientName",
			Description: "Client name must not be empty",
		})
	}
	if len(r.Items) == 0 {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "items",
			Description: "A bill must have at least one item",
		})
	}
	for i, item := range r.Items {
		if item.Description == "" {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       fmt.Sprintf("items[%d].description", i),
				Description: "Description must not be empty",
			})
		}
		if item.Amount.IsNegative() {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       fmt.Sprintf("items[%d].amount", i),
				Description: "Amount must not be negative",
			})
		}
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Service bill is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type ListBillsResult struct {
	Bills         []*ServiceBill `json:"bills"`
	NextPageToken string         `json:"nextPageToken"`
}

type BillQuery struct {
	ID         int64  `json:"id" param:"id" query:"id"`
	BillNo     string `json:"billNo" query:"billNo"`
	TemplateID int64  `json:"templateId" query:"templateId"`
	ClientName string `json:"clientName" query:"clientName"`
	Site       string `json:"site" query:"site"`
	PageSize   uint64 `json:"pageSize" query:"pageSize"`
	PageToken  string `json:"pageToken" query:"pageToken"`
}

func (q *BillQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.ID > 0 {
		and = append(and, sq.Eq{"id": q.ID})
	}
	if q.BillNo != "" {
		and = append(and, sq.Eq{"bill_no": q.BillNo})
	}
	if q.TemplateID > 0 {
		and = append(and, sq.Eq{"template_id": q.TemplateID})
	}
	if q.ClientName != "" {
		and = append(and, sq.Expr("client_name LIKE ?", "%"+q.ClientName+"%"))
	}
	if q.Site != "" {
		and = append(and, sq.Eq{"site": q.Site})
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

func saveTemplate(ctx context.Context, db *sql.DB, in *Template) error {
	updatedQuery, args := sq.Update("bill_templates").
		Set("name", in.Name).
		Set("esi_rate", in.ESIRate).
		Set("service_charge_rate", in.ServiceChargeRate).
		Set("cgst_rate", in.CGSTRate).
		Set("sgst_rate", in.SGSTRate).
		Set("igst_rate", in.IGSTRate).
		Set("apply_esi", in.ApplyESI).
		Set("apply_service_charge", in.ApplyServiceCharge).
		Set("apply_cgst_sgst", in.ApplyCGSTSGST).
		Set("apply_igst", in.ApplyIGST).
		Set("round_to_nearest", in.RoundToNearest).
		Set("updated_at", in.UpdatedAt).
		Where(sq.Eq{"id": in.ID}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	effected, err := db.ExecContext(ctx, updatedQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update bill template: %w", err)
	}

	rowsAffected, err := effected.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		insertQuery, args := sq.Insert("bill_templates").
			Columns(
				"name",
				"esi_rate",
				"service_charge_rate",
				"cgst_rate",
				"sgst_rate",
				"igst_rate",
				"apply_esi",
				"apply_service_charge",
				"apply_cgst_sgst",
				"apply_igst",
				"round_to_nearest",
				"created_at",
				"updated_at",
			).
			Values(
				in.Name,
				in.ESIRate,
				in.ServiceChargeRate,
				in.CGSTRate,
				in.SGSTRate,
				in.IGSTRate,
				in.ApplyESI,
				in.ApplyServiceCharge,
				in.ApplyCGSTSGST,
				in.ApplyIGST,
				in.RoundToNearest,
				in.CreatedAt,
				in.UpdatedAt,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := db.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&in.ID); err != nil {
			return fmt.Errorf("failed to insert bill template: %w", err)
		}
	}

	return nil
}

func getTemplate(ctx context.Context, db *sql.DB, id int64) (*Template, error) {
	q, args := sq.Select(
		"id",
		"name",
		"esi_rate",
		"service_charge_rate",
		"cgst_rate",
		"sgst_rate",
		"igst_rate",
		"apply_esi",
		"apply_service_charge",
		"apply_cgst_sgst",
		"apply_igst",
		"round_to_nearest",
		"created_at",
		"updated_at",
	).
		From("bill_templates").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	t := new(Template)
	row := db.QueryRowContext(ctx, q, args...)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.ESIRate,
		&t.ServiceChargeRate,
		&t.CGSTRate,
		&t.SGSTRate,
		&t.IGSTRate,
		&t.ApplyESI,
		&t.ApplyServiceCharge,
		&t.ApplyCGSTSGST,
		&t.ApplyIGST,
		&t.RoundToNearest,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill template: %w", err)
	}

	return t, nil
}

func listTemplates(ctx context.Context, db *sql.DB) ([]*Template, error) {
	q, args := sq.Select(
		"id",
		"name",
		"esi_rate",
		"service_charge_rate",
		"cgst_rate",
		"sgst_rate",
		"igst_rate",
		"apply_esi",
		"apply_service_charge",
		"apply_cgst_sgst",
		"apply_igst",
		"round_to_nearest",
		"created_at",
		"updated_at",
	).
		From("bill_templates").
		OrderBy("name").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bill templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*Template, 0)
	for rows.Next() {
		t := new(Template)
		err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.ESIRate,
			&t.ServiceChargeRate,
			&t.CGSTRate,
			&t.SGSTRate,
			&t.IGSTRate,
			&t.ApplyESI,
			&t.ApplyServiceCharge,
			&t.ApplyCGSTSGST,
			&t.ApplyIGST,
			&t.RoundToNearest,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill template: %w", err)
		}

		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over bill templates: %w", err)
	}

	return templates, nil
}

func saveBillTx(ctx context.Context, tx *sql.Tx, in *ServiceBill) error {
	updatedQuery, args := sq.Update("service_bills").
		Set("template_id", in.TemplateID).
		Set("client_name", in.ClientName).
		Set("site", in.Site).
		Set("taxable_value", in.Totals.TaxableValue).
		Set("cgst", in.Totals.CGST).
		Set("sgst", in.Totals.SGST).
		Set("igst", in.Totals.IGST).
		Set("total", in.Totals.Total).
		Set("rounded_total", in.Totals.RoundedTotal).
		Set("rounding_difference", in.Totals.RoundingDifference).
		Set("amount_in_words", in.AmountInWords).
		Set("date", in.Date).
		Where(sq.Eq{"id": in.ID}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	effected, err := tx.ExecContext(ctx, updatedQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update service bill: %w", err)
	}

	rowsAffected, err := effected.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		insertQuery, args := sq.Insert("service_bills").
			Columns(
				"bill_no",
				"template_id",
				"client_name",
				"site",
				"taxable_value",
				"cgst",
				"sgst",
				"igst",
				"total",
				"rounded_total",
				"rounding_difference",
				"amount_in_words",
				"date",
				"created_at",
			).
			Values(
				in.BillNo,
				in.TemplateID,
				in.ClientName,
				in.Site,
				in.Totals.TaxableValue,
				in.Totals.CGST,
				in.Totals.SGST,
				in.Totals.IGST,
				in.Totals.Total,
				in.Totals.RoundedTotal,
				in.Totals.RoundingDifference,
				in.AmountInWords,
				in.Date,
				in.CreatedAt,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := tx.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&in.ID); err != nil {
			return fmt.Errorf("failed to insert service bill: %w", err)
		}
	}

	return saveBillItemsTx(ctx, tx, in.ID, in.Items)
}

// saveBillItemsTx replaces the bill's items wholesale, preserving order.
func saveBillItemsTx(ctx context.Context, tx *sql.Tx, billID int64, items []*BillItem) error {
	deleteQuery, args := sq.Delete("service_bill_items").
		Where(sq.Eq{"bill_id": billID}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	if _, err := tx.ExecContext(ctx, deleteQuery, args...); err != nil {
		return fmt.Errorf("failed to delete service bill items: %w", err)
	}

	for _, item := range items {
		insertQuery, args := sq.Insert("service_bill_items").
			Columns(
				"bill_id",
				"position",
				"description",
				"amount",
			).
			Values(
				billID,
				item.Position,
				item.Description,
				item.Amount,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := tx.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&item.ID); err != nil {
			return fmt.Errorf("failed to insert service bill item: %w", err)
		}
		item.BillID = billID
	}

	return nil
}

func listBills(ctx context.Context, db *sql.DB, in *BillQuery) ([]*ServiceBill, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"bill_no",
		"template_id",
		"client_name",
		"site",
		"taxable_value",
		"cgst",
		"sgst",
		"igst",
		"total",
		"rounded_total",
		"rounding_difference",
		"amount_in_words",
		"date",
		"created_at",
	).
		From("service_bills").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list service bills: %w", err)
	}
	defer rows.Close()

	bills := make([]*ServiceBill, 0)
	for rows.Next() {
		b := new(ServiceBill)
		err := rows.Scan(
			&b.ID,
			&b.BillNo,
			&b.TemplateID,
			&b.ClientName,
			&b.Site,
			&b.Totals.TaxableValue,
			&b.Totals.CGST,
			&b.Totals.SGST,
			&b.Totals.IGST,
			&b.Totals.Total,
			&b.Totals.RoundedTotal,
			&b.Totals.RoundingDifference,
			&b.AmountInWords,
			&b.Date,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service bill: %w", err)
		}

		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over service bills: %w", err)
	}

	for _, b := range bills {
		items, err := listBillItems(ctx, db, b.ID)
		if err != nil {
			return nil, err
		}
		b.Items = items
	}

	return bills, nil
}

func listBillItems(ctx context.Context, db *sql.DB, billID int64) ([]*BillItem, error) {
	q, args := sq.Select(
		"id",
		"bill_id",
		"position",
		"description",
		"amount",
	).
		From("service_bill_items").
		Where(sq.Eq{"bill_id": billID}).
		OrderBy("position").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list service bill items: %w", err)
	}
	defer rows.Close()

	items := make([]*BillItem, 0)
	for rows.Next() {
		item := new(BillItem)
		err := rows.Scan(
			&item.ID,
			&item.BillID,
			&item.Position,
			&item.Description,
			&item.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service bill item: %w", err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over service bill items: %w", err)
	}

	return items, nil
}

func getBill(ctx context.Context, db *sql.DB, in *BillQuery) (*ServiceBill, error) {
	in.PageSize = 1

	if in.ID == 0 && in.BillNo == "" {
		return nil, ErrBillNotFound
	}

	bills, err := listBills(ctx, db, in)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, ErrBillNotFound
	}

	return bills[0], nil
}
