// Package purchase keeps vendor purchase records with their GST amounts.
// Tax is computed per line item; the parent purchase total is the sum of the
// line nets and is never re-taxed.
package purchase

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/arush420/Project-X/internal/gst"
	"github.com/arush420/Project-X/internal/pager"
	"github.com/arush420/Project-X/internal/types"
	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

// ErrPurchaseNotFound is returned when a purchase is not found in the database.
var ErrPurchaseNotFound = errors.New("purchase not found")

// Category classifies what a purchase was for.
type Category int

const (
	CategoryUnSpecified Category = iota
	CategoryMaterial
	CategoryConsumable
	CategoryEquipment
	CategoryService
	CategoryOther
)

var categoryNames = map[Category]string{
	CategoryUnSpecified: "UNSPECIFIED",
	CategoryMaterial:    "MATERIAL",
	CategoryConsumable:  "CONSUMABLE",
	CategoryEquipment:   "EQUIPMENT",
	CategoryService:     "SERVICE",
	CategoryOther:       "OTHER",
}

var categoryValues = map[string]Category{
	"UNSPECIFIED": CategoryUnSpecified,
	"MATERIAL":    CategoryMaterial,
	"CONSUMABLE":  CategoryConsumable,
	"EQUIPMENT":   CategoryEquipment,
	"SERVICE":     CategoryService,
	"OTHER":       CategoryOther,
}

func (c Category) Valid() bool {
	return c > CategoryUnSpecified && c <= CategoryOther
}

func (c Category) String() string {
	if v, ok := categoryNames[c]; ok {
		return v
	}
	return fmt.Sprintf("Category(%d)", c)
}

func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *Category) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	if v, err := strconv.Atoi(string(b)); err == nil {
		*c = Category(v)
		return nil
	}

	b = b[1 : len(b)-1]
	if v, ok := categoryValues[string(b)]; ok {
		*c = v
		return nil
	}

	return fmt.Errorf("invalid category: %s", string(b))
}

func (c Category) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *Category) Scan(src any) error {
	if src == nil {
		return nil
	}

	switch src := src.(type) {
	case string:
		if v, ok := categoryValues[src]; ok {
			*c = v
			return nil
		}

	case []byte:
		if v, ok := categoryValues[string(src)]; ok {
			*c = v
			return nil
		}
	}

	return fmt.Errorf("invalid category: %v", src)
}

// Purchase is one vendor bill with its line items. TotalAmount is the sum of
// the line nets, re-summed whenever the lines change.
type Purchase struct {
	ID          int64           `json:"id"`
	VendorGSTIN string          `json:"vendorGstin"`
	VendorName  string          `json:"vendorName"`
	BillNo      string          `json:"billNo"`
	Date        time.Time       `json:"date"`
	Category    Category        `json:"category"`
	PayMode     types.PayMode   `json:"payMode"`
	Items       []*Item         `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Item is one purchased line with its computed amounts.
type Item struct {
	ID         int64           `json:"id"`
	PurchaseID int64           `json:"-"`
	gst.LineItem
	Gross decimal.Decimal `json:"gross"`
	CGST  decimal.Decimal `json:"cgst"`
	SGST  decimal.Decimal `json:"sgst"`
	IGST  decimal.Decimal `json:"igst"`
	Net   decimal.Decimal `json:"net"`
}

// compute fills the item's amounts from its unit cost, quantity and rates.
func (i *Item) compute() {
	amounts := i.Compute()
	i.Gross = amounts.Gross
	i.CGST = amounts.Tax.CGST
	i.SGST = amounts.Tax.SGST
	i.IGST = amounts.Tax.IGST
	i.Net = amounts.Net
}

type PurchaseReq struct {
	ID          int64           `json:"-" param:"id"`
	VendorGSTIN string          `json:"vendorGstin"`
	VendorName  string          `json:"vendorName"`
	BillNo      string          `json:"billNo"`
	Date        time.Time       `json:"date"`
	Category    Category        `json:"category"`
	PayMode     types.PayMode   `json:"payMode"`
	Items       []*gst.LineItem `json:"items"`
}

func (r *PurchaseReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.VendorName == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "vendorName",
			Description: "Vendor name must not be empty",
		})
	}
	if r.VendorGSTIN != "" && !types.ValidGSTIN(r.VendorGSTIN) {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "vendorGstin",
			Description: "Vendor GSTIN is not a valid GST number",
		})
	}
	if r.BillNo == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "billNo",
			Description: "Bill number must not be empty",
		})
	}
	if !r.Category.Valid() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "category",
			Description: "Category is not valid",
		})
	}
	if len(r.Items) == 0 {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "items",
			Description: "A purchase must have at least one item",
		})
	}
	for i, item := range r.Items {
		if item.UnitCost.IsNegative() {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       fmt.Sprintf("items[%d].unitCost", i),
				Description: "Unit cost must not be negative",
			})
		}
		if !item.Quantity.IsPositive() {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       fmt.Sprintf("items[%d].quantity", i),
				Description: "Quantity must be greater than zero",
			})
		}
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Purchase is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type ListPurchasesResult struct {
	Purchases     []*Purchase `json:"purchases"`
	NextPageToken string      `json:"nextPageToken"`
}

type PurchaseQuery struct {
	ID          int64    `json:"id" param:"id" query:"id"`
	VendorGSTIN string   `json:"vendorGstin" query:"vendorGstin"`
	VendorName  string   `json:"vendorName" query:"vendorName"`
	BillNo      string   `json:"billNo" query:"billNo"`
	Category    Category `json:"category" query:"category"`
	PageSize    uint64   `json:"pageSize" query:"pageSize"`
	PageToken   string   `json:"pageToken" query:"pageToken"`
}

func (q *PurchaseQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.ID > 0 {
		and = append(and, sq.Eq{"id": q.ID})
	}
	if q.VendorGSTIN != "" {
		and = append(and, sq.Eq{"vendor_gstin": q.VendorGSTIN})
	}
	if q.VendorName != "" {
		and = append(and, sq.Expr("vendor_name LIKE ?", "%"+q.VendorName+"%"))
	}
	if q.BillNo != "" {
		and = append(and, sq.Eq{"bill_no": q.BillNo})
	}
	if q.Category.Valid() {
		and = append(and, sq.Eq{"category": q.Category})
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

func savePurchaseTx(ctx context.Context, tx *sql.Tx, in *Purchase) error {
	updatedQuery, args := sq.Update("purchases").
		Set("vendor_gstin", in.VendorGSTIN).
		Set("vendor_name", in.VendorName).
		Set("bill_no", in.BillNo).
		Set("date", in.Date).
		Set("category", in.Category).
		Set("pay_mode", in.PayMode).
		Set("total_amount", in.TotalAmount).
		Where(sq.Eq{"id": in.ID}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	effected, err := tx.ExecContext(ctx, updatedQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}

	rowsAffected, err := effected.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		insertQuery, args := sq.Insert("purchases").
			Columns(
				"vendor_gstin",
				"vendor_name",
				"bill_no",
				"date",
				"category",
				"pay_mode",
				"total_amount",
				"created_at",
			).
			Values(
				in.VendorGSTIN,
				in.VendorName,
				in.BillNo,
				in.Date,
				in.Category,
				in.PayMode,
				in.TotalAmount,
				in.CreatedAt,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := tx.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&in.ID); err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}
	}

	return savePurchaseItemsTx(ctx, tx, in.ID, in.Items)
}

// savePurchaseItemsTx replaces the purchase's line items wholesale.
func savePurchaseItemsTx(ctx context.Context, tx *sql.Tx, purchaseID int64, items []*Item) error {
	deleteQuery, args := sq.Delete("purchase_items").
		Where(sq.Eq{"purchase_id": purchaseID}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	if _, err := tx.ExecContext(ctx, deleteQuery, args...); err != nil {
		return fmt.Errorf("failed to delete purchase items: %w", err)
	}

	for _, item := range items {
		insertQuery, args := sq.Insert("purchase_items").
			Columns(
				"purchase_id",
				"description",
				"unit_cost",
				"quantity",
				"cgst_pct",
				"sgst_pct",
				"igst_pct",
				"gross",
				"cgst",
				"sgst",
				"igst",
				"net",
			).
			Values(
				purchaseID,
				item.Description,
				item.UnitCost,
				item.Quantity,
				item.CGSTPct,
				item.SGSTPct,
				item.IGSTPct,
				item.Gross,
				item.CGST,
				item.SGST,
				item.IGST,
				item.Net,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := tx.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&item.ID); err != nil {
			return fmt.Errorf("failed to insert purchase item: %w", err)
		}
		item.PurchaseID = purchaseID
	}

	return nil
}

func listPurchases(ctx context.Context, db *sql.DB, in *PurchaseQuery) ([]*Purchase, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"vendor_gstin",
		"vendor_name",
		"bill_no",
		"date",
		"category",
		"pay_mode",
		"total_amount",
		"created_at",
	).
		From("purchases").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]*Purchase, 0)
	for rows.Next() {
		p := new(Purchase)
		err := rows.Scan(
			&p.ID,
			&p.VendorGSTIN,
			&p.VendorName,
			&p.BillNo,
			&p.Date,
			&p.Category,
			&p.PayMode,
			&p.TotalAmount,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}

		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over purchases: %w", err)
	}

	for _, p := range purchases {
		items, err := listPurchaseItems(ctx, db, p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}

	return purchases, nil
}

func listPurchaseItems(ctx context.Context, db *sql.DB, purchaseID int64) ([]*Item, error) {
	q, args := sq.Select(
		"id",
		"purchase_id",
		"description",
		"unit_cost",
		"quantity",
		"cgst_pct",
		"sgst_pct",
		"igst_pct",
		"gross",
		"cgst",
		"sgst",
		"igst",
		"net",
	).
		From("purchase_items").
		Where(sq.Eq{"purchase_id": purchaseID}).
		OrderBy("id").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase items: %w", err)
	}
	defer rows.Close()

	items := make([]*Item, 0)
	for rows.Next() {
		item := new(Item)
		err := rows.Scan(
			&item.ID,
			&item.PurchaseID,
			&item.Description,
			&item.UnitCost,
			&item.Quantity,
			&item.CGSTPct,
			&item.SGSTPct,
			&item.IGSTPct,
			&item.Gross,
			&item.CGST,
			&item.SGST,
			&item.IGST,
			&item.Net,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase item: %w", err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over purchase items: %w", err)
	}

	return items, nil
}

func getPurchase(ctx context.Context, db *sql.DB, in *PurchaseQuery) (*Purchase, error) {
	in.PageSize = 1

	if in.ID == 0 && in.BillNo == "" {
		return nil, ErrPurchaseNotFound
	}

	purchases, err := listPurchases(ctx, db, in)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, ErrPurchaseNotFound
	}

	return purchases[0], nil
}
