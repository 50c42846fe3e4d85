// Package company keeps the operating companies: the legal entities that
// employ staff, raise bills and file GST returns.
package company

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

// ErrCompanyNotFound is returned when a company is not found in the database.
var ErrCompanyNotFound = errors.New("company not found")

type Company struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`

	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`

	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`

	// ServiceChargeRate is the default rate offered to new bill templates.
	ServiceChargeRate decimal.Decimal `json:"serviceChargeRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CompanyReq struct {
	ID      int64  `json:"-" param:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`

	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`

	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`

	ServiceChargeRate decimal.Decimal `json:"serviceChargeRate"`
}

func (r *CompanyReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.Code == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "code",
			Description: "Code must not be empty",
		})
	}
	if r.Name == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "name",
			Description: "Name must not be empty",
		})
	}
	if r.GSTIN != "" && !types.ValidGSTIN(r.GSTIN) {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "gstin",
			Description: "GSTIN is not a valid GST number",
		})
	}
	if r.IFSC != "" && !types.ValidIFSC(r.IFSC) {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "ifsc",
			Description: "IFSC is not a valid bank code",
		})
	}
	if r.ServiceChargeRate.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "serviceChargeRate",
			Description: "Service charge rate must not be negative",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Company is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type ListCompaniesResult struct {
	Companies     []*Company `json:"companies"`
	NextPageToken string     `json:"nextPageToken"`
}

type CompanyQuery struct {
	ID        int64  `json:"id" param:"id" query:"id"`
	Code      string `json:"code" query:"code"`
	Name      string `json:"name" query:"name"`
	PageSize  uint64 `json:"pageSize" query:"pageSize"`
	PageToken string `json:"pageToken" query:"pageToken"`
}

func (q *CompanyQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.ID > 0 {
		and = append(and, sq.Eq{"id": q.ID})
	}
	if q.Code != "" {
		and = append(and, sq.Eq{"code": q.Code})
	}
	if q.Name != "" {
		and = append(and, sq.Expr("name LIKE ?", "%"+q.Name+"%"))
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

func saveCompany(ctx context.Context, db *sql.DB, in *Company) error {
	updatedQuery, args := sq.Update("companies").
		Set("name", in.Name).
		Set("address", in.Address).
		Set("gstin", in.GSTIN).
		Set("bank_name", in.BankName).
		Set("account_number", in.AccountNumber).
		Set("ifsc", in.IFSC).
		Set("contact_name", in.ContactName).
		Set("contact_phone", in.ContactPhone).
		Set("contact_email", in.ContactEmail).
		Set("service_charge_rate", in.ServiceChargeRate).
		Set("updated_at", in.UpdatedAt).
		Where(sq.Eq{"code": in.Code}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	effected, err := db.ExecContext(ctx, updatedQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	rowsAffected, err := effected.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		insertQuery, args := sq.Insert("companies").
			Columns(
				"code",
				"name",
				"address",
				"gstin",
				"bank_name",
				"account_number",
				"ifsc",
				"contact_name",
				"contact_phone",
				"contact_email",
				"service_charge_rate",
				"created_at",
				"updated_at",
			).
			Values(
				in.Code,
				in.Name,
				in.Address,
				in.GSTIN,
				in.BankName,
				in.AccountNumber,
				in.IFSC,
				in.ContactName,
				in.ContactPhone,
				in.ContactEmail,
				in.ServiceChargeRate,
				in.CreatedAt,
				in.UpdatedAt,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := db.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&in.ID); err != nil {
			return fmt.Errorf("failed to insert company: %w", err)
		}
	}

	return nil
}

func listCompanies(ctx context.Context, db *sql.DB, in *CompanyQuery) ([]*Company, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"code",
		"name",
		"address",
		"gstin",
		"bank_name",
		"account_number",
		"ifsc",
		"contact_name",
		"contact_phone",
		"contact_email",
		"service_charge_rate",
		"created_at",
		"updated_at",
	).
		From("companies").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*Company, 0)
	for rows.Next() {
		c := new(Company)
		err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.Name,
			&c.Address,
			&c.GSTIN,
			&c.BankName,
			&c.AccountNumber,
			&c.IFSC,
			&c.ContactName,
			&c.ContactPhone,
			&c.ContactEmail,
			&c.ServiceChargeRate,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}

		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over companies: %w", err)
	}

	return companies, nil
}

func getCompany(ctx context.Context, db *sql.DB, in *CompanyQuery) (*Company, error) {
	in.PageSize = 1

	if in.ID == 0 && in.Code == "" {
		return nil, ErrCompanyNotFound
	}

	companies, err := listCompanies(ctx, db, in)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, ErrCompanyNotFound
	}

	return companies[0], nil
}
