package advance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arush420/Project-X/internal/database"
	"github.com/arush420/Project-X/internal/pager"
	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

// ErrStaffSalaryNotFound is returned when a staff salary is not found in the database.
var ErrStaffSalaryNotFound = errors.New("staff salary not found")

// StaffSalary is the monthly wage sheet of an office staff member, carrying
// stated (not computed) statutory deductions and the advance position.
// AdvancePending mirrors the balance of the latest ledger transaction.
type StaffSalary struct {
	ID           int64  `json:"id"`
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	FatherName   string `json:"fatherName"`

	GrossRate   decimal.Decimal `json:"grossRate"`
	GrossSalary decimal.Decimal `json:"grossSalary"`

	ESICApplicable bool `json:"esicApplicable"`
	PFApplicable   bool `json:"pfApplicable"`
	LWFApplicable  bool `json:"lwfApplicable"`

	ESICDeduction decimal.Decimal `json:"esicDeduction"`
	PFDeduction   decimal.Decimal `json:"pfDeduction"`
	LWFDeduction  decimal.Decimal `json:"lwfDeduction"`
	NetSalary     decimal.Decimal `json:"netSalary"`

	AdvanceGiven     decimal.Decimal `json:"advanceGiven"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`
	AdvancePending   decimal.Decimal `json:"advancePending"`

	// Opening balance carried forward from the previous sheet's amount left.
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	AmountRecovered decimal.Decimal `json:"amountRecovered"`
	AmountLeft      decimal.Decimal `json:"amountLeft"`

	Date      time.Time `json:"date"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type StaffSalaryReq struct {
	ID           int64  `json:"-" param:"id"`
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	FatherName   string `json:"fatherName"`

	GrossRate   decimal.Decimal `json:"grossRate"`
	GrossSalary decimal.Decimal `json:"grossSalary"`

	ESICApplicable bool `json:"esicApplicable"`
	PFApplicable   bool `json:"pfApplicable"`
	LWFApplicable  bool `json:"lwfApplicable"`

	ESICDeduction decimal.Decimal `json:"esicDeduction"`
	PFDeduction   decimal.Decimal `json:"pfDeduction"`
	LWFDeduction  decimal.Decimal `json:"lwfDeduction"`
	NetSalary     decimal.Decimal `json:"netSalary"`

	AdvanceGiven     decimal.Decimal `json:"advanceGiven"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`

	AmountPaid      decimal.Decimal `json:"amountPaid"`
	AmountRecovered decimal.Decimal `json:"amountRecovered"`
	AmountLeft      decimal.Decimal `json:"amountLeft"`

	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
}

func (r *StaffSalaryReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.EmployeeCode == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "employeeCode",
			Description: "Employee code must not be empty",
		})
	}
	if r.Name == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "name",
			Description: "Name must not be empty",
		})
	}
	if r.GrossRate.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "grossRate",
			Description: "Gross rate must not be negative",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Staff salary is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type ListStaffSalariesResult struct {
	StaffSalaries []*StaffSalary `json:"staffSalaries"`
	NextPageToken string         `json:"nextPageToken"`
}

type StaffSalaryQuery struct {
	ID           int64  `json:"id" param:"id" query:"id"`
	EmployeeCode string `json:"employeeCode" query:"employeeCode"`
	Name         string `json:"name" query:"name"`
	PageSize     uint64 `json:"pageSize" query:"pageSize"`
	PageToken    string `json:"pageToken" query:"pageToken"`
}

func (q *StaffSalaryQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.ID > 0 {
		and = append(and, sq.Eq{"id": q.ID})
	}
	if q.EmployeeCode != "" {
		and = append(and, sq.Eq{"employee_code": q.EmployeeCode})
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

func saveStaffSalary(ctx context.Context, db *sql.DB, in *StaffSalary) error {
	return database.WithTx(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return saveStaffSalaryTx(ctx, tx, in)
	})
}

func saveStaffSalaryTx(ctx context.Context, tx *sql.Tx, in *StaffSalary) error {
	updatedQuery, args := sq.Update("staff_salaries").
		Set("name", in.Name).
		Set("father_name", in.FatherName).
		Set("gross_rate", in.GrossRate).
		Set("gross_salary", in.GrossSalary).
		Set("esic_applicable", in.ESICApplicable).
		Set("pf_applicable", in.PFApplicable).
		Set("lwf_applicable", in.LWFApplicable).
		Set("esic_deduction", in.ESICDeduction).
		Set("pf_deduction", in.PFDeduction).
		Set("lwf_deduction", in.LWFDeduction).
		Set("net_salary", in.NetSalary).
		Set("advance_given", in.AdvanceGiven).
		Set("advance_deduction", in.AdvanceDeduction).
		Set("advance_pending", in.AdvancePending).
		Set("opening_balance", in.OpeningBalance).
		Set("amount_paid", in.AmountPaid).
		Set("amount_recovered", in.AmountRecovered).
		Set("amount_left", in.AmountLeft).
		Set("date", in.Date).
		Set("comment", in.Comment).
		Where(sq.Eq{"id": in.ID}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	effected, err := tx.ExecContext(ctx, updatedQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update staff salary: %w", err)
	}

	rowsAffected, err := effected.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		insertQuery, args := sq.Insert("staff_salaries").
			Columns(
				"employee_code",
				"name",
				"father_name",
				"gross_rate",
				"gross_salary",
				"esic_applicable",
				"pf_applicable",
				"lwf_applicable",
				"esic_deduction",
				"pf_deduction",
				"lwf_deduction",
				"net_salary",
				"advance_given",
				"advance_deduction",
				"advance_pending",
				"opening_balance",
				"amount_paid",
				"amount_recovered",
				"amount_left",
				"date",
				"comment",
				"created_at",
			).
			Values(
				in.EmployeeCode,
				in.Name,
				in.FatherName,
				in.GrossRate,
				in.GrossSalary,
				in.ESICApplicable,
				in.PFApplicable,
				in.LWFApplicable,
				in.ESICDeduction,
				in.PFDeduction,
				in.LWFDeduction,
				in.NetSalary,
				in.AdvanceGiven,
				in.AdvanceDeduction,
				in.AdvancePending,
				in.OpeningBalance,
				in.AmountPaid,
				in.AmountRecovered,
				in.AmountLeft,
				in.Date,
				in.Comment,
				in.CreatedAt,
			).
			Suffix("SELECT SCOPE_IDENTITY()").
			PlaceholderFormat(sq.AtP).
			MustSql()

		row := tx.QueryRowContext(ctx, insertQuery, args...)
		if err := row.Scan(&in.ID); err != nil {
			return fmt.Errorf("failed to insert staff salary: %w", err)
		}
	}

	return nil
}

func listStaffSalaries(ctx context.Context, db *sql.DB, in *StaffSalaryQuery) ([]*StaffSalary, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"employee_code",
		"name",
		"father_name",
		"gross_rate",
		"gross_salary",
		"esic_applicable",
		"pf_applicable",
		"lwf_applicable",
		"esic_deduction",
		"pf_deduction",
		"lwf_deduction",
		"net_salary",
		"advance_given",
		"advance_deduction",
		"advance_pending",
		"opening_balance",
		"amount_paid",
		"amount_recovered",
		"amount_left",
		"date",
		"comment",
		"created_at",
	).
		From("staff_salaries").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff salaries: %w", err)
	}
	defer rows.Close()

	salaries := make([]*StaffSalary, 0)
	for rows.Next() {
		s := new(StaffSalary)
		err := rows.Scan(
			&s.ID,
			&s.EmployeeCode,
			&s.Name,
			&s.FatherName,
			&s.GrossRate,
			&s.GrossSalary,
			&s.ESICApplicable,
			&s.PFApplicable,
			&s.LWFApplicable,
			&s.ESICDeduction,
			&s.PFDeduction,
			&s.LWFDeduction,
			&s.NetSalary,
			&s.AdvanceGiven,
			&s.AdvanceDeduction,
			&s.AdvancePending,
			&s.OpeningBalance,
			&s.AmountPaid,
			&s.AmountRecovered,
			&s.AmountLeft,
			&s.Date,
			&s.Comment,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff salary: %w", err)
		}

		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over staff salaries: %w", err)
	}

	return salaries, nil
}

func getStaffSalary(ctx context.Context, db *sql.DB, in *StaffSalaryQuery) (*StaffSalary, error) {
	in.PageSize = 1

	if in.ID == 0 && in.EmployeeCode == "" {
		return nil, ErrStaffSalaryNotFound
	}

	salaries, err := listStaffSalaries(ctx, db, in)
	if err != nil {
		return nil, err
	}
	if len(salaries) == 0 {
		return nil, ErrStaffSalaryNotFound
	}

	return salaries[0], nil
}

// latestStaffSalary returns the most recent sheet for an employee, by date.
func latestStaffSalary(ctx context.Context, db *sql.DB, employeeCode string) (*StaffSalary, error) {
	q, args := sq.Select("TOP 1 id").
		From("staff_salaries").
		Where(sq.Eq{"employee_code": employeeCode}).
		OrderBy("date DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	var id int64
	err := db.QueryRowContext(ctx, q, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffSalaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest staff salary: %w", err)
	}

	return getStaffSalary(ctx, db, &StaffSalaryQuery{ID: id})
}
