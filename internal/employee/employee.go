// Package employee manages employee wage-profile records. The profile holds
// the monthly rates (basic, allowances, statutory percentages) that payroll
// snapshots when it generates a salary.
package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arush420/Project-X/internal/database"
	"github.com/arush420/Project-X/internal/pager"
	"github.com/arush420/Project-X/internal/types"
	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

// ErrEmployeeNotFound is returned when an employee is not found in the database.
var ErrEmployeeNotFound = errors.New("employee not found")

type Employee struct {
	ID           int64  `json:"id"`
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	FatherName   string `json:"fatherName"`

	Basic          decimal.Decimal `json:"basic"`
	Transport      decimal.Decimal `json:"transport"`
	DA             decimal.Decimal `json:"da"`
	HRA            decimal.Decimal `json:"hra"`
	OtherAllowance decimal.Decimal `json:"otherAllowance"`
	Canteen        decimal.Decimal `json:"canteen"`
	PFRate         decimal.Decimal `json:"pfRate"`
	ESICRate       decimal.Decimal `json:"esicRate"`

	// Advance is the opening advance balance carried on the employee record.
	Advance decimal.Decimal `json:"advance"`

	PayMode   types.PayMode `json:"payMode"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type EmployeeReq struct {
	ID           int64  `json:"-" param:"id"`
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	FatherName   string `json:"fatherName"`

	Basic          decimal.Decimal `json:"basic"`
	Transport      decimal.Decimal `json:"transport"`
	DA             decimal.Decimal `json:"da"`
	HRA            decimal.Decimal `json:"hra"`
	OtherAllowance decimal.Decimal `json:"otherAllowance"`
	Canteen        decimal.Decimal `json:"canteen"`
	PFRate         decimal.Decimal `json:"pfRate"`
	ESICRate       decimal.Decimal `json:"esicRate"`
	Advance        decimal.Decimal `json:"advance"`

	PayMode types.PayMode `json:"payMode"`
}

func (r *EmployeeReq) Validate() error {
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

	amounts := map[string]decimal.Decimal{
		"basic":          r.Basic,
		"transport":      r.Transport,
		"da":             r.DA,
		"hra":            r.HRA,
		"otherAllowance": r.OtherAllowance,
		"canteen":        r.Canteen,
		"advance":        r.Advance,
	}
	for field, amount := range amounts {
		if amount.IsNegative() {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       field,
				Description: "Amount must not be negative",
			})
		}
	}

	hundred := decimal.NewFromInt(100)
	rates := map[string]decimal.Decimal{
		"pfRate":   r.PFRate,
		"esicRate": r.ESICRate,
	}
	for field, rate := range rates {
		if rate.GreaterThan(hundred) {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       field,
				Description: "Rate must not exceed 100 percent",
			})
		}
	}

	if r.PayMode != types.PayModeUnSpecified && !r.PayMode.Valid() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "payMode",
			Description: "Pay mode must be a valid mode",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Employee is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

func (r *EmployeeReq) ToEmployee() *Employee {
	now := time.Now()
	return &Employee{
		EmployeeCode:   r.EmployeeCode,
		Name:           r.Name,
		FatherName:     r.FatherName,
		Basic:          r.Basic,
		Transport:      r.Transport,
		DA:             r.DA,
		HRA:            r.HRA,
		OtherAllowance: r.OtherAllowance,
		Canteen:        r.Canteen,
		PFRate:         r.PFRate,
		ESICRate:       r.ESICRate,
		Advance:        r.Advance,
		PayMode:        r.PayMode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (e *Employee) Update(in *EmployeeReq) {
	e.Name = in.Name
	e.FatherName = in.FatherName
	e.Basic = in.Basic
	e.Transport = in.Transport
	e.DA = in.DA
	e.HRA = in.HRA
	e.OtherAllowance = in.OtherAllowance
	e.Canteen = in.Canteen
	e.PFRate = in.PFRate
	e.ESICRate = in.ESICRate
	e.Advance = in.Advance
	e.PayMode = in.PayMode
	e.UpdatedAt = time.Now()
}

type ListEmployeesResult struct {
	Employees     []*Employee `json:"employees"`
	NextPageToken string      `json:"nextPageToken"`
}

type EmployeeQuery struct {
	noLimit bool

	ID            int64     `json:"id" param:"id" query:"id"`
	EmployeeCode  string    `json:"employeeCode" query:"employeeCode"`
	Name          string    `json:"name" query:"name"`
	CreatedAfter  time.Time `json:"createdAfter" query:"createdAfter"`
	CreatedBefore time.Time `json:"createdBefore" query:"createdBefore"`
	PageSize      uint64    `json:"pageSize" query:"pageSize"`
	PageToken     string    `json:"pageToken" query:"pageToken"`
}

func (q *EmployeeQuery) ToSQL() (string, []any, error) {
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
	if !q.CreatedAfter.IsZero() {
		and = append(and, sq.GtOrEq{"created_at": q.CreatedAfter})
	}
	if !q.CreatedBefore.IsZero() {
		and = append(and, sq.LtOrEq{"created_at": q.CreatedBefore})
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

func saveEmployee(ctx context.Context, db *sql.DB, in *Employee) error {
	return database.WithTx(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		updatedQuery, args := sq.Update("employees").
			Set("name", in.Name).
			Set("father_name", in.FatherName).
			Set("basic", in.Basic).
			Set("transport", in.Transport).
			Set("da", in.DA).
			Set("hra", in.HRA).
			Set("other_allowance", in.OtherAllowance).
			Set("canteen", in.Canteen).
			Set("pf_rate", in.PFRate).
			Set("esic_rate", in.ESICRate).
			Set("advance", in.Advance).
			Set("pay_mode", in.PayMode).
			Set("updated_at", in.UpdatedAt).
			Where(sq.Eq{"employee_code": in.EmployeeCode}).
			PlaceholderFormat(sq.AtP).
			MustSql()

		effected, err := tx.ExecContext(ctx, updatedQuery, args...)
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}

		rowsAffected, err := effected.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			insertQuery, args := sq.Insert("employees").
				Columns(
					"employee_code",
					"name",
					"father_name",
					"basic",
					"transport",
					"da",
					"hra",
					"other_allowance",
					"canteen",
					"pf_rate",
					"esic_rate",
					"advance",
					"pay_mode",
					"created_at",
					"updated_at",
				).
				Values(
					in.EmployeeCode,
					in.Name,
					in.FatherName,
					in.Basic,
					in.Transport,
					in.DA,
					in.HRA,
					in.OtherAllowance,
					in.Canteen,
					in.PFRate,
					in.ESICRate,
					in.Advance,
					in.PayMode,
					in.CreatedAt,
					in.UpdatedAt,
				).
				Suffix("SELECT SCOPE_IDENTITY()").
				PlaceholderFormat(sq.AtP).
				MustSql()

			row := tx.QueryRowContext(ctx, insertQuery, args...)
			if err := row.Scan(&in.ID); err != nil {
				return fmt.Errorf("failed to insert employee: %w", err)
			}
		}

		return nil
	})
}

func listEmployees(ctx context.Context, db *sql.DB, in *EmployeeQuery) ([]*Employee, error) {
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
		"name",
		"father_name",
		"basic",
		"transport",
		"da",
		"hra",
		"other_allowance",
		"canteen",
		"pf_rate",
		"esic_rate",
		"advance",
		"pay_mode",
		"created_at",
		"updated_at",
	).
		From("employees").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]*Employee, 0)
	for rows.Next() {
		e := new(Employee)
		err := rows.Scan(
			&e.ID,
			&e.EmployeeCode,
			&e.Name,
			&e.FatherName,
			&e.Basic,
			&e.Transport,
			&e.DA,
			&e.HRA,
			&e.OtherAllowance,
			&e.Canteen,
			&e.PFRate,
			&e.ESICRate,
			&e.Advance,
			&e.PayMode,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}

		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over employees: %w", err)
	}

	return employees, nil
}

func getEmployee(ctx context.Context, db *sql.DB, in *EmployeeQuery) (*Employee, error) {
	in.PageSize = 1

	if in.ID == 0 && in.EmployeeCode == "" {
		return nil, ErrEmployeeNotFound
	}

	employees, err := listEmployees(ctx, db, in)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, ErrEmployeeNotFound
	}

	return employees[0], nil
}

func isEmployeeExists(ctx context.Context, db *sql.DB, code string) (bool, error) {
	q, args := sq.Select("TOP 1 1").
		From("employees").
		Where(sq.Eq{"employee_code": code}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	var one int
	err := db.QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check if employee exists: %w", err)
	}

	return true, nil
}
