package payroll

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
)

// ErrSalaryNotFound is returned when a salary is not found in the database.
var ErrSalaryNotFound = errors.New("salary not found")

type ListSalariesResult struct {
	Salaries      []*Salary `json:"salaries"`
	NextPageToken string    `json:"nextPageToken"`
}

type SalaryQuery struct {
	ID               int64       `query:"id"`
	EmployeeCode     string      `query:"employeeCode"`
	Month            types.Month `query:"month"`
	Year             int         `query:"year"`
	GeneratedAfter   time.Time   `query:"generatedAfter"`
	GeneratedBefore  time.Time   `query:"generatedBefore"`
	PageSize         uint64      `query:"pageSize"`
	PageToken        string      `query:"pageToken"`
}

func (q *SalaryQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.ID != 0 {
		and = append(and, sq.Eq{"id": q.ID})
	}
	if q.EmployeeCode != "" {
		and = append(and, sq.Eq{"employee_code": q.EmployeeCode})
	}
	if q.Month.Valid() {
		and = append(and, sq.Eq{"month": int(q.Month)})
	}
	if q.Year != 0 {
		and = append(and, sq.Eq{"year": q.Year})
	}

	if !q.GeneratedAfter.IsZero() {
		and = append(and, sq.GtOrEq{"date_generated": q.GeneratedAfter})
	}
	if !q.GeneratedBefore.IsZero() {
		and = append(and, sq.LtOrEq{"date_generated": q.GeneratedBefore})
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"date_generated": cursor.Time})
		}
	}

	return and.ToSql()
}

// saveSalary upserts a salary keyed on (employee, month, year). Regeneration
// replaces the whole row; nothing is partially updated.
func saveSalary(ctx context.Context, db *sql.DB, in *Salary) error {
	return database.WithTx(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		updatedQuery, args := sq.Update("salaries").
			Set("employee_name", in.EmployeeName).
			Set("days_worked", in.DaysWorked).
			Set("days_in_month", in.DaysInMonth).
			Set("basic_salary", in.BasicSalary).
			Set("transport", in.Transport).
			Set("canteen", in.Canteen).
			Set("pf", in.PF).
			Set("esic", in.ESIC).
			Set("advance_deduction", in.AdvanceDeduction).
			Set("gross_salary", in.GrossSalary).
			Set("net_salary", in.NetSalary).
			Set("date_generated", in.DateGenerated).
			Where(sq.Eq{
				"employee_code": in.EmployeeCode,
				"month":         int(in.Month),
				"year":          in.Year,
			}).
			PlaceholderFormat(sq.AtP).
			MustSql()

		effected, err := tx.ExecContext(ctx, updatedQuery, args...)
		if err != nil {
			return fmt.Errorf("failed to update salary: %w", err)
		}

		rowsAffected, err := effected.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			insertQuery, args := sq.Insert("salaries").
				Columns(
					"employee_code",
					"employee_name",
					"month",
					"year",
					"days_worked",
					"days_in_month",
					"basic_salary",
					"transport",
					"canteen",
					"pf",
					"esic",
					"advance_deduction",
					"gross_salary",
					"net_salary",
					"date_generated",
				).
				Values(
					in.EmployeeCode,
					in.EmployeeName,
					int(in.Month),
					in.Year,
					in.DaysWorked,
					in.DaysInMonth,
					in.BasicSalary,
					in.Transport,
					in.Canteen,
					in.PF,
					in.ESIC,
					in.AdvanceDeduction,
					in.GrossSalary,
					in.NetSalary,
					in.DateGenerated,
				).
				Suffix("SELECT SCOPE_IDENTITY()").
				PlaceholderFormat(sq.AtP).
				MustSql()

			row := tx.QueryRowContext(ctx, insertQuery, args...)
			if err := row.Scan(&in.ID); err != nil {
				return fmt.Errorf("failed to insert salary: %w", err)
			}
		}

		return nil
	})
}

func listSalaries(ctx context.Context, db *sql.DB, in *SalaryQuery) ([]*Salary, error) {
	id := fmt.Sprintf("TOP %d id", pager.Size(in.PageSize))

	pred, args, err := in.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	q, args := sq.Select(
		id,
		"employee_code",
		"employee_name",
		"month",
		"year",
		"days_worked",
		"days_in_month",
		"basic_salary",
		"transport",
		"canteen",
		"pf",
		"esic",
		"advance_deduction",
		"gross_salary",
		"net_salary",
		"date_generated",
	).
		From("salaries").
		Where(pred, args...).
		OrderBy("date_generated DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries: %w", err)
	}
	defer rows.Close()

	salaries := make([]*Salary, 0)
	for rows.Next() {
		s := new(Salary)
		err := rows.Scan(
			&s.ID,
			&s.EmployeeCode,
			&s.EmployeeName,
			&s.Month,
			&s.Year,
			&s.DaysWorked,
			&s.DaysInMonth,
			&s.BasicSalary,
			&s.Transport,
			&s.Canteen,
			&s.PF,
			&s.ESIC,
			&s.AdvanceDeduction,
			&s.GrossSalary,
			&s.NetSalary,
			&s.DateGenerated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}

		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over salaries: %w", err)
	}

	return salaries, nil
}

func getSalary(ctx context.Context, db *sql.DB, in *SalaryQuery) (*Salary, error) {
	in.PageSize = 1

	if in.ID == 0 && in.EmployeeCode == "" {
		return nil, ErrSalaryNotFound
	}

	salaries, err := listSalaries(ctx, db, in)
	if err != nil {
		return nil, err
	}
	if len(salaries) == 0 {
		return nil, ErrSalaryNotFound
	}

	return salaries[0], nil
}

// sumSalaryTotals recomputes the period aggregate from the salary rows.
func sumSalaryTotals(ctx context.Context, db *sql.DB, period types.Period) (*MonthlyTotals, error) {
	q, args := sq.Select(
		"COUNT(id)",
		"COALESCE(SUM(gross_salary), 0)",
		"COALESCE(SUM(pf), 0)",
		"COALESCE(SUM(esic), 0)",
		"COALESCE(SUM(canteen), 0)",
		"COALESCE(SUM(advance_deduction), 0)",
		"COALESCE(SUM(net_salary), 0)",
	).
		From("salaries").
		Where(sq.Eq{
			"month": int(period.Month),
			"year":  period.Year,
		}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	totals := &MonthlyTotals{
		Month: period.Month,
		Year:  period.Year,
	}

	row := db.QueryRowContext(ctx, q, args...)
	err := row.Scan(
		&totals.EmployeeCount,
		&totals.TotalGrossSalary,
		&totals.TotalPF,
		&totals.TotalESIC,
		&totals.TotalCanteen,
		&totals.TotalAdvance,
		&totals.TotalNetSalary,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum salary totals: %w", err)
	}

	return totals, nil
}

func saveMonthlyTotals(ctx context.Context, db *sql.DB, in *MonthlyTotals) error {
	return database.WithTx(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		updatedQuery, args := sq.Update("salary_totals").
			Set("employee_count", in.EmployeeCount).
			Set("total_gross_salary", in.TotalGrossSalary).
			Set("total_pf", in.TotalPF).
			Set("total_esic", in.TotalESIC).
			Set("total_canteen", in.TotalCanteen).
			Set("total_advance", in.TotalAdvance).
			Set("total_net_salary", in.TotalNetSalary).
			Where(sq.Eq{
				"month": int(in.Month),
				"year":  in.Year,
			}).
			PlaceholderFormat(sq.AtP).
			MustSql()

		effected, err := tx.ExecContext(ctx, updatedQuery, args...)
		if err != nil {
			return fmt.Errorf("failed to update salary totals: %w", err)
		}

		rowsAffected, err := effected.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			insertQuery, args := sq.Insert("salary_totals").
				Columns(
					"month",
					"year",
					"employee_count",
					"total_gross_salary",
					"total_pf",
					"total_esic",
					"total_canteen",
					"total_advance",
					"total_net_salary",
				).
				Values(
					int(in.Month),
					in.Year,
					in.EmployeeCount,
					in.TotalGrossSalary,
					in.TotalPF,
					in.TotalESIC,
					in.TotalCanteen,
					in.TotalAdvance,
					in.TotalNetSalary,
				).
				PlaceholderFormat(sq.AtP).
				MustSql()

			if _, err := tx.ExecContext(ctx, insertQuery, args...); err != nil {
				return fmt.Errorf("failed to insert salary totals: %w", err)
			}
		}

		return nil
	})
}

func getMonthlyTotals(ctx context.Context, db *sql.DB, period types.Period) (*MonthlyTotals, error) {
	q, args := sq.Select(
		"month",
		"year",
		"employee_count",
		"total_gross_salary",
		"total_pf",
		"total_esic",
		"total_canteen",
		"total_advance",
		"total_net_salary",
	).
		From("salary_totals").
		Where(sq.Eq{
			"month": int(period.Month),
			"year":  period.Year,
		}).
		PlaceholderFormat(sq.AtP).
		MustSql()

	totals := new(MonthlyTotals)
	row := db.QueryRowContext(ctx, q, args...)
	err := row.Scan(
		&totals.Month,
		&totals.Year,
		&totals.EmployeeCount,
		&totals.TotalGrossSalary,
		&totals.TotalPF,
		&totals.TotalESIC,
		&totals.TotalCanteen,
		&totals.TotalAdvance,
		&totals.TotalNetSalary,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSalaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salary totals: %w", err)
	}

	return totals, nil
}
