// Package attendance tracks days worked per employee per month. Payroll
// generation reads these counts to pro-rate wages.
package attendance

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
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

// ErrAttendanceNotFound is returned when an attendance record is not found in the database.
var ErrAttendanceNotFound = errors.New("attendance not found")

// Attendance is one employee's attendance for one period. Unique per
// (employee, month, year); the site is informational.
type Attendance struct {
	ID           int64       `json:"id"`
	EmployeeCode string      `json:"employeeCode"`
	Site         string      `json:"site"`
	Month        types.Month `json:"month"`
	Year         int         `json:"year"`
	DaysWorked   int         `json:"daysWorked"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type AttendanceReq struct {
	EmployeeCode string      `json:"employeeCode"`
	Site         string      `json:"site"`
	Month        types.Month `json:"month"`
	Year         int         `json:"year"`
	DaysWorked   int         `json:"daysWorked"`
}

func (r *AttendanceReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.EmployeeCode == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "employeeCode",
			Description: "Employee code must not be empty",
		})
	}

	period := types.Period{Month: r.Month, Year: r.Year}
	if !period.Valid() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "month",
			Description: "Month and year must form a valid period",
		})
	}

	if r.DaysWorked < 0 || r.DaysWorked > 31 {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "daysWorked",
			Description: "Days worked must be between 0 and 31",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Attendance is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

func (r *AttendanceReq) ToAttendance() *Attendance {
	now := time.Now()
	return &Attendance{
		EmployeeCode: r.EmployeeCode,
		Site:         r.Site,
		Month:        r.Month,
		Year:         r.Year,
		DaysWorked:   r.DaysWorked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type ListAttendancesResult struct {
	Attendances   []*Attendance `json:"attendances"`
	NextPageToken string        `json:"nextPageToken"`
}

type AttendanceQuery struct {
	noLimit bool

	EmployeeCode string      `json:"employeeCode" query:"employeeCode"`
	Site         string      `json:"site" query:"site"`
	Month        types.Month `json:"month" query:"month"`
	Year         int         `json:"year" query:"year"`
	PageSize     uint64      `json:"pageSize" query:"pageSize"`
	PageToken    string      `json:"pageToken" query:"pageToken"`
}

func (q *AttendanceQuery) ToSQL() (string, []any, error) {
	and := sq.And{}

	if q.EmployeeCode != "" {
		and = append(and, sq.Eq{"employee_code": q.EmployeeCode})
	}
	if q.Site != "" {
		and = append(and, sq.Eq{"site": q.Site})
	}
	if q.Month.Valid() {
		and = append(and, sq.Eq{"month": int(q.Month)})
	}
	if q.Year != 0 {
		and = append(and, sq.Eq{"year": q.Year})
	}

	if q.PageToken != "" {
		cursor, err := pager.DecodeCursor(q.PageToken)
		if err == nil {
			and = append(and, sq.Lt{"created_at": cursor.Time})
		}
	}

	return and.ToSql()
}

// saveAttendance upserts on the (employee, month, year) key.
func saveAttendance(ctx context.Context, db *sql.DB, in *Attendance) error {
	return database.WithTx(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		updatedQuery, args := sq.Update("attendances").
			Set("site", in.Site).
			Set("days_worked", in.DaysWorked).
			Set("updated_at", in.UpdatedAt).
			Where(sq.Eq{
				"employee_code": in.EmployeeCode,
				"month":         int(in.Month),
				"year":          in.Year,
			}).
			PlaceholderFormat(sq.AtP).
			MustSql()

		effected, err := tx.ExecContext(ctx, updatedQuery, args...)
		if err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		rowsAffected, err := effected.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			insertQuery, args := sq.Insert("attendances").
				Columns(
					"employee_code",
					"site",
					"month",
					"year",
					"days_worked",
					"created_at",
					"updated_at",
				).
				Values(
					in.EmployeeCode,
					in.Site,
					int(in.Month),
					in.Year,
					in.DaysWorked,
					in.CreatedAt,
					in.UpdatedAt,
				).
				Suffix("SELECT SCOPE_IDENTITY()").
				PlaceholderFormat(sq.AtP).
				MustSql()

			row := tx.QueryRowContext(ctx, insertQuery, args...)
			if err := row.Scan(&in.ID); err != nil {
				return fmt.Errorf("failed to insert attendance: %w", err)
			}
		}

		return nil
	})
}

func listAttendances(ctx context.Context, db *sql.DB, in *AttendanceQuery) ([]*Attendance, error) {
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
		"site",
		"month",
		"year",
		"days_worked",
		"created_at",
		"updated_at",
	).
		From("attendances").
		Where(pred, args...).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.AtP).
		MustSql()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	attendances := make([]*Attendance, 0)
	for rows.Next() {
		a := new(Attendance)
		err := rows.Scan(
			&a.ID,
			&a.EmployeeCode,
			&a.Site,
			&a.Month,
			&a.Year,
			&a.DaysWorked,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}

		attendances = append(attendances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over attendances: %w", err)
	}

	return attendances, nil
}
