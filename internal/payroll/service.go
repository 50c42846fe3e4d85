package payroll

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arush420/Project-X/internal/advance"
	"github.com/arush420/Project-X/internal/attendance"
	"github.com/arush420/Project-X/internal/employee"
	"github.com/arush420/Project-X/internal/pager"
	"github.com/arush420/Project-X/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

type Service struct {
	db          *sql.DB
	zlog        *zap.Logger
	employees   *employee.Service
	attendances *attendance.Service
	advances    *advance.Service
}

func NewService(
	_ context.Context,
	db *sql.DB,
	zlog *zap.Logger,
	employees *employee.Service,
	attendances *attendance.Service,
	advances *advance.Service,
) (*Service, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if zlog == nil {
		return nil, errors.New("logger is nil")
	}
	if employees == nil {
		return nil, errors.New("employee service is nil")
	}
	if attendances == nil {
		return nil, errors.New("attendance service is nil")
	}
	if advances == nil {
		return nil, errors.New("advance service is nil")
	}

	return &Service{
		db:          db,
		zlog:        zlog,
		employees:   employees,
		attendances: attendances,
		advances:    advances,
	}, nil
}

type GenerateReq struct {
	Month types.Month `json:"month"`
	Year  int         `json:"year"`

	// DaysInMonth overrides the period's calendar days, for businesses
	// that pay over a fixed 26 or 30 day month. Zero means calendar days.
	DaysInMonth int `json:"daysInMonth"`

	// Advances overrides the advance deduction per employee code. Employees
	// absent from the map fall back to the period's ledger deductions.
	Advances map[string]decimal.Decimal `json:"advances"`
}

func (r *GenerateReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	period := types.Period{Month: r.Month, Year: r.Year}
	if !period.Valid() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "month",
			Description: "Month and year must form a valid period",
		})
	}
	if r.DaysInMonth < 0 || r.DaysInMonth > 31 {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "daysInMonth",
			Description: "Days in month must be between 0 and 31",
		})
	}
	for code, amount := range r.Advances {
		if amount.IsNegative() {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       "advances." + code,
				Description: "Advance deduction must not be negative",
			})
		}
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Payroll run is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

type GenerateResult struct {
	Salaries []*Salary      `json:"salaries"`
	Totals   *MonthlyTotals `json:"totals"`
	Errors   []LineError    `json:"errors,omitempty"`
}

// GeneratePayroll computes and stores a salary for every employee with
// attendance in the period. One employee's bad data does not abort the run;
// it is reported as a line error and the batch moves on. Salaries are keyed
// on (employee, month, year), so rerunning a period overwrites its rows and
// the period totals are recomputed wholesale afterwards.
func (s *Service) GeneratePayroll(ctx context.Context, req *GenerateReq) (*GenerateResult, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GeneratePayroll"),
		zap.String("Month", req.Month.String()),
		zap.Int("Year", req.Year),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	period := types.Period{Month: req.Month, Year: req.Year}
	daysInMonth := req.DaysInMonth
	if daysInMonth == 0 {
		daysInMonth = period.DaysIn()
	}

	employees, err := s.employees.ListAllEmployees(ctx)
	if err != nil {
		zlog.Error("Failed to list employees", zap.Error(err))
		return nil, err
	}

	daysWorked, err := s.attendances.DaysWorkedByPeriod(ctx, period)
	if err != nil {
		zlog.Error("Failed to get attendance", zap.Error(err))
		return nil, err
	}

	deductions, err := s.advances.PeriodDeductions(ctx, period)
	if err != nil {
		zlog.Error("Failed to get advance deductions", zap.Error(err))
		return nil, err
	}

	result := &GenerateResult{Salaries: make([]*Salary, 0, len(employees))}
	for _, e := range employees {
		worked, ok := daysWorked[e.EmployeeCode]
		if !ok {
			continue
		}

		deduction, ok := req.Advances[e.EmployeeCode]
		if !ok {
			deduction = deductions[e.EmployeeCode]
		}

		salary, err := Generate(&GenerateInput{
			Profile:          wageProfile(e),
			Period:           period,
			DaysInMonth:      daysInMonth,
			DaysWorked:       worked,
			AdvanceDeduction: deduction,
		})
		if err != nil {
			zlog.Warn("Failed to compute salary",
				zap.String("EmployeeCode", e.EmployeeCode),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, LineError{
				EmployeeCode: e.EmployeeCode,
				Message:      err.Error(),
			})
			continue
		}

		if err := saveSalary(ctx, s.db, salary); err != nil {
			zlog.Error("Failed to save salary",
				zap.String("EmployeeCode", e.EmployeeCode),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, LineError{
				EmployeeCode: e.EmployeeCode,
				Message:      err.Error(),
			})
			continue
		}

		result.Salaries = append(result.Salaries, salary)
	}

	totals, err := sumSalaryTotals(ctx, s.db, period)
	if err != nil {
		zlog.Error("Failed to sum salary totals", zap.Error(err))
		return nil, err
	}
	if err := saveMonthlyTotals(ctx, s.db, totals); err != nil {
		zlog.Error("Failed to save salary totals", zap.Error(err))
		return nil, err
	}

	result.Totals = totals
	return result, nil
}

// RegenerateSalary recomputes a single employee's salary for a period, for
// corrections after an attendance or advance fix.
func (s *Service) RegenerateSalary(ctx context.Context, code string, period types.Period, daysWorked int) (*Salary, error) {
	zlog := s.zlog.With(
		zap.String("Method", "RegenerateSalary"),
		zap.String("EmployeeCode", code),
		zap.String("Period", period.String()),
	)

	e, err := s.employees.GetEmployeeByCode(ctx, code)
	if err != nil {
		zlog.Error("Failed to get employee", zap.Error(err))
		return nil, err
	}

	deductions, err := s.advances.PeriodDeductions(ctx, period)
	if err != nil {
		zlog.Error("Failed to get advance deductions", zap.Error(err))
		return nil, err
	}

	salary, err := Generate(&GenerateInput{
		Profile:          wageProfile(e),
		Period:           period,
		DaysInMonth:      period.DaysIn(),
		DaysWorked:       daysWorked,
		AdvanceDeduction: deductions[code],
	})
	if err != nil {
		return nil, err
	}

	if err := saveSalary(ctx, s.db, salary); err != nil {
		zlog.Error("Failed to save salary", zap.Error(err))
		return nil, err
	}

	totals, err := sumSalaryTotals(ctx, s.db, period)
	if err != nil {
		zlog.Error("Failed to sum salary totals", zap.Error(err))
		return nil, err
	}
	if err := saveMonthlyTotals(ctx, s.db, totals); err != nil {
		zlog.Error("Failed to save salary totals", zap.Error(err))
		return nil, err
	}

	return salary, nil
}

func (s *Service) ListSalaries(ctx context.Context, query *SalaryQuery) (*ListSalariesResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListSalaries"))

	salaries, err := listSalaries(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list salaries", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(salaries)); l > 0 && l >= pager.Size(query.PageSize) {
		last := salaries[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   last.EmployeeCode,
			Time: last.DateGenerated,
		})
	}

	return &ListSalariesResult{
		Salaries:      salaries,
		NextPageToken: nextPageToken,
	}, nil
}

func (s *Service) GetSalary(ctx context.Context, query *SalaryQuery) (*Salary, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetSalary"),
		zap.Int64("ID", query.ID),
	)

	salary, err := getSalary(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to get salary", zap.Error(err))
		return nil, err
	}

	return salary, nil
}

func (s *Service) GetMonthlyTotals(ctx context.Context, period types.Period) (*MonthlyTotals, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetMonthlyTotals"),
		zap.String("Period", period.String()),
	)

	totals, err := getMonthlyTotals(ctx, s.db, period)
	if err != nil {
		zlog.Error("Failed to get salary totals", zap.Error(err))
		return nil, err
	}

	return totals, nil
}

func wageProfile(e *employee.Employee) *WageProfile {
	return &WageProfile{
		EmployeeCode:   e.EmployeeCode,
		Name:           e.Name,
		Basic:          e.Basic,
		Transport:      e.Transport,
		DA:             e.DA,
		HRA:            e.HRA,
		OtherAllowance: e.OtherAllowance,
		Canteen:        e.Canteen,
		PFRate:         e.PFRate,
		ESICRate:       e.ESICRate,
	}
}
