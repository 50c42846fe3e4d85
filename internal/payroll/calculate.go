package payroll

import (
	"errors"
	"time"

	"github.com/arush420/Project-X/internal/money"
	"github.com/arush420/Project-X/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidPeriod is returned when a wage computation is asked for a period
// with zero or negative days.
var ErrInvalidPeriod = errors.New("days in month must be greater than zero")

// WageComponent is one named earning in a wage structure. Prorated components
// are scaled by days worked over days in the month; fixed components are paid
// in full regardless of attendance.
type WageComponent struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Prorated bool            `json:"prorated"`
}

// WageProfile is the snapshot of an employee's pay structure used for one
// payroll run. Rates are copied from the employee record at generation time,
// so editing an employee later does not change an already generated salary.
type WageProfile struct {
	EmployeeCode   string          `json:"employeeCode"`
	Name           string          `json:"name"`
	Basic          decimal.Decimal `json:"basic"`
	Transport      decimal.Decimal `json:"transport"`
	DA             decimal.Decimal `json:"da"`
	HRA            decimal.Decimal `json:"hra"`
	OtherAllowance decimal.Decimal `json:"otherAllowance"`

	// Canteen is a fixed monthly deduction, not an earning.
	Canteen decimal.Decimal `json:"canteen"`

	PFRate   decimal.Decimal `json:"pfRate"`
	ESICRate decimal.Decimal `json:"esicRate"`
}

// Components returns the profile's earnings as wage components. All monthly
// earnings are prorated by attendance.
func (p *WageProfile) Components() []WageComponent {
	return []WageComponent{
		{Name: "basic", Amount: p.Basic, Prorated: true},
		{Name: "transport", Amount: p.Transport, Prorated: true},
		{Name: "da", Amount: p.DA, Prorated: true},
		{Name: "hra", Amount: p.HRA, Prorated: true},
		{Name: "other", Amount: p.OtherAllowance, Prorated: true},
	}
}

// ComputeGross computes the gross wage for the given components.
// Prorated components are scaled by daysWorked/daysInMonth. daysWorked is
// clamped into [0, daysInMonth]: an out-of-range attendance count is a data
// entry mistake that should not sink the whole payroll run, so it is capped
// and logged instead of rejected. The result is rounded half-up to two
// decimal places.
func ComputeGross(components []WageComponent, daysWorked, daysInMonth int) (decimal.Decimal, error) {
	if daysInMonth <= 0 {
		return decimal.Zero, ErrInvalidPeriod
	}

	if daysWorked < 0 || daysWorked > daysInMonth {
		clamped := min(max(daysWorked, 0), daysInMonth)
		zap.L().Warn("days worked out of range, clamping",
			zap.Int("daysWorked", daysWorked),
			zap.Int("daysInMonth", daysInMonth),
			zap.Int("clamped", clamped),
		)
		daysWorked = clamped
	}

	worked := decimal.NewFromInt(int64(daysWorked))
	days := decimal.NewFromInt(int64(daysInMonth))

	total := decimal.Zero
	for _, c := range components {
		if c.Prorated {
			total = total.Add(c.Amount.Mul(worked).Div(days))
			continue
		}
		total = total.Add(c.Amount)
	}

	return money.Round2(total), nil
}

// ComputeDeductions computes the PF and ESIC deductions on basic pay.
// Each amount is rounded to two decimal places independently, so a stored
// salary always reproduces the per-field figures on a payslip. A missing or
// negative rate counts as zero and never fails the computation.
func ComputeDeductions(basic, pfRate, esicRate decimal.Decimal) (pf, esic decimal.Decimal) {
	return money.Percent(basic, pfRate), money.Percent(basic, esicRate)
}

// Salary is one employee's generated salary for one period. There is at most
// one per (employee, month, year); regeneration overwrites it wholesale.
type Salary struct {
	ID           int64           `json:"id"`
	EmployeeCode string          `json:"employeeCode"`
	EmployeeName string          `json:"employeeName"`
	Month        types.Month     `json:"month"`
	Year         int             `json:"year"`
	DaysWorked   int             `json:"daysWorked"`
	DaysInMonth  int             `json:"daysInMonth"`

	// Monthly rates snapshotted from the wage profile.
	BasicSalary decimal.Decimal `json:"basicSalary"`
	Transport   decimal.Decimal `json:"transport"`
	Canteen     decimal.Decimal `json:"canteen"`

	PF               decimal.Decimal `json:"pf"`
	ESIC             decimal.Decimal `json:"esic"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`
	GrossSalary      decimal.Decimal `json:"grossSalary"`
	NetSalary        decimal.Decimal `json:"netSalary"`
	DateGenerated    time.Time       `json:"dateGenerated"`
}

// GenerateInput carries everything needed to compute one employee's salary.
type GenerateInput struct {
	Profile          *WageProfile
	Period           types.Period
	DaysInMonth      int
	DaysWorked       int
	AdvanceDeduction decimal.Decimal
}

// Generate computes a salary record from its inputs. It is a pure function:
// generating twice with identical inputs yields identical figures, which is
// what makes regeneration after a correction safe.
//
// The net salary always satisfies
//
//	net = gross - (pf + esic + canteen + advanceDeduction)
func Generate(in *GenerateInput) (*Salary, error) {
	p := in.Profile

	gross, err := ComputeGross(p.Components(), in.DaysWorked, in.DaysInMonth)
	if err != nil {
		return nil, err
	}

	pf, esic := ComputeDeductions(p.Basic, p.PFRate, p.ESICRate)
	canteen := money.Round2(p.Canteen)
	advance := money.Round2(in.AdvanceDeduction)

	net := money.Round2(gross.Sub(money.Sum(pf, esic, canteen, advance)))

	return &Salary{
		EmployeeCode:     p.EmployeeCode,
		EmployeeName:     p.Name,
		Month:            in.Period.Month,
		Year:             in.Period.Year,
		DaysWorked:       in.DaysWorked,
		DaysInMonth:      in.DaysInMonth,
		BasicSalary:      money.Round2(p.Basic),
		Transport:        money.Round2(p.Transport),
		Canteen:          canteen,
		PF:               pf,
		ESIC:             esic,
		AdvanceDeduction: advance,
		GrossSalary:      gross,
		NetSalary:        net,
		DateGenerated:    time.Now(),
	}, nil
}

// MonthlyTotals is the aggregate of all salaries generated for one period.
// It is recomputed wholesale from the salary rows after every payroll run
// rather than maintained incrementally, so corrections can never leave it
// drifted from the detail rows.
type MonthlyTotals struct {
	Month            types.Month     `json:"month"`
	Year             int             `json:"year"`
	EmployeeCount    int64           `json:"employeeCount"`
	TotalGrossSalary decimal.Decimal `json:"totalGrossSalary"`
	TotalPF          decimal.Decimal `json:"totalPf"`
	TotalESIC        decimal.Decimal `json:"totalEsic"`
	TotalCanteen     decimal.Decimal `json:"totalCanteen"`
	TotalAdvance     decimal.Decimal `json:"totalAdvance"`
	TotalNetSalary   decimal.Decimal `json:"totalNetSalary"`
}

// LineError reports one employee whose salary could not be computed during a
// batch run. The batch continues past it.
type LineError struct {
	EmployeeCode string `json:"employeeCode"`
	Message      string `json:"message"`
}
