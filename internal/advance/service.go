package advance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arush420/Project-X/internal/pager"
	"github.com/arush420/Project-X/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service struct {
	db   *sql.DB
	zlog *zap.Logger
}

func NewService(_ context.Context, db *sql.DB, zlog *zap.Logger) (*Service, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if zlog == nil {
		return nil, errors.New("logger is nil")
	}

	return &Service{db: db, zlog: zlog}, nil
}

// CreateStaffSalary records a monthly wage sheet for an office staff member.
// The opening balance is carried forward from the employee's previous sheet's
// amount left; the first sheet opens at zero.
func (s *Service) CreateStaffSalary(ctx context.Context, req *StaffSalaryReq) (*StaffSalary, error) {
	zlog := s.zlog.With(
		zap.String("Method", "CreateStaffSalary"),
		zap.String("EmployeeCode", req.EmployeeCode),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	opening := decimal.Zero
	previous, err := latestStaffSalary(ctx, s.db, req.EmployeeCode)
	switch {
	case errors.Is(err, ErrStaffSalaryNotFound):
	case err != nil:
		zlog.Error("Failed to get previous staff salary", zap.Error(err))
		return nil, err
	default:
		opening = previous.AmountLeft
	}

	pending, err := latestBalance(ctx, s.db, req.EmployeeCode)
	if err != nil {
		zlog.Error("Failed to get advance balance", zap.Error(err))
		return nil, err
	}

	salary := &StaffSalary{
		EmployeeCode:     req.EmployeeCode,
		Name:             req.Name,
		FatherName:       req.FatherName,
		GrossRate:        req.GrossRate,
		GrossSalary:      req.GrossSalary,
		ESICApplicable:   req.ESICApplicable,
		PFApplicable:     req.PFApplicable,
		LWFApplicable:    req.LWFApplicable,
		ESICDeduction:    req.ESICDeduction,
		PFDeduction:      req.PFDeduction,
		LWFDeduction:     req.LWFDeduction,
		NetSalary:        req.NetSalary,
		AdvanceGiven:     req.AdvanceGiven,
		AdvanceDeduction: req.AdvanceDeduction,
		AdvancePending:   pending,
		OpeningBalance:   opening,
		AmountPaid:       req.AmountPaid,
		AmountRecovered:  req.AmountRecovered,
		AmountLeft:       req.AmountLeft,
		Date:             req.Date,
		Comment:          req.Comment,
		CreatedAt:        time.Now(),
	}

	if err := saveStaffSalary(ctx, s.db, salary); err != nil {
		zlog.Error("Failed to save staff salary", zap.Error(err))
		return nil, err
	}

	return salary, nil
}

func (s *Service) UpdateStaffSalary(ctx context.Context, req *StaffSalaryReq) (*StaffSalary, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UpdateStaffSalary"),
		zap.Int64("ID", req.ID),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	salary, err := getStaffSalary(ctx, s.db, &StaffSalaryQuery{ID: req.ID})
	if err != nil {
		zlog.Error("Failed to get staff salary", zap.Error(err))
		return nil, err
	}

	salary.Name = req.Name
	salary.FatherName = req.FatherName
	salary.GrossRate = req.GrossRate
	salary.GrossSalary = req.GrossSalary
	salary.ESICApplicable = req.ESICApplicable
	salary.PFApplicable = req.PFApplicable
	salary.LWFApplicable = req.LWFApplicable
	salary.ESICDeduction = req.ESICDeduction
	salary.PFDeduction = req.PFDeduction
	salary.LWFDeduction = req.LWFDeduction
	salary.NetSalary = req.NetSalary
	salary.AdvanceGiven = req.AdvanceGiven
	salary.AdvanceDeduction = req.AdvanceDeduction
	salary.AmountPaid = req.AmountPaid
	salary.AmountRecovered = req.AmountRecovered
	salary.AmountLeft = req.AmountLeft
	salary.Date = req.Date
	salary.Comment = req.Comment

	if err := saveStaffSalary(ctx, s.db, salary); err != nil {
		zlog.Error("Failed to save staff salary", zap.Error(err))
		return nil, err
	}

	return salary, nil
}

func (s *Service) GetStaffSalary(ctx context.Context, query *StaffSalaryQuery) (*StaffSalary, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetStaffSalary"),
		zap.Int64("ID", query.ID),
	)

	salary, err := getStaffSalary(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to get staff salary", zap.Error(err))
		return nil, err
	}

	return salary, nil
}

func (s *Service) ListStaffSalaries(ctx context.Context, query *StaffSalaryQuery) (*ListStaffSalariesResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListStaffSalaries"))

	salaries, err := listStaffSalaries(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list staff salaries", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(salaries)); l > 0 && l >= pager.Size(query.PageSize) {
		last := salaries[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   last.EmployeeCode,
			Time: last.CreatedAt,
		})
	}

	return &ListStaffSalariesResult{
		StaffSalaries: salaries,
		NextPageToken: nextPageToken,
	}, nil
}

// AddTransaction appends an advance ledger entry. The new balance is derived
// from the employee's latest recorded balance, not from the entry's date:
// backdated entries extend the ledger at its current position and balances
// already written are not rewritten.
func (s *Service) AddTransaction(ctx context.Context, req *TransactionReq) (*Transaction, error) {
	zlog := s.zlog.With(
		zap.String("Method", "AddTransaction"),
		zap.String("EmployeeCode", req.EmployeeCode),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	previous, err := latestBalance(ctx, s.db, req.EmployeeCode)
	if err != nil {
		zlog.Error("Failed to get latest balance", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	if req.Date.Before(now.AddDate(0, 0, -1)) {
		zlog.Warn("Backdated advance transaction, balances of later entries are not rewritten",
			zap.Time("Date", req.Date),
		)
	}

	tx := &Transaction{
		EmployeeCode:   req.EmployeeCode,
		Date:           req.Date,
		Taken:          req.Taken,
		Deducted:       req.Deducted,
		Balance:        ApplyTransaction(previous, req.Taken, req.Deducted),
		Nature:         req.Nature,
		Mode:           req.Mode,
		ChequeNo:       req.ChequeNo,
		PaidReceivedBy: req.PaidReceivedBy,
		Comment:        req.Comment,
		CreatedAt:      now,
	}

	if err := saveTransaction(ctx, s.db, tx); err != nil {
		zlog.Error("Failed to save advance transaction", zap.Error(err))
		return nil, err
	}

	return tx, nil
}

func (s *Service) ListTransactions(ctx context.Context, query *TransactionQuery) (*ListTransactionsResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListTransactions"))

	txs, err := listTransactions(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list advance transactions", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(txs)); l > 0 && l >= pager.Size(query.PageSize) {
		last := txs[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   last.EmployeeCode,
			Time: last.CreatedAt,
		})
	}

	return &ListTransactionsResult{
		Transactions:  txs,
		NextPageToken: nextPageToken,
	}, nil
}

// Balance returns the employee's current advance balance.
func (s *Service) Balance(ctx context.Context, employeeCode string) (decimal.Decimal, error) {
	return latestBalance(ctx, s.db, employeeCode)
}

// PeriodDeductions sums advance deductions per employee for one month. The
// payroll run uses this to fill each salary's advance deduction.
func (s *Service) PeriodDeductions(ctx context.Context, period types.Period) (map[string]decimal.Decimal, error) {
	zlog := s.zlog.With(
		zap.String("Method", "PeriodDeductions"),
		zap.String("Period", period.String()),
	)

	deductions, err := sumDeductionsByPeriod(ctx, s.db, period)
	if err != nil {
		zlog.Error("Failed to sum advance deductions", zap.Error(err))
		return nil, err
	}

	return deductions, nil
}
