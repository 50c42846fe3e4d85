package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arush420/Project-X/internal/pager"
	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

// ErrUnsupportedFileType is returned when an uploaded file is not an xlsx workbook.
var ErrUnsupportedFileType = errors.New("unsupported file type")

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

	return &Service{
		db:   db,
		zlog: zlog,
	}, nil
}

func (s *Service) CreateEmployee(ctx context.Context, in *EmployeeReq) (*Employee, error) {
	zlog := s.zlog.With(
		zap.String("Method", "CreateEmployee"),
		zap.String("EmployeeCode", in.EmployeeCode),
	)

	if err := in.Validate(); err != nil {
		return nil, err
	}

	exists, err := isEmployeeExists(ctx, s.db, in.EmployeeCode)
	if err != nil {
		zlog.Error("failed to check if employee exists", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, rpcstatus.Error(
			codes.AlreadyExists,
			"An employee with this code already exists. Please use a different code.",
		)
	}

	employee := in.ToEmployee()
	if err := saveEmployee(ctx, s.db, employee); err != nil {
		zlog.Error("failed to save employee", zap.Error(err))
		return nil, err
	}

	return employee, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, in *EmployeeReq) (*Employee, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UpdateEmployee"),
		zap.Int64("ID", in.ID),
	)

	if err := in.Validate(); err != nil {
		return nil, err
	}

	employee, err := getEmployee(ctx, s.db, &EmployeeQuery{ID: in.ID})
	if errors.Is(err, ErrEmployeeNotFound) {
		return nil, rpcstatus.Error(codes.NotFound, "Employee not found.")
	}
	if err != nil {
		zlog.Error("failed to get employee", zap.Error(err))
		return nil, err
	}

	employee.Update(in)
	if err := saveEmployee(ctx, s.db, employee); err != nil {
		zlog.Error("failed to save employee", zap.Error(err))
		return nil, err
	}

	return employee, nil
}

func (s *Service) GetEmployeeByID(ctx context.Context, id int64) (*Employee, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetEmployeeByID"),
		zap.Int64("ID", id),
	)

	employee, err := getEmployee(ctx, s.db, &EmployeeQuery{ID: id})
	if errors.Is(err, ErrEmployeeNotFound) {
		return nil, rpcstatus.Error(codes.NotFound, "Employee not found.")
	}
	if err != nil {
		zlog.Error("failed to get employee by ID", zap.Error(err))
		return nil, err
	}

	return employee, nil
}

func (s *Service) GetEmployeeByCode(ctx context.Context, code string) (*Employee, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetEmployeeByCode"),
		zap.String("EmployeeCode", code),
	)

	employee, err := getEmployee(ctx, s.db, &EmployeeQuery{EmployeeCode: code})
	if errors.Is(err, ErrEmployeeNotFound) {
		return nil, rpcstatus.Error(codes.NotFound, "Employee not found.")
	}
	if err != nil {
		zlog.Error("failed to get employee by code", zap.Error(err))
		return nil, err
	}

	return employee, nil
}

func (s *Service) ListEmployees(ctx context.Context, in *EmployeeQuery) (*ListEmployeesResult, error) {
	zlog := s.zlog.With(
		zap.String("Method", "ListEmployees"),
	)

	employees, err := listEmployees(ctx, s.db, in)
	if err != nil {
		zlog.Error("failed to list employees", zap.Error(err))
		return nil, err
	}

	var pageToken string
	if l := len(employees); l > 0 && l == int(pager.Size(in.PageSize)) {
		last := employees[l-1]
		pageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   strconv.FormatInt(last.ID, 10),
			Time: last.CreatedAt,
		})
	}

	return &ListEmployeesResult{
		Employees:     employees,
		NextPageToken: pageToken,
	}, nil
}

// ListAllEmployees returns every employee without pagination. Payroll
// generation walks the full roster.
func (s *Service) ListAllEmployees(ctx context.Context) ([]*Employee, error) {
	return listEmployees(ctx, s.db, &EmployeeQuery{noLimit: true})
}

type UploadReq struct {
	OriginalName string
	ReadSeeker   io.ReadSeeker
}

// RowError reports one spreadsheet row that could not be imported.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type UploadResult struct {
	Created int        `json:"created"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors"`
}

// uploadColumns is the required header row of the bulk upload workbook,
// matching the downloadable template.
var uploadColumns = []string{"employee_code", "name", "father_name", "basic", "transport", "canteen", "pf", "esic", "advance"}

// UploadEmployees imports employees from an xlsx workbook. Rows that fail to
// parse are collected and reported; the rest of the file is still imported.
// Rows whose employee code already exists are skipped, never overwritten.
func (s *Service) UploadEmployees(ctx context.Context, in *UploadReq) (*UploadResult, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UploadEmployees"),
		zap.String("FileName", in.OriginalName),
	)

	mime, err := mimetype.DetectReader(in.ReadSeeker)
	if err != nil {
		zlog.Error("failed to detect file type", zap.Error(err))
		return nil, err
	}

	// allow only excel files
	switch mime.String() {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime.String())
	}

	if _, err := in.ReadSeeker.Seek(0, io.SeekStart); err != nil {
		zlog.Error("failed to seek file", zap.Error(err))
		return nil, err
	}

	f, err := excelize.OpenReader(in.ReadSeeker)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, rpcstatus.Error(codes.InvalidArgument, "The workbook is empty.")
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, rpcstatus.Errorf(codes.InvalidArgument, "The workbook is missing required columns: %v.", err)
	}

	result := new(UploadResult)
	result.Errors = make([]RowError, 0)
	for i, row := range rows[1:] {
		rowNumber := i + 2

		req, err := employeeReqFromRow(row, index)
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNumber,
				Message: err.Error(),
			})
			continue
		}

		exists, err := isEmployeeExists(ctx, s.db, req.EmployeeCode)
		if err != nil {
			zlog.Error("failed to check if employee exists", zap.Error(err))
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		if err := saveEmployee(ctx, s.db, req.ToEmployee()); err != nil {
			zlog.Error("failed to save employee", zap.Error(err), zap.Int("row", rowNumber))
			result.Errors = append(result.Errors, RowError{
				Row:     rowNumber,
				Message: "failed to save employee",
			})
			continue
		}
		result.Created++
	}

	return result, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	missing := make([]string, 0)
	for _, name := range uploadColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}

	return index, nil
}

func employeeReqFromRow(row []string, index map[string]int) (*EmployeeReq, error) {
	cell := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	amount := func(name string) (decimal.Decimal, error) {
		raw := strings.ReplaceAll(cell(name), ",", "")
		if raw == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s: %q", name, raw)
		}
		return d, nil
	}

	req := &EmployeeReq{
		EmployeeCode: cell("employee_code"),
		Name:         cell("name"),
		FatherName:   cell("father_name"),
	}
	if req.EmployeeCode == "" {
		return nil, errors.New("employee_code must not be empty")
	}
	if req.Name == "" {
		return nil, errors.New("name must not be empty")
	}

	var err error
	if req.Basic, err = amount("basic"); err != nil {
		return nil, err
	}
	if req.Transport, err = amount("transport"); err != nil {
		return nil, err
	}
	if req.Canteen, err = amount("canteen"); err != nil {
		return nil, err
	}
	if req.PFRate, err = amount("pf"); err != nil {
		return nil, err
	}
	if req.ESICRate, err = amount("esic"); err != nil {
		return nil, err
	}
	if req.Advance, err = amount("advance"); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid employee %s", req.EmployeeCode)
	}

	return req, nil
}
