package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arush420/Project-X/internal/pager"
	"github.com/arush420/Project-X/internal/types"
	"github.com/gabriel-vasile/mimetype"
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

// RecordAttendance creates or replaces the attendance for the request's
// (employee, month, year).
func (s *Service) RecordAttendance(ctx context.Context, in *AttendanceReq) (*Attendance, error) {
	zlog := s.zlog.With(
		zap.String("Method", "RecordAttendance"),
		zap.String("EmployeeCode", in.EmployeeCode),
	)

	if err := in.Validate(); err != nil {
		return nil, err
	}

	attendance := in.ToAttendance()
	if err := saveAttendance(ctx, s.db, attendance); err != nil {
		zlog.Error("failed to save attendance", zap.Error(err))
		return nil, err
	}

	return attendance, nil
}

func (s *Service) ListAttendances(ctx context.Context, in *AttendanceQuery) (*ListAttendancesResult, error) {
	zlog := s.zlog.With(
		zap.String("Method", "ListAttendances"),
	)

	attendances, err := listAttendances(ctx, s.db, in)
	if err != nil {
		zlog.Error("failed to list attendances", zap.Error(err))
		return nil, err
	}

	var pageToken string
	if l := len(attendances); l > 0 && l == int(pager.Size(in.PageSize)) {
		last := attendances[l-1]
		pageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   strconv.FormatInt(last.ID, 10),
			Time: last.CreatedAt,
		})
	}

	return &ListAttendancesResult{
		Attendances:   attendances,
		NextPageToken: pageToken,
	}, nil
}

// DaysWorkedByPeriod returns employee code -> days worked for one period.
// Employees without a record for the period are simply absent.
func (s *Service) DaysWorkedByPeriod(ctx context.Context, period types.Period) (map[string]int, error) {
	attendances, err := listAttendances(ctx, s.db, &AttendanceQuery{
		noLimit: true,
		Month:   period.Month,
		Year:    period.Year,
	})
	if err != nil {
		return nil, err
	}

	days := make(map[string]int, len(attendances))
	for _, a := range attendances {
		days[a.EmployeeCode] = a.DaysWorked
	}
	return days, nil
}

type UploadReq struct {
	OriginalName string
	ReadSeeker   io.ReadSeeker
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type UploadResult struct {
	Recorded int        `json:"recorded"`
	Errors   []RowError `json:"errors"`
}

var uploadColumns = []string{"employee_code", "site", "month", "year", "days_worked"}

// UploadAttendances imports attendance counts from an xlsx workbook, row by
// row. Bad rows are reported and skipped; good rows are upserted.
func (s *Service) UploadAttendances(ctx context.Context, in *UploadReq) (*UploadResult, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UploadAttendances"),
		zap.String("FileName", in.OriginalName),
	)

	mime, err := mimetype.DetectReader(in.ReadSeeker)
	if err != nil {
		zlog.Error("failed to detect file type", zap.Error(err))
		return nil, err
	}

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

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range uploadColumns {
		if _, ok := index[name]; !ok {
			return nil, rpcstatus.Errorf(codes.InvalidArgument, "The workbook is missing the %q column.", name)
		}
	}

	result := new(UploadResult)
	result.Errors = make([]RowError, 0)
	for i, row := range rows[1:] {
		rowNumber := i + 2

		req, err := attendanceReqFromRow(row, index)
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNumber,
				Message: err.Error(),
			})
			continue
		}

		if err := saveAttendance(ctx, s.db, req.ToAttendance()); err != nil {
			zlog.Error("failed to save attendance", zap.Error(err), zap.Int("row", rowNumber))
			result.Errors = append(result.Errors, RowError{
				Row:     rowNumber,
				Message: "failed to save attendance",
			})
			continue
		}
		result.Recorded++
	}

	return result, nil
}

func attendanceReqFromRow(row []string, index map[string]int) (*AttendanceReq, error) {
	cell := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	number := func(name string) (int, error) {
		raw := cell(name)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %q", name, raw)
		}
		return n, nil
	}

	month, err := number("month")
	if err != nil {
		return nil, err
	}
	year, err := number("year")
	if err != nil {
		return nil, err
	}
	daysWorked, err := number("days_worked")
	if err != nil {
		return nil, err
	}

	req := &AttendanceReq{
		EmployeeCode: cell("employee_code"),
		Site:         cell("site"),
		Month:        types.Month(month),
		Year:         year,
		DaysWorked:   daysWorked,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid attendance for %s", req.EmployeeCode)
	}

	return req, nil
}
