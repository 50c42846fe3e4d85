package payroll

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/arush420/Project-X/internal/types"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportColumns = []string{
	"Employee Code",
	"Name",
	"Days Worked",
	"Basic",
	"Transport",
	"Canteen",
	"PF",
	"ESIC",
	"Advance",
	"Gross Salary",
	"Net Salary",
}

// ExportSalariesToExcel writes the period's salary register as an xlsx
// workbook, one row per employee with a totals row at the bottom.
func (s *Service) ExportSalariesToExcel(ctx context.Context, period types.Period) (*bytes.Buffer, error) {
	zlog := s.zlog.With(
		zap.String("Method", "ExportSalariesToExcel"),
		zap.String("Period", period.String()),
	)

	salaries, err := s.periodSalaries(ctx, period)
	if err != nil {
		zlog.Error("Failed to list salaries", zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf("Salary %s", period.String())
	sheet, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create new sheet: %w", err)
	}
	f.SetActiveSheet(sheet)
	f.DeleteSheet("Sheet1")

	formatNumber := "#,##0.00"
	numberStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &formatNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	fontStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font style: %w", err)
	}

	for i, col := range exportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number to name: %w", err)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", name), col)
	}
	f.SetCellStyle(sheetName, "A1", "K1", fontStyle)

	for i, sal := range salaries {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sal.EmployeeCode)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sal.EmployeeName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sal.DaysWorked)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sal.BasicSalary.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), sal.Transport.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), sal.Canteen.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), sal.PF.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), sal.ESIC.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), sal.AdvanceDeduction.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), sal.GrossSalary.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), sal.NetSalary.InexactFloat64())
		f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("K%d", row), numberStyle)
	}

	totals, err := sumSalaryTotals(ctx, s.db, period)
	if err != nil {
		zlog.Error("Failed to sum salary totals", zap.Error(err))
		return nil, err
	}

	totalsRow := len(salaries) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow), "Total")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("A%d", totalsRow), fontStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", totalsRow), totals.TotalPF.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", totalsRow), totals.TotalESIC.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("I%d", totalsRow), totals.TotalAdvance.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("J%d", totalsRow), totals.TotalGrossSalary.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("K%d", totalsRow), totals.TotalNetSalary.InexactFloat64())
	f.SetCellStyle(sheetName, fmt.Sprintf("G%d", totalsRow), fmt.Sprintf("K%d", totalsRow), numberStyle)

	byt, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}

	return byt, nil
}

// ExportSalariesToCSV writes the period's salary register as CSV, for import
// into accounting tools that do not read xlsx.
func (s *Service) ExportSalariesToCSV(ctx context.Context, period types.Period) (*bytes.Buffer, error) {
	zlog := s.zlog.With(
		zap.String("Method", "ExportSalariesToCSV"),
		zap.String("Period", period.String()),
	)

	salaries, err := s.periodSalaries(ctx, period)
	if err != nil {
		zlog.Error("Failed to list salaries", zap.Error(err))
		return nil, err
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, sal := range salaries {
		record := []string{
			sal.EmployeeCode,
			sal.EmployeeName,
			fmt.Sprintf("%d", sal.DaysWorked),
			sal.BasicSalary.StringFixed(2),
			sal.Transport.StringFixed(2),
			sal.Canteen.StringFixed(2),
			sal.PF.StringFixed(2),
			sal.ESIC.StringFixed(2),
			sal.AdvanceDeduction.StringFixed(2),
			sal.GrossSalary.StringFixed(2),
			sal.NetSalary.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf, nil
}

func (s *Service) periodSalaries(ctx context.Context, period types.Period) ([]*Salary, error) {
	return listSalaries(ctx, s.db, &SalaryQuery{
		Month:    period.Month,
		Year:     period.Year,
		PageSize: 250,
	})
}
