package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/company-admin-console/internal/core/employee"
)

const (
	// ContentType は xlsx のレスポンスヘッダ値です。
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName   = "Employees"
)

var headers = []interface{}{"Employee ID", "Name", "Email", "Phone", "Department", "Position", "Status"}

// WriteEmployees は社員一覧を一覧画面と同じ列・表示値で xlsx として書き出します。
func WriteEmployees(w io.Writer, list []*employee.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("export: header range: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("export: apply header style: %w", err)
	}

	row := 2
	for _, e := range list {
		if e == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("export: row %d: %w", row, err)
		}
		values := []interface{}{
			orNotAvailable(e.EmployeeCode),
			e.DisplayName(),
			e.EmailLabel(),
			e.PhoneLabel(),
			e.DepartmentLabel(),
			e.PositionLabel(),
			e.StatusLabel(),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("export: write row %d: %w", row, err)
		}
		row++
	}

	if err := f.SetColWidth(sheetName, "A", "G", 20); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func orNotAvailable(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
