package export

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/company-admin-console/internal/core/employee"
)

func TestWriteEmployees(t *testing.T) {
	t.Parallel()

	list := []*employee.Employee{
		{
			ID:             "1",
			EmployeeCode:   "EMP-001",
			User:           &employee.UserSnapshot{FirstName: "Taro", LastName: "Yamada", Email: "taro@example.com", Phone: "090"},
			DepartmentName: "Eng",
			Position:       "Lead",
			IsActive:       true,
		},
		nil,
		{ID: "2", Role: "Intern"},
	}

	var buf bytes.Buffer
	if err := WriteEmployees(&buf, list); err != nil {
		t.Fatalf("WriteEmployees returned error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}

	want := [][]string{
		{"Employee ID", "Name", "Email", "Phone", "Department", "Position", "Status"},
		{"EMP-001", "Taro Yamada", "taro@example.com", "090", "Eng", "Lead", "Active"},
		{"N/A", "N/A", "N/A", "N/A", "No Department", "Intern", "Inactive"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected rows:\nwant %v\ngot  %v", want, rows)
	}
}

func TestWriteEmployees_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEmployees(&buf, nil); err != nil {
		t.Fatalf("WriteEmployees returned error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
