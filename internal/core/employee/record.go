package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ActiveFlag は取り込み時の is_active を表します。true または文字列 "Active" のみを有効とみなし、
// それ以外（false, "Inactive", null, その他）は無効とします。
type ActiveFlag bool

// UnmarshalJSON は bool と "Active"/"Inactive" の双方を受け付けます。
func (f *ActiveFlag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = false
		return nil
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("%w: is_active: %v", ErrInvalidRecord, err)
	}
	*f = ActiveFlag(IsActiveValue(v))
	return nil
}

// IsActiveValue は bool / 文字列の在籍状態を判定します。
func IsActiveValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == labelActive
	default:
		return false
	}
}

// RecordID は数値または文字列で表現された ID を文字列として保持します。
type RecordID string

// UnmarshalJSON は数値・文字列の ID を受け付けます。
func (id *RecordID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("%w: id: %v", ErrInvalidRecord, err)
	}
	*id = RecordID(n.String())
	return nil
}

// RecordUser は外部データの user 要素です。
type RecordUser struct {
	ID        RecordID `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
}

// Record は外部の社員データソースが返す 1 件分の形式です。
type Record struct {
	ID             RecordID    `json:"id"`
	EmployeeID     string      `json:"employee_id"`
	User           *RecordUser `json:"user"`
	DepartmentName *string     `json:"department_name"`
	Position       *string     `json:"position"`
	Role           *string     `json:"role"`
	IsActive       ActiveFlag  `json:"is_active"`
}

// ToEmployee は Record をドメインの Employee に変換します。
func (r Record) ToEmployee(companyID string) (*Employee, error) {
	if strings.TrimSpace(string(r.ID)) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}

	emp := &Employee{
		ID:             string(r.ID),
		CompanyID:      companyID,
		EmployeeCode:   r.EmployeeID,
		DepartmentName: deref(r.DepartmentName),
		Position:       deref(r.Position),
		Role:           deref(r.Role),
		IsActive:       bool(r.IsActive),
	}
	if r.User != nil {
		emp.User = &UserSnapshot{
			ID:        string(r.User.ID),
			FirstName: r.User.FirstName,
			LastName:  r.User.LastName,
			Email:     r.User.Email,
			Phone:     r.User.Phone,
		}
	}
	return emp, nil
}

// DecodeRecords は JSON 配列、または results 配列を持つページ形式のレスポンスを読み取ります。
func DecodeRecords(data []byte, companyID string) ([]*Employee, error) {
	trimmed := bytes.TrimSpace(data)

	var records []Record
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Results []Record `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		records = page.Results
	} else if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	out := make([]*Employee, 0, len(records))
	for i, rec := range records {
		emp, err := rec.ToEmployee(companyID)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, emp)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
