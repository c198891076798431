package employee

import (
	"strings"
	"time"
)

const (
	labelNotAvailable = "N/A"
	labelNoDepartment = "No Department"
	labelActive       = "Active"
	labelInactive     = "Inactive"
)

// Employee は社員エンティティです。is_active の表現揺れは取り込み時に bool へ正規化済みです。
type Employee struct {
	ID             string
	CompanyID      string
	EmployeeCode   string
	User           *UserSnapshot
	DepartmentName string
	Position       string
	Role           string
	IsActive       bool
	HiredAt        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserSnapshot は社員に紐づくユーザー情報のスナップショットです。
type UserSnapshot struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// FullName は姓名を連結した名前を返します。ユーザー情報がない場合は空文字列です。
func (e *Employee) FullName() string {
	if e == nil || e.User == nil {
		return ""
	}
	return strings.TrimSpace(e.User.FirstName + " " + e.User.LastName)
}

// Email はユーザーのメールアドレスを返します。ユーザー情報がない場合は空文字列です。
func (e *Employee) Email() string {
	if e == nil || e.User == nil {
		return ""
	}
	return e.User.Email
}

// DisplayName は一覧表示用の名前です。
func (e *Employee) DisplayName() string {
	return orNotAvailable(e.FullName())
}

// EmailLabel は一覧表示用のメールアドレスです。
func (e *Employee) EmailLabel() string {
	return orNotAvailable(e.Email())
}

// PhoneLabel は一覧表示用の電話番号です。
func (e *Employee) PhoneLabel() string {
	if e == nil || e.User == nil {
		return labelNotAvailable
	}
	return orNotAvailable(e.User.Phone)
}

// DepartmentLabel は部署名を返し、未所属の場合は "No Department" を返します。
func (e *Employee) DepartmentLabel() string {
	if e == nil || e.DepartmentName == "" {
		return labelNoDepartment
	}
	return e.DepartmentName
}

// PositionLabel は役職、ロールの順にフォールバックした表示値です。
func (e *Employee) PositionLabel() string {
	if e == nil {
		return labelNotAvailable
	}
	if e.Position != "" {
		return e.Position
	}
	return orNotAvailable(e.Role)
}

// StatusLabel は在籍状態の表示値です。
func (e *Employee) StatusLabel() string {
	if e != nil && e.IsActive {
		return labelActive
	}
	return labelInactive
}

func orNotAvailable(s string) string {
	if s == "" {
		return labelNotAvailable
	}
	return s
}
