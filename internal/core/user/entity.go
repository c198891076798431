package user

import (
	"strings"
	"time"
)

// Role はコンソール利用者のロールです。
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
	// RoleParent は会社オーナーを表します。
	RoleParent Role = "PARENT"
)

// User はコンソールのアカウントエンティティです。
type User struct {
	ID           string
	CompanyID    *string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName は姓名を連結した表示名を返します。
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsValidRole は定義済みのロールかを判定します。
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleEmployee, RoleParent:
		return true
	default:
		return false
	}
}
