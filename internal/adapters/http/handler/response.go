package handler

import (
	"time"

	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

type userResponse struct {
	ID        string    `json:"id"`
	CompanyID *string   `json:"company_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      user.Role `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type meResponse struct {
	User       userResponse      `json:"user"`
	RedirectTo string            `json:"redirect_to"`
	Dashboard  session.Dashboard `json:"dashboard"`
}

func toMeResponse(u *user.User) meResponse {
	return meResponse{
		User:       toUserResponse(u),
		RedirectTo: session.Route(true, u.Role),
		Dashboard:  session.DashboardFor(u.Role),
	}
}

type employeeResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Status     string `json:"status"`
	IsActive   bool   `json:"is_active"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeCode,
		Name:       e.DisplayName(),
		Email:      e.EmailLabel(),
		Phone:      e.PhoneLabel(),
		Department: e.DepartmentLabel(),
		Position:   e.PositionLabel(),
		Status:     e.StatusLabel(),
		IsActive:   e.IsActive,
	}
}
