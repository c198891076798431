package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	pgdb "github.com/ogurasousui/company-admin-console/internal/platform/db/postgres"
)

// EmployeeRepository は PostgreSQL を社員一覧の取得元とする実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// ListByCompany は会社の社員を登録順で取得します。ユーザー・部署が未設定の社員も含みます。
func (r *EmployeeRepository) ListByCompany(ctx context.Context, companyID string) ([]*employee.Employee, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, employee.ErrInvalidCompanyID
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT e.id,
               e.company_id,
               e.employee_code,
               e.position,
               e.role,
               e.is_active,
               e.hired_at,
               e.created_at,
               e.updated_at,
               d.name,
               u.id,
               u.first_name,
               u.last_name,
               u.email,
               u.phone
          FROM employees e
          LEFT JOIN users u ON u.id = e.user_id
          LEFT JOIN departments d ON d.id = e.department_id
         WHERE e.company_id = $1
         ORDER BY e.created_at, e.id
    `, companyID)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id         string
		companyID  string
		code       string
		position   sql.NullString
		role       sql.NullString
		isActive   bool
		hiredAt    sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
		department sql.NullString
		userID     sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
		email      sql.NullString
		phone      sql.NullString
	)

	if err := row.Scan(
		&id,
		&companyID,
		&code,
		&position,
		&role,
		&isActive,
		&hiredAt,
		&createdAt,
		&updatedAt,
		&department,
		&userID,
		&firstName,
		&lastName,
		&email,
		&phone,
	); err != nil {
		return nil, err
	}

	var hiredPtr *time.Time
	if hiredAt.Valid {
		t := hiredAt.Time.UTC()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		hiredPtr = &date
	}

	emp := &employee.Employee{
		ID:             id,
		CompanyID:      companyID,
		EmployeeCode:   code,
		DepartmentName: department.String,
		Position:       position.String,
		Role:           role.String,
		IsActive:       isActive,
		HiredAt:        hiredPtr,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
	if userID.Valid {
		emp.User = &employee.UserSnapshot{
			ID:        userID.String,
			FirstName: firstName.String,
			LastName:  lastName.String,
			Email:     email.String,
			Phone:     phone.String,
		}
	}
	return emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentationCode {
		// company_id が uuid として解釈できない
		return employee.ErrInvalidCompanyID
	}
	return err
}
