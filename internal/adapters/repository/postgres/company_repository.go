package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/company-admin-console/internal/core/company"
	pgdb "github.com/ogurasousui/company-admin-console/internal/platform/db/postgres"
)

const invalidTextRepresentationCode = "22P02"

// CompanyRepository は PostgreSQL を利用した会社・部署参照の実装です。
type CompanyRepository struct {
	pool pgdb.Queryer
}

var _ company.Repository = (*CompanyRepository)(nil)

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// FindByID は ID で会社を取得します。
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, code, status, description, created_at, updated_at
          FROM companies
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// ListDepartments は会社の部署を名前順で取得します。
func (r *CompanyRepository) ListDepartments(ctx context.Context, companyID string) ([]*company.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, company_id, name, created_at
          FROM departments
         WHERE company_id = $1
         ORDER BY name, id
    `, companyID)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	defer rows.Close()

	departments := make([]*company.Department, 0)
	for rows.Next() {
		var d company.Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.CreatedAt); err != nil {
			return nil, translateCompanyPgError(err)
		}
		departments = append(departments, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateCompanyPgError(err)
	}

	return departments, nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var (
		id, name, code, status string
		description            sql.NullString
		createdAt, updatedAt   time.Time
	)

	if err := row.Scan(&id, &name, &code, &status, &description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}

	var descPtr *string
	if description.Valid {
		desc := description.String
		descPtr = &desc
	}

	return &company.Company{
		ID:          id,
		Name:        name,
		Code:        code,
		Status:      company.Status(status),
		Description: descPtr,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func translateCompanyPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return company.ErrCompanyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentationCode {
		return company.ErrCompanyNotFound
	}
	return err
}
