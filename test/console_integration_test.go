//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/ogurasousui/company-admin-console/internal/adapters/repository/postgres"
	"github.com/ogurasousui/company-admin-console/internal/adapters/revocation"
	"github.com/ogurasousui/company-admin-console/internal/adapters/token"
	"github.com/ogurasousui/company-admin-console/internal/core/adminuser"
	"github.com/ogurasousui/company-admin-console/internal/core/company"
	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
	"github.com/ogurasousui/company-admin-console/internal/platform/config"
	pg "github.com/ogurasousui/company-admin-console/internal/platform/db/postgres"
)

const migrationsDir = "../assets/migrations"

func TestConsoleIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	companyID := seedCompany(ctx, t, pool)

	txManager := pg.NewTransactionManager(pool)
	userRepo := repo.NewUserRepository(pool)

	adminSvc := adminuser.NewService(userRepo, txManager, nil, nil, nil)
	form := adminuser.FormInput{
		FirstName:       "Integration",
		LastName:        "Admin",
		Email:           "Integration.Admin@Example.com",
		Phone:           "+81-90-0000-0000",
		Password:        "password123",
		ConfirmPassword: "password123",
	}

	created, err := adminSvc.Submit(ctx, adminuser.SubmitInput{Form: form, CompanyID: &companyID})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if created.Role != user.RoleAdmin || created.Email != "integration.admin@example.com" {
		t.Fatalf("unexpected created user: %+v", created)
	}

	found, err := userRepo.FindByEmail(ctx, "INTEGRATION.ADMIN@example.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, found.ID)
	}

	if _, err := adminSvc.Submit(ctx, adminuser.SubmitInput{Form: form, CompanyID: &companyID}); !errors.Is(err, adminuser.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken on duplicate, got %v", err)
	}

	sessions := session.NewService(userRepo, token.NewIssuer(cfg.Auth), revocation.NewMemoryStore(), nil, nil)
	login, err := sessions.Login(ctx, session.LoginInput{Email: form.Email, Password: form.Password})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if login.RedirectTo != session.PathDashboard {
		t.Fatalf("expected redirect %s, got %s", session.PathDashboard, login.RedirectTo)
	}
	if err := sessions.Logout(ctx, login.Token); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if _, err := sessions.CurrentUser(ctx, login.Token); !errors.Is(err, session.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}

	seedEmployees(ctx, t, pool, companyID, created.ID)

	employees := employee.NewService(repo.NewEmployeeRepository(pool), txManager)
	result, err := employees.ListEmployees(ctx, employee.ListEmployeesInput{
		CompanyID: companyID,
		Criteria:  employee.Criteria{Status: employee.StatusActive},
	})
	if err != nil {
		t.Fatalf("ListEmployees error: %v", err)
	}
	if result.Total != 1 || len(result.Employees) != 1 || result.Employees[0].EmployeeCode != "E-001" {
		t.Fatalf("unexpected active employees: %+v", result)
	}

	result, err = employees.ListEmployees(ctx, employee.ListEmployeesInput{
		CompanyID: companyID,
		Criteria:  employee.Criteria{Department: "Sales", Status: employee.StatusAll},
	})
	if err != nil {
		t.Fatalf("ListEmployees error: %v", err)
	}
	if result.Total != 1 || result.Employees[0].EmployeeCode != "E-002" {
		t.Fatalf("unexpected sales employees: %+v", result)
	}

	companies := company.NewService(repo.NewCompanyRepository(pool), txManager)
	departments, err := companies.ListDepartments(ctx, company.ListDepartmentsInput{CompanyID: companyID})
	if err != nil {
		t.Fatalf("ListDepartments error: %v", err)
	}
	if len(departments) != 2 || departments[0] != "Engineering" || departments[1] != "Sales" {
		t.Fatalf("unexpected departments: %v", departments)
	}
}

func seedCompany(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	var id string
	if err := pool.QueryRow(ctx,
		`INSERT INTO companies (name, code) VALUES ('Integration Inc.', 'INTEG') RETURNING id::text`,
	).Scan(&id); err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO departments (company_id, name) VALUES ($1, 'Engineering'), ($1, 'Sales')`, id,
	); err != nil {
		t.Fatalf("failed to seed departments: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO departments (company_id, name) VALUES ($1, ' Sales ')`, id,
	); err == nil {
		t.Fatal("expected padded department name to be rejected")
	}
	return id
}

func seedEmployees(ctx context.Context, t *testing.T, pool *pgxpool.Pool, companyID, userID string) {
	t.Helper()

	hired := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if _, err := pool.Exec(ctx, `
INSERT INTO employees (company_id, employee_code, user_id, department_id, position, is_active, hired_at, created_at)
SELECT $1, 'E-001', $2, d.id, 'Engineer', TRUE, $3, NOW() - INTERVAL '1 minute'
FROM departments d WHERE d.company_id = $1 AND d.name = 'Engineering'`,
		companyID, userID, hired,
	); err != nil {
		t.Fatalf("failed to seed active employee: %v", err)
	}

	if _, err := pool.Exec(ctx, `
INSERT INTO employees (company_id, employee_code, department_id, role, is_active)
SELECT $1, 'E-002', d.id, 'Sales Rep', FALSE
FROM departments d WHERE d.company_id = $1 AND d.name = 'Sales'`,
		companyID,
	); err != nil {
		t.Fatalf("failed to seed inactive employee: %v", err)
	}
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}
