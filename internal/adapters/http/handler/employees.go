package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/company-admin-console/internal/adapters/export"
	"github.com/ogurasousui/company-admin-console/internal/core/company"
	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

const exportFileName = "employees.xlsx"

// EmployeeHandler は社員一覧・エクスポート・部署一覧を扱います。
type EmployeeHandler struct {
	employees employee.UseCase
	companies company.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(employees employee.UseCase, companies company.UseCase) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, companies: companies}
}

// List は GET /employees を処理します。
func (h *EmployeeHandler) List(c *gin.Context) {
	in, err := h.listInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		writeError(c, employee.ErrInvalidPageSize)
		return
	}
	in.PageSize = pageSize
	in.PageToken = c.Query("page_token")

	result, err := h.employees.ListEmployees(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]employeeResponse, 0, len(result.Employees))
	for _, e := range result.Employees {
		items = append(items, toEmployeeResponse(e))
	}
	c.JSON(http.StatusOK, gin.H{
		"employees":       items,
		"total":           result.Total,
		"next_page_token": result.NextPageToken,
	})
}

// Export は GET /employees/export を処理します。一覧と同じ条件で絞り込んだ全件を xlsx で返します。
func (h *EmployeeHandler) Export(c *gin.Context) {
	in, err := h.listInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.employees.ListEmployees(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteEmployees(&buf, result.Employees); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// Departments は GET /departments を処理します。
func (h *EmployeeHandler) Departments(c *gin.Context) {
	companyID, err := h.companyScope(c)
	if err != nil {
		writeError(c, err)
		return
	}

	names, err := h.companies.ListDepartments(c.Request.Context(), company.ListDepartmentsInput{CompanyID: companyID})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": names})
}

func (h *EmployeeHandler) listInput(c *gin.Context) (employee.ListEmployeesInput, error) {
	companyID, err := h.companyScope(c)
	if err != nil {
		return employee.ListEmployeesInput{}, err
	}

	status, err := employee.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return employee.ListEmployeesInput{}, err
	}

	return employee.ListEmployeesInput{
		CompanyID: companyID,
		Criteria: employee.Criteria{
			Search:     c.Query("search"),
			Department: c.Query("department"),
			Status:     status,
		},
	}, nil
}

// companyScope は参照対象の会社を決定します。所属会社のない ADMIN のみ company_id クエリで指定でき、
// 指定された会社が存在しない場合は company.ErrCompanyNotFound を返します。
func (h *EmployeeHandler) companyScope(c *gin.Context) (string, error) {
	u := currentIdentity(c).User
	if u.CompanyID != nil && *u.CompanyID != "" {
		return *u.CompanyID, nil
	}
	if u.Role != user.RoleAdmin {
		return "", employee.ErrInvalidCompanyID
	}

	id := c.Query("company_id")
	if id == "" {
		return "", employee.ErrInvalidCompanyID
	}
	found, err := h.companies.GetCompany(c.Request.Context(), company.GetCompanyInput{ID: id})
	if err != nil {
		return "", err
	}
	return found.ID, nil
}
