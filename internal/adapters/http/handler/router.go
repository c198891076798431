package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ogurasousui/company-admin-console/internal/core/adminuser"
	"github.com/ogurasousui/company-admin-console/internal/core/company"
	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

// Dependencies はルーターが利用するユースケースです。
type Dependencies struct {
	Sessions   session.UseCase
	Users      user.UseCase
	AdminUsers adminuser.UseCase
	Employees  employee.UseCase
	Companies  company.UseCase
	Logger     *zap.Logger
}

// NewRouter はコンソール API のルーティングを構築します。
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := NewAuthHandler(deps.Sessions, deps.Users)
	adminUsers := NewAdminUserHandler(deps.AdminUsers, deps.Users)
	employees := NewEmployeeHandler(deps.Employees, deps.Companies)

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", auth.Login)

	authed := v1.Group("", requireAuth(deps.Sessions))
	authed.POST("/auth/logout", auth.Logout)
	authed.GET("/auth/me", auth.Me)
	authed.PATCH("/auth/me", auth.UpdateMe)
	authed.GET("/employees", employees.List)
	authed.GET("/employees/export", employees.Export)
	authed.GET("/departments", employees.Departments)

	admin := authed.Group("/admin-users", requireRole(user.RoleAdmin))
	admin.POST("/validate", adminUsers.Validate)
	admin.POST("", adminUsers.Create)
	admin.GET("", adminUsers.List)

	return r
}
