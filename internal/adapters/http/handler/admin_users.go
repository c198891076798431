package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/company-admin-console/internal/core/adminuser"
	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

// AdminUserHandler は管理ユーザー作成フォームと一覧を扱います。
type AdminUserHandler struct {
	adminUsers adminuser.UseCase
	users      user.UseCase
}

// NewAdminUserHandler は AdminUserHandler を生成します。
func NewAdminUserHandler(adminUsers adminuser.UseCase, users user.UseCase) *AdminUserHandler {
	return &AdminUserHandler{adminUsers: adminUsers, users: users}
}

// Validate は POST /admin-users/validate を処理します。送信は行わず検証結果のみ返します。
func (h *AdminUserHandler) Validate(c *gin.Context) {
	var form adminuser.FormInput
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fields := h.adminUsers.Validate(form)
	c.JSON(http.StatusOK, gin.H{"valid": fields.Empty(), "errors": fields})
}

// Create は POST /admin-users を処理します。成功時は管理ダッシュボードへの遷移先を返します。
func (h *AdminUserHandler) Create(c *gin.Context) {
	var form adminuser.FormInput
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.adminUsers.Submit(c.Request.Context(), adminuser.SubmitInput{
		Form:      form,
		CompanyID: currentIdentity(c).User.CompanyID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":        toUserResponse(created),
		"redirect_to": session.PathDashboard,
	})
}

// List は GET /admin-users を処理します。role クエリで絞り込みます。
func (h *AdminUserHandler) List(c *gin.Context) {
	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		writeError(c, user.ErrInvalidPageSize)
		return
	}

	in := user.ListUsersInput{
		PageSize:  pageSize,
		PageToken: c.Query("page_token"),
	}
	if raw := c.Query("role"); raw != "" {
		role := user.Role(raw)
		in.Role = &role
	}

	result, err := h.users.ListUsers(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	users := make([]userResponse, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "next_page_token": result.NextPageToken})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
