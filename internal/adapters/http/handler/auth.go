package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

// AuthHandler はログイン・ログアウト・現在のユーザーを扱います。
type AuthHandler struct {
	sessions session.UseCase
	users    user.UseCase
}

// NewAuthHandler は AuthHandler を生成します。
func NewAuthHandler(sessions session.UseCase, users user.UseCase) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login は POST /auth/login を処理します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), session.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       result.Token,
		"expires_at":  result.ExpiresAt,
		"user":        toUserResponse(result.User),
		"redirect_to": result.RedirectTo,
		"message":     "Login successful",
	})
}

// Logout は POST /auth/logout を処理します。
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Me は GET /auth/me を処理します。
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, toMeResponse(currentIdentity(c).User))
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// UpdateMe は PATCH /auth/me を処理します。
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.UpdateProfileInput{
		ID:        currentIdentity(c).User.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMeResponse(updated))
}
