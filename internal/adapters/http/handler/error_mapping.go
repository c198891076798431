package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/company-admin-console/internal/core/adminuser"
	"github.com/ogurasousui/company-admin-console/internal/core/company"
	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
)

// toHTTPError はドメインエラーを HTTP ステータスとレスポンスボディに変換します。
func toHTTPError(err error) (int, gin.H) {
	var verr *adminuser.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields}
	case errors.Is(err, adminuser.ErrEmailTaken):
		return http.StatusConflict, gin.H{"errors": adminuser.ErrorFields(err)}
	case errors.Is(err, adminuser.ErrSubmitFailed):
		return http.StatusInternalServerError, gin.H{"errors": adminuser.ErrorFields(err)}
	case errors.Is(err, session.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": session.MsgInvalidCredentials}
	case errors.Is(err, session.ErrAccountDeactivated):
		return http.StatusUnauthorized, gin.H{"error": session.MsgAccountDeactivated}
	case errors.Is(err, session.ErrInvalidToken), errors.Is(err, session.ErrTokenRevoked):
		return http.StatusUnauthorized, gin.H{"error": "authentication required"}
	case errors.Is(err, session.ErrMissingCredentials),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrInvalidPhone),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidID),
		errors.Is(err, user.ErrInvalidPageSize),
		errors.Is(err, user.ErrInvalidPageToken),
		errors.Is(err, employee.ErrInvalidCompanyID),
		errors.Is(err, employee.ErrInvalidStatusFilter),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, employee.ErrInvalidPageToken),
		errors.Is(err, company.ErrInvalidID):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, user.ErrUserNotFound), errors.Is(err, company.ErrCompanyNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, company.ErrInactive):
		return http.StatusForbidden, gin.H{"error": err.Error()}
	case errors.Is(err, employee.ErrSourceUnavailable), errors.Is(err, employee.ErrInvalidRecord):
		return http.StatusBadGateway, gin.H{"error": "employee source unavailable"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal server error"}
	}
}

func writeError(c *gin.Context, err error) {
	code, body := toHTTPError(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(code, body)
}
