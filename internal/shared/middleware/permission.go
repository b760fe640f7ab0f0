package middleware

import (
	"net/http"

	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequirePermission chặn route theo policy table, chạy sau AuthMiddleware
func RequirePermission(action authz.Action, resource authz.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := RequireIdentity(c)
		if !ok {
			c.Abort()
			return
		}

		if !id.Can(action, resource) {
			response.ErrorResponse(c, http.StatusForbidden, "AUTH_003", "Access denied")
			c.Abort()
			return
		}

		c.Next()
	}
}
