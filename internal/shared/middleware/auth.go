package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bookstore-marketplace/internal/shared/apperror"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/response"
	"bookstore-marketplace/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextKeyUserID   = "userID"
	ContextKeyRole     = "role"
	ContextKeyIdentity = "identity"

	msgTokenRequired = "Authorization token is required"
	msgInvalidToken  = "Invalid token"
)

// TokenValidator được *jwt.Manager implement
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// RoleResolver tra role hiện tại của user (DB + cache), không tin role trong token
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID uuid.UUID) (authz.Role, error)
}

// AuthMiddleware - xác thực Bearer token và gắn Identity vào context
//   - thiếu/sai format header → 401
//   - token không hợp lệ, hết hạn, user không còn tồn tại → 403
func AuthMiddleware(tokens TokenValidator, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ "Bearer <token>"
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.ErrorResponse(c, http.StatusUnauthorized, "AUTH_001", msgTokenRequired)
			c.Abort()
			return
		}

		// 2. Verify token
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.ErrorResponse(c, http.StatusForbidden, "AUTH_002", msgInvalidToken)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.ID)
		if err != nil {
			response.ErrorResponse(c, http.StatusForbidden, "AUTH_002", msgInvalidToken)
			c.Abort()
			return
		}

		// 3. Role lấy từ store
		role, err := roles.ResolveRole(c.Request.Context(), userID)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindNotFound {
				response.ErrorResponse(c, http.StatusForbidden, "AUTH_002", msgInvalidToken)
			} else {
				response.HandleError(c, err)
			}
			c.Abort()
			return
		}

		SetIdentity(c, authz.Identity{UserID: userID, Role: role})
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// =====================================================
// CONTEXT HELPERS
// =====================================================

func SetIdentity(c *gin.Context, id authz.Identity) {
	c.Set(ContextKeyUserID, id.UserID)
	c.Set(ContextKeyRole, id.Role)
	c.Set(ContextKeyIdentity, id)
}

var ErrNoIdentity = errors.New("identity not found in context")

// GetIdentity trả về principal do AuthMiddleware gắn
func GetIdentity(c *gin.Context) (authz.Identity, error) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return authz.Identity{}, ErrNoIdentity
	}
	id, ok := v.(authz.Identity)
	if !ok {
		return authz.Identity{}, ErrNoIdentity
	}
	return id, nil
}

// RequireIdentity dùng trong handler: thiếu identity thì ghi 401 và trả false
func RequireIdentity(c *gin.Context) (authz.Identity, bool) {
	id, err := GetIdentity(c)
	if err != nil {
		response.ErrorResponse(c, http.StatusUnauthorized, "AUTH_001", msgTokenRequired)
		return authz.Identity{}, false
	}
	return id, true
}
