package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/services"
)

// JWTAuthMiddleware authenticates requests with the service's own bearer
// tokens. The user is re-read on every request so the token only has to
// carry the id.
type JWTAuthMiddleware struct {
	authService services.AuthService
}

func NewJWTAuthMiddleware(authService services.AuthService) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{authService: authService}
}

// AuthMiddleware returns a Gin middleware function for token authentication
func (am *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "authorization header missing or malformed")
			return
		}

		user, err := am.authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has required role
func (am *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			abortForbidden(c, "user role not found in context")
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			abortForbidden(c, "invalid user role format")
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		abortForbidden(c, "insufficient role permissions")
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:     "unauthorized",
		Message:   msg,
		Code:      "UNAUTHORIZED",
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
		Error:     "forbidden",
		Message:   msg,
		Code:      "FORBIDDEN",
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

// GetUserFromContext returns the authenticated user set by AuthMiddleware.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// GetUserIDFromContext returns the authenticated user id.
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
