package middleware

import (
	"errors"
	"strings"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/logger"
	"findtern_backend/internal/models"
	"findtern_backend/pkg/apperrors"
	"findtern_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.AbortWithError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apperrors.AbortWithError(c, apperrors.New(apperrors.CodeTokenExpired, "auth", "Token expired", 401))
				return
			}
			apperrors.AbortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), claims.UserID, claims.Role))
		c.Next()
	}
}

// RoleMiddleware - middleware ограничения по одной роли
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireRoles - middleware для проверки нескольких возможных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}

		if !roleSet[role] {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
			return
		}

		c.Next()
	}
}

// RequirePermission - роль из токена должна иметь разрешение из auth.Permissions
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || !auth.HasPermission(string(role), permission) {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: missing permission "+permission))
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin - :param должен совпадать с ID из токена (админу можно все)
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetRole(c)
		if role == models.UserRoleAdmin {
			c.Next()
			return
		}

		if GetUserID(c) == "" || GetUserID(c) != c.Param(param) {
			apperrors.AbortWithError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

// GetRole извлекает роль из контекста
func GetRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get(contextkeys.RoleKey)
	if !exists {
		return "", false
	}

	switch r := roleVal.(type) {
	case models.UserRole:
		return r, true
	case string:
		return models.UserRole(r), true
	default:
		return "", false
	}
}
