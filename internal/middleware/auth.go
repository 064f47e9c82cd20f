package middleware

import (
	"strings"

	"lumina_backend/internal/auth"
	"lumina_backend/internal/logger"
	"lumina_backend/internal/models"
	"lumina_backend/pkg/apperrors"
	"lumina_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware - необязательная аутентификация.
// Нет заголовка: вызывающий анонимен. Неверный токен: 401.
func IdentityMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(contextkeys.CallerRoleKey, models.UserRoleAnonymous)
			c.Next()
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(tokenStr))
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "token rejected", "error", err)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(contextkeys.CallerIDKey, claims.UserID)
		c.Set(contextkeys.CallerRoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireRoles - ранний отказ до обращения к сервису. Аноним получает 401, чужая роль 403.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role := GetUserRole(c)
		if role == models.UserRoleAnonymous {
			apperrors.HandleError(c, apperrors.ErrAuthenticationRequired)
			return
		}
		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.ErrModeratorOnly)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.CallerIDKey)
}

// GetUserRole извлекает роль; без IdentityMiddleware вызывающий анонимен
func GetUserRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get(contextkeys.CallerRoleKey)
	if !exists {
		return models.UserRoleAnonymous
	}
	var role models.UserRole
	switch v := roleVal.(type) {
	case models.UserRole:
		role = v
	case string:
		role = models.UserRole(v)
	}
	if !role.Valid() {
		return models.UserRoleAnonymous
	}
	return role
}
