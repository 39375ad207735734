package middleware

import (
	"strings"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware проверяет JWT из заголовка Authorization.
// Для websocket токен можно передать в query-параметре token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "token rejected", "error", err)
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if header == "" {
		return c.Query("token")
	}
	return ""
}

// RequireRoles пропускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[string(r)] = true
	}

	return func(c *gin.Context) {
		if !roleSet[c.GetString(contextkeys.RoleKey)] {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
			return
		}
		c.Next()
	}
}

// RoleMiddleware - частный случай RequireRoles для одной роли
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequirePermission проверяет разрешение роли по RBAC таблице
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(contextkeys.RoleKey)
		if !auth.HasPermission(role, permission) {
			logger.CtxWarn(c.Request.Context(), "permission denied", "role", role, "permission", permission)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// BanChecker - источник информации о блокировках
type BanChecker interface {
	Status(db *gorm.DB, userID string) (*dto.BanStatusResponse, error)
}

// BanGuard не пускает заблокированных пользователей. Администраторы не проверяются.
func BanGuard(checker BanChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextkeys.RoleKey) == auth.RoleAdmin {
			c.Next()
			return
		}

		userID := c.GetString(contextkeys.UserIDKey)
		db, _ := c.Get(string(contextkeys.DBContextKey))
		gdb, _ := db.(*gorm.DB)

		status, err := checker.Status(gdb, userID)
		if err != nil {
			apperrors.HandleError(c, apperrors.InternalError(err))
			return
		}
		if status != nil && status.Banned {
			apperrors.HandleError(c, apperrors.ErrUserBanned.WithDetails(status))
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}
