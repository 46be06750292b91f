package middleware

import (
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/models"
	"lexdesk/internal/utils"
	"lexdesk/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var log = logger.New("auth_middleware")

type AuthMiddleware struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthMiddleware(db *gorm.DB, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{db: db, jwtSecret: jwtSecret}
}

func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			return m.validateJWT(c, tokenParts[1], next)
		}
	}
}

func (m *AuthMiddleware) validateJWT(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		log.Debug("failed to parse token: %v", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
	}

	// The token must map to a live session row; deleting the row revokes it.
	session := &models.AuthSession{}
	if err := m.db.Where("user_id = ? AND token = ? AND expires_at > ?",
		claims.UserID, tokenString, time.Now()).First(session).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session not found")
	}

	// Claims are a hint only: the account row is re-fetched so permission
	// revocation and deactivation take effect on the next request.
	user := &models.User{}
	if err := m.db.Where("id = ? AND is_deleted = false", claims.UserID).First(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "Account is disabled")
	}

	c.Set("actor", user)
	c.Set("userID", user.ID)
	c.Set("tenantID", session.TenantID)
	c.Set("email", user.Email)
	c.Set("role", string(user.Role))

	return next(c)
}

// GetActor returns the re-fetched account for the request.
func GetActor(c echo.Context) *models.User {
	if u, ok := c.Get("actor").(*models.User); ok {
		return u
	}
	return nil
}

func GetUserID(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}

func GetTenantID(c echo.Context) string {
	if id, ok := c.Get("tenantID").(string); ok {
		return id
	}
	return ""
}

func GetUserRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}
