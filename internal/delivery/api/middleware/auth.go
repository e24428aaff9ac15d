package middleware

import (
	"log/slog"
	"strings"

	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate rejects requests without a valid access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		claims, ok := m.parse(c, authHeader)
		if !ok {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}
		m.setIdentity(c, claims)

		return next(c)
	}
}

// Identify attaches the caller's identity when a valid access token is present and lets
// anonymous requests through. An invalid token is treated as anonymous.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
			if claims, ok := m.parse(c, authHeader); ok {
				m.setIdentity(c, claims)
			}
		}

		return next(c)
	}
}

// RequireRole checks that the authenticated user holds role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := GetRoles(c)
			if !ok {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: role information missing")
			}
			if !entity.HasRole(roles, role) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+string(role)+"' role")
			}

			return next(c)
		}
	}
}

func (m *AuthMiddleware) parse(c echo.Context, authHeader string) (*service.Claims, bool) {
	tokenString, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || tokenString == "" {
		return nil, false
	}

	claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
			Debug("Access token rejected", slog.Any("error", err))

		return nil, false
	}

	return claims, true
}

func (m *AuthMiddleware) setIdentity(c echo.Context, claims *service.Claims) {
	c.Set(constants.ContextKeyUserID, claims.UserID)
	c.Set(constants.ContextKeyRoles, claims.Roles)
	deliverycontext.AddLogAttrs(c, m.logger, slog.Int64("user_id", claims.UserID))
}

// GetUserID returns the authenticated user's id.
func GetUserID(c echo.Context) (int64, bool) {
	userID, ok := c.Get(constants.ContextKeyUserID).(int64)

	return userID, ok
}

// GetRoles returns the authenticated user's roles.
func GetRoles(c echo.Context) ([]string, bool) {
	roles, ok := c.Get(constants.ContextKeyRoles).([]string)

	return roles, ok
}

// IsAdmin reports whether the authenticated user is an administrator.
func IsAdmin(c echo.Context) bool {
	roles, _ := GetRoles(c)

	return entity.HasRole(roles, entity.RoleAdmin)
}
