package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/services"
	jwtpkg "github.com/staybook/hotel-reservation-backend/pkg/jwt"
)

// UserContextKey is the gin context key holding the authenticated UserContext
const UserContextKey = "user"

// UserContext holds the authenticated user's information
type UserContext struct {
	UserID uuid.UUID
	Email  string
	Role   models.UserRole
}

// Actor converts the context into the caller passed to services
func (u UserContext) Actor() services.Actor {
	return services.Actor{UserID: u.UserID, Role: u.Role}
}

// AuthMiddleware validates the bearer access token and stores the caller in
// the request context
func AuthMiddleware(jwtService *jwtpkg.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Authorization header is required", "MISSING_AUTH_HEADER")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}", "INVALID_AUTH_FORMAT")
			return
		}

		claims, err := jwtService.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, http.StatusUnauthorized, "unauthorized", "Access token has expired", "TOKEN_EXPIRED")
				return
			}
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid access token", "INVALID_TOKEN")
			return
		}

		role := models.UserRole(claims.Role)
		if !role.IsValid() {
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid access token", "INVALID_TOKEN")
			return
		}

		c.Set(UserContextKey, UserContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   role,
		})

		// Flat keys for the request logger
		c.Set("user_id", claims.UserID.String())
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole admits only callers holding one of roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			abort(c, http.StatusUnauthorized, "unauthorized", "User context not found", "MISSING_USER_CONTEXT")
			return
		}

		for _, role := range roles {
			if userCtx.Role == role {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "forbidden", "Insufficient permissions", "INSUFFICIENT_PERMISSIONS")
	}
}

// GetUserContext retrieves the user context from the gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}

	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics. Only use it on
// routes behind AuthMiddleware.
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure AuthMiddleware is applied")
	}
	return userCtx
}

func abort(c *gin.Context, status int, errorKey, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   errorKey,
		"message": message,
		"code":    code,
	})
}
