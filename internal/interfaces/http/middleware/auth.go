package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"donation-platform.backend/internal/domain/entities"
	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/interfaces/http/response"
	"donation-platform.backend/pkg/jwt"
	"donation-platform.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerScheme is the authorization scheme for bearer tokens
	BearerScheme = "Bearer"
	// UserKey is the context key for the authenticated user
	UserKey = "user"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
)

// UserLoader loads the account behind a token
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// AuthMiddleware accepts "Bearer <token>" or a bare token. Every failure
// gets the same 401 so callers learn nothing about why.
func AuthMiddleware(jwtService *jwt.JWTService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c.GetHeader(AuthorizationHeader))
		if tokenString == "" {
			abortUnauthorized(c, "missing token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			abortUnauthorized(c, "user not found")
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, user.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractToken takes the second word of "<scheme> <token>" whatever the
// scheme, or the whole header when it is a single bare token.
func extractToken(header string) string {
	fields := strings.Fields(header)
	switch {
	case len(fields) == 0:
		return ""
	case len(fields) == 1:
		if strings.EqualFold(fields[0], BearerScheme) {
			return ""
		}
		return fields[0]
	default:
		return fields[1]
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	logger.Debug(c.Request.Context(), "Authentication failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("reason", reason),
	)
	response.Error(c, domainerrors.Unauthorized("Invalid token"))
	c.Abort()
}

// GetUser gets the authenticated user from context
func GetUser(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// RequireAdmin rejects authenticated users without the admin flag. It must
// run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			response.Error(c, domainerrors.Unauthorized("Invalid token"))
			c.Abort()
			return
		}
		if !user.IsAdmin {
			response.Error(c, domainerrors.Forbidden("Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
