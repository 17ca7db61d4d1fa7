package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ebd-pro/console-api/internal/models"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
	"github.com/ebd-pro/console-api/pkg/response"
)

// CurrentClaims returns the JWT claims stored by the JWT middleware.
func CurrentClaims(c *gin.Context) (*models.JWTClaims, error) {
	claimsValue, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, appErrors.ErrUnauthorized
	}
	claims, ok := claimsValue.(*models.JWTClaims)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// CurrentSession returns the session stored by the Session middleware.
func CurrentSession(c *gin.Context) (*models.UserSession, error) {
	sessionValue, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, appErrors.ErrUnauthorized
	}
	session, ok := sessionValue.(*models.UserSession)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return session, nil
}

// RequireRoles enforces role-based access control. The role is taken
// from the resolved session when present, falling back to token claims.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role, err := currentRole(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if _, ok := allowed[role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentRole(c *gin.Context) (models.UserRole, error) {
	if session, err := CurrentSession(c); err == nil {
		return session.Role, nil
	}
	claims, err := CurrentClaims(c)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}
