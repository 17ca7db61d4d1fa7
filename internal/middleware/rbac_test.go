package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ebd-pro/console-api/internal/models"
)

func performWithSession(t *testing.T, session *models.UserSession, claims *models.JWTClaims) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	router := gin.New()
	router.GET("/admin-only", func(c *gin.Context) {
		if session != nil {
			c.Set(ContextSessionKey, session)
		}
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}, RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireRolesAllowsAdminSession(t *testing.T) {
	rec := performWithSession(t, &models.UserSession{Role: models.RoleAdmin}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsTeacherSession(t *testing.T) {
	rec := performWithSession(t, &models.UserSession{Role: models.RoleTeacher}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesFallsBackToClaims(t *testing.T) {
	rec := performWithSession(t, nil, &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsAnonymous(t *testing.T) {
	rec := performWithSession(t, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
