package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yogendra-27-bhange/eventplanner/internal/models"
)

const testSecret = "test-secret"

func protectedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", Session(secret), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"admin":   IsAdmin(c),
		})
	})
	return router
}

func TestSession_ValidToken(t *testing.T) {
	user := &models.User{ID: "alice@example.com", Role: models.RoleUser}
	token, err := IssueToken(testSecret, time.Hour, user)
	require.NoError(t, err)

	router := protectedRouter(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "alice@example.com")
	require.Contains(t, rec.Body.String(), `"admin":false`)
}

func TestSession_AdminRoleCarried(t *testing.T) {
	user := &models.User{ID: "admin@example.com", Role: models.RoleAdmin}
	token, err := IssueToken(testSecret, time.Hour, user)
	require.NoError(t, err)

	router := protectedRouter(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"admin":true`)
}

func TestSession_MissingHeader(t *testing.T) {
	router := protectedRouter(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_MalformedHeader(t *testing.T) {
	router := protectedRouter(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_WrongSecretRejected(t *testing.T) {
	user := &models.User{ID: "alice@example.com", Role: models.RoleUser}
	token, err := IssueToken("other-secret", time.Hour, user)
	require.NoError(t, err)

	router := protectedRouter(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_ExpiredTokenRejected(t *testing.T) {
	user := &models.User{ID: "alice@example.com", Role: models.RoleUser}
	token, err := IssueToken(testSecret, -time.Minute, user)
	require.NoError(t, err)

	router := protectedRouter(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
