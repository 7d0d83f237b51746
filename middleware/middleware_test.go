package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/models"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt(ContextUserID)})
	})
	r.GET("/admin", AuthMiddleware(secret), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func request(t *testing.T, r http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter()

	w := request(t, r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateToken(secret, time.Hour, 7, "ana@example.com", models.RoleCustomer)
	require.NoError(t, err)

	w = request(t, r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())

	other, err := utils.GenerateToken("other-secret", time.Hour, 7, "ana@example.com", models.RoleCustomer)
	require.NoError(t, err)
	w = request(t, r, "/me", other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	r := protectedRouter()

	customer, err := utils.GenerateToken(secret, time.Hour, 7, "ana@example.com", models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, request(t, r, "/admin", customer).Code)

	admin, err := utils.GenerateToken(secret, time.Hour, 1, "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, request(t, r, "/admin", admin).Code)
}

func TestCorrelationID(t *testing.T) {
	r := protectedRouter()

	w := request(t, r, "/me", "")
	assert.NotEmpty(t, w.Header().Get(HeaderCorrelationID))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderCorrelationID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderCorrelationID))
}

func TestRecovery(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	r.Use(CorrelationID(), RequestLogger(log), Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := request(t, r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
}
