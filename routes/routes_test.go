package routes

import (
	"context"
	"errors"
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

const secret = "routes-secret"

func newRouter(ping func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	SetupRoutes(r, Dependencies{JWTSecret: secret, Log: log, Ping: ping})
	return r
}

func call(r http.Handler, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestHealth(t *testing.T) {
	assert.Equal(t, http.StatusOK, call(newRouter(nil), http.MethodGet, "/health", ""))

	down := newRouter(func(context.Context) error { return errors.New("no db") })
	assert.Equal(t, http.StatusServiceUnavailable, call(down, http.MethodGet, "/health", ""))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newRouter(nil)

	for _, path := range []string{"/cart", "/cart/count", "/checkout", "/checkout/orders", "/auth/profile", "/admin/dashboard"} {
		assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, path, ""), path)
	}
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/cart/add", ""))
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/product/review/1", ""))
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r := newRouter(nil)

	token, err := utils.GenerateToken(secret, time.Hour, 3, "ana@example.com", models.RoleCustomer)
	require.NoError(t, err)

	for _, path := range []string{"/admin/dashboard", "/admin/orders", "/admin/products", "/admin/users", "/admin/reviews", "/admin/coupons"} {
		assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, path, token), path)
	}
}
