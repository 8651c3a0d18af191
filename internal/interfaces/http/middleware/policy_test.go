package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newPolicyRouter(t *testing.T, identity gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy := NewPolicy([]Rule{
		{Method: http.MethodGet, Path: "/api/products", Capability: Public},
		{Method: http.MethodGet, Path: "/api/cart", Capability: Authenticated},
		{Method: http.MethodGet, Path: "/api/admin/users", Capability: Admin},
	})

	router := gin.New()
	if identity != nil {
		router.Use(identity)
	}
	router.Use(policy.Enforce())

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/api/products", ok)
	router.GET("/api/cart", ok)
	router.GET("/api/admin/users", ok)
	router.GET("/api/unlisted", ok)
	return router
}

func as(userID uint, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("is_admin", isAdmin)
		c.Next()
	}
}

func get(router *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w.Code
}

func TestPolicyPublicRoute(t *testing.T) {
	router := newPolicyRouter(t, nil)
	assert.Equal(t, http.StatusOK, get(router, "/api/products"))
}

func TestPolicyAuthenticatedRoute(t *testing.T) {
	anonymous := newPolicyRouter(t, nil)
	assert.Equal(t, http.StatusUnauthorized, get(anonymous, "/api/cart"))

	authenticated := newPolicyRouter(t, as(7, false))
	assert.Equal(t, http.StatusOK, get(authenticated, "/api/cart"))
}

func TestPolicyAdminRoute(t *testing.T) {
	anonymous := newPolicyRouter(t, nil)
	assert.Equal(t, http.StatusUnauthorized, get(anonymous, "/api/admin/users"))

	customer := newPolicyRouter(t, as(7, false))
	assert.Equal(t, http.StatusForbidden, get(customer, "/api/admin/users"))

	admin := newPolicyRouter(t, as(1, true))
	assert.Equal(t, http.StatusOK, get(admin, "/api/admin/users"))
}

func TestPolicyUnlistedRouteFailsClosed(t *testing.T) {
	anonymous := newPolicyRouter(t, nil)
	assert.Equal(t, http.StatusUnauthorized, get(anonymous, "/api/unlisted"))

	authenticated := newPolicyRouter(t, as(7, false))
	assert.Equal(t, http.StatusOK, get(authenticated, "/api/unlisted"))
}
