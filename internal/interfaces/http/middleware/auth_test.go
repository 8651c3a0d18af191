// internal/interfaces/http/middleware/auth_test.go
package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/user"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/auth"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newIdentityRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	cfg := &config.Config{}
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.JWT.TokenExpiry = time.Hour

	router := gin.New()
	router.Use(Identity(cfg, user.NewService(db, cfg)))
	router.GET("/whoami", func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"authenticated": ok,
			"user_id":       userID,
			"is_admin":      IsAdminFromContext(c),
		})
	})
	return router, db, cfg
}

func whoami(t *testing.T, router *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIdentityResolvesActiveUser(t *testing.T) {
	router, db, cfg := newIdentityRouter(t)

	account := user.User{Email: "ana@example.com", Password: "x", IsActive: true, IsAdmin: true}
	require.NoError(t, db.Create(&account).Error)

	token, err := auth.NewJWTManager(cfg).GenerateToken(account.ID, account.Email, account.IsAdmin)
	require.NoError(t, err)

	rec := whoami(t, router, token)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
}

func TestIdentityAnonymousWithoutToken(t *testing.T) {
	router, _, _ := newIdentityRouter(t)

	rec := whoami(t, router, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestIdentityGarbageTokenStaysAnonymous(t *testing.T) {
	router, _, _ := newIdentityRouter(t)

	rec := whoami(t, router, "not-a-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestIdentityDeactivatedUserIsAnonymous(t *testing.T) {
	router, db, cfg := newIdentityRouter(t)

	account := user.User{Email: "luis@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&account).Error)

	token, err := auth.NewJWTManager(cfg).GenerateToken(account.ID, account.Email, false)
	require.NoError(t, err)

	rec := whoami(t, router, token)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)

	// Deactivating the account invalidates the still-unexpired token.
	require.NoError(t, db.Model(&user.User{}).Where("id = ?", account.ID).
		Update("is_active", false).Error)

	rec = whoami(t, router, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}
