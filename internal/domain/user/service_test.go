package user

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "ZonaGamer Backend"},
		JWT: config.JWTConfig{
			Secret:      "0123456789abcdef0123456789abcdef",
			TokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(db, testConfig()), db
}

func register(t *testing.T, svc *Service, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(&RegisterRequest{
		Email:     email,
		Password:  "secreta123",
		FirstName: "Ana",
		LastName:  "Gomez",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newTestService(t)

	resp := register(t, svc, "Ana@Example.com")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)
	assert.Empty(t, resp.User.Password)
	assert.EqualValues(t, 3600, resp.ExpiresIn)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "ana@example.com")

	_, err := svc.Register(&RegisterRequest{
		Email:     "ANA@example.com",
		Password:  "secreta123",
		FirstName: "Otra",
		LastName:  "Ana",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(&RegisterRequest{
		Email:     "corta@example.com",
		Password:  "abc",
		FirstName: "A",
		LastName:  "B",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "ana@example.com")

	resp, err := svc.Login(&LoginRequest{Email: "ana@example.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotNil(t, resp.User.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "ana@example.com")

	_, err := svc.Login(&LoginRequest{Email: "ana@example.com", Password: "equivocada"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
}

func TestLoginInactiveAccountLooksLikeBadCredentials(t *testing.T) {
	svc, db := newTestService(t)
	resp := register(t, svc, "ana@example.com")

	require.NoError(t, db.Model(&User{}).Where("id = ?", resp.User.ID).Update("is_active", false).Error)

	_, err := svc.Login(&LoginRequest{Email: "ana@example.com", Password: "secreta123"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newTestService(t)
	resp := register(t, svc, "ana@example.com")

	phone := "3001234567"
	updated, err := svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "3001234567", updated.Phone)
	assert.Equal(t, "Ana", updated.FirstName)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	resp := register(t, svc, "ana@example.com")

	err := svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "equivocada",
		NewPassword:     "nueva12345",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))

	err = svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "secreta123",
		NewPassword:     "nueva12345",
	})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "ana@example.com", Password: "nueva12345"})
	require.NoError(t, err)
}

func TestAdminSetActiveSelfProtection(t *testing.T) {
	svc, db := newTestService(t)
	adminSvc := NewAdminService(db, testConfig())

	resp := register(t, svc, "admin@example.com")
	require.NoError(t, db.Model(&User{}).Where("id = ?", resp.User.ID).Update("is_admin", true).Error)

	_, err := adminSvc.SetActive(resp.User.ID, resp.User.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
}

func TestAdminSetAdminLastAdminProtection(t *testing.T) {
	svc, db := newTestService(t)
	adminSvc := NewAdminService(db, testConfig())

	admin := register(t, svc, "admin@example.com")
	require.NoError(t, db.Model(&User{}).Where("id = ?", admin.User.ID).Update("is_admin", true).Error)
	other := register(t, svc, "otro@example.com")

	// demoting the only admin fails even for a different actor
	_, err := adminSvc.SetAdmin(admin.User.ID, other.User.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

	// promote then demote works
	promoted, err := adminSvc.SetAdmin(other.User.ID, admin.User.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	demoted, err := adminSvc.SetAdmin(admin.User.ID, other.User.ID, false)
	require.NoError(t, err)
	assert.False(t, demoted.IsAdmin)
}

func TestAdminSetAdminAlreadyInState(t *testing.T) {
	svc, db := newTestService(t)
	adminSvc := NewAdminService(db, testConfig())

	admin := register(t, svc, "admin@example.com")
	require.NoError(t, db.Model(&User{}).Where("id = ?", admin.User.ID).Update("is_admin", true).Error)
	other := register(t, svc, "otro@example.com")

	_, err := adminSvc.SetAdmin(admin.User.ID, admin.User.ID, true)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

	_, err = adminSvc.SetAdmin(other.User.ID, admin.User.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
}

func TestAdminSetActiveAlreadyInState(t *testing.T) {
	svc, db := newTestService(t)
	adminSvc := NewAdminService(db, testConfig())

	admin := register(t, svc, "admin@example.com")
	require.NoError(t, db.Model(&User{}).Where("id = ?", admin.User.ID).Update("is_admin", true).Error)
	other := register(t, svc, "otro@example.com")

	_, err := adminSvc.SetActive(other.User.ID, admin.User.ID, true)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

	deactivated, err := adminSvc.SetActive(other.User.ID, admin.User.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = adminSvc.SetActive(other.User.ID, admin.User.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
}

func TestAdminSetScore(t *testing.T) {
	svc, db := newTestService(t)
	adminSvc := NewAdminService(db, testConfig())
	resp := register(t, svc, "ana@example.com")

	updated, err := adminSvc.SetScore(resp.User.ID, &UserScoreRequest{Score: 150})
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Score)
}

func TestAdminGetUsersFilters(t *testing.T) {
	svc, db := newTestService(t)
	adminSvc := NewAdminService(db, testConfig())

	register(t, svc, "ana@example.com")
	other := register(t, svc, "benito@example.com")
	_, err := adminSvc.SetActive(other.User.ID, 0, false)
	require.NoError(t, err)

	active, err := adminSvc.GetUsers(&UserListRequest{Page: 1, Limit: 20, Status: "active"})
	require.NoError(t, err)
	require.Len(t, active.Users, 1)
	assert.Equal(t, "ana@example.com", active.Users[0].Email)

	found, err := adminSvc.GetUsers(&UserListRequest{Page: 1, Limit: 20, Search: "benito"})
	require.NoError(t, err)
	require.Len(t, found.Users, 1)
	assert.Equal(t, "benito@example.com", found.Users[0].Email)
}

func TestAdminExportUsersCSV(t *testing.T) {
	svc, db := newTestService(t)
	adminSvc := NewAdminService(db, testConfig())
	register(t, svc, "ana@example.com")

	data, filename, err := adminSvc.ExportUsers(&UserExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Contains(t, filename, ".csv")
	assert.Contains(t, string(data), "ana@example.com")

	_, _, err = adminSvc.ExportUsers(&UserExportRequest{Format: "xml"})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}
