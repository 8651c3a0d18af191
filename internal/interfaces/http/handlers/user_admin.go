// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/user"
	"github.com/zonagamer/zonagamer-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// UserAdminHandler handles admin user management endpoints
type UserAdminHandler struct {
	adminService *user.AdminService
	config       *config.Config
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(db *gorm.DB, cfg *config.Config) *UserAdminHandler {
	return &UserAdminHandler{
		adminService: user.NewAdminService(db, cfg),
		config:       cfg,
	}
}

// GetUsers handles GET /admin/users
func (h *UserAdminHandler) GetUsers(c *gin.Context) {
	var req user.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.adminService.GetUsers(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Users retrieved successfully", resp)
}

// GetUser handles GET /admin/users/:id
func (h *UserAdminHandler) GetUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.adminService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "User retrieved successfully", resp)
}

// SetActiveRequest toggles an account's active state
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive handles PUT /admin/users/:id/active
func (h *UserAdminHandler) SetActive(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.adminService.SetActive(userID, adminID, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "User status updated successfully", updated)
}

// SetAdminRequest toggles an account's admin role
type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

// SetAdmin handles PUT /admin/users/:id/admin
func (h *UserAdminHandler) SetAdmin(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req SetAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.adminService.SetAdmin(userID, adminID, *req.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "User role updated successfully", updated)
}

// SetScore handles PUT /admin/users/:id/score
func (h *UserAdminHandler) SetScore(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req user.UserScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.adminService.SetScore(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "User score updated successfully", updated)
}

// ExportUsers handles GET /admin/users/export
func (h *UserAdminHandler) ExportUsers(c *gin.Context) {
	var req user.UserExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	data, contentType, err := h.adminService.ExportUsers(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("users-%s.%s", time.Now().Format("2006-01-02"), req.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", strconv.Itoa(len(data)))

	c.Data(http.StatusOK, contentType, data)
}
