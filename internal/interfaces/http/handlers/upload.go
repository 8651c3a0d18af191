// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/upload"
	"github.com/zonagamer/zonagamer-backend/internal/interfaces/http/middleware"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// UploadHandler handles image upload endpoints
type UploadHandler struct {
	uploadService *upload.Service
	config        *config.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *gorm.DB, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		uploadService: upload.NewService(db, cfg),
		config:        cfg,
	}
}

// UploadImage handles POST /admin/uploads/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, apperror.New(apperror.CodeValidation, "no image file provided"))
		return
	}
	defer file.Close()

	uploaded, err := h.uploadService.UploadImage(&upload.ImageUploadRequest{
		File:       file,
		Header:     header,
		UploadedBy: userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Image uploaded successfully", uploaded)
}

// GetImages handles GET /admin/uploads
func (h *UploadHandler) GetImages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.uploadService.GetImages(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Images retrieved successfully", resp)
}

// GetImage handles GET /admin/uploads/:id
func (h *UploadHandler) GetImage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	image, err := h.uploadService.GetImage(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Image retrieved successfully", image)
}

// DeleteImage handles DELETE /admin/uploads/:id
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.uploadService.DeleteImage(id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Image deleted successfully", nil)
}
