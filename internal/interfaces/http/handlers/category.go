// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/product"
	"gorm.io/gorm"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService *product.CategoryService
	config          *config.Config
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(db *gorm.DB, cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{
		categoryService: product.NewCategoryService(db, cfg),
		config:          cfg,
	}
}

// GetCategories handles GET /categorias
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// GetRootCategories handles GET /categorias/root
func (h *CategoryHandler) GetRootCategories(c *gin.Context) {
	categories, err := h.categoryService.GetRootCategories()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// GetCategoryChildren handles GET /categorias/:slug/children
func (h *CategoryHandler) GetCategoryChildren(c *gin.Context) {
	categories, err := h.categoryService.GetChildren(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// GetCategory handles GET /categorias/:slug
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Category retrieved successfully", category)
}

// CreateCategory handles POST /admin/categorias
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req product.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory handles PUT /admin/categorias/:slug
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req product.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Param("slug"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /admin/categorias/:slug
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.DeleteCategory(c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Category deleted successfully", nil)
}
