// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/product"
	"gorm.io/gorm"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
	config         *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(db *gorm.DB, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		productService: product.NewService(db, cfg),
		config:         cfg,
	}
}

// activeOnly restricts a listing request to active products unless the
// caller filtered explicitly. The public catalog never shows retired
// products by accident.
func activeOnly(req *product.ProductListRequest) {
	if req.IsActive == nil {
		active := true
		req.IsActive = &active
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	activeOnly(&req)

	resp, err := h.productService.GetProducts(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Products retrieved successfully", resp)
}

// SearchProducts handles GET /products/search
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.Search = c.Query("q")
	activeOnly(&req)

	resp, err := h.productService.GetProducts(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Products retrieved successfully", resp)
}

// GetProductsByCategory handles GET /products/category/:categoryId
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.CategoryID = c.Param("categoryId")
	activeOnly(&req)

	resp, err := h.productService.GetProducts(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Products retrieved successfully", resp)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	prod, err := h.productService.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Product retrieved successfully", prod)
}

// GetFeaturedProducts handles GET /products/featured
func (h *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.productService.GetFeaturedProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Featured products retrieved successfully", products)
}

// GetLowStockProducts handles GET /admin/products/low-stock
func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Low stock products retrieved successfully", products)
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	prod, err := h.productService.CreateProduct(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Product created successfully", prod)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req product.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	prod, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Product updated successfully", prod)
}

// UpdateStockRequest represents an absolute stock adjustment
type UpdateStockRequest struct {
	Stock int `json:"stock" binding:"gte=0"`
}

// UpdateStock handles PATCH /admin/products/:id/stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	prod, err := h.productService.UpdateStock(id, req.Stock)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Stock updated successfully", prod)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Product deleted successfully", nil)
}
