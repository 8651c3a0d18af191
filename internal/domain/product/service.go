// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID string `form:"category_id"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsActive   *bool  `form:"is_active"`
	IsFeatured *bool  `form:"is_featured"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	Price             int64  `json:"price" binding:"required,gt=0"`
	Stock             int    `json:"stock" binding:"gte=0"`
	CategoryID        string `json:"category_id" binding:"required"`
	ImageURL          string `json:"image_url"`
	IsFeatured        bool   `json:"is_featured"`
	IsActive          *bool  `json:"is_active"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Price             *int64  `json:"price"`
	Stock             *int    `json:"stock"`
	CategoryID        *string `json:"category_id"`
	ImageURL          *string `json:"image_url"`
	IsFeatured        *bool   `json:"is_featured"`
	IsActive          *bool   `json:"is_active"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Product{}).Preload("Category")

	if req.CategoryID != "" {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}

	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to count products")
	}

	orderClause := s.buildOrderClause(req.SortBy, req.SortOrder)
	offset := (req.Page - 1) * req.Limit
	if err := query.Order(orderClause).Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve products")
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Where("id = ?", id).First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "product %d not found", id)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to retrieve product")
	}

	return &product, nil
}

// GetFeaturedProducts retrieves active featured products
func (s *Service) GetFeaturedProducts() ([]Product, error) {
	var products []Product
	err := s.db.Preload("Category").
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve featured products")
	}
	return products, nil
}

// GetLowStockProducts retrieves active products at or below their low
// stock threshold.
func (s *Service) GetLowStockProducts() ([]Product, error) {
	var products []Product
	err := s.db.Preload("Category").
		Where("is_active = ? AND stock <= low_stock_threshold", true).
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve low stock products")
	}
	return products, nil
}

// CreateProduct creates a new product. The referenced category is
// created on the fly when it does not exist yet.
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	categoryID := Slugify(req.CategoryID)
	if categoryID == "" {
		return nil, apperror.New(apperror.CodeValidation, "category_id is required")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	lowStock := req.LowStockThreshold
	if lowStock <= 0 {
		lowStock = 5
	}

	product := Product{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Stock:             req.Stock,
		CategoryID:        categoryID,
		ImageURL:          req.ImageURL,
		IsFeatured:        req.IsFeatured,
		IsActive:          isActive,
		LowStockThreshold: lowStock,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := EnsureCategoryExists(tx, categoryID); err != nil {
			return err
		}
		if err := tx.Create(&product).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to create product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Category").First(&product, product.ID)
	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "product %d not found", id)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to find product")
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperror.New(apperror.CodeValidation, "price must be greater than zero")
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperror.New(apperror.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.CategoryID != nil {
			categoryID := Slugify(*req.CategoryID)
			if categoryID == "" {
				return apperror.New(apperror.CodeValidation, "category_id cannot be empty")
			}
			if err := EnsureCategoryExists(tx, categoryID); err != nil {
				return err
			}
			updates["category_id"] = categoryID
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to update product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Category").First(&product, product.ID)
	return &product, nil
}

// UpdateStock sets the absolute stock level of a product
func (s *Service) UpdateStock(id uint, stock int) (*Product, error) {
	if stock < 0 {
		return nil, apperror.New(apperror.CodeValidation, "stock cannot be negative")
	}

	result := s.db.Model(&Product{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to update stock")
	}
	if result.RowsAffected == 0 {
		return nil, apperror.New(apperror.CodeNotFound, "product %d not found", id)
	}

	return s.GetProduct(id)
}

// DeleteProduct soft deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return apperror.Wrap(result.Error, apperror.CodeInternal, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.CodeNotFound, "product %d not found", id)
	}
	return nil
}

// ReduceStock decrements stock by quantity inside the caller's
// transaction. The decrement is conditional on sufficient stock so
// concurrent checkouts cannot drive stock negative.
func ReduceStock(tx *gorm.DB, productID uint, quantity int) error {
	if quantity <= 0 {
		return apperror.New(apperror.CodeValidation, "quantity must be positive")
	}

	result := tx.Model(&Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return apperror.Wrap(result.Error, apperror.CodeInternal, "failed to reduce stock")
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.CodeInsufficientStock,
			"insufficient stock for product %d", productID)
	}
	return nil
}

// RestoreStock increments stock by quantity inside the caller's
// transaction, used when an order is cancelled.
func RestoreStock(tx *gorm.DB, productID uint, quantity int) error {
	if quantity <= 0 {
		return apperror.New(apperror.CodeValidation, "quantity must be positive")
	}

	result := tx.Model(&Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))

	if result.Error != nil {
		return apperror.Wrap(result.Error, apperror.CodeInternal, "failed to restore stock")
	}
	return nil
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
		"updated_at": true,
		"stock":      true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
