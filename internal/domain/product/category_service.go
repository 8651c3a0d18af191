// internal/domain/product/category_service.go
package product

import (
	"errors"
	"strings"

	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Slugify derives a category slug from a display name: lowercase,
// accents folded, non-alphanumeric runs collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == 'á':
			b.WriteRune('a')
			lastHyphen = false
		case r == 'é':
			b.WriteRune('e')
			lastHyphen = false
		case r == 'í':
			b.WriteRune('i')
			lastHyphen = false
		case r == 'ó':
			b.WriteRune('o')
			lastHyphen = false
		case r == 'ú':
			b.WriteRune('u')
			lastHyphen = false
		case r == 'ñ':
			b.WriteRune('n')
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// TitleFromSlug turns a slug back into a display name, title-casing
// each hyphen-separated word ("consolas-retro" -> "Consolas Retro").
func TitleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// EnsureCategoryExists creates the category on the fly when a product
// references a slug that has no category row yet. The generated name
// is the title-cased slug.
func EnsureCategoryExists(tx *gorm.DB, slug string) error {
	var count int64
	if err := tx.Model(&Category{}).Where("id = ?", slug).Count(&count).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to look up category")
	}
	if count > 0 {
		return nil
	}

	category := Category{
		ID:       slug,
		Name:     TitleFromSlug(slug),
		IsActive: true,
	}
	if err := tx.Create(&category).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to create category %s", slug)
	}
	return nil
}

// GetCategories retrieves all categories ordered by name
func (s *CategoryService) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve categories")
	}
	return categories, nil
}

// GetCategory retrieves a category by its slug
func (s *CategoryService) GetCategory(slug string) (*Category, error) {
	var category Category
	result := s.db.Where("id = ?", slug).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "category %s not found", slug)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to retrieve category")
	}
	return &category, nil
}

// CreateCategory creates a category keyed by the slug of its name
func (s *CategoryService) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	slug := Slugify(req.Name)
	if slug == "" {
		return nil, apperror.New(apperror.CodeValidation, "category name must contain letters or digits")
	}

	var count int64
	if err := s.db.Model(&Category{}).Where("id = ?", slug).Count(&count).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to look up category")
	}
	if count > 0 {
		return nil, apperror.New(apperror.CodeConflict, "category %s already exists", slug)
	}

	if req.ParentID != nil && *req.ParentID != "" {
		if _, err := s.GetCategory(*req.ParentID); err != nil {
			return nil, err
		}
	}

	category := Category{
		ID:          slug,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to create category")
	}
	return &category, nil
}

// UpdateCategory updates a category. The slug is stable: renaming a
// category changes its display name only.
func (s *CategoryService) UpdateCategory(slug string, req *CategoryUpdateRequest) (*Category, error) {
	category, err := s.GetCategory(slug)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update category")
		}
	}
	return category, nil
}

// GetRootCategories retrieves the top-level categories (no parent).
func (s *CategoryService) GetRootCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Where("parent_id IS NULL").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve root categories")
	}
	return categories, nil
}

// GetChildren retrieves the direct children of a category.
func (s *CategoryService) GetChildren(slug string) ([]Category, error) {
	if _, err := s.GetCategory(slug); err != nil {
		return nil, err
	}
	var categories []Category
	if err := s.db.Where("parent_id = ?", slug).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve child categories")
	}
	return categories, nil
}

// DeleteCategory deactivates a category. A category with active children
// cannot be removed, so the cut must start at the leaves.
func (s *CategoryService) DeleteCategory(slug string) error {
	category, err := s.GetCategory(slug)
	if err != nil {
		return err
	}

	var childCount int64
	if err := s.db.Model(&Category{}).
		Where("parent_id = ? AND is_active = ?", slug, true).
		Count(&childCount).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to count child categories")
	}
	if childCount > 0 {
		return apperror.New(apperror.CodeConflict,
			"category %s has %d active child categories and cannot be deleted", slug, childCount)
	}

	category.IsActive = false
	if err := s.db.Save(category).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to delete category")
	}
	return nil
}
