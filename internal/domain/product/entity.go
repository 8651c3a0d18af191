// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog product
type Product struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null;size:255" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	Price             int64          `gorm:"not null" json:"price"` // Price in cents
	Stock             int            `gorm:"not null;default:0" json:"stock"`
	CategoryID        string         `gorm:"not null;size:100;index" json:"category_id"`
	ImageURL          string         `gorm:"size:500" json:"image_url"`
	IsFeatured        bool           `gorm:"default:false" json:"is_featured"`
	// No column default: gorm would drop an explicit false on insert
	// and the default would win. Creation paths set the flag.
	IsActive          bool           `gorm:"not null" json:"is_active"`
	LowStockThreshold int            `gorm:"default:5" json:"low_stock_threshold"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

// Category represents a product category. The ID is the category slug,
// derived from the name (lowercase, hyphen-separated).
type Category struct {
	ID          string    `gorm:"primaryKey;size:100" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	ParentID    *string   `gorm:"size:100;index" json:"parent_id,omitempty"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

// Business methods for Product

// HasStock reports whether the product can satisfy a purchase of the
// given quantity right now.
func (p *Product) HasStock(quantity int) bool {
	return p.IsActive && p.Stock >= quantity
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

func (p *Product) GetFormattedPrice() float64 {
	return float64(p.Price) / 100
}
