// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// TaxRate is the IVA rate applied to the cart subtotal.
const TaxRate = 0.19

// Cart represents a user's shopping cart. Each user has at most one.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a cart line. Name, image and price are snapshots taken
// when the product entered the cart; availability is recomputed from
// live stock on every read.
type CartItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CartID      uint      `gorm:"not null;index" json:"cart_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	ProductName string    `gorm:"not null;size:255" json:"product_name"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"` // Snapshot price in cents
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// Subtotal returns the line total in cents.
func (i *CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// TaxFor computes the IVA amount in cents for a subtotal.
func TaxFor(subtotal int64) int64 {
	return subtotal * 19 / 100
}
