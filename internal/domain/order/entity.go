// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// validStatuses is the closed set of order statuses.
var validStatuses = map[OrderStatus]bool{
	OrderStatusPending:    true,
	OrderStatusPaid:       true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// IsValidStatus reports whether s names a known order status.
func IsValidStatus(s OrderStatus) bool {
	return validStatuses[s]
}

// Order represents a completed purchase
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus `gorm:"not null;size:20;index" json:"status"`
	SubtotalAmount  int64       `gorm:"not null" json:"subtotal_amount"`
	TaxAmount       int64       `gorm:"not null" json:"tax_amount"`
	TotalAmount     int64       `gorm:"not null" json:"total_amount"`
	DeliveryAddress string      `gorm:"not null;size:500" json:"delivery_address"`
	Notes           string      `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is a purchased line, denormalized from the cart at
// checkout so later product edits never rewrite order history.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	ProductName string    `gorm:"not null;size:255" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"` // Unit price in cents at purchase time
	TotalPrice  int64     `gorm:"not null" json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// OrderNumber derives the display number from the creation year and
// the row id, e.g. ORD-2026-000042.
func (o *Order) OrderNumber() string {
	return fmt.Sprintf("ORD-%d-%06d", o.CreatedAt.Year(), o.ID%1000000)
}

// CanBeCancelled reports whether the order may still be cancelled.
// Shipped and delivered orders are past the point of no return.
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return true
}

// validTransitions maps each status to the statuses it may move to.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransitionTo reports whether the order may move to target.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range validTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}
