// internal/domain/order/service.go
package order

import (
	"errors"
	"time"

	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/cart"
	"github.com/zonagamer/zonagamer-backend/internal/domain/product"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CheckoutRequest represents checkout data
type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	Notes           string `json:"notes"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	SortOrder string      `form:"sort_order,default=desc"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// OrderView is an order enriched with its display number
type OrderView struct {
	Order
	OrderNumber string `json:"order_number"`
}

// OrderListResponse represents order list response with pagination
type OrderListResponse struct {
	Orders     []OrderView `json:"orders"`
	Pagination Pagination  `json:"pagination"`
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

// NewOrderView wraps an order with its derived number.
func NewOrderView(o Order) OrderView {
	return OrderView{Order: o, OrderNumber: o.OrderNumber()}
}

// Checkout converts the user's cart into a paid order. The whole
// operation runs in one transaction: stock decrements are conditional,
// and any failed line rolls back the order and every prior decrement.
func (s *Service) Checkout(userID uint, req *CheckoutRequest) (*OrderView, error) {
	var created Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var userCart cart.Cart
		result := tx.Where("user_id = ?", userID).First(&userCart)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.CodeConflict, "cart is empty")
			}
			return apperror.Wrap(result.Error, apperror.CodeInternal, "failed to load cart")
		}

		var items []cart.CartItem
		if err := tx.Where("cart_id = ?", userCart.ID).Order("id ASC").Find(&items).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to load cart items")
		}
		if len(items) == 0 {
			return apperror.New(apperror.CodeConflict, "cart is empty")
		}

		var subtotal int64
		orderItems := make([]OrderItem, 0, len(items))
		for i := range items {
			item := &items[i]

			var prod product.Product
			if err := tx.Where("id = ?", item.ProductID).First(&prod).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.New(apperror.CodeConflict,
						"product %d is no longer available", item.ProductID)
				}
				return apperror.Wrap(err, apperror.CodeInternal, "failed to load product")
			}
			if !prod.IsActive {
				return apperror.New(apperror.CodeConflict,
					"product %d is no longer available", item.ProductID)
			}

			if err := product.ReduceStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}

			lineTotal := item.Subtotal()
			subtotal += lineTotal
			orderItems = append(orderItems, OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.Price,
				TotalPrice:  lineTotal,
			})
		}

		taxAmount := cart.TaxFor(subtotal)
		created = Order{
			UserID:          userID,
			Status:          OrderStatusPaid,
			SubtotalAmount:  subtotal,
			TaxAmount:       taxAmount,
			TotalAmount:     subtotal + taxAmount,
			DeliveryAddress: req.DeliveryAddress,
			Notes:           req.Notes,
			Items:           orderItems,
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to create order")
		}

		if err := tx.Where("cart_id = ?", userCart.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to clear cart")
		}
		if err := tx.Model(&cart.Cart{}).Where("id = ?", userCart.ID).
			Update("updated_at", time.Now().UTC()).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to update cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := NewOrderView(created)
	return &view, nil
}

// GetOrder retrieves one order. Non-admin callers only see their own.
func (s *Service) GetOrder(orderID, userID uint, isAdmin bool) (*OrderView, error) {
	var ord Order
	result := s.db.Preload("Items").Where("id = ?", orderID).First(&ord)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "order %d not found", orderID)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to retrieve order")
	}

	if !isAdmin && ord.UserID != userID {
		// hide the order's existence from other users
		return nil, apperror.New(apperror.CodeNotFound, "order %d not found", orderID)
	}

	view := NewOrderView(ord)
	return &view, nil
}

// GetUserOrders retrieves the caller's orders, newest first
func (s *Service) GetUserOrders(userID uint, req *OrderListRequest) (*OrderListResponse, error) {
	return s.listOrders(req, s.db.Where("user_id = ?", userID))
}

// GetOrders retrieves all orders for the admin panel, optionally
// filtered by status
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	if req.Status != "" && !IsValidStatus(req.Status) {
		return nil, apperror.New(apperror.CodeValidation, "unknown order status %s", req.Status)
	}
	query := s.db
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	return s.listOrders(req, query)
}

func (s *Service) listOrders(req *OrderListRequest, query *gorm.DB) (*OrderListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var total int64
	if err := query.Model(&Order{}).Count(&total).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to count orders")
	}

	sortOrder := "DESC"
	if req.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	err := query.Preload("Items").
		Order("created_at " + sortOrder).
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve orders")
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: views,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// UpdateStatus moves an order along the status machine. Moving to
// CANCELLED goes through the cancellation path so stock is restored.
func (s *Service) UpdateStatus(orderID uint, req *UpdateStatusRequest) (*OrderView, error) {
	if !IsValidStatus(req.Status) {
		return nil, apperror.New(apperror.CodeValidation, "unknown order status %s", req.Status)
	}
	if req.Status == OrderStatusCancelled {
		return s.Cancel(orderID, 0, true)
	}

	var ord Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ?", orderID).First(&ord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.CodeNotFound, "order %d not found", orderID)
			}
			return apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve order")
		}

		if !ord.CanTransitionTo(req.Status) {
			return apperror.New(apperror.CodeConflict,
				"order cannot move from %s to %s", ord.Status, req.Status)
		}

		if err := tx.Model(&ord).Update("status", req.Status).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to update order status")
		}
		ord.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := NewOrderView(ord)
	return &view, nil
}

// Cancel cancels an order and restores the purchased stock. Non-admin
// callers may only cancel their own orders, and only while the order
// is still PENDING; admins may cancel any non-terminal order.
func (s *Service) Cancel(orderID, userID uint, isAdmin bool) (*OrderView, error) {
	var ord Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ?", orderID).First(&ord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.CodeNotFound, "order %d not found", orderID)
			}
			return apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve order")
		}

		if !isAdmin && ord.UserID != userID {
			return apperror.New(apperror.CodeNotFound, "order %d not found", orderID)
		}

		if !ord.CanBeCancelled() {
			return apperror.New(apperror.CodeConflict,
				"order in status %s cannot be cancelled", ord.Status)
		}

		if !isAdmin && ord.Status != OrderStatusPending {
			return apperror.New(apperror.CodeConflict,
				"only orders in status PENDING can be cancelled")
		}

		for _, item := range ord.Items {
			if err := product.RestoreStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Model(&ord).Update("status", OrderStatusCancelled).Error; err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to cancel order")
		}
		ord.Status = OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := NewOrderView(ord)
	return &view, nil
}
