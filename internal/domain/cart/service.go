// internal/domain/cart/service.go
package cart

import (
	"errors"
	"time"

	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/product"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddToCartRequest represents add to cart data
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItemRequest represents cart item quantity update data
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CartItemView is a cart line enriched with live availability
type CartItemView struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Subtotal    int64  `json:"subtotal"`
	// Disponibilidad reports whether live stock still covers this line
	Disponibilidad bool `json:"disponibilidad"`
}

// CartResponse represents the cart with computed totals
type CartResponse struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	Subtotal   int64          `json:"subtotal"`
	Tax        int64          `json:"tax"`
	Total      int64          `json:"total"`
}

// GetCart returns the user's cart, creating an empty one on first use
func (s *Service) GetCart(userID uint) (*CartResponse, error) {
	cart, err := s.getOrCreateCart(s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(cart)
}

// AddItem adds a product to the cart or merges quantity into an
// existing line. Stock is rechecked against the merged quantity.
func (s *Service) AddItem(userID uint, req *AddToCartRequest) (*CartResponse, error) {
	var cart *Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var prod product.Product
		if err := tx.Where("id = ?", req.ProductID).First(&prod).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.CodeNotFound, "product %d not found", req.ProductID)
			}
			return apperror.Wrap(err, apperror.CodeInternal, "failed to load product")
		}
		if !prod.IsActive {
			return apperror.New(apperror.CodeConflict, "product %d is not available", prod.ID)
		}

		var item CartItem
		result := tx.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item)
		switch {
		case result.Error == nil:
			merged := item.Quantity + req.Quantity
			if !prod.HasStock(merged) {
				return apperror.New(apperror.CodeInsufficientStock,
					"insufficient stock for product %d", prod.ID)
			}
			if err := tx.Model(&item).Update("quantity", merged).Error; err != nil {
				return apperror.Wrap(err, apperror.CodeInternal, "failed to update cart item")
			}
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			if !prod.HasStock(req.Quantity) {
				return apperror.New(apperror.CodeInsufficientStock,
					"insufficient stock for product %d", prod.ID)
			}
			item = CartItem{
				CartID:      cart.ID,
				ProductID:   prod.ID,
				ProductName: prod.Name,
				ImageURL:    prod.ImageURL,
				Quantity:    req.Quantity,
				Price:       prod.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return apperror.Wrap(err, apperror.CodeInternal, "failed to add cart item")
			}
		default:
			return apperror.Wrap(result.Error, apperror.CodeInternal, "failed to load cart item")
		}
		return s.touch(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.buildResponse(cart)
}

// UpdateItemQuantity sets the quantity of a cart line. Removal goes
// through RemoveItem, so anything below one is rejected here.
func (s *Service) UpdateItemQuantity(userID, productID uint, req *UpdateCartItemRequest) (*CartResponse, error) {
	if req.Quantity < 1 {
		return nil, apperror.New(apperror.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.findCart(userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	result := s.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "product %d is not in the cart", productID)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to load cart item")
	}

	var prod product.Product
	if err := s.db.Where("id = ?", productID).First(&prod).Error; err == nil {
		if !prod.HasStock(req.Quantity) {
			return nil, apperror.New(apperror.CodeInsufficientStock,
				"insufficient stock for product %d", productID)
		}
	}

	if err := s.db.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update cart item")
	}
	if err := s.touch(s.db, cart.ID); err != nil {
		return nil, err
	}
	return s.buildResponse(cart)
}

// RemoveItem removes a product line from the cart
func (s *Service) RemoveItem(userID, productID uint) (*CartResponse, error) {
	cart, err := s.findCart(userID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&CartItem{})
	if result.Error != nil {
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to remove cart item")
	}
	if result.RowsAffected == 0 {
		return nil, apperror.New(apperror.CodeNotFound, "product %d is not in the cart", productID)
	}
	if err := s.touch(s.db, cart.ID); err != nil {
		return nil, err
	}
	return s.buildResponse(cart)
}

// Clear removes every line from the user's cart
func (s *Service) Clear(userID uint) (*CartResponse, error) {
	cart, err := s.getOrCreateCart(s.db, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to clear cart")
	}
	if err := s.touch(s.db, cart.ID); err != nil {
		return nil, err
	}
	return s.buildResponse(cart)
}

// touch re-stamps the cart row so its updated_at reflects the latest
// line mutation, not just cart creation.
func (s *Service) touch(tx *gorm.DB, cartID uint) error {
	if err := tx.Model(&Cart{}).Where("id = ?", cartID).
		Update("updated_at", time.Now().UTC()).Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to update cart")
	}
	return nil
}

// getOrCreateCart loads the user's cart, creating an empty row when
// the user has none yet.
func (s *Service) getOrCreateCart(tx *gorm.DB, userID uint) (*Cart, error) {
	var cart Cart
	result := tx.Where("user_id = ?", userID).First(&cart)
	if result.Error == nil {
		return &cart, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to load cart")
	}

	cart = Cart{UserID: userID}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to create cart")
	}
	return &cart, nil
}

// findCart loads an existing cart without creating one
func (s *Service) findCart(userID uint) (*Cart, error) {
	var cart Cart
	result := s.db.Where("user_id = ?", userID).First(&cart)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "cart is empty")
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to load cart")
	}
	return &cart, nil
}

// buildResponse reloads the cart lines, recomputes per-line
// availability from live stock and derives the totals.
func (s *Service) buildResponse(cart *Cart) (*CartResponse, error) {
	var items []CartItem
	if err := s.db.Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to load cart items")
	}

	resp := &CartResponse{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  make([]CartItemView, 0, len(items)),
	}

	for _, item := range items {
		available := false
		var prod product.Product
		if err := s.db.Where("id = ?", item.ProductID).First(&prod).Error; err == nil {
			available = prod.HasStock(item.Quantity)
		}

		subtotal := item.Subtotal()
		resp.Items = append(resp.Items, CartItemView{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			ImageURL:       item.ImageURL,
			Quantity:       item.Quantity,
			Price:          item.Price,
			Subtotal:       subtotal,
			Disponibilidad: available,
		})
		resp.TotalItems += item.Quantity
		resp.Subtotal += subtotal
	}

	resp.Tax = TaxFor(resp.Subtotal)
	resp.Total = resp.Subtotal + resp.Tax
	return resp, nil
}
