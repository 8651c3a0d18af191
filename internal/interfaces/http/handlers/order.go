// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/order"
	"github.com/zonagamer/zonagamer-backend/internal/domain/user"
	"github.com/zonagamer/zonagamer-backend/internal/interfaces/http/middleware"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// OrderHandler handles order and checkout endpoints
type OrderHandler struct {
	orderService *order.Service
	userService  *user.Service
	pdfService   *pdf.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config) *OrderHandler {
	return &OrderHandler{
		orderService: order.NewService(db, cfg),
		userService:  user.NewService(db, cfg),
		pdfService:   pdf.NewService(cfg),
		config:       cfg,
	}
}

// Checkout handles POST /orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	orderView, err := h.orderService.Checkout(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Order placed successfully", orderView)
}

// GetMyOrders handles GET /orders/my-orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.orderService.GetUserOrders(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", resp)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	isAdmin := middleware.IsAdminFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	orderView, err := h.orderService.GetOrder(orderID, userID, isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", orderView)
}

// CancelOrder handles DELETE /orders/:id
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	isAdmin := middleware.IsAdminFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	orderView, err := h.orderService.Cancel(orderID, userID, isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Order cancelled successfully", orderView)
}

// GetAllOrders handles GET /admin/orders
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.orderService.GetOrders(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", resp)
}

// GetOrdersByStatus handles GET /admin/orders/status/:status
func (h *OrderHandler) GetOrdersByStatus(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.Status = order.OrderStatus(c.Param("status"))

	resp, err := h.orderService.GetOrders(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", resp)
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	orderView, err := h.orderService.UpdateStatus(orderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Order status updated successfully", orderView)
}

// DownloadInvoice handles GET /orders/:id/invoice
func (h *OrderHandler) DownloadInvoice(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	isAdmin := middleware.IsAdminFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	orderView, err := h.orderService.GetOrder(orderID, userID, isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	customerName := ""
	customerEmail := ""
	if customer, err := h.userService.GetProfile(orderView.UserID); err == nil {
		customerName = customer.GetFullName()
		customerEmail = customer.Email
	}

	pdfBuffer, err := h.pdfService.GenerateInvoice(&orderView.Order, customerName, customerEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", orderView.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))

	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}
