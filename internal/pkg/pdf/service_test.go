package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/order"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0,00", formatMoney(0))
	assert.Equal(t, "$1,50", formatMoney(150))
	assert.Equal(t, "$49.998,00", formatMoney(4999800))
	assert.Equal(t, "$1.234.567,89", formatMoney(123456789))
	assert.Equal(t, "-$100,00", formatMoney(-10000))
}

func TestGenerateHTML(t *testing.T) {
	svc := NewService(&config.Config{
		App: config.AppConfig{
			CompanyName:    "ZonaGamer",
			CompanyAddress: "Calle 10 # 5-23, Bogotá",
			CompanyPhone:   "+57 300 000 0000",
			CompanyEmail:   "ventas@zonagamer.co",
		},
	})

	ord := &order.Order{
		ID:              42,
		Status:          order.OrderStatusPaid,
		SubtotalAmount:  200000,
		TaxAmount:       38000,
		TotalAmount:     238000,
		DeliveryAddress: "Carrera 7 # 45-12",
		CreatedAt:       time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Items: []order.OrderItem{
			{ProductName: "Control inalámbrico", Quantity: 2, Price: 100000, TotalPrice: 200000},
		},
	}

	html, err := svc.generateHTML(InvoiceData{
		InvoiceNumber:   "INV-" + ord.OrderNumber(),
		OrderNumber:     ord.OrderNumber(),
		Status:          string(ord.Status),
		CustomerName:    "Ana Pérez",
		CustomerEmail:   "ana@example.com",
		DeliveryAddress: ord.DeliveryAddress,
		Items: []invoiceItem{
			{Name: "Control inalámbrico", Quantity: 2, Price: formatMoney(100000), Total: formatMoney(200000)},
		},
		Subtotal: formatMoney(ord.SubtotalAmount),
		Tax:      formatMoney(ord.TaxAmount),
		Total:    formatMoney(ord.TotalAmount),
		Company: CompanyInfo{
			Name:  "ZonaGamer",
			Email: "ventas@zonagamer.co",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "ORD-2026-000042")
	assert.Contains(t, html, "Control inalámbrico")
	assert.Contains(t, html, "$2.380,00")
	assert.Contains(t, html, "IVA (19%)")
	assert.Contains(t, html, "PAID")
}
