package mail

import (
	"testing"
	"time"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:         "order-1",
		Number:     "ORD-1A2B3C4D",
		CustomerID: "customer-1",
		Status:     domain.OrderStatusPending,
		OrderedAt:  time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Quantity: 2},
			{ID: "item-2", OrderID: "order-1", ProductID: "product-2", Quantity: 1},
		},
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	subject, body, err := renderer.RenderOrderConfirmation(testOrder(), 1234.5)
	require.NoError(t, err)

	assert.Equal(t, "Order ORD-1A2B3C4D confirmed", subject)
	assert.Contains(t, body, "ORD-1A2B3C4D")
	assert.Contains(t, body, "product-1 x 2")
	assert.Contains(t, body, "product-2 x 1")
	assert.Contains(t, body, "$1,234.50")
	assert.Contains(t, body, "2025-03-14 09:30 UTC")
}

func TestRenderStatusUpdate(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	order := testOrder()
	order.Status = domain.OrderStatusShipped

	subject, body, err := renderer.RenderStatusUpdate(order)
	require.NoError(t, err)

	assert.Equal(t, "Order ORD-1A2B3C4D is now shipped", subject)
	assert.Contains(t, body, "SHIPPED")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", formatMoney(0))
	assert.Equal(t, "$19.99", formatMoney(19.99))
	assert.Equal(t, "$1,234,567.89", formatMoney(1234567.89))
}
