package order

import (
	"context"
	"time"

	"github.com/minimart-io/minimart/internal/domain"
)

// Repository defines the interface for order data operations.
type Repository interface {
	// CreateOrder persists the order and all of its items atomically.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error

	AddItem(ctx context.Context, item *domain.OrderItem) error
	UpdateItemQuantity(ctx context.Context, orderID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, orderID, itemID string) error

	CountByCustomer(ctx context.Context, customerID string) (int, error)
	CountOrdersContainingProduct(ctx context.Context, productID string) (int, error)
	// PurchaseCount counts order items bought by a customer, optionally
	// restricted to an ordered_at window.
	PurchaseCount(ctx context.Context, customerID string, from, to *time.Time) (int, error)
}

// ListFilter narrows order listings. Nil fields are not applied.
type ListFilter struct {
	CustomerID *string
	Status     *domain.OrderStatus
}
