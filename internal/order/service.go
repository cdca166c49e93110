// Package order provides HTTP handlers and business logic for customer orders.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/pkg/ctxlog"
	"github.com/minimart-io/minimart/internal/pkg/metrics"
)

// ProductReader resolves live product prices for order totals.
type ProductReader interface {
	GetProductPrice(ctx context.Context, id string) (float64, error)
}

// CustomerReader resolves customer data needed for order notifications.
type CustomerReader interface {
	GetCustomerEmail(ctx context.Context, id string) (string, error)
}

// Mailer sends order notification emails.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order *domain.Order, total float64) error
	SendStatusUpdate(ctx context.Context, to string, order *domain.Order) error
}

// Service implements order business logic.
type Service struct {
	repo      Repository
	products  ProductReader
	customers CustomerReader
	mailer    Mailer
}

// NewService creates a new order service.
func NewService(repo Repository, products ProductReader, customers CustomerReader, mailer Mailer) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		customers: customers,
		mailer:    mailer,
	}
}

// ItemInput describes one line of a new order.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrder persists a new pending order with its items in a single
// transaction and sends a best-effort confirmation email.
func (s *Service) CreateOrder(ctx context.Context, customerID string, items []ItemInput) (*domain.Order, error) {
	order := &domain.Order{
		Number:     newOrderNumber(),
		CustomerID: customerID,
		Status:     domain.OrderStatusPending,
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	ctxlog.FromContext(ctx).Info("order created",
		"order_id", order.ID,
		"order_number", order.Number,
		"customer_id", order.CustomerID,
		"items", len(order.Items),
	)

	s.sendConfirmation(ctx, order)

	return order, nil
}

// GetOrder returns an order with its items.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

// ListOrders returns orders matching the filter.
func (s *Service) ListOrders(ctx context.Context, filter ListFilter) ([]domain.Order, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListOrders(ctx, filter)
}

// UpdateStatus transitions an order to the given status and sends a
// best-effort status update email.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("order status updated",
		"order_id", order.ID,
		"status", order.Status,
	)

	s.sendStatusUpdate(ctx, order)

	return order, nil
}

// DeleteOrder removes an order and its items.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("order deleted", "order_id", id)
	return nil
}

// AddItem appends a line to an existing order.
func (s *Service) AddItem(ctx context.Context, orderID string, input ItemInput) (*domain.Order, error) {
	item := &domain.OrderItem{
		OrderID:   orderID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, orderID)
}

// UpdateItemQuantity changes the quantity of an order line.
func (s *Service) UpdateItemQuantity(ctx context.Context, orderID, itemID string, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if err := s.repo.UpdateItemQuantity(ctx, orderID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, orderID)
}

// RemoveItem deletes an order line.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Order, error) {
	if err := s.repo.RemoveItem(ctx, orderID, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, orderID)
}

// TotalAmount computes the order total from live product prices. Prices
// are not stored on order lines, so the total reflects the catalog at
// call time.
func (s *Service) TotalAmount(ctx context.Context, id string) (float64, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range order.Items {
		price, err := s.products.GetProductPrice(ctx, item.ProductID)
		if err != nil {
			return 0, fmt.Errorf("price for product %s: %w", item.ProductID, err)
		}
		total += price * float64(item.Quantity)
	}
	return total, nil
}

// CountByCustomer returns the number of orders placed by a customer.
func (s *Service) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	return s.repo.CountByCustomer(ctx, customerID)
}

// CountOrdersContainingProduct returns the number of orders that include
// a given product.
func (s *Service) CountOrdersContainingProduct(ctx context.Context, productID string) (int, error) {
	return s.repo.CountOrdersContainingProduct(ctx, productID)
}

// PurchaseCount returns the number of order lines a customer bought,
// optionally within an ordered_at window.
func (s *Service) PurchaseCount(ctx context.Context, customerID string, from, to *time.Time) (int, error) {
	return s.repo.PurchaseCount(ctx, customerID, from, to)
}

// sendConfirmation emails the customer about a new order. Failures are
// logged and counted but never surface to the caller.
func (s *Service) sendConfirmation(ctx context.Context, order *domain.Order) {
	log := ctxlog.FromContext(ctx)

	email, err := s.customers.GetCustomerEmail(ctx, order.CustomerID)
	if err != nil {
		log.Warn("order confirmation skipped, customer email unavailable",
			"order_id", order.ID,
			"error", err,
		)
		metrics.OrderEmails.WithLabelValues("confirmation", "failure").Inc()
		return
	}

	total, err := s.TotalAmount(ctx, order.ID)
	if err != nil {
		log.Warn("order confirmation skipped, total unavailable",
			"order_id", order.ID,
			"error", err,
		)
		metrics.OrderEmails.WithLabelValues("confirmation", "failure").Inc()
		return
	}

	if err := s.mailer.SendOrderConfirmation(ctx, email, order, total); err != nil {
		log.Warn("order confirmation email failed",
			"order_id", order.ID,
			"error", err,
		)
		metrics.OrderEmails.WithLabelValues("confirmation", "failure").Inc()
		return
	}
	metrics.OrderEmails.WithLabelValues("confirmation", "success").Inc()
}

func (s *Service) sendStatusUpdate(ctx context.Context, order *domain.Order) {
	log := ctxlog.FromContext(ctx)

	email, err := s.customers.GetCustomerEmail(ctx, order.CustomerID)
	if err != nil {
		log.Warn("status update email skipped, customer email unavailable",
			"order_id", order.ID,
			"error", err,
		)
		metrics.OrderEmails.WithLabelValues("status_update", "failure").Inc()
		return
	}

	if err := s.mailer.SendStatusUpdate(ctx, email, order); err != nil {
		log.Warn("status update email failed",
			"order_id", order.ID,
			"error", err,
		)
		metrics.OrderEmails.WithLabelValues("status_update", "failure").Inc()
		return
	}
	metrics.OrderEmails.WithLabelValues("status_update", "success").Inc()
}

// newOrderNumber derives a short human-readable order number from a UUID.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
