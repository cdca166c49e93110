// Package postgres provides the PostgreSQL implementation of the order repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/order"
)

// Repository implements the order.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateOrder inserts the order and all of its items in one transaction.
func (r *Repository) CreateOrder(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (number, customer_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, ordered_at, updated_at
	`
	err = tx.QueryRow(ctx, orderQuery, o.Number, o.CustomerID, o.Status).
		Scan(&o.ID, &o.OrderedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err := tx.QueryRow(ctx, itemQuery, item.OrderID, item.ProductID, item.Quantity).
			Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

// GetOrderByID retrieves an order with its items.
func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, number, customer_id, status, ordered_at, updated_at
		FROM orders
		WHERE id = $1
	`
	var o domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Number,
		&o.CustomerID,
		&o.Status,
		&o.OrderedAt,
		&o.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

// ListOrders retrieves orders matching the filter, newest first. Items
// are loaded per order.
func (r *Repository) ListOrders(ctx context.Context, filter order.ListFilter) ([]domain.Order, error) {
	query := `
		SELECT id, number, customer_id, status, ordered_at, updated_at
		FROM orders
		WHERE 1=1
	`
	args := []any{}
	argNum := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argNum)
		args = append(args, *filter.CustomerID)
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
	}

	query += " ORDER BY ordered_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(&o.ID, &o.Number, &o.CustomerID, &o.Status, &o.OrderedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// UpdateOrderStatus sets a new status and returns the refreshed order.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`
	var updatedID string
	err := r.db.QueryRow(ctx, query, id, status).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return r.GetOrderByID(ctx, id)
}

// DeleteOrder removes an order. Items are removed via ON DELETE CASCADE.
func (r *Repository) DeleteOrder(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// AddItem appends a line to an existing order.
func (r *Repository) AddItem(ctx context.Context, item *domain.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity)
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM orders WHERE id = $1)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, item.OrderID, item.ProductID, item.Quantity).
		Scan(&item.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.ErrOrderNotFound
		}
		return fmt.Errorf("add order item: %w", err)
	}
	return nil
}

// UpdateItemQuantity changes the quantity of an order line.
func (r *Repository) UpdateItemQuantity(ctx context.Context, orderID, itemID string, quantity int) error {
	query := `
		UPDATE order_items
		SET quantity = $3
		WHERE id = $2 AND order_id = $1
	`
	tag, err := r.db.Exec(ctx, query, orderID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderItemNotFound
	}
	return nil
}

// RemoveItem deletes an order line.
func (r *Repository) RemoveItem(ctx context.Context, orderID, itemID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM order_items WHERE id = $2 AND order_id = $1`, orderID, itemID)
	if err != nil {
		return fmt.Errorf("remove order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderItemNotFound
	}
	return nil
}

// CountByCustomer returns the number of orders placed by a customer.
func (r *Repository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders by customer: %w", err)
	}
	return count, nil
}

// CountOrdersContainingProduct returns the number of distinct orders
// that include a given product.
func (r *Repository) CountOrdersContainingProduct(ctx context.Context, productID string) (int, error) {
	query := `
		SELECT count(DISTINCT order_id)
		FROM order_items
		WHERE product_id = $1
	`
	var count int
	err := r.db.QueryRow(ctx, query, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders containing product: %w", err)
	}
	return count, nil
}

// PurchaseCount counts order lines bought by a customer, optionally
// within an ordered_at window.
func (r *Repository) PurchaseCount(ctx context.Context, customerID string, from, to *time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.customer_id = $1
	`
	args := []any{customerID}
	argNum := 2

	if from != nil {
		query += fmt.Sprintf(" AND o.ordered_at >= $%d", argNum)
		args = append(args, *from)
		argNum++
	}
	if to != nil {
		query += fmt.Sprintf(" AND o.ordered_at <= $%d", argNum)
		args = append(args, *to)
	}

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("purchase count: %w", err)
	}
	return count, nil
}

func (r *Repository) getItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
