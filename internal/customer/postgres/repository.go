// Package postgres provides the PostgreSQL implementation of the customer repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minimart-io/minimart/internal/customer"
	"github.com/minimart-io/minimart/internal/domain"
)

// Repository implements the customer.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const uniqueViolation = "23505"

// CreateCustomer creates a new customer record.
func (r *Repository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (name, email)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, c.Name, c.Email).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return customer.ErrEmailExists
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// GetCustomerByID retrieves a customer by ID.
func (r *Repository) GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	var c domain.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer by id: %w", err)
	}

	return &c, nil
}

// ListCustomers retrieves all customers ordered by creation time.
func (r *Repository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM customers
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

// UpdateCustomer updates name and email of an existing customer.
func (r *Repository) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, c.ID, c.Name, c.Email).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.ErrCustomerNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return customer.ErrEmailExists
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// DeleteCustomer removes a customer by ID.
func (r *Repository) DeleteCustomer(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}
