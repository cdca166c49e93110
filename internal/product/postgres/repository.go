// Package postgres provides the PostgreSQL implementation of the product repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/product"
)

// Repository implements the product.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateProduct creates a new product record.
func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.StockQuantity).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetProductByID retrieves a product by ID.
func (r *Repository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock_quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	var p domain.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return &p, nil
}

// ListProducts retrieves products matching the filter.
func (r *Repository) ListProducts(ctx context.Context, filter product.Filter) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock_quantity, created_at, updated_at
		FROM products
	`
	where, args := buildWhere(filter)
	query += where + orderBy(filter.Sort)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// CountProducts returns the number of products matching the filter.
func (r *Repository) CountProducts(ctx context.Context, filter product.Filter) (int, error) {
	where, args := buildWhere(filter)

	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// UpdateProduct updates the mutable fields of an existing product.
func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock_quantity = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, p.ID, p.Name, p.Description, p.Price, p.StockQuantity).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock sets the stock quantity of a product and returns the updated row.
func (r *Repository) UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	query := `
		UPDATE products
		SET stock_quantity = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, price, stock_quantity, created_at, updated_at
	`
	var p domain.Product
	err := r.db.QueryRow(ctx, query, id, quantity).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("update stock: %w", err)
	}

	return &p, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// buildWhere assembles the WHERE clause for a filter. Conditions use
// positional placeholders, so args line up with their order of appearance.
func buildWhere(filter product.Filter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.NameContains != nil {
		conds = append(conds, "name ILIKE "+arg("%"+*filter.NameContains+"%"))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*filter.MaxPrice))
	}
	if filter.MinStock != nil {
		conds = append(conds, "stock_quantity >= "+arg(*filter.MinStock))
	}
	if filter.MaxStock != nil {
		conds = append(conds, "stock_quantity <= "+arg(*filter.MaxStock))
	}
	if filter.OutOfStock {
		conds = append(conds, "stock_quantity = 0")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(sort string) string {
	switch sort {
	case product.SortPriceAsc:
		return " ORDER BY price"
	case product.SortPriceDesc:
		return " ORDER BY price DESC"
	case product.SortStockAsc:
		return " ORDER BY stock_quantity"
	case product.SortStockDesc:
		return " ORDER BY stock_quantity DESC"
	case product.SortCreatedAsc:
		return " ORDER BY created_at"
	default:
		return " ORDER BY created_at DESC"
	}
}
