// Package product provides HTTP handlers and business logic for the catalog
// of sellable products.
package product

import (
	"context"
	"fmt"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/pkg/ctxlog"
)

// Service implements product business logic.
type Service struct {
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateProduct persists a new product.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	ctxlog.FromContext(ctx).Info("product created",
		"product_id", product.ID,
		"name", product.Name,
	)
	return product, nil
}

// GetProduct returns a product by ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

// GetProductPrice returns the current price of a product. Used by the order
// module to compute order totals from live prices.
func (s *Service) GetProductPrice(ctx context.Context, id string) (float64, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Price, nil
}

// ListProducts returns products matching the filter.
func (s *Service) ListProducts(ctx context.Context, filter Filter) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

// CountProducts returns the number of products matching the filter.
func (s *Service) CountProducts(ctx context.Context, filter Filter) (int, error) {
	return s.repo.CountProducts(ctx, filter)
}

// UpdateProductInput holds updatable product fields.
type UpdateProductInput struct {
	Name          string
	Description   string
	Price         float64
	StockQuantity int
}

// UpdateProduct replaces the mutable fields of an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.StockQuantity = input.StockQuantity

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// UpdateStock sets the stock quantity of a product.
func (s *Service) UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("stock quantity cannot be negative")
	}

	product, err := s.repo.UpdateStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("product stock updated",
		"product_id", id,
		"stock_quantity", quantity,
	)
	return product, nil
}

// DeleteProduct removes a product by ID.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}
