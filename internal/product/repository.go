package product

import (
	"context"

	"github.com/minimart-io/minimart/internal/domain"
)

// Repository defines the interface for product data operations.
type Repository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter Filter) ([]domain.Product, error)
	CountProducts(ctx context.Context, filter Filter) (int, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Sort orders for product listings.
const (
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortStockAsc    = "stock_asc"
	SortStockDesc   = "stock_desc"
	SortCreatedAsc  = "created_asc"
	SortCreatedDesc = "created_desc"
)

// Filter represents filter criteria for listing products. Nil fields are
// not applied.
type Filter struct {
	NameContains *string
	MinPrice     *float64
	MaxPrice     *float64
	MinStock     *int
	MaxStock     *int
	OutOfStock   bool
	Sort         string
}
