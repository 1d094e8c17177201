package port

import (
	"context"

	"github.com/nikolayk812/smartpos/internal/domain"
)

type CatalogRepository interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpsertProduct(ctx context.Context, product domain.Product) error
	UpsertCategory(ctx context.Context, category domain.Category) error
	DeleteProduct(ctx context.Context, productID string) (bool, error)

	// DecrementStock subtracts quantity only if the current stock covers it and
	// returns the remaining stock. It fails with *domain.InsufficientStockError
	// or *domain.NotFoundError otherwise, leaving stock untouched.
	DecrementStock(ctx context.Context, productID string, quantity int) (int, error)
	IncrementStock(ctx context.Context, productID string, quantity int) (int, error)
}
