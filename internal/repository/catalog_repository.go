package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/smartpos/internal/db"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q *db.Queries
}

func NewCatalog(conn db.DBTX) (port.CatalogRepository, error) {
	if conn == nil {
		return nil, fmt.Errorf("conn is nil")
	}

	return &catalogRepository{
		q: db.New(conn),
	}, nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	row, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.NewProductNotFound(productID)
		}
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	product, err := mapProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	var (
		rows []db.Product
		err  error
	)

	if categoryID == "" {
		rows, err = r.q.ListProducts(ctx)
	} else {
		rows, err = r.q.ListProductsByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		product, err := mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.q.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListCategories: %w", err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{ID: row.ID, Name: row.Name})
	}

	return categories, nil
}

func (r *catalogRepository) UpsertProduct(ctx context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	stock, err := toInt32(product.Stock)
	if err != nil {
		return err
	}

	err = r.q.UpsertProduct(ctx, db.UpsertProductParams{
		ID:            product.ID,
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Stock:         stock,
		CategoryID:    product.CategoryID,
		Description:   product.Description,
		ImageRef:      product.ImageRef,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertProduct: %w", err)
	}

	return nil
}

func (r *catalogRepository) UpsertCategory(ctx context.Context, category domain.Category) error {
	if category.ID == "" {
		return domain.NewValidationError("category id is empty")
	}

	if err := r.q.UpsertCategory(ctx, db.UpsertCategoryParams{ID: category.ID, Name: category.Name}); err != nil {
		return fmt.Errorf("q.UpsertCategory: %w", err)
	}

	return nil
}

func (r *catalogRepository) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	rowsAffected, err := r.q.DeleteProduct(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("q.DeleteProduct: %w", err)
	}

	return rowsAffected > 0, nil
}

// DecrementStock issues a single conditional UPDATE. When it matches no row the
// product is either gone or short on stock; a follow-up read tells which.
func (r *catalogRepository) DecrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("decrement quantity must be positive, got %d", quantity)
	}

	qty, err := toInt32(quantity)
	if err != nil {
		return 0, err
	}

	stock, err := r.q.DecrementStock(ctx, db.DecrementStockParams{Quantity: qty, ID: productID})
	if err == nil {
		return int(stock), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("q.DecrementStock: %w", err)
	}

	available, err := r.q.GetProductStock(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewProductNotFound(productID)
		}
		return 0, fmt.Errorf("q.GetProductStock: %w", err)
	}

	return 0, domain.NewInsufficientStock(productID, quantity, int(available))
}

func (r *catalogRepository) IncrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("increment quantity must be positive, got %d", quantity)
	}

	qty, err := toInt32(quantity)
	if err != nil {
		return 0, err
	}

	stock, err := r.q.IncrementStock(ctx, db.IncrementStockParams{Quantity: qty, ID: productID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewProductNotFound(productID)
		}
		return 0, fmt.Errorf("q.IncrementStock: %w", err)
	}

	return int(stock), nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Price:       domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Stock:       int(row.Stock),
		CategoryID:  row.CategoryID,
		Description: row.Description,
		ImageRef:    row.ImageRef,
	}, nil
}

func toInt32(n int) (int32, error) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, domain.NewValidationError("value %d is out of range", n)
	}
	return int32(n), nil
}
