package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
)

// Catalog keeps products in process memory. Stock changes happen under a single
// lock, which makes the conditional decrement atomic.
type Catalog struct {
	mu         sync.RWMutex
	products   map[string]domain.Product
	categories map[string]domain.Category
}

var _ port.CatalogRepository = (*Catalog)(nil)

func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{
		products:   make(map[string]domain.Product, len(products)),
		categories: make(map[string]domain.Category),
	}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *Catalog) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	if !ok {
		return domain.Product{}, domain.NewProductNotFound(productID)
	}
	return p, nil
}

func (c *Catalog) ListProducts(_ context.Context, categoryID string) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		result = append(result, p)
	}

	slices.SortFunc(result, func(a, b domain.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	return result, nil
}

func (c *Catalog) ListCategories(_ context.Context) ([]domain.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Category, 0, len(c.categories))
	for _, cat := range c.categories {
		result = append(result, cat)
	}

	slices.SortFunc(result, func(a, b domain.Category) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return result, nil
}

func (c *Catalog) UpsertProduct(_ context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.products[product.ID] = product
	return nil
}

func (c *Catalog) UpsertCategory(_ context.Context, category domain.Category) error {
	if category.ID == "" {
		return domain.NewValidationError("category id is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories[category.ID] = category
	return nil
}

func (c *Catalog) DeleteProduct(_ context.Context, productID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.products[productID]
	delete(c.products, productID)
	return ok, nil
}

func (c *Catalog) DecrementStock(_ context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("decrement quantity must be positive, got %d", quantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[productID]
	if !ok {
		return 0, domain.NewProductNotFound(productID)
	}

	if p.Stock < quantity {
		return 0, domain.NewInsufficientStock(productID, quantity, p.Stock)
	}

	p.Stock -= quantity
	c.products[productID] = p

	return p.Stock, nil
}

func (c *Catalog) IncrementStock(_ context.Context, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.NewValidationError("increment quantity must be positive, got %d", quantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[productID]
	if !ok {
		return 0, domain.NewProductNotFound(productID)
	}

	p.Stock += quantity
	c.products[productID] = p

	return p.Stock, nil
}
