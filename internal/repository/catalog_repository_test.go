package repository_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
	"github.com/nikolayk812/smartpos/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type catalogRepositorySuite struct {
	suite.Suite

	repo port.CatalogRepository
	pool *pgxpool.Pool
}

func TestCatalogRepositorySuite(t *testing.T) {
	suite.Run(t, new(catalogRepositorySuite))
}

func (suite *catalogRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo, err = repository.NewCatalog(suite.pool)
	suite.Require().NoError(err)
}

func (suite *catalogRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *catalogRepositorySuite) TestUpsertAndGetProduct() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		product   domain.Product
		wantError error
	}{
		{
			name:    "upsert product: ok",
			product: randomProduct(php),
		},
		{
			name: "upsert product with zero stock: ok",
			product: func() domain.Product {
				p := randomProduct(currency.USD)
				p.Stock = 0
				return p
			}(),
		},
		{
			name: "upsert product with negative stock: error",
			product: func() domain.Product {
				p := randomProduct(currency.USD)
				p.Stock = -1
				return p
			}(),
			wantError: domain.ErrValidation,
		},
		{
			name:      "upsert product with empty id: error",
			product:   domain.Product{Name: "nameless"},
			wantError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.repo.UpsertProduct(ctx, tt.product)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actual, err := suite.repo.GetProduct(ctx, tt.product.ID)
			require.NoError(t, err)
			assertProduct(t, tt.product, actual)

			// second upsert replaces the row
			tt.product.Name = gofakeit.ProductName()
			require.NoError(t, suite.repo.UpsertProduct(ctx, tt.product))

			actual, err = suite.repo.GetProduct(ctx, tt.product.ID)
			require.NoError(t, err)
			assertProduct(t, tt.product, actual)
		})
	}
}

func (suite *catalogRepositorySuite) TestGetProduct_NotFound() {
	t := suite.T()

	_, err := suite.repo.GetProduct(t.Context(), gofakeit.UUID())

	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "product", nfErr.Resource)
}

func (suite *catalogRepositorySuite) TestListProducts() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	drinks := randomProduct(php)
	drinks.Name, drinks.CategoryID = "b-cola", "drinks"
	snacks := randomProduct(php)
	snacks.Name, snacks.CategoryID = "a-chips", "snacks"

	for _, p := range []domain.Product{drinks, snacks} {
		require.NoError(t, suite.repo.UpsertProduct(ctx, p))
	}

	all, err := suite.repo.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, snacks.ID, all[0].ID)
	assert.Equal(t, drinks.ID, all[1].ID)

	filtered, err := suite.repo.ListProducts(ctx, "drinks")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assertProduct(t, drinks, filtered[0])

	none, err := suite.repo.ListProducts(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func (suite *catalogRepositorySuite) TestCategories() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.repo.UpsertCategory(ctx, domain.Category{ID: "2", Name: "Snacks"}))
	require.NoError(t, suite.repo.UpsertCategory(ctx, domain.Category{ID: "1", Name: "Drinks"}))
	require.NoError(t, suite.repo.UpsertCategory(ctx, domain.Category{ID: "2", Name: "Chips"}))

	err := suite.repo.UpsertCategory(ctx, domain.Category{Name: "no id"})
	require.ErrorIs(t, err, domain.ErrValidation)

	categories, err := suite.repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: "2", Name: "Chips"}, {ID: "1", Name: "Drinks"}}, categories)
}

func (suite *catalogRepositorySuite) TestDeleteProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := randomProduct(currency.USD)
	require.NoError(t, suite.repo.UpsertProduct(ctx, p))

	deleted, err := suite.repo.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = suite.repo.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = suite.repo.GetProduct(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *catalogRepositorySuite) TestDecrementStock() {
	defer suite.deleteAll()

	tests := []struct {
		name          string
		stock         int
		quantity      int
		missing       bool
		wantRemaining int
		wantError     error
	}{
		{
			name:          "decrement below stock: ok",
			stock:         5,
			quantity:      3,
			wantRemaining: 2,
		},
		{
			name:          "decrement entire stock: ok",
			stock:         1,
			quantity:      1,
			wantRemaining: 0,
		},
		{
			name:      "decrement above stock: insufficient",
			stock:     2,
			quantity:  3,
			wantError: domain.ErrInsufficientStock,
		},
		{
			name:      "decrement missing product: not found",
			quantity:  1,
			missing:   true,
			wantError: domain.ErrNotFound,
		},
		{
			name:      "decrement zero: validation",
			stock:     2,
			quantity:  0,
			wantError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			p := randomProduct(currency.USD)
			p.Stock = tt.stock
			if !tt.missing {
				require.NoError(t, suite.repo.UpsertProduct(ctx, p))
			}

			remaining, err := suite.repo.DecrementStock(ctx, p.ID, tt.quantity)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)

				if !tt.missing {
					actual, err := suite.repo.GetProduct(ctx, p.ID)
					require.NoError(t, err)
					assert.Equal(t, tt.stock, actual.Stock)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, remaining)

			actual, err := suite.repo.GetProduct(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, actual.Stock)
		})
	}
}

func (suite *catalogRepositorySuite) TestDecrementStock_InsufficientReportsAvailable() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := randomProduct(currency.USD)
	p.Stock = 2
	require.NoError(t, suite.repo.UpsertProduct(ctx, p))

	_, err := suite.repo.DecrementStock(ctx, p.ID, 5)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
}

func (suite *catalogRepositorySuite) TestDecrementStock_Concurrent() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := randomProduct(currency.USD)
	p.Stock = 3
	require.NoError(t, suite.repo.UpsertProduct(ctx, p))

	const workers = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		unexpected []error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := suite.repo.DecrementStock(ctx, p.ID, 1)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case !errors.Is(err, domain.ErrInsufficientStock):
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 3, succeeded)

	actual, err := suite.repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, actual.Stock)
}

func (suite *catalogRepositorySuite) TestIncrementStock() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	p := randomProduct(currency.USD)
	p.Stock = 1
	require.NoError(t, suite.repo.UpsertProduct(ctx, p))

	stock, err := suite.repo.IncrementStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, stock)

	_, err = suite.repo.IncrementStock(ctx, gofakeit.UUID(), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = suite.repo.IncrementStock(ctx, p.ID, -1)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func (suite *catalogRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE products, categories CASCADE")
	suite.NoError(err)
}
