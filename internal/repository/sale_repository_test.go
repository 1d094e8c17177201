package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
	"github.com/nikolayk812/smartpos/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type saleRepositorySuite struct {
	suite.Suite

	repo port.SaleRepository
	pool *pgxpool.Pool
}

func TestSaleRepositorySuite(t *testing.T) {
	suite.Run(t, new(saleRepositorySuite))
}

func (suite *saleRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo, err = repository.NewSales(suite.pool)
	suite.Require().NoError(err)
}

func (suite *saleRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *saleRepositorySuite) TestAppendAndGetSale() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	sale := randomSale(t, time.Now().UTC().Truncate(time.Second), 3)

	require.NoError(t, suite.repo.AppendSale(ctx, sale))

	actual, err := suite.repo.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(sale, actual))
}

func (suite *saleRepositorySuite) TestAppendSale_Errors() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	sale := randomSale(t, time.Now().UTC().Truncate(time.Second), 1)
	require.NoError(t, suite.repo.AppendSale(ctx, sale))

	err := suite.repo.AppendSale(ctx, sale)
	require.ErrorIs(t, err, domain.ErrValidation)

	sale.ID = uuid.Nil
	err = suite.repo.AppendSale(ctx, sale)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func (suite *saleRepositorySuite) TestGetSale_NotFound() {
	t := suite.T()

	_, err := suite.repo.GetSale(t.Context(), uuid.New())

	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "sale", nfErr.Resource)
}

func (suite *saleRepositorySuite) TestListSales() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var appended []domain.SaleRecord
	for i := range 3 {
		sale := randomSale(t, base.Add(time.Duration(i)*time.Minute), i+1)
		require.NoError(t, suite.repo.AppendSale(ctx, sale))
		appended = append(appended, sale)
	}

	all, err := suite.repo.ListSales(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Empty(t, cmp.Diff([]domain.SaleRecord{appended[2], appended[1], appended[0]}, all))

	latest, err := suite.repo.ListSales(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, appended[2].ID, latest[0].ID)
	assert.Equal(t, appended[1].ID, latest[1].ID)
}

func (suite *saleRepositorySuite) TestListSales_Empty() {
	t := suite.T()

	sales, err := suite.repo.ListSales(t.Context(), 10)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func (suite *saleRepositorySuite) TestAppendSale_WithCallerTx() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	sale := randomSale(t, time.Now().UTC().Truncate(time.Second), 2)
	require.NoError(t, repository.NewSalesWithTx(tx).AppendSale(ctx, sale))
	require.NoError(t, tx.Rollback(ctx))

	_, err = suite.repo.GetSale(ctx, sale.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *saleRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE sales CASCADE")
	suite.NoError(err)
}

func randomSale(t *testing.T, createdAt time.Time, lines int) domain.SaleRecord {
	t.Helper()

	saleLines := make([]domain.SaleLine, 0, lines)
	for range lines {
		saleLines = append(saleLines, domain.NewSaleLine(randomProduct(php), gofakeit.IntRange(1, 5)))
	}

	id, err := uuid.NewV7()
	require.NoError(t, err)

	sale, err := domain.NewSaleRecord(id, domain.PaymentMethods()[gofakeit.IntN(len(domain.PaymentMethods()))],
		createdAt, php, saleLines)
	require.NoError(t, err)

	return sale
}
