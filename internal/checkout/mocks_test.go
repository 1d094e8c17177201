package checkout_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"golang.org/x/text/currency"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockCatalog) DecrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *mockCatalog) IncrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Int(0), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) AppendSale(ctx context.Context, sale domain.SaleRecord) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSaleCompleted(ctx context.Context, sale domain.SaleRecord) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProduct(id, price string, stock int) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "product " + id,
		Price: domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		Stock: stock,
	}
}
