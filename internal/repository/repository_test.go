package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

var php = currency.MustParseISO("PHP")

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../../migrations/01_catalog.up.sql",
			"../../migrations/02_sales.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomProduct(cur currency.Unit) domain.Product {
	return domain.Product{
		ID:          gofakeit.UUID(),
		Name:        gofakeit.ProductName(),
		Price:       domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2), cur),
		Stock:       gofakeit.IntRange(1, 50),
		CategoryID:  gofakeit.ProductCategory(),
		Description: gofakeit.ProductDescription(),
	}
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	diff := cmp.Diff(expected, actual)
	assert.Empty(t, diff)
}
