package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/smartpos/internal/domain"
)

type SaleRepository interface {
	AppendSale(ctx context.Context, sale domain.SaleRecord) error
	GetSale(ctx context.Context, saleID uuid.UUID) (domain.SaleRecord, error)
	// ListSales returns the most recent sales first, at most limit of them.
	ListSales(ctx context.Context, limit int) ([]domain.SaleRecord, error)
}
