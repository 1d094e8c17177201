package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
)

// Ledger is an append-only in-memory sale store.
type Ledger struct {
	mu    sync.RWMutex
	sales []domain.SaleRecord
	index map[uuid.UUID]int
}

var _ port.SaleRepository = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{index: make(map[uuid.UUID]int)}
}

func (l *Ledger) AppendSale(_ context.Context, sale domain.SaleRecord) error {
	if sale.ID == uuid.Nil {
		return domain.NewValidationError("sale id is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.index[sale.ID]; exists {
		return domain.NewValidationError("sale[%s] already recorded", sale.ID)
	}

	l.index[sale.ID] = len(l.sales)
	l.sales = append(l.sales, sale.Clone())

	return nil
}

func (l *Ledger) GetSale(_ context.Context, saleID uuid.UUID) (domain.SaleRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[saleID]
	if !ok {
		return domain.SaleRecord{}, &domain.NotFoundError{Resource: "sale", ID: saleID.String()}
	}
	return l.sales[i].Clone(), nil
}

func (l *Ledger) ListSales(_ context.Context, limit int) ([]domain.SaleRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.sales) {
		limit = len(l.sales)
	}

	result := make([]domain.SaleRecord, 0, limit)
	for i := len(l.sales) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, l.sales[i].Clone())
	}
	return result, nil
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sales)
}
