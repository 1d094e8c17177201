package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/smartpos/internal/db"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
	"golang.org/x/text/currency"
)

const uniqueViolation = "23505"

type saleRepository struct {
	q    *db.Queries
	pool Pool
}

func NewSales(pool Pool) (port.SaleRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &saleRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

// NewSalesWithTx binds the repository to a transaction owned by the caller.
func NewSalesWithTx(tx pgx.Tx) port.SaleRepository {
	return &saleRepository{
		q:    db.New(tx),
		pool: nil,
	}
}

// AppendSale writes the sale header and its lines in one transaction.
func (r *saleRepository) AppendSale(ctx context.Context, sale domain.SaleRecord) error {
	if sale.ID == uuid.Nil {
		return domain.NewValidationError("sale id is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		err := q.InsertSale(ctx, db.InsertSaleParams{
			ID:            sale.ID,
			PaymentMethod: string(sale.PaymentMethod),
			TotalAmount:   sale.Total.Amount,
			TotalCurrency: sale.Total.Currency.String(),
			CreatedAt:     sale.CreatedAt,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.InsertSale: %w", err)
		}

		for i, line := range sale.Lines {
			qty, err := toInt32(line.Quantity)
			if err != nil {
				return struct{}{}, err
			}

			err = q.InsertSaleItem(ctx, db.InsertSaleItemParams{
				SaleID:         sale.ID,
				LineNo:         int32(i),
				ProductID:      line.ProductID,
				ProductName:    line.ProductName,
				Quantity:       qty,
				UnitPrice:      line.UnitPrice.Amount,
				SubtotalAmount: line.Subtotal.Amount,
				Currency:       line.Subtotal.Currency.String(),
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.InsertSaleItem[%d]: %w", i, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.NewValidationError("sale[%s] already recorded", sale.ID)
		}
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *saleRepository) GetSale(ctx context.Context, saleID uuid.UUID) (domain.SaleRecord, error) {
	row, err := r.q.GetSale(ctx, saleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SaleRecord{}, &domain.NotFoundError{Resource: "sale", ID: saleID.String()}
		}
		return domain.SaleRecord{}, fmt.Errorf("q.GetSale: %w", err)
	}

	sales, err := r.withItems(ctx, []db.Sale{row})
	if err != nil {
		return domain.SaleRecord{}, err
	}

	return sales[0], nil
}

func (r *saleRepository) ListSales(ctx context.Context, limit int) ([]domain.SaleRecord, error) {
	if limit <= 0 || limit > math.MaxInt32 {
		limit = math.MaxInt32
	}

	rows, err := r.q.ListSales(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("q.ListSales: %w", err)
	}

	if len(rows) == 0 {
		return []domain.SaleRecord{}, nil
	}

	return r.withItems(ctx, rows)
}

// withItems loads the lines of all given sales in one query and keeps the order of rows.
func (r *saleRepository) withItems(ctx context.Context, rows []db.Sale) ([]domain.SaleRecord, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	items, err := r.q.ListSaleItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.ListSaleItems: %w", err)
	}

	itemsBySale := make(map[uuid.UUID][]db.SaleItem, len(rows))
	for _, item := range items {
		itemsBySale[item.SaleID] = append(itemsBySale[item.SaleID], item)
	}

	sales := make([]domain.SaleRecord, 0, len(rows))
	for _, row := range rows {
		sale, err := mapSaleToDomain(row, itemsBySale[row.ID])
		if err != nil {
			return nil, fmt.Errorf("mapSaleToDomain[%s]: %w", row.ID, err)
		}
		sales = append(sales, sale)
	}

	return sales, nil
}

func mapSaleToDomain(row db.Sale, items []db.SaleItem) (domain.SaleRecord, error) {
	totalCurrency, err := currency.ParseISO(row.TotalCurrency)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("currency[%s] is not valid: %w", row.TotalCurrency, err)
	}

	method, err := domain.ParsePaymentMethod(row.PaymentMethod)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("domain.ParsePaymentMethod: %w", err)
	}

	lines := make([]domain.SaleLine, 0, len(items))
	for _, item := range items {
		lineCurrency, err := currency.ParseISO(item.Currency)
		if err != nil {
			return domain.SaleRecord{}, fmt.Errorf("currency[%s] is not valid: %w", item.Currency, err)
		}

		lines = append(lines, domain.SaleLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    int(item.Quantity),
			UnitPrice:   domain.Money{Amount: item.UnitPrice, Currency: lineCurrency},
			Subtotal:    domain.Money{Amount: item.SubtotalAmount, Currency: lineCurrency},
		})
	}

	return domain.SaleRecord{
		ID:            row.ID,
		PaymentMethod: method,
		CreatedAt:     row.CreatedAt,
		Total:         domain.Money{Amount: row.TotalAmount, Currency: totalCurrency},
		Lines:         lines,
	}, nil
}
