package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/text/currency"
)

// ledgerRepository stores each sale as one document with embedded lines in the
// transactions collection, so an append is a single atomic insert.
type ledgerRepository struct {
	transactions *mongo.Collection
}

func NewLedger(db *mongo.Database) port.SaleRepository {
	return &ledgerRepository{
		transactions: db.Collection(transactionsCollection),
	}
}

func (r *ledgerRepository) AppendSale(ctx context.Context, sale domain.SaleRecord) error {
	if sale.ID == uuid.Nil {
		return domain.NewValidationError("sale id is empty")
	}

	doc, err := newTransactionDocument(sale)
	if err != nil {
		return err
	}

	if _, err := r.transactions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewValidationError("sale[%s] already recorded", sale.ID)
		}
		return fmt.Errorf("transactions.InsertOne: %w", err)
	}

	return nil
}

func (r *ledgerRepository) GetSale(ctx context.Context, saleID uuid.UUID) (domain.SaleRecord, error) {
	var doc transactionDocument

	err := r.transactions.FindOne(ctx, bson.M{"_id": saleID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.SaleRecord{}, &domain.NotFoundError{Resource: "sale", ID: saleID.String()}
		}
		return domain.SaleRecord{}, fmt.Errorf("transactions.FindOne: %w", err)
	}

	return doc.toDomain()
}

func (r *ledgerRepository) ListSales(ctx context.Context, limit int) ([]domain.SaleRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.transactions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("transactions.Find: %w", err)
	}

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor.All: %w", err)
	}

	sales := make([]domain.SaleRecord, 0, len(docs))
	for _, doc := range docs {
		sale, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("transaction[%s]: %w", doc.ID, err)
		}
		sales = append(sales, sale)
	}

	return sales, nil
}

func (d transactionDocument) toDomain() (domain.SaleRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("uuid.Parse: %w", err)
	}

	cur, err := currency.ParseISO(d.Currency)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("currency[%s] is not valid: %w", d.Currency, err)
	}

	method, err := domain.ParsePaymentMethod(d.PaymentMethod)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("domain.ParsePaymentMethod: %w", err)
	}

	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	lines := make([]domain.SaleLine, 0, len(d.Items))
	for _, item := range d.Items {
		unitPrice, err := fromDecimal128(item.UnitPrice)
		if err != nil {
			return domain.SaleRecord{}, err
		}
		subtotal, err := fromDecimal128(item.Subtotal)
		if err != nil {
			return domain.SaleRecord{}, err
		}

		lines = append(lines, domain.SaleLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   domain.NewMoney(unitPrice, cur),
			Subtotal:    domain.NewMoney(subtotal, cur),
		})
	}

	return domain.SaleRecord{
		ID:            id,
		PaymentMethod: method,
		CreatedAt:     d.CreatedAt,
		Total:         domain.NewMoney(total, cur),
		Lines:         lines,
	}, nil
}
