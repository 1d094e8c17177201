package mongodb

import (
	"fmt"
	"time"

	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/currency"
)

type productDocument struct {
	ID            string               `bson:"_id"`
	Name          string               `bson:"name"`
	PriceAmount   primitive.Decimal128 `bson:"price_amount"`
	PriceCurrency string               `bson:"price_currency"`
	Stock         int                  `bson:"stock"`
	CategoryID    string               `bson:"category_id"`
	Description   string               `bson:"description,omitempty"`
	ImageRef      string               `bson:"image_ref,omitempty"`
}

type categoryDocument struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type transactionDocument struct {
	ID            string                    `bson:"_id"`
	PaymentMethod string                    `bson:"payment_method"`
	TotalAmount   primitive.Decimal128      `bson:"total_amount"`
	Currency      string                    `bson:"currency"`
	CreatedAt     time.Time                 `bson:"created_at"`
	Items         []transactionItemDocument `bson:"items"`
}

type transactionItemDocument struct {
	ProductID   string               `bson:"product_id"`
	ProductName string               `bson:"product_name"`
	Quantity    int                  `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
	Subtotal    primitive.Decimal128 `bson:"subtotal"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	dec, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("primitive.ParseDecimal128[%s]: %w", d, err)
	}
	return dec, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	dec, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decimal.NewFromString[%s]: %w", d, err)
	}
	return dec, nil
}

func newProductDocument(p domain.Product) (productDocument, error) {
	amount, err := toDecimal128(p.Price.Amount)
	if err != nil {
		return productDocument{}, err
	}

	return productDocument{
		ID:            p.ID,
		Name:          p.Name,
		PriceAmount:   amount,
		PriceCurrency: p.Price.Currency.String(),
		Stock:         p.Stock,
		CategoryID:    p.CategoryID,
		Description:   p.Description,
		ImageRef:      p.ImageRef,
	}, nil
}

func (d productDocument) toDomain() (domain.Product, error) {
	cur, err := currency.ParseISO(d.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", d.PriceCurrency, err)
	}

	amount, err := fromDecimal128(d.PriceAmount)
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Price:       domain.NewMoney(amount, cur),
		Stock:       d.Stock,
		CategoryID:  d.CategoryID,
		Description: d.Description,
		ImageRef:    d.ImageRef,
	}, nil
}

func newTransactionDocument(sale domain.SaleRecord) (transactionDocument, error) {
	total, err := toDecimal128(sale.Total.Amount)
	if err != nil {
		return transactionDocument{}, err
	}

	items := make([]transactionItemDocument, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		unitPrice, err := toDecimal128(line.UnitPrice.Amount)
		if err != nil {
			return transactionDocument{}, err
		}
		subtotal, err := toDecimal128(line.Subtotal.Amount)
		if err != nil {
			return transactionDocument{}, err
		}

		items = append(items, transactionItemDocument{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
		})
	}

	return transactionDocument{
		ID:            sale.ID.String(),
		PaymentMethod: string(sale.PaymentMethod),
		TotalAmount:   total,
		Currency:      sale.Total.Currency.String(),
		CreatedAt:     sale.CreatedAt,
		Items:         items,
	}, nil
}
