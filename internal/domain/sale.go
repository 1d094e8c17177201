package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// SaleLine is a snapshot of one sold line. It copies the product name and price
// so later catalog edits never alter a past sale.
type SaleLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	Subtotal    Money  `json:"subtotal"`
}

// SaleRecord is the persisted sale. The invoice returned by checkout is the
// same record.
type SaleRecord struct {
	ID            uuid.UUID     `json:"id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
	Total         Money         `json:"total"`
	Lines         []SaleLine    `json:"lines"`
}

func NewSaleLine(product Product, quantity int) SaleLine {
	return SaleLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		Subtotal:    product.Price.Mul(quantity),
	}
}

// NewSaleRecord copies lines and derives the total from their subtotals.
// All lines must share cur.
func NewSaleRecord(id uuid.UUID, method PaymentMethod, createdAt time.Time, cur currency.Unit, lines []SaleLine) (SaleRecord, error) {
	total := ZeroMoney(cur)
	for _, line := range lines {
		var err error
		total, err = total.Add(line.Subtotal)
		if err != nil {
			return SaleRecord{}, NewValidationError("sale line for product[%s]: %v", line.ProductID, err)
		}
	}

	return SaleRecord{
		ID:            id,
		PaymentMethod: method,
		CreatedAt:     createdAt,
		Total:         total,
		Lines:         slices.Clone(lines),
	}, nil
}

// Clone returns a copy that shares no line storage with s.
func (s SaleRecord) Clone() SaleRecord {
	s.Lines = slices.Clone(s.Lines)
	return s
}

func (s SaleRecord) ItemCount() int {
	var n int
	for _, line := range s.Lines {
		n += line.Quantity
	}
	return n
}
