package checkout

import (
	"context"
	"errors"

	"github.com/nikolayk812/smartpos/internal/domain"
)

type ProductGetter interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

// ValidatedLine pairs a cart quantity with the product as the catalog returned
// it during validation.
type ValidatedLine struct {
	Product  domain.Product
	Quantity int
}

func (l ValidatedLine) SaleLine() domain.SaleLine {
	return domain.NewSaleLine(l.Product, l.Quantity)
}

// StockValidator re-resolves every cart line against the live catalog. Its
// answer is advisory: stock can still change before the decrement, which is
// where the authoritative check happens.
type StockValidator struct {
	catalog ProductGetter
}

func NewStockValidator(catalog ProductGetter) *StockValidator {
	return &StockValidator{catalog: catalog}
}

// Validate returns one ValidatedLine per cart line, in cart order, or the first
// line's failure.
func (v *StockValidator) Validate(ctx context.Context, cart *domain.Cart) ([]ValidatedLine, error) {
	lines := cart.Lines()
	result := make([]ValidatedLine, 0, len(lines))

	for _, line := range lines {
		product, err := v.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			return nil, &domain.PersistenceError{Op: "get product " + line.ProductID, Err: err}
		}

		if product.Price.Currency != cart.Currency() {
			return nil, domain.NewValidationError("product[%s] is priced in %s, cart is in %s",
				product.ID, product.Price.Currency, cart.Currency())
		}

		if line.Quantity > product.Stock {
			return nil, domain.NewInsufficientStock(line.ProductID, line.Quantity, product.Stock)
		}

		result = append(result, ValidatedLine{Product: product, Quantity: line.Quantity})
	}

	return result, nil
}
