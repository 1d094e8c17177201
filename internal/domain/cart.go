package domain

import (
	"slices"

	"golang.org/x/text/currency"
)

// CartLine references a product by identifier. QuotedPrice is the price shown
// when the line was added; checkout never charges it and re-resolves the
// product against the catalog instead.
type CartLine struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	QuotedPrice Money  `json:"quoted_price"`
}

func (l CartLine) Subtotal() Money {
	return l.QuotedPrice.Mul(l.Quantity)
}

// Cart is the transient set of lines for one shopping session. Lines are unique
// by product ID, always have a positive quantity, and the total is recomputed
// after every mutation. A Cart is not safe for concurrent use; the session
// owning it serializes access.
type Cart struct {
	currency currency.Unit
	lines    []CartLine
	total    Money
}

func NewCart(cur currency.Unit) *Cart {
	return &Cart{
		currency: cur,
		total:    ZeroMoney(cur),
	}
}

func (c *Cart) Currency() currency.Unit {
	return c.currency
}

// AddItem adds quantity to the product's line; quantity may be negative. A line
// whose quantity drops to zero or below is removed. A new line is only created
// for a positive quantity.
func (c *Cart) AddItem(product Product, quantity int) error {
	if i := c.index(product.ID); i >= 0 {
		c.setLineQuantity(i, c.lines[i].Quantity+quantity)
		c.recompute()
		return nil
	}

	if quantity <= 0 {
		return nil
	}

	if product.ID == "" {
		return NewValidationError("product id is empty")
	}

	if product.Price.Currency != c.currency {
		return NewValidationError("product[%s] is priced in %s, cart is in %s",
			product.ID, product.Price.Currency, c.currency)
	}

	c.lines = append(c.lines, CartLine{
		ProductID:   product.ID,
		Quantity:    quantity,
		QuotedPrice: product.Price,
	})
	c.recompute()

	return nil
}

// SetQuantity overwrites the quantity of an existing line; zero or below removes
// it. Absent lines are left alone.
func (c *Cart) SetQuantity(productID string, quantity int) {
	i := c.index(productID)
	if i < 0 {
		return
	}

	c.setLineQuantity(i, quantity)
	c.recompute()
}

func (c *Cart) RemoveItem(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}

	c.lines = slices.Delete(c.lines, i, i+1)
	c.recompute()
}

func (c *Cart) Clear() {
	c.lines = nil
	c.total = ZeroMoney(c.currency)
}

func (c *Cart) Total() Money {
	return c.total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []CartLine {
	return slices.Clone(c.lines)
}

func (c *Cart) Line(productID string) (CartLine, bool) {
	i := c.index(productID)
	if i < 0 {
		return CartLine{}, false
	}
	return c.lines[i], true
}

func (c *Cart) Quantity(productID string) int {
	line, _ := c.Line(productID)
	return line.Quantity
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) index(productID string) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool {
		return l.ProductID == productID
	})
}

func (c *Cart) setLineQuantity(i, quantity int) {
	if quantity <= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		return
	}
	c.lines[i].Quantity = quantity
}

func (c *Cart) recompute() {
	total := ZeroMoney(c.currency)
	for _, line := range c.lines {
		total.Amount = total.Amount.Add(line.Subtotal().Amount)
	}
	c.total = total
}
