package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/smartpos/internal/domain"
)

type ProductGetter interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

// Checkouter commits a cart and announces the committed sale in two steps, so
// the announcement can happen after the session is released.
type Checkouter interface {
	Commit(ctx context.Context, cart *domain.Cart, method domain.PaymentMethod) (domain.SaleRecord, error)
	Publish(ctx context.Context, sale domain.SaleRecord)
}

// CartView is a read-only copy of a session's cart.
type CartView struct {
	TerminalID string            `json:"terminal_id"`
	Lines      []domain.CartLine `json:"lines"`
	Total      domain.Money      `json:"total"`
	ItemCount  int               `json:"item_count"`
}

func newCartView(terminalID string, cart *domain.Cart) CartView {
	lines := cart.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}

	var count int
	for _, line := range lines {
		count += line.Quantity
	}

	return CartView{
		TerminalID: terminalID,
		Lines:      lines,
		Total:      cart.Total(),
		ItemCount:  count,
	}
}

// Service runs terminal operations against the terminal's own cart.
type Service struct {
	registry *Registry
	catalog  ProductGetter
	checkout Checkouter
}

func NewService(registry *Registry, catalog ProductGetter, checkout Checkouter) *Service {
	return &Service{
		registry: registry,
		catalog:  catalog,
		checkout: checkout,
	}
}

// AddItem resolves the product in the catalog and adds quantity to its line.
// A negative quantity takes items back off the line.
func (s *Service) AddItem(ctx context.Context, terminalID, productID string, quantity int) (CartView, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return CartView{}, err
		}
		return CartView{}, &domain.PersistenceError{Op: "get product " + productID, Err: err}
	}

	return s.mutate(terminalID, func(cart *domain.Cart) error {
		return cart.AddItem(product, quantity)
	})
}

func (s *Service) SetQuantity(_ context.Context, terminalID, productID string, quantity int) (CartView, error) {
	return s.mutate(terminalID, func(cart *domain.Cart) error {
		cart.SetQuantity(productID, quantity)
		return nil
	})
}

func (s *Service) RemoveItem(_ context.Context, terminalID, productID string) (CartView, error) {
	return s.mutate(terminalID, func(cart *domain.Cart) error {
		cart.RemoveItem(productID)
		return nil
	})
}

func (s *Service) Clear(_ context.Context, terminalID string) (CartView, error) {
	return s.mutate(terminalID, func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
}

// Cart returns the terminal's cart, opening an empty one if needed.
func (s *Service) Cart(_ context.Context, terminalID string) (CartView, error) {
	return s.mutate(terminalID, func(*domain.Cart) error { return nil })
}

// Checkout commits the terminal's cart while holding the session, so the cart
// cannot change between validation and clearing. The sale is published after
// the session is released.
func (s *Service) Checkout(ctx context.Context, terminalID string, method domain.PaymentMethod) (domain.SaleRecord, error) {
	sess, err := s.registry.Get(terminalID)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	var sale domain.SaleRecord
	err = sess.Do(func(cart *domain.Cart) error {
		var err error
		sale, err = s.checkout.Commit(ctx, cart, method)
		return err
	})
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("checkout terminal[%s]: %w", terminalID, err)
	}

	s.checkout.Publish(ctx, sale)

	return sale, nil
}

func (s *Service) mutate(terminalID string, fn func(cart *domain.Cart) error) (CartView, error) {
	sess, err := s.registry.Open(terminalID)
	if err != nil {
		return CartView{}, err
	}

	var view CartView
	err = sess.Do(func(cart *domain.Cart) error {
		if err := fn(cart); err != nil {
			return err
		}
		view = newCartView(terminalID, cart)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}

	return view, nil
}
