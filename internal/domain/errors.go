package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPersistence       = errors.New("persistence failed")
	ErrPartialCommit     = errors.New("partial commit")
)

// ValidationError reports a request the engine refuses before touching any store:
// an empty cart, an unknown payment method, a malformed product.
type ValidationError struct {
	Reason string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an identifier that no longer resolves.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewProductNotFound(productID string) *NotFoundError {
	return &NotFoundError{Resource: "product", ID: productID}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s[%s] not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InsufficientStockError carries the live stock so the caller can offer "only N left".
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

// NewInsufficientStock reports a refused decrement. Stores read available
// after the refused write, so a concurrent restock may have raised it; it is
// clamped below requested to stay consistent with the refusal.
func NewInsufficientStock(productID string, requested, available int) *InsufficientStockError {
	available = max(min(available, requested-1), 0)

	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product[%s]: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// PersistenceError wraps a failed catalog or ledger call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// StockAdjustment is a stock change applied to the catalog during checkout.
type StockAdjustment struct {
	ProductID string
	Quantity  int
}

// PartialCommitError means a checkout failed after stock was decremented and
// the compensating increments did not all succeed. Uncompensated lists the
// decrements still in effect.
type PartialCommitError struct {
	SaleID          uuid.UUID
	Cause           error
	CompensationErr error
	Uncompensated   []StockAdjustment
}

func (e *PartialCommitError) Error() string {
	ids := make([]string, 0, len(e.Uncompensated))
	for _, adj := range e.Uncompensated {
		ids = append(ids, fmt.Sprintf("%s x%d", adj.ProductID, adj.Quantity))
	}

	return fmt.Sprintf("partial commit of sale[%s]: %v; uncompensated [%s]: %v",
		e.SaleID, e.Cause, strings.Join(ids, ", "), e.CompensationErr)
}

func (e *PartialCommitError) Unwrap() []error {
	return []error{e.Cause, e.CompensationErr}
}

func (e *PartialCommitError) Is(target error) bool {
	return target == ErrPartialCommit
}
