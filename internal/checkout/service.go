package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/nikolayk812/smartpos/internal/checkout"

	defaultPublishTimeout = 3 * time.Second
)

type Catalog interface {
	ProductGetter
	DecrementStock(ctx context.Context, productID string, quantity int) (int, error)
	IncrementStock(ctx context.Context, productID string, quantity int) (int, error)
}

type Ledger interface {
	AppendSale(ctx context.Context, sale domain.SaleRecord) error
}

// Publisher announces committed sales. Publishing happens after commit and its
// failure never fails the checkout.
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, sale domain.SaleRecord) error
}

// Service is the only place where inventory and sale history change together.
//
// A checkout validates the cart against the catalog, decrements stock line by
// line through the catalog's atomic conditional decrement, then appends the
// sale to the ledger. Any failure after the first decrement is undone with
// compensating increments; if those fail too the caller gets a
// *domain.PartialCommitError.
type Service struct {
	catalog   Catalog
	ledger    Ledger
	validator *StockValidator
	publisher Publisher
	pubWait   time.Duration
	metrics   *Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() (uuid.UUID, error)
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithPublishTimeout bounds how long a committed sale waits on the publisher.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) { s.pubWait = d }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(catalog Catalog, ledger Ledger, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		ledger:    ledger,
		validator: NewStockValidator(catalog),
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewV7,
		pubWait:   defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout commits the cart and then publishes the committed sale.
func (s *Service) Checkout(ctx context.Context, cart *domain.Cart, method domain.PaymentMethod) (domain.SaleRecord, error) {
	sale, err := s.Commit(ctx, cart, method)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	s.Publish(ctx, sale)

	return sale, nil
}

// Commit turns the cart into a persisted sale and decremented stock. On
// success the cart is cleared and the sale is returned as the invoice. On
// failure the cart is left as it was. Commit never publishes, so callers
// holding a lock on the cart can release it before calling Publish.
func (s *Service) Commit(ctx context.Context, cart *domain.Cart, method domain.PaymentMethod) (domain.SaleRecord, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Commit",
		trace.WithAttributes(attribute.String("payment_method", method.String())))
	defer span.End()

	start := time.Now()
	a := newAttempt()
	log := logger.WithContext(ctx, s.logger)

	sale, err := s.run(ctx, a, cart, method)
	if err != nil {
		a.fail()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WarnContext(ctx, "checkout failed",
			slog.String("failed_in", string(a.failedIn)),
			slog.String("payment_method", method.String()),
			slog.String("error", err.Error()),
		)
	}
	s.metrics.observeAttempt(a, time.Since(start))

	if err != nil {
		return domain.SaleRecord{}, err
	}

	span.SetAttributes(attribute.String("sale_id", sale.ID.String()))
	log.InfoContext(ctx, "checkout committed",
		slog.String("sale_id", sale.ID.String()),
		slog.String("payment_method", method.String()),
		slog.String("total", sale.Total.String()),
		slog.Int("lines", len(sale.Lines)),
	)

	return sale, nil
}

func (s *Service) run(ctx context.Context, a *attempt, cart *domain.Cart, method domain.PaymentMethod) (domain.SaleRecord, error) {
	if cart == nil || cart.IsEmpty() {
		return domain.SaleRecord{}, domain.NewValidationError("cart is empty")
	}
	if !method.Valid() {
		return domain.SaleRecord{}, domain.NewValidationError("payment method %q is not supported", method)
	}

	a.advance(StateValidating)
	lines, err := s.validator.Validate(ctx, cart)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	saleID, err := s.newID()
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("newID: %w", err)
	}

	saleLines := make([]domain.SaleLine, 0, len(lines))
	for _, line := range lines {
		saleLines = append(saleLines, line.SaleLine())
	}

	sale, err := domain.NewSaleRecord(saleID, method, s.now(), cart.Currency(), saleLines)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	a.advance(StateDecrementing)
	applied, err := s.decrement(ctx, lines)
	if err != nil {
		return domain.SaleRecord{}, s.rollback(ctx, saleID, applied, err)
	}

	a.advance(StatePersisting)
	if err := s.ledger.AppendSale(ctx, sale); err != nil {
		var perr *domain.PersistenceError
		if !errors.As(err, &perr) {
			err = &domain.PersistenceError{Op: "append sale", Err: err}
		}
		return domain.SaleRecord{}, s.rollback(ctx, saleID, applied, err)
	}

	a.advance(StateCommitted)
	cart.Clear()

	return sale, nil
}

// decrement applies the atomic decrement per line, stopping at the first
// failure. It returns the adjustments that did take effect.
func (s *Service) decrement(ctx context.Context, lines []ValidatedLine) ([]domain.StockAdjustment, error) {
	applied := make([]domain.StockAdjustment, 0, len(lines))

	for _, line := range lines {
		_, err := s.catalog.DecrementStock(ctx, line.Product.ID, line.Quantity)
		if err != nil {
			if !errors.Is(err, domain.ErrInsufficientStock) && !errors.Is(err, domain.ErrNotFound) {
				err = &domain.PersistenceError{Op: "decrement stock " + line.Product.ID, Err: err}
			}
			return applied, err
		}

		applied = append(applied, domain.StockAdjustment{ProductID: line.Product.ID, Quantity: line.Quantity})
	}

	return applied, nil
}

// rollback restores applied decrements in reverse order. Compensation runs even
// if ctx is already canceled, otherwise a client disconnect would strand stock.
func (s *Service) rollback(ctx context.Context, saleID uuid.UUID, applied []domain.StockAdjustment, cause error) error {
	if len(applied) == 0 {
		return cause
	}

	ctx = context.WithoutCancel(ctx)

	var (
		uncompensated []domain.StockAdjustment
		errs          []error
	)
	for i := len(applied) - 1; i >= 0; i-- {
		adj := applied[i]
		if _, err := s.catalog.IncrementStock(ctx, adj.ProductID, adj.Quantity); err != nil {
			s.metrics.observeCompensation(false)
			uncompensated = append(uncompensated, adj)
			errs = append(errs, fmt.Errorf("catalog.IncrementStock[%s]: %w", adj.ProductID, err))
			continue
		}
		s.metrics.observeCompensation(true)
	}

	if len(uncompensated) == 0 {
		return cause
	}

	s.metrics.observePartialCommit()
	logger.WithContext(ctx, s.logger).ErrorContext(ctx, "checkout compensation failed, stock left decremented",
		slog.String("sale_id", saleID.String()),
		slog.Any("uncompensated", uncompensated),
		slog.String("cause", cause.Error()),
	)

	return &domain.PartialCommitError{
		SaleID:          saleID,
		Cause:           cause,
		CompensationErr: errors.Join(errs...),
		Uncompensated:   uncompensated,
	}
}

// Publish announces a committed sale. Failures are logged only. The sale is
// already committed, so the request being canceled does not stop the publish,
// while the publish timeout bounds how long the caller waits.
func (s *Service) Publish(ctx context.Context, sale domain.SaleRecord) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.pubWait)
	defer cancel()

	if err := s.publisher.PublishSaleCompleted(ctx, sale); err != nil {
		logger.WithContext(ctx, s.logger).ErrorContext(ctx, "failed to publish sale.completed event",
			slog.String("sale_id", sale.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
