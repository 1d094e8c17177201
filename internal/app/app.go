package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/smartpos/internal/checkout"
	"github.com/nikolayk812/smartpos/internal/config"
	"github.com/nikolayk812/smartpos/internal/event"
	handler "github.com/nikolayk812/smartpos/internal/handler/http"
	"github.com/nikolayk812/smartpos/internal/port"
	"github.com/nikolayk812/smartpos/internal/repository"
	"github.com/nikolayk812/smartpos/internal/repository/memory"
	"github.com/nikolayk812/smartpos/internal/repository/mongodb"
	"github.com/nikolayk812/smartpos/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App wires together all dependencies and runs the SmartPOS service.
type App struct {
	cfg        config.Config
	logger     *slog.Logger
	httpServer *http.Server
	closers    []closer
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

type stores struct {
	catalog port.CatalogRepository
	ledger  port.SaleRepository
	closers []closer
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := cfg.CurrencyUnit()
	if err != nil {
		return nil, err
	}

	st, err := newStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	closers := st.closers

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []checkout.Option{checkout.WithMetrics(checkout.NewMetrics(reg))}

	if cfg.KafkaEnabled() {
		producer := event.NewProducer(event.NewWriter(cfg.KafkaBrokers), cfg.KafkaSaleTopic, cfg.ServiceName, logger)
		opts = append(opts, checkout.WithPublisher(producer))
		closers = append(closers, closer{name: "kafka producer", fn: func(context.Context) error { return producer.Close() }})
		logger.Info("kafka producer initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaSaleTopic),
		)
	}

	checkouts := checkout.NewService(st.catalog, st.ledger, logger, opts...)
	terminals := session.NewService(session.NewRegistry(cur), st.catalog, checkouts)

	router := handler.NewRouter(handler.RouterConfig{
		Catalog:   handler.NewCatalogHandler(st.catalog, cur, logger),
		Terminals: handler.NewTerminalHandler(terminals, logger),
		Sales:     handler.NewSalesHandler(st.ledger, logger),
		Metrics:   handler.NewHTTPMetrics(reg),
		Gatherer:  reg,
		Logger:    logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		closers:    closers,
	}, nil
}

func newStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return stores{}, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("pool.Ping: %w", err)
		}

		catalog, err := repository.NewCatalog(pool)
		if err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("repository.NewCatalog: %w", err)
		}
		ledger, err := repository.NewSales(pool)
		if err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("repository.NewSales: %w", err)
		}

		logger.Info("connected to PostgreSQL")

		return stores{
			catalog: catalog,
			ledger:  ledger,
			closers: []closer{{name: "postgres", fn: func(context.Context) error { pool.Close(); return nil }}},
		}, nil

	case config.StoreMongo:
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return stores{}, fmt.Errorf("mongodb.Connect: %w", err)
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Client().Disconnect(ctx)
			return stores{}, fmt.Errorf("mongodb.EnsureIndexes: %w", err)
		}

		logger.Info("connected to MongoDB", slog.String("database", cfg.MongoDatabase))

		return stores{
			catalog: mongodb.NewCatalog(db),
			ledger:  mongodb.NewLedger(db),
			closers: []closer{{name: "mongodb", fn: func(ctx context.Context) error { return db.Client().Disconnect(ctx) }}},
		}, nil

	default:
		logger.Warn("using in-memory stores, data is lost on restart")

		return stores{
			catalog: memory.NewCatalog(),
			ledger:  memory.NewLedger(),
		}, nil
	}
}

// Handler exposes the HTTP router.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.Shutdown()
		return err
	}

	a.Shutdown()
	return nil
}

// Shutdown gracefully stops the server, then closes the stores and the producer.
func (a *App) Shutdown() {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	for _, c := range a.closers {
		if err := c.fn(shutdownCtx); err != nil {
			a.logger.Error("close error", slog.String("component", c.name), slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
}
