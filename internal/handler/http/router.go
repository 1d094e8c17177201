package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Catalog   *CatalogHandler
	Terminals *TerminalHandler
	Sales     *SalesHandler
	Metrics   *HTTPMetrics
	Gatherer  prometheus.Gatherer
	Logger    *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery(cfg.Logger))
	r.Use(RequestLogging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, Response{Data: map[string]string{"status": "ok"}})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cfg.Catalog.ListProducts)
		r.Get("/products/{id}", cfg.Catalog.GetProduct)
		r.Put("/products/{id}", cfg.Catalog.UpsertProduct)
		r.Delete("/products/{id}", cfg.Catalog.DeleteProduct)
		r.Get("/categories", cfg.Catalog.ListCategories)

		r.Route("/terminals/{terminalID}", func(r chi.Router) {
			r.Use(terminalContext)

			r.Get("/cart", cfg.Terminals.GetCart)
			r.Delete("/cart", cfg.Terminals.ClearCart)
			r.Post("/cart/items", cfg.Terminals.AddItem)
			r.Put("/cart/items/{productID}", cfg.Terminals.SetQuantity)
			r.Delete("/cart/items/{productID}", cfg.Terminals.RemoveItem)
			r.Post("/checkout", cfg.Terminals.Checkout)
		})

		r.Get("/sales", cfg.Sales.ListSales)
		r.Get("/sales/{id}", cfg.Sales.GetSale)
	})

	return r
}
