package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type CatalogHandler struct {
	catalog  port.CatalogRepository
	currency currency.Unit
	logger   *slog.Logger
}

func NewCatalogHandler(catalog port.CatalogRepository, cur currency.Unit, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		currency: cur,
		logger:   logger,
	}
}

// UpsertProductRequest is the body of PUT /products/{id}. Currency defaults to
// the store currency.
type UpsertProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Price       string `json:"price" validate:"required,numeric"`
	Currency    string `json:"currency" validate:"omitempty,len=3,uppercase"`
	Stock       *int   `json:"stock" validate:"required,gte=0"`
	CategoryID  string `json:"category_id" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
	ImageRef    string `json:"image_ref" validate:"max=500"`
}

// ListProducts handles GET /api/v1/products[?category=]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, r, storeError("list products", err), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Data: products})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, storeError("get product", err), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Data: product})
}

// UpsertProduct handles PUT /api/v1/products/{id}
func (h *CatalogHandler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req UpsertProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "price is not a decimal number")
		return
	}

	cur := h.currency
	if req.Currency != "" {
		if cur, err = currency.ParseISO(req.Currency); err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "currency is not a valid ISO 4217 code")
			return
		}
	}

	product := domain.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Price:       domain.NewMoney(amount, cur),
		Stock:       *req.Stock,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		ImageRef:    req.ImageRef,
	}

	if err := h.catalog.UpsertProduct(r.Context(), product); err != nil {
		WriteError(w, r, storeError("upsert product", err), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.catalog.DeleteProduct(r.Context(), id)
	if err != nil {
		WriteError(w, r, storeError("delete product", err), h.logger)
		return
	}
	if !deleted {
		WriteError(w, r, domain.NewProductNotFound(id), h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		WriteError(w, r, storeError("list categories", err), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Data: categories})
}
