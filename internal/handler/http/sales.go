package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/smartpos/internal/port"
)

const (
	defaultSalesLimit = 50
	maxSalesLimit     = 500
)

type SalesHandler struct {
	sales  port.SaleRepository
	logger *slog.Logger
}

func NewSalesHandler(sales port.SaleRepository, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		sales:  sales,
		logger: logger,
	}
}

// ListSales handles GET /api/v1/sales[?limit=]
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit := defaultSalesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSalesLimit {
			writeBadRequest(w, "INVALID_PARAMETER", "limit must be between 1 and "+strconv.Itoa(maxSalesLimit))
			return
		}
		limit = n
	}

	sales, err := h.sales.ListSales(r.Context(), limit)
	if err != nil {
		WriteError(w, r, storeError("list sales", err), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Data: sales})
}

// GetSale handles GET /api/v1/sales/{id}
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")

	id, err := uuid.Parse(param)
	if err != nil {
		writeBadRequest(w, "INVALID_PARAMETER", "invalid sale id: "+param)
		return
	}

	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		WriteError(w, r, storeError("get sale", err), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Data: sale})
}
