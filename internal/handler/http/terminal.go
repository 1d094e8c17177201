package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/session"
)

// TerminalHandler serves the cart and checkout of one terminal per request.
type TerminalHandler struct {
	terminals *session.Service
	logger    *slog.Logger
}

func NewTerminalHandler(terminals *session.Service, logger *slog.Logger) *TerminalHandler {
	return &TerminalHandler{
		terminals: terminals,
		logger:    logger,
	}
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=100"`
	Quantity  *int   `json:"quantity" validate:"required"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// GetCart handles GET /api/v1/terminals/{terminalID}/cart
func (h *TerminalHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.terminals.Cart(r.Context(), chi.URLParam(r, "terminalID"))
	h.writeCart(w, r, view, err)
}

// ClearCart handles DELETE /api/v1/terminals/{terminalID}/cart
func (h *TerminalHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.terminals.Clear(r.Context(), chi.URLParam(r, "terminalID"))
	h.writeCart(w, r, view, err)
}

// AddItem handles POST /api/v1/terminals/{terminalID}/cart/items
func (h *TerminalHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.terminals.AddItem(r.Context(), chi.URLParam(r, "terminalID"), req.ProductID, *req.Quantity)
	h.writeCart(w, r, view, err)
}

// SetQuantity handles PUT /api/v1/terminals/{terminalID}/cart/items/{productID}
func (h *TerminalHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.terminals.SetQuantity(r.Context(),
		chi.URLParam(r, "terminalID"), chi.URLParam(r, "productID"), *req.Quantity)
	h.writeCart(w, r, view, err)
}

// RemoveItem handles DELETE /api/v1/terminals/{terminalID}/cart/items/{productID}
func (h *TerminalHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.terminals.RemoveItem(r.Context(), chi.URLParam(r, "terminalID"), chi.URLParam(r, "productID"))
	h.writeCart(w, r, view, err)
}

// Checkout handles POST /api/v1/terminals/{terminalID}/checkout
func (h *TerminalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	sale, err := h.terminals.Checkout(r.Context(), chi.URLParam(r, "terminalID"), method)
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, Response{Data: sale})
}

func (h *TerminalHandler) writeCart(w http.ResponseWriter, r *http.Request, view session.CartView, err error) {
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Data: view})
}
