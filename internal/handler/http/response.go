package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/smartpos/internal/domain"
	"github.com/nikolayk812/smartpos/internal/logger"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Details   map[string]any    `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps domain errors onto status codes:
// validation 400, not found 404, insufficient stock 409, store failure 503,
// partial commit and anything unknown 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, l *slog.Logger) {
	ctx := r.Context()
	resp := &ErrorResponse{RequestID: logger.CorrelationIDFromContext(ctx)}
	status := http.StatusInternalServerError

	var (
		partialErr *domain.PartialCommitError
		stockErr   *domain.InsufficientStockError
		nfErr      *domain.NotFoundError
	)

	switch {
	case errors.As(err, &partialErr):
		resp.Code = "PARTIAL_COMMIT"
		resp.Message = "checkout failed and stock could not be fully restored"
		uncompensated := make(map[string]int, len(partialErr.Uncompensated))
		for _, adj := range partialErr.Uncompensated {
			uncompensated[adj.ProductID] += adj.Quantity
		}
		resp.Details = map[string]any{
			"sale_id":       partialErr.SaleID.String(),
			"uncompensated": uncompensated,
		}
	case errors.As(err, &stockErr):
		status = http.StatusConflict
		resp.Code = "INSUFFICIENT_STOCK"
		resp.Message = stockErr.Error()
		resp.Details = map[string]any{
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		}
	case errors.As(err, &nfErr):
		status = http.StatusNotFound
		resp.Code = "NOT_FOUND"
		resp.Message = nfErr.Error()
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		resp.Code = "VALIDATION_ERROR"
		resp.Message = err.Error()
	case errors.Is(err, domain.ErrPersistence):
		status = http.StatusServiceUnavailable
		resp.Code = "STORE_UNAVAILABLE"
		resp.Message = "a backing store is unavailable, retry later"
	default:
		resp.Code = "INTERNAL_ERROR"
		resp.Message = "an internal error occurred"
	}

	if status >= http.StatusInternalServerError {
		logger.WithContext(ctx, l).ErrorContext(ctx, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("code", resp.Code),
			slog.String("error", err.Error()),
		)
	}

	WriteJSON(w, status, Response{Error: resp})
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: code, Message: message},
	})
}
