package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"pricebench/internal/model"
	"pricebench/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxOrderBodyBytes = 1 << 20

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Process handles POST /api/process-order requests.
func (h *OrderHandler) Process(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req model.OrderRequest
	body := http.MaxBytesReader(w, r.Body, maxOrderBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if ve := service.DecodeValidationError(err); ve != nil {
			writeError(w, r, http.StatusBadRequest, ve.Code(), ve.Error(), ve.Details(), start, h.logger)
			return
		}
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON,
			"request body is not valid JSON", nil, start, h.logger)
		return
	}

	result, err := h.service.ProcessOrder(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, start, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{
		OrderID:          result.OrderID,
		CustomerID:       result.CustomerID,
		TotalAmount:      result.Calculation.TotalAmount,
		DiscountApplied:  result.Calculation.DiscountAmount,
		TaxAmount:        result.Calculation.TaxAmount,
		FinalAmount:      result.Calculation.FinalAmount,
		ProcessingTimeMs: elapsedMs(start),
		Status:           model.StatusSuccess,
	})
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter,
			"invalid order ID format", map[string]any{"field": "id"}, start, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err, start, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
