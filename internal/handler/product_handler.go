package handler

import (
	"net/http"
	"strconv"
	"time"

	"pricebench/internal/model"
	"pricebench/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles product and customer read requests.
type ProductHandler struct {
	products  service.ProductService
	customers service.CustomerService
	logger    zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products service.ProductService, customers service.CustomerService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products:  products,
		customers: customers,
		logger:    logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := h.queryInt(w, r, "limit", 10, start)
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset", 0, start)
	if !ok {
		return
	}

	products, err := h.products.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, err, start, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := h.pathID(w, r, start)
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, start, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// GetCustomer handles GET /api/customers/{id} requests.
func (h *ProductHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := h.pathID(w, r, start)
	if !ok {
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, start, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (h *ProductHandler) queryInt(w http.ResponseWriter, r *http.Request, name string, def int, start time.Time) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter,
			"invalid "+name+" parameter", map[string]any{"field": name}, start, h.logger)
		return 0, false
	}
	return v, true
}

func (h *ProductHandler) pathID(w http.ResponseWriter, r *http.Request, start time.Time) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter,
			"invalid ID format", map[string]any{"field": "id"}, start, h.logger)
		return 0, false
	}
	return id, true
}
