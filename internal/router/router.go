package router

import (
	"encoding/json"
	"net/http"

	"pricebench/internal/handler"
	"pricebench/internal/metrics"
	"pricebench/internal/middleware"
	"pricebench/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Order   *handler.OrderHandler
	Product *handler.ProductHandler
	Health  *handler.HealthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// m may be nil, in which case /metrics is not mounted.
func New(h Handlers, apiKey string, m *metrics.Metrics, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Request ID first so every later layer can log it.
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestIDHeader)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(m.Middleware)
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	r.NotFound(jsonError(http.StatusNotFound, model.ErrCodeNotFound, "resource not found"))
	r.MethodNotAllowed(jsonError(http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed"))

	r.Get("/health", h.Health.Check)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Check)

		r.Post("/process-order", h.Order.Process)
		r.Post("/orders", h.Order.Process)
		r.Get("/orders/{id}", h.Order.GetByID)

		r.Get("/products", h.Product.GetAll)
		r.Get("/products/{id}", h.Product.GetByID)
		r.Get("/customers/{id}", h.Product.GetCustomer)
	})

	return r
}

func jsonError(status int, code, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{
			Error:         code,
			Message:       message,
			Status:        model.StatusError,
			CorrelationID: chimw.GetReqID(r.Context()),
		})
	}
}
