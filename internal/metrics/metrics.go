// Package metrics exposes Prometheus collectors for the HTTP surface and
// order processing.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// Metrics groups the collectors registered for one server.
type Metrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge

	OrdersTotal     *prometheus.CounterVec
	OrderDuration   prometheus.Histogram
	OrderFinalTotal prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers collectors under namespace. A nil reg uses a fresh registry.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   defaultBuckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_processed_total",
			Help:      "Count of order processing outcomes.",
		}, []string{"outcome"}),
		OrderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_processing_duration_ms",
			Help:      "End-to-end order processing latency in milliseconds.",
			Buckets:   defaultBuckets,
		}),
		OrderFinalTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_final_amount_total",
			Help:      "Sum of final amounts across confirmed orders.",
		}),
		gatherer: reg,
	}

	m.ReqTotal = mustRegister(reg, m.ReqTotal)
	m.ReqDur = mustRegister(reg, m.ReqDur)
	m.InFlight = mustRegister(reg, m.InFlight)
	m.OrdersTotal = mustRegister(reg, m.OrdersTotal)
	m.OrderDuration = mustRegister(reg, m.OrderDuration)
	m.OrderFinalTotal = mustRegister(reg, m.OrderFinalTotal)
	return m
}

// mustRegister returns the already registered collector when one with the
// same descriptor exists.
func mustRegister[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
			return c
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// ObserveOrder records one processed order. Safe on a nil receiver.
func (m *Metrics) ObserveOrder(outcome string, finalAmount float64, d time.Duration) {
	if m == nil {
		return
	}
	m.OrdersTotal.WithLabelValues(outcome).Inc()
	m.OrderDuration.Observe(DurationMillis(d))
	if finalAmount > 0 {
		m.OrderFinalTotal.Add(finalAmount)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests and their latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		m.InFlight.Inc()
		start := time.Now()
		defer func() {
			m.InFlight.Dec()

			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}
			if route == "" {
				route = "unknown"
			}

			m.ReqTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
			m.ReqDur.WithLabelValues(r.Method, route).Observe(DurationMillis(time.Since(start)))
		}()

		next.ServeHTTP(recorder, r)
	})
}
