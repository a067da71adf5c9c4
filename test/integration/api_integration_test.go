package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pricebench/internal/catalog"
	"pricebench/internal/handler"
	"pricebench/internal/metrics"
	"pricebench/internal/model"
	"pricebench/internal/repository"
	"pricebench/internal/router"
	"pricebench/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

// setupTestServer wires the production stack against the container: the
// repository lookup behind a Redis cache, Postgres order persistence and the
// chi router.
func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	customerRepo := repository.NewCustomerRepository(testDB.Pool, logger)
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lookup := catalog.NewCachedLookup(catalog.NewRepositoryLookup(customerRepo, productRepo), client, time.Minute, logger)

	m := metrics.New("integration", prometheus.NewRegistry())
	clock := func() time.Time { return time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC) }

	orderService := service.NewOrderService(lookup, orderRepo, clock, m, logger)
	productService := service.NewProductService(productRepo, logger)
	customerService := service.NewCustomerService(lookup, logger)

	return router.New(router.Handlers{
		Order:   handler.NewOrderHandler(orderService, logger),
		Product: handler.NewProductHandler(productService, customerService, logger),
		Health:  handler.NewHealthHandler(testDB.Pool, logger),
	}, testAPIKey, m, logger)
}

func serve(server http.Handler, method, path string, body []byte, withKey bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestCatalogAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/products pages the seeded catalog", func(t *testing.T) {
		w := serve(server, http.MethodGet, "/api/products?limit=5&offset=2", nil, true)
		require.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		require.Len(t, products, 5)
		assert.Equal(t, int64(3), products[0].ID)
		assert.Equal(t, int64(7), products[4].ID)
	})

	t.Run("GET /api/products/{id} returns the seeded product", func(t *testing.T) {
		w := serve(server, http.MethodGet, "/api/products/3", nil, true)
		require.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, catalog.Generate(seedCustomers, seedProducts).Products[2], product)
	})

	t.Run("GET /api/products/{id} returns 404 for unknown product", func(t *testing.T) {
		w := serve(server, http.MethodGet, "/api/products/999", nil, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/customers/{id} returns the seeded customer", func(t *testing.T) {
		w := serve(server, http.MethodGet, "/api/customers/2", nil, true)
		require.Equal(t, http.StatusOK, w.Code)

		var customer model.Customer
		require.NoError(t, json.NewDecoder(w.Body).Decode(&customer))
		assert.Equal(t, catalog.Generate(seedCustomers, seedProducts).Customers[1], customer)
	})

	t.Run("GET /api/products without API key returns 401", func(t *testing.T) {
		w := serve(server, http.MethodGet, "/api/products", nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health pings the database without API key", func(t *testing.T) {
		w := serve(server, http.MethodGet, "/health", nil, false)
		require.Equal(t, http.StatusOK, w.Code)

		var health handler.HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, "up", health.Database)
	})
}

func TestOrderAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("POST /api/process-order persists a priced order", func(t *testing.T) {
		CleanupOrders(t, testDB.Pool)

		body := []byte(`{"customerId": 4, "items": [{"productId": 3, "quantity": 2}, {"productId": 5, "quantity": 1}]}`)
		w := serve(server, http.MethodPost, "/api/process-order", body, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var created model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, model.StatusSuccess, created.Status)
		assert.Equal(t, int64(4), created.CustomerID)

		stored, err := repository.NewOrderRepository(testDB.Pool, zerolog.Nop()).GetByID(context.Background(), created.OrderID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, created.FinalAmount, stored.FinalAmount)
		assert.Equal(t, created.DiscountApplied, stored.DiscountAmount)
		assert.Equal(t, []model.OrderLineItem{{ProductID: 3, Quantity: 2}, {ProductID: 5, Quantity: 1}}, stored.Items)
	})

	t.Run("GET /api/orders/{id} returns the stored order", func(t *testing.T) {
		CleanupOrders(t, testDB.Pool)

		body := []byte(`{"customerId": 4, "items": [{"productId": 3, "quantity": 1}]}`)
		w := serve(server, http.MethodPost, "/api/orders", body, true)
		require.Equal(t, http.StatusOK, w.Code)

		var created model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

		w = serve(server, http.MethodGet, "/api/orders/"+created.OrderID.String(), nil, true)
		require.Equal(t, http.StatusOK, w.Code)

		var order model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
		assert.Equal(t, created.OrderID, order.ID)
		assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	})

	t.Run("Rejected orders are not persisted", func(t *testing.T) {
		CleanupOrders(t, testDB.Pool)

		tests := []struct {
			name           string
			body           string
			expectedStatus int
			expectedCode   string
		}{
			{"Unknown product", `{"customerId": 1, "items": [{"productId": 999, "quantity": 1}]}`, http.StatusNotFound, model.ErrCodeProductNotFound},
			{"Unknown customer", `{"customerId": 999, "items": [{"productId": 1, "quantity": 1}]}`, http.StatusNotFound, model.ErrCodeCustomerNotFound},
			{"Quantity too large", `{"customerId": 1, "items": [{"productId": 1, "quantity": 101}]}`, http.StatusBadRequest, model.ErrCodeValidation},
			{"EU over threshold", `{"customerId": 2, "items": [{"productId": 20, "quantity": 10}]}`, http.StatusUnprocessableEntity, model.ErrCodeRegionalVerification},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := serve(server, http.MethodPost, "/api/process-order", []byte(tt.body), true)
				assert.Equal(t, tt.expectedStatus, w.Code)

				var errResp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
				assert.Equal(t, tt.expectedCode, errResp.Error)
			})
		}

		assert.Equal(t, 0, CountOrders(t, testDB.Pool))
	})

	t.Run("POST /api/process-order without API key returns 401", func(t *testing.T) {
		body := []byte(`{"customerId": 1, "items": [{"productId": 1, "quantity": 1}]}`)
		w := serve(server, http.MethodPost, "/api/process-order", body, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		w := serve(server, http.MethodOptions, "/api/products", nil, false)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}
