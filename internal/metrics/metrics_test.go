package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsolatedRegistries(t *testing.T) {
	a := New("order-service")
	b := New("product-service")

	a.OrderPlaced()
	a.OrderPlaced()
	b.ProductCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.ordersPlaced))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ordersPlaced))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.productsCreated))
}

func TestObserveHTTP(t *testing.T) {
	m := New("product-service")

	m.ObserveHTTP(http.MethodPost, "/api/product", http.StatusCreated, 15*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "/api/product", http.StatusCreated, 5*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/product", http.StatusOK, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/product", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/product", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderPlaced()
		m.ProductCreated()
		m.OrderEvent("logged")
		m.RateLimitHit()
		m.HealthCheckFailed("redis")
		m.ObserveHTTP("GET", "/", 200, time.Second)
	})
}

func TestHandlerExposesSeries(t *testing.T) {
	m := New("order-service")
	m.OrderPlaced()
	m.OrderEvent("published")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `orders_placed_total{service="order-service"} 1`)
	assert.Contains(t, string(body), `order_events_published_total{result="published",service="order-service"} 1`)
}

func TestBusinessCountersBelongToTheirService(t *testing.T) {
	orders := New("order-service")
	products := New("product-service")

	count := func(m *Metrics, name string) int {
		n, err := testutil.GatherAndCount(m.Registry(), name)
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, 1, count(orders, "orders_placed_total"))
	assert.Equal(t, 0, count(orders, "products_created_total"))
	assert.Equal(t, 1, count(products, "products_created_total"))
	assert.Equal(t, 0, count(products, "orders_placed_total"))
	assert.Equal(t, 0, count(products, "order_events_published_total"))
}
