package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shop-microservices/internal/config"
	"github.com/deppfellow/shop-microservices/internal/metrics"
	"github.com/deppfellow/shop-microservices/internal/server"
)

func newHealthServer() *server.Server {
	logger := zerolog.Nop()
	obs := config.DefaultObservabilityConfig()
	obs.ServiceName = "order-service"
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: obs,
		},
		Logger:  &logger,
		Metrics: metrics.New("order-service"),
	}
}

func runHealth(t *testing.T, h *HealthHandler) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)

	require.NoError(t, h.CheckHealth(c))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestCheckHealthNoDependencies(t *testing.T) {
	h := NewHealthHandler(newHealthServer())

	code, body := runHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Empty(t, body["checks"])
}

func TestCheckHealthAllPassing(t *testing.T) {
	h := NewHealthHandler(newHealthServer())
	h.checks = []dependencyCheck{
		{name: "database", ping: func(context.Context) error { return nil }},
		{name: "redis", ping: func(context.Context) error { return nil }},
	}

	code, body := runHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["database"].(map[string]interface{})["status"])
	assert.Equal(t, "healthy", checks["redis"].(map[string]interface{})["status"])
}

func TestCheckHealthFailingDependency(t *testing.T) {
	s := newHealthServer()
	h := NewHealthHandler(s)
	h.checks = []dependencyCheck{
		{name: "database", ping: func(context.Context) error { return nil }},
		{name: "redis", ping: func(context.Context) error { return errors.New("dial tcp: connection refused") }},
	}

	code, body := runHealth(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])

	redis := body["checks"].(map[string]interface{})["redis"].(map[string]interface{})
	assert.Equal(t, "unhealthy", redis["status"])
	assert.Equal(t, "dial tcp: connection refused", redis["error"])

	problems, err := testutil.GatherAndCount(s.Metrics.Registry(), "health_check_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, problems)
}
