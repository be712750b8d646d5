package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/deppfellow/shop-microservices/internal/config"
)

func TestNewLoggerWithServiceLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		environment string
		want        zerolog.Level
	}{
		{"explicit debug", "debug", "development", zerolog.DebugLevel},
		{"explicit warn", "warn", "production", zerolog.WarnLevel},
		{"explicit error", "error", "production", zerolog.ErrorLevel},
		{"production default", "", "production", zerolog.InfoLevel},
		{"development default", "", "development", zerolog.DebugLevel},
		{"unknown level", "verbose", "development", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultObservabilityConfig()
			cfg.Logging.Level = tt.level
			cfg.Environment = tt.environment

			l := NewLoggerWithService(cfg, nil)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestLoggerServiceWithoutLicenseKey(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.ServiceName = string(config.OrderService)
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"
	cfg.NewRelic.AppLogForwardingEnabled = true

	service := NewLoggerService(cfg)
	assert.Nil(t, service.GetApplication())
	service.Shutdown()

	l := NewLoggerWithService(cfg, service)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	l := NewLoggerWithService(cfg, nil)
	assert.Equal(t, l, WithTraceContext(l, nil))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, 6, GetPgxTraceLogLevel(zerolog.TraceLevel))
	assert.Equal(t, 5, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, 4, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, 3, GetPgxTraceLogLevel(zerolog.WarnLevel))
	assert.Equal(t, 2, GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, 1, GetPgxTraceLogLevel(zerolog.Disabled))
}
