// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types and validates
// that required values are present before the service starts.
//
// Both services share this package. Each one reads its own prefix:
//   - order-service:   ORDER_
//   - product-service: PRODUCT_
//
// Nested keys use "." after the prefix, e.g. ORDER_SERVER.PORT -> server.port.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env
	// before anything here reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Service identifies which microservice is loading configuration.
type Service string

const (
	OrderService   Service = "order-service"
	ProductService Service = "product-service"
)

// EnvPrefix returns the environment variable prefix read by the service.
func (s Service) EnvPrefix() string {
	switch s {
	case OrderService:
		return "ORDER_"
	case ProductService:
		return "PRODUCT_"
	default:
		return strings.ToUpper(strings.ReplaceAll(string(s), "-", "_")) + "_"
	}
}

// Config is the root configuration object for a service.
//
// Store blocks are pointers: a service only carries the blocks it uses.
// The order service needs Database, the product service needs Mongo.
// Redis and Kafka are optional for both.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      *DatabaseConfig      `koanf:"database"`
	Mongo         *MongoConfig         `koanf:"mongo"`
	Redis         *RedisConfig         `koanf:"redis"`
	Kafka         *KafkaConfig         `koanf:"kafka"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// MongoConfig contains MongoDB connection details.
type MongoConfig struct {
	URI            string        `koanf:"uri" validate:"required"`
	Database       string        `koanf:"database" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"min=1s"`
	MaxPoolSize    uint64        `koanf:"max_pool_size" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// KafkaConfig contains the brokers and topic for order events.
// Brokers is a comma-separated list.
type KafkaConfig struct {
	Brokers string `koanf:"brokers" validate:"required"`
	Topic   string `koanf:"topic" validate:"required"`
}

// BrokerList splits Brokers into individual addresses.
func (k *KafkaConfig) BrokerList() []string {
	parts := strings.Split(k.Brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// defaults returns the baseline key/value set for a service.
// Environment variables override any of these.
func defaults(service Service) map[string]interface{} {
	d := map[string]interface{}{
		"primary.env":                 "development",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.rate_limit":           20.0,

		"observability.service_name":                          string(service),
		"observability.environment":                           "development",
		"observability.logging.level":                         "info",
		"observability.logging.format":                        "json",
		"observability.logging.slow_query_threshold":          "100ms",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.timeout":                 "5s",
	}

	switch service {
	case OrderService:
		d["server.port"] = "8081"
		d["database.host"] = "localhost"
		d["database.port"] = 5432
		d["database.user"] = "postgres"
		d["database.password"] = "postgres"
		d["database.name"] = "order_service"
		d["database.ssl_mode"] = "disable"
		d["database.max_open_conns"] = 25
		d["database.max_idle_conns"] = 25
		d["database.conn_max_lifetime"] = 300
		d["database.conn_max_idle_time"] = 300
		d["observability.health_checks.checks"] = []string{"database", "redis"}
	case ProductService:
		d["server.port"] = "8080"
		d["mongo.uri"] = "mongodb://localhost:27017"
		d["mongo.database"] = "product-service"
		d["mongo.connect_timeout"] = "10s"
		d["mongo.max_pool_size"] = 100
		d["observability.health_checks.checks"] = []string{"mongo", "redis"}
	}

	return d
}

// LoadConfig loads configuration for the given service from environment
// variables, validates it and applies observability defaults.
func LoadConfig(service Service) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(service), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	prefix := service.EnvPrefix()
	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	switch service {
	case OrderService:
		if mainConfig.Database == nil {
			return nil, fmt.Errorf("%s requires a database config block", service)
		}
	case ProductService:
		if mainConfig.Mongo == nil {
			return nil, fmt.Errorf("%s requires a mongo config block", service)
		}
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = string(service)
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
