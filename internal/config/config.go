package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	CatalogServiceName = "catalog-service"
	OrderServiceName   = "order-service"
	ServiceVersion     = "0.1.0"
)

// CatalogConfig is the environment of the catalog service.
type CatalogConfig struct {
	Port           string `envconfig:"PORT" default:"3000"`
	KafkaBrokers   string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	OtelEndpoint   string `envconfig:"OTEL_ENDPOINT" default:""`
	OtelAuthHeader string `envconfig:"OTEL_AUTH_HEADER" default:""`
}

// OrderConfig is the environment of the order service.
type OrderConfig struct {
	Port           string `envconfig:"PORT" default:"3001"`
	KafkaBrokers   string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	CatalogHost    string `envconfig:"CATALOG_HOST" default:"http://localhost:3000"`
	OtelEndpoint   string `envconfig:"OTEL_ENDPOINT" default:""`
	OtelAuthHeader string `envconfig:"OTEL_AUTH_HEADER" default:""`
}

// LoadCatalog reads the catalog service configuration from the environment,
// loading a .env file first if one exists.
func LoadCatalog() (*CatalogConfig, error) {
	_ = godotenv.Load()

	var cfg CatalogConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load catalog config: %w", err)
	}
	return &cfg, nil
}

// LoadOrder reads the order service configuration from the environment,
// loading a .env file first if one exists.
func LoadOrder() (*OrderConfig, error) {
	_ = godotenv.Load()

	var cfg OrderConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load order config: %w", err)
	}
	return &cfg, nil
}
