package internal

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration, populated from environment
// variables with an optional .env file for local development.
type Config struct {
	Env              string
	LogLevel         string
	Port             uint16
	DatabaseURL      string
	NatsURL          string
	CatalogPath      string
	MetricsNamespace string
	ShutdownTimeout  int // seconds
}

// NewConfig loads configuration. A missing .env file is not an error;
// production deployments set real environment variables instead.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("METRICS_NAMESPACE", "storefront")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10)

	port := v.GetInt("PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", port)
	}

	return &Config{
		Env:              v.GetString("ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		Port:             uint16(port),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		NatsURL:          v.GetString("NATS_URL"),
		CatalogPath:      v.GetString("CATALOG_PATH"),
		MetricsNamespace: v.GetString("METRICS_NAMESPACE"),
		ShutdownTimeout:  v.GetInt("SHUTDOWN_TIMEOUT"),
	}, nil
}
