package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Carrier HTTP deadline. Paperfly and RedX issue multiple sequential
	// calls per operation, so every provider call runs under one.
	HTTPTimeout time.Duration `envconfig:"CARRIER_HTTP_TIMEOUT" default:"30s"`

	// Pathao
	PathaoClientID     string `envconfig:"PATHAO_CLIENT_ID"`
	PathaoClientSecret string `envconfig:"PATHAO_CLIENT_SECRET"`
	PathaoUsername     string `envconfig:"PATHAO_USERNAME"`
	PathaoPassword     string `envconfig:"PATHAO_PASSWORD"`
	PathaoBaseURL      string `envconfig:"PATHAO_BASE_URL" default:"https://api-hermes.pathao.com"`
	PathaoEnabled      bool   `envconfig:"PATHAO_ENABLED" default:"true"`
	PathaoUseMock      bool   `envconfig:"PATHAO_USE_MOCK" default:"false"`

	// RedX
	RedXAPIKey         string  `envconfig:"REDX_API_KEY"`
	RedXBaseURL        string  `envconfig:"REDX_BASE_URL" default:"https://openapi.redx.com.bd"`
	RedXFuzzyThreshold float64 `envconfig:"REDX_FUZZY_THRESHOLD" default:"0.5"`
	RedXEnabled        bool    `envconfig:"REDX_ENABLED" default:"true"`
	RedXUseMock        bool    `envconfig:"REDX_USE_MOCK" default:"false"`

	// Steadfast
	SteadfastAPIKey    string `envconfig:"STEADFAST_API_KEY"`
	SteadfastSecretKey string `envconfig:"STEADFAST_SECRET_KEY"`
	SteadfastBaseURL   string `envconfig:"STEADFAST_BASE_URL" default:"https://portal.packzy.com/api/v1"`
	SteadfastEnabled   bool   `envconfig:"STEADFAST_ENABLED" default:"true"`
	SteadfastUseMock   bool   `envconfig:"STEADFAST_USE_MOCK" default:"false"`

	// Paperfly
	PaperflyUsername   string `envconfig:"PAPERFLY_USERNAME"`
	PaperflyPassword   string `envconfig:"PAPERFLY_PASSWORD"`
	PaperflyBaseURL    string `envconfig:"PAPERFLY_BASE_URL" default:"https://api.paperfly.com.bd"`
	PaperflyTrackerURL string `envconfig:"PAPERFLY_TRACKER_URL" default:"http://paperfly.com.bd/trackerapi.php"`
	PaperflyEnabled    bool   `envconfig:"PAPERFLY_ENABLED" default:"true"`
	PaperflyUseMock    bool   `envconfig:"PAPERFLY_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"framex-courier"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from the environment, after folding in a local
// .env file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
// Credential values never appear here.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("pathao.enabled", c.PathaoEnabled),
		attribute.Bool("redx.enabled", c.RedXEnabled),
		attribute.Bool("steadfast.enabled", c.SteadfastEnabled),
		attribute.Bool("paperfly.enabled", c.PaperflyEnabled),
	}
}
