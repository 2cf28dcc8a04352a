package main

import (
	"context"

	"github.com/srana86/framex-courier/internal/config"
	"github.com/srana86/framex-courier/internal/telemetry"
	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/srana86/framex-courier/pkg/courier/paperfly"
	"github.com/srana86/framex-courier/pkg/courier/pathao"
	"github.com/srana86/framex-courier/pkg/courier/redx"
	"github.com/srana86/framex-courier/pkg/courier/steadfast"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

func initCourierRegistry(cfg *config.Config, logger *otelzap.Logger) *courier.Registry {
	registry := courier.NewRegistry().
		WithTracer(otel.GetTracerProvider().Tracer(cfg.ServiceName))

	if cfg.PathaoEnabled {
		registry.Register(pathao.New(pathao.Config{
			ClientID:     cfg.PathaoClientID,
			ClientSecret: cfg.PathaoClientSecret,
			Username:     cfg.PathaoUsername,
			Password:     cfg.PathaoPassword,
			BaseURL:      cfg.PathaoBaseURL,
			Timeout:      cfg.HTTPTimeout,
			UseMock:      cfg.PathaoUseMock,
		}, logger))
	}

	if cfg.RedXEnabled {
		registry.Register(redx.New(redx.Config{
			APIKey:         cfg.RedXAPIKey,
			BaseURL:        cfg.RedXBaseURL,
			Timeout:        cfg.HTTPTimeout,
			FuzzyThreshold: cfg.RedXFuzzyThreshold,
			UseMock:        cfg.RedXUseMock,
		}, logger))
	}

	if cfg.SteadfastEnabled {
		registry.Register(steadfast.New(steadfast.Config{
			APIKey:    cfg.SteadfastAPIKey,
			SecretKey: cfg.SteadfastSecretKey,
			BaseURL:   cfg.SteadfastBaseURL,
			Timeout:   cfg.HTTPTimeout,
			UseMock:   cfg.SteadfastUseMock,
		}, logger))
	}

	if cfg.PaperflyEnabled {
		registry.Register(paperfly.New(paperfly.Config{
			Username:   cfg.PaperflyUsername,
			Password:   cfg.PaperflyPassword,
			BaseURL:    cfg.PaperflyBaseURL,
			TrackerURL: cfg.PaperflyTrackerURL,
			Timeout:    cfg.HTTPTimeout,
			UseMock:    cfg.PaperflyUseMock,
		}, logger))
	}

	return registry
}
