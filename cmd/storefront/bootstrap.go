package main

import (
	"log/slog"

	"github.com/vango-dev/storefront"
	"github.com/vango-dev/storefront/app/routes"
	"github.com/vango-dev/storefront/app/views"
	"github.com/vango-dev/storefront/internal/config"
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/plugin"
)

// bootstrap initializes the application from the loaded configuration.
func bootstrap(fc *config.Config, logger *slog.Logger, metrics *middleware.Metrics, plugins ...plugin.Plugin) (*storefront.App, error) {
	table, err := routes.Table()
	if err != nil {
		return nil, err
	}

	cfg := storefront.ConfigFromFile(fc)
	cfg.Fallback = views.NotFound
	cfg.Logger = logger
	cfg.Metrics = metrics
	cfg.Tracer = middleware.NewTracer()

	return storefront.Initialize(cfg, views.Frame, table, plugins...)
}

// loadConfig loads the configuration from dir, or from the working
// directory when dir is empty, with environment overrides.
func loadConfig(dir string, logger *slog.Logger) (*config.Config, error) {
	if dir == "" {
		return config.LoadFromWorkingDir()
	}
	if !config.Exists(dir) {
		logger.Debug("no config file, using defaults", "dir", dir)
	}
	return config.Load(dir)
}
