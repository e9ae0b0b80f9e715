package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/plugin"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	port    int
	host    string
	base    string
	history string
}

func serveCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Configuration comes from storefront.json, then the BASE_URL,
STOREFRONT_PORT and STOREFRONT_HISTORY environment variables, then flags.

Examples:
  storefront serve
  storefront serve --port=8080
  BASE_URL=/shop/ storefront serve --history=hash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, global, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from storefront.json)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from storefront.json)")
	cmd.Flags().StringVar(&opts.base, "base", "", "Base path the application is served under")
	cmd.Flags().StringVar(&opts.history, "history", "", "History mode: web or hash")

	return cmd
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), global.verbose)
	fc, err := loadConfig(global.configDir, logger)
	if err != nil {
		return err
	}
	if opts.port > 0 {
		fc.Port = opts.port
	}
	if opts.host != "" {
		fc.Host = opts.host
	}
	if opts.base != "" {
		fc.BaseURL = opts.base
	}
	if opts.history != "" {
		fc.History = opts.history
	}
	if err := fc.Validate(); err != nil {
		return err
	}

	var (
		metrics *middleware.Metrics
		plugins []plugin.Plugin
	)
	if fc.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = middleware.NewMetrics(middleware.WithRegistry(reg))
		plugins = append(plugins, middleware.MetricsEndpoint(fc.Metrics.Path, reg))
	}

	app, err := bootstrap(fc, logger, metrics, plugins...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fc.Address(),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	out := cmd.OutOrStdout()
	success(out, "Serving %s", fc.Name)
	info(out, "URL:     %s", fc.URL())
	info(out, "History: %s", fc.HistoryMode())
	if fc.Metrics.Enabled {
		info(out, "Metrics: http://%s%s", fc.Address(), fc.Metrics.Path)
	}

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	info(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Warn("live connections not closed", "error", err)
	}
	return srv.Shutdown(shutdownCtx)
}
