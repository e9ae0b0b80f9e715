// Package middleware instruments storefront navigations and HTTP traffic.
//
// # Prometheus Metrics
//
// Metrics records every navigation, whether an initial document load or a
// live navigation over the WebSocket, plus the state of live connections:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("storefront"))
//	mux.Use(m.HTTP)
//	app.Use(middleware.MetricsEndpoint("/metrics", prometheus.DefaultGatherer))
//
// Metrics collected:
//   - storefront_navigations_total: navigations by route, status and source
//   - storefront_render_duration_seconds: view render time by route
//   - storefront_http_requests_total: HTTP requests by method and status code
//   - storefront_live_connections: open live navigation connections
//   - storefront_websocket_errors_total: WebSocket errors by type
//
// A nil *Metrics is valid and records nothing.
//
// # OpenTelemetry Tracing
//
// Tracer opens one span per navigation and per HTTP request using the
// global tracer provider unless one is supplied:
//
//	tracer := middleware.NewTracer(middleware.WithTracerName("storefront"))
//	ctx, span := tracer.StartNavigation(ctx, "live", "/product/42")
//	defer tracer.EndNavigation(span, loc, http.StatusOK, nil)
package middleware
