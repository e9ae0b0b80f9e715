package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vango-dev/storefront/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "storefront"

// OTelConfig configures the tracer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "storefront").
	TracerName string

	// Provider is the tracer provider. Default: the global provider.
	Provider trace.TracerProvider

	// IncludeQuery records the raw query string on navigation spans.
	IncludeQuery bool
}

// OTelOption configures the tracer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.Provider = tp
	}
}

// WithIncludeQuery enables recording query strings.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// Tracer opens spans for navigations and HTTP requests.
type Tracer struct {
	tracer       trace.Tracer
	includeQuery bool
}

// NewTracer creates a Tracer.
func NewTracer(opts ...OTelOption) *Tracer {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: tracer, includeQuery: config.IncludeQuery}
}

// StartNavigation opens a navigation span. A nil Tracer returns ctx and a
// no-op span.
func (t *Tracer) StartNavigation(ctx context.Context, source, path string) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, "storefront.navigate",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("storefront.source", source),
			attribute.String("storefront.path", path),
		),
	)
}

// EndNavigation records the outcome of a navigation and ends the span.
func (t *Tracer) EndNavigation(span trace.Span, loc *router.Location, status int, err error) {
	if t == nil || span == nil {
		return
	}
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("storefront.route", loc.Label()),
		attribute.Int("storefront.status", status),
		attribute.Bool("storefront.matched", loc.Matched()),
	}
	if t.includeQuery && loc.Query != "" {
		attrs = append(attrs, attribute.String("storefront.query", loc.Query))
	}
	span.SetAttributes(attrs...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// HTTP is chi-compatible middleware opening a span per request.
func (t *Tracer) HTTP(next http.Handler) http.Handler {
	if t == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := t.tracer.Start(r.Context(), "HTTP "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}

// SpanFromContext returns the current span, which is a no-op span when
// tracing is disabled.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
