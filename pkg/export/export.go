package export

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/vango-dev/storefront"
	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/router"
)

// NotFoundKey is the object key of the not-found document.
const NotFoundKey = "404.html"

// notFoundProbe is a route path no table entry should match.
const notFoundProbe = "/__storefront_not_found__/404"

// HTMLContentType is the content type of every exported document.
const HTMLContentType = "text/html; charset=utf-8"

// PageRenderer renders the document for a route path. *storefront.App
// implements it once mounted.
type PageRenderer interface {
	RenderPage(ctx context.Context, path string) (*storefront.Page, error)
}

// Sink stores exported documents under slash-separated keys.
type Sink interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Exporter prerenders a route table.
type Exporter struct {
	pages    PageRenderer
	table    *router.Table
	params   map[string][]map[string]string
	notFound bool
	logger   *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithParams adds parameter sets to prerender for the named route.
func WithParams(route string, sets ...map[string]string) Option {
	return func(e *Exporter) {
		e.params[route] = append(e.params[route], sets...)
	}
}

// WithoutNotFound skips the 404.html document.
func WithoutNotFound() Option {
	return func(e *Exporter) {
		e.notFound = false
	}
}

// WithLogger sets the exporter logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Exporter rendering pages from table.
func New(pages PageRenderer, table *router.Table, opts ...Option) *Exporter {
	e := &Exporter{
		pages:    pages,
		table:    table,
		params:   make(map[string][]map[string]string),
		notFound: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report summarizes an export run.
type Report struct {
	// Pages are the object keys written, in order.
	Pages []string

	// Skipped are route patterns that had no parameter values.
	Skipped []string

	Duration time.Duration
}

// Paths returns the route paths to prerender, in table order.
func (e *Exporter) Paths() ([]string, []string, error) {
	var paths, skipped []string
	seen := make(map[string]bool)

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for i, route := range e.table.Routes() {
		if len(e.table.Params(i)) == 0 {
			add(route.Path)
			continue
		}

		sets := e.params[route.Name]
		if route.Name == "" || len(sets) == 0 {
			skipped = append(skipped, route.Path)
			continue
		}
		for _, set := range sets {
			p, err := e.table.Resolve(route.Name, set)
			if err != nil {
				return nil, nil, errors.New("E301").WithDetailf("route %q", route.Name).Wrap(err)
			}
			add(p)
		}
	}
	return paths, skipped, nil
}

// Run renders every page and writes it to sink.
func (e *Exporter) Run(ctx context.Context, sink Sink) (*Report, error) {
	if sink == nil {
		return nil, errors.New("E302")
	}
	start := time.Now()

	paths, skipped, err := e.Paths()
	if err != nil {
		return nil, err
	}
	for _, p := range skipped {
		e.logger.Warn("route skipped: no parameter values", "route", p)
	}

	report := &Report{Skipped: skipped}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		key, err := KeyForPath(p)
		if err != nil {
			return report, err
		}
		if err := e.write(ctx, sink, p, key, http.StatusOK); err != nil {
			return report, err
		}
		report.Pages = append(report.Pages, key)
	}

	if e.notFound {
		written, err := e.writeNotFound(ctx, sink)
		if err != nil {
			return report, err
		}
		if written {
			report.Pages = append(report.Pages, NotFoundKey)
		}
	}

	report.Duration = time.Since(start)
	e.logger.Info("export complete",
		"pages", len(report.Pages),
		"skipped", len(report.Skipped),
		"duration", report.Duration)
	return report, nil
}

// write renders one route path and stores it under key.
func (e *Exporter) write(ctx context.Context, sink Sink, routePath, key string, wantStatus int) error {
	page, err := e.pages.RenderPage(ctx, routePath)
	if err != nil {
		return errors.New("E301").WithDetailf("render %s", routePath).Wrap(err)
	}
	if page.Status != wantStatus {
		return errors.New("E301").
			WithDetailf("%s rendered with status %d, want %d", routePath, page.Status, wantStatus)
	}
	return e.put(ctx, sink, key, page)
}

// writeNotFound stores the fallback document. A table whose catch-all
// matches every path has no not-found page; nothing is written then.
func (e *Exporter) writeNotFound(ctx context.Context, sink Sink) (bool, error) {
	page, err := e.pages.RenderPage(ctx, notFoundProbe)
	if err != nil {
		return false, errors.New("E301").WithDetail("render not-found page").Wrap(err)
	}
	if page.Status != http.StatusNotFound {
		e.logger.Warn("no not-found page: every path matches a route", "route", page.Route)
		return false, nil
	}
	return true, e.put(ctx, sink, NotFoundKey, page)
}

func (e *Exporter) put(ctx context.Context, sink Sink, key string, page *storefront.Page) error {
	if err := sink.Put(ctx, key, page.HTML, HTMLContentType); err != nil {
		return errors.New("E301").WithDetailf("write %s", key).Wrap(err)
	}
	e.logger.Debug("page exported", "path", page.Path, "key", key, "route", page.Route)
	return nil
}

// KeyForPath maps a route path to its object key: "/" is "index.html",
// "/product/42" is "product/42/index.html". Segments are percent-decoded,
// since static hosts look files up by the decoded request path. Paths that
// would leave the export root are rejected.
func KeyForPath(routePath string) (string, error) {
	trimmed := strings.Trim(routePath, "/")
	if trimmed == "" {
		return "index.html", nil
	}
	parts := strings.Split(trimmed, "/")
	for i, seg := range parts {
		decoded, err := url.PathUnescape(seg)
		if err != nil || decoded == "" || decoded == "." || decoded == ".." ||
			strings.ContainsAny(decoded, "/\\\x00") {
			return "", errors.New("E301").WithDetailf("path %q cannot be exported", routePath)
		}
		parts[i] = decoded
	}
	return path.Join(append(parts, "index.html")...), nil
}
