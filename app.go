package storefront

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/plugin"
	"github.com/vango-dev/storefront/pkg/render"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/vdom"
)

// =============================================================================
// App Type
// =============================================================================

// App is the application instance. It is created with New, extended with
// Use and attached to its mount point with Mount. Once mounted it is an
// http.Handler serving the document, the live navigation endpoint and
// whatever plugins registered.
//
//	app, err := storefront.New(cfg, views.Frame).
//	    Use(r, middleware.MetricsEndpoint("/metrics", reg)).
//	    Mount("#app")
//
// Mount is one-way: an App goes from unmounted to mounted exactly once.
type App struct {
	config   Config
	root     router.View
	mux      *chi.Mux
	renderer *render.Renderer
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu        sync.Mutex
	provided  map[any]any
	pluginErr error
	router    *router.Router
	mountID   string

	mounted atomic.Bool
	closed  atomic.Bool

	connsMu sync.Mutex
	conns   map[*liveConn]struct{}
}

// New creates an unmounted application rendering root as its frame.
func New(cfg Config, root router.View) *App {
	cfg = cfg.withDefaults()

	a := &App{
		config:   cfg,
		root:     root,
		mux:      chi.NewRouter(),
		renderer: render.NewRenderer(render.RendererConfig{Pretty: cfg.Pretty}),
		logger:   cfg.Logger,
		provided: make(map[any]any),
		conns:    make(map[*liveConn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.Live.ReadBufferSize,
			WriteBufferSize: cfg.Live.WriteBufferSize,
			CheckOrigin:     cfg.Live.CheckOrigin,
		},
	}

	a.mux.Use(chimw.Recoverer)
	a.mux.Use(chimw.GetHead)
	a.mux.Use(cfg.Metrics.HTTP)
	a.mux.Use(cfg.Tracer.HTTP)
	a.mux.Get(HealthPath, a.serveHealth)

	return a
}

// =============================================================================
// plugin.Host
// =============================================================================

// Provide makes value available under key. The router provides itself
// under router.Key.
func (a *App) Provide(key, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.provided[key] = value
	if r, ok := value.(*router.Router); ok {
		if _, isRouter := key.(router.Key); isRouter {
			a.router = r
		}
	}
}

// Value returns the value provided under key.
func (a *App) Value(key any) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.provided[key]
	return v, ok
}

// Handle registers an HTTP handler for an exact path.
func (a *App) Handle(pattern string, handler http.Handler) {
	a.mux.Handle(pattern, handler)
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Use installs plugins in order. Installation errors are reported by Mount.
func (a *App) Use(plugins ...plugin.Plugin) *App {
	for _, p := range plugins {
		if p == nil {
			continue
		}
		if err := p.Install(a); err != nil {
			a.mu.Lock()
			if a.pluginErr == nil {
				a.pluginErr = errors.New("E104").WithDetailf("%T", p).Wrap(err)
			}
			a.mu.Unlock()
		}
	}
	return a
}

// =============================================================================
// Mounting
// =============================================================================

// Mount attaches the application to the element selected by selector, an
// id selector such as "#app". The document shell must contain exactly one
// element with that id. On error the App stays unmounted.
func (a *App) Mount(selector string) (*App, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mounted.Load() {
		return a, errors.New("E102").WithDetailf("already mounted on #%s", a.mountID)
	}

	id, err := parseSelector(selector)
	if err != nil {
		return a, err
	}
	if a.pluginErr != nil {
		return a, a.pluginErr
	}
	if a.router == nil {
		return a, errors.New("E104").
			WithDetail("no plugin provided a router").
			WithSuggestion("Install the router with app.Use(router)")
	}
	if a.root == nil {
		return a, errors.Newf(errors.CategoryMount, "no root view")
	}

	page := a.pageData(id, nil)
	switch n := len(render.MountPoints(a.config.Shell, page)); n {
	case 1:
	case 0:
		return a, errors.New("E101").
			WithDetailf("the document has no element with id %q", id).
			WithSuggestion("Render vdom.Div(vdom.ID(\"" + id + "\")) in the shell")
	default:
		return a, errors.New("E101").
			WithDetailf("the document has %d elements with id %q, want exactly one", n, id)
	}

	a.mountID = id
	a.routes()
	a.mounted.Store(true)

	a.logger.Info("application mounted",
		"mount", selector,
		"base", a.router.History().Base(),
		"history", string(a.router.History().Mode()),
		"routes", a.router.Table().Len())
	return a, nil
}

// parseSelector validates an id selector and returns the id.
func parseSelector(selector string) (string, error) {
	id, ok := strings.CutPrefix(strings.TrimSpace(selector), "#")
	if !ok || id == "" || strings.ContainsAny(id, " \t\n#.[]>:,") {
		return "", errors.New("E103").WithDetailf("%q", selector)
	}
	return id, nil
}

// routes registers the page and live endpoints. Called once, from Mount.
func (a *App) routes() {
	if !a.config.Live.Disabled {
		a.mux.Get(LivePath, a.serveLive)
		a.mux.Get(ClientPath, serveClient)
	}
	a.mux.Get("/*", a.servePage)
}

// Mounted reports whether Mount succeeded.
func (a *App) Mounted() bool {
	return a.mounted.Load()
}

// Router returns the installed router, nil before Use.
func (a *App) Router() *router.Router {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.router
}

// MountID returns the id of the mount point, "" before Mount.
func (a *App) MountID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mountID
}

// =============================================================================
// Initialize
// =============================================================================

var process struct {
	mu  sync.Mutex
	app *App
}

// Initialize performs the application bootstrap once per process: it builds
// the router over table, creates the application with root as its frame,
// installs the router and any extra plugins, and mounts on cfg.MountID.
// A second call returns E102.
func Initialize(cfg Config, root router.View, table *router.Table, plugins ...plugin.Plugin) (*App, error) {
	process.mu.Lock()
	defer process.mu.Unlock()

	if process.app != nil {
		return nil, errors.New("E102").WithDetail("Initialize was already called in this process")
	}
	if table == nil {
		return nil, errors.New("E004").WithDetail("nil route table")
	}

	cfg = cfg.withDefaults()
	opts := []router.Option{router.WithLogger(cfg.Logger)}
	if cfg.Fallback != nil {
		opts = append(opts, router.WithFallback(cfg.Fallback))
	}
	r := router.New(table, cfg.NewHistory(), opts...)

	app, err := New(cfg, root).
		Use(r).
		Use(plugins...).
		Mount("#" + cfg.MountID)
	if err != nil {
		return nil, err
	}

	process.app = app
	return app, nil
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler. An unmounted App answers 503.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !a.mounted.Load() {
		err := errors.New("E105")
		a.logger.Error("request before mount", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	a.mux.ServeHTTP(w, r)
}

func (a *App) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if a.closed.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("shutting down\n"))
		return
	}
	w.Write([]byte("ok\n"))
}

// Shutdown closes every live connection. The HTTP server itself is shut
// down by its owner.
func (a *App) Shutdown(ctx context.Context) error {
	a.closed.Store(true)

	a.connsMu.Lock()
	conns := make([]*liveConn, 0, len(a.conns))
	for c := range a.conns {
		conns = append(conns, c)
	}
	a.connsMu.Unlock()

	for _, c := range conns {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.close(websocket.CloseGoingAway, "server shutting down")
	}
	a.logger.Info("application shut down", "live_connections", len(conns))
	return nil
}

// =============================================================================
// Page rendering
// =============================================================================

// pageData describes the document for loc (nil while mounting).
func (a *App) pageData(mountID string, loc *router.Location) render.PageData {
	page := render.PageData{
		Title:       a.title(loc),
		Lang:        a.config.Lang,
		MountID:     mountID,
		StyleSheets: a.config.StyleSheets,
	}
	if a.router != nil {
		page.BaseHref = a.router.History().Base()
		page.History = string(a.router.History().Mode())
	}
	if !a.config.Live.Disabled {
		page.ClientScript = ClientPath
		page.LiveEndpoint = LivePath
	}
	return page
}

// title returns the document title for loc.
func (a *App) title(loc *router.Location) string {
	if loc != nil && !loc.Matched() {
		if a.config.Title == "" {
			return "Page not found"
		}
		return "Page not found · " + a.config.Title
	}
	return a.config.Title
}

// renderLocation renders the routed content for loc and its status code.
func (a *App) renderLocation(loc *router.Location) (*vdom.VNode, int) {
	status := http.StatusOK
	if !loc.Matched() {
		status = http.StatusNotFound
	}
	return a.router.Render(a.root, loc), status
}

// Page is a server-rendered document.
type Page struct {
	// Path is the canonical route path.
	Path string

	// Route is the route label: its name, pattern or "not_found".
	Route string

	// Status is 200 on a match and 404 on a navigation miss.
	Status int

	// HTML is the complete document.
	HTML []byte
}

// RenderPage renders the document for a route path (without the base).
// Static export uses it to prerender pages.
func (a *App) RenderPage(ctx context.Context, path string) (*Page, error) {
	if !a.mounted.Load() {
		return nil, errors.New("E105")
	}
	loc, _ := a.router.Table().Match(path)
	return a.renderDocument(ctx, loc, middleware.SourceExport)
}

// renderDocument renders the complete document for loc, recording the
// navigation under source.
func (a *App) renderDocument(ctx context.Context, loc *router.Location, source string) (*Page, error) {
	start := time.Now()
	_, span := a.config.Tracer.StartNavigation(ctx, source, loc.Path)

	content, status := a.renderLocation(loc)

	var buf bytes.Buffer
	err := a.renderer.RenderDocument(&buf, a.config.Shell, a.pageData(a.mountID, loc), content)
	if err != nil {
		status = http.StatusInternalServerError
	}

	a.config.Metrics.ObserveNavigation(loc.Label(), status, source, time.Since(start))
	a.config.Tracer.EndNavigation(span, loc, status, err)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("page rendered",
		"path", loc.Path,
		"route", loc.Label(),
		"source", source,
		"status", status,
		"duration", time.Since(start))

	return &Page{Path: loc.Path, Route: loc.Label(), Status: status, HTML: buf.Bytes()}, nil
}

// servePage server-renders the document for a request path.
func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	// Matching decodes segments itself; the decoded r.URL.Path would be
	// decoded twice.
	loc := a.router.Resolve(r.URL.EscapedPath())
	loc.Query = r.URL.RawQuery

	page, err := a.renderDocument(r.Context(), loc, middleware.SourceDocument)
	if err != nil {
		a.logger.Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(page.Status)
	w.Write(page.HTML)
}
