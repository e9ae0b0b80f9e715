package router

import (
	"log/slog"

	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/plugin"
	"github.com/vango-dev/storefront/pkg/routepath"
	"github.com/vango-dev/storefront/pkg/vdom"
)

// Key is the provide key under which an installed Router is available.
type Key struct{}

// Router resolves navigations against a Table and renders the result.
// It is read-only after construction and safe for concurrent use.
type Router struct {
	table    *Table
	history  History
	fallback View
	logger   *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithFallback sets the view rendered on a navigation miss. Without one the
// outlet stays empty.
func WithFallback(v View) Option {
	return func(r *Router) {
		r.fallback = v
	}
}

// WithLogger sets the router logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a router over table with the given history.
func New(table *Table, history History, opts ...Option) *Router {
	r := &Router{
		table:   table,
		history: history,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Install implements plugin.Plugin: the router provides itself under Key.
func (r *Router) Install(host plugin.Host) error {
	if host.Logger() != nil && r.logger == slog.Default() {
		r.logger = host.Logger()
	}
	host.Provide(Key{}, r)
	return nil
}

// Table returns the route table.
func (r *Router) Table() *Table {
	return r.table
}

// History returns the router history.
func (r *Router) History() History {
	return r.history
}

// HasFallback reports whether a fallback view is configured.
func (r *Router) HasFallback() bool {
	return r.fallback != nil
}

// Resolve maps an incoming request path (including base) to a location.
// Paths outside the base resolve to a miss.
func (r *Router) Resolve(requestPath string) *Location {
	path, ok := r.history.Location(requestPath)
	if !ok {
		return &Location{Path: requestPath, Params: map[string]string{}}
	}
	loc, _ := r.table.Match(path)
	return loc
}

// Navigate resolves a client navigation target, a route path such as
// "/product/42". The location is returned even on a miss, together with an
// E020 error, so callers can still render the fallback.
func (r *Router) Navigate(path string) (*Location, error) {
	clean, err := routepath.ValidateNavPath(path)
	if err != nil {
		return nil, errors.New("E021").WithDetailf("%q", path).Wrap(err)
	}
	loc, ok := r.table.Match(clean)
	if !ok {
		return loc, errors.New("E020").WithDetailf("no route matches %q", loc.Path)
	}
	return loc, nil
}

// URL returns the browser URL of a named route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, err := r.table.Resolve(name, params)
	if err != nil {
		return "", err
	}
	return r.history.Href(path), nil
}

// Render renders root for loc. The root view places routed content with
// ViewContext.RouterView.
func (r *Router) Render(root View, loc *Location) *vdom.VNode {
	return root(ViewContext{Route: loc, router: r})
}

// renderOutlet renders the matched view of loc, or the fallback.
func (r *Router) renderOutlet(loc *Location) *vdom.VNode {
	if !loc.Matched() {
		if r.fallback == nil {
			return nil
		}
		return r.fallback(ViewContext{Route: loc, router: r})
	}

	ctx := ViewContext{Route: loc, router: r}
	if loc.Route.Props {
		ctx.Props = make(Props, len(loc.Params))
		for k, v := range loc.Params {
			ctx.Props[k] = v
		}
	}
	return loc.Route.View(ctx)
}

// Outlet renders the view for loc without a frame.
func (r *Router) Outlet(loc *Location) *vdom.VNode {
	return r.renderOutlet(loc)
}
