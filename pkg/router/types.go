package router

import "github.com/vango-dev/storefront/pkg/vdom"

// Props are view inputs forwarded from path parameters.
type Props map[string]string

// Get returns the named prop, or "" when absent.
func (p Props) Get(name string) string {
	return p[name]
}

// View renders a route.
type View func(ctx ViewContext) *vdom.VNode

// Route is one entry of the route table.
type Route struct {
	// Path is the pattern, e.g. "/product/:id".
	Path string

	// Name identifies the route for programmatic navigation. Optional.
	Name string

	// View is rendered when the pattern matches.
	View View

	// Props forwards matched path parameters to the view as inputs.
	Props bool
}

// Location is the outcome of resolving a path against the table.
type Location struct {
	// Path is the canonical route path (without base or query).
	Path string

	// Query is the raw query string, without "?".
	Query string

	// Route is the matched entry, nil on a navigation miss.
	Route *Route

	// Params are the bound path parameters. Never nil.
	Params map[string]string
}

// Matched reports whether the location resolved to a route.
func (l *Location) Matched() bool {
	return l != nil && l.Route != nil
}

// Name returns the matched route's name, or "" on a miss or unnamed route.
func (l *Location) Name() string {
	if !l.Matched() {
		return ""
	}
	return l.Route.Name
}

// Label identifies the location for logs and metrics: the route name, its
// pattern for unnamed routes, or "not_found".
func (l *Location) Label() string {
	switch {
	case !l.Matched():
		return "not_found"
	case l.Route.Name != "":
		return l.Route.Name
	default:
		return l.Route.Path
	}
}

// ViewContext is what a view receives when it renders.
type ViewContext struct {
	// Props holds forwarded parameters when the route enables Props; nil otherwise.
	Props Props

	// Route is the current location.
	Route *Location

	router *Router
}

// Router returns the router rendering this view.
func (c ViewContext) Router() *Router {
	return c.router
}

// RouterView renders the view of the current location, or the fallback on
// a miss. Frame views call it where routed content belongs.
func (c ViewContext) RouterView() *vdom.VNode {
	if c.router == nil {
		return nil
	}
	return c.router.renderOutlet(c.Route)
}

// URL returns the URL of a named route, or the base URL when the route
// cannot be resolved.
func (c ViewContext) URL(name string, params map[string]string) string {
	if c.router == nil {
		return "/"
	}
	u, err := c.router.URL(name, params)
	if err != nil {
		c.router.logger.Warn("unresolvable route link", "name", name, "error", err)
		return c.router.history.Href("/")
	}
	return u
}

// LinkTo builds a live-navigation anchor to a named route.
func (c ViewContext) LinkTo(name string, params map[string]string, children ...any) *vdom.VNode {
	return Link(c.URL(name, params), children...)
}

// IsActive reports whether the current location is the named route.
func (c ViewContext) IsActive(name string) bool {
	return c.Route.Name() == name
}
