// Package views contains the storefront views: the application frame, the
// home page, product details and the not-found fallback.
package views

import (
	"github.com/vango-dev/storefront/pkg/router"
	. "github.com/vango-dev/storefront/pkg/vdom"
)

// Frame is the root view. It renders the navigation bar, places the current
// route's view in the outlet and closes with a footer.
func Frame(ctx router.ViewContext) *VNode {
	return Div(Class("storefront"),
		Header(Class("storefront-header"),
			Nav(
				navLink(ctx, "Home", nil, "Home"),
			),
		),
		Main(Class("storefront-main"), ctx.RouterView()),
		Footer(Class("storefront-footer"),
			Noscript(Text("JavaScript is off: every link loads a full page.")),
		),
	)
}

func navLink(ctx router.ViewContext, name string, params map[string]string, label string) *VNode {
	return router.ActiveLink(ctx.URL(name, params), ctx.IsActive(name), Text(label))
}
