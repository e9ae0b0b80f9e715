package views

import (
	"github.com/vango-dev/storefront/pkg/router"
	. "github.com/vango-dev/storefront/pkg/vdom"
)

// NotFound is the fallback rendered on a navigation miss.
func NotFound(ctx router.ViewContext) *VNode {
	path := "/"
	if ctx.Route != nil {
		path = ctx.Route.Path
	}
	return Section(Class("not-found"),
		H1(Text("Page not found")),
		P(Text("Nothing lives at "), Code(Text(path)), Text(".")),
		P(ctx.LinkTo("Home", nil, Text("Go home"))),
	)
}
