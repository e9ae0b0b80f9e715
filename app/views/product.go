package views

import (
	"github.com/vango-dev/storefront/pkg/router"
	. "github.com/vango-dev/storefront/pkg/vdom"
)

// ProductDetails shows one product. Its id arrives as a prop forwarded from
// the route parameter and is always a string; it is displayed as is.
func ProductDetails(ctx router.ViewContext) *VNode {
	id := ctx.Props.Get("id")

	return Article(Class("product"), Data("product-id", id),
		H1(Textf("Product %s", id)),
		Dl(
			Dt(Text("Id")),
			Dd(Strong(Text(id))),
		),
		P(ctx.LinkTo("Home", nil, Text("Back to the catalogue"))),
	)
}
