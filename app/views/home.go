package views

import (
	"github.com/vango-dev/storefront/pkg/router"
	. "github.com/vango-dev/storefront/pkg/vdom"
)

// FeaturedProducts are linked from the home page.
var FeaturedProducts = []string{"1", "2", "42"}

// Home is the landing page. It takes no inputs.
func Home(ctx router.ViewContext) *VNode {
	items := make([]any, 0, len(FeaturedProducts))
	for _, id := range FeaturedProducts {
		items = append(items, Li(Key(id),
			ctx.LinkTo("ProductDetails", map[string]string{"id": id}, Textf("Product %s", id)),
		))
	}

	return Section(Class("home"),
		H1(Text("Storefront")),
		P(Text("Browse the catalogue.")),
		H2(Text("Featured products")),
		Ul(Class("products"), items),
	)
}
