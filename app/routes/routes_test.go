package routes

import (
	"strings"
	"testing"

	"github.com/vango-dev/storefront/app/views"
	"github.com/vango-dev/storefront/pkg/render"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/vdom"
)

func renderPath(t *testing.T, r *router.Router, path string) (*router.Location, string) {
	t.Helper()
	loc := r.Resolve(path)
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(r.Render(views.Frame, loc))
	if err != nil {
		t.Fatalf("render %s: %v", path, err)
	}
	return loc, html
}

func TestTable(t *testing.T) {
	table, err := Table()
	if err != nil {
		t.Fatalf("Table() error: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	home, ok := table.Lookup(Home)
	if !ok || home.Path != "/" || home.Props {
		t.Errorf("Home entry = %+v", home)
	}
	product, ok := table.Lookup(ProductDetails)
	if !ok || product.Path != "/product/:id" || !product.Props {
		t.Errorf("ProductDetails entry = %+v", product)
	}
}

func TestNavigation(t *testing.T) {
	r, err := NewRouter(router.WebHistory("/"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		route   string
		id      string
		want    string
		notWant []string
	}{
		{path: "/", route: Home, want: `class="home"`, notWant: []string{`class="product"`, "Page not found"}},
		{path: "/product/42", route: ProductDetails, id: "42", want: `data-product-id="42"`, notWant: []string{`class="home"`}},
		{path: "/product/abc", route: ProductDetails, id: "abc", want: "Product abc"},
		{path: "/does-not-exist", want: "Page not found", notWant: []string{`class="home"`, `class="product"`}},
		{path: "/product", want: "Page not found"},
		{path: "/product/42/reviews", want: "Page not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, html := renderPath(t, r, tt.path)
			if loc.Name() != tt.route {
				t.Errorf("route = %q, want %q", loc.Name(), tt.route)
			}
			if tt.id != "" && loc.Params["id"] != tt.id {
				t.Errorf("id = %q, want %q", loc.Params["id"], tt.id)
			}
			if !strings.Contains(html, tt.want) {
				t.Errorf("html missing %q:\n%s", tt.want, html)
			}
			for _, s := range tt.notWant {
				if strings.Contains(html, s) {
					t.Errorf("html unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestViewRendersOnce(t *testing.T) {
	r, err := NewRouter(router.WebHistory("/"))
	if err != nil {
		t.Fatal(err)
	}
	_, html := renderPath(t, r, "/product/7")
	if n := strings.Count(html, `class="product"`); n != 1 {
		t.Errorf("product view rendered %d times, want 1", n)
	}
}

func TestHomeLinksUseBase(t *testing.T) {
	r, err := NewRouter(router.WebHistory("/shop/"))
	if err != nil {
		t.Fatal(err)
	}
	_, html := renderPath(t, r, "/shop/")
	if !strings.Contains(html, `href="/shop/product/42"`) {
		t.Errorf("expected product link under base:\n%s", html)
	}
	if !strings.Contains(html, `aria-current="page"`) {
		t.Errorf("expected the Home nav link to be active:\n%s", html)
	}
}

func TestProductDetailsWithoutProps(t *testing.T) {
	node := views.ProductDetails(router.ViewContext{})
	if vdom.TextContent(node) == "" {
		t.Error("expected product view to render without props")
	}
}
