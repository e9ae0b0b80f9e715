package router

import "github.com/vango-dev/storefront/pkg/vdom"

// Link creates an anchor the thin client intercepts: a click navigates over
// the live connection instead of reloading the document.
func Link(href string, children ...any) *vdom.VNode {
	return vdom.A(
		vdom.Href(href),
		vdom.Data("link", "true"),
		children,
	)
}

// ActiveLink is Link with aria-current="page" when active is true.
func ActiveLink(href string, active bool, children ...any) *vdom.VNode {
	var current any
	if active {
		current = vdom.AriaCurrent("page")
	}
	return vdom.A(
		vdom.Href(href),
		vdom.Data("link", "true"),
		current,
		children,
	)
}
