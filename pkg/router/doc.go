// Package router resolves navigations against a static route table.
//
// A Table is an ordered list of Route entries built once at startup:
//
//	table := router.MustTable(
//	    router.Route{Path: "/", Name: "Home", View: views.Home},
//	    router.Route{Path: "/product/:id", Name: "ProductDetails", View: views.ProductDetails, Props: true},
//	)
//
// NewTable enforces the table invariants: unique patterns, unique names and
// exactly one entry matching "/". The table is immutable afterwards.
//
// # Patterns
//
// Patterns are "/"-separated segments:
//
//	/about          static segment, compared literally
//	/product/:id    parameter, matches any non-empty segment
//	/product/{id}   same parameter, brace spelling
//	/docs/*rest     catch-all, matches one or more trailing segments
//
// Parameter values are percent-decoded and always strings; "/product/abc"
// matches "/product/:id" with id = "abc". Resolution is first-match-wins in
// table order.
//
// # Props
//
// When Route.Props is set, the matched parameters are handed to the view
// in ViewContext.Props. Otherwise the view reads them from the current
// location (ViewContext.Route.Params).
//
// # History
//
// A Router combines the table with a History that maps between route paths
// and URLs: WebHistory produces clean URLs under a base path, HashHistory
// keeps the route in the URL fragment.
package router
