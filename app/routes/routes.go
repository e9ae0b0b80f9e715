// Package routes declares the storefront route table.
package routes

import (
	"github.com/vango-dev/storefront/app/views"
	"github.com/vango-dev/storefront/pkg/router"
)

// Route names.
const (
	Home           = "Home"
	ProductDetails = "ProductDetails"
)

// Entries returns the route entries in match order.
func Entries() []router.Route {
	return []router.Route{
		{Path: "/", Name: Home, View: views.Home},
		{Path: "/product/:id", Name: ProductDetails, View: views.ProductDetails, Props: true},
	}
}

// Table builds the route table.
func Table() (*router.Table, error) {
	return router.NewTable(Entries()...)
}

// NewRouter builds the application router over the route table, with
// NotFound as the navigation fallback.
func NewRouter(history router.History, opts ...router.Option) (*router.Router, error) {
	table, err := Table()
	if err != nil {
		return nil, err
	}
	opts = append([]router.Option{router.WithFallback(views.NotFound)}, opts...)
	return router.New(table, history, opts...), nil
}
