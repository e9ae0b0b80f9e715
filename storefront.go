// Package storefront provides the application bootstrap for the storefront:
// it creates the application object, attaches the router as a plugin and
// mounts the result into the #app element of the served document.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/storefront"
//
// Usage:
//
//	table, err := routes.Table()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app, err := storefront.Initialize(storefront.Config{
//	    Title:    "Storefront",
//	    Fallback: views.NotFound,
//	}, views.Frame, table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":3000", app)
package storefront

import (
	"github.com/vango-dev/storefront/pkg/plugin"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/vdom"
)

// =============================================================================
// Type aliases
// =============================================================================

// VNode is a virtual DOM node.
type VNode = vdom.VNode

// View renders a route or the application frame.
type View = router.View

// ViewContext is passed to every view.
type ViewContext = router.ViewContext

// Route is one entry of the route table.
type Route = router.Route

// Plugin extends an App before it is mounted.
type Plugin = plugin.Plugin

// Reserved endpoints, outside the application base.
const (
	LivePath   = "/_storefront/live"
	ClientPath = "/_storefront/client.js"
	HealthPath = "/healthz"
)
