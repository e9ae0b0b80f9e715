// Package plugin defines how extensions attach to an application before it
// is mounted.
//
// A plugin receives the application as a Host and may provide values to
// views (the router provides itself under router.Key), register HTTP
// handlers next to the page routes, or log through the application logger.
package plugin

import (
	"log/slog"
	"net/http"
)

// Host is the application surface a plugin installs into.
type Host interface {
	// Provide makes value available to the application under key.
	Provide(key, value any)

	// Handle registers an HTTP handler for an exact path.
	Handle(pattern string, handler http.Handler)

	// Logger returns the application logger.
	Logger() *slog.Logger
}

// Plugin extends a Host.
type Plugin interface {
	Install(host Host) error
}

// Func adapts a function to the Plugin interface.
type Func func(host Host) error

// Install implements Plugin.
func (f Func) Install(host Host) error {
	return f(host)
}
