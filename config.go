package storefront

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/storefront/internal/config"
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/render"
	"github.com/vango-dev/storefront/pkg/router"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the application configuration.
type Config struct {
	// Title is the document title.
	Title string

	// Lang is the document language. Default: "en".
	Lang string

	// MountID is the id of the mount point element, used by Initialize.
	// Default: "app".
	MountID string

	// BaseURL is the path the application is served under. Default: "/".
	BaseURL string

	// History selects clean URLs (router.ModeWeb) or fragment URLs
	// (router.ModeHash). Default: router.ModeWeb.
	History router.Mode

	// Fallback is rendered on a navigation miss. When nil the outlet stays
	// empty.
	Fallback router.View

	// Shell builds the document around the mount point.
	// Default: render.DefaultShell.
	Shell render.Shell

	// StyleSheets are linked from the document head.
	StyleSheets []string

	// Pretty enables indented HTML output.
	Pretty bool

	// Live configures live navigation over WebSocket.
	Live LiveConfig

	// Metrics records navigation metrics. Nil disables metrics.
	Metrics *middleware.Metrics

	// Tracer records navigation spans. Nil disables tracing.
	Tracer *middleware.Tracer

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// LiveConfig configures the live navigation endpoint.
type LiveConfig struct {
	// Disabled turns off the WebSocket endpoint and the client script.
	Disabled bool

	// ReadTimeout is how long a connection may stay silent, pongs included.
	// Default: 60s.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write. Default: 10s.
	WriteTimeout time.Duration

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 4096.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header of upgrade requests.
	// If nil, same-origin requests are accepted.
	CheckOrigin func(r *http.Request) bool
}

// minPingInterval bounds the ping ticker for very short read timeouts.
const minPingInterval = 10 * time.Millisecond

// pingInterval keeps pings inside the read deadline.
func (c LiveConfig) pingInterval() time.Duration {
	return max(c.ReadTimeout*9/10, minPingInterval)
}

// DefaultLiveConfig returns the default live navigation settings.
func DefaultLiveConfig() LiveConfig {
	return LiveConfig{
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}
}

// withDefaults fills empty fields.
func (c Config) withDefaults() Config {
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.MountID == "" {
		c.MountID = config.DefaultMountID
	}
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	if c.History == "" {
		c.History = router.ModeWeb
	}
	if c.Shell == nil {
		c.Shell = render.DefaultShell
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	def := DefaultLiveConfig()
	if c.Live.ReadTimeout <= 0 {
		c.Live.ReadTimeout = def.ReadTimeout
	}
	if c.Live.WriteTimeout <= 0 {
		c.Live.WriteTimeout = def.WriteTimeout
	}
	if c.Live.ReadBufferSize <= 0 {
		c.Live.ReadBufferSize = def.ReadBufferSize
	}
	if c.Live.WriteBufferSize <= 0 {
		c.Live.WriteBufferSize = def.WriteBufferSize
	}
	return c
}

// ConfigFromFile maps a loaded storefront.json onto an application Config.
// Views, metrics and the logger are left for the caller.
func ConfigFromFile(fc *config.Config) Config {
	return Config{
		Title:   fc.Title,
		MountID: fc.MountID,
		BaseURL: fc.BaseURL,
		History: fc.HistoryMode(),
	}
}

// NewHistory returns the router history described by the config.
func (c Config) NewHistory() router.History {
	return router.NewHistory(c.History, c.BaseURL)
}
