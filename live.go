package storefront

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/router"
)

// Frame types exchanged over the live connection.
const (
	FrameNavigate = "navigate"
	FrameRender   = "render"
	FrameError    = "error"
)

// ClientFrame is sent by the thin client.
type ClientFrame struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
}

// ServerFrame is sent to the thin client. Render frames carry the routed
// content of the mount point; error frames carry Code and Error.
type ServerFrame struct {
	Type   string `json:"type"`
	Path   string `json:"path,omitempty"`
	URL    string `json:"url,omitempty"`
	Status int    `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`
	HTML   string `json:"html,omitempty"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// liveConn is one WebSocket client. Reads happen on the handler goroutine;
// writes from any goroutine are serialized by writeMu.
type liveConn struct {
	id     string
	app    *App
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// serveLive upgrades the request and runs the read loop until the client
// goes away or the application shuts down.
func (a *App) serveLive(w http.ResponseWriter, r *http.Request) {
	if a.closed.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.config.Metrics.WebSocketError("upgrade")
		a.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	c := &liveConn{
		id:     id,
		app:    a,
		conn:   conn,
		logger: a.logger.With("conn", id, "remote", r.RemoteAddr),
		done:   make(chan struct{}),
	}

	a.connsMu.Lock()
	a.conns[c] = struct{}{}
	a.connsMu.Unlock()
	a.config.Metrics.LiveConnected()

	defer func() {
		a.connsMu.Lock()
		delete(a.conns, c)
		a.connsMu.Unlock()
		a.config.Metrics.LiveDisconnected()
		c.close(websocket.CloseNormalClosure, "")
	}()

	c.logger.Debug("live connection opened")
	go c.pingLoop(a.config.Live.pingInterval())
	c.readLoop(r.Context())
}

// readLoop reads client frames until the connection fails.
func (c *liveConn) readLoop(ctx context.Context) {
	timeout := c.app.config.Live.ReadTimeout
	c.conn.SetReadDeadline(time.Now().Add(timeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(timeout))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.app.config.Metrics.WebSocketError("read")
				c.logger.Error("read error", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(timeout))

		var frame ClientFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			c.app.config.Metrics.WebSocketError("decode")
			c.logger.Warn("frame decode error", "error", err)
			c.send(ServerFrame{Type: FrameError, Code: "E021", Error: "malformed frame"})
			continue
		}

		switch frame.Type {
		case FrameNavigate:
			c.send(c.app.navigate(ctx, frame.Path))
		default:
			c.logger.Warn("unknown frame type", "type", frame.Type)
			c.send(ServerFrame{Type: FrameError, Error: "unknown frame type " + frame.Type})
		}
	}
}

// pingLoop keeps the connection alive until it closes.
func (c *liveConn) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.app.config.Live.WriteTimeout)
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, deadline)
			c.writeMu.Unlock()
			if err != nil {
				c.app.config.Metrics.WebSocketError("ping")
				return
			}
		}
	}
}

// send writes one frame.
func (c *liveConn) send(frame ServerFrame) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.app.config.Live.WriteTimeout))
	if err := c.conn.WriteJSON(frame); err != nil {
		c.app.config.Metrics.WebSocketError("write")
		c.logger.Warn("write error", "error", err)
	}
}

// close sends a close frame and closes the connection. Safe to call more
// than once.
func (c *liveConn) close(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()
		c.conn.Close()
	})
}

// navigate resolves a live navigation and renders the routed content.
func (a *App) navigate(ctx context.Context, path string) ServerFrame {
	start := time.Now()
	_, span := a.config.Tracer.StartNavigation(ctx, middleware.SourceLive, path)

	loc, err := a.router.Navigate(path)
	if loc == nil {
		a.config.Tracer.EndNavigation(span, &router.Location{Path: path}, http.StatusBadRequest, err)
		a.logger.Warn("invalid navigation", "path", path, "error", err)
		return ServerFrame{Type: FrameError, Path: path, Code: errors.CodeOf(err), Error: err.Error()}
	}

	content, status := a.renderLocation(loc)
	html, renderErr := a.renderer.RenderToString(content)
	if renderErr != nil {
		status = http.StatusInternalServerError
		err = renderErr
	}

	a.config.Metrics.ObserveNavigation(loc.Label(), status, middleware.SourceLive, time.Since(start))
	if status == http.StatusNotFound {
		// A miss is a normal outcome; the span stays OK.
		a.config.Tracer.EndNavigation(span, loc, status, nil)
	} else {
		a.config.Tracer.EndNavigation(span, loc, status, err)
	}

	if renderErr != nil {
		a.logger.Error("render failed", "path", path, "error", renderErr)
		return ServerFrame{Type: FrameError, Path: loc.Path, Status: status, Error: "render error"}
	}

	a.logger.Debug("live navigation", "path", loc.Path, "route", loc.Label(), "status", status)

	url := a.router.History().Href(loc.Path)
	if loc.Query != "" {
		url += "?" + loc.Query
	}
	return ServerFrame{
		Type:   FrameRender,
		Path:   loc.Path,
		URL:    url,
		Status: status,
		Title:  a.title(loc),
		HTML:   html,
	}
}
