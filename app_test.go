package storefront

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/storefront/app/routes"
	"github.com/vango-dev/storefront/app/views"
	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/plugin"
	"github.com/vango-dev/storefront/pkg/render"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/vdom"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resetProcess(t *testing.T) {
	t.Helper()
	reset := func() {
		process.mu.Lock()
		process.app = nil
		process.mu.Unlock()
	}
	reset()
	t.Cleanup(reset)
}

func testConfig() Config {
	return Config{
		Title:    "Storefront",
		Fallback: views.NotFound,
		Logger:   quietLogger(),
	}
}

func mustInitialize(t *testing.T, cfg Config) *App {
	t.Helper()
	resetProcess(t)

	table, err := routes.Table()
	if err != nil {
		t.Fatal(err)
	}
	app, err := Initialize(cfg, views.Frame, table)
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return app
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// mountContent returns the markup inside the mount element.
func mountContent(t *testing.T, body string) string {
	t.Helper()
	const open = `<div id="app">`
	i := strings.Index(body, open)
	if i < 0 {
		t.Fatalf("no mount element in:\n%s", body)
	}
	rest := body[i+len(open):]
	j := strings.LastIndex(rest, `</div><script`)
	if j < 0 {
		t.Fatalf("no end of mount element in:\n%s", body)
	}
	return rest[:j]
}

func TestInitializeServesRoutes(t *testing.T) {
	app := mustInitialize(t, testConfig())

	if !app.Mounted() {
		t.Fatal("app should be mounted")
	}
	if app.MountID() != "app" {
		t.Errorf("MountID() = %q", app.MountID())
	}

	tests := []struct {
		path    string
		status  int
		want    []string
		notWant []string
	}{
		{
			path:    "/",
			status:  http.StatusOK,
			want:    []string{`class="home"`, `href="/product/42"`, "<h2>Featured products</h2>", `<footer class="storefront-footer">`, "<noscript>"},
			notWant: []string{`class="product"`, "Page not found"},
		},
		{
			path:    "/product/42",
			status:  http.StatusOK,
			want:    []string{`data-product-id="42"`, "Product 42", "<strong>42</strong>"},
			notWant: []string{`class="home"`},
		},
		{
			path:   "/product/abc",
			status: http.StatusOK,
			want:   []string{`data-product-id="abc"`},
		},
		{
			path:   "/product/100%25",
			status: http.StatusOK,
			want:   []string{`data-product-id="100%"`},
		},
		{
			path:   "/product/%2541",
			status: http.StatusOK,
			want:   []string{`data-product-id="%41"`},
		},
		{
			path:    "/does-not-exist",
			status:  http.StatusNotFound,
			want:    []string{"Page not found", "<title>Page not found · Storefront</title>"},
			notWant: []string{`class="home"`, `class="product"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, app, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			body := rec.Body.String()
			if !strings.HasPrefix(body, "<!DOCTYPE html>") {
				t.Errorf("missing doctype")
			}
			content := mountContent(t, body)
			if content == "" {
				t.Error("mount point is empty")
			}
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(content, s) {
					t.Errorf("mount content unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestInitializeTwice(t *testing.T) {
	mustInitialize(t, testConfig())

	table, _ := routes.Table()
	_, err := Initialize(testConfig(), views.Frame, table)
	if !errors.HasCode(err, "E102") {
		t.Fatalf("second Initialize err = %v, want E102", err)
	}
}

func TestMountTwice(t *testing.T) {
	table, _ := routes.Table()
	r := router.New(table, router.WebHistory("/"))

	app, err := New(testConfig(), views.Frame).Use(r).Mount("#app")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.Mount("#app"); !errors.HasCode(err, "E102") {
		t.Fatalf("second Mount err = %v, want E102", err)
	}
}

func TestMountPointMissing(t *testing.T) {
	resetProcess(t)

	cfg := testConfig()
	cfg.Shell = func(page render.PageData) *vdom.VNode {
		return vdom.Html(vdom.Body(vdom.Div(vdom.ID("root"))))
	}
	table, _ := routes.Table()

	app, err := Initialize(cfg, views.Frame, table)
	if !errors.HasCode(err, "E101") {
		t.Fatalf("err = %v, want E101", err)
	}
	if app != nil {
		t.Error("Initialize should not return an app on failure")
	}

	// A failed bootstrap does not count as initialized.
	if _, err := Initialize(testConfig(), views.Frame, table); err != nil {
		t.Errorf("Initialize after failure: %v", err)
	}
}

func TestMountPointDuplicated(t *testing.T) {
	cfg := testConfig()
	cfg.Shell = func(page render.PageData) *vdom.VNode {
		return vdom.Html(vdom.Body(vdom.Div(vdom.ID(page.MountID)), vdom.Div(vdom.ID(page.MountID))))
	}
	table, _ := routes.Table()

	app, err := New(cfg, views.Frame).Use(router.New(table, router.WebHistory("/"))).Mount("#app")
	if !errors.HasCode(err, "E101") {
		t.Fatalf("err = %v, want E101", err)
	}
	if app.Mounted() {
		t.Error("app should stay unmounted")
	}
}

func TestMountSelector(t *testing.T) {
	table, _ := routes.Table()

	for _, sel := range []string{"app", "#", ".app", "#a b", "div#app"} {
		app := New(testConfig(), views.Frame).Use(router.New(table, router.WebHistory("/")))
		if _, err := app.Mount(sel); !errors.HasCode(err, "E103") {
			t.Errorf("Mount(%q) err = %v, want E103", sel, err)
		}
	}
}

func TestMountWithoutRouter(t *testing.T) {
	_, err := New(testConfig(), views.Frame).Mount("#app")
	if !errors.HasCode(err, "E104") {
		t.Fatalf("err = %v, want E104", err)
	}
}

func TestPluginError(t *testing.T) {
	table, _ := routes.Table()
	failing := plugin.Func(func(plugin.Host) error { return io.ErrUnexpectedEOF })

	app, err := New(testConfig(), views.Frame).
		Use(router.New(table, router.WebHistory("/")), failing).
		Mount("#app")
	if !errors.HasCode(err, "E104") {
		t.Fatalf("err = %v, want E104", err)
	}
	if app.Mounted() {
		t.Error("app should stay unmounted")
	}
}

func TestRouterProvided(t *testing.T) {
	table, _ := routes.Table()
	r := router.New(table, router.WebHistory("/"))
	app := New(testConfig(), views.Frame).Use(r)

	v, ok := app.Value(router.Key{})
	if !ok || v.(*router.Router) != r {
		t.Fatalf("router not provided: %v %v", v, ok)
	}
	if app.Router() != r {
		t.Error("Router() mismatch")
	}
}

func TestUnmountedServes503(t *testing.T) {
	app := New(testConfig(), views.Frame)
	rec := get(t, app, "/")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "E105") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.BaseURL = "/shop/"
	app := mustInitialize(t, cfg)

	rec := get(t, app, "/shop/product/42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-base="/shop/"`) {
		t.Error("client script missing base")
	}

	if rec := get(t, app, "/shop"); rec.Code != http.StatusOK {
		t.Errorf("/shop status = %d, want 200", rec.Code)
	}
	if rec := get(t, app, "/product/42"); rec.Code != http.StatusNotFound {
		t.Errorf("path outside base status = %d, want 404", rec.Code)
	}
	if rec := get(t, app, "/shopping"); rec.Code != http.StatusNotFound {
		t.Errorf("/shopping status = %d, want 404", rec.Code)
	}

	// The client applies the same segment boundary before sending a navigate frame.
	script := get(t, app, ClientPath).Body.String()
	if !strings.Contains(script, `path.indexOf(trimmed + "/") !== 0`) {
		t.Error("client base check does not stop at a segment boundary")
	}
}

func TestHashHistory(t *testing.T) {
	cfg := testConfig()
	cfg.History = router.ModeHash
	app := mustInitialize(t, cfg)

	rec := get(t, app, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `href="/#/product/42"`) {
		t.Error("expected fragment links in hash mode")
	}
}

func TestNoFallbackLeavesOutletEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.Fallback = nil
	app := mustInitialize(t, cfg)

	rec := get(t, app, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<main class="storefront-main"></main>`) {
		t.Errorf("expected an empty outlet:\n%s", rec.Body.String())
	}
}

func TestHealthAndClient(t *testing.T) {
	app := mustInitialize(t, testConfig())

	rec := get(t, app, HealthPath)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = get(t, app, ClientPath)
	if rec.Code != http.StatusOK {
		t.Fatalf("client status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "javascript") {
		t.Errorf("client Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	etag := rec.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, ClientPath, nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional client status = %d, want 304", rec.Code)
	}

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if rec := get(t, app, HealthPath); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz after shutdown = %d, want 503", rec.Code)
	}
}

func TestHeadRequest(t *testing.T) {
	app := mustInitialize(t, testConfig())

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/product/1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("HEAD status = %d, want 200", rec.Code)
	}
}

func TestDocumentMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := testConfig()
	cfg.Metrics = middleware.NewMetrics(middleware.WithRegistry(reg))
	resetProcess(t)

	table, _ := routes.Table()
	app, err := Initialize(cfg, views.Frame, table, middleware.MetricsEndpoint("/metrics", reg))
	if err != nil {
		t.Fatal(err)
	}

	get(t, app, "/product/42")
	get(t, app, "/missing")

	body := get(t, app, "/metrics").Body.String()
	for _, want := range []string{
		`storefront_navigations_total{route="ProductDetails",source="document",status="200"} 1`,
		`storefront_navigations_total{route="not_found",source="document",status="404"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
