package router

import (
	"testing"

	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/vdom"
)

func staticView(text string) View {
	return func(ctx ViewContext) *vdom.VNode {
		return vdom.Div(vdom.Data("view", text), text)
	}
}

func storeTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		Route{Path: "/", Name: "Home", View: staticView("home")},
		Route{Path: "/product/:id", Name: "ProductDetails", View: staticView("product"), Props: true},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestTableMatch(t *testing.T) {
	table := storeTable(t)

	tests := []struct {
		path   string
		name   string
		params map[string]string
	}{
		{path: "/", name: "Home", params: map[string]string{}},
		{path: "", name: "Home", params: map[string]string{}},
		{path: "/product/42", name: "ProductDetails", params: map[string]string{"id": "42"}},
		{path: "/product/abc", name: "ProductDetails", params: map[string]string{"id": "abc"}},
		{path: "/product/42/", name: "ProductDetails", params: map[string]string{"id": "42"}},
		{path: "/product/a%20b", name: "ProductDetails", params: map[string]string{"id": "a b"}},
		{path: "/product/42?ref=x", name: "ProductDetails", params: map[string]string{"id": "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, ok := table.Match(tt.path)
			if !ok {
				t.Fatalf("Match(%q) missed", tt.path)
			}
			if loc.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", loc.Name(), tt.name)
			}
			if len(loc.Params) != len(tt.params) {
				t.Fatalf("Params = %v, want %v", loc.Params, tt.params)
			}
			for k, v := range tt.params {
				if loc.Params[k] != v {
					t.Errorf("Params[%q] = %q, want %q", k, loc.Params[k], v)
				}
			}
		})
	}
}

func TestTableMatchMiss(t *testing.T) {
	table := storeTable(t)

	for _, path := range []string{
		"/does-not-exist",
		"/product",
		"/product/42/reviews",
		"/product/a%2Fb",
		"/../etc/passwd",
	} {
		loc, ok := table.Match(path)
		if ok {
			t.Errorf("Match(%q) matched %q", path, loc.Name())
		}
		if loc == nil || loc.Matched() || loc.Params == nil {
			t.Errorf("Match(%q) location = %+v", path, loc)
		}
		if loc.Label() != "not_found" {
			t.Errorf("Label() = %q", loc.Label())
		}
	}
}

func TestTableFirstMatchWins(t *testing.T) {
	table, err := NewTable(
		Route{Path: "/", View: staticView("home")},
		Route{Path: "/product/new", Name: "New", View: staticView("new")},
		Route{Path: "/product/:id", Name: "Detail", View: staticView("detail")},
	)
	if err != nil {
		t.Fatal(err)
	}

	loc, _ := table.Match("/product/new")
	if loc.Name() != "New" {
		t.Errorf("/product/new resolved to %q, want New", loc.Name())
	}
	loc, _ = table.Match("/product/7")
	if loc.Name() != "Detail" {
		t.Errorf("/product/7 resolved to %q, want Detail", loc.Name())
	}
}

func TestTableCatchAll(t *testing.T) {
	table, err := NewTable(
		Route{Path: "/", View: staticView("home")},
		Route{Path: "/docs/*rest", Name: "Docs", View: staticView("docs")},
	)
	if err != nil {
		t.Fatal(err)
	}

	loc, ok := table.Match("/docs/guide/routing")
	if !ok || loc.Params["rest"] != "guide/routing" {
		t.Errorf("catch-all = %v %v", ok, loc.Params)
	}
	if _, ok := table.Match("/docs"); ok {
		t.Error("catch-all should need at least one segment")
	}
}

func TestNewTableInvariants(t *testing.T) {
	home := Route{Path: "/", Name: "Home", View: staticView("home")}

	tests := []struct {
		name   string
		routes []Route
		code   string
	}{
		{
			name: "duplicate path",
			routes: []Route{
				home,
				{Path: "/product/:id", View: staticView("a")},
				{Path: "/product/{sku}", View: staticView("b")},
			},
			code: "E001",
		},
		{
			name: "duplicate name",
			routes: []Route{
				home,
				{Path: "/about", Name: "Home", View: staticView("about")},
			},
			code: "E002",
		},
		{
			name:   "no root",
			routes: []Route{{Path: "/about", View: staticView("about")}},
			code:   "E003",
		},
		{
			name:   "empty table",
			routes: nil,
			code:   "E003",
		},
		{
			name:   "two roots",
			routes: []Route{home, {Path: "//", View: staticView("again")}},
			code:   "E001",
		},
		{
			name:   "nil view",
			routes: []Route{{Path: "/"}},
			code:   "E004",
		},
		{
			name:   "relative pattern",
			routes: []Route{home, {Path: "about", View: staticView("about")}},
			code:   "E004",
		},
		{
			name:   "catch-all not last",
			routes: []Route{home, {Path: "/a/*rest/b", View: staticView("x")}},
			code:   "E004",
		},
		{
			name:   "repeated param",
			routes: []Route{home, {Path: "/a/:id/:id", View: staticView("x")}},
			code:   "E004",
		},
		{
			name:   "empty param name",
			routes: []Route{home, {Path: "/a/:", View: staticView("x")}},
			code:   "E004",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.routes...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestMustTablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustTable should panic on an invalid table")
		}
	}()
	MustTable(Route{Path: "/about", View: staticView("about")})
}

func TestTableRoutesIsCopy(t *testing.T) {
	table := storeTable(t)
	routes := table.Routes()
	routes[0].Name = "Mutated"

	if r, ok := table.Lookup("Home"); !ok || r.Path != "/" {
		t.Error("mutating Routes() changed the table")
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d", table.Len())
	}
	if got := table.Params(1); len(got) != 1 || got[0] != "id" {
		t.Errorf("Params(1) = %v", got)
	}
}

func TestTableResolve(t *testing.T) {
	table := storeTable(t)

	tests := []struct {
		name   string
		params map[string]string
		want   string
		code   string
	}{
		{name: "Home", want: "/"},
		{name: "ProductDetails", params: map[string]string{"id": "42"}, want: "/product/42"},
		{name: "ProductDetails", params: map[string]string{"id": "a b/c"}, want: "/product/a%20b%2Fc"},
		{name: "ProductDetails", code: "E011"},
		{name: "ProductDetails", params: map[string]string{"id": ""}, code: "E011"},
		{name: "Cart", code: "E010"},
	}

	for _, tt := range tests {
		got, err := table.Resolve(tt.name, tt.params)
		if tt.code != "" {
			if !errors.HasCode(err, tt.code) {
				t.Errorf("Resolve(%s, %v) err = %v, want %s", tt.name, tt.params, err, tt.code)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Resolve(%s, %v) = %q, %v; want %q", tt.name, tt.params, got, err, tt.want)
		}
	}
}

func TestResolveRoundTrip(t *testing.T) {
	table := storeTable(t)
	for _, id := range []string{"42", "abc", "a b", "ü"} {
		path, err := table.Resolve("ProductDetails", map[string]string{"id": id})
		if err != nil {
			t.Fatal(err)
		}
		loc, ok := table.Match(path)
		if !ok || loc.Params["id"] != id {
			t.Errorf("round trip %q via %q = %v", id, path, loc.Params)
		}
	}
}
