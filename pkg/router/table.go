package router

import (
	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/routepath"
)

type entry struct {
	route   Route
	pattern pattern
}

// Table is an ordered, immutable list of route entries.
// It is safe for concurrent use.
type Table struct {
	entries []entry
	byName  map[string]int
}

// NewTable validates routes and builds a table. Entry order is preserved
// and decides resolution: the first matching entry wins.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		entries: make([]entry, 0, len(routes)),
		byName:  make(map[string]int),
	}
	seen := make(map[string]string)
	roots := 0

	for i, r := range routes {
		if r.View == nil {
			return nil, errors.New("E004").WithDetailf("route %d (%q) has no view", i, r.Path)
		}
		p, err := compilePattern(r.Path)
		if err != nil {
			return nil, errors.New("E004").Wrap(err)
		}

		key := p.key()
		if prev, ok := seen[key]; ok {
			return nil, errors.New("E001").
				WithDetailf("%q and %q match the same paths", prev, r.Path).
				WithSuggestion("Keep exactly one entry per pattern")
		}
		seen[key] = r.Path

		if r.Name != "" {
			if j, ok := t.byName[r.Name]; ok {
				return nil, errors.New("E002").
					WithDetailf("name %q is used by %q and %q", r.Name, t.entries[j].route.Path, r.Path)
			}
			t.byName[r.Name] = len(t.entries)
		}

		if _, ok := p.match(nil); ok {
			roots++
		}
		t.entries = append(t.entries, entry{route: r, pattern: p})
	}

	if roots != 1 {
		return nil, errors.New("E003").
			WithDetailf("%d entries match \"/\", want exactly 1", roots).
			WithSuggestion(`Declare a single route with Path "/"`)
	}
	return t, nil
}

// MustTable is like NewTable but panics on an invalid table. It is meant
// for package-level route declarations.
func MustTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Routes returns a copy of the entries in table order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.route
	}
	return out
}

// Lookup returns the route with the given name.
func (t *Table) Lookup(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.entries[i].route, true
}

// Params returns the parameter names of the route at index i.
func (t *Table) Params(i int) []string {
	return t.entries[i].pattern.params()
}

// Match resolves a route path (no base prefix) against the table.
// The returned location is never nil; ok is false on a navigation miss or
// when the path cannot be canonicalized.
func (t *Table) Match(path string) (*Location, bool) {
	res, err := routepath.Canonicalize(path)
	if err != nil {
		return &Location{Path: path, Params: map[string]string{}}, false
	}

	loc := &Location{Path: res.Path, Query: res.Query, Params: map[string]string{}}
	parts := routepath.Split(res.Path)

	for i := range t.entries {
		if params, ok := t.entries[i].pattern.match(parts); ok {
			route := t.entries[i].route
			loc.Route = &route
			loc.Params = params
			return loc, true
		}
	}
	return loc, false
}

// Resolve builds the route path of a named route.
func (t *Table) Resolve(name string, params map[string]string) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		return "", errors.New("E010").WithDetailf("no route named %q", name)
	}
	path, err := t.entries[i].pattern.build(params)
	if err != nil {
		return "", errors.New("E011").WithDetailf("route %q: %v", name, err)
	}
	return path, nil
}
