package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/storefront/pkg/routepath"
)

// Mode selects how route paths appear in the browser address bar.
type Mode string

const (
	// ModeWeb uses clean URLs: /shop/product/42.
	ModeWeb Mode = "web"

	// ModeHash keeps the route in the fragment: /shop/#/product/42.
	ModeHash Mode = "hash"
)

// ParseMode parses a history mode name. The empty string means ModeWeb.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeWeb:
		return ModeWeb, nil
	case ModeHash:
		return ModeHash, nil
	default:
		return "", fmt.Errorf("unknown history mode %q (want %q or %q)", s, ModeWeb, ModeHash)
	}
}

// History maps route paths to URLs under an application base path.
type History struct {
	mode Mode
	base string
}

// WebHistory returns clean-URL history scoped to base.
func WebHistory(base string) History {
	return History{mode: ModeWeb, base: routepath.NormalizeBase(base)}
}

// HashHistory returns fragment history scoped to base.
func HashHistory(base string) History {
	return History{mode: ModeHash, base: routepath.NormalizeBase(base)}
}

// NewHistory returns the history for a mode.
func NewHistory(mode Mode, base string) History {
	if mode == ModeHash {
		return HashHistory(base)
	}
	return WebHistory(base)
}

// Mode returns the history mode.
func (h History) Mode() Mode {
	if h.mode == "" {
		return ModeWeb
	}
	return h.mode
}

// Base returns the normalized base path.
func (h History) Base() string {
	if h.base == "" {
		return "/"
	}
	return h.base
}

// Href returns the URL for a route path.
func (h History) Href(path string) string {
	if h.Mode() == ModeHash {
		if path == "" {
			path = "/"
		}
		return h.Base() + "#" + path
	}
	return routepath.JoinBase(h.Base(), path)
}

// Location extracts the route path from a request path. In hash mode the
// server only ever sees the base itself, which maps to "/"; the client
// resolves the fragment. ok is false for paths outside the base.
func (h History) Location(requestPath string) (string, bool) {
	path, ok := routepath.StripBase(h.Base(), requestPath)
	if !ok {
		return "", false
	}
	if h.Mode() == ModeHash && path != "/" {
		return "", false
	}
	return path, true
}
