package routepath

import "strings"

// NormalizeBase turns a configured base path into the form "/", "/shop/".
// Empty and "." values (as emitted by bundlers for relative bases) mean "/".
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == "./" {
		return "/"
	}
	base = "/" + strings.Trim(base, "/")
	if base == "/" {
		return base
	}
	return base + "/"
}

// JoinBase prefixes a canonical route path with a normalized base.
func JoinBase(base, path string) string {
	base = NormalizeBase(base)
	if path == "" || path == "/" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// StripBase removes a normalized base from a request path. ok is false when
// the path lies outside the base.
func StripBase(base, path string) (string, bool) {
	base = NormalizeBase(base)
	if base == "/" {
		if path == "" {
			return "/", true
		}
		return path, strings.HasPrefix(path, "/")
	}

	trimmed := strings.TrimSuffix(base, "/")
	switch {
	case path == trimmed || path == base:
		return "/", true
	case strings.HasPrefix(path, base):
		return "/" + strings.TrimPrefix(path, base), true
	default:
		return "", false
	}
}
