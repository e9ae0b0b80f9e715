package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vango-dev/storefront/pkg/routepath"
)

type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
	segCatchAll
)

type segment struct {
	kind  segmentKind
	value string // literal for static segments, parameter name otherwise
}

// pattern is a compiled route path.
type pattern struct {
	raw      string
	segments []segment
}

// compilePattern parses a route pattern.
func compilePattern(raw string) (pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return pattern{}, fmt.Errorf("pattern %q must start with /", raw)
	}

	p := pattern{raw: raw}
	seen := make(map[string]bool)
	parts := routepath.Split(raw)

	for i, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return pattern{}, fmt.Errorf("pattern %q: %w", raw, err)
		}
		if seg.kind == segCatchAll && i != len(parts)-1 {
			return pattern{}, fmt.Errorf("pattern %q: catch-all must be the last segment", raw)
		}
		if seg.kind != segStatic {
			if seen[seg.value] {
				return pattern{}, fmt.Errorf("pattern %q: parameter %q repeated", raw, seg.value)
			}
			seen[seg.value] = true
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

func parseSegment(part string) (segment, error) {
	var kind segmentKind
	var name string

	switch {
	case part == "":
		return segment{}, fmt.Errorf("empty segment")
	case strings.HasPrefix(part, ":"):
		kind, name = segParam, part[1:]
	case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
		kind, name = segParam, part[1:len(part)-1]
	case strings.HasPrefix(part, "*"):
		kind, name = segCatchAll, part[1:]
	default:
		return segment{kind: segStatic, value: part}, nil
	}

	if name == "" || strings.ContainsAny(name, ":{}*") {
		return segment{}, fmt.Errorf("invalid parameter segment %q", part)
	}
	return segment{kind: kind, value: name}, nil
}

// key identifies the set of paths a pattern matches, ignoring parameter names.
func (p pattern) key() string {
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.kind {
		case segStatic:
			b.WriteString(seg.value)
		case segParam:
			b.WriteString(":")
		case segCatchAll:
			b.WriteString("*")
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// params lists the parameter names in order.
func (p pattern) params() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.kind != segStatic {
			names = append(names, seg.value)
		}
	}
	return names
}

// match binds raw (still escaped) path segments against the pattern.
func (p pattern) match(parts []string) (map[string]string, bool) {
	params := make(map[string]string)

	for i, seg := range p.segments {
		if seg.kind == segCatchAll {
			if i >= len(parts) {
				return nil, false
			}
			rest, err := routepath.DecodeSegment(strings.Join(parts[i:], "/"), true)
			if err != nil {
				return nil, false
			}
			params[seg.value] = rest
			return params, true
		}

		if i >= len(parts) {
			return nil, false
		}
		value, err := routepath.DecodeSegment(parts[i], false)
		if err != nil {
			return nil, false
		}

		switch seg.kind {
		case segStatic:
			if value != seg.value {
				return nil, false
			}
		case segParam:
			if value == "" {
				return nil, false
			}
			params[seg.value] = value
		}
	}

	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// build produces a concrete path from parameter values.
func (p pattern) build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.kind == segStatic {
			b.WriteString(seg.value)
			continue
		}

		value, ok := params[seg.value]
		if !ok || value == "" {
			return "", fmt.Errorf("missing value for parameter %q", seg.value)
		}
		if seg.kind == segCatchAll {
			parts := strings.Split(strings.Trim(value, "/"), "/")
			for i, part := range parts {
				parts[i] = url.PathEscape(part)
			}
			b.WriteString(strings.Join(parts, "/"))
		} else {
			b.WriteString(url.PathEscape(value))
		}
	}
	return b.String(), nil
}
