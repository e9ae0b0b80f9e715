package vdom

import (
	"fmt"
	"strings"
)

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}
	node.apply(children)
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// Walk visits node and its descendants depth-first. Components are
// expanded by calling Render. Returning false from fn stops the walk.
func Walk(node *VNode, fn func(*VNode) bool) bool {
	if node == nil {
		return true
	}
	if !fn(node) {
		return false
	}
	if node.Kind == KindComponent && node.Comp != nil {
		return Walk(node.Comp.Render(), fn)
	}
	for _, child := range node.Children {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// FindByID returns every element in the tree whose id attribute equals id.
func FindByID(root *VNode, id string) []*VNode {
	var found []*VNode
	Walk(root, func(n *VNode) bool {
		if n.ID() == id {
			found = append(found, n)
		}
		return true
	})
	return found
}

// TextContent concatenates the text of all text nodes under node.
func TextContent(node *VNode) string {
	var b strings.Builder
	Walk(node, func(n *VNode) bool {
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}
