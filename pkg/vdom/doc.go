// Package vdom provides the virtual node tree that storefront views render to.
//
// Views build trees with variadic element factories:
//
//	Main(Class("product"),
//	    H1(Text("Product")),
//	    P(Textf("id: %s", id)),
//	)
//
// Arguments may be attributes (Attr, []Attr), children (*VNode, []*VNode,
// Component, string) or nil, which is skipped so conditional content can be
// written inline. The tree is turned into HTML by package render.
//
// Walk, FindByID and TextContent inspect a tree; the bootstrap uses FindByID
// to verify that the document shell exposes the mount point.
package vdom
