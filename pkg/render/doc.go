// Package render provides server-side rendering for storefront views.
//
// The renderer converts vdom trees into HTML, escaping text and attribute
// values, handling void and boolean attributes, and expanding components.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Documents
//
// A Shell builds the full HTML document around the application. It must
// contain exactly one element carrying the mount point id; RenderDocument
// replaces that element's children with the rendered view:
//
//	doc := render.PageData{Title: "Storefront", MountID: "app", ClientScript: "/_storefront/client.js"}
//	err := renderer.RenderDocument(w, render.DefaultShell, doc, content)
//
// # Security
//
// All text content and attribute values are escaped; there is no way to
// insert unescaped HTML from a view.
package render
