package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/storefront/pkg/vdom"
)

// PageData contains the document-level data for one rendered page.
type PageData struct {
	// Title is the document title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// MountID is the id of the element the application mounts into.
	MountID string

	// BaseHref is the application base path, exposed to the client.
	BaseHref string

	// History is the history mode name ("web" or "hash"), exposed to the client.
	History string

	// ClientScript is the path of the thin navigation client.
	// No script tag is emitted when empty.
	ClientScript string

	// LiveEndpoint is the WebSocket path the client connects to.
	LiveEndpoint string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Meta contains name/content meta tags.
	Meta map[string]string
}

// Shell builds the complete document tree for a page. The returned tree must
// contain exactly one element whose id equals page.MountID.
type Shell func(page PageData) *vdom.VNode

// DefaultShell is the standard document: head metadata, the mount point and
// the client script.
func DefaultShell(page PageData) *vdom.VNode {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := []any{
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
	}
	if page.Title != "" {
		head = append(head, vdom.Title(page.Title))
	}
	for _, name := range sortedKeys(page.Meta) {
		head = append(head, vdom.Meta(vdom.Name(name), vdom.Content(page.Meta[name])))
	}
	for _, href := range page.StyleSheets {
		head = append(head, vdom.Link(vdom.Rel("stylesheet"), vdom.Href(href)))
	}

	var script *vdom.VNode
	if page.ClientScript != "" {
		script = vdom.Script(
			vdom.Src(page.ClientScript),
			vdom.Defer(),
			vdom.Data("base", page.BaseHref),
			vdom.Data("history", page.History),
			vdom.Data("live", page.LiveEndpoint),
			vdom.Data("mount", page.MountID),
		)
	}

	return vdom.Html(vdom.Lang(lang),
		vdom.Head(head...),
		vdom.Body(
			vdom.Div(vdom.ID(page.MountID)),
			script,
		),
	)
}

// MountPoints returns the elements of the shell that carry the mount id.
func MountPoints(shell Shell, page PageData) []*vdom.VNode {
	return vdom.FindByID(shell(page), page.MountID)
}

// RenderDocument renders a complete HTML document: it builds the shell,
// places content inside the mount element and writes the result to w.
func (r *Renderer) RenderDocument(w io.Writer, shell Shell, page PageData, content *vdom.VNode) error {
	doc := shell(page)
	mounts := vdom.FindByID(doc, page.MountID)
	if len(mounts) != 1 {
		return fmt.Errorf("render: shell has %d elements with id %q, want 1", len(mounts), page.MountID)
	}
	mounts[0].Children = nil
	if content != nil {
		mounts[0].Children = []*vdom.VNode{content}
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, doc)
}
