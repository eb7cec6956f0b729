// Package assets provides the files embedded into cssgraph binaries: the
// built-in stylesheet and the HTML viewer page.
//
// The files are embedded with go:embed, so rendered documents never depend
// on files next to the binary.
package assets

import (
	_ "embed"
	"html/template"
	"io"
	"sync"
)

//go:embed default.css
var defaultCSS string

//go:embed page.html
var pageHTML string

// DefaultCSS returns the built-in stylesheet. Its class names match the
// style package defaults.
func DefaultCSS() string {
	return defaultCSS
}

// pageTemplate is parsed once on first use.
var pageTemplate = sync.OnceValues(func() (*template.Template, error) {
	return template.New("page").Parse(pageHTML)
})

// PageData fills the viewer page.
type PageData struct {
	Title      string
	CSS        template.CSS
	SVG        template.HTML
	Nodes      int
	Edges      int
	BadMarkers bool

	// StreamURL is the websocket path the page connects to for the morph
	// animation. The page is static when it is empty.
	StreamURL string

	// JSONURL links the graph data when set.
	JSONURL string
}

// WritePage renders the viewer page to w.
func WritePage(w io.Writer, data PageData) error {
	t, err := pageTemplate()
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}
