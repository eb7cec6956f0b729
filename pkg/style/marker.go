package style

import "github.com/matzehuels/cssgraph/pkg/canvas"

// MarkerDefsSupport creates the shared arrow marker definition referenced by
// edge paths through marker-end.
type MarkerDefsSupport struct {
	// CSSClass is the edge class; the marker path gets CSSClass + "-arrow".
	CSSClass string
}

func (m *MarkerDefsSupport) CreateDefsElement(*canvas.Context) *canvas.Element {
	marker := canvas.NewElement("marker")
	marker.SetAttr("viewBox", MarkerViewBox)
	marker.SetAttr("refX", MarkerRefX)
	marker.SetAttr("refY", MarkerRefY)
	marker.SetAttr("markerWidth", MarkerSize)
	marker.SetAttr("markerHeight", MarkerSize)
	marker.SetAttr("orient", MarkerOrient)

	path := canvas.NewElement("path")
	path.SetAttr("d", MarkerPath)
	path.SetAttr("fill", EdgeColor)
	if m.CSSClass != "" {
		path.SetAttr("class", m.CSSClass+ArrowClassSuffix)
	}
	marker.AppendChild(path)
	return marker
}

// Accept reports whether el points its marker-end at the definition id.
func (m *MarkerDefsSupport) Accept(_ *canvas.Context, el *canvas.Element, id string) bool {
	return canvas.IsAttributeReference(el, "marker-end", id)
}

// UpdateDefsElement does nothing; the marker never changes after creation.
func (m *MarkerDefsSupport) UpdateDefsElement(*canvas.Context, *canvas.Element) {}
