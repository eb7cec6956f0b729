package cache

// Keyer generates cache keys. Keys are namespaced by kind and hash all
// options that influence the cached value.
type Keyer interface {
	// GraphKey identifies a generated graph.
	GraphKey(opts GraphKeyOpts) string

	// LayoutKey identifies a layout of the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered document for a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the generator settings that shape a graph.
type GraphKeyOpts struct {
	Nodes               int     `json:"nodes"`
	Initial             int     `json:"initial"`
	Attach              int     `json:"attach"`
	SelfLoopProbability float64 `json:"self_loop_probability"`
	Seed                uint64  `json:"seed"`
	LabelSize           float64 `json:"label_size"`
}

// LayoutKeyOpts are the layout settings that shape node positions.
type LayoutKeyOpts struct {
	Algorithm string  `json:"algorithm"`
	RankSep   float64 `json:"rank_sep"`
	NodeSep   float64 `json:"node_sep"`
}

// ArtifactKeyOpts are the render settings that shape a document.
type ArtifactKeyOpts struct {
	Format           string `json:"format"`
	MarkerArrows     bool   `json:"marker_arrows"`
	BadMarkerSupport bool   `json:"bad_marker_support"`
	Bridges          string `json:"bridges"`
	CSSHash          string `json:"css_hash,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) GraphKey(opts GraphKeyOpts) string {
	return hashKey("graph", opts)
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
