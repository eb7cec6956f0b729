package style

// Geometry constants.
const (
	// SelfLoopDistance is how far a self-loop reaches beyond the top-left
	// corner of its node.
	SelfLoopDistance = 20.0

	// SmoothingLength is the maximum length over which polyline corners are
	// rounded.
	SmoothingLength = 200.0

	// HitTestSlack widens edge hit tests beyond the context radius.
	HitTestSlack = 1.0

	// MarkerCropLength is the gap left for an SVG marker arrow.
	MarkerCropLength = 6.0

	ArrowLength     = 5.5
	ArrowCropLength = 1.0

	// Arrow bounds are a fixed square around the anchor, independent of the
	// direction.
	ArrowBoundsOffset = 8.0
	ArrowBoundsSize   = 32.0
)

// NoBridgesObstacleHash is the obstacle hash used when no bridge manager is
// installed.
const NoBridgesObstacleHash uint64 = 42

// Paint constants.
const (
	EdgeColor        = "#336699"
	NodeFill         = "#FF8C00"
	NodeStroke       = "#FFF"
	NodeStrokeWidth  = "1px"
	NodeCornerRadius = "2"
)

// CSS class names.
const (
	DefaultArrowClass = "css-arrow"
	ArrowClassSuffix  = "-arrow"
	DefaultNodeClass  = "css-node-style"
	DefaultEdgeClass  = "css-edge-style"
	DefaultLabelClass = "css-label"
)

// Marker definition attributes.
const (
	MarkerViewBox = "0 0 15 10"
	MarkerRefX    = "2"
	MarkerRefY    = "5"
	MarkerSize    = "7"
	MarkerOrient  = "auto"
	MarkerPath    = "M 0 0 L 15 5 L 0 10 z"
)
