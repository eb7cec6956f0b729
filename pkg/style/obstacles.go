package style

import (
	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// PathSource returns the geometry of an edge as its style renders it.
type PathSource interface {
	Path(e *graph.Edge) *geom.Path
}

// BasicEdgeObstacleProvider offers an edge's rendered path as a bridge
// obstacle.
type BasicEdgeObstacleProvider struct {
	Edge  *graph.Edge
	Style PathSource
}

// Obstacles returns the edge path cropped at the node outlines.
func (p *BasicEdgeObstacleProvider) Obstacles(*canvas.Context) *geom.Path {
	return p.Style.Path(p.Edge)
}
