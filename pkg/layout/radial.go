package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// pointsPerInch converts Graphviz inches to canvas units.
const pointsPerInch = 72.0

// plainFormat is Graphviz's line-based text output with node centers.
const plainFormat graphviz.Format = "plain"

// Radial places the nodes of g on concentric rings around the node with the
// highest degree, rankSep apart. Edge bends are cleared.
func Radial(ctx context.Context, g *graph.Graph, rankSep float64) (graph.Layout, error) {
	l := graph.Layout{
		Algorithm: AlgRadial,
		Positions: make(map[int]geom.Point, g.NodeCount()),
		Bends:     make([][]geom.Point, g.EdgeCount()),
	}
	if g.NodeCount() == 0 {
		return l, nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return l, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	dg, err := graphviz.ParseBytes([]byte(ToDOT(g, rankSep)))
	if err != nil {
		return l, fmt.Errorf("parse DOT: %w", err)
	}
	defer dg.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.TWOPI).Render(ctx, dg, plainFormat, &buf); err != nil {
		return l, fmt.Errorf("render: %w", err)
	}

	centers, err := parsePlain(buf.Bytes())
	if err != nil {
		return l, err
	}
	for _, n := range g.Nodes() {
		c, ok := centers[nodeName(n)]
		if !ok {
			return l, fmt.Errorf("node %d missing from layout output", n.Tag.ID)
		}
		l.Positions[n.Tag.ID] = geom.Pt(c.X-n.Layout.Width/2, c.Y-n.Layout.Height/2)
	}
	return l, nil
}

// ToDOT converts g to an undirected DOT graph for twopi. Node sizes are
// fixed to the current layout sizes; self-loops are left out because they
// do not influence the placement.
func ToDOT(g *graph.Graph, rankSep float64) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  root=%q;\n", nodeName(center(g)))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(rankSep))
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [width=%s, height=%s];\n", nodeName(n), inches(n.Layout.Width), inches(n.Layout.Height))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.IsSelfLoop() || e.Source.Owner == nil || e.Target.Owner == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", nodeName(e.Source.Owner), nodeName(e.Target.Owner))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(n *graph.Node) string { return "n" + strconv.Itoa(n.Tag.ID) }

func inches(v float64) string { return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64) }

// center returns the node with the most distinct neighbors, preferring
// the lower id on ties.
func center(g *graph.Graph) *graph.Node {
	var best *graph.Node
	bestDeg := -1
	for _, n := range g.Nodes() {
		if d := len(g.Neighbors(n)); d > bestDeg {
			best, bestDeg = n, d
		}
	}
	return best
}

// parsePlain reads node centers from Graphviz plain output, converted to
// canvas units with y growing downwards.
func parsePlain(data []byte) (map[string]geom.Point, error) {
	centers := make(map[string]geom.Point)
	height := -1.0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "graph":
			if len(f) < 4 {
				return nil, fmt.Errorf("plain output: short graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(f[3], 64)
			if err != nil {
				return nil, fmt.Errorf("plain output: graph height: %w", err)
			}
			height = h
		case "node":
			if len(f) < 4 || height < 0 {
				return nil, fmt.Errorf("plain output: unexpected node line %q", sc.Text())
			}
			x, errX := strconv.ParseFloat(f[2], 64)
			y, errY := strconv.ParseFloat(f[3], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("plain output: bad node position %q", sc.Text())
			}
			centers[strings.Trim(f[1], `"`)] = geom.Pt(x*pointsPerInch, (height-y)*pointsPerInch)
		case "stop":
			return centers, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("plain output: %w", err)
	}
	return centers, nil
}
