package assets

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
)

func TestDefaultCSS(t *testing.T) {
	css := DefaultCSS()
	for _, class := range []string{".css-edge-style", ".css-edge-style-arrow", ".css-node-style", ".css-label"} {
		if !strings.Contains(css, class) {
			t.Errorf("default stylesheet misses %s", class)
		}
	}
}

func TestWritePage(t *testing.T) {
	tests := []struct {
		name       string
		data       PageData
		want       []string
		wantAbsent []string
	}{
		{
			name: "static",
			data: PageData{Title: "g", SVG: template.HTML(`<svg data-eid="1"></svg>`), Nodes: 3, Edges: 2},
			want: []string{`<svg data-eid="1"></svg>`, "3 nodes, 2 edges", "(marker arrows)"},
			wantAbsent: []string{
				"<script>",
			},
		},
		{
			name: "streaming",
			data: PageData{Title: "g", StreamURL: "/graphs/x/ws", JSONURL: "/api/graphs/x", BadMarkers: true},
			want: []string{"new WebSocket", `href="/api/graphs/x"`, "(explicit arrows)"},
		},
		{
			name: "escapes title",
			data: PageData{Title: "<b>"},
			want: []string{"<title>&lt;b&gt;</title>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePage(&buf, tt.data); err != nil {
				t.Fatalf("WritePage: %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("page misses %q", w)
				}
			}
			for _, w := range tt.wantAbsent {
				if strings.Contains(out, w) {
					t.Errorf("page unexpectedly contains %q", w)
				}
			}
		})
	}
}
