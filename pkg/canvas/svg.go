package canvas

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
var textEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")

// Markup serializes e and its subtree as SVG markup.
func Markup(e *Element) string {
	var buf bytes.Buffer
	writeElement(svg.New(&buf), e)
	return buf.String()
}

// attrList renders the attributes of e in svgo's name="value" form, with the
// element id first when e is attached. Names listed in skip are left out.
func attrList(e *Element, skip ...string) []string {
	out := make([]string, 0, len(e.attrs)+1)
	if e.eid != 0 {
		out = append(out, `data-eid="`+strconv.Itoa(e.eid)+`"`)
	}
	for _, a := range e.attrs {
		if contains(skip, a.Name) {
			continue
		}
		out = append(out, a.Name+`="`+attrEscaper.Replace(a.Value)+`"`)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func writeElement(s *svg.SVG, e *Element) {
	switch {
	case e.tag == "g":
		s.Group(attrList(e)...)
		writeChildren(s, e)
		s.Gend()
	case e.tag == "path" && len(e.children) == 0:
		d, _ := e.Attr("d")
		s.Path(d, attrList(e, "d")...)
	default:
		writeGeneric(s, e)
	}
}

func writeChildren(s *svg.SVG, e *Element) {
	for _, c := range e.children {
		writeElement(s, c)
	}
}

func writeGeneric(s *svg.SVG, e *Element) {
	attrs := attrList(e)
	open := "<" + e.tag
	if len(attrs) > 0 {
		open += " " + strings.Join(attrs, " ")
	}
	if len(e.children) == 0 && e.text == "" {
		fmt.Fprintln(s.Writer, open+"/>")
		return
	}
	fmt.Fprint(s.Writer, open+">")
	if e.text != "" {
		fmt.Fprint(s.Writer, textEscaper.Replace(e.text))
	}
	if len(e.children) > 0 {
		fmt.Fprintln(s.Writer)
		writeChildren(s, e)
	}
	fmt.Fprintln(s.Writer, "</"+e.tag+">")
}
