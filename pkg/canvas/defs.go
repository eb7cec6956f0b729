package canvas

import (
	"strconv"
	"strings"
)

// DefsManager owns the defs section of a canvas. It assigns ids, creates each
// definition once, and drops definitions that no rendered element accepts.
type DefsManager struct {
	root    *Element
	prefix  string
	next    int
	entries map[DefsCreator]*defsEntry
	order   []DefsCreator
}

type defsEntry struct {
	id string
	el *Element
}

// NewDefsManager manages definitions below root. Ids are prefix followed by
// a counter.
func NewDefsManager(root *Element, prefix string) *DefsManager {
	return &DefsManager{
		root:    root,
		prefix:  prefix,
		entries: make(map[DefsCreator]*defsEntry),
	}
}

// ID returns the id of the definition for dc, creating the element on first
// request.
func (m *DefsManager) ID(ctx *Context, dc DefsCreator) string {
	if e, ok := m.entries[dc]; ok {
		return e.id
	}
	m.next++
	id := m.prefix + strconv.Itoa(m.next)
	el := dc.CreateDefsElement(ctx)
	el.SetAttr("id", id)
	m.root.AppendChild(el)
	m.entries[dc] = &defsEntry{id: id, el: el}
	m.order = append(m.order, dc)
	return id
}

// Len returns the number of live definitions.
func (m *DefsManager) Len() int { return len(m.entries) }

// Cleanup asks every creator whether some element below scope still refers
// to its definition. Referenced definitions are updated, the rest removed.
// It returns the number of removed definitions.
func (m *DefsManager) Cleanup(ctx *Context, scope *Element) int {
	removed := 0
	kept := m.order[:0]
	for _, dc := range m.order {
		e := m.entries[dc]
		used := false
		scope.Walk(func(el *Element) bool {
			if dc.Accept(ctx, el, e.id) {
				used = true
			}
			return !used
		})
		if used {
			dc.UpdateDefsElement(ctx, e.el)
			kept = append(kept, dc)
			continue
		}
		m.root.RemoveChild(e.el)
		delete(m.entries, dc)
		removed++
	}
	m.order = kept
	return removed
}

// IsAttributeReference reports whether attribute attr of el is a url()
// reference to the element with the given id.
func IsAttributeReference(el *Element, attr, id string) bool {
	if el == nil {
		return false
	}
	v, ok := el.Attr(attr)
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return false
	}
	ref := strings.Trim(v[len("url("):len(v)-1], `'" `)
	return ref == "#"+id
}
