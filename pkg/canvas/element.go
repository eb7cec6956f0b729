package canvas

import "slices"

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the retained SVG tree. Styles build and mutate
// elements much like DOM nodes; once an element is attached to a canvas every
// write is counted and recorded as a [Mutation].
type Element struct {
	tag      string
	attrs    []Attr
	text     string
	children []*Element
	parent   *Element
	eid      int
	rec      *Recorder
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{tag: tag}
}

func (e *Element) Tag() string { return e.tag }

// ID returns the element id assigned when the element was first attached to
// a canvas, or 0.
func (e *Element) ID() int { return e.eid }

// Attached reports whether e is part of a canvas tree.
func (e *Element) Attached() bool { return e.rec != nil }

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns the attributes in insertion order. The slice must not be
// modified.
func (e *Element) Attrs() []Attr { return e.attrs }

// SetAttr sets an attribute, keeping the position of an existing one.
func (e *Element) SetAttr(name, value string) {
	i := slices.IndexFunc(e.attrs, func(a Attr) bool { return a.Name == name })
	if i >= 0 {
		e.attrs[i].Value = value
	} else {
		e.attrs = append(e.attrs, Attr{Name: name, Value: value})
	}
	if e.rec != nil {
		e.rec.record(Mutation{Kind: MutAttr, Target: e.eid, Name: name, Value: value})
	}
}

// RemoveAttr deletes an attribute. Removing a missing attribute is not a
// write.
func (e *Element) RemoveAttr(name string) {
	i := slices.IndexFunc(e.attrs, func(a Attr) bool { return a.Name == name })
	if i < 0 {
		return
	}
	e.attrs = slices.Delete(e.attrs, i, i+1)
	if e.rec != nil {
		e.rec.record(Mutation{Kind: MutRemoveAttr, Target: e.eid, Name: name})
	}
}

// Text returns the character data of e.
func (e *Element) Text() string { return e.text }

// SetText replaces the character data of e.
func (e *Element) SetText(s string) {
	e.text = s
	if e.rec != nil {
		e.rec.record(Mutation{Kind: MutText, Target: e.eid, Value: s})
	}
}

func (e *Element) Parent() *Element     { return e.parent }
func (e *Element) Children() []*Element { return e.children }
func (e *Element) ChildCount() int      { return len(e.children) }

// FirstChild returns the first child or nil.
func (e *Element) FirstChild() *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// LastChild returns the last child or nil.
func (e *Element) LastChild() *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[len(e.children)-1]
}

// AppendChild adds c as the last child of e, detaching it from a previous
// parent first.
func (e *Element) AppendChild(c *Element) {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
	if e.rec != nil {
		e.rec.attach(c)
		e.rec.record(Mutation{Kind: MutAppend, Target: e.eid, Markup: Markup(c)})
	}
}

// RemoveChild detaches c from e. It reports whether c was a child of e.
func (e *Element) RemoveChild(c *Element) bool {
	i := slices.Index(e.children, c)
	if i < 0 {
		return false
	}
	e.children = slices.Delete(e.children, i, i+1)
	c.parent = nil
	if e.rec != nil {
		e.rec.record(Mutation{Kind: MutRemove, Target: c.eid})
		detach(c)
	}
	return true
}

// ReplaceChild puts c in the position of old.
func (e *Element) ReplaceChild(old, c *Element) bool {
	i := slices.Index(e.children, old)
	if i < 0 {
		return false
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	e.children[i] = c
	old.parent, c.parent = nil, e
	if e.rec != nil {
		oldID := old.eid
		detach(old)
		e.rec.attach(c)
		e.rec.record(Mutation{Kind: MutReplace, Target: oldID, Markup: Markup(c)})
	}
	return true
}

// Walk visits e and its descendants depth first until fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

func detach(e *Element) {
	e.Walk(func(x *Element) bool {
		x.rec = nil
		return true
	})
}

// =============================================================================
// Mutation Recording
// =============================================================================

// Mutation kinds.
const (
	MutAttr       = "attr"
	MutRemoveAttr = "remove-attr"
	MutText       = "text"
	MutAppend     = "append"
	MutRemove     = "remove"
	MutReplace    = "replace"
	MutViewBox    = "viewbox"
)

// Mutation is one change to an attached element. Target is the element id;
// for appends it is the parent. Markup carries serialized SVG for appends and
// replacements.
type Mutation struct {
	Kind   string `json:"kind"`
	Target int    `json:"target"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
	Markup string `json:"markup,omitempty"`
}

// Recorder counts writes to attached elements and buffers them as mutations
// so a remote view can replay them.
type Recorder struct {
	next   int
	writes int
	muts   []Mutation
}

func (r *Recorder) attach(e *Element) {
	e.Walk(func(x *Element) bool {
		x.rec = r
		if x.eid == 0 {
			r.next++
			x.eid = r.next
		}
		return true
	})
}

func (r *Recorder) record(m Mutation) {
	r.writes++
	r.muts = append(r.muts, m)
}

// Writes returns the number of writes since the last [Recorder.Reset].
func (r *Recorder) Writes() int { return r.writes }

// Reset clears the write counter and the buffered mutations.
func (r *Recorder) Reset() {
	r.writes = 0
	r.muts = nil
}

// Drain returns the buffered mutations and clears the buffer. The write
// counter is left untouched.
func (r *Recorder) Drain() []Mutation {
	m := r.muts
	r.muts = nil
	return m
}
