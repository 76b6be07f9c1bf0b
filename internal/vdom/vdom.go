// Package vdom renders virtual element trees into html.Node trees. Render
// diffs new content against what was last rendered into the same host and
// patches the host nodes in place.
package vdom

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind tells text and element nodes apart.
type Kind uint8

const (
	TextKind Kind = iota
	ElementKind
)

// Event is passed to element handlers by Host.Dispatch.
type Event struct {
	Type   string
	Target *html.Node
}

// Attrs of an element. Key identifies an element among its siblings so
// Render moves it instead of rebuilding it.
type Attrs struct {
	Key       string
	ClassName string
	Props     map[string]string
	Dataset   map[string]string
	Style     map[string]string
	On        map[string]func(Event)
}

// VNode is an immutable virtual node. Render treats a node it has seen
// before as unchanged, so build new nodes rather than mutating old ones.
type VNode struct {
	Kind     Kind
	Content  string
	Tag      string
	Attrs    Attrs
	Children []*VNode
}

// Text returns a text node.
func Text(content string) *VNode {
	return &VNode{Kind: TextKind, Content: content}
}

// H returns an element node. Nil children are dropped.
func H(tag string, attrs Attrs, children ...*VNode) *VNode {
	var kept []*VNode
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &VNode{Kind: ElementKind, Tag: tag, Attrs: attrs, Children: kept}
}

// Host is a node whose children are owned by Render.
type Host struct {
	root     *html.Node
	content  []*VNode
	handlers map[*html.Node]map[string]func(Event)
}

// NewHost wraps root. A nil root creates a div.
func NewHost(root *html.Node) *Host {
	if root == nil {
		root = newElement("div")
	}
	return &Host{root: root, handlers: make(map[*html.Node]map[string]func(Event))}
}

func (h *Host) Root() *html.Node { return h.root }

// Content returns the content last rendered into the host.
func (h *Host) Content() []*VNode { return slices.Clone(h.content) }

// Dispatch calls the handler of n for the event type. It reports whether
// there was one.
func (h *Host) Dispatch(n *html.Node, eventType string) bool {
	fn, ok := h.handlers[n][eventType]
	if !ok {
		return false
	}
	fn(Event{Type: eventType, Target: n})
	return true
}

// String serializes the host's children.
func (h *Host) String() string {
	var b strings.Builder
	for c := h.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return b.String()
		}
	}
	return b.String()
}

// Render makes the children of host match content.
func Render(content []*VNode, host *Host) {
	old := host.content
	host.content = slices.Clone(content)
	host.update(host.root, old, host.content)
}

func (h *Host) update(parent *html.Node, oldContent, newContent []*VNode) {
	oldCopy := slices.Clone(oldContent)
	keyed := collectKeys(parent, oldContent)
	curr := parent.FirstChild

	for i, vn := range newContent {
		if i >= len(oldCopy) {
			parent.AppendChild(h.create(vn))
			continue
		}
		ov := oldCopy[i]
		if ov == vn {
			curr = curr.NextSibling
			continue
		}

		if ov.Kind == TextKind && vn.Kind == TextKind {
			if curr.Data != vn.Content {
				curr.Data = vn.Content
			}
			curr = curr.NextSibling
			continue
		}
		if ov.Kind == TextKind || vn.Kind == TextKind {
			oldCopy = slices.Insert(oldCopy, i, vn)
			parent.InsertBefore(h.create(vn), curr)
			continue
		}

		// Bring a keyed element that moved back into this slot.
		if k, ok := keyed[vn.Attrs.Key]; ok && vn.Attrs.Key != "" && k.vnode != ov {
			from := slices.Index(oldCopy, k.vnode)
			oldCopy = slices.Delete(oldCopy, from, from+1)
			oldCopy = slices.Insert(oldCopy, i, k.vnode)
			parent.RemoveChild(k.node)
			parent.InsertBefore(k.node, curr)
			ov, curr = k.vnode, k.node
		}
		if ov == vn {
			curr = curr.NextSibling
			continue
		}

		if (ov.Attrs.Key != "" && ov.Attrs.Key != vn.Attrs.Key) || ov.Tag != vn.Tag {
			oldCopy = slices.Insert(oldCopy, i, vn)
			parent.InsertBefore(h.create(vn), curr)
			continue
		}

		h.updateAttrs(curr, ov.Attrs, vn.Attrs)
		h.update(curr, ov.Children, vn.Children)
		curr = curr.NextSibling
	}

	for i := len(oldCopy) - 1; i >= len(newContent); i-- {
		last := parent.LastChild
		parent.RemoveChild(last)
		h.forget(last)
	}
}

type keyedNode struct {
	vnode *VNode
	node  *html.Node
}

// collectKeys maps the keys of the old content to their host nodes.
func collectKeys(parent *html.Node, content []*VNode) map[string]keyedNode {
	keyed := make(map[string]keyedNode)
	n := parent.FirstChild
	for _, vn := range content {
		if n == nil {
			break
		}
		if vn.Kind == ElementKind && vn.Attrs.Key != "" {
			keyed[vn.Attrs.Key] = keyedNode{vnode: vn, node: n}
		}
		n = n.NextSibling
	}
	return keyed
}

func (h *Host) create(vn *VNode) *html.Node {
	if vn.Kind == TextKind {
		return &html.Node{Type: html.TextNode, Data: vn.Content}
	}
	n := newElement(vn.Tag)
	h.updateAttrs(n, Attrs{}, vn.Attrs)
	for _, c := range vn.Children {
		n.AppendChild(h.create(c))
	}
	return n
}

func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// forget drops the handlers of a removed subtree.
func (h *Host) forget(n *html.Node) {
	delete(h.handlers, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		h.forget(c)
	}
}

func (h *Host) updateAttrs(n *html.Node, old, next Attrs) {
	oldAttrs, nextAttrs := flatten(old), flatten(next)
	for k := range oldAttrs {
		if _, ok := nextAttrs[k]; !ok {
			removeAttr(n, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(nextAttrs)) {
		if v, ok := oldAttrs[k]; !ok || v != nextAttrs[k] {
			setAttr(n, k, nextAttrs[k])
		}
	}

	if len(next.On) == 0 {
		delete(h.handlers, n)
	} else {
		h.handlers[n] = maps.Clone(next.On)
	}
}

// flatten turns Attrs into the attributes written to the node.
func flatten(a Attrs) map[string]string {
	out := make(map[string]string, len(a.Props)+len(a.Dataset)+2)
	maps.Copy(out, a.Props)
	if a.ClassName != "" {
		out["class"] = a.ClassName
	}
	for k, v := range a.Dataset {
		out["data-"+k] = v
	}
	if len(a.Style) > 0 {
		var parts []string
		for _, k := range slices.Sorted(maps.Keys(a.Style)) {
			parts = append(parts, k+": "+a.Style[k])
		}
		out["style"] = strings.Join(parts, "; ")
	}
	return out
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool { return a.Key == key })
}

// Attr returns the value of an attribute of n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
