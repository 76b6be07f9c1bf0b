package vdom

import (
	"testing"

	"golang.org/x/net/html"
)

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func item(key, text string) *VNode {
	return H("li", Attrs{Key: key}, Text(text))
}

func TestRenderCreates(t *testing.T) {
	host := NewHost(nil)
	Render([]*VNode{
		H("ul", Attrs{ClassName: "list", Dataset: map[string]string{"row": "3"}},
			H("li", Attrs{Style: map[string]string{"width": "4px", "color": "red"}}, Text("a")),
			nil,
			Text("b"),
		),
	}, host)

	want := `<ul class="list" data-row="3"><li style="color: red; width: 4px">a</li>b</ul>`
	if got := host.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestRenderUpdatesInPlace(t *testing.T) {
	host := NewHost(nil)
	Render([]*VNode{H("p", Attrs{ClassName: "a", Props: map[string]string{"title": "x"}}, Text("one"))}, host)
	p := host.Root().FirstChild
	text := p.FirstChild

	Render([]*VNode{H("p", Attrs{ClassName: "b"}, Text("two"))}, host)
	if host.Root().FirstChild != p || p.FirstChild != text {
		t.Errorf("Render() replaced nodes that only changed")
	}
	if want := `<p class="b">two</p>`; host.String() != want {
		t.Errorf("String() = %s, want %s", host.String(), want)
	}
}

func TestRenderReplacesOnTagChange(t *testing.T) {
	host := NewHost(nil)
	Render([]*VNode{H("p", Attrs{}), Text("t")}, host)
	p := host.Root().FirstChild

	Render([]*VNode{H("div", Attrs{}), H("span", Attrs{})}, host)
	if host.Root().FirstChild == p {
		t.Errorf("Render() kept a node whose tag changed")
	}
	if want := `<div></div><span></span>`; host.String() != want {
		t.Errorf("String() = %s, want %s", host.String(), want)
	}
}

func TestRenderRemovesTrailing(t *testing.T) {
	host := NewHost(nil)
	Render([]*VNode{Text("a"), Text("b"), Text("c")}, host)
	Render([]*VNode{Text("a")}, host)
	if got := len(children(host.Root())); got != 1 {
		t.Errorf("children = %d, want 1", got)
	}
	Render(nil, host)
	if host.Root().FirstChild != nil {
		t.Errorf("Render(nil) left children")
	}
}

func TestRenderMovesKeyedElements(t *testing.T) {
	host := NewHost(nil)
	Render([]*VNode{item("a", "A"), item("b", "B"), item("c", "C")}, host)
	before := children(host.Root())

	Render([]*VNode{item("c", "C"), item("a", "A"), item("b", "B2")}, host)
	after := children(host.Root())

	if want := `<li>C</li><li>A</li><li>B2</li>`; host.String() != want {
		t.Fatalf("String() = %s, want %s", host.String(), want)
	}
	tests := []struct {
		name   string
		before int
		after  int
	}{
		{"a", 0, 1},
		{"b", 1, 2},
		{"c", 2, 0},
	}
	for _, tt := range tests {
		if before[tt.before] != after[tt.after] {
			t.Errorf("keyed node %s was rebuilt", tt.name)
		}
	}
}

func TestRenderKeepsIdenticalContent(t *testing.T) {
	host := NewHost(nil)
	shared := H("b", Attrs{}, Text("x"))
	Render([]*VNode{shared}, host)
	node := host.Root().FirstChild
	node.Data = "i"

	// The same virtual node is assumed unchanged and left alone.
	Render([]*VNode{shared}, host)
	if host.Root().FirstChild != node || node.Data != "i" {
		t.Errorf("Render() touched a node rendered from the same content")
	}
}

func TestDispatch(t *testing.T) {
	host := NewHost(nil)
	var clicks []string
	button := func(label string) *VNode {
		return H("button", Attrs{On: map[string]func(Event){
			"click": func(e Event) { clicks = append(clicks, label+":"+e.Type) },
		}}, Text(label))
	}

	Render([]*VNode{button("one")}, host)
	node := host.Root().FirstChild
	if !host.Dispatch(node, "click") {
		t.Fatalf("Dispatch() = false, want true")
	}
	if host.Dispatch(node, "keydown") {
		t.Errorf("Dispatch(keydown) = true, want false")
	}

	Render([]*VNode{button("two")}, host)
	host.Dispatch(node, "click")
	if len(clicks) != 2 || clicks[0] != "one:click" || clicks[1] != "two:click" {
		t.Errorf("clicks = %v, want [one:click two:click]", clicks)
	}

	Render([]*VNode{H("button", Attrs{})}, host)
	if host.Dispatch(node, "click") {
		t.Errorf("Dispatch() after the handler was removed = true, want false")
	}

	Render(nil, host)
	if len(host.handlers) != 0 {
		t.Errorf("handlers = %d after removing every node, want 0", len(host.handlers))
	}
}

func TestAttr(t *testing.T) {
	host := NewHost(nil)
	Render([]*VNode{H("input", Attrs{Props: map[string]string{"value": "7"}})}, host)
	if v, ok := Attr(host.Root().FirstChild, "value"); !ok || v != "7" {
		t.Errorf("Attr(value) = %q, %v, want 7, true", v, ok)
	}
	if _, ok := Attr(host.Root().FirstChild, "class"); ok {
		t.Errorf("Attr(class) found an unset attribute")
	}
}
