package gfx

import "testing"

// recorder counts the calls a GraphicsContext forwards.
type recorder struct {
	*CellCanvas
	calls map[string]int
}

func newRecorder() *recorder {
	return &recorder{CellCanvas: NewCellCanvas(4, 4), calls: map[string]int{}}
}

func (r *recorder) SetFillStyle(p Paint) {
	r.calls["fillStyle"]++
	r.CellCanvas.SetFillStyle(p)
}

func (r *recorder) SetFont(font string) {
	r.calls["font"]++
	r.CellCanvas.SetFont(font)
}

func (r *recorder) SetLineWidth(width float64) {
	r.calls["lineWidth"]++
	r.CellCanvas.SetLineWidth(width)
}

func (r *recorder) Save() {
	r.calls["save"]++
	r.CellCanvas.Save()
}

func (r *recorder) Restore() {
	r.calls["restore"]++
	r.CellCanvas.Restore()
}

func TestGraphicsContextSkipsRedundantWrites(t *testing.T) {
	r := newRecorder()
	gc := NewGraphicsContext(r)

	gc.SetFont(DefaultState().Font)
	if got := r.calls["font"]; got != 0 {
		t.Errorf("font writes after setting the initial value = %d, want 0", got)
	}

	for i := 0; i < 5; i++ {
		gc.SetFont("12px mono")
		gc.SetFillStyle(Color("#ff0000"))
		gc.SetLineWidth(2)
	}
	for _, name := range []string{"font", "fillStyle", "lineWidth"} {
		if got := r.calls[name]; got != 1 {
			t.Errorf("%s writes = %d, want 1", name, got)
		}
	}
	if got := r.State().Font; got != "12px mono" {
		t.Errorf("underlying Font = %q, want %q", got, "12px mono")
	}

	g := gc.CreateLinearGradient(0, 0, 1, 1)
	gc.SetFillStyle(g)
	gc.SetFillStyle(g)
	if got := r.calls["fillStyle"]; got != 2 {
		t.Errorf("fillStyle writes with gradient = %d, want 2", got)
	}
}

func TestGraphicsContextSaveRestore(t *testing.T) {
	r := newRecorder()
	gc := NewGraphicsContext(r)

	gc.SetFont("a")
	gc.Save()
	gc.SetFont("b")
	if got := gc.Font(); got != "b" {
		t.Errorf("Font() = %q, want %q", got, "b")
	}
	gc.Restore()
	if got := gc.Font(); got != "a" {
		t.Errorf("Font() after Restore = %q, want %q", got, "a")
	}
	if got := r.State().Font; got != "a" {
		t.Errorf("underlying Font after Restore = %q, want %q", got, "a")
	}

	writes := r.calls["font"]
	gc.SetFont("a")
	if got := r.calls["font"]; got != writes {
		t.Errorf("restored value was forwarded again")
	}

	gc.Restore()
	if got := r.calls["restore"]; got != 1 {
		t.Errorf("restore calls = %d, want 1 (root restore must not forward)", got)
	}
}

func TestGraphicsContextReusesStateNodes(t *testing.T) {
	gc := NewGraphicsContext(newRecorder())

	gc.Save()
	first := gc.state
	gc.Restore()
	if gc.free != first {
		t.Fatalf("popped node not returned to the free list")
	}
	gc.Save()
	if gc.state != first {
		t.Errorf("Save() allocated a new node instead of reusing the pooled one")
	}
	if gc.free != nil {
		t.Errorf("free list not drained after reuse")
	}
}

func TestGraphicsContextDispose(t *testing.T) {
	r := newRecorder()
	gc := NewGraphicsContext(r)

	gc.Save()
	gc.Save()
	gc.Save()
	gc.Restore()
	gc.Dispose()
	if got := r.calls["restore"]; got != 3 {
		t.Errorf("restore calls after Dispose = %d, want 3", got)
	}

	gc.Dispose()
	if got := r.calls["restore"]; got != 3 {
		t.Errorf("second Dispose forwarded restores: %d", got)
	}
}
