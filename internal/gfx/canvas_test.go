package gfx

import (
	"image/color"
	"testing"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func TestCellCanvasFillRect(t *testing.T) {
	c := NewCellCanvas(6, 3)
	c.SetFillStyle(Color("#ff0000"))
	c.FillRect(1, 1, 2, 1)

	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			want := Transparent
			if y == 1 && (x == 1 || x == 2) {
				want = red
			}
			if got := c.At(x, y).Bg; got != want {
				t.Errorf("At(%d, %d).Bg = %v, want %v", x, y, got, want)
			}
		}
	}

	c.ClearRect(0, 0, 2, 3)
	if got := c.At(1, 1).Bg; got != Transparent {
		t.Errorf("ClearRect left Bg = %v", got)
	}
	if got := c.At(2, 1).Bg; got != red {
		t.Errorf("ClearRect cleared outside its rect: %v", got)
	}
}

func TestCellCanvasFillTextAlignment(t *testing.T) {
	tests := []struct {
		name     string
		align    string
		baseline string
		x, y     float64
		want     []string
	}{
		{"left top", "left", "top", 1, 0, []string{" ab   ", "      "}},
		{"right", "right", "top", 5, 0, []string{"   ab ", "      "}},
		{"center", "center", "top", 3, 1, []string{"      ", "  ab  "}},
		{"alphabetic baseline", "left", "alphabetic", 0, 2, []string{"      ", "ab    "}},
		{"middle baseline", "left", "middle", 0, 1.5, []string{"      ", "ab    "}},
		{"half row rounds toward top", "left", "bottom", 0, 1.5, []string{"ab    ", "      "}},
		{"clipped by right edge", "left", "top", 5, 0, []string{"     a", "      "}},
		{"outside rows", "left", "top", 0, 5, []string{"      ", "      "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCellCanvas(6, 2)
			c.SetTextAlign(tt.align)
			c.SetTextBaseline(tt.baseline)
			c.FillText("ab", tt.x, tt.y)
			for row, want := range tt.want {
				if got := c.Text(0, 6, row); got != want {
					t.Errorf("row %d = %q, want %q", row, got, want)
				}
			}
		})
	}
}

func TestCellCanvasWideText(t *testing.T) {
	c := NewCellCanvas(5, 1)
	c.SetTextBaseline("top")
	c.FillText("日本", 0, 0)

	if got := c.At(0, 0).Text; got != "日" {
		t.Errorf("At(0, 0).Text = %q, want %q", got, "日")
	}
	if !c.At(1, 0).Cont {
		t.Errorf("At(1, 0) is not a continuation cell")
	}
	if got := c.String(); got != "日本 " {
		t.Errorf("String() = %q, want %q", got, "日本 ")
	}
	if got := c.MeasureText("日本x").Width; got != 5 {
		t.Errorf("MeasureText().Width = %v, want 5", got)
	}

	// overwriting the right half blanks the orphaned left half
	c.FillText("x", 1, 0)
	if got := c.String(); got != " x本 " {
		t.Errorf("String() after overwrite = %q, want %q", got, " x本 ")
	}
}

func TestCellCanvasClip(t *testing.T) {
	c := NewCellCanvas(6, 2)
	c.SetTextBaseline("top")

	c.Save()
	c.BeginPath()
	c.Rect(1, 0, 2, 2)
	c.Clip()
	c.FillText("abcd", 0, 0)
	c.SetFillStyle(Color("#ff0000"))
	c.FillRect(0, 1, 6, 1)
	c.Restore()

	if got := c.Text(0, 6, 0); got != " bc   " {
		t.Errorf("clipped text = %q, want %q", got, " bc   ")
	}
	if c.At(0, 1).Bg != Transparent || c.At(1, 1).Bg != red || c.At(3, 1).Bg != Transparent {
		t.Errorf("clipped fill escaped the clip rect")
	}

	c.FillText("abcd", 0, 0)
	if got := c.Text(0, 6, 0); got != "abcd  " {
		t.Errorf("text after Restore = %q, want %q", got, "abcd  ")
	}
}

func TestCellCanvasStroke(t *testing.T) {
	c := NewCellCanvas(5, 4)
	c.StrokeRect(0.5, 0.5, 3, 2)
	want := "┌──┐ \n│  │ \n└──┘ \n     "
	if got := c.String(); got != want {
		t.Errorf("StrokeRect:\n%s\nwant:\n%s", got, want)
	}

	c = NewCellCanvas(4, 3)
	c.BeginPath()
	c.MoveTo(0, 1.5)
	c.LineTo(4, 1.5)
	c.MoveTo(1.5, 0)
	c.LineTo(1.5, 3)
	c.Stroke()
	want = " │  \n─┼──\n │  "
	if got := c.String(); got != want {
		t.Errorf("grid lines:\n%s\nwant:\n%s", got, want)
	}

	c = NewCellCanvas(3, 1)
	c.SetLineWidth(2)
	c.BeginPath()
	c.MoveTo(0, 1)
	c.LineTo(3, 1)
	c.Stroke()
	if got := c.String(); got != "━━━" {
		t.Errorf("heavy stroke = %q, want %q", got, "━━━")
	}
}

func TestCellCanvasTranslate(t *testing.T) {
	c := NewCellCanvas(4, 2)
	c.SetTextBaseline("top")
	c.Save()
	c.Translate(2, 1)
	c.FillText("a", 0, 0)
	c.Restore()
	c.FillText("b", 0, 0)

	if got := c.String(); got != "b   \n  a " {
		t.Errorf("String() = %q", got)
	}
}

func TestCellCanvasDrawImage(t *testing.T) {
	src := NewCellCanvas(3, 1)
	src.SetTextBaseline("top")
	src.FillText("abc", 0, 0)

	dst := NewCellCanvas(5, 2)
	dst.SetFillStyle(Color("#ffffff"))
	dst.FillRect(0, 0, 5, 2)
	dst.DrawImage(src, 1, 0, 2, 1, 2, 1)
	if got := dst.Text(0, 5, 1); got != "  bc " {
		t.Errorf("DrawImage row = %q, want %q", got, "  bc ")
	}
	if got := dst.At(2, 1).Bg; got != white {
		t.Errorf("transparent source changed the destination background: %v", got)
	}

	// overlapping self copy
	src.DrawImage(src, 0, 0, 2, 1, 1, 0)
	if got := src.String(); got != "aab" {
		t.Errorf("self DrawImage = %q, want %q", got, "aab")
	}
}

func TestCellCanvasResizeClears(t *testing.T) {
	c := NewCellCanvas(2, 2)
	c.SetFillStyle(Color("#ff0000"))
	c.FillRect(0, 0, 2, 2)
	c.Resize(3, 1)
	if c.Width() != 3 || c.Height() != 1 {
		t.Fatalf("size = %dx%d, want 3x1", c.Width(), c.Height())
	}
	if got := c.At(0, 0).Bg; got != Transparent {
		t.Errorf("Resize kept content: %v", got)
	}
	if got := c.State().FillStyle; got != Color("#000000") {
		t.Errorf("Resize kept fill style %v", got)
	}
}

func TestCellCanvasComposite(t *testing.T) {
	base := NewCellCanvas(2, 1)
	base.SetFillStyle(Color("#ffffff"))
	base.FillRect(0, 0, 2, 1)
	base.SetFillStyle(Color("#000000"))
	base.SetTextBaseline("top")
	base.FillText("xy", 0, 0)

	overlay := NewCellCanvas(2, 1)
	overlay.SetFillStyle(Color("rgba(255,0,0,1.0)"))
	overlay.FillRect(1, 0, 1, 1)

	if got := base.Composite(overlay, 0, 0); got.Text != "x" || got.Bg != white {
		t.Errorf("Composite(0) = %+v", got)
	}
	if got := base.Composite(overlay, 1, 0); got.Text != "y" || got.Bg != red {
		t.Errorf("Composite(1) = %+v", got)
	}
}
