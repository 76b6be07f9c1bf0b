package render

import (
	"image/color"
	"strings"
	"testing"

	"dgrid/internal/datamodel"
	"dgrid/internal/gfx"
)

func newTerminalRenderer() *TextRenderer {
	r := NewTextRenderer()
	r.Padding = TerminalPadding
	return r
}

func paintCell(r CellRenderer, width, height int, value any) *gfx.CellCanvas {
	canvas := gfx.NewCellCanvas(width, height)
	gc := gfx.NewGraphicsContext(canvas)
	defer gc.Dispose()
	gc.Save()
	r.Paint(gc, CellConfig{Width: width, Height: height, Region: datamodel.Body, Value: value})
	gc.Restore()
	return canvas
}

func TestTextRendererSingleLine(t *testing.T) {
	tests := []struct {
		name   string
		hAlign HorizontalAlignment
		elide  ElideDirection
		value  any
		want   string
	}{
		{"left", AlignLeft, ElideRight, "hello", " hello      "},
		{"right", AlignRight, ElideRight, int64(42), "         42 "},
		{"center", AlignMiddle, ElideRight, "abc", "     abc    "},
		{"elide right", AlignLeft, ElideRight, "abcdefghijklmnop", " abcdefgh…  "},
		{"elide left", AlignLeft, ElideLeft, "abcdefghijklmnop", " …ijklmnop  "},
		{"no elide", AlignLeft, ElideNone, "abcdefghijklmnop", " abcdefghijk"},
		{"nil value", AlignLeft, ElideRight, nil, "            "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTerminalRenderer()
			r.HorizontalAlignment = Static(tt.hAlign)
			r.ElideDirection = Static(tt.elide)
			c := paintCell(r, 12, 2, tt.value)
			if got := c.Text(0, 12, 0); got != tt.want {
				t.Errorf("row 0 = %q, want %q", got, tt.want)
			}
			if got := c.Text(0, 12, 1); strings.TrimSpace(got) != "" {
				t.Errorf("row 1 = %q, want blank", got)
			}
		})
	}
}

func TestTextRendererElideTerminates(t *testing.T) {
	r := newTerminalRenderer()
	c := paintCell(r, 4, 2, strings.Repeat("abcdefghij", 100))
	if got := c.Text(0, 4, 0); got != " …  " {
		t.Errorf("row 0 = %q, want %q", got, " …  ")
	}
}

func TestTextRendererWrap(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"words", "alpha beta gamma", []string{" alpha      ", " beta       ", " gamma      ", "            "}},
		{"long word", "abcdefghijkl", []string{" abcdefgh   ", " ijkl       ", "            ", "            "}},
		{"fits", "short", []string{" short      ", "            ", "            ", "            "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTerminalRenderer()
			r.WrapText = Static(true)
			r.VerticalAlignment = Static(AlignTop)
			c := paintCell(r, 12, 4, tt.value)
			for y, want := range tt.want {
				if got := c.Text(0, 12, y); got != want {
					t.Errorf("row %d = %q, want %q", y, got, want)
				}
			}
		})
	}
}

func TestTextRendererVerticalAlignment(t *testing.T) {
	tests := []struct {
		align VerticalAlignment
		row   int
	}{
		{AlignTop, 0},
		{AlignCenter, 1},
		{AlignBottom, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			r := newTerminalRenderer()
			r.VerticalAlignment = Static(tt.align)
			c := paintCell(r, 12, 4, "x")
			for y := 0; y < 4; y++ {
				hasText := strings.TrimSpace(c.Text(0, 12, y)) != ""
				if hasText != (y == tt.row) {
					t.Errorf("row %d has text = %v, want text on row %d", y, hasText, tt.row)
				}
			}
		})
	}
}

func TestTextRendererBackground(t *testing.T) {
	r := newTerminalRenderer()
	r.BackgroundColor = func(config CellConfig) gfx.Color {
		if config.Value == "warn" {
			return "#ff0000"
		}
		return ""
	}
	red := color.NRGBA{R: 255, A: 255}

	c := paintCell(r, 6, 2, "warn")
	if got := c.At(5, 1).Bg; got != red {
		t.Errorf("background = %v, want %v", got, red)
	}
	c = paintCell(r, 6, 2, "ok")
	if got := c.At(5, 1).Bg; got == red {
		t.Errorf("background = %v, want unpainted", got)
	}
}

func TestTextRendererZeroBoxHeight(t *testing.T) {
	r := newTerminalRenderer()
	c := paintCell(r, 12, 1, "hidden")
	if got := c.Text(0, 12, 0); strings.TrimSpace(got) != "" {
		t.Errorf("row 0 = %q, want blank", got)
	}
}

func TestTextRendererCachesFontHeight(t *testing.T) {
	r := newTerminalRenderer()
	paintCell(r, 12, 2, "a")
	paintCell(r, 12, 2, "b")
	r.Font = Static("bold 14px monospace")
	paintCell(r, 12, 2, "c")
	if len(r.fontHeights) != 2 {
		t.Errorf("cached fonts = %d, want 2", len(r.fontHeights))
	}
	if h := r.fontHeights["12px sans-serif"]; h != 1 {
		t.Errorf("font height = %v, want 1", h)
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"one", []string{"one"}},
		{"one two", []string{"one", "two"}},
		{"a  b", []string{"a ", "b"}},
		{"x -y", []string{"x -y"}},
	}
	for _, tt := range tests {
		got := splitWords(tt.text)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("splitWords(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		font string
		want float64
	}{
		{"12px sans-serif", 12},
		{"bold 14.5px Arial", 14.5},
		{"monospace", 12},
	}
	for _, tt := range tests {
		if got := fontSize(tt.font); got != tt.want {
			t.Errorf("fontSize(%q) = %v, want %v", tt.font, got, tt.want)
		}
	}
}
