package gfx

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   color.NRGBA
		wantOK bool
	}{
		{"#F3F3F3", color.NRGBA{0xf3, 0xf3, 0xf3, 255}, true},
		{"#abc", color.NRGBA{0xaa, 0xbb, 0xcc, 255}, true},
		{"#ff000080", color.NRGBA{255, 0, 0, 128}, true},
		{"rgb(1, 2, 3)", color.NRGBA{1, 2, 3, 255}, true},
		{"rgba(20,20,20,0.15)", color.NRGBA{20, 20, 20, 38}, true},
		{"rgba(0,107,247,1.0)", color.NRGBA{0, 107, 247, 255}, true},
		{" White ", color.NRGBA{255, 255, 255, 255}, true},
		{"transparent", color.NRGBA{}, true},
		{"", color.NRGBA{}, false},
		{"bogus", color.NRGBA{}, false},
		{"hsl(1,2,3)", color.NRGBA{}, false},
		{"rgb(1,2)", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) bool { return int(x)-int(y) <= 1 && int(y)-int(x) <= 1 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestOver(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}
	halfBlack := color.NRGBA{0, 0, 0, 128}

	tests := []struct {
		name     string
		src, dst color.NRGBA
		want     color.NRGBA
	}{
		{"transparent source", Transparent, white, white},
		{"opaque source", black, white, black},
		{"transparent destination", halfBlack, Transparent, halfBlack},
		{"half over white", halfBlack, white, color.NRGBA{127, 127, 127, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Over(tt.src, tt.dst); !near(got, tt.want) {
				t.Errorf("Over(%v, %v) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestWithAlpha(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 200}
	if got := WithAlpha(c, 1); got != c {
		t.Errorf("WithAlpha(c, 1) = %v, want %v", got, c)
	}
	if got := WithAlpha(c, 0.5).A; got != 100 {
		t.Errorf("WithAlpha(c, 0.5).A = %d, want 100", got)
	}
	if got := WithAlpha(c, -1).A; got != 0 {
		t.Errorf("WithAlpha(c, -1).A = %d, want 0", got)
	}
}

func TestLinearGradient(t *testing.T) {
	g := &LinearGradient{X0: 0, Y0: 0, X1: 10, Y1: 0}
	if got := g.ColorAt(5, 0); got != Transparent {
		t.Errorf("ColorAt() without stops = %v, want transparent", got)
	}

	g.AddColorStop(1, "#ffffff")
	g.AddColorStop(0, "#000000")
	g.AddColorStop(0.5, "not a color")
	if len(g.Stops) != 2 {
		t.Fatalf("len(Stops) = %d, want 2", len(g.Stops))
	}
	if g.Stops[0].Offset != 0 {
		t.Errorf("Stops[0].Offset = %v, want 0", g.Stops[0].Offset)
	}

	tests := []struct {
		x    float64
		want color.NRGBA
	}{
		{-3, color.NRGBA{0, 0, 0, 255}},
		{0, color.NRGBA{0, 0, 0, 255}},
		{5, color.NRGBA{128, 128, 128, 255}},
		{10, color.NRGBA{255, 255, 255, 255}},
		{42, color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := g.ColorAt(tt.x, 3); !near(got, tt.want) {
			t.Errorf("ColorAt(%v, 3) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
