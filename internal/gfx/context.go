// Package gfx defines the 2D drawing surface the grid paints on, a
// state-caching wrapper around it and an in-memory cell raster that
// implements it.
package gfx

// Paint is a fill or stroke style.
type Paint interface {
	isPaint()
}

// Color is a CSS color string such as "#f3f3f3" or "rgba(0,0,0,0.2)".
// The empty Color means "no color".
type Color string

func (Color) isPaint() {}

// TextMetrics describes measured text.
type TextMetrics struct {
	Width  float64
	Height float64
}

// Image is a source for DrawImage.
type Image interface {
	Width() int
	Height() int
}

// State holds the settable properties of a drawing context.
type State struct {
	FillStyle                Paint
	StrokeStyle              Paint
	Font                     string
	TextAlign                string
	TextBaseline             string
	LineWidth                float64
	LineCap                  string
	LineJoin                 string
	MiterLimit               float64
	GlobalAlpha              float64
	GlobalCompositeOperation string
	ShadowColor              string
	ShadowBlur               float64
	ShadowOffsetX            float64
	ShadowOffsetY            float64
}

// DefaultState returns the property values of a freshly created context.
func DefaultState() State {
	return State{
		FillStyle:                Color("#000000"),
		StrokeStyle:              Color("#000000"),
		Font:                     "10px sans-serif",
		TextAlign:                "start",
		TextBaseline:             "alphabetic",
		LineWidth:                1,
		LineCap:                  "butt",
		LineJoin:                 "miter",
		MiterLimit:               10,
		GlobalAlpha:              1,
		GlobalCompositeOperation: "source-over",
		ShadowColor:              "rgba(0, 0, 0, 0)",
	}
}

// Context2D is a stateful 2D drawing context.
type Context2D interface {
	State() State

	SetFillStyle(p Paint)
	SetStrokeStyle(p Paint)
	SetFont(font string)
	SetTextAlign(align string)
	SetTextBaseline(baseline string)
	SetLineWidth(width float64)
	SetLineCap(lineCap string)
	SetLineJoin(lineJoin string)
	SetMiterLimit(limit float64)
	SetGlobalAlpha(alpha float64)
	SetGlobalCompositeOperation(op string)
	SetShadowColor(color string)
	SetShadowBlur(blur float64)
	SetShadowOffsetX(offset float64)
	SetShadowOffsetY(offset float64)

	Save()
	Restore()

	SetTransform(a, b, c, d, e, f float64)
	Translate(x, y float64)
	Scale(x, y float64)

	BeginPath()
	ClosePath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(x, y, w, h float64)
	Fill()
	Stroke()
	Clip()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	ClearRect(x, y, w, h float64)

	FillText(text string, x, y float64)
	MeasureText(text string) TextMetrics

	DrawImage(src Image, sx, sy, sw, sh, dx, dy float64)
	CreateLinearGradient(x0, y0, x1, y1 float64) *LinearGradient
}

// Surface is a resizable context that can also be used as an image source.
// Resizing clears the surface.
type Surface interface {
	Context2D
	Image
	Resize(width, height int)
}
