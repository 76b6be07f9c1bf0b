package gfx

// GraphicsContext wraps a Context2D and forwards property writes only when
// the value actually changes. Save pushes a state node taken from a free
// list owned by the context; Restore returns it.
type GraphicsContext struct {
	ctx   Context2D
	state *stateNode
	free  *stateNode
}

type stateNode struct {
	State
	next *stateNode
}

// NewGraphicsContext wraps ctx, seeding the cache from its current state.
func NewGraphicsContext(ctx Context2D) *GraphicsContext {
	gc := &GraphicsContext{ctx: ctx}
	gc.state = &stateNode{State: ctx.State()}
	return gc
}

// Dispose unwinds any unbalanced saves. The context must not be used
// afterwards; calling Dispose again is a no-op.
func (gc *GraphicsContext) Dispose() {
	if gc.ctx == nil {
		return
	}
	for gc.state.next != nil {
		gc.pop()
		gc.ctx.Restore()
	}
	gc.ctx = nil
	gc.state = nil
	gc.free = nil
}

// Context returns the wrapped context.
func (gc *GraphicsContext) Context() Context2D { return gc.ctx }

// State returns the cached property values.
func (gc *GraphicsContext) State() State { return gc.state.State }

// Save pushes the current state.
func (gc *GraphicsContext) Save() {
	node := gc.free
	if node != nil {
		gc.free = node.next
	} else {
		node = &stateNode{}
	}
	node.State = gc.state.State
	node.next = gc.state
	gc.state = node
	gc.ctx.Save()
}

// Restore pops the most recently saved state. Restoring with nothing saved
// is a no-op.
func (gc *GraphicsContext) Restore() {
	if gc.state.next == nil {
		return
	}
	gc.pop()
	gc.ctx.Restore()
}

func (gc *GraphicsContext) pop() {
	node := gc.state
	gc.state = node.next
	node.State = State{}
	node.next = gc.free
	gc.free = node
}

// FillStyle returns the cached fill style.
func (gc *GraphicsContext) FillStyle() Paint { return gc.state.FillStyle }

func (gc *GraphicsContext) SetFillStyle(p Paint) {
	if gc.state.FillStyle != p {
		gc.state.FillStyle = p
		gc.ctx.SetFillStyle(p)
	}
}

// StrokeStyle returns the cached stroke style.
func (gc *GraphicsContext) StrokeStyle() Paint { return gc.state.StrokeStyle }

func (gc *GraphicsContext) SetStrokeStyle(p Paint) {
	if gc.state.StrokeStyle != p {
		gc.state.StrokeStyle = p
		gc.ctx.SetStrokeStyle(p)
	}
}

// Font returns the cached font.
func (gc *GraphicsContext) Font() string { return gc.state.Font }

func (gc *GraphicsContext) SetFont(font string) {
	if gc.state.Font != font {
		gc.state.Font = font
		gc.ctx.SetFont(font)
	}
}

func (gc *GraphicsContext) TextAlign() string { return gc.state.TextAlign }

func (gc *GraphicsContext) SetTextAlign(align string) {
	if gc.state.TextAlign != align {
		gc.state.TextAlign = align
		gc.ctx.SetTextAlign(align)
	}
}

func (gc *GraphicsContext) TextBaseline() string { return gc.state.TextBaseline }

func (gc *GraphicsContext) SetTextBaseline(baseline string) {
	if gc.state.TextBaseline != baseline {
		gc.state.TextBaseline = baseline
		gc.ctx.SetTextBaseline(baseline)
	}
}

func (gc *GraphicsContext) LineWidth() float64 { return gc.state.LineWidth }

func (gc *GraphicsContext) SetLineWidth(width float64) {
	if gc.state.LineWidth != width {
		gc.state.LineWidth = width
		gc.ctx.SetLineWidth(width)
	}
}

func (gc *GraphicsContext) SetLineCap(lineCap string) {
	if gc.state.LineCap != lineCap {
		gc.state.LineCap = lineCap
		gc.ctx.SetLineCap(lineCap)
	}
}

func (gc *GraphicsContext) SetLineJoin(lineJoin string) {
	if gc.state.LineJoin != lineJoin {
		gc.state.LineJoin = lineJoin
		gc.ctx.SetLineJoin(lineJoin)
	}
}

func (gc *GraphicsContext) SetMiterLimit(limit float64) {
	if gc.state.MiterLimit != limit {
		gc.state.MiterLimit = limit
		gc.ctx.SetMiterLimit(limit)
	}
}

func (gc *GraphicsContext) GlobalAlpha() float64 { return gc.state.GlobalAlpha }

func (gc *GraphicsContext) SetGlobalAlpha(alpha float64) {
	if gc.state.GlobalAlpha != alpha {
		gc.state.GlobalAlpha = alpha
		gc.ctx.SetGlobalAlpha(alpha)
	}
}

func (gc *GraphicsContext) SetGlobalCompositeOperation(op string) {
	if gc.state.GlobalCompositeOperation != op {
		gc.state.GlobalCompositeOperation = op
		gc.ctx.SetGlobalCompositeOperation(op)
	}
}

func (gc *GraphicsContext) SetShadowColor(color string) {
	if gc.state.ShadowColor != color {
		gc.state.ShadowColor = color
		gc.ctx.SetShadowColor(color)
	}
}

func (gc *GraphicsContext) SetShadowBlur(blur float64) {
	if gc.state.ShadowBlur != blur {
		gc.state.ShadowBlur = blur
		gc.ctx.SetShadowBlur(blur)
	}
}

func (gc *GraphicsContext) SetShadowOffsetX(offset float64) {
	if gc.state.ShadowOffsetX != offset {
		gc.state.ShadowOffsetX = offset
		gc.ctx.SetShadowOffsetX(offset)
	}
}

func (gc *GraphicsContext) SetShadowOffsetY(offset float64) {
	if gc.state.ShadowOffsetY != offset {
		gc.state.ShadowOffsetY = offset
		gc.ctx.SetShadowOffsetY(offset)
	}
}

func (gc *GraphicsContext) SetTransform(a, b, c, d, e, f float64) {
	gc.ctx.SetTransform(a, b, c, d, e, f)
}

func (gc *GraphicsContext) Translate(x, y float64) { gc.ctx.Translate(x, y) }

func (gc *GraphicsContext) Scale(x, y float64) { gc.ctx.Scale(x, y) }

func (gc *GraphicsContext) BeginPath() { gc.ctx.BeginPath() }

func (gc *GraphicsContext) ClosePath() { gc.ctx.ClosePath() }

func (gc *GraphicsContext) MoveTo(x, y float64) { gc.ctx.MoveTo(x, y) }

func (gc *GraphicsContext) LineTo(x, y float64) { gc.ctx.LineTo(x, y) }

func (gc *GraphicsContext) Rect(x, y, w, h float64) { gc.ctx.Rect(x, y, w, h) }

func (gc *GraphicsContext) Fill() { gc.ctx.Fill() }

func (gc *GraphicsContext) Stroke() { gc.ctx.Stroke() }

func (gc *GraphicsContext) Clip() { gc.ctx.Clip() }

func (gc *GraphicsContext) FillRect(x, y, w, h float64) { gc.ctx.FillRect(x, y, w, h) }

func (gc *GraphicsContext) StrokeRect(x, y, w, h float64) { gc.ctx.StrokeRect(x, y, w, h) }

func (gc *GraphicsContext) ClearRect(x, y, w, h float64) { gc.ctx.ClearRect(x, y, w, h) }

func (gc *GraphicsContext) FillText(text string, x, y float64) { gc.ctx.FillText(text, x, y) }

func (gc *GraphicsContext) MeasureText(text string) TextMetrics { return gc.ctx.MeasureText(text) }

func (gc *GraphicsContext) DrawImage(src Image, sx, sy, sw, sh, dx, dy float64) {
	gc.ctx.DrawImage(src, sx, sy, sw, sh, dx, dy)
}

func (gc *GraphicsContext) CreateLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	return gc.ctx.CreateLinearGradient(x0, y0, x1, y1)
}

var _ Context2D = (*GraphicsContext)(nil)
