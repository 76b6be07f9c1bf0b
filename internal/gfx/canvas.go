package gfx

import (
	"image/color"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Box-drawing connections of a cell.
const (
	LineLeft uint8 = 1 << iota
	LineRight
	LineUp
	LineDown
)

var lightBox = [16]rune{
	' ', '─', '─', '─',
	'│', '┘', '└', '┴',
	'│', '┐', '┌', '┬',
	'│', '┤', '├', '┼',
}

var heavyBox = [16]rune{
	' ', '━', '━', '━',
	'┃', '┛', '┗', '┻',
	'┃', '┓', '┏', '┳',
	'┃', '┫', '┣', '╋',
}

// Cell is one pixel of a CellCanvas.
type Cell struct {
	Text  string // grapheme cluster, empty when blank
	Cont  bool   // right half of a wide cluster
	Lines uint8
	Heavy bool
	Fg    color.NRGBA
	Bg    color.NRGBA
}

// Content returns the glyph shown in the cell.
func (c Cell) Content() string {
	switch {
	case c.Cont:
		return ""
	case c.Text != "":
		return c.Text
	case c.Lines != 0:
		if c.Heavy {
			return string(heavyBox[c.Lines&0xf])
		}
		return string(lightBox[c.Lines&0xf])
	}
	return " "
}

func (c Cell) hasGlyph() bool {
	return c.Text != "" || c.Lines != 0 || c.Cont
}

// TextWidth returns the number of cells text occupies.
func TextWidth(text string) int {
	width := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

type rect struct {
	x0, y0, x1, y1 int // x1/y1 exclusive
}

func (r rect) intersect(o rect) rect {
	r.x0 = max(r.x0, o.x0)
	r.y0 = max(r.y0, o.y0)
	r.x1 = min(r.x1, o.x1)
	r.y1 = min(r.y1, o.y1)
	if r.x1 < r.x0 {
		r.x1 = r.x0
	}
	if r.y1 < r.y0 {
		r.y1 = r.y0
	}
	return r
}

func (r rect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

type canvasState struct {
	State
	fill      color.NRGBA
	stroke    color.NRGBA
	transform [6]float64
	clip      rect
	clipped   bool
}

type point struct{ x, y float64 }

type subpath struct {
	points []point
	isRect bool
}

// CellCanvas is an in-memory Surface whose pixels are terminal cells.
// Text is laid out one cell per column with a font height of one cell.
// Axis aligned strokes are drawn with box-drawing glyphs.
type CellCanvas struct {
	width  int
	height int
	cells  []Cell
	state  canvasState
	stack  []canvasState
	path   []subpath
}

// NewCellCanvas creates a transparent canvas.
func NewCellCanvas(width, height int) *CellCanvas {
	c := &CellCanvas{}
	c.state = newCanvasState()
	c.Resize(width, height)
	return c
}

func newCanvasState() canvasState {
	s := canvasState{State: DefaultState()}
	s.fill = color.NRGBA{0, 0, 0, 255}
	s.stroke = color.NRGBA{0, 0, 0, 255}
	s.transform = [6]float64{1, 0, 0, 1, 0, 0}
	return s
}

func (c *CellCanvas) Width() int  { return c.width }
func (c *CellCanvas) Height() int { return c.height }

// Resize reallocates the canvas, clearing its content and resetting the
// drawing state.
func (c *CellCanvas) Resize(width, height int) {
	width = max(0, width)
	height = max(0, height)
	c.width = width
	c.height = height
	c.cells = make([]Cell, width*height)
	c.state = newCanvasState()
	c.stack = c.stack[:0]
	c.path = c.path[:0]
}

// At returns the cell at x, y. Out of range positions return a blank cell.
func (c *CellCanvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return Cell{}
	}
	return c.cells[y*c.width+x]
}

func (c *CellCanvas) cell(x, y int) *Cell {
	return &c.cells[y*c.width+x]
}

// Text returns the glyphs of row y in columns [x0, x1).
func (c *CellCanvas) Text(x0, x1, y int) string {
	var b strings.Builder
	for x := x0; x < x1; x++ {
		b.WriteString(c.At(x, y).Content())
	}
	return b.String()
}

// String renders every row of the canvas, one line per row.
func (c *CellCanvas) String() string {
	lines := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		lines[y] = c.Text(0, c.width, y)
	}
	return strings.Join(lines, "\n")
}

// Composite returns the cell at x, y with the same cell of overlay drawn on
// top of it.
func (c *CellCanvas) Composite(overlay *CellCanvas, x, y int) Cell {
	out := c.At(x, y)
	if overlay == nil {
		return out
	}
	o := overlay.At(x, y)
	if o.Bg.A > 0 {
		out.Bg = Over(o.Bg, out.Bg)
		out.Fg = Over(o.Bg, out.Fg)
	}
	if o.hasGlyph() {
		out.Text = o.Text
		out.Cont = o.Cont
		out.Lines = o.Lines
		out.Heavy = o.Heavy
		out.Fg = o.Fg
	}
	return out
}

func (c *CellCanvas) bounds() rect {
	r := rect{0, 0, c.width, c.height}
	if c.state.clipped {
		r = r.intersect(c.state.clip)
	}
	return r
}

func (c *CellCanvas) apply(x, y float64) (float64, float64) {
	t := c.state.transform
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// span returns the cells whose centres lie in [a, b).
func span(a, b float64) (int, int) {
	if b < a {
		a, b = b, a
	}
	return int(math.Ceil(a - 0.5)), int(math.Ceil(b - 0.5))
}

func (c *CellCanvas) deviceRect(x, y, w, h float64) rect {
	x0, y0 := c.apply(x, y)
	x1, y1 := c.apply(x+w, y+h)
	cx0, cx1 := span(x0, x1)
	cy0, cy1 := span(y0, y1)
	return rect{cx0, cy0, cx1, cy1}
}

func (c *CellCanvas) State() State { return c.state.State }

func (c *CellCanvas) SetFillStyle(p Paint) {
	c.state.FillStyle = p
	if col, ok := p.(Color); ok {
		c.state.fill, _ = ParseColor(string(col))
	}
}

func (c *CellCanvas) SetStrokeStyle(p Paint) {
	c.state.StrokeStyle = p
	if col, ok := p.(Color); ok {
		c.state.stroke, _ = ParseColor(string(col))
	}
}

func (c *CellCanvas) SetFont(font string)                   { c.state.Font = font }
func (c *CellCanvas) SetTextAlign(align string)             { c.state.TextAlign = align }
func (c *CellCanvas) SetTextBaseline(baseline string)       { c.state.TextBaseline = baseline }
func (c *CellCanvas) SetLineWidth(width float64)            { c.state.LineWidth = width }
func (c *CellCanvas) SetLineCap(lineCap string)             { c.state.LineCap = lineCap }
func (c *CellCanvas) SetLineJoin(lineJoin string)           { c.state.LineJoin = lineJoin }
func (c *CellCanvas) SetMiterLimit(limit float64)           { c.state.MiterLimit = limit }
func (c *CellCanvas) SetGlobalAlpha(alpha float64)          { c.state.GlobalAlpha = alpha }
func (c *CellCanvas) SetGlobalCompositeOperation(op string) { c.state.GlobalCompositeOperation = op }
func (c *CellCanvas) SetShadowColor(color string)           { c.state.ShadowColor = color }
func (c *CellCanvas) SetShadowBlur(blur float64)            { c.state.ShadowBlur = blur }
func (c *CellCanvas) SetShadowOffsetX(offset float64)       { c.state.ShadowOffsetX = offset }
func (c *CellCanvas) SetShadowOffsetY(offset float64)       { c.state.ShadowOffsetY = offset }

func (c *CellCanvas) Save() {
	c.stack = append(c.stack, c.state)
}

func (c *CellCanvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *CellCanvas) SetTransform(a, b, cc, d, e, f float64) {
	c.state.transform = [6]float64{a, b, cc, d, e, f}
}

func (c *CellCanvas) Translate(x, y float64) {
	t := &c.state.transform
	t[4] += t[0]*x + t[2]*y
	t[5] += t[1]*x + t[3]*y
}

func (c *CellCanvas) Scale(x, y float64) {
	t := &c.state.transform
	t[0] *= x
	t[1] *= x
	t[2] *= y
	t[3] *= y
}

func (c *CellCanvas) BeginPath() { c.path = c.path[:0] }

func (c *CellCanvas) ClosePath() {
	if len(c.path) == 0 {
		return
	}
	sp := &c.path[len(c.path)-1]
	if len(sp.points) > 1 && !sp.isRect {
		sp.points = append(sp.points, sp.points[0])
	}
}

func (c *CellCanvas) MoveTo(x, y float64) {
	x, y = c.apply(x, y)
	c.path = append(c.path, subpath{points: []point{{x, y}}})
}

func (c *CellCanvas) LineTo(x, y float64) {
	if len(c.path) == 0 {
		c.MoveTo(x, y)
		return
	}
	x, y = c.apply(x, y)
	sp := &c.path[len(c.path)-1]
	sp.points = append(sp.points, point{x, y})
}

func (c *CellCanvas) Rect(x, y, w, h float64) {
	x0, y0 := c.apply(x, y)
	x1, y1 := c.apply(x+w, y+h)
	c.path = append(c.path, subpath{
		points: []point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}},
		isRect: true,
	})
}

// Fill fills the rectangles of the current path.
func (c *CellCanvas) Fill() {
	for _, sp := range c.path {
		if !sp.isRect {
			continue
		}
		x0, x1 := span(sp.points[0].x, sp.points[2].x)
		y0, y1 := span(sp.points[0].y, sp.points[2].y)
		c.fillCells(rect{x0, y0, x1, y1})
	}
}

// Clip intersects the clip region with the bounding box of the path.
func (c *CellCanvas) Clip() {
	if len(c.path) == 0 {
		c.state.clip = rect{}
		c.state.clipped = true
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sp := range c.path {
		for _, p := range sp.points {
			minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
			minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
		}
	}
	x0, x1 := span(minX, maxX)
	y0, y1 := span(minY, maxY)
	r := rect{x0, y0, x1, y1}
	if c.state.clipped {
		r = r.intersect(c.state.clip)
	}
	c.state.clip = r
	c.state.clipped = true
}

// Stroke draws the horizontal and vertical segments of the current path.
// Diagonal segments are not drawn.
func (c *CellCanvas) Stroke() {
	lw := c.state.LineWidth
	for _, sp := range c.path {
		for i := 1; i < len(sp.points); i++ {
			a, b := sp.points[i-1], sp.points[i]
			switch {
			case a.y == b.y && a.x != b.x:
				row := int(math.Floor(a.y - lw/2 + 0.5))
				x0, x1 := int(math.Floor(math.Min(a.x, b.x))), int(math.Ceil(math.Max(a.x, b.x)))
				c.hline(x0, x1, row, LineLeft|LineRight, LineLeft|LineRight)
			case a.x == b.x && a.y != b.y:
				col := int(math.Floor(a.x - lw/2 + 0.5))
				y0, y1 := int(math.Floor(math.Min(a.y, b.y))), int(math.Ceil(math.Max(a.y, b.y)))
				c.vline(col, y0, y1, LineUp|LineDown, LineUp|LineDown)
			}
		}
	}
}

// StrokeRect outlines a rectangle. Edges snap outward to whole cells.
func (c *CellCanvas) StrokeRect(x, y, w, h float64) {
	ax, ay := c.apply(x, y)
	bx, by := c.apply(x+w, y+h)
	if bx < ax {
		ax, bx = bx, ax
	}
	if by < ay {
		ay, by = by, ay
	}
	left := int(math.Floor(ax - 0.25))
	top := int(math.Floor(ay - 0.25))
	right := int(math.Floor(bx))
	bottom := int(math.Floor(by))
	if right < left || bottom < top {
		return
	}
	if right == left {
		c.vline(left, top, bottom+1, LineUp|LineDown, LineUp|LineDown)
		return
	}
	if bottom == top {
		c.hline(left, right+1, top, LineLeft|LineRight, LineLeft|LineRight)
		return
	}
	c.hline(left, right+1, top, LineRight|LineDown, LineLeft|LineDown)
	c.hline(left, right+1, bottom, LineRight|LineUp, LineLeft|LineUp)
	c.vline(left, top+1, bottom, LineUp|LineDown, LineUp|LineDown)
	c.vline(right, top+1, bottom, LineUp|LineDown, LineUp|LineDown)
}

// hline marks cells [x0, x1) of row y; the first and last cells get the
// given end masks, interior cells a plain horizontal line.
func (c *CellCanvas) hline(x0, x1, y int, first, last uint8) {
	b := c.bounds()
	for x := x0; x < x1; x++ {
		mask := LineLeft | LineRight
		switch x {
		case x0:
			mask = first
		case x1 - 1:
			mask = last
		}
		if b.contains(x, y) {
			c.markLine(x, y, mask)
		}
	}
}

func (c *CellCanvas) vline(x, y0, y1 int, first, last uint8) {
	b := c.bounds()
	for y := y0; y < y1; y++ {
		mask := LineUp | LineDown
		switch y {
		case y0:
			mask = first
		case y1 - 1:
			mask = last
		}
		if b.contains(x, y) {
			c.markLine(x, y, mask)
		}
	}
}

func (c *CellCanvas) markLine(x, y int, mask uint8) {
	cell := c.cell(x, y)
	c.clearWide(x, y)
	cell.Text = ""
	cell.Cont = false
	cell.Lines |= mask
	cell.Heavy = c.state.LineWidth >= 2
	cell.Fg = WithAlpha(c.strokeColorAt(x, y), c.state.GlobalAlpha)
}

func (c *CellCanvas) strokeColorAt(x, y int) color.NRGBA {
	if g, ok := c.state.StrokeStyle.(*LinearGradient); ok {
		return g.ColorAt(float64(x)+0.5, float64(y)+0.5)
	}
	return c.state.stroke
}

func (c *CellCanvas) fillColorAt(x, y int) color.NRGBA {
	if g, ok := c.state.FillStyle.(*LinearGradient); ok {
		return g.ColorAt(float64(x)+0.5, float64(y)+0.5)
	}
	return c.state.fill
}

func (c *CellCanvas) FillRect(x, y, w, h float64) {
	c.fillCells(c.deviceRect(x, y, w, h))
}

func (c *CellCanvas) fillCells(r rect) {
	r = r.intersect(c.bounds())
	for y := r.y0; y < r.y1; y++ {
		for x := r.x0; x < r.x1; x++ {
			col := WithAlpha(c.fillColorAt(x, y), c.state.GlobalAlpha)
			if col.A == 0 {
				continue
			}
			cell := c.cell(x, y)
			if col.A == 255 {
				c.clearWide(x, y)
				*cell = Cell{Fg: col, Bg: col}
				continue
			}
			cell.Bg = Over(col, cell.Bg)
			cell.Fg = Over(col, cell.Fg)
		}
	}
}

func (c *CellCanvas) ClearRect(x, y, w, h float64) {
	r := c.deviceRect(x, y, w, h).intersect(c.bounds())
	for y := r.y0; y < r.y1; y++ {
		for x := r.x0; x < r.x1; x++ {
			c.clearWide(x, y)
			*c.cell(x, y) = Cell{}
		}
	}
}

// clearWide blanks the other half of a wide cluster that overlaps x, y.
func (c *CellCanvas) clearWide(x, y int) {
	cell := c.cell(x, y)
	if cell.Cont && x > 0 {
		c.cell(x-1, y).Text = ""
	}
	if !cell.Cont && cell.Text != "" && x+1 < c.width {
		if next := c.cell(x+1, y); next.Cont {
			next.Cont = false
		}
	}
}

// FillText draws text with its baseline at y. The font is one cell tall.
func (c *CellCanvas) FillText(text string, x, y float64) {
	if text == "" {
		return
	}
	dx, dy := c.apply(x, y)

	var top float64
	switch c.state.TextBaseline {
	case "top", "hanging":
		top = dy
	case "middle":
		top = dy - 0.5
	default:
		top = dy - 1
	}
	row := int(math.Ceil(top - 0.5))

	width := float64(TextWidth(text))
	start := dx
	switch c.state.TextAlign {
	case "right", "end":
		start = dx - width
	case "center":
		start = dx - width/2
	}
	col := int(math.Floor(start + 0.5))

	b := c.bounds()
	if row < b.y0 || row >= b.y1 {
		return
	}
	fg := WithAlpha(c.fillColorAt(col, row), c.state.GlobalAlpha)

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if w == 0 {
			continue
		}
		if col >= b.x0 && col+w <= b.x1 {
			c.clearWide(col, row)
			cell := c.cell(col, row)
			cell.Text = cluster
			cell.Cont = false
			cell.Lines = 0
			cell.Fg = fg
			if w == 2 {
				c.clearWide(col+1, row)
				next := c.cell(col+1, row)
				next.Text = ""
				next.Lines = 0
				next.Cont = true
				next.Bg = cell.Bg
			}
		}
		col += w
	}
}

func (c *CellCanvas) MeasureText(text string) TextMetrics {
	return TextMetrics{Width: float64(TextWidth(text)), Height: 1}
}

// DrawImage composites a region of src (which must be a *CellCanvas) at
// dx, dy. Source and destination may be the same canvas.
func (c *CellCanvas) DrawImage(src Image, sx, sy, sw, sh, dx, dy float64) {
	from, ok := src.(*CellCanvas)
	if !ok {
		return
	}
	x0, y0 := int(math.Round(sx)), int(math.Round(sy))
	w, h := int(math.Round(sw)), int(math.Round(sh))
	tx, ty := c.apply(dx, dy)
	destX, destY := int(math.Round(tx)), int(math.Round(ty))
	if w <= 0 || h <= 0 {
		return
	}

	block := make([]Cell, w*h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			block[j*w+i] = from.At(x0+i, y0+j)
		}
	}

	b := c.bounds()
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			x, y := destX+i, destY+j
			if !b.contains(x, y) {
				continue
			}
			s := block[j*w+i]
			if s.Bg.A == 0 && !s.hasGlyph() {
				continue
			}
			cell := c.cell(x, y)
			if s.Bg.A == 255 || s.hasGlyph() {
				c.clearWide(x, y)
			}
			bg := Over(s.Bg, cell.Bg)
			if s.hasGlyph() {
				*cell = s
			} else if s.Bg.A == 255 {
				*cell = Cell{Fg: s.Fg}
			}
			cell.Bg = bg
		}
	}
}

func (c *CellCanvas) CreateLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	ax, ay := c.apply(x0, y0)
	bx, by := c.apply(x1, y1)
	return &LinearGradient{X0: ax, Y0: ay, X1: bx, Y1: by}
}

var _ Surface = (*CellCanvas)(nil)
