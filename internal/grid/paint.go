package grid

import (
	"fmt"

	"dgrid/internal/datamodel"
	"dgrid/internal/gfx"
	"dgrid/internal/render"
	"dgrid/internal/sections"
)

// paintRegion is the dirty part of one content region, handed to the
// drawing routines.
type paintRegion struct {
	region datamodel.Region

	// Dirty bounds in viewport coordinates, inclusive.
	xMin, yMin, xMax, yMax int

	// Origin and size of the whole cells covering the bounds.
	x, y          int
	width, height int

	row, column int
	rowSizes    []int
	columnSizes []int
}

// paintContent repaints a rectangle of the viewport. Regions are drawn in a
// fixed order so headers end up on top of the body.
func (g *DataGrid) paintContent(rx, ry, rw, rh int) {
	g.canvasGC.Context().SetTransform(g.dpiRatio, 0, 0, g.dpiRatio, 0, 0)
	g.bufferGC.Context().SetTransform(g.dpiRatio, 0, 0, g.dpiRatio, 0, 0)

	g.canvasGC.ClearRect(float64(rx), float64(ry), float64(rw), float64(rh))

	g.drawVoidRegion(rx, ry, rw, rh)
	g.drawBodyRegion(rx, ry, rw, rh)
	g.drawRowHeaderRegion(rx, ry, rw, rh)
	g.drawColumnHeaderRegion(rx, ry, rw, rh)
	g.drawCornerHeaderRegion(rx, ry, rw, rh)
}

func (g *DataGrid) drawVoidRegion(rx, ry, rw, rh int) {
	if g.style.VoidColor == "" {
		return
	}
	g.canvasGC.SetFillStyle(g.style.VoidColor)
	g.canvasGC.FillRect(float64(rx), float64(ry), float64(rw), float64(rh))
}

// regionSpec says which section lists and content rectangle a region uses.
type regionSpec struct {
	region   datamodel.Region
	rows     *sections.List
	columns  *sections.List
	contentX int
	contentY int
	contentW int
	contentH int
	scrollX  int
	scrollY  int
	// stretch the last row or column of the region
	stretchRows    bool
	stretchColumns bool
}

// makePaintRegion intersects the dirty rect with a region's content and
// collects the sizes of the sections it covers. ok is false when nothing
// needs painting.
func (g *DataGrid) makePaintRegion(s regionSpec, rx, ry, rw, rh int) (paintRegion, bool) {
	if s.contentW <= 0 || s.contentH <= 0 {
		return paintRegion{}, false
	}

	bw, bh := g.BodyWidth(), g.BodyHeight()
	pw, ph := g.PageWidth(), g.PageHeight()
	stretchW := s.stretchColumns && g.stretchLastColumn && pw > bw
	stretchH := s.stretchRows && g.stretchLastRow && ph > bh

	// The stretched section extends the content to the page edge.
	contentW, contentH := s.contentW, s.contentH
	if stretchW {
		contentW = max(contentW, pw)
	}
	if stretchH {
		contentH = max(contentH, ph)
	}

	if rx+rw <= s.contentX || ry+rh <= s.contentY {
		return paintRegion{}, false
	}
	if rx >= s.contentX+contentW || ry >= s.contentY+contentH {
		return paintRegion{}, false
	}

	x1 := max(rx, s.contentX)
	y1 := max(ry, s.contentY)
	x2 := min(rx+rw-1, s.contentX+contentW-1)
	y2 := min(ry+rh-1, s.contentY+contentH-1)

	r1 := s.rows.IndexOf(y1 - s.contentY + s.scrollY)
	c1 := s.columns.IndexOf(x1 - s.contentX + s.scrollX)
	r2 := s.rows.IndexOf(y2 - s.contentY + s.scrollY)
	c2 := s.columns.IndexOf(x2 - s.contentX + s.scrollX)

	maxRow := s.rows.Count() - 1
	maxColumn := s.columns.Count() - 1
	if r1 < 0 {
		r1 = maxRow
	}
	if c1 < 0 {
		c1 = maxColumn
	}
	if r2 < 0 {
		r2 = maxRow
	}
	if c2 < 0 {
		c2 = maxColumn
	}
	if r1 < 0 || c1 < 0 {
		return paintRegion{}, false
	}

	rgn := paintRegion{
		region:      s.region,
		xMin:        x1,
		yMin:        y1,
		xMax:        x2,
		yMax:        y2,
		x:           s.columns.OffsetOf(c1) + s.contentX - s.scrollX,
		y:           s.rows.OffsetOf(r1) + s.contentY - s.scrollY,
		row:         r1,
		column:      c1,
		rowSizes:    make([]int, r2-r1+1),
		columnSizes: make([]int, c2-c1+1),
	}
	for j := r1; j <= r2; j++ {
		size := s.rows.SizeOf(j)
		rgn.rowSizes[j-r1] = size
		rgn.height += size
	}
	for i := c1; i <= c2; i++ {
		size := s.columns.SizeOf(i)
		rgn.columnSizes[i-c1] = size
		rgn.width += size
	}

	if stretchH && r2 == maxRow {
		dh := ph - bh
		rgn.rowSizes[len(rgn.rowSizes)-1] += dh
		rgn.height += dh
	}
	if stretchW && c2 == maxColumn {
		dw := pw - bw
		rgn.columnSizes[len(rgn.columnSizes)-1] += dw
		rgn.width += dw
	}
	return rgn, true
}

func (g *DataGrid) drawBodyRegion(rx, ry, rw, rh int) {
	rgn, ok := g.makePaintRegion(regionSpec{
		region:         datamodel.Body,
		rows:           g.rowSections,
		columns:        g.columnSections,
		contentX:       g.HeaderWidth(),
		contentY:       g.HeaderHeight(),
		contentW:       g.columnSections.Length() - g.scrollX,
		contentH:       g.rowSections.Length() - g.scrollY,
		scrollX:        g.scrollX,
		scrollY:        g.scrollY,
		stretchRows:    true,
		stretchColumns: true,
	}, rx, ry, rw, rh)
	if !ok {
		return
	}
	g.drawBackground(rgn, g.style.BackgroundColor)
	g.drawRowBackground(rgn, g.style.RowBackgroundColor)
	g.drawColumnBackground(rgn, g.style.ColumnBackgroundColor)
	g.drawCells(rgn)
	g.drawHorizontalGridLines(rgn, firstColor(g.style.HorizontalGridLineColor, g.style.GridLineColor))
	g.drawVerticalGridLines(rgn, firstColor(g.style.VerticalGridLineColor, g.style.GridLineColor))
}

func (g *DataGrid) drawRowHeaderRegion(rx, ry, rw, rh int) {
	rgn, ok := g.makePaintRegion(regionSpec{
		region:      datamodel.RowHeader,
		rows:        g.rowSections,
		columns:     g.rowHeaderSections,
		contentX:    0,
		contentY:    g.HeaderHeight(),
		contentW:    g.HeaderWidth(),
		contentH:    g.rowSections.Length() - g.scrollY,
		scrollY:     g.scrollY,
		stretchRows: true,
	}, rx, ry, rw, rh)
	if !ok {
		return
	}
	g.drawHeaderRegion(rgn)
}

func (g *DataGrid) drawColumnHeaderRegion(rx, ry, rw, rh int) {
	rgn, ok := g.makePaintRegion(regionSpec{
		region:         datamodel.ColumnHeader,
		rows:           g.columnHeaderSections,
		columns:        g.columnSections,
		contentX:       g.HeaderWidth(),
		contentY:       0,
		contentW:       g.columnSections.Length() - g.scrollX,
		contentH:       g.HeaderHeight(),
		scrollX:        g.scrollX,
		stretchColumns: true,
	}, rx, ry, rw, rh)
	if !ok {
		return
	}
	g.drawHeaderRegion(rgn)
}

func (g *DataGrid) drawCornerHeaderRegion(rx, ry, rw, rh int) {
	rgn, ok := g.makePaintRegion(regionSpec{
		region:   datamodel.CornerHeader,
		rows:     g.columnHeaderSections,
		columns:  g.rowHeaderSections,
		contentW: g.HeaderWidth(),
		contentH: g.HeaderHeight(),
	}, rx, ry, rw, rh)
	if !ok {
		return
	}
	g.drawHeaderRegion(rgn)
}

func (g *DataGrid) drawHeaderRegion(rgn paintRegion) {
	g.drawBackground(rgn, g.style.HeaderBackgroundColor)
	g.drawCells(rgn)
	g.drawHorizontalGridLines(rgn, firstColor(g.style.HeaderHorizontalGridLineColor, g.style.HeaderGridLineColor))
	g.drawVerticalGridLines(rgn, firstColor(g.style.HeaderVerticalGridLineColor, g.style.HeaderGridLineColor))
}

func (g *DataGrid) drawBackground(rgn paintRegion, color gfx.Color) {
	if color == "" {
		return
	}
	g.canvasGC.SetFillStyle(color)
	g.canvasGC.FillRect(float64(rgn.xMin), float64(rgn.yMin), float64(rgn.xMax-rgn.xMin+1), float64(rgn.yMax-rgn.yMin+1))
}

func (g *DataGrid) drawRowBackground(rgn paintRegion, colorFn func(int) gfx.Color) {
	if colorFn == nil {
		return
	}
	x1 := max(rgn.xMin, rgn.x)
	x2 := min(rgn.x+rgn.width-1, rgn.xMax)
	y := rgn.y
	for j, size := range rgn.rowSizes {
		if size == 0 {
			continue
		}
		if color := colorFn(rgn.row + j); color != "" {
			y1 := max(rgn.yMin, y)
			y2 := min(y+size-1, rgn.yMax)
			g.canvasGC.SetFillStyle(color)
			g.canvasGC.FillRect(float64(x1), float64(y1), float64(x2-x1+1), float64(y2-y1+1))
		}
		y += size
	}
}

func (g *DataGrid) drawColumnBackground(rgn paintRegion, colorFn func(int) gfx.Color) {
	if colorFn == nil {
		return
	}
	y1 := max(rgn.yMin, rgn.y)
	y2 := min(rgn.y+rgn.height-1, rgn.yMax)
	x := rgn.x
	for i, size := range rgn.columnSizes {
		if size == 0 {
			continue
		}
		if color := colorFn(rgn.column + i); color != "" {
			x1 := max(rgn.xMin, x)
			x2 := min(x+size-1, rgn.xMax)
			g.canvasGC.SetFillStyle(color)
			g.canvasGC.FillRect(float64(x1), float64(y1), float64(x2-x1+1), float64(y2-y1+1))
		}
		x += size
	}
}

// drawCells paints the cells of rgn one column at a time into the buffer
// and blits each column onto the canvas. The blit clips text that
// overflows its column.
func (g *DataGrid) drawCells(rgn paintRegion) {
	if g.dataModel == nil {
		return
	}

	g.bufferGC.Save()
	defer g.bufferGC.Restore()
	gc := gfx.NewGraphicsContext(g.bufferGC.Context())
	defer gc.Dispose()

	config := render.CellConfig{Region: rgn.region}

	top := max(rgn.yMin, rgn.y)
	bottom := min(rgn.y+rgn.height-1, rgn.yMax)

	x := rgn.x
	for i, width := range rgn.columnSizes {
		if width == 0 {
			continue
		}
		column := rgn.column + i
		config.X = x
		config.Width = width
		config.Column = column

		gc.ClearRect(float64(x), float64(rgn.y), float64(width), float64(rgn.height))

		y := rgn.y
		for j, height := range rgn.rowSizes {
			if height == 0 {
				continue
			}
			config.Y = y
			config.Height = height
			config.Row = rgn.row + j
			g.paintCell(gc, config)
			y += height
		}

		x1 := max(rgn.xMin, x)
		x2 := min(x+width-1, rgn.xMax)
		g.blitContent(g.buffer, x1, top, x2-x1+1, bottom-top+1, x1, top)
		x += width
	}
}

// paintCell looks up and paints one cell. A panic from the model or the
// renderer is reported and painting moves on to the next cell.
func (g *DataGrid) paintCell(gc *gfx.GraphicsContext, config render.CellConfig) {
	config.Value = g.cellValue(config)
	config.Metadata = g.cellMetadata(config)

	gc.Save()
	defer gc.Restore()
	defer func() {
		if r := recover(); r != nil {
			g.reportError(fmt.Errorf("paint %s cell (%d, %d): %v", config.Region, config.Row, config.Column, r))
		}
	}()
	g.cellRenderers.Get(config).Paint(gc, config)
}

func (g *DataGrid) cellValue(config render.CellConfig) (value any) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			g.reportError(fmt.Errorf("data %s (%d, %d): %v", config.Region, config.Row, config.Column, r))
		}
	}()
	return g.dataModel.Data(config.Region, config.Row, config.Column)
}

func (g *DataGrid) cellMetadata(config render.CellConfig) (md datamodel.Metadata) {
	defer func() {
		if r := recover(); r != nil {
			md = datamodel.Metadata{}
			g.reportError(fmt.Errorf("metadata %s (%d, %d): %v", config.Region, config.Row, config.Column, r))
		}
	}()
	return g.dataModel.Metadata(config.Region, config.Row, config.Column)
}

func (g *DataGrid) drawHorizontalGridLines(rgn paintRegion, color gfx.Color) {
	if color == "" {
		return
	}
	x1 := max(rgn.xMin, rgn.x)
	x2 := min(rgn.x+rgn.width, rgn.xMax+1)

	gc := g.canvasGC
	gc.BeginPath()
	gc.SetLineWidth(1)

	n := len(rgn.rowSizes)
	// The stretched last row has no bottom line.
	if rgn.region == datamodel.Body || rgn.region == datamodel.RowHeader {
		if g.stretchLastRow && g.PageHeight() > g.BodyHeight() && rgn.row+n == g.rowSections.Count() {
			n--
		}
	}

	y := rgn.y
	for j := 0; j < n; j++ {
		size := rgn.rowSizes[j]
		if size == 0 {
			continue
		}
		pos := y + size - 1
		if pos >= rgn.yMin && pos <= rgn.yMax {
			gc.MoveTo(float64(x1), float64(pos)+0.5)
			gc.LineTo(float64(x2), float64(pos)+0.5)
		}
		y += size
	}

	gc.SetStrokeStyle(color)
	gc.Stroke()
}

func (g *DataGrid) drawVerticalGridLines(rgn paintRegion, color gfx.Color) {
	if color == "" {
		return
	}
	y1 := max(rgn.yMin, rgn.y)
	y2 := min(rgn.y+rgn.height, rgn.yMax+1)

	gc := g.canvasGC
	gc.BeginPath()
	gc.SetLineWidth(1)

	n := len(rgn.columnSizes)
	// The stretched last column has no right line.
	if rgn.region == datamodel.Body || rgn.region == datamodel.ColumnHeader {
		if g.stretchLastColumn && g.PageWidth() > g.BodyWidth() && rgn.column+n == g.columnSections.Count() {
			n--
		}
	}

	x := rgn.x
	for i := 0; i < n; i++ {
		size := rgn.columnSizes[i]
		if size == 0 {
			continue
		}
		pos := x + size - 1
		if pos >= rgn.xMin && pos <= rgn.xMax {
			gc.MoveTo(float64(pos)+0.5, float64(y1))
			gc.LineTo(float64(pos)+0.5, float64(y2))
		}
		x += size
	}

	gc.SetStrokeStyle(color)
	gc.Stroke()
}

// blitContent copies a device-independent rectangle of source onto the
// canvas.
func (g *DataGrid) blitContent(source gfx.Surface, x, y, w, h, dx, dy int) {
	r := g.dpiRatio
	ctx := g.canvasGC.Context()
	g.canvasGC.Save()
	ctx.SetTransform(1, 0, 0, 1, 0, 0)
	ctx.DrawImage(source, float64(x)*r, float64(y)*r, float64(w)*r, float64(h)*r, float64(dx)*r, float64(dy)*r)
	g.canvasGC.Restore()
}
