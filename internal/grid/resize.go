package grid

import (
	"math"

	"dgrid/internal/datamodel"
	"dgrid/internal/render"
	"dgrid/internal/sections"
)

// ResizeRow requests a new size for a row of Body or ColumnHeader. A
// negative size restores the default. Requests for the same row are
// conflated until the next flush.
func (g *DataGrid) ResizeRow(region datamodel.Region, index, size int) {
	if g.disposed {
		return
	}
	g.loop.Post(g, &rowResizeRequest{region: region, index: index, size: size})
}

// ResizeColumn requests a new size for a column of Body or RowHeader.
func (g *DataGrid) ResizeColumn(region datamodel.Region, index, size int) {
	if g.disposed {
		return
	}
	g.loop.Post(g, &columnResizeRequest{region: region, index: index, size: size})
}

// ResetRows restores the default size of every row of region, or of both
// row regions when region is empty.
func (g *DataGrid) ResetRows(region datamodel.Region) {
	if g.disposed {
		return
	}
	switch region {
	case "":
		g.rowSections.Reset()
		g.columnHeaderSections.Reset()
	case datamodel.Body:
		g.rowSections.Reset()
	case datamodel.ColumnHeader:
		g.columnHeaderSections.Reset()
	default:
		panic("unreachable")
	}
	g.syncViewport()
}

// ResetColumns restores the default size of every column of region, or of
// both column regions when region is empty.
func (g *DataGrid) ResetColumns(region datamodel.Region) {
	if g.disposed {
		return
	}
	switch region {
	case "":
		g.columnSections.Reset()
		g.rowHeaderSections.Reset()
	case datamodel.Body:
		g.columnSections.Reset()
	case datamodel.RowHeader:
		g.rowHeaderSections.Reset()
	default:
		panic("unreachable")
	}
	g.syncViewport()
}

// ColumnFit selects the columns FitColumnNames resizes.
type ColumnFit string

const (
	FitAll  ColumnFit = "all"
	FitRow  ColumnFit = "row"
	FitBody ColumnFit = "body"
)

// FitColumnNames sizes columns to fit their header text plus padding. At
// most limit columns are resized, row header columns first; a negative
// limit resizes every column.
func (g *DataGrid) FitColumnNames(area ColumnFit, padding, limit int) {
	if g.disposed || g.dataModel == nil {
		return
	}
	remaining := limit
	if area == FitRow || area == FitAll {
		n := g.dataModel.ColumnCount(datamodel.RowHeader)
		for i := 0; i < n && remaining != 0; i++ {
			if w, ok := g.maxHeaderWidth(datamodel.CornerHeader, i); ok {
				g.ResizeColumn(datamodel.RowHeader, i, w+padding)
			}
			remaining--
		}
	}
	if area == FitBody || area == FitAll {
		n := g.dataModel.ColumnCount(datamodel.Body)
		for i := 0; i < n && remaining != 0; i++ {
			if w, ok := g.maxHeaderWidth(datamodel.ColumnHeader, i); ok {
				g.ResizeColumn(datamodel.Body, i, w+padding)
			}
			remaining--
		}
	}
}

// maxHeaderWidth measures the widest header text of a column.
func (g *DataGrid) maxHeaderWidth(region datamodel.Region, column int) (int, bool) {
	rows := g.dataModel.RowCount(datamodel.ColumnHeader)
	widest, found := 0.0, false
	for row := 0; row < rows; row++ {
		value := g.dataModel.Data(region, row, column)
		if value == nil {
			continue
		}
		config := render.CellConfig{Region: region, Row: row, Column: column, Value: value}
		if tr, ok := g.cellRenderers.Get(config).(*render.TextRenderer); ok {
			g.canvasGC.SetFont(tr.Font.Resolve(config))
		}
		widest = math.Max(widest, g.canvasGC.MeasureText(render.FormatValue(value)).Width)
		found = true
	}
	return int(math.Ceil(widest)), found
}

// resizeRow applies a body row size, blitting the rows below into place.
func (g *DataGrid) resizeRow(index, size int) {
	list := g.rowSections
	if index < 0 || index >= list.Count() {
		return
	}
	oldSize := list.SizeOf(index)
	newSize := g.normalizeSize(list, size)
	if oldSize == newSize {
		return
	}
	list.Resize(index, newSize)

	vw, vh := g.viewportWidth, g.viewportHeight
	if vw == 0 || vh == 0 {
		g.syncScrollState()
		return
	}

	delta := newSize - oldSize
	hh := g.HeaderHeight()
	offset := list.OffsetOf(index) + hh - g.scrollY

	if hh >= vh || offset >= vh {
		g.syncScrollState()
		return
	}

	// Above the page: keep the visible rows where they are.
	if offset+oldSize <= hh {
		g.scrollY += delta
		g.syncScrollState()
		return
	}

	pos := max(hh, offset)
	if offset+oldSize >= vh || offset+newSize >= vh {
		g.paintContent(0, pos, vw, vh-pos)
		g.paintOverlay()
		g.syncScrollState()
		return
	}

	var sy, sh, dy int
	if offset+newSize <= hh {
		sy = hh - delta
		sh = vh - sy
		dy = hh
	} else {
		sy = offset + oldSize
		sh = vh - sy
		dy = sy + delta
	}
	g.blitContent(g.canvas, 0, sy, vw, sh, 0, dy)

	if newSize > 0 && offset+newSize > hh {
		g.paintContent(0, pos, vw, offset+newSize-pos)
	}

	if g.stretchLastRow && g.PageHeight() > g.BodyHeight() {
		r := g.rowSections.Count() - 1
		y := hh + g.rowSections.OffsetOf(r)
		g.paintContent(0, y, vw, vh-y)
	} else if delta < 0 {
		g.paintContent(0, vh+delta, vw, -delta)
	}

	g.paintOverlay()
	g.syncScrollState()
}

// resizeColumn applies a body column size.
func (g *DataGrid) resizeColumn(index, size int) {
	list := g.columnSections
	if index < 0 || index >= list.Count() {
		return
	}
	oldSize := list.SizeOf(index)
	newSize := g.normalizeSize(list, size)
	if oldSize == newSize {
		return
	}
	list.Resize(index, newSize)

	vw, vh := g.viewportWidth, g.viewportHeight
	if vw == 0 || vh == 0 {
		g.syncScrollState()
		return
	}

	delta := newSize - oldSize
	hw := g.HeaderWidth()
	offset := list.OffsetOf(index) + hw - g.scrollX

	if hw >= vw || offset >= vw {
		g.syncScrollState()
		return
	}

	if offset+oldSize <= hw {
		g.scrollX += delta
		g.syncScrollState()
		return
	}

	pos := max(hw, offset)
	if offset+oldSize >= vw || offset+newSize >= vw {
		g.paintContent(pos, 0, vw-pos, vh)
		g.paintOverlay()
		g.syncScrollState()
		return
	}

	var sx, sw, dx int
	if offset+newSize <= hw {
		sx = hw - delta
		sw = vw - sx
		dx = hw
	} else {
		sx = offset + oldSize
		sw = vw - sx
		dx = sx + delta
	}
	g.blitContent(g.canvas, sx, 0, sw, vh, dx, 0)

	if newSize > 0 && offset+newSize > hw {
		g.paintContent(pos, 0, offset+newSize-pos, vh)
	}

	if g.stretchLastColumn && g.PageWidth() > g.BodyWidth() {
		c := g.columnSections.Count() - 1
		x := hw + g.columnSections.OffsetOf(c)
		g.paintContent(x, 0, vw-x, vh)
	} else if delta < 0 {
		g.paintContent(vw+delta, 0, -delta, vh)
	}

	g.paintOverlay()
	g.syncScrollState()
}

// resizeRowHeader applies a row header column size. The row header is not
// scrolled, so everything to its right shifts.
func (g *DataGrid) resizeRowHeader(index, size int) {
	list := g.rowHeaderSections
	if index < 0 || index >= list.Count() {
		return
	}
	oldSize := list.SizeOf(index)
	newSize := g.normalizeSize(list, size)
	if oldSize == newSize {
		return
	}
	list.Resize(index, newSize)

	vw, vh := g.viewportWidth, g.viewportHeight
	if vw == 0 || vh == 0 {
		g.syncScrollState()
		return
	}

	delta := newSize - oldSize
	offset := list.OffsetOf(index)
	if offset >= vw {
		g.syncScrollState()
		return
	}

	if offset+oldSize >= vw || offset+newSize >= vw {
		g.paintContent(offset, 0, vw-offset, vh)
		g.paintOverlay()
		g.syncScrollState()
		return
	}

	sx := offset + oldSize
	g.blitContent(g.canvas, sx, 0, vw-sx, vh, sx+delta, 0)

	if newSize > 0 {
		g.paintContent(offset, 0, newSize, vh)
	}

	if g.stretchLastColumn && g.PageWidth() > g.BodyWidth() {
		c := g.columnSections.Count() - 1
		x := g.HeaderWidth() + g.columnSections.OffsetOf(c)
		g.paintContent(x, 0, vw-x, vh)
	} else if delta < 0 {
		g.paintContent(vw+delta, 0, -delta, vh)
	}

	g.paintOverlay()
	g.syncScrollState()
}

// resizeColumnHeader applies a column header row size.
func (g *DataGrid) resizeColumnHeader(index, size int) {
	list := g.columnHeaderSections
	if index < 0 || index >= list.Count() {
		return
	}
	oldSize := list.SizeOf(index)
	newSize := g.normalizeSize(list, size)
	if oldSize == newSize {
		return
	}
	list.Resize(index, newSize)

	vw, vh := g.viewportWidth, g.viewportHeight
	if vw == 0 || vh == 0 {
		g.syncScrollState()
		return
	}

	delta := newSize - oldSize
	offset := list.OffsetOf(index)
	if offset >= vh {
		g.syncScrollState()
		return
	}

	if offset+oldSize >= vh || offset+newSize >= vh {
		g.paintContent(0, offset, vw, vh-offset)
		g.paintOverlay()
		g.syncScrollState()
		return
	}

	sy := offset + oldSize
	g.blitContent(g.canvas, 0, sy, vw, vh-sy, 0, sy+delta)

	if newSize > 0 {
		g.paintContent(0, offset, vw, newSize)
	}

	if g.stretchLastRow && g.PageHeight() > g.BodyHeight() {
		r := g.rowSections.Count() - 1
		y := g.HeaderHeight() + g.rowSections.OffsetOf(r)
		g.paintContent(0, y, vw, vh-y)
	} else if delta < 0 {
		g.paintContent(0, vh+delta, vw, -delta)
	}

	g.paintOverlay()
	g.syncScrollState()
}

// normalizeSize maps a requested size to the size a section will take. A
// negative request means the default size.
func (g *DataGrid) normalizeSize(list *sections.List, size int) int {
	if size < 0 {
		return list.DefaultSize()
	}
	return list.ClampSize(size)
}

// onViewportResize adopts a new viewport size and paints the newly exposed
// edges.
func (g *DataGrid) onViewportResize(width, height int) {
	oldWidth, oldHeight := g.viewportWidth, g.viewportHeight
	g.viewportWidth, g.viewportHeight = width, height

	g.resizeCanvasIfNeeded(width, height)

	if width == 0 || height == 0 {
		return
	}
	if oldWidth == 0 || oldHeight == 0 {
		g.paintContent(0, 0, width, height)
		g.paintOverlay()
		return
	}

	if g.stretchLastColumn && g.PageWidth() > g.BodyWidth() {
		bx := g.columnSections.OffsetOf(g.columnSections.Count() - 1)
		x := min(g.HeaderWidth()+bx, oldWidth)
		g.paintContent(x, 0, width-x, height)
	} else if width > oldWidth {
		g.paintContent(oldWidth, 0, width-oldWidth+1, height)
	}

	if g.stretchLastRow && g.PageHeight() > g.BodyHeight() {
		by := g.rowSections.OffsetOf(g.rowSections.Count() - 1)
		y := min(g.HeaderHeight()+by, oldHeight)
		g.paintContent(0, y, width, height-y)
	} else if height > oldHeight {
		g.paintContent(0, oldHeight, width, height-oldHeight+1)
	}

	g.paintOverlay()
}

// resizeCanvasIfNeeded keeps the surfaces at least as large as the viewport
// and within two growth steps of it. Content survives the reallocation by
// a round trip through the buffer.
func (g *DataGrid) resizeCanvasIfNeeded(width, height int) {
	width = int(math.Round(float64(width) * g.dpiRatio))
	height = int(math.Round(float64(height) * g.dpiRatio))

	step := g.canvasStep
	maxW := (ceilDiv(width+1, step) + 1) * step
	maxH := (ceilDiv(height+1, step) + 1) * step

	curW, curH := g.canvas.Width(), g.canvas.Height()
	if curW >= width && curH >= height && curW <= maxW && curH <= maxH {
		return
	}

	expW, expH := maxW-step, maxH-step
	newW, newH := curW, curH
	if curW < width {
		newW = expW
	} else if curW > maxW {
		newW = maxW
	}
	if curH < height {
		newH = expH
	} else if curH > maxH {
		newH = maxH
	}

	needBlit := curW > 0 && curH > 0 && width > 0 && height > 0

	g.buffer.Resize(newW, newH)
	if needBlit {
		g.buffer.DrawImage(g.canvas, 0, 0, float64(curW), float64(curH), 0, 0)
	}
	g.canvas.Resize(newW, newH)
	if needBlit {
		g.canvas.DrawImage(g.buffer, 0, 0, float64(newW), float64(newH), 0, 0)
	}

	g.buffer.Resize(newW, newH)
	if needBlit {
		g.buffer.DrawImage(g.overlay, 0, 0, float64(curW), float64(curH), 0, 0)
	}
	g.overlay.Resize(newW, newH)
	if needBlit {
		g.overlay.DrawImage(g.buffer, 0, 0, float64(newW), float64(newH), 0, 0)
	}

	g.resetGraphicsContexts()
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
