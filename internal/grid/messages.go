package grid

import (
	"dgrid/internal/datamodel"
	"dgrid/internal/msgloop"
	"dgrid/internal/sections"
)

// regionAll marks a paint request covering the whole viewport.
const regionAll datamodel.Region = "all"

type scrollRequest struct{}

func (scrollRequest) Type() string                  { return "scroll-request" }
func (scrollRequest) Conflate(msgloop.Message) bool { return true }

type overlayPaintRequest struct{}

func (overlayPaintRequest) Type() string                  { return "overlay-paint-request" }
func (overlayPaintRequest) Conflate(msgloop.Message) bool { return true }

// paintRequest asks for a block of cells of one region to be repainted.
type paintRequest struct {
	region         datamodel.Region
	r1, c1, r2, c2 int
}

func (*paintRequest) Type() string { return "paint-request" }

// Conflate merges requests for the same region into their bounding block.
// A request for everything absorbs any other.
func (m *paintRequest) Conflate(other msgloop.Message) bool {
	o := other.(*paintRequest)
	if m.region == regionAll {
		return true
	}
	if o.region == regionAll {
		m.region = regionAll
		return true
	}
	if m.region != o.region {
		return false
	}
	m.r1 = min(m.r1, o.r1)
	m.c1 = min(m.c1, o.c1)
	m.r2 = max(m.r2, o.r2)
	m.c2 = max(m.c2, o.c2)
	return true
}

// rowResizeRequest carries the latest size asked for one row.
type rowResizeRequest struct {
	region datamodel.Region
	index  int
	size   int
}

func (*rowResizeRequest) Type() string { return "row-resize-request" }

func (m *rowResizeRequest) Conflate(other msgloop.Message) bool {
	o := other.(*rowResizeRequest)
	if m.region != o.region || m.index != o.index {
		return false
	}
	m.size = o.size
	return true
}

type columnResizeRequest struct {
	region datamodel.Region
	index  int
	size   int
}

func (*columnResizeRequest) Type() string { return "column-resize-request" }

func (m *columnResizeRequest) Conflate(other msgloop.Message) bool {
	o := other.(*columnResizeRequest)
	if m.region != o.region || m.index != o.index {
		return false
	}
	m.size = o.size
	return true
}

// ProcessMessage runs deferred grid work. The message loop calls it.
func (g *DataGrid) ProcessMessage(msg msgloop.Message) {
	if g.disposed {
		return
	}
	switch m := msg.(type) {
	case scrollRequest:
		g.scrollContent(g.hScrollBar.Value, g.vScrollBar.Value)
	case *paintRequest:
		g.onPaintRequest(m)
	case overlayPaintRequest:
		g.paintOverlay()
	case *rowResizeRequest:
		if m.region == datamodel.Body {
			g.resizeRow(m.index, m.size)
		} else {
			g.resizeColumnHeader(m.index, m.size)
		}
	case *columnResizeRequest:
		if m.region == datamodel.Body {
			g.resizeColumn(m.index, m.size)
		} else {
			g.resizeRowHeader(m.index, m.size)
		}
	default:
		debugLog("unhandled message %q\n", msg.Type())
	}
}

// RepaintContent schedules a repaint of the whole viewport.
func (g *DataGrid) RepaintContent() {
	if g.disposed {
		return
	}
	g.loop.Post(g, &paintRequest{region: regionAll})
}

// RepaintRegion schedules a repaint of a block of cells. Indices are
// clamped to the region when the request is processed.
func (g *DataGrid) RepaintRegion(region datamodel.Region, r1, c1, r2, c2 int) {
	if g.disposed {
		return
	}
	g.loop.Post(g, &paintRequest{region: region, r1: r1, c1: c1, r2: r2, c2: c2})
}

// RepaintOverlay schedules a repaint of the overlay.
func (g *DataGrid) RepaintOverlay() {
	if g.disposed {
		return
	}
	g.loop.Post(g, overlayPaintRequest{})
}

// onPaintRequest maps a block of cells to viewport pixels and repaints
// them.
func (g *DataGrid) onPaintRequest(m *paintRequest) {
	vw, vh := g.viewportWidth, g.viewportHeight
	if vw == 0 || vh == 0 {
		return
	}
	if m.region == regionAll {
		g.paintContent(0, 0, vw, vh)
		return
	}

	var rows, columns *sections.List
	var ox, oy int
	switch m.region {
	case datamodel.Body:
		rows, columns = g.rowSections, g.columnSections
		ox, oy = g.HeaderWidth()-g.scrollX, g.HeaderHeight()-g.scrollY
	case datamodel.RowHeader:
		rows, columns = g.rowSections, g.rowHeaderSections
		oy = g.HeaderHeight() - g.scrollY
	case datamodel.ColumnHeader:
		rows, columns = g.columnHeaderSections, g.columnSections
		ox = g.HeaderWidth() - g.scrollX
	case datamodel.CornerHeader:
		rows, columns = g.columnHeaderSections, g.rowHeaderSections
	default:
		return
	}
	if rows.Count() == 0 || columns.Count() == 0 {
		return
	}

	r1 := clamp(m.r1, 0, rows.Count()-1)
	r2 := clamp(m.r2, 0, rows.Count()-1)
	c1 := clamp(m.c1, 0, columns.Count()-1)
	c2 := clamp(m.c2, 0, columns.Count()-1)

	x1 := columns.OffsetOf(c1) + ox
	y1 := rows.OffsetOf(r1) + oy
	x2 := columns.ExtentOf(c2) + ox
	y2 := rows.ExtentOf(r2) + oy

	// The stretched last section reaches the viewport edge.
	if columns == g.columnSections && c2 == columns.Count()-1 && g.stretchLastColumn && g.PageWidth() > g.BodyWidth() {
		x2 = vw - 1
	}
	if rows == g.rowSections && r2 == rows.Count()-1 && g.stretchLastRow && g.PageHeight() > g.BodyHeight() {
		y2 = vh - 1
	}

	if x2 < 0 || y2 < 0 || x1 > vw-1 || y1 > vh-1 {
		return
	}
	x1 = clamp(x1, 0, vw-1)
	y1 = clamp(y1, 0, vh-1)
	x2 = clamp(x2, 0, vw-1)
	y2 = clamp(y2, 0, vh-1)

	g.paintContent(x1, y1, x2-x1+1, y2-y1+1)
}
