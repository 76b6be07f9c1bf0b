package grid

import "dgrid/internal/selection"

// ScrollBy scrolls by a delta from the requested position.
func (g *DataGrid) ScrollBy(dx, dy int) {
	g.ScrollTo(g.ScrollX()+dx, g.ScrollY()+dy)
}

// ScrollByPage scrolls one page in a direction.
func (g *DataGrid) ScrollByPage(dir selection.Direction) {
	dx, dy := 0, 0
	switch dir {
	case selection.Up:
		dy = -g.PageHeight()
	case selection.Down:
		dy = g.PageHeight()
	case selection.Left:
		dx = -g.PageWidth()
	case selection.Right:
		dx = g.PageWidth()
	case selection.None:
	default:
		panic("unreachable")
	}
	g.ScrollTo(g.ScrollX()+dx, g.ScrollY()+dy)
}

// ScrollByStep scrolls so the next section in a direction is aligned with
// the page edge.
func (g *DataGrid) ScrollByStep(dir selection.Direction) {
	x, y := g.ScrollX(), g.ScrollY()
	rows, columns := g.rowSections, g.columnSections
	switch dir {
	case selection.Up:
		if r := rows.IndexOf(y - 1); r >= 0 {
			y = rows.OffsetOf(r)
		}
	case selection.Down:
		if r := rows.IndexOf(y); r >= 0 {
			y = rows.OffsetOf(r) + rows.SizeOf(r)
		}
	case selection.Left:
		if c := columns.IndexOf(x - 1); c >= 0 {
			x = columns.OffsetOf(c)
		}
	case selection.Right:
		if c := columns.IndexOf(x); c >= 0 {
			x = columns.OffsetOf(c) + columns.SizeOf(c)
		}
	case selection.None:
	default:
		panic("unreachable")
	}
	g.ScrollTo(x, y)
}

// ScrollTo requests a scroll position. The position is clamped at once and
// the content is scrolled on the next flush of the message loop.
func (g *DataGrid) ScrollTo(x, y int) {
	if g.disposed {
		return
	}
	x = max(0, min(x, g.MaxScrollX()))
	y = max(0, min(y, g.MaxScrollY()))
	g.hScrollBar.Value = x
	g.vScrollBar.Value = y
	g.loop.Post(g, scrollRequest{})
}

// ScrollToRow scrolls vertically the least amount, plus the scroll margin,
// that brings a row onto the page. A visible row does not scroll.
func (g *DataGrid) ScrollToRow(row int) {
	count := g.rowSections.Count()
	if count == 0 {
		return
	}
	row = clamp(row, 0, count-1)
	if dy := g.scrollDelta(g.rowSections.OffsetOf(row), g.rowSections.ExtentOf(row), g.scrollY, g.PageHeight()); dy != 0 {
		g.ScrollBy(0, dy)
	}
}

// ScrollToColumn is ScrollToRow for columns.
func (g *DataGrid) ScrollToColumn(column int) {
	count := g.columnSections.Count()
	if count == 0 {
		return
	}
	column = clamp(column, 0, count-1)
	if dx := g.scrollDelta(g.columnSections.OffsetOf(column), g.columnSections.ExtentOf(column), g.scrollX, g.PageWidth()); dx != 0 {
		g.ScrollBy(dx, 0)
	}
}

// ScrollToCell brings a body cell onto the page.
func (g *DataGrid) ScrollToCell(row, column int) {
	rows, columns := g.rowSections.Count(), g.columnSections.Count()
	if rows == 0 || columns == 0 {
		return
	}
	row = clamp(row, 0, rows-1)
	column = clamp(column, 0, columns-1)
	dx := g.scrollDelta(g.columnSections.OffsetOf(column), g.columnSections.ExtentOf(column), g.scrollX, g.PageWidth())
	dy := g.scrollDelta(g.rowSections.OffsetOf(row), g.rowSections.ExtentOf(row), g.scrollY, g.PageHeight())
	if dx == 0 && dy == 0 {
		return
	}
	g.ScrollBy(dx, dy)
}

// ScrollToCursor brings the selection cursor onto the page.
func (g *DataGrid) ScrollToCursor() {
	if g.selectionModel == nil {
		return
	}
	g.ScrollToCell(g.selectionModel.CursorRow(), g.selectionModel.CursorColumn())
}

// scrollDelta returns how far to scroll so [start, end] lies within the
// page starting at pos.
func (g *DataGrid) scrollDelta(start, end, pos, page int) int {
	last := pos + page - 1
	switch {
	case start < pos:
		return start - pos - g.scrollMargin
	case end > last:
		return end - last + g.scrollMargin
	}
	return 0
}

// scrollContent moves the painted content to a new scroll position. The
// part still visible is blitted into place and only the exposed strips are
// painted, unless that would cost as much as a full repaint.
func (g *DataGrid) scrollContent(x, y int) {
	if g.dataModel == nil {
		return
	}

	x = max(0, min(x, g.MaxScrollX()))
	y = max(0, min(y, g.MaxScrollY()))
	g.hScrollBar.Value = x
	g.vScrollBar.Value = y

	dx := x - g.scrollX
	dy := y - g.scrollY
	if dx == 0 && dy == 0 {
		return
	}

	width, height := g.viewportWidth, g.viewportHeight
	if width == 0 || height == 0 {
		g.scrollX, g.scrollY = x, y
		return
	}

	contentX, contentY := g.HeaderWidth(), g.HeaderHeight()
	contentWidth := width - contentX
	contentHeight := height - contentY
	if contentWidth <= 0 && contentHeight <= 0 {
		g.scrollX, g.scrollY = x, y
		return
	}

	dxArea := 0
	if dx != 0 && contentWidth > 0 {
		dxArea = min(abs(dx), contentWidth) * height
	}
	dyArea := 0
	if dy != 0 && contentHeight > 0 {
		dyArea = width * min(abs(dy), contentHeight)
	}

	if dxArea+dyArea >= width*height {
		g.scrollX, g.scrollY = x, y
		g.paintContent(0, 0, width, height)
		g.paintOverlay()
		return
	}

	g.scrollY = y
	if dy != 0 && contentHeight > 0 {
		if abs(dy) >= contentHeight {
			g.paintContent(0, contentY, width, contentHeight)
		} else {
			sy := contentY
			if dy > 0 {
				sy = contentY + dy
			}
			h := contentHeight - abs(dy)
			g.blitContent(g.canvas, 0, sy, width, h, 0, sy-dy)
			if dy < 0 {
				g.paintContent(0, contentY, width, -dy)
			} else {
				g.paintContent(0, height-dy, width, dy)
			}
		}
	}

	g.scrollX = x
	if dx != 0 && contentWidth > 0 {
		if abs(dx) >= contentWidth {
			g.paintContent(contentX, 0, contentWidth, height)
		} else {
			sx := contentX
			if dx > 0 {
				sx = contentX + dx
			}
			w := contentWidth - abs(dx)
			g.blitContent(g.canvas, sx, 0, w, height, sx-dx, 0)
			if dx < 0 {
				g.paintContent(contentX, 0, -dx, height)
			} else {
				g.paintContent(width-dx, 0, dx, height)
			}
		}
	}

	g.paintOverlay()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
