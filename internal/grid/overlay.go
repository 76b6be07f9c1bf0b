package grid

import (
	"dgrid/internal/selection"
)

// paintOverlay redraws selections, the cursor and the scroll shadows.
func (g *DataGrid) paintOverlay() {
	gc := g.overlayGC
	gc.SetTransform(g.dpiRatio, 0, 0, g.dpiRatio, 0, 0)
	gc.ClearRect(0, 0, float64(g.overlay.Width()), float64(g.overlay.Height()))

	g.drawBodySelections()
	g.drawRowHeaderSelections()
	g.drawColumnHeaderSelections()
	g.drawCursor()
	g.drawShadows()
}

// visibleCells returns the body rows and columns on the page.
func (g *DataGrid) visibleCells() (r1, c1, r2, c2 int, ok bool) {
	sx, sy := g.scrollX, g.scrollY
	r1 = g.rowSections.IndexOf(sy)
	c1 = g.columnSections.IndexOf(sx)
	if r1 < 0 || c1 < 0 {
		return 0, 0, 0, 0, false
	}
	r2 = g.rowSections.IndexOf(sy + g.PageHeight())
	c2 = g.columnSections.IndexOf(sx + g.PageWidth())
	if r2 < 0 {
		r2 = g.rowSections.Count() - 1
	}
	if c2 < 0 {
		c2 = g.columnSections.Count() - 1
	}
	return r1, c1, r2, c2, true
}

// outside reports whether the span a..b (in either order) misses lo..hi.
func outside(a, b, lo, hi int) bool {
	return (a < lo && b < lo) || (a > hi && b > hi)
}

func (g *DataGrid) drawBodySelections() {
	model := g.selectionModel
	if model == nil || model.IsEmpty() {
		return
	}
	fill, stroke := g.style.SelectionFillColor, g.style.SelectionBorderColor
	if fill == "" && stroke == "" {
		return
	}
	r1, c1, r2, c2, ok := g.visibleCells()
	if !ok {
		return
	}

	sx, sy := g.scrollX, g.scrollY
	bw, bh := g.BodyWidth(), g.BodyHeight()
	pw, ph := g.PageWidth(), g.PageHeight()
	hw, hh := g.HeaderWidth(), g.HeaderHeight()
	maxRow := g.rowSections.Count() - 1
	maxColumn := g.columnSections.Count() - 1

	gc := g.overlayGC
	gc.Save()
	defer gc.Restore()

	gc.BeginPath()
	gc.Rect(float64(hw), float64(hh), float64(pw), float64(ph))
	gc.Clip()

	if fill != "" {
		gc.SetFillStyle(fill)
	}
	if stroke != "" {
		gc.SetStrokeStyle(stroke)
		gc.SetLineWidth(1)
	}

	for _, s := range model.Selections() {
		if outside(s.R1, s.R2, r1, r2) || outside(s.C1, s.C2, c1, c2) {
			continue
		}
		n := selection.Rect{
			R1: clamp(s.R1, 0, maxRow),
			C1: clamp(s.C1, 0, maxColumn),
			R2: clamp(s.R2, 0, maxRow),
			C2: clamp(s.C2, 0, maxColumn),
		}.Normalized()

		x1 := g.columnSections.OffsetOf(n.C1) - sx + hw
		y1 := g.rowSections.OffsetOf(n.R1) - sy + hh
		x2 := g.columnSections.ExtentOf(n.C2) - sx + hw
		y2 := g.rowSections.ExtentOf(n.R2) - sy + hh

		if g.stretchLastColumn && pw > bw && n.C2 == maxColumn {
			x2 = hw + pw - 1
		}
		if g.stretchLastRow && ph > bh && n.R2 == maxRow {
			y2 = hh + ph - 1
		}

		x1 = max(hw-1, x1)
		y1 = max(hh-1, y1)
		x2 = min(hw+pw+1, x2)
		y2 = min(hh+ph+1, y2)
		if x2 < x1 || y2 < y1 {
			continue
		}

		if fill != "" {
			gc.FillRect(float64(x1), float64(y1), float64(x2-x1+1), float64(y2-y1+1))
		}
		if stroke != "" {
			gc.StrokeRect(float64(x1)-0.5, float64(y1)-0.5, float64(x2-x1+1), float64(y2-y1+1))
		}
	}
}

func (g *DataGrid) drawRowHeaderSelections() {
	model := g.selectionModel
	if model == nil || model.IsEmpty() {
		return
	}
	hw, hh := g.HeaderWidth(), g.HeaderHeight()
	if hw == 0 || g.viewportHeight <= hh {
		return
	}
	fill, stroke := g.style.HeaderSelectionFillColor, g.style.HeaderSelectionBorderColor
	if fill == "" && stroke == "" {
		return
	}

	sy := g.scrollY
	bh, ph := g.BodyHeight(), g.PageHeight()
	r1 := g.rowSections.IndexOf(sy)
	if r1 < 0 {
		return
	}
	maxRow := g.rowSections.Count() - 1
	r2 := g.rowSections.IndexOf(sy + ph)
	if r2 < 0 {
		r2 = maxRow
	}

	gc := g.overlayGC
	gc.Save()
	defer gc.Restore()

	gc.BeginPath()
	gc.Rect(0, float64(hh), float64(hw), float64(ph))
	gc.Clip()

	if fill != "" {
		gc.SetFillStyle(fill)
	}
	if stroke != "" {
		gc.SetStrokeStyle(stroke)
		gc.SetLineWidth(1)
	}

	gc.BeginPath()
	for _, s := range model.Selections() {
		if outside(s.R1, s.R2, r1, r2) {
			continue
		}
		sr1 := clamp(min(s.R1, s.R2), 0, maxRow)
		sr2 := clamp(max(s.R1, s.R2), 0, maxRow)

		y1 := g.rowSections.OffsetOf(sr1) - sy + hh
		y2 := g.rowSections.ExtentOf(sr2) - sy + hh
		if g.stretchLastRow && ph > bh && sr2 == maxRow {
			y2 = hh + ph - 1
		}
		y1 = max(hh-1, y1)
		y2 = min(hh+ph+1, y2)

		if fill != "" {
			gc.FillRect(0, float64(y1), float64(hw), float64(y2-y1+1))
		}
		if stroke != "" {
			gc.MoveTo(float64(hw)-0.5, float64(y1-1))
			gc.LineTo(float64(hw)-0.5, float64(y2))
		}
	}
	if stroke != "" {
		gc.Stroke()
	}
}

func (g *DataGrid) drawColumnHeaderSelections() {
	model := g.selectionModel
	if model == nil || model.IsEmpty() {
		return
	}
	hw, hh := g.HeaderWidth(), g.HeaderHeight()
	if hh == 0 || g.viewportWidth <= hw {
		return
	}
	fill, stroke := g.style.HeaderSelectionFillColor, g.style.HeaderSelectionBorderColor
	if fill == "" && stroke == "" {
		return
	}

	sx := g.scrollX
	bw, pw := g.BodyWidth(), g.PageWidth()
	c1 := g.columnSections.IndexOf(sx)
	if c1 < 0 {
		return
	}
	maxColumn := g.columnSections.Count() - 1
	c2 := g.columnSections.IndexOf(sx + pw)
	if c2 < 0 {
		c2 = maxColumn
	}

	gc := g.overlayGC
	gc.Save()
	defer gc.Restore()

	gc.BeginPath()
	gc.Rect(float64(hw), 0, float64(pw), float64(hh))
	gc.Clip()

	if fill != "" {
		gc.SetFillStyle(fill)
	}
	if stroke != "" {
		gc.SetStrokeStyle(stroke)
		gc.SetLineWidth(1)
	}

	gc.BeginPath()
	for _, s := range model.Selections() {
		if outside(s.C1, s.C2, c1, c2) {
			continue
		}
		sc1 := clamp(min(s.C1, s.C2), 0, maxColumn)
		sc2 := clamp(max(s.C1, s.C2), 0, maxColumn)

		x1 := g.columnSections.OffsetOf(sc1) - sx + hw
		x2 := g.columnSections.ExtentOf(sc2) - sx + hw
		if g.stretchLastColumn && pw > bw && sc2 == maxColumn {
			x2 = hw + pw - 1
		}
		x1 = max(hw-1, x1)
		x2 = min(hw+pw+1, x2)

		if fill != "" {
			gc.FillRect(float64(x1), 0, float64(x2-x1+1), float64(hh))
		}
		if stroke != "" {
			gc.MoveTo(float64(x1-1), float64(hh)-0.5)
			gc.LineTo(float64(x2), float64(hh)-0.5)
		}
	}
	if stroke != "" {
		gc.Stroke()
	}
}

func (g *DataGrid) drawCursor() {
	model := g.selectionModel
	if model == nil || model.IsEmpty() || model.SelectionMode() != selection.CellMode {
		return
	}
	fill, stroke := g.style.CursorFillColor, g.style.CursorBorderColor
	if fill == "" && stroke == "" {
		return
	}

	row, column := model.CursorRow(), model.CursorColumn()
	maxRow := g.rowSections.Count() - 1
	maxColumn := g.columnSections.Count() - 1
	if row < 0 || row > maxRow || column < 0 || column > maxColumn {
		return
	}
	r1, c1, r2, c2, ok := g.visibleCells()
	if !ok || row < r1 || row > r2 || column < c1 || column > c2 {
		return
	}

	sx, sy := g.scrollX, g.scrollY
	bw, bh := g.BodyWidth(), g.BodyHeight()
	pw, ph := g.PageWidth(), g.PageHeight()
	hw, hh := g.HeaderWidth(), g.HeaderHeight()

	x1 := g.columnSections.OffsetOf(column) - sx + hw
	y1 := g.rowSections.OffsetOf(row) - sy + hh
	x2 := g.columnSections.ExtentOf(column) - sx + hw
	y2 := g.rowSections.ExtentOf(row) - sy + hh
	if g.stretchLastColumn && pw > bw && column == maxColumn {
		x2 = hw + pw - 1
	}
	if g.stretchLastRow && ph > bh && row == maxRow {
		y2 = hh + ph - 1
	}
	if x2 < x1 || y2 < y1 {
		return
	}

	gc := g.overlayGC
	gc.Save()
	defer gc.Restore()

	gc.BeginPath()
	gc.Rect(float64(hw), float64(hh), float64(pw), float64(ph))
	gc.Clip()

	gc.ClearRect(float64(x1), float64(y1), float64(x2-x1+1), float64(y2-y1+1))
	if fill != "" {
		gc.SetFillStyle(fill)
		gc.FillRect(float64(x1), float64(y1), float64(x2-x1+1), float64(y2-y1+1))
	}
	if stroke != "" {
		gc.SetStrokeStyle(stroke)
		gc.SetLineWidth(2)
		gc.StrokeRect(float64(x1), float64(y1), float64(x2-x1), float64(y2-y1))
	}
}

// drawShadows shades the body edges beyond which there is more content.
func (g *DataGrid) drawShadows() {
	shadow := g.style.ScrollShadow
	if shadow == nil || shadow.Size <= 0 {
		return
	}

	sx, sy := g.scrollX, g.scrollY
	sxMax, syMax := g.MaxScrollX(), g.MaxScrollY()
	hw, hh := g.HeaderWidth(), g.HeaderHeight()
	pw, ph := g.PageWidth(), g.PageHeight()
	vw, vh := g.viewportWidth, g.viewportHeight
	bw, bh := g.BodyWidth(), g.BodyHeight()
	if g.stretchLastColumn && pw > bw {
		bw = pw
	}
	if g.stretchLastRow && ph > bh {
		bh = ph
	}

	x, y := hw, hh
	w := min(vw-hw, bw-sx)
	h := min(vh-hh, bh-sy)
	if w <= 0 || h <= 0 {
		return
	}
	size := float64(shadow.Size)

	gc := g.overlayGC
	gc.Save()
	defer gc.Restore()

	gc.BeginPath()
	gc.Rect(float64(x), float64(y), float64(w), float64(h))
	gc.Clip()

	fill := func(x0, y0, x1, y1, rx, ry, rw, rh float64) {
		grad := gc.CreateLinearGradient(x0, y0, x1, y1)
		grad.AddColorStop(0, string(shadow.Color1))
		grad.AddColorStop(0.5, string(shadow.Color2))
		grad.AddColorStop(1, string(shadow.Color3))
		gc.SetFillStyle(grad)
		gc.FillRect(rx, ry, rw, rh)
	}

	fx, fy, fw, fh := float64(x), float64(y), float64(w), float64(h)
	if sy > 0 {
		fill(fx, fy, fx, fy+size, fx, fy, fw, size)
	}
	if sx > 0 {
		fill(fx, fy, fx+size, fy, fx, fy, size, fh)
	}
	if sy < syMax {
		fill(fx, fy+fh, fx, fy+fh-size, fx, fy+fh-size, fw, size)
	}
	if sx < sxMax {
		fill(fx+fw, fy, fx+fw-size, fy, fx+fw-size, fy, size, fh)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
