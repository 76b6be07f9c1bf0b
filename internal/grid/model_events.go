package grid

import (
	"math"

	"dgrid/internal/datamodel"
	"dgrid/internal/sections"
)

func (g *DataGrid) onDataModelChanged(args datamodel.ChangedArgs) {
	if g.disposed {
		return
	}
	switch args.Type {
	case datamodel.RowsInserted:
		g.onRowsInserted(args)
	case datamodel.ColumnsInserted:
		g.onColumnsInserted(args)
	case datamodel.RowsRemoved:
		g.onRowsRemoved(args)
	case datamodel.ColumnsRemoved:
		g.onColumnsRemoved(args)
	case datamodel.RowsMoved:
		g.onRowsMoved(args)
	case datamodel.ColumnsMoved:
		g.onColumnsMoved(args)
	case datamodel.CellsChanged:
		g.onCellsChanged(args)
	case datamodel.ModelReset:
		g.onModelReset()
	default:
		panic("unreachable")
	}
}

// A grid scrolled to the end stays at the end when rows come and go.

func (g *DataGrid) onRowsInserted(args datamodel.ChangedArgs) {
	if args.Span <= 0 {
		return
	}
	list := g.rowList(args.Region)
	atEnd := g.scrollY == g.MaxScrollY() && g.MaxScrollY() > 0
	list.Insert(args.Index, args.Span)
	if atEnd {
		g.scrollY = g.MaxScrollY()
	}
	g.syncViewport()
	g.clampScroll()
}

func (g *DataGrid) onColumnsInserted(args datamodel.ChangedArgs) {
	if args.Span <= 0 {
		return
	}
	list := g.columnList(args.Region)
	atEnd := g.scrollX == g.MaxScrollX() && g.MaxScrollX() > 0
	list.Insert(args.Index, args.Span)
	if atEnd {
		g.scrollX = g.MaxScrollX()
	}
	g.syncViewport()
	g.clampScroll()
}

func (g *DataGrid) onRowsRemoved(args datamodel.ChangedArgs) {
	if args.Span <= 0 {
		return
	}
	list := g.rowList(args.Region)
	if args.Index < 0 || args.Index >= list.Count() {
		return
	}
	atEnd := g.scrollY == g.MaxScrollY() && g.MaxScrollY() > 0
	list.Remove(args.Index, args.Span)
	if atEnd {
		g.scrollY = g.MaxScrollY()
	}
	g.syncViewport()
	g.clampScroll()
}

func (g *DataGrid) onColumnsRemoved(args datamodel.ChangedArgs) {
	if args.Span <= 0 {
		return
	}
	list := g.columnList(args.Region)
	if args.Index < 0 || args.Index >= list.Count() {
		return
	}
	atEnd := g.scrollX == g.MaxScrollX() && g.MaxScrollX() > 0
	list.Remove(args.Index, args.Span)
	if atEnd {
		g.scrollX = g.MaxScrollX()
	}
	g.syncViewport()
	g.clampScroll()
}

func (g *DataGrid) onRowsMoved(args datamodel.ChangedArgs) {
	list := g.rowList(args.Region)
	r1, r2, ok := moveBounds(list, args)
	if !ok {
		return
	}
	list.Move(args.Index, args.Span, args.Destination)
	if args.Region == datamodel.Body {
		g.RepaintRegion(datamodel.Body, r1, 0, r2, math.MaxInt)
		g.RepaintRegion(datamodel.RowHeader, r1, 0, r2, math.MaxInt)
	} else {
		g.RepaintRegion(datamodel.ColumnHeader, r1, 0, r2, math.MaxInt)
		g.RepaintRegion(datamodel.CornerHeader, r1, 0, r2, math.MaxInt)
	}
	g.syncViewport()
}

func (g *DataGrid) onColumnsMoved(args datamodel.ChangedArgs) {
	list := g.columnList(args.Region)
	c1, c2, ok := moveBounds(list, args)
	if !ok {
		return
	}
	list.Move(args.Index, args.Span, args.Destination)
	if args.Region == datamodel.Body {
		g.RepaintRegion(datamodel.Body, 0, c1, math.MaxInt, c2)
		g.RepaintRegion(datamodel.ColumnHeader, 0, c1, math.MaxInt, c2)
	} else {
		g.RepaintRegion(datamodel.RowHeader, 0, c1, math.MaxInt, c2)
		g.RepaintRegion(datamodel.CornerHeader, 0, c1, math.MaxInt, c2)
	}
	g.syncViewport()
}

// moveBounds returns the first and last index a move touches. ok is false
// for moves that change nothing.
func moveBounds(list *sections.List, args datamodel.ChangedArgs) (first, last int, ok bool) {
	count := list.Count()
	if args.Span <= 0 || args.Index < 0 || args.Index >= count {
		return 0, 0, false
	}
	span := min(args.Span, count-args.Index)
	dest := clamp(args.Destination, 0, count-span)
	if dest == args.Index {
		return 0, 0, false
	}
	first = min(args.Index, dest)
	last = max(args.Index+span-1, dest+span-1)
	return first, last, true
}

func (g *DataGrid) onCellsChanged(args datamodel.ChangedArgs) {
	if args.RowSpan <= 0 && args.ColumnSpan <= 0 {
		return
	}
	r2 := args.Row + args.RowSpan - 1
	c2 := args.Column + args.ColumnSpan - 1
	g.RepaintRegion(args.Region, args.Row, args.Column, r2, c2)
}

// onModelReset brings every section list to the model's counts, keeping
// the sizes of the sections that remain.
func (g *DataGrid) onModelReset() {
	m := g.dataModel
	resync(g.rowSections, m.RowCount(datamodel.Body))
	resync(g.columnSections, m.ColumnCount(datamodel.Body))
	resync(g.rowHeaderSections, m.ColumnCount(datamodel.RowHeader))
	resync(g.columnHeaderSections, m.RowCount(datamodel.ColumnHeader))
	g.syncViewport()
	g.clampScroll()
}

func resync(list *sections.List, count int) {
	n := list.Count()
	switch {
	case count > n:
		list.Insert(n, count-n)
	case count < n:
		list.Remove(count, n-count)
	}
}

// clampScroll schedules a scroll back into range when the content shrank
// under the current position.
func (g *DataGrid) clampScroll() {
	if g.scrollX > g.MaxScrollX() || g.scrollY > g.MaxScrollY() {
		g.ScrollTo(g.scrollX, g.scrollY)
	}
}
