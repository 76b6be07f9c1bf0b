// Package grid implements DataGrid, a virtualized table that paints a data
// model onto fixed size surfaces and repaints only what changes.
package grid

import (
	"errors"

	"dgrid/internal/datamodel"
	"dgrid/internal/editor"
	"dgrid/internal/gfx"
	"dgrid/internal/msgloop"
	"dgrid/internal/render"
	"dgrid/internal/sections"
	"dgrid/internal/selection"
)

// ErrModelMismatch is returned when a selection model is bound to a data
// model other than the grid's.
var ErrModelMismatch = errors.New("selection model data model does not match the grid data model")

// DataGrid displays a DataModel. Coordinates named virtual are relative to
// the unscrolled body; local coordinates are relative to the viewport.
//
// A DataGrid is not safe for concurrent use. Deferred work is posted to its
// message loop and runs when the host flushes the loop.
type DataGrid struct {
	loop    *msgloop.Loop
	clock   msgloop.Clock
	metrics SurfaceMetrics
	onError func(error)

	dataModel        datamodel.DataModel
	selectionModel   selection.Model
	keyHandler       KeyHandler
	mouseHandler     MouseHandler
	editorController editor.CellEditorController
	clipboard        Clipboard
	dialogs          Dialogs

	style             Style
	cellRenderers     *render.RendererMap
	copyConfig        CopyConfig
	headerVisibility  HeaderVisibility
	stretchLastRow    bool
	stretchLastColumn bool
	editingEnabled    bool
	scrollMargin      int
	canvasStep        int
	scrollBarSize     int

	rowSections          *sections.List
	columnSections       *sections.List
	rowHeaderSections    *sections.List
	columnHeaderSections *sections.List

	newSurface func(width, height int) gfx.Surface
	canvas     gfx.Surface
	buffer     gfx.Surface
	overlay    gfx.Surface
	canvasGC   *gfx.GraphicsContext
	bufferGC   *gfx.GraphicsContext
	overlayGC  *gfx.GraphicsContext
	dpiRatio   float64

	width          int
	height         int
	viewportWidth  int
	viewportHeight int
	scrollX        int
	scrollY        int
	hScrollBar     ScrollBar
	vScrollBar     ScrollBar

	mousedown     bool
	pointerCursor string

	disconnectModel     func()
	disconnectSelection func()
	disconnectRenderers func()
	disposed            bool
}

// New creates a grid with no data model.
func New(opts Options) *DataGrid {
	g := &DataGrid{
		loop:              opts.Loop,
		clock:             opts.Clock,
		metrics:           opts.Metrics,
		onError:           opts.OnError,
		clipboard:         opts.Clipboard,
		dialogs:           opts.Dialogs,
		style:             DefaultStyle(),
		cellRenderers:     opts.CellRenderers,
		copyConfig:        DefaultCopyConfig(),
		headerVisibility:  opts.HeaderVisibility,
		stretchLastRow:    opts.StretchLastRow,
		stretchLastColumn: opts.StretchLastColumn,
		scrollMargin:      opts.ScrollMargin,
		canvasStep:        opts.CanvasStep,
		scrollBarSize:     opts.ScrollBarSize,
		newSurface:        opts.NewSurface,
	}
	if opts.Style != nil {
		g.style = *opts.Style
	}
	if opts.CopyConfig != nil {
		g.copyConfig = *opts.CopyConfig
	}
	if g.loop == nil {
		g.loop = msgloop.New(nil)
	}
	if g.clock == nil {
		g.clock = msgloop.NewMockClock()
	}
	if g.metrics == nil {
		g.metrics = &FixedMetrics{}
	}
	if g.clipboard == nil {
		g.clipboard = SystemClipboard{}
	}
	if g.dialogs == nil {
		g.dialogs = silentDialogs{}
	}
	if g.cellRenderers == nil {
		g.cellRenderers = render.NewRendererMap(nil, nil)
	}
	if g.headerVisibility == "" {
		g.headerVisibility = HeadersAll
	}
	if g.scrollMargin <= 0 {
		g.scrollMargin = 10
	}
	if g.canvasStep <= 0 {
		g.canvasStep = 512
	}
	if g.scrollBarSize <= 0 {
		g.scrollBarSize = 15
	}
	if g.newSurface == nil {
		g.newSurface = func(width, height int) gfx.Surface {
			return gfx.NewCellCanvas(width, height)
		}
	}

	sizes := DefaultSizes
	if opts.DefaultSizes != nil {
		sizes = *opts.DefaultSizes
	}
	minimums := DefaultMinimumSizes
	if opts.MinimumSizes != nil {
		minimums = *opts.MinimumSizes
	}
	g.rowSections = sections.New(sections.Options{DefaultSize: sizes.RowHeight, MinimumSize: minimums.RowHeight})
	g.columnSections = sections.New(sections.Options{DefaultSize: sizes.ColumnWidth, MinimumSize: minimums.ColumnWidth})
	g.rowHeaderSections = sections.New(sections.Options{DefaultSize: sizes.RowHeaderWidth, MinimumSize: minimums.RowHeaderWidth})
	g.columnHeaderSections = sections.New(sections.Options{DefaultSize: sizes.ColumnHeaderHeight, MinimumSize: minimums.ColumnHeaderHeight})

	g.dpiRatio = g.metrics.DPIScale()
	g.canvas = g.newSurface(0, 0)
	g.buffer = g.newSurface(0, 0)
	g.overlay = g.newSurface(0, 0)
	g.resetGraphicsContexts()

	g.disconnectRenderers = g.cellRenderers.Changed().Connect(g.onRenderersChanged)
	return g
}

func (g *DataGrid) resetGraphicsContexts() {
	for _, gc := range []*gfx.GraphicsContext{g.canvasGC, g.bufferGC, g.overlayGC} {
		if gc != nil {
			gc.Dispose()
		}
	}
	g.canvasGC = gfx.NewGraphicsContext(g.canvas)
	g.bufferGC = gfx.NewGraphicsContext(g.buffer)
	g.overlayGC = gfx.NewGraphicsContext(g.overlay)
}

// Dispose releases the models and handlers. Every method is a no-op
// afterwards. Dispose may be called more than once.
func (g *DataGrid) Dispose() {
	if g.disposed {
		return
	}
	g.releaseMouse()
	if g.editorController != nil {
		g.editorController.Cancel()
	}
	if g.keyHandler != nil {
		g.keyHandler.Dispose()
	}
	if g.mouseHandler != nil {
		g.mouseHandler.Dispose()
	}
	for _, disconnect := range []func(){g.disconnectModel, g.disconnectSelection, g.disconnectRenderers} {
		if disconnect != nil {
			disconnect()
		}
	}
	g.loop.Clear(g)

	g.keyHandler = nil
	g.mouseHandler = nil
	g.editorController = nil
	g.dataModel = nil
	g.selectionModel = nil
	g.rowSections.Clear()
	g.columnSections.Clear()
	g.rowHeaderSections.Clear()
	g.columnHeaderSections.Clear()
	g.canvasGC.Dispose()
	g.bufferGC.Dispose()
	g.overlayGC.Dispose()
	g.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (g *DataGrid) IsDisposed() bool { return g.disposed }

// Loop returns the message loop the grid posts deferred work to.
func (g *DataGrid) Loop() *msgloop.Loop { return g.loop }

// Clock returns the clock that drives timed behaviour such as autoselect.
func (g *DataGrid) Clock() msgloop.Clock { return g.clock }

// Canvas returns the surface holding the painted content.
func (g *DataGrid) Canvas() gfx.Surface { return g.canvas }

// Overlay returns the surface holding selections, the cursor and scroll
// shadows. It is drawn on top of Canvas.
func (g *DataGrid) Overlay() gfx.Surface { return g.overlay }

func (g *DataGrid) HScrollBar() ScrollBar { return g.hScrollBar }
func (g *DataGrid) VScrollBar() ScrollBar { return g.vScrollBar }

// ScrollBarSize returns the thickness of a visible scroll bar.
func (g *DataGrid) ScrollBarSize() int { return g.scrollBarSize }

// PointerCursor returns the pointer shape suggested by the mouse handler.
func (g *DataGrid) PointerCursor() string { return g.pointerCursor }

// SetPointerCursor records the pointer shape for the host to show.
func (g *DataGrid) SetPointerCursor(cursor string) { g.pointerCursor = cursor }

func (g *DataGrid) DataModel() datamodel.DataModel { return g.dataModel }

// SetDataModel replaces the data model, dropping the selection model and
// rebuilding every section list.
func (g *DataGrid) SetDataModel(m datamodel.DataModel) {
	if g.disposed || g.dataModel == m {
		return
	}
	g.releaseMouse()
	if g.editorController != nil {
		g.editorController.Cancel()
	}
	g.SetSelectionModel(nil)

	if g.disconnectModel != nil {
		g.disconnectModel()
		g.disconnectModel = nil
	}
	if m != nil {
		g.disconnectModel = m.Changed().Connect(g.onDataModelChanged)
	}
	g.dataModel = m

	g.rowSections.Clear()
	g.columnSections.Clear()
	g.rowHeaderSections.Clear()
	g.columnHeaderSections.Clear()
	if m != nil {
		g.rowSections.Insert(0, m.RowCount(datamodel.Body))
		g.columnSections.Insert(0, m.ColumnCount(datamodel.Body))
		g.rowHeaderSections.Insert(0, m.ColumnCount(datamodel.RowHeader))
		g.columnHeaderSections.Insert(0, m.RowCount(datamodel.ColumnHeader))
	}

	g.scrollX = 0
	g.scrollY = 0
	g.hScrollBar.Value = 0
	g.vScrollBar.Value = 0
	g.syncViewport()
}

func (g *DataGrid) SelectionModel() selection.Model { return g.selectionModel }

// SetSelectionModel replaces the selection model. It returns
// ErrModelMismatch if m is bound to another data model.
func (g *DataGrid) SetSelectionModel(m selection.Model) error {
	if g.disposed || g.selectionModel == m {
		return nil
	}
	if m != nil && m.DataModel() != g.dataModel {
		return ErrModelMismatch
	}
	g.releaseMouse()
	if g.disconnectSelection != nil {
		g.disconnectSelection()
		g.disconnectSelection = nil
	}
	if m != nil {
		g.disconnectSelection = m.Changed().Connect(g.onSelectionsChanged)
	}
	g.selectionModel = m
	g.RepaintOverlay()
	return nil
}

func (g *DataGrid) KeyHandler() KeyHandler { return g.keyHandler }

func (g *DataGrid) SetKeyHandler(h KeyHandler) {
	if g.disposed {
		return
	}
	g.keyHandler = h
}

func (g *DataGrid) MouseHandler() MouseHandler { return g.mouseHandler }

// SetMouseHandler replaces the mouse handler, releasing any press held by
// the old one.
func (g *DataGrid) SetMouseHandler(h MouseHandler) {
	if g.disposed || g.mouseHandler == h {
		return
	}
	g.releaseMouse()
	g.mouseHandler = h
}

func (g *DataGrid) EditorController() editor.CellEditorController { return g.editorController }

func (g *DataGrid) SetEditorController(c editor.CellEditorController) {
	if g.disposed {
		return
	}
	g.editorController = c
}

func (g *DataGrid) Style() Style { return g.style }

func (g *DataGrid) SetStyle(s Style) {
	if g.disposed {
		return
	}
	g.style = s
	g.RepaintContent()
	g.RepaintOverlay()
}

func (g *DataGrid) CellRenderers() *render.RendererMap { return g.cellRenderers }

func (g *DataGrid) SetCellRenderers(m *render.RendererMap) {
	if g.disposed || m == nil || g.cellRenderers == m {
		return
	}
	g.disconnectRenderers()
	g.disconnectRenderers = m.Changed().Connect(g.onRenderersChanged)
	g.cellRenderers = m
	g.RepaintContent()
}

func (g *DataGrid) HeaderVisibility() HeaderVisibility { return g.headerVisibility }

func (g *DataGrid) SetHeaderVisibility(v HeaderVisibility) {
	if g.disposed || g.headerVisibility == v {
		return
	}
	g.headerVisibility = v
	g.syncViewport()
}

func (g *DataGrid) DefaultSizes() Sizes {
	return Sizes{
		RowHeight:          g.rowSections.DefaultSize(),
		ColumnWidth:        g.columnSections.DefaultSize(),
		RowHeaderWidth:     g.rowHeaderSections.DefaultSize(),
		ColumnHeaderHeight: g.columnHeaderSections.DefaultSize(),
	}
}

func (g *DataGrid) SetDefaultSizes(s Sizes) {
	if g.disposed {
		return
	}
	g.rowSections.SetDefaultSize(s.RowHeight)
	g.columnSections.SetDefaultSize(s.ColumnWidth)
	g.rowHeaderSections.SetDefaultSize(s.RowHeaderWidth)
	g.columnHeaderSections.SetDefaultSize(s.ColumnHeaderHeight)
	g.syncViewport()
}

func (g *DataGrid) MinimumSizes() Sizes {
	return Sizes{
		RowHeight:          g.rowSections.MinimumSize(),
		ColumnWidth:        g.columnSections.MinimumSize(),
		RowHeaderWidth:     g.rowHeaderSections.MinimumSize(),
		ColumnHeaderHeight: g.columnHeaderSections.MinimumSize(),
	}
}

func (g *DataGrid) SetMinimumSizes(s Sizes) {
	if g.disposed {
		return
	}
	g.rowSections.SetMinimumSize(s.RowHeight)
	g.columnSections.SetMinimumSize(s.ColumnWidth)
	g.rowHeaderSections.SetMinimumSize(s.RowHeaderWidth)
	g.columnHeaderSections.SetMinimumSize(s.ColumnHeaderHeight)
	g.syncViewport()
}

func (g *DataGrid) StretchLastRow() bool    { return g.stretchLastRow }
func (g *DataGrid) StretchLastColumn() bool { return g.stretchLastColumn }

func (g *DataGrid) SetStretchLastRow(v bool) {
	if g.disposed || g.stretchLastRow == v {
		return
	}
	g.stretchLastRow = v
	g.syncViewport()
}

func (g *DataGrid) SetStretchLastColumn(v bool) {
	if g.disposed || g.stretchLastColumn == v {
		return
	}
	g.stretchLastColumn = v
	g.syncViewport()
}

// EditingEnabled reports whether editing was switched on.
func (g *DataGrid) EditingEnabled() bool { return g.editingEnabled }

func (g *DataGrid) SetEditingEnabled(v bool) { g.editingEnabled = v }

// Editable reports whether cells can be edited: editing is enabled and the
// data model is mutable.
func (g *DataGrid) Editable() bool {
	if !g.editingEnabled {
		return false
	}
	_, ok := g.dataModel.(datamodel.MutableDataModel)
	return ok
}

func (g *DataGrid) CopyConfig() CopyConfig { return g.copyConfig }

func (g *DataGrid) SetCopyConfig(c CopyConfig) { g.copyConfig = c }

// ScrollMargin returns the distance kept between a scrolled-to target and
// the page edge.
func (g *DataGrid) ScrollMargin() int { return g.scrollMargin }

// ScrollX returns the requested horizontal scroll position.
func (g *DataGrid) ScrollX() int { return g.hScrollBar.Value }

// ScrollY returns the requested vertical scroll position.
func (g *DataGrid) ScrollY() int { return g.vScrollBar.Value }

func (g *DataGrid) MaxScrollX() int { return max(0, g.BodyWidth()-g.PageWidth()-1) }
func (g *DataGrid) MaxScrollY() int { return max(0, g.BodyHeight()-g.PageHeight()-1) }

func (g *DataGrid) ViewportWidth() int  { return g.viewportWidth }
func (g *DataGrid) ViewportHeight() int { return g.viewportHeight }

// PageWidth is the viewport width left for the body.
func (g *DataGrid) PageWidth() int { return max(0, g.viewportWidth-g.HeaderWidth()) }

// PageHeight is the viewport height left for the body.
func (g *DataGrid) PageHeight() int { return max(0, g.viewportHeight-g.HeaderHeight()) }

func (g *DataGrid) BodyWidth() int  { return g.columnSections.Length() }
func (g *DataGrid) BodyHeight() int { return g.rowSections.Length() }

// HeaderWidth is the width of the visible row header.
func (g *DataGrid) HeaderWidth() int {
	if g.headerVisibility == HeadersNone || g.headerVisibility == HeadersColumn {
		return 0
	}
	return g.rowHeaderSections.Length()
}

// HeaderHeight is the height of the visible column header.
func (g *DataGrid) HeaderHeight() int {
	if g.headerVisibility == HeadersNone || g.headerVisibility == HeadersRow {
		return 0
	}
	return g.columnHeaderSections.Length()
}

func (g *DataGrid) TotalWidth() int  { return g.HeaderWidth() + g.BodyWidth() }
func (g *DataGrid) TotalHeight() int { return g.HeaderHeight() + g.BodyHeight() }

// rowList returns the section list of a row region.
func (g *DataGrid) rowList(region datamodel.Region) *sections.List {
	if region == datamodel.ColumnHeader {
		return g.columnHeaderSections
	}
	return g.rowSections
}

// columnList returns the section list of a column region.
func (g *DataGrid) columnList(region datamodel.Region) *sections.List {
	if region == datamodel.RowHeader {
		return g.rowHeaderSections
	}
	return g.columnSections
}

// RowAt returns the row of region at a virtual offset, or -1.
func (g *DataGrid) RowAt(region datamodel.Region, offset int) int {
	if offset < 0 {
		return -1
	}
	if region == datamodel.ColumnHeader {
		return g.columnHeaderSections.IndexOf(offset)
	}
	if index := g.rowSections.IndexOf(offset); index >= 0 {
		return index
	}
	if !g.stretchLastRow {
		return -1
	}
	bh, ph := g.BodyHeight(), g.PageHeight()
	if ph <= bh || offset >= ph {
		return -1
	}
	return g.rowSections.Count() - 1
}

// ColumnAt returns the column of region at a virtual offset, or -1.
func (g *DataGrid) ColumnAt(region datamodel.Region, offset int) int {
	if offset < 0 {
		return -1
	}
	if region == datamodel.RowHeader {
		return g.rowHeaderSections.IndexOf(offset)
	}
	if index := g.columnSections.IndexOf(offset); index >= 0 {
		return index
	}
	if !g.stretchLastColumn {
		return -1
	}
	bw, pw := g.BodyWidth(), g.PageWidth()
	if pw <= bw || offset >= pw {
		return -1
	}
	return g.columnSections.Count() - 1
}

// RowOffset returns the virtual offset of a row, or -1.
func (g *DataGrid) RowOffset(region datamodel.Region, index int) int {
	return g.rowList(region).OffsetOf(index)
}

// ColumnOffset returns the virtual offset of a column, or -1.
func (g *DataGrid) ColumnOffset(region datamodel.Region, index int) int {
	return g.columnList(region).OffsetOf(index)
}

// RowSize returns the painted size of a row, including the stretch of the
// last body row, or -1.
func (g *DataGrid) RowSize(region datamodel.Region, index int) int {
	if region == datamodel.ColumnHeader {
		return g.columnHeaderSections.SizeOf(index)
	}
	size := g.rowSections.SizeOf(index)
	if size < 0 || !g.stretchLastRow || index < g.rowSections.Count()-1 {
		return size
	}
	bh, ph := g.BodyHeight(), g.PageHeight()
	if ph <= bh {
		return size
	}
	return size + (ph - bh)
}

// ColumnSize returns the painted size of a column, including the stretch of
// the last body column, or -1.
func (g *DataGrid) ColumnSize(region datamodel.Region, index int) int {
	if region == datamodel.RowHeader {
		return g.rowHeaderSections.SizeOf(index)
	}
	size := g.columnSections.SizeOf(index)
	if size < 0 || !g.stretchLastColumn || index < g.columnSections.Count()-1 {
		return size
	}
	bw, pw := g.BodyWidth(), g.PageWidth()
	if pw <= bw {
		return size
	}
	return size + (pw - bw)
}

// CellRect returns the viewport rectangle of a body cell, excluding its
// grid lines. ok is false when no part of the cell is on the page.
func (g *DataGrid) CellRect(row, column int) (x, y, width, height int, ok bool) {
	ox := g.columnSections.OffsetOf(column)
	oy := g.rowSections.OffsetOf(row)
	if ox < 0 || oy < 0 {
		return 0, 0, 0, 0, false
	}
	hw, hh := g.HeaderWidth(), g.HeaderHeight()
	x = ox - g.scrollX + hw
	y = oy - g.scrollY + hh
	width = g.ColumnSize(datamodel.Body, column) - 1
	height = g.RowSize(datamodel.Body, row) - 1
	if x+width <= hw || y+height <= hh || x >= g.viewportWidth || y >= g.viewportHeight {
		return x, y, width, height, false
	}
	return x, y, width, height, true
}

// HitTest describes the grid location under a pointer.
type HitTest struct {
	Region datamodel.Region
	Row    int
	Column int
	// X and Y are the position within the cell.
	X      int
	Y      int
	Width  int
	Height int
}

// MapToLocal converts a pointer position to viewport coordinates.
func (g *DataGrid) MapToLocal(clientX, clientY float64) (int, int) {
	x, y := g.metrics.PointerToLocal(clientX, clientY)
	return floor(x), floor(y)
}

// MapToVirtual converts a pointer position to virtual body coordinates.
func (g *DataGrid) MapToVirtual(clientX, clientY float64) (int, int) {
	x, y := g.MapToLocal(clientX, clientY)
	return x + g.scrollX - g.HeaderWidth(), y + g.scrollY - g.HeaderHeight()
}

// HitTest classifies a pointer position.
func (g *DataGrid) HitTest(clientX, clientY float64) HitTest {
	void := HitTest{Region: datamodel.Void, Row: -1, Column: -1, X: -1, Y: -1, Width: -1, Height: -1}
	if g.disposed {
		return void
	}
	x, y := g.MapToLocal(clientX, clientY)

	hw, hh := g.HeaderWidth(), g.HeaderHeight()
	bw, bh := g.BodyWidth(), g.BodyHeight()
	pw, ph := g.PageWidth(), g.PageHeight()
	if g.stretchLastColumn && pw > bw {
		bw = pw
	}
	if g.stretchLastRow && ph > bh {
		bh = ph
	}

	hit := func(region, rowRegion, columnRegion datamodel.Region, vx, vy int) HitTest {
		row := g.RowAt(rowRegion, vy)
		column := g.ColumnAt(columnRegion, vx)
		ox := g.ColumnOffset(columnRegion, column)
		oy := g.RowOffset(rowRegion, row)
		return HitTest{
			Region: region,
			Row:    row,
			Column: column,
			X:      vx - ox,
			Y:      vy - oy,
			Width:  g.ColumnSize(columnRegion, column),
			Height: g.RowSize(rowRegion, row),
		}
	}

	switch {
	case x >= 0 && x < hw && y >= 0 && y < hh:
		return hit(datamodel.CornerHeader, datamodel.ColumnHeader, datamodel.RowHeader, x, y)
	case y >= 0 && y < hh && x >= 0 && x < hw+bw:
		return hit(datamodel.ColumnHeader, datamodel.ColumnHeader, datamodel.Body, x+g.scrollX-hw, y)
	case x >= 0 && x < hw && y >= 0 && y < hh+bh:
		return hit(datamodel.RowHeader, datamodel.Body, datamodel.RowHeader, x, y+g.scrollY-hh)
	case x >= hw && x < hw+bw && y >= hh && y < hh+bh:
		return hit(datamodel.Body, datamodel.Body, datamodel.Body, x+g.scrollX-hw, y+g.scrollY-hh)
	}
	return void
}

// Fit reads the surface size and lays out the viewport and scroll bars.
// Hosts call it whenever the grid's area may have changed.
func (g *DataGrid) Fit() {
	if g.disposed {
		return
	}
	if ec := g.editorController; ec != nil && g.width != 0 {
		if w, h := g.metrics.Size(); w != g.width || h != g.height {
			ec.Cancel()
		}
	}
	g.width, g.height = g.metrics.Size()
	if dpi := g.metrics.DPIScale(); dpi != g.dpiRatio {
		g.dpiRatio = dpi
		g.viewportWidth, g.viewportHeight = 0, 0
	}
	g.layoutViewport()
	g.syncScrollState()
	if g.scrollX > g.MaxScrollX() || g.scrollY > g.MaxScrollY() {
		g.scrollContent(g.scrollX, g.scrollY)
	}
}

// layoutViewport sizes the viewport to what the scroll bars leave free.
func (g *DataGrid) layoutViewport() {
	w, h := g.width, g.height
	if g.vScrollBar.Visible {
		w -= g.scrollBarSize
	}
	if g.hScrollBar.Visible {
		h -= g.scrollBarSize
	}
	w, h = max(0, w), max(0, h)
	if w == g.viewportWidth && h == g.viewportHeight {
		return
	}
	g.onViewportResize(w, h)
}

// syncScrollState shows or hides the scroll bars as the content requires
// and updates their ranges.
func (g *DataGrid) syncScrollState() {
	bh, bw := g.BodyHeight(), g.BodyWidth()
	hasV, hasH := g.vScrollBar.Visible, g.hScrollBar.Visible
	vsw, hsh := g.scrollBarSize, g.scrollBarSize

	ph := g.PageHeight()
	if hasH {
		ph += hsh
	}
	pw := g.PageWidth()
	if hasV {
		pw += vsw
	}

	needV := ph < bh-1
	needH := pw < bw-1
	if needV && !needH {
		needH = pw-vsw < bw-1
	}
	if needH && !needV {
		needV = ph-hsh < bh-1
	}

	if needV != hasV || needH != hasH {
		g.vScrollBar.Visible = needV
		g.hScrollBar.Visible = needH
		if g.width > 0 || g.height > 0 {
			g.layoutViewport()
		}
	}

	g.vScrollBar.Maximum = g.MaxScrollY()
	g.vScrollBar.Page = g.PageHeight()
	g.vScrollBar.Value = g.scrollY
	g.hScrollBar.Maximum = g.MaxScrollX()
	g.hScrollBar.Page = g.PageWidth()
	g.hScrollBar.Value = g.scrollX
}

// syncViewport schedules a full repaint and refreshes the scroll state.
func (g *DataGrid) syncViewport() {
	g.RepaintContent()
	g.RepaintOverlay()
	g.syncScrollState()
}

func (g *DataGrid) releaseMouse() {
	g.mousedown = false
	if g.mouseHandler != nil {
		g.mouseHandler.Release()
	}
}

func (g *DataGrid) onSelectionsChanged(struct{}) {
	g.RepaintOverlay()
}

func (g *DataGrid) onRenderersChanged(struct{}) {
	g.RepaintContent()
}

// reportError logs err and forwards it to the error handler.
func (g *DataGrid) reportError(err error) {
	debugLog("%v\n", err)
	if g.onError != nil {
		g.onError(err)
	}
}

func floor(v float64) int {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return i
}
