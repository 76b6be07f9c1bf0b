package grid

import (
	"math"
	"time"

	"dgrid/internal/datamodel"
	"dgrid/internal/editor"
	"dgrid/internal/msgloop"
	"dgrid/internal/selection"
)

// MouseEvent is a pointer event in client coordinates.
type MouseEvent struct {
	ClientX float64
	ClientY float64
	Button  int
	Shift   bool
	Ctrl    bool
	Alt     bool
	Meta    bool
}

// Accel reports whether the platform accelerator modifier is held.
func (e MouseEvent) Accel() bool { return e.Ctrl || e.Meta }

// DeltaMode is the unit of a wheel delta.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// WheelEvent is a scroll wheel or trackpad event.
type WheelEvent struct {
	MouseEvent
	DeltaX    float64
	DeltaY    float64
	DeltaMode DeltaMode
}

// MouseHandler reacts to pointer input on a grid. OnWheel and
// OnContextMenu report whether they consumed the event.
type MouseHandler interface {
	OnMouseHover(grid *DataGrid, event MouseEvent)
	OnMouseLeave(grid *DataGrid, event MouseEvent)
	OnMouseDown(grid *DataGrid, event MouseEvent)
	OnMouseMove(grid *DataGrid, event MouseEvent)
	OnMouseUp(grid *DataGrid, event MouseEvent)
	OnMouseDoubleClick(grid *DataGrid, event MouseEvent)
	OnContextMenu(grid *DataGrid, event MouseEvent) bool
	OnWheel(grid *DataGrid, event WheelEvent) bool
	// Release abandons a press in progress.
	Release()
	Dispose()
}

// ResizeInsets is how close to a section's leading and trailing edges a
// header press starts a resize. A negative inset disables that edge.
type ResizeInsets struct {
	Leading  int
	Trailing int
}

var (
	DefaultResizeInsets = ResizeInsets{Leading: 5, Trailing: 6}

	// TerminalResizeInsets make the grid line cell the only handle.
	TerminalResizeInsets = ResizeInsets{Leading: -1, Trailing: 1}
)

// Pointer cursor names.
const (
	CursorDefault  = "default"
	CursorEWResize = "ew-resize"
	CursorNSResize = "ns-resize"
)

type resizeHandle int

const (
	handleNone resizeHandle = iota
	handleLeft
	handleRight
	handleTop
	handleBottom
)

type pressKind int

const (
	pressSelect pressKind = iota
	pressRowResize
	pressColumnResize
)

// pressData is the state of a press in progress.
type pressData struct {
	kind   pressKind
	grid   *DataGrid
	region datamodel.Region

	// select
	row, column    int
	localX, localY int
	timeout        time.Duration // negative when not autoselecting
	timer          msgloop.Timer

	// resize
	index   int
	size    int
	clientX float64
	clientY float64
}

// BasicMouseHandler implements selecting by click and drag, autoselect
// while dragging outside the viewport, header resizing, wheel scrolling
// and editing on double click.
type BasicMouseHandler struct {
	insets   ResizeInsets
	press    *pressData
	disposed bool
}

func NewBasicMouseHandler(insets ResizeInsets) *BasicMouseHandler {
	return &BasicMouseHandler{insets: insets}
}

func (h *BasicMouseHandler) IsDisposed() bool { return h.disposed }

func (h *BasicMouseHandler) Dispose() {
	if h.disposed {
		return
	}
	h.Release()
	h.disposed = true
}

func (h *BasicMouseHandler) Release() {
	if h.press == nil {
		return
	}
	if h.press.timer != nil {
		h.press.timer.Stop()
	}
	h.press.timeout = -1
	h.press.grid.SetPointerCursor(CursorDefault)
	h.press = nil
}

func (h *BasicMouseHandler) OnMouseHover(grid *DataGrid, event MouseEvent) {
	hit := grid.HitTest(event.ClientX, event.ClientY)
	grid.SetPointerCursor(cursorForHandle(h.resizeHandleFor(hit)))
}

func (h *BasicMouseHandler) OnMouseLeave(grid *DataGrid, event MouseEvent) {
	grid.SetPointerCursor("")
}

func (h *BasicMouseHandler) OnMouseDown(grid *DataGrid, event MouseEvent) {
	if h.disposed {
		return
	}
	h.Release()
	hit := grid.HitTest(event.ClientX, event.ClientY)
	region, row, column := hit.Region, hit.Row, hit.Column
	if region == datamodel.Void {
		return
	}
	accel, shift := event.Accel(), event.Shift

	if region != datamodel.Body {
		handle := h.resizeHandleFor(hit)
		switch handle {
		case handleLeft, handleRight:
			rgn := datamodel.RowHeader
			if region == datamodel.ColumnHeader {
				rgn = datamodel.Body
			}
			index := column
			if handle == handleLeft {
				index--
			}
			grid.SetPointerCursor(cursorForHandle(handle))
			h.press = &pressData{kind: pressColumnResize, grid: grid, region: rgn, index: index,
				size: grid.ColumnSize(rgn, index), clientX: event.ClientX}
			return
		case handleTop, handleBottom:
			rgn := datamodel.ColumnHeader
			if region == datamodel.RowHeader {
				rgn = datamodel.Body
			}
			index := row
			if handle == handleTop {
				index--
			}
			grid.SetPointerCursor(cursorForHandle(handle))
			h.press = &pressData{kind: pressRowResize, grid: grid, region: rgn, index: index,
				size: grid.RowSize(rgn, index), clientY: event.ClientY}
			return
		}
	}

	model := grid.SelectionModel()
	if model == nil {
		return
	}
	grid.SetPointerCursor(CursorDefault)
	h.press = &pressData{kind: pressSelect, grid: grid, region: region, row: row, column: column,
		localX: -1, localY: -1, timeout: -1}

	cs, hasCurrent := model.CurrentSelection()
	args := selection.Args{Clear: selection.ClearAll}
	switch {
	case accel:
		args.Clear = selection.ClearNone
	case shift:
		args.Clear = selection.ClearCurrent
	}

	switch region {
	case datamodel.CornerHeader:
		args.R1, args.R2, args.C1, args.C2 = 0, math.MaxInt, 0, math.MaxInt
		if shift && !accel {
			args.CursorRow, args.CursorColumn = model.CursorRow(), model.CursorColumn()
		}
	case datamodel.RowHeader:
		args.R1, args.R2, args.C1, args.C2 = row, row, 0, math.MaxInt
		args.CursorRow = row
		if shift && !accel {
			if hasCurrent {
				args.R1 = cs.R1
			}
			args.CursorRow, args.CursorColumn = model.CursorRow(), model.CursorColumn()
		}
	case datamodel.ColumnHeader:
		args.R1, args.R2, args.C1, args.C2 = 0, math.MaxInt, column, column
		args.CursorColumn = column
		if shift && !accel {
			if hasCurrent {
				args.C1 = cs.C1
			}
			args.CursorRow, args.CursorColumn = model.CursorRow(), model.CursorColumn()
		}
	default:
		args.R1, args.R2, args.C1, args.C2 = row, row, column, column
		args.CursorRow, args.CursorColumn = row, column
		if shift && !accel {
			if hasCurrent {
				args.R1, args.C1 = cs.R1, cs.C1
			}
			args.CursorRow, args.CursorColumn = model.CursorRow(), model.CursorColumn()
		}
	}
	model.Select(args)
}

func (h *BasicMouseHandler) OnMouseMove(grid *DataGrid, event MouseEvent) {
	data := h.press
	if data == nil {
		return
	}

	switch data.kind {
	case pressRowResize:
		dy := floor(event.ClientY - data.clientY)
		grid.ResizeRow(data.region, data.index, data.size+dy)
		return
	case pressColumnResize:
		dx := floor(event.ClientX - data.clientX)
		grid.ResizeColumn(data.region, data.index, data.size+dx)
		return
	}

	if data.region == datamodel.CornerHeader {
		return
	}
	model := grid.SelectionModel()
	if model == nil {
		return
	}

	lx, ly := grid.MapToLocal(event.ClientX, event.ClientY)
	data.localX, data.localY = lx, ly

	hw, hh := grid.HeaderWidth(), grid.HeaderHeight()
	vw, vh := grid.ViewportWidth(), grid.ViewportHeight()
	sx, sy := grid.ScrollX(), grid.ScrollY()
	msx, msy := grid.MaxScrollX(), grid.MaxScrollY()
	mode := model.SelectionMode()

	timeout := time.Duration(-1)
	vertical := func() {
		if ly < hh && sy > 0 {
			timeout = autoselectTimeout(hh - ly)
		} else if ly >= vh && sy < msy {
			timeout = autoselectTimeout(ly - vh)
		}
	}
	horizontal := func() {
		if lx < hw && sx > 0 {
			timeout = autoselectTimeout(hw - lx)
		} else if lx >= vw && sx < msx {
			timeout = autoselectTimeout(lx - vw)
		}
	}
	switch {
	case data.region == datamodel.RowHeader || mode == selection.RowMode:
		vertical()
	case data.region == datamodel.ColumnHeader || mode == selection.ColumnMode:
		horizontal()
	default:
		horizontal()
		if timeout < 0 {
			vertical()
		}
	}

	if timeout >= 0 {
		if data.timeout < 0 {
			data.timeout = timeout
			h.scheduleAutoselect(grid, data)
		} else {
			data.timeout = timeout
		}
		return
	}
	data.timeout = -1
	if data.timer != nil {
		data.timer.Stop()
		data.timer = nil
	}

	vx, vy := grid.MapToVirtual(event.ClientX, event.ClientY)
	vx = clamp(vx, 0, grid.BodyWidth()-1)
	vy = clamp(vy, 0, grid.BodyHeight()-1)

	args := selection.Args{
		CursorRow:    model.CursorRow(),
		CursorColumn: model.CursorColumn(),
		Clear:        selection.ClearCurrent,
	}
	switch {
	case data.region == datamodel.RowHeader || mode == selection.RowMode:
		args.R1, args.R2, args.C1, args.C2 = data.row, grid.RowAt(datamodel.Body, vy), 0, math.MaxInt
	case data.region == datamodel.ColumnHeader || mode == selection.ColumnMode:
		args.R1, args.R2, args.C1, args.C2 = 0, math.MaxInt, data.column, grid.ColumnAt(datamodel.Body, vx)
	default:
		args.R1, args.R2 = model.CursorRow(), grid.RowAt(datamodel.Body, vy)
		args.C1, args.C2 = model.CursorColumn(), grid.ColumnAt(datamodel.Body, vx)
	}
	model.Select(args)
}

func (h *BasicMouseHandler) scheduleAutoselect(grid *DataGrid, data *pressData) {
	data.timer = grid.Clock().AfterFunc(data.timeout, func() {
		h.autoselect(grid, data)
	})
}

// autoselect grows the current selection one section towards the pointer
// and scrolls to follow it, then reschedules itself while the pointer stays
// outside the page.
func (h *BasicMouseHandler) autoselect(grid *DataGrid, data *pressData) {
	if data.timeout < 0 || h.press != data || grid.IsDisposed() {
		return
	}
	model := grid.SelectionModel()
	if model == nil {
		return
	}
	cs, ok := model.CurrentSelection()
	if !ok {
		return
	}

	lx, ly := data.localX, data.localY
	hw, hh := grid.HeaderWidth(), grid.HeaderHeight()
	vw, vh := grid.ViewportWidth(), grid.ViewportHeight()
	mode := model.SelectionMode()

	step := func(pos, lo, hi int) int {
		switch {
		case pos <= lo:
			return -1
		case pos >= hi:
			return 1
		}
		return 0
	}

	r2, c2 := cs.R2, cs.C2
	rowWise := data.region == datamodel.RowHeader || mode == selection.RowMode
	columnWise := !rowWise && (data.region == datamodel.ColumnHeader || mode == selection.ColumnMode)
	switch {
	case rowWise:
		r2 += step(ly, hh, vh)
	case columnWise:
		c2 += step(lx, hw, vw)
	default:
		r2 += step(ly, hh, vh)
		c2 += step(lx, hw, vw)
	}

	model.Select(selection.Args{
		R1: cs.R1, C1: cs.C1, R2: max(r2, 0), C2: max(c2, 0),
		CursorRow: model.CursorRow(), CursorColumn: model.CursorColumn(),
		Clear: selection.ClearCurrent,
	})

	cs, ok = model.CurrentSelection()
	if !ok {
		return
	}
	switch {
	case rowWise:
		grid.ScrollToRow(cs.R2)
	case columnWise:
		grid.ScrollToColumn(cs.C2)
	case data.region == datamodel.Body:
		grid.ScrollToCell(cs.R2, cs.C2)
	}

	h.scheduleAutoselect(grid, data)
}

// autoselectTimeout shortens the autoselect interval the further the
// pointer is outside the page.
func autoselectTimeout(distance int) time.Duration {
	d := math.Min(128, math.Abs(float64(distance)))
	ms := 5 + 120*(1-d/128)
	return time.Duration(ms * float64(time.Millisecond))
}

func (h *BasicMouseHandler) OnMouseUp(grid *DataGrid, event MouseEvent) {
	h.Release()
}

func (h *BasicMouseHandler) OnMouseDoubleClick(grid *DataGrid, event MouseEvent) {
	if grid.DataModel() == nil {
		return
	}
	hit := grid.HitTest(event.ClientX, event.ClientY)
	if hit.Region == datamodel.Void {
		return
	}
	if hit.Region == datamodel.Body && grid.Editable() {
		if controller := grid.EditorController(); controller != nil {
			controller.Edit(editor.Cell{Grid: grid, Row: hit.Row, Column: hit.Column}, nil)
		}
	}
	h.Release()
}

func (h *BasicMouseHandler) OnContextMenu(grid *DataGrid, event MouseEvent) bool {
	return false
}

// OnWheel scrolls by the wheel delta when there is room to scroll in its
// direction.
func (h *BasicMouseHandler) OnWheel(grid *DataGrid, event WheelEvent) bool {
	if h.press != nil {
		return false
	}
	dx, dy := event.DeltaX, event.DeltaY
	switch event.DeltaMode {
	case DeltaPixel:
	case DeltaLine:
		sizes := grid.DefaultSizes()
		dx *= float64(sizes.ColumnWidth)
		dy *= float64(sizes.RowHeight)
	case DeltaPage:
		dx *= float64(grid.PageWidth())
		dy *= float64(grid.PageHeight())
	default:
		panic("unreachable")
	}

	sx, sy := grid.ScrollX(), grid.ScrollY()
	if (dx < 0 && sx != 0) || (dx > 0 && sx != grid.MaxScrollX()) ||
		(dy < 0 && sy != 0) || (dy > 0 && sy != grid.MaxScrollY()) {
		grid.ScrollBy(int(math.Round(dx)), int(math.Round(dy)))
		return true
	}
	return false
}

// resizeHandleFor classifies a header hit as a resize handle.
func (h *BasicMouseHandler) resizeHandleFor(hit HitTest) resizeHandle {
	switch hit.Region {
	case datamodel.CornerHeader, datamodel.ColumnHeader, datamodel.RowHeader:
	default:
		return handleNone
	}
	leadW, leadH := hit.X, hit.Y
	trailW, trailH := hit.Width-hit.X, hit.Height-hit.Y
	switch {
	case hit.Column > 0 && leadW <= h.insets.Leading:
		return handleLeft
	case trailW <= h.insets.Trailing:
		return handleRight
	case hit.Row > 0 && leadH <= h.insets.Leading:
		return handleTop
	case trailH <= h.insets.Trailing:
		return handleBottom
	}
	return handleNone
}

func cursorForHandle(handle resizeHandle) string {
	switch handle {
	case handleLeft, handleRight:
		return CursorEWResize
	case handleTop, handleBottom:
		return CursorNSResize
	}
	return CursorDefault
}
