package grid

import (
	"math"
	"unicode"

	"dgrid/internal/datamodel"
	"dgrid/internal/editor"
	"dgrid/internal/selection"
)

// Named keys of KeyEvent.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
	KeyEscape     = "Escape"
	KeyDelete     = "Delete"
	KeyEnter      = "Enter"
	KeyTab        = "Tab"
)

// KeyEvent is a key press. Key names a non-character key; character keys
// leave it empty and set Rune.
type KeyEvent struct {
	Key   string
	Rune  rune
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Accel reports whether the platform accelerator modifier is held.
func (e KeyEvent) Accel() bool { return e.Ctrl || e.Meta }

// KeyHandler reacts to key presses on a grid. OnKeyDown reports whether it
// consumed the event.
type KeyHandler interface {
	OnKeyDown(grid *DataGrid, event KeyEvent) bool
	Dispose()
}

// BasicKeyHandler implements keyboard navigation, selection, deletion,
// copying and starting an edit by typing.
type BasicKeyHandler struct {
	disposed bool
}

func NewBasicKeyHandler() *BasicKeyHandler { return &BasicKeyHandler{} }

func (h *BasicKeyHandler) IsDisposed() bool { return h.disposed }

func (h *BasicKeyHandler) Dispose() { h.disposed = true }

func (h *BasicKeyHandler) OnKeyDown(grid *DataGrid, event KeyEvent) bool {
	if h.disposed || grid.IsDisposed() {
		return false
	}

	if h.startEditing(grid, event) {
		return true
	}

	switch event.Key {
	case KeyArrowLeft:
		h.onArrowLeft(grid, event)
	case KeyArrowRight:
		h.onArrowRight(grid, event)
	case KeyArrowUp:
		h.onArrowUp(grid, event)
	case KeyArrowDown:
		h.onArrowDown(grid, event)
	case KeyPageUp:
		return h.onPageUp(grid, event)
	case KeyPageDown:
		return h.onPageDown(grid, event)
	case KeyEscape:
		if model := grid.SelectionModel(); model != nil {
			model.Clear()
		}
	case KeyDelete:
		h.onDelete(grid)
	case KeyEnter:
		if grid.SelectionModel() == nil {
			return false
		}
		if event.Shift {
			grid.MoveCursor(selection.Up)
		} else {
			grid.MoveCursor(selection.Down)
		}
		grid.ScrollToCursor()
	case KeyTab:
		if grid.SelectionModel() == nil {
			return false
		}
		if event.Shift {
			grid.MoveCursor(selection.Left)
		} else {
			grid.MoveCursor(selection.Right)
		}
		grid.ScrollToCursor()
	case "":
		if (event.Rune == 'c' || event.Rune == 'C') && event.Accel() {
			if err := grid.CopyToClipboard(); err != nil {
				grid.reportError(err)
			}
			return true
		}
		return false
	default:
		return false
	}
	return true
}

// startEditing opens the editor on the cursor cell when a printable
// character is typed into an editable grid.
func (h *BasicKeyHandler) startEditing(grid *DataGrid, event KeyEvent) bool {
	if event.Key != "" || event.Accel() || event.Alt || !unicode.IsPrint(event.Rune) {
		return false
	}
	model := grid.SelectionModel()
	controller := grid.EditorController()
	if !grid.Editable() || model == nil || controller == nil {
		return false
	}
	if model.CursorRow() == -1 || model.CursorColumn() == -1 {
		return false
	}
	cell := editor.Cell{Grid: grid, Row: model.CursorRow(), Column: model.CursorColumn()}
	controller.Edit(cell, &editor.Options{InitialInput: string(event.Rune)})
	return true
}

func (h *BasicKeyHandler) onArrowLeft(grid *DataGrid, event KeyEvent) {
	model := grid.SelectionModel()
	accel, shift := event.Accel(), event.Shift
	if model == nil || model.SelectionMode() == selection.RowMode {
		if accel {
			grid.ScrollTo(0, grid.ScrollY())
		} else {
			grid.ScrollByStep(selection.Left)
		}
		return
	}

	r, c := model.CursorRow(), model.CursorColumn()
	cs, ok := model.CurrentSelection()
	var args selection.Args
	switch {
	case accel && shift:
		args = selection.Args{C2: 0, CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.R2, args.C1 = cs.R1, cs.R2, cs.C1
		}
	case shift:
		args = selection.Args{CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.R2, args.C1, args.C2 = cs.R1, cs.R2, cs.C1, cs.C2-1
		}
	case accel:
		args = selection.Args{R1: r, R2: r, C1: 0, C2: 0, CursorRow: r, CursorColumn: 0, Clear: selection.ClearAll}
	default:
		args = selection.Args{R1: r, R2: r, C1: c - 1, C2: c - 1, CursorRow: r, CursorColumn: c - 1, Clear: selection.ClearAll}
	}
	h.selectAndScrollColumn(grid, model, args, shift)
}

func (h *BasicKeyHandler) onArrowRight(grid *DataGrid, event KeyEvent) {
	model := grid.SelectionModel()
	accel, shift := event.Accel(), event.Shift
	if model == nil || model.SelectionMode() == selection.RowMode {
		if accel {
			grid.ScrollTo(grid.MaxScrollX(), grid.ScrollY())
		} else {
			grid.ScrollByStep(selection.Right)
		}
		return
	}

	r, c := model.CursorRow(), model.CursorColumn()
	cs, ok := model.CurrentSelection()
	var args selection.Args
	switch {
	case accel && shift:
		args = selection.Args{C2: math.MaxInt, CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.R2, args.C1 = cs.R1, cs.R2, cs.C1
		}
	case shift:
		args = selection.Args{CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.R2, args.C1, args.C2 = cs.R1, cs.R2, cs.C1, cs.C2+1
		}
	case accel:
		args = selection.Args{R1: r, R2: r, C1: math.MaxInt, C2: math.MaxInt, CursorRow: r, CursorColumn: math.MaxInt, Clear: selection.ClearAll}
	default:
		args = selection.Args{R1: r, R2: r, C1: c + 1, C2: c + 1, CursorRow: r, CursorColumn: c + 1, Clear: selection.ClearAll}
	}
	h.selectAndScrollColumn(grid, model, args, shift)
}

func (h *BasicKeyHandler) selectAndScrollColumn(grid *DataGrid, model selection.Model, args selection.Args, shift bool) {
	model.Select(args)
	cs, ok := model.CurrentSelection()
	if !ok {
		return
	}
	if shift || model.SelectionMode() == selection.ColumnMode {
		grid.ScrollToColumn(cs.C2)
	} else {
		grid.ScrollToCursor()
	}
}

func (h *BasicKeyHandler) onArrowUp(grid *DataGrid, event KeyEvent) {
	model := grid.SelectionModel()
	accel, shift := event.Accel(), event.Shift
	if model == nil || model.SelectionMode() == selection.ColumnMode {
		if accel {
			grid.ScrollTo(grid.ScrollX(), 0)
		} else {
			grid.ScrollByStep(selection.Up)
		}
		return
	}

	r, c := model.CursorRow(), model.CursorColumn()
	cs, ok := model.CurrentSelection()
	var args selection.Args
	switch {
	case accel && shift:
		args = selection.Args{R2: 0, CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.C1, args.C2 = cs.R1, cs.C1, cs.C2
		}
	case shift:
		args = selection.Args{CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.R2, args.C1, args.C2 = cs.R1, cs.R2-1, cs.C1, cs.C2
		}
	case accel:
		args = selection.Args{R1: 0, R2: 0, C1: c, C2: c, CursorRow: 0, CursorColumn: c, Clear: selection.ClearAll}
	default:
		args = selection.Args{R1: r - 1, R2: r - 1, C1: c, C2: c, CursorRow: r - 1, CursorColumn: c, Clear: selection.ClearAll}
	}
	h.selectAndScrollRow(grid, model, args, shift)
}

func (h *BasicKeyHandler) onArrowDown(grid *DataGrid, event KeyEvent) {
	model := grid.SelectionModel()
	accel, shift := event.Accel(), event.Shift
	if model == nil || model.SelectionMode() == selection.ColumnMode {
		if accel {
			grid.ScrollTo(grid.ScrollX(), grid.MaxScrollY())
		} else {
			grid.ScrollByStep(selection.Down)
		}
		return
	}

	r, c := model.CursorRow(), model.CursorColumn()
	cs, ok := model.CurrentSelection()
	var args selection.Args
	switch {
	case accel && shift:
		args = selection.Args{R2: math.MaxInt, CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.C1, args.C2 = cs.R1, cs.C1, cs.C2
		}
	case shift:
		args = selection.Args{CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.R2, args.C1, args.C2 = cs.R1, cs.R2+1, cs.C1, cs.C2
		}
	case accel:
		args = selection.Args{R1: math.MaxInt, R2: math.MaxInt, C1: c, C2: c, CursorRow: math.MaxInt, CursorColumn: c, Clear: selection.ClearAll}
	default:
		args = selection.Args{R1: r + 1, R2: r + 1, C1: c, C2: c, CursorRow: r + 1, CursorColumn: c, Clear: selection.ClearAll}
	}
	h.selectAndScrollRow(grid, model, args, shift)
}

func (h *BasicKeyHandler) selectAndScrollRow(grid *DataGrid, model selection.Model, args selection.Args, shift bool) {
	model.Select(args)
	cs, ok := model.CurrentSelection()
	if !ok {
		return
	}
	if shift || model.SelectionMode() == selection.RowMode {
		grid.ScrollToRow(cs.R2)
	} else {
		grid.ScrollToCursor()
	}
}

func (h *BasicKeyHandler) onPageUp(grid *DataGrid, event KeyEvent) bool {
	return h.page(grid, event, -1)
}

func (h *BasicKeyHandler) onPageDown(grid *DataGrid, event KeyEvent) bool {
	return h.page(grid, event, 1)
}

// page moves the selection a page of default-height rows up (sign -1) or
// down (sign 1).
func (h *BasicKeyHandler) page(grid *DataGrid, event KeyEvent, sign int) bool {
	if event.Accel() {
		return false
	}
	model := grid.SelectionModel()
	if model == nil || model.SelectionMode() == selection.ColumnMode {
		if sign < 0 {
			grid.ScrollByPage(selection.Up)
		} else {
			grid.ScrollByPage(selection.Down)
		}
		return true
	}

	n := sign * (grid.PageHeight() / grid.DefaultSizes().RowHeight)
	r, c := model.CursorRow(), model.CursorColumn()
	cs, ok := model.CurrentSelection()

	var args selection.Args
	if event.Shift {
		args = selection.Args{CursorRow: r, CursorColumn: c, Clear: selection.ClearCurrent}
		if ok {
			args.R1, args.R2, args.C1, args.C2 = cs.R1, cs.R2+n, cs.C1, cs.C2
		}
	} else {
		args = selection.Args{C1: c, C2: c, CursorColumn: c, Clear: selection.ClearAll}
		if ok {
			args.R1 = cs.R1 + n
		}
		args.R2, args.CursorRow = args.R1, args.R1
	}
	model.Select(args)

	if cs, ok := model.CurrentSelection(); ok {
		grid.ScrollToRow(cs.R2)
	}
	return true
}

// onDelete clears every selected cell of an editable grid.
func (h *BasicKeyHandler) onDelete(grid *DataGrid) {
	model := grid.SelectionModel()
	if !grid.Editable() || model == nil || model.IsEmpty() {
		return
	}
	data := grid.DataModel().(datamodel.MutableDataModel)
	maxRow := data.RowCount(datamodel.Body) - 1
	maxColumn := data.ColumnCount(datamodel.Body) - 1
	if maxRow < 0 || maxColumn < 0 {
		return
	}
	for _, s := range model.Selections() {
		s = s.Normalized()
		r1, r2 := clamp(s.R1, 0, maxRow), clamp(s.R2, 0, maxRow)
		c1, c2 := clamp(s.C1, 0, maxColumn), clamp(s.C2, 0, maxColumn)
		for r := r1; r <= r2; r++ {
			for c := c1; c <= c2; c++ {
				if err := data.SetData(datamodel.Body, r, c, nil); err != nil {
					grid.reportError(err)
				}
			}
		}
	}
}
