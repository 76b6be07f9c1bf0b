package selection

import (
	"slices"

	"dgrid/internal/datamodel"
	"dgrid/internal/signal"
)

// Options configure a BasicSelectionModel.
type Options struct {
	DataModel     datamodel.DataModel
	SelectionMode Mode // CellMode when empty
}

// BasicSelectionModel keeps selections as an ordered list of rectangles.
// The last rectangle is the current selection.
type BasicSelectionModel struct {
	dataModel  datamodel.DataModel
	mode       Mode
	changed    *signal.Signal[struct{}]
	disconnect func()

	selections      []Rect
	cursorRow       int
	cursorColumn    int
	cursorRectIndex int
}

// New creates a selection model bound to opts.DataModel.
func New(opts Options) *BasicSelectionModel {
	mode := opts.SelectionMode
	if mode == "" {
		mode = CellMode
	}
	m := &BasicSelectionModel{
		dataModel:       opts.DataModel,
		mode:            mode,
		changed:         signal.New[struct{}](),
		cursorRow:       -1,
		cursorColumn:    -1,
		cursorRectIndex: -1,
	}
	m.disconnect = opts.DataModel.Changed().Connect(m.onDataModelChanged)
	return m
}

func (m *BasicSelectionModel) DataModel() datamodel.DataModel    { return m.dataModel }
func (m *BasicSelectionModel) Changed() *signal.Signal[struct{}] { return m.changed }
func (m *BasicSelectionModel) SelectionMode() Mode               { return m.mode }

func (m *BasicSelectionModel) SetSelectionMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.Clear()
}

func (m *BasicSelectionModel) IsEmpty() bool        { return len(m.selections) == 0 }
func (m *BasicSelectionModel) CursorRow() int       { return m.cursorRow }
func (m *BasicSelectionModel) CursorColumn() int    { return m.cursorColumn }
func (m *BasicSelectionModel) CursorRectIndex() int { return m.cursorRectIndex }

func (m *BasicSelectionModel) CurrentSelection() (Rect, bool) {
	if len(m.selections) == 0 {
		return Rect{}, false
	}
	return m.selections[len(m.selections)-1], true
}

func (m *BasicSelectionModel) Selections() []Rect {
	return slices.Clone(m.selections)
}

func (m *BasicSelectionModel) IsRowSelected(index int) bool {
	return slices.ContainsFunc(m.selections, func(r Rect) bool { return containsIndex(r.R1, r.R2, index) })
}

func (m *BasicSelectionModel) IsColumnSelected(index int) bool {
	return slices.ContainsFunc(m.selections, func(r Rect) bool { return containsIndex(r.C1, r.C2, index) })
}

func (m *BasicSelectionModel) IsCellSelected(row, column int) bool {
	return slices.ContainsFunc(m.selections, func(r Rect) bool { return r.Contains(row, column) })
}

// MoveCursorWithinSelections steps the cursor inside the rectangle holding
// it, wrapping at its edges and continuing into the next or previous
// rectangle.
func (m *BasicSelectionModel) MoveCursorWithinSelections(direction Direction) {
	if m.IsEmpty() || m.cursorRow == -1 || m.cursorColumn == -1 {
		return
	}
	first := m.selections[0]
	if len(m.selections) == 1 && first.R1 == first.R2 && first.C1 == first.C2 {
		return
	}
	if m.cursorRectIndex == -1 || m.cursorRectIndex >= len(m.selections) {
		m.cursorRectIndex = len(m.selections) - 1
	}

	var dr, dc int
	switch direction {
	case Down:
		dr = 1
	case Up:
		dr = -1
	case Right:
		dc = 1
	case Left:
		dc = -1
	}

	rect := m.selections[m.cursorRectIndex].Normalized()
	row, column := m.cursorRow+dr, m.cursorColumn+dc

	next := func() {
		m.cursorRectIndex = (m.cursorRectIndex + 1) % len(m.selections)
		r := m.selections[m.cursorRectIndex].Normalized()
		row, column = r.R1, r.C1
	}
	previous := func() {
		if m.cursorRectIndex == 0 {
			m.cursorRectIndex = len(m.selections) - 1
		} else {
			m.cursorRectIndex--
		}
		r := m.selections[m.cursorRectIndex].Normalized()
		row, column = r.R2, r.C2
	}

	switch {
	case row > rect.R2:
		row = rect.R1
		column++
		if column > rect.C2 {
			next()
		}
	case row < rect.R1:
		row = rect.R2
		column--
		if column < rect.C1 {
			previous()
		}
	case column > rect.C2:
		column = rect.C1
		row++
		if row > rect.R2 {
			next()
		}
	case column < rect.C1:
		column = rect.C2
		row--
		if row < rect.R1 {
			previous()
		}
	}

	m.cursorRow = row
	m.cursorColumn = column
	m.changed.Emit(struct{}{})
}

// Select adds a selection. It does nothing when the data model has no body
// cells.
func (m *BasicSelectionModel) Select(args Args) {
	rowCount := m.dataModel.RowCount(datamodel.Body)
	columnCount := m.dataModel.ColumnCount(datamodel.Body)
	if rowCount <= 0 || columnCount <= 0 {
		return
	}

	switch args.Clear {
	case ClearAll:
		m.selections = m.selections[:0]
	case ClearCurrent:
		if len(m.selections) > 0 {
			m.selections = m.selections[:len(m.selections)-1]
		}
	}

	r1 := clamp(args.R1, 0, rowCount-1)
	r2 := clamp(args.R2, 0, rowCount-1)
	c1 := clamp(args.C1, 0, columnCount-1)
	c2 := clamp(args.C2, 0, columnCount-1)

	switch m.mode {
	case RowMode:
		c1, c2 = 0, columnCount-1
	case ColumnMode:
		r1, r2 = 0, rowCount-1
	}

	cr, cc := args.CursorRow, args.CursorColumn
	if cr < 0 || (cr < r1 && cr < r2) || (cr > r1 && cr > r2) {
		cr = r1
	}
	if cc < 0 || (cc < c1 && cc < c2) || (cc > c1 && cc > c2) {
		cc = c1
	}

	m.cursorRow = cr
	m.cursorColumn = cc
	m.cursorRectIndex = len(m.selections)
	m.selections = append(m.selections, Rect{R1: r1, C1: c1, R2: r2, C2: c2})
	m.changed.Emit(struct{}{})
}

// Clear removes every selection and the cursor.
func (m *BasicSelectionModel) Clear() {
	if len(m.selections) == 0 {
		return
	}
	m.selections = m.selections[:0]
	m.cursorRow = -1
	m.cursorColumn = -1
	m.cursorRectIndex = -1
	m.changed.Emit(struct{}{})
}

func (m *BasicSelectionModel) Dispose() {
	if m.disconnect != nil {
		m.disconnect()
		m.disconnect = nil
	}
}

// onDataModelChanged clamps the selections to the new shape of the model.
// Cell changes and moves keep the selections as they are.
func (m *BasicSelectionModel) onDataModelChanged(args datamodel.ChangedArgs) {
	if len(m.selections) == 0 {
		return
	}
	switch args.Type {
	case datamodel.CellsChanged, datamodel.RowsMoved, datamodel.ColumnsMoved:
		return
	}

	lr := m.dataModel.RowCount(datamodel.Body) - 1
	lc := m.dataModel.ColumnCount(datamodel.Body) - 1
	if lr < 0 || lc < 0 {
		m.selections = m.selections[:0]
		m.cursorRow, m.cursorColumn, m.cursorRectIndex = -1, -1, -1
		m.changed.Emit(struct{}{})
		return
	}

	kept := m.selections[:0]
	for _, r := range m.selections {
		if (lr < r.R1 && lr < r.R2) || (lc < r.C1 && lc < r.C2) {
			continue
		}
		switch m.mode {
		case RowMode:
			r = Rect{R1: clamp(r.R1, 0, lr), C1: 0, R2: clamp(r.R2, 0, lr), C2: lc}
		case ColumnMode:
			r = Rect{R1: 0, C1: clamp(r.C1, 0, lc), R2: lr, C2: clamp(r.C2, 0, lc)}
		default:
			r = Rect{R1: clamp(r.R1, 0, lr), C1: clamp(r.C1, 0, lc), R2: clamp(r.R2, 0, lr), C2: clamp(r.C2, 0, lc)}
		}
		kept = append(kept, r)
	}
	m.selections = kept

	if len(m.selections) == 0 {
		m.cursorRow, m.cursorColumn, m.cursorRectIndex = -1, -1, -1
	} else {
		m.cursorRow = clamp(m.cursorRow, 0, lr)
		m.cursorColumn = clamp(m.cursorColumn, 0, lc)
		if m.cursorRectIndex >= len(m.selections) {
			m.cursorRectIndex = len(m.selections) - 1
		}
	}
	m.changed.Emit(struct{}{})
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

var _ Model = (*BasicSelectionModel)(nil)
