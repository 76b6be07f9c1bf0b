// Package selection tracks the selected cells of a grid and its cursor.
package selection

import (
	"dgrid/internal/datamodel"
	"dgrid/internal/signal"
)

// Mode restricts the shape of new selections.
type Mode string

const (
	CellMode   Mode = "cell"
	RowMode    Mode = "row"
	ColumnMode Mode = "column"
)

// ClearMode says which existing selections Select discards first.
type ClearMode string

const (
	ClearAll     ClearMode = "all"
	ClearCurrent ClearMode = "current"
	ClearNone    ClearMode = "none"
)

// Direction is a cursor movement.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
	None  Direction = "none"
)

// Rect is a selected block of body cells. R1 may exceed R2 and C1 may
// exceed C2.
type Rect struct {
	R1, C1, R2, C2 int
}

// Contains reports whether the cell lies in r.
func (r Rect) Contains(row, column int) bool {
	return containsIndex(r.R1, r.R2, row) && containsIndex(r.C1, r.C2, column)
}

// Normalized returns r with R1 <= R2 and C1 <= C2.
func (r Rect) Normalized() Rect {
	return Rect{R1: min(r.R1, r.R2), C1: min(r.C1, r.C2), R2: max(r.R1, r.R2), C2: max(r.C1, r.C2)}
}

func containsIndex(a, b, i int) bool {
	if a <= b {
		return i >= a && i <= b
	}
	return i >= b && i <= a
}

// Args describe a new selection.
type Args struct {
	R1, C1, R2, C2 int

	// CursorRow and CursorColumn place the cursor. A position outside the
	// new selection moves the cursor to its first corner.
	CursorRow    int
	CursorColumn int

	Clear ClearMode
}

// Model is the selection state of a grid.
type Model interface {
	DataModel() datamodel.DataModel
	// Changed is emitted after every change to the selections or cursor.
	Changed() *signal.Signal[struct{}]

	SelectionMode() Mode
	// SetSelectionMode changes the mode and clears the selections.
	SetSelectionMode(mode Mode)

	IsEmpty() bool
	CursorRow() int
	CursorColumn() int
	CursorRectIndex() int
	MoveCursorWithinSelections(direction Direction)

	// CurrentSelection returns the most recent selection.
	CurrentSelection() (Rect, bool)
	Selections() []Rect

	IsRowSelected(index int) bool
	IsColumnSelected(index int) bool
	IsCellSelected(row, column int) bool

	Select(args Args)
	Clear()

	// Dispose disconnects the model from its data model.
	Dispose()
}
