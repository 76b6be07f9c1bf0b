package grid

import (
	"dgrid/internal/datamodel"
	"dgrid/internal/selection"
)

// MoveCursor moves the cursor one cell. A lone single-cell selection moves
// with the cursor, wrapping to the next or previous column or row at the
// edges of the body. Otherwise the cursor steps within the selections.
func (g *DataGrid) MoveCursor(direction selection.Direction) {
	model := g.selectionModel
	if g.disposed || g.dataModel == nil || model == nil || model.IsEmpty() {
		return
	}

	if selections := model.Selections(); len(selections) == 1 {
		cur, _ := model.CurrentSelection()
		if cur.R1 == cur.R2 && cur.C1 == cur.C2 {
			g.moveSingleCell(model, cur, direction)
			return
		}
	}
	model.MoveCursorWithinSelections(direction)
}

func (g *DataGrid) moveSingleCell(model selection.Model, cur selection.Rect, direction selection.Direction) {
	var dr, dc int
	switch direction {
	case selection.Down:
		dr = 1
	case selection.Up:
		dr = -1
	case selection.Right:
		dc = 1
	case selection.Left:
		dc = -1
	}

	rows := g.dataModel.RowCount(datamodel.Body)
	columns := g.dataModel.ColumnCount(datamodel.Body)
	row, column := cur.R1+dr, cur.C1+dc

	if row >= rows {
		row = 0
		column++
	} else if row == -1 {
		row = rows - 1
		column--
	}
	if column >= columns {
		column = 0
		row++
		if row >= rows {
			row = 0
		}
	} else if column == -1 {
		column = columns - 1
		row--
		if row == -1 {
			row = rows - 1
		}
	}

	model.Select(selection.Args{
		R1: row, C1: column, R2: row, C2: column,
		CursorRow: row, CursorColumn: column,
		Clear: selection.ClearAll,
	})
}
