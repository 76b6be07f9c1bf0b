package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"dgrid/internal/datamodel"
)

// isCtrl reports whether event is Ctrl plus the letter r. Terminals send
// either the control character or the letter with ModCtrl.
func isCtrl(event *tcell.EventKey, r rune) bool {
	if event.Modifiers()&tcell.ModCtrl == 0 {
		return false
	}
	if event.Key() == tcell.KeyRune {
		return event.Rune() == r
	}
	return event.Key() == tcell.Key(r-'a')+tcell.KeyCtrlA
}

// modifierString spells out the modifiers of a key for breadcrumbs.
func modifierString(mod tcell.ModMask) string {
	var b strings.Builder
	if mod&tcell.ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if mod&tcell.ModShift != 0 {
		b.WriteString("Shift+")
	}
	if mod&tcell.ModAlt != 0 {
		b.WriteString("Alt+")
	}
	return b.String()
}

func (a *App) setupKeyBindings() {
	a.view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		key := event.Key()
		mod := event.Modifiers()

		if breadcrumbs != nil {
			keyStr := fmt.Sprintf("%v", key)
			if key == tcell.KeyRune {
				keyStr = string(event.Rune())
			}
			breadcrumbs.RecordKeyboard(keyStr, modifierString(mod))
		}

		switch {
		case isCtrl(event, 'q'):
			a.app.Stop()
			return nil
		case isCtrl(event, 's'):
			a.save()
			return nil
		case isCtrl(event, 'r'):
			a.reload()
			return nil
		case isCtrl(event, 'o'):
			a.openPicker()
			return nil
		case isCtrl(event, 'p'):
			a.setPaletteMode(PaletteModeCommand, true)
			return nil
		case isCtrl(event, 'g'):
			a.setPaletteMode(PaletteModeGoto, true)
			return nil
		// Ctrl+` sends NUL or '`' depending on terminal
		case key == tcell.KeyNUL, key == tcell.KeyRune && event.Rune() == '`' && mod&tcell.ModCtrl != 0:
			a.setPaletteMode(PaletteModeSQL, true)
			return nil
		}

		if mod&tcell.ModAlt != 0 {
			switch key {
			case tcell.KeyLeft:
				a.resizeCursorColumn(-1)
				return nil
			case tcell.KeyRight:
				a.resizeCursorColumn(1)
				return nil
			case tcell.KeyUp:
				a.resizeCursorRow(-1)
				return nil
			case tcell.KeyDown:
				a.resizeCursorRow(1)
				return nil
			}
		}
		return event
	})
}

// resizeCursorColumn grows or shrinks the cursor column by delta cells.
func (a *App) resizeCursorColumn(delta int) {
	if a.selection == nil || a.selection.IsEmpty() {
		return
	}
	column := a.selection.CursorColumn()
	size := a.grid.ColumnSize(datamodel.Body, column) + delta
	a.grid.ResizeColumn(datamodel.Body, column, size)
	if breadcrumbs != nil {
		breadcrumbs.RecordGrid("resize", fmt.Sprintf("column %d to %d", column, size))
	}
}

// resizeCursorRow grows or shrinks the cursor row by delta cells.
func (a *App) resizeCursorRow(delta int) {
	if a.selection == nil || a.selection.IsEmpty() {
		return
	}
	row := a.selection.CursorRow()
	size := a.grid.RowSize(datamodel.Body, row) + delta
	a.grid.ResizeRow(datamodel.Body, row, size)
	if breadcrumbs != nil {
		breadcrumbs.RecordGrid("resize", fmt.Sprintf("row %d to %d", row, size))
	}
}
