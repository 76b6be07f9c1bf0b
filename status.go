package main

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"dgrid/internal/datamodel"
	"dgrid/internal/render"
)

// Status bar API methods
func (a *App) SetStatusMessage(message string) {
	if a.statusBar != nil {
		a.statusBar.SetText(message)
	}
}

func (a *App) SetStatusError(message string) {
	if a.statusBar != nil {
		a.statusBar.SetText("[red]ERROR: " + tview.Escape(message) + "[black]")
	}
}

// SetStatusErrorWithSentry sets an error status and sends it to Sentry
func (a *App) SetStatusErrorWithSentry(err error) {
	a.SetStatusError(err.Error())
	CaptureError(err)
}

func (a *App) SetStatusLog(message string) {
	if a.statusBar != nil {
		a.statusBar.SetText("[blue]LOG: " + tview.Escape(message) + "[black]")
	}
}

// updateStatusWithCellContent shows the full text of the cursor cell. It
// leaves the status alone while a cell is being edited.
func (a *App) updateStatusWithCellContent() {
	if a.controller == nil || a.controller.Editing() || a.selection == nil || a.selection.IsEmpty() {
		return
	}
	a.SetStatusMessage(cellStatus(a.grid.DataModel(), a.selection.CursorRow(), a.selection.CursorColumn()))
}

// cellStatus formats the type and value of a body cell for the status bar.
func cellStatus(m datamodel.DataModel, row, column int) string {
	if m == nil || row < 0 || row >= m.RowCount(datamodel.Body) || column < 0 || column >= m.ColumnCount(datamodel.Body) {
		return ""
	}
	md := m.Metadata(datamodel.Body, row, column)
	text := tview.Escape(render.FormatValue(m.Data(datamodel.Body, row, column)))
	if md.Type != "" {
		return fmt.Sprintf("[black]%s[darkgreen] %s", md.Type, text)
	}
	return "[darkgreen]" + text
}

// editStatus describes what a cell accepts while it is edited.
func editStatus(md datamodel.Metadata) string {
	var parts []string
	c := md.Constraint
	switch {
	case c != nil && len(c.Enum) > 0:
		parts = append(parts, "One of: "+formatEnumValues(c.Enum))
	case typeHint(md.Type) != "":
		parts = append(parts, typeHint(md.Type))
	}
	if c != nil {
		if c.Required {
			parts = append(parts, "required")
		}
		if c.Minimum != nil {
			parts = append(parts, fmt.Sprintf("min %v", *c.Minimum))
		}
		if c.Maximum != nil {
			parts = append(parts, fmt.Sprintf("max %v", *c.Maximum))
		}
		if c.MaxLength != nil {
			parts = append(parts, fmt.Sprintf("at most %d characters", *c.MaxLength))
		}
	}
	parts = append(parts, "Enter to save · Esc to cancel")
	return strings.Join(parts, " · ")
}

func typeHint(dataType string) string {
	switch dataType {
	case "boolean":
		return "Boolean (space toggles)"
	case "integer":
		return "Integer"
	case "number":
		return "Decimal number"
	case "date":
		return "Date (YYYY-MM-DD)"
	case "string":
		return "Text"
	}
	return ""
}

// formatEnumValues lists the first few enum values for the status bar.
func formatEnumValues(values []any) string {
	const (
		maxDisplay = 5
		maxLength  = 60
	)
	var parts []string
	total := 0
	for i, v := range values {
		if i >= maxDisplay {
			parts = append(parts, "...")
			break
		}
		s := render.FormatValue(v)
		if len(s) > 20 {
			s = s[:17] + "..."
		}
		quoted := "'" + tview.Escape(s) + "'"
		if total+len(quoted)+2 > maxLength && i > 0 {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, quoted)
		total += len(quoted) + 2
	}
	return strings.Join(parts, ", ")
}
