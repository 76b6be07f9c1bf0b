package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dgrid/internal/datamodel"
	"dgrid/internal/grid"
	"dgrid/internal/selection"
)

// PaletteMode represents the current mode of the command palette
type PaletteMode int

const (
	PaletteModeDefault PaletteMode = iota
	PaletteModeCommand
	PaletteModeSQL
	PaletteModeGoto
)

func (m PaletteMode) Glyph() string {
	switch m {
	case PaletteModeDefault:
		return "⌃ "
	case PaletteModeSQL:
		return "` "
	case PaletteModeGoto:
		return "↪ "
	default:
		return "> "
	}
}

func (m PaletteMode) String() string {
	switch m {
	case PaletteModeCommand:
		return "Command"
	case PaletteModeSQL:
		return "SQL"
	case PaletteModeGoto:
		return "Goto"
	default:
		return "Default"
	}
}

func (m PaletteMode) placeholder() string {
	switch m {
	case PaletteModeCommand:
		return "Command… (Esc to exit)"
	case PaletteModeSQL:
		return "SELECT statement… (Esc to exit)"
	case PaletteModeGoto:
		return "Row [column]… (Esc to exit)"
	default:
		return "Ctrl+… P: Command · `: SQL · G: Goto · O: Tables · S: Save · Q: Quit"
	}
}

const helpText = "Commands: quit, reload, save, table <name>, mode cell|row|column, headers all|row|column|none, fit [padding], stretch row|column, copy, goto <row> [column]"

var errUsage = errors.New("usage")

// command is a parsed command palette line.
type command struct {
	name string
	args []string

	// parsed arguments
	mode    selection.Mode
	headers grid.HeaderVisibility
	padding int
	row     int
	column  int
}

// parseCommand parses a command palette line. Aliases are resolved to the
// full command name.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errUsage
	}
	c := command{name: fields[0], args: fields[1:]}
	switch c.name {
	case "q", "quit":
		c.name = "quit"
	case "h", "help":
		c.name = "help"
	case "r", "reload":
		c.name = "reload"
	case "w", "save":
		c.name = "save"
	case "copy":
	case "t", "table", "sheet":
		c.name = "table"
		if len(c.args) == 0 {
			return c, fmt.Errorf("%w: table <name>", errUsage)
		}
	case "mode":
		if len(c.args) != 1 {
			return c, fmt.Errorf("%w: mode cell|row|column", errUsage)
		}
		m, err := parseSelectionMode(c.args[0])
		if err != nil {
			return c, err
		}
		c.mode = m
	case "headers":
		if len(c.args) != 1 {
			return c, fmt.Errorf("%w: headers all|row|column|none", errUsage)
		}
		h, err := parseHeaderVisibility(c.args[0])
		if err != nil {
			return c, err
		}
		c.headers = h
	case "fit":
		c.padding = 2
		if len(c.args) > 0 {
			p, err := strconv.Atoi(c.args[0])
			if err != nil || p < 0 {
				return c, fmt.Errorf("%w: fit [padding]", errUsage)
			}
			c.padding = p
		}
	case "stretch":
		if len(c.args) != 1 || (c.args[0] != "row" && c.args[0] != "column") {
			return c, fmt.Errorf("%w: stretch row|column", errUsage)
		}
	case "g", "goto":
		c.name = "goto"
		row, column, err := parseGoto(strings.Join(c.args, " "))
		if err != nil {
			return c, err
		}
		c.row, c.column = row, column
	default:
		return c, fmt.Errorf("unknown command: %s", c.name)
	}
	return c, nil
}

// parseGoto reads a 1-based "row [column]" target, separated by spaces or a
// comma, and returns 0-based indices.
func parseGoto(text string) (row, column int, err error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("%w: goto <row> [column]", errUsage)
	}
	idx := make([]int, 2)
	idx[1] = 1
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("invalid position %q", f)
		}
		idx[i] = n
	}
	return idx[0] - 1, idx[1] - 1, nil
}

func parseSelectionMode(v string) (selection.Mode, error) {
	switch m := selection.Mode(v); m {
	case selection.CellMode, selection.RowMode, selection.ColumnMode:
		return m, nil
	}
	return "", fmt.Errorf("invalid selection mode %q: want cell, row or column", v)
}

func parseHeaderVisibility(v string) (grid.HeaderVisibility, error) {
	switch h := grid.HeaderVisibility(v); h {
	case grid.HeadersAll, grid.HeadersRow, grid.HeadersColumn, grid.HeadersNone:
		return h, nil
	}
	return "", fmt.Errorf("invalid headers %q: want all, row, column or none", v)
}

// Command execution
func (a *App) executeCommand(line string) {
	c, err := parseCommand(line)
	if errors.Is(err, errUsage) && c.name == "" {
		return
	}
	if err != nil {
		a.SetStatusError(err.Error())
		return
	}
	if breadcrumbs != nil {
		breadcrumbs.RecordGrid("command", c.name)
	}

	switch c.name {
	case "quit":
		a.app.Stop()
	case "help":
		a.SetStatusMessage(helpText)
	case "reload":
		a.reload()
	case "save":
		a.save()
	case "copy":
		if err := a.grid.CopyToClipboard(); err != nil {
			a.SetStatusErrorWithSentry(err)
		}
	case "table":
		a.switchTo(strings.Join(c.args, " "))
	case "mode":
		a.selection.SetSelectionMode(c.mode)
		a.SetStatusMessage("Selection mode: " + string(c.mode))
	case "headers":
		a.grid.SetHeaderVisibility(c.headers)
	case "fit":
		a.grid.FitColumnNames(grid.FitAll, c.padding, -1)
	case "stretch":
		if c.args[0] == "row" {
			a.grid.SetStretchLastRow(!a.grid.StretchLastRow())
		} else {
			a.grid.SetStretchLastColumn(!a.grid.StretchLastColumn())
		}
	case "goto":
		a.gotoCell(c.row, c.column)
	}
}

// executeGoto moves the cursor to a 1-based "row [column]" position.
func (a *App) executeGoto(text string) {
	row, column, err := parseGoto(text)
	if err != nil {
		a.SetStatusError(err.Error())
		return
	}
	a.gotoCell(row, column)
}

func (a *App) gotoCell(row, column int) {
	m := a.grid.DataModel()
	if m == nil {
		return
	}
	rows, columns := m.RowCount(datamodel.Body), m.ColumnCount(datamodel.Body)
	if rows == 0 || columns == 0 {
		a.SetStatusError("Nothing to go to")
		return
	}
	row, column = min(row, rows-1), min(column, columns-1)
	a.selection.Select(selection.Args{
		R1: row, C1: column, R2: row, C2: column,
		CursorRow: row, CursorColumn: column,
		Clear: selection.ClearAll,
	})
	a.grid.ScrollToCell(row, column)
}

// executeSQL shows the result of a query in place of the current table.
func (a *App) executeSQL(query string) {
	if strings.TrimSpace(query) == "" {
		return
	}
	if breadcrumbs != nil {
		breadcrumbs.RecordData("query")
	}
	if err := a.source.Query(a.ctx, query); err != nil {
		a.SetStatusError(err.Error())
		return
	}
	a.rebind()
	a.SetStatusMessage(fmt.Sprintf("%d rows", a.grid.DataModel().RowCount(datamodel.Body)))
}
