package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"dgrid/internal/datamodel"
	"dgrid/internal/grid"
	"dgrid/internal/render"
)

// maxDumpCellWidth truncates long values in --dump output.
const maxDumpCellWidth = 40

var (
	dumpHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	dumpKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	dumpCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func dumpText(v any) string {
	return runewidth.Truncate(render.FormatValue(v), maxDumpCellWidth, "…")
}

// headerText returns the bottom row of a header region, which names the
// columns.
func headerText(m datamodel.DataModel, region datamodel.Region, columns int) []string {
	rows := m.RowCount(datamodel.ColumnHeader)
	names := make([]string, columns)
	if rows == 0 {
		return names
	}
	for c := range names {
		names[c] = dumpText(m.Data(region, rows-1, c))
	}
	return names
}

// renderDump draws the model as a bordered table. Row header columns are
// included when headers shows them, and at most limit body rows are drawn
// when limit is positive. A positive width fits the table to that many
// cells.
func renderDump(m datamodel.DataModel, headers grid.HeaderVisibility, limit, width int) string {
	showRow := headers == grid.HeadersAll || headers == grid.HeadersRow
	showColumn := headers == grid.HeadersAll || headers == grid.HeadersColumn

	keys := 0
	if showRow {
		keys = m.ColumnCount(datamodel.RowHeader)
	}
	columns := m.ColumnCount(datamodel.Body)
	rows := m.RowCount(datamodel.Body)
	if limit > 0 {
		rows = min(rows, limit)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return dumpHeaderStyle
			case col < keys:
				return dumpKeyStyle
			default:
				return dumpCellStyle
			}
		})
	if width > 0 {
		t.Width(width)
	}
	if showColumn {
		t.Headers(append(headerText(m, datamodel.CornerHeader, keys), headerText(m, datamodel.ColumnHeader, columns)...)...)
	}
	for r := 0; r < rows; r++ {
		line := make([]string, 0, keys+columns)
		for c := 0; c < keys; c++ {
			line = append(line, dumpText(m.Data(datamodel.RowHeader, r, c)))
		}
		for c := 0; c < columns; c++ {
			line = append(line, dumpText(m.Data(datamodel.Body, r, c)))
		}
		t.Row(line...)
	}
	return t.Render()
}

// dumpSource writes the source's current model to w.
func dumpSource(w io.Writer, source *Source, headers grid.HeaderVisibility) error {
	total := source.Model.RowCount(datamodel.Body)
	if _, err := fmt.Fprintln(w, renderDump(source.Model, headers, 0, terminalWidth())); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %d rows\n", source.Name, total)
	return err
}
