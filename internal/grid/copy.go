package grid

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"dgrid/internal/datamodel"
	"dgrid/internal/render"
)

//go:generate mockgen -source=copy.go -destination=mock_clipboard_test.go -package=grid

// Clipboard receives copied text.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Dialogs asks the user simple questions on behalf of the grid.
type Dialogs interface {
	Confirm(message string) bool
	Alert(message string)
}

// silentDialogs agrees to everything and only logs alerts.
type silentDialogs struct{}

func (silentDialogs) Confirm(string) bool { return true }

func (silentDialogs) Alert(message string) { debugLog("alert: %s\n", message) }

// CopyToClipboard copies the single selection as text, one line per row
// with cells joined by the configured separator. Headers are included as
// the copy configuration says. Copies above the warning threshold need the
// user's confirmation.
func (g *DataGrid) CopyToClipboard() error {
	if g.disposed || g.dataModel == nil || g.selectionModel == nil {
		return nil
	}
	selections := g.selectionModel.Selections()
	if len(selections) == 0 {
		return nil
	}
	if len(selections) > 1 {
		g.dialogs.Alert("Cannot copy multiple grid selections.")
		return nil
	}

	m := g.dataModel
	br, bc := m.RowCount(datamodel.Body), m.ColumnCount(datamodel.Body)
	if br == 0 || bc == 0 {
		return nil
	}

	s := selections[0]
	s.R1, s.R2 = clamp(s.R1, 0, br-1), clamp(s.R2, 0, br-1)
	s.C1, s.C2 = clamp(s.C1, 0, bc-1), clamp(s.C2, 0, bc-1)
	s = s.Normalized()

	rhc := m.ColumnCount(datamodel.RowHeader)
	chr := m.RowCount(datamodel.ColumnHeader)
	switch g.copyConfig.Headers {
	case CopyHeadersNone, "":
		rhc, chr = 0, 0
	case CopyHeadersRow:
		chr = 0
	case CopyHeadersColumn:
		rhc = 0
	case CopyHeadersAll:
	default:
		panic("unreachable")
	}

	rows := s.R2 - s.R1 + 1 + chr
	columns := s.C2 - s.C1 + 1 + rhc
	if count := rows * columns; count > g.copyConfig.WarningThreshold {
		if !g.dialogs.Confirm(fmt.Sprintf("Copying %d cells may take a while. Continue?", count)) {
			return nil
		}
	}

	format := g.copyConfig.Format
	if format == nil {
		format = render.FormatGeneric("")
	}
	separator := g.copyConfig.Separator

	lines := make([]string, rows)
	cells := make([]string, columns)
	for j := 0; j < rows; j++ {
		for i := 0; i < columns; i++ {
			config := render.CellConfig{}
			switch {
			case j < chr && i < rhc:
				config.Region, config.Row, config.Column = datamodel.CornerHeader, j, i
			case j < chr:
				config.Region, config.Row, config.Column = datamodel.ColumnHeader, j, i-rhc+s.C1
			case i < rhc:
				config.Region, config.Row, config.Column = datamodel.RowHeader, j-chr+s.R1, i
			default:
				config.Region, config.Row, config.Column = datamodel.Body, j-chr+s.R1, i-rhc+s.C1
			}
			config.Value = m.Data(config.Region, config.Row, config.Column)
			config.Metadata = m.Metadata(config.Region, config.Row, config.Column)
			cells[i] = format(config)
		}
		lines[j] = strings.Join(cells, separator)
	}

	return g.clipboard.Copy(strings.Join(lines, "\n"))
}
