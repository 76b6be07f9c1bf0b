package datamodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXModel shows one sheet of a workbook. The first sheet row is the
// column header and the row header holds spreadsheet row numbers.
type XLSXModel struct {
	Base

	file   *excelize.File
	path   string
	sheet  string
	header []string
	rows   [][]any
	kinds  []string
	width  int
	dirty  bool
}

// OpenXLSX opens path and loads sheet, or the active sheet when sheet is
// empty.
func OpenXLSX(path, sheet string) (*XLSXModel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	m := &XLSXModel{file: f, path: path, sheet: sheet}
	if err := m.load(); err != nil {
		f.Close()
		return nil, err
	}
	return m, nil
}

func (m *XLSXModel) load() error {
	raw, err := m.file.GetRows(m.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", m.sheet, err)
	}

	width := 0
	for _, r := range raw {
		width = max(width, len(r))
	}
	m.width = width
	m.header = make([]string, width)
	m.kinds = make([]string, width)
	m.rows = nil

	if len(raw) == 0 {
		return nil
	}
	for i := 0; i < width; i++ {
		if i < len(raw[0]) && raw[0][i] != "" {
			m.header[i] = raw[0][i]
		} else {
			m.header[i], _ = excelize.ColumnNumberToName(i + 1)
		}
	}

	body := raw[1:]
	for col := 0; col < width; col++ {
		m.kinds[col] = inferKind(body, col)
	}
	m.rows = make([][]any, len(body))
	for r, cells := range body {
		row := make([]any, width)
		for c := 0; c < width; c++ {
			if c < len(cells) {
				row[c] = parseCell(cells[c], m.kinds[c])
			}
		}
		m.rows[r] = row
	}
	return nil
}

// inferKind picks the narrowest type every non-empty cell of col parses as.
func inferKind(rows [][]string, col int) string {
	kind := ""
	for _, r := range rows {
		if col >= len(r) || r[col] == "" {
			continue
		}
		v := r[col]
		var k string
		switch {
		case isInt(v):
			k = "integer"
		case isFloat(v):
			k = "number"
		case strings.EqualFold(v, "true") || strings.EqualFold(v, "false"):
			k = "boolean"
		default:
			return "string"
		}
		switch {
		case kind == "" || kind == k:
			kind = k
		case kind == "integer" && k == "number", kind == "number" && k == "integer":
			kind = "number"
		default:
			return "string"
		}
	}
	if kind == "" {
		return "string"
	}
	return kind
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func parseCell(s, kind string) any {
	if s == "" {
		return nil
	}
	switch kind {
	case "integer":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "boolean":
		return strings.EqualFold(s, "true")
	}
	return s
}

// Sheet returns the name of the loaded sheet.
func (m *XLSXModel) Sheet() string { return m.sheet }

// Sheets returns the names of every sheet in the workbook.
func (m *XLSXModel) Sheets() []string { return m.file.GetSheetList() }

// Dirty reports whether there are unsaved writes.
func (m *XLSXModel) Dirty() bool { return m.dirty }

func (m *XLSXModel) RowCount(region Region) int {
	if region == Body {
		return len(m.rows)
	}
	return 1
}

func (m *XLSXModel) ColumnCount(region Region) int {
	if region == Body {
		return m.width
	}
	return 1
}

func (m *XLSXModel) Data(region Region, row, column int) any {
	switch region {
	case Body:
		if row < 0 || row >= len(m.rows) || column < 0 || column >= m.width {
			return nil
		}
		return m.rows[row][column]
	case RowHeader:
		return int64(row + 2)
	case ColumnHeader:
		if column < 0 || column >= m.width {
			return nil
		}
		return m.header[column]
	case CornerHeader:
		return m.sheet
	}
	return nil
}

func (m *XLSXModel) Metadata(region Region, row, column int) Metadata {
	if region == RowHeader || region == CornerHeader {
		return Metadata{Type: "integer"}
	}
	if region == ColumnHeader || column < 0 || column >= m.width {
		return Metadata{Type: "string"}
	}
	return Metadata{Name: m.header[column], Type: m.kinds[column]}
}

// SetData writes a body or column header cell into the workbook. The file
// on disk changes only on Save.
func (m *XLSXModel) SetData(region Region, row, column int, value any) error {
	var sheetRow int
	switch region {
	case Body:
		if row < 0 || row >= len(m.rows) {
			return fmt.Errorf("row %d out of range", row)
		}
		sheetRow = row + 2
	case ColumnHeader:
		sheetRow = 1
	default:
		return ErrReadOnly
	}
	if column < 0 || column >= m.width {
		return fmt.Errorf("column %d out of range", column)
	}

	cell, err := excelize.CoordinatesToCellName(column+1, sheetRow)
	if err != nil {
		return err
	}
	if err := m.file.SetCellValue(m.sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", cell, err)
	}
	m.dirty = true

	if region == Body {
		m.rows[row][column] = value
	} else {
		m.header[column] = fmt.Sprint(value)
	}
	m.EmitChanged(ChangedArgs{
		Type:       CellsChanged,
		Region:     region,
		Row:        row,
		Column:     column,
		RowSpan:    1,
		ColumnSpan: 1,
	})
	return nil
}

// Save writes the workbook back to its file.
func (m *XLSXModel) Save() error {
	if err := m.file.SaveAs(m.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	m.dirty = false
	return nil
}

// Reload discards unsaved writes and reads the file again.
func (m *XLSXModel) Reload() error {
	f, err := excelize.OpenFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	m.file.Close()
	m.file = f
	m.dirty = false
	if err := m.load(); err != nil {
		return err
	}
	m.EmitChanged(ChangedArgs{Type: ModelReset})
	return nil
}

// Close releases the workbook.
func (m *XLSXModel) Close() error {
	return m.file.Close()
}

var _ MutableDataModel = (*XLSXModel)(nil)
