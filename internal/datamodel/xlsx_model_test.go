package datamodel

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]any{
		"A1": "name", "B1": "qty", "C1": "price", "D1": "",
		"A2": "bolt", "B2": 10, "C2": 0.5,
		"A3": "nut", "B3": 25, "C3": 2, "D3": "x",
	}
	for cell, v := range cells {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatalf("SetCellValue(%s) error = %v", cell, err)
		}
	}
	path := filepath.Join(t.TempDir(), "parts.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

func TestOpenXLSX(t *testing.T) {
	m, err := OpenXLSX(writeWorkbook(t), "")
	if err != nil {
		t.Fatalf("OpenXLSX() error = %v", err)
	}
	defer m.Close()

	if m.Sheet() != "Sheet1" {
		t.Errorf("Sheet() = %q, want Sheet1", m.Sheet())
	}
	if got := m.RowCount(Body); got != 2 {
		t.Errorf("RowCount() = %d, want 2", got)
	}
	if got := m.ColumnCount(Body); got != 4 {
		t.Errorf("ColumnCount() = %d, want 4", got)
	}

	tests := []struct {
		name   string
		region Region
		row    int
		column int
		want   any
	}{
		{"header", ColumnHeader, 0, 1, "qty"},
		{"blank header uses letter", ColumnHeader, 0, 3, "D"},
		{"string cell", Body, 0, 0, "bolt"},
		{"integer cell", Body, 1, 1, int64(25)},
		{"number cell", Body, 0, 2, 0.5},
		{"widened number", Body, 1, 2, float64(2)},
		{"empty cell", Body, 0, 3, nil},
		{"row header", RowHeader, 0, 0, int64(2)},
		{"corner", CornerHeader, 0, 0, "Sheet1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Data(tt.region, tt.row, tt.column); got != tt.want {
				t.Errorf("Data() = %#v, want %#v", got, tt.want)
			}
		})
	}

	kinds := []string{"string", "integer", "number", "string"}
	for i, want := range kinds {
		if got := m.Metadata(Body, 0, i).Type; got != want {
			t.Errorf("Metadata(%d).Type = %q, want %q", i, got, want)
		}
	}
}

func TestXLSXModelSetDataAndSave(t *testing.T) {
	path := writeWorkbook(t)
	m, err := OpenXLSX(path, "Sheet1")
	if err != nil {
		t.Fatalf("OpenXLSX() error = %v", err)
	}
	var changes []ChangedArgs
	m.Changed().Connect(func(args ChangedArgs) { changes = append(changes, args) })

	if err := m.SetData(Body, 1, 0, "washer"); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if !m.Dirty() {
		t.Error("Dirty() = false, want true")
	}
	if err := m.SetData(RowHeader, 0, 0, 1); err != ErrReadOnly {
		t.Errorf("SetData(RowHeader) error = %v, want ErrReadOnly", err)
	}
	if len(changes) != 1 || changes[0].Row != 1 || changes[0].Column != 0 {
		t.Errorf("changes = %+v, want one change at (1, 0)", changes)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	m.Close()

	reopened, err := OpenXLSX(path, "Sheet1")
	if err != nil {
		t.Fatalf("OpenXLSX() error = %v", err)
	}
	defer reopened.Close()
	if got := reopened.Data(Body, 1, 0); got != "washer" {
		t.Errorf("saved cell = %v, want washer", got)
	}
}

func TestOpenXLSXMissingSheet(t *testing.T) {
	if _, err := OpenXLSX(writeWorkbook(t), "Nope"); err == nil {
		t.Error("OpenXLSX() error = nil, want error")
	}
}
