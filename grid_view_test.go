package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"dgrid/internal/datamodel"
	"dgrid/internal/grid"
	"dgrid/internal/selection"
)

func testPeople(n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{"id": i + 1, "name": fmt.Sprintf("person%d", i+1)}
	}
	return rows
}

var testSchema = datamodel.Schema{
	Fields: []datamodel.Field{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "string"},
	},
	PrimaryKey: "id",
}

func newTestView(t *testing.T, rows int) (*GridView, *selection.BasicSelectionModel, tcell.SimulationScreen) {
	t.Helper()
	m, err := datamodel.NewJSONModel(testSchema, testPeople(rows))
	if err != nil {
		t.Fatalf("NewJSONModel() error = %v", err)
	}
	settings := &Settings{}
	style := settings.Style()
	sizes, minimums := settings.DefaultSizes(), grid.TerminalMinimumSizes
	gv := NewGridView(grid.Options{
		Style:         &style,
		DefaultSizes:  &sizes,
		MinimumSizes:  &minimums,
		CellRenderers: settings.CellRenderers(),
		ScrollBarSize: 1,
		ScrollMargin:  1,
	})
	g := gv.Grid()
	g.SetDataModel(m)
	sel := selection.New(selection.Options{DataModel: m})
	if err := g.SetSelectionModel(sel); err != nil {
		t.Fatalf("SetSelectionModel() error = %v", err)
	}
	g.SetKeyHandler(grid.NewBasicKeyHandler())
	g.SetMouseHandler(grid.NewBasicMouseHandler(grid.TerminalResizeInsets))

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 12)
	gv.SetRect(0, 0, 40, 12)
	gv.Draw(screen)
	screen.Show()
	return gv, sel, screen
}

func screenText(screen tcell.SimulationScreen) string {
	cells, width, height := screen.GetContents()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.WriteString(string(cells[y*width+x].Runes))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func click(gv *GridView, x, y int) {
	handler := gv.MouseHandler()
	noFocus := func(tview.Primitive) {}
	handler(tview.MouseLeftDown, tcell.NewEventMouse(x, y, tcell.Button1, 0), noFocus)
	handler(tview.MouseLeftUp, tcell.NewEventMouse(x, y, tcell.ButtonNone, 0), noFocus)
}

func TestGridViewDraw(t *testing.T) {
	gv, _, screen := newTestView(t, 3)
	text := screenText(screen)
	for _, want := range []string{"name", "person1", "person3"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen does not show %q:\n%s", want, text)
		}
	}
	if gv.Grid().VScrollBar().Visible {
		t.Errorf("vertical scroll bar visible for three rows")
	}
}

func TestGridViewClickSelects(t *testing.T) {
	gv, sel, screen := newTestView(t, 3)
	sizes := grid.TerminalSizes

	tests := []struct {
		name   string
		x, y   int
		row    int
		column int
	}{
		{"first cell", sizes.RowHeaderWidth + 2, sizes.ColumnHeaderHeight, 0, 0},
		{"third row", sizes.RowHeaderWidth + 2, sizes.ColumnHeaderHeight + 2*sizes.RowHeight, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			click(gv, tt.x, tt.y)
			gv.Draw(screen)
			if sel.CursorRow() != tt.row || sel.CursorColumn() != tt.column {
				t.Errorf("cursor = (%d, %d), want (%d, %d)", sel.CursorRow(), sel.CursorColumn(), tt.row, tt.column)
			}
		})
	}
}

func TestGridViewWheelScrolls(t *testing.T) {
	gv, _, screen := newTestView(t, 30)
	g := gv.Grid()
	if !g.VScrollBar().Visible {
		t.Fatalf("vertical scroll bar hidden for thirty rows")
	}

	handler := gv.MouseHandler()
	handler(tview.MouseScrollDown, tcell.NewEventMouse(10, 5, tcell.WheelDown, 0), func(tview.Primitive) {})
	gv.Draw(screen)
	if got, want := g.ScrollY(), grid.TerminalSizes.RowHeight; got != want {
		t.Errorf("ScrollY() = %d, want %d", got, want)
	}

	// Outside the view the wheel is not consumed.
	if consumed, _ := handler(tview.MouseScrollDown, tcell.NewEventMouse(100, 100, tcell.WheelDown, 0), func(tview.Primitive) {}); consumed {
		t.Errorf("wheel outside the view was consumed")
	}
}

func TestGridViewScrollBarPages(t *testing.T) {
	gv, _, screen := newTestView(t, 30)
	g := gv.Grid()
	x := g.ViewportWidth()
	y := g.ViewportHeight() - 1

	click(gv, x, y)
	gv.Draw(screen)
	if got := g.ScrollY(); got != g.PageHeight() {
		t.Errorf("ScrollY() after a track click = %d, want a page (%d)", got, g.PageHeight())
	}
}

func TestThumbValue(t *testing.T) {
	bar := grid.ScrollBar{Visible: true, Maximum: 100, Page: 100}
	tests := []struct {
		offset int
		want   int
	}{
		{-3, 0},
		{0, 0},
		{5, 100},
		{20, 100},
	}
	for _, tt := range tests {
		if got := thumbValue(bar, 10, tt.offset); got != tt.want {
			t.Errorf("thumbValue(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name  string
		event *tcell.EventKey
		want  grid.KeyEvent
		ok    bool
	}{
		{"arrow", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), grid.KeyEvent{Key: grid.KeyArrowDown}, true},
		{"shift arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), grid.KeyEvent{Key: grid.KeyArrowLeft, Shift: true}, true},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), grid.KeyEvent{Key: grid.KeyTab}, true},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), grid.KeyEvent{Key: grid.KeyTab, Shift: true}, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), grid.KeyEvent{Key: grid.KeyEnter}, true},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), grid.KeyEvent{Key: grid.KeyDelete}, true},
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), grid.KeyEvent{Rune: 'x'}, true},
		{"ctrl+c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), grid.KeyEvent{Rune: 'c', Ctrl: true}, true},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), grid.KeyEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.event)
			if ok != tt.ok {
				t.Fatalf("translateKey() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("translateKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
