package grid

import (
	"fmt"
	"strings"
	"testing"

	"dgrid/internal/datamodel"
	"dgrid/internal/gfx"
	"dgrid/internal/msgloop"
	"dgrid/internal/render"
	"dgrid/internal/selection"
)

var cities = []string{"Oslo", "Lima", "Kyiv"}

var testSchema = datamodel.Schema{
	Fields: []datamodel.Field{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "string"},
		{Name: "city", Type: "string"},
		{Name: "note", Type: "string"},
	},
	PrimaryKey: "id",
}

func testRows(n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{
			"id":   float64(i + 1),
			"name": fmt.Sprintf("n%02d", i),
			"city": cities[i%len(cities)],
			"note": "",
		}
	}
	return rows
}

type testGrid struct {
	*DataGrid
	model   *datamodel.JSONModel
	metrics *FixedMetrics
	clock   *msgloop.MockClock
}

// newTestGrid lays out a 60x20 terminal grid over rows rows. The body is
// 36 cells wide and two cells per row high, behind a 6 cell row header and
// a 2 cell column header.
func newTestGrid(t *testing.T, rows int, opts ...func(*Options)) *testGrid {
	t.Helper()
	m, err := datamodel.NewJSONModel(testSchema, testRows(rows))
	if err != nil {
		t.Fatalf("NewJSONModel() error = %v", err)
	}
	r := render.NewTextRenderer()
	r.Padding = render.TerminalPadding
	style := TerminalStyle()
	sizes, minimums := TerminalSizes, TerminalMinimumSizes
	metrics := &FixedMetrics{Width: 60, Height: 20}
	clock := msgloop.NewMockClock()
	o := Options{
		Style:         &style,
		DefaultSizes:  &sizes,
		MinimumSizes:  &minimums,
		CellRenderers: render.NewRendererMap(nil, r),
		ScrollMargin:  1,
		CanvasStep:    16,
		ScrollBarSize: 1,
		Metrics:       metrics,
		Clock:         clock,
	}
	for _, opt := range opts {
		opt(&o)
	}
	g := New(o)
	g.SetDataModel(m)
	g.Fit()
	tg := &testGrid{DataGrid: g, model: m, metrics: metrics, clock: clock}
	tg.flush()
	return tg
}

// flush runs the message loop until it is idle.
func (g *testGrid) flush() {
	for i := 0; i < 10 && g.Loop().Pending(g.DataGrid) > 0; i++ {
		g.Loop().Flush()
	}
}

func (g *testGrid) canvasText() string {
	return g.Canvas().(*gfx.CellCanvas).String()
}

func (g *testGrid) selectCells(r1, c1, r2, c2 int) *selection.BasicSelectionModel {
	model, ok := g.SelectionModel().(*selection.BasicSelectionModel)
	if !ok {
		model = selection.New(selection.Options{DataModel: g.model})
		if err := g.SetSelectionModel(model); err != nil {
			panic(err)
		}
	}
	model.Select(selection.Args{R1: r1, C1: c1, R2: r2, C2: c2, CursorRow: r1, CursorColumn: c1, Clear: selection.ClearAll})
	return model
}

func TestLayout(t *testing.T) {
	g := newTestGrid(t, 50)

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"ViewportWidth", g.ViewportWidth(), 59},
		{"ViewportHeight", g.ViewportHeight(), 20},
		{"HeaderWidth", g.HeaderWidth(), 6},
		{"HeaderHeight", g.HeaderHeight(), 2},
		{"PageWidth", g.PageWidth(), 53},
		{"PageHeight", g.PageHeight(), 18},
		{"BodyWidth", g.BodyWidth(), 36},
		{"BodyHeight", g.BodyHeight(), 100},
		{"MaxScrollX", g.MaxScrollX(), 0},
		{"MaxScrollY", g.MaxScrollY(), 81},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if !g.VScrollBar().Visible || g.HScrollBar().Visible {
		t.Errorf("scroll bars visible = %v, %v, want true, false", g.VScrollBar().Visible, g.HScrollBar().Visible)
	}
}

func TestHitTest(t *testing.T) {
	g := newTestGrid(t, 50)

	tests := []struct {
		name   string
		x, y   float64
		region datamodel.Region
		row    int
		column int
	}{
		{"corner", 0, 0, datamodel.CornerHeader, 0, 0},
		{"column header", 8, 1, datamodel.ColumnHeader, 0, 0},
		{"row header", 0, 5, datamodel.RowHeader, 1, 0},
		{"body", 19, 4, datamodel.Body, 1, 1},
		{"right of the body", 50, 5, datamodel.Void, -1, -1},
		{"outside", -1, 3, datamodel.Void, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := g.HitTest(tt.x, tt.y)
			if hit.Region != tt.region || hit.Row != tt.row || hit.Column != tt.column {
				t.Errorf("HitTest(%v, %v) = %s (%d, %d), want %s (%d, %d)",
					tt.x, tt.y, hit.Region, hit.Row, hit.Column, tt.region, tt.row, tt.column)
			}
		})
	}

	hit := g.HitTest(19, 4)
	if hit.X != 1 || hit.Y != 0 || hit.Width != 12 || hit.Height != 2 {
		t.Errorf("HitTest(19, 4) cell = %d,%d %dx%d, want 1,0 12x2", hit.X, hit.Y, hit.Width, hit.Height)
	}
}

func TestScrollTo(t *testing.T) {
	g := newTestGrid(t, 50)

	g.ScrollTo(-4, 500)
	if g.ScrollX() != 0 || g.ScrollY() != 81 {
		t.Errorf("ScrollTo(-4, 500) = (%d, %d), want (0, 81)", g.ScrollX(), g.ScrollY())
	}
	g.flush()
	if hit := g.HitTest(0, 2); hit.Row != 40 {
		t.Errorf("HitTest() after scrolling row = %d, want 40", hit.Row)
	}

	g.ScrollTo(0, 0)
	g.flush()

	g.ScrollToRow(30)
	g.flush()
	// Row 30 spans [60, 61]; the page is 18 high and the margin is 1.
	if got := g.ScrollY(); got != 45 {
		t.Errorf("ScrollToRow(30) ScrollY() = %d, want 45", got)
	}
	g.ScrollToRow(30)
	if n := g.Loop().Pending(g.DataGrid); n != 0 {
		t.Errorf("ScrollToRow() of a visible row posted %d messages, want 0", n)
	}
}

func TestScrollRepaintsBody(t *testing.T) {
	g := newTestGrid(t, 50)
	if !strings.Contains(g.canvasText(), "n00") {
		t.Fatalf("canvas does not show row 0:\n%s", g.canvasText())
	}

	g.ScrollBy(0, 2)
	g.flush()
	text := g.canvasText()
	if strings.Contains(text, "n00") {
		t.Errorf("canvas still shows row 0 after scrolling:\n%s", text)
	}
	for _, want := range []string{"n01", "n09", "name", "city"} {
		if !strings.Contains(text, want) {
			t.Errorf("canvas does not show %q:\n%s", want, text)
		}
	}
}

func TestStretchLastColumn(t *testing.T) {
	g := newTestGrid(t, 50)
	g.SetStretchLastColumn(true)
	g.flush()

	want := 12 + g.PageWidth() - g.BodyWidth()
	if got := g.ColumnSize(datamodel.Body, 2); got != want {
		t.Errorf("ColumnSize(2) = %d, want %d", got, want)
	}
	if got := g.ColumnSize(datamodel.Body, 1); got != 12 {
		t.Errorf("ColumnSize(1) = %d, want 12", got)
	}
	if got := g.ColumnAt(datamodel.Body, 44); got != 2 {
		t.Errorf("ColumnAt(44) = %d, want 2", got)
	}
	if hit := g.HitTest(50, 5); hit.Region != datamodel.Body || hit.Column != 2 {
		t.Errorf("HitTest(50, 5) = %s column %d, want body column 2", hit.Region, hit.Column)
	}
}

func TestHeaderVisibility(t *testing.T) {
	g := newTestGrid(t, 5)
	tests := []struct {
		visibility HeaderVisibility
		w, h       int
	}{
		{HeadersAll, 6, 2},
		{HeadersRow, 6, 0},
		{HeadersColumn, 0, 2},
		{HeadersNone, 0, 0},
	}
	for _, tt := range tests {
		g.SetHeaderVisibility(tt.visibility)
		if g.HeaderWidth() != tt.w || g.HeaderHeight() != tt.h {
			t.Errorf("%s headers = %dx%d, want %dx%d", tt.visibility, g.HeaderWidth(), g.HeaderHeight(), tt.w, tt.h)
		}
	}
}

func TestSetSelectionModelMismatch(t *testing.T) {
	g := newTestGrid(t, 5)
	other, _ := datamodel.NewJSONModel(testSchema, testRows(1))
	if err := g.SetSelectionModel(selection.New(selection.Options{DataModel: other})); err != ErrModelMismatch {
		t.Errorf("SetSelectionModel() = %v, want ErrModelMismatch", err)
	}
	if g.SelectionModel() != nil {
		t.Errorf("SelectionModel() = %v, want nil", g.SelectionModel())
	}
}

func TestDispose(t *testing.T) {
	g := newTestGrid(t, 50)
	g.SetKeyHandler(NewBasicKeyHandler())
	g.SetMouseHandler(NewBasicMouseHandler(TerminalResizeInsets))
	g.ScrollTo(0, 10)

	g.Dispose()
	g.Dispose()
	if !g.IsDisposed() {
		t.Fatalf("IsDisposed() = false, want true")
	}
	if n := g.Loop().Pending(g.DataGrid); n != 0 {
		t.Errorf("Pending() = %d after Dispose(), want 0", n)
	}
	if g.DataModel() != nil || g.KeyHandler() != nil || g.MouseHandler() != nil {
		t.Errorf("Dispose() kept its model or handlers")
	}
	g.ScrollTo(0, 20)
	g.ResizeColumn(datamodel.Body, 0, 30)
	if n := g.Loop().Pending(g.DataGrid); n != 0 {
		t.Errorf("Pending() = %d after calls on a disposed grid, want 0", n)
	}
	if hit := g.HitTest(19, 4); hit.Region != datamodel.Void {
		t.Errorf("HitTest() on a disposed grid = %s, want void", hit.Region)
	}
}
