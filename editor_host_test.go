package main

import (
	"errors"
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"dgrid/internal/datamodel"
	"dgrid/internal/editor"
	"dgrid/internal/selection"
)

type recordingEditor struct {
	commits   []selection.Direction
	cancelled bool
	err       error
}

func (e *recordingEditor) Edit(editor.Cell, *editor.Options) {}
func (e *recordingEditor) UpdatePosition()                   {}
func (e *recordingEditor) Cancel()                           { e.cancelled = true }

func (e *recordingEditor) Commit(move selection.Direction) error {
	e.commits = append(e.commits, move)
	return e.err
}

func newTestHost(t *testing.T) (*EditorHost, *tview.Pages, *GridView) {
	t.Helper()
	gv, _, _ := newTestView(t, 3)
	pages := tview.NewPages()
	host := NewEditorHost(pages, gv, func(tview.Primitive) {})
	return host, pages, gv
}

func press(p tview.Primitive, key tcell.Key, r rune, mod tcell.ModMask) {
	p.InputHandler()(tcell.NewEventKey(key, r, mod), func(tview.Primitive) {})
}

func TestEditorHostKeys(t *testing.T) {
	tests := []struct {
		name   string
		key    tcell.Key
		mod    tcell.ModMask
		commit selection.Direction
		cancel bool
	}{
		{"enter", tcell.KeyEnter, tcell.ModNone, selection.Down, false},
		{"shift enter", tcell.KeyEnter, tcell.ModShift, selection.Up, false},
		{"tab", tcell.KeyTab, tcell.ModNone, selection.Right, false},
		{"backtab", tcell.KeyBacktab, tcell.ModNone, selection.Left, false},
		{"escape", tcell.KeyEscape, tcell.ModNone, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, _, _ := newTestHost(t)
			ed := &recordingEditor{}
			host.OpenInput(editor.InputSpec{Kind: editor.InputText, Width: 5, Height: 1}, ed)
			press(host.current.primitive, tt.key, 0, tt.mod)

			if tt.cancel {
				if !ed.cancelled || len(ed.commits) != 0 {
					t.Errorf("cancelled = %v, commits = %v, want a cancel only", ed.cancelled, ed.commits)
				}
				return
			}
			if !slices.Equal(ed.commits, []selection.Direction{tt.commit}) {
				t.Errorf("commits = %v, want [%v]", ed.commits, tt.commit)
			}
		})
	}
}

func TestEditorHostCommitErrors(t *testing.T) {
	host, _, _ := newTestHost(t)
	var reported []error
	host.SetErrorFunc(func(err error) { reported = append(reported, err) })

	invalid := &recordingEditor{err: &editor.ValidationError{Message: "bad"}}
	host.OpenInput(editor.InputSpec{Kind: editor.InputText}, invalid)
	press(host.current.primitive, tcell.KeyEnter, 0, tcell.ModNone)
	if len(reported) != 0 {
		t.Errorf("validation error reported: %v", reported)
	}

	failing := &recordingEditor{err: errors.New("disk full")}
	host.OpenInput(editor.InputSpec{Kind: editor.InputText}, failing)
	press(host.current.primitive, tcell.KeyEnter, 0, tcell.ModNone)
	if len(reported) != 1 {
		t.Errorf("reported %d errors, want 1", len(reported))
	}
}

func TestEditorHostCommitWritesCell(t *testing.T) {
	gv, sel, screen := newTestView(t, 3)
	g := gv.Grid()
	g.SetEditingEnabled(true)
	click(gv, 8, 2)
	gv.Draw(screen)

	pages := tview.NewPages()
	var focused tview.Primitive
	host := NewEditorHost(pages, gv, func(p tview.Primitive) { focused = p })
	controller := editor.NewController(host)
	g.SetEditorController(controller)
	gv.SetEditorController(controller)

	if !controller.Edit(editor.Cell{Grid: g, Row: 0, Column: 0}, nil) {
		t.Fatalf("Edit() = false, want true")
	}
	in := host.current
	if in == nil || in.field == nil {
		t.Fatalf("no text input opened")
	}
	if got := in.Text(); got != "person1" {
		t.Errorf("Text() = %q, want %q", got, "person1")
	}
	if focused != in.primitive {
		t.Errorf("input was not focused")
	}

	in.field.SetText("alice")
	press(in.primitive, tcell.KeyEnter, 0, tcell.ModNone)

	if got := g.DataModel().Data(datamodel.Body, 0, 0); got != "alice" {
		t.Errorf("Data(0, 0) = %v, want alice", got)
	}
	if controller.Editing() {
		t.Errorf("Editing() = true after commit")
	}
	if pages.HasPage(in.page) {
		t.Errorf("input page %q still open", in.page)
	}
	if focused != gv {
		t.Errorf("focus did not return to the grid")
	}
	if got := sel.CursorRow(); got != 1 {
		t.Errorf("CursorRow() = %d, want 1", got)
	}
}

func TestEditorHostMultipleSelect(t *testing.T) {
	host, _, _ := newTestHost(t)
	in := host.OpenInput(editor.InputSpec{
		Kind:     editor.InputSelect,
		Options:  []string{"red", "green", "blue"},
		Selected: []int{2},
		Multiple: true,
	}, &recordingEditor{}).(*hostInput)

	if got := in.Selected(); !slices.Equal(got, []int{2}) {
		t.Errorf("Selected() = %v, want [2]", got)
	}
	press(in.primitive, tcell.KeyRune, ' ', tcell.ModNone)
	if got := in.Selected(); len(got) != 0 {
		t.Errorf("Selected() after toggling off = %v, want []", got)
	}
	in.list.SetCurrentItem(0)
	press(in.primitive, tcell.KeyRune, ' ', tcell.ModNone)
	if got := in.Selected(); !slices.Equal(got, []int{0}) {
		t.Errorf("Selected() = %v, want [0]", got)
	}
	if main, _ := in.list.GetItemText(0); main != "[x] red" {
		t.Errorf("item text = %q, want %q", main, "[x] red")
	}
}

func TestEditorHostNotifications(t *testing.T) {
	host, pages, _ := newTestHost(t)
	n := &editor.Notification{Message: "Invalid input!", X: 2, Y: 3, Width: 5}
	host.ShowNotification(n)
	if got := pages.GetPageCount(); got != 1 {
		t.Fatalf("GetPageCount() = %d, want 1", got)
	}
	host.HideNotification(n)
	host.HideNotification(n)
	if got := pages.GetPageCount(); got != 0 {
		t.Errorf("GetPageCount() after hide = %d, want 0", got)
	}
}
