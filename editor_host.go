package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"dgrid/internal/editor"
	"dgrid/internal/selection"
)

// maxListHeight bounds the rows a select input takes below its cell.
const maxListHeight = 8

var (
	invalidInputColor = tcell.ColorDarkRed
	inputColor        = tcell.ColorDarkBlue
)

// EditorHost opens the editor inputs as pages stacked over the grid.
// Inputs are positioned in grid coordinates, offset by the inner rect of
// the grid view.
type EditorHost struct {
	pages    *tview.Pages
	view     *GridView
	setFocus func(p tview.Primitive)
	onError  func(err error)

	seq     int
	current *hostInput
	notices map[*editor.Notification]string
}

func NewEditorHost(pages *tview.Pages, view *GridView, setFocus func(p tview.Primitive)) *EditorHost {
	return &EditorHost{
		pages:    pages,
		view:     view,
		setFocus: setFocus,
		notices:  make(map[*editor.Notification]string),
	}
}

// SetErrorFunc sets the callback for commits that fail for reasons other
// than invalid input.
func (h *EditorHost) SetErrorFunc(fn func(err error)) *EditorHost {
	h.onError = fn
	return h
}

// Input returns the open input, or nil.
func (h *EditorHost) Input() editor.Input {
	if h.current == nil {
		return nil
	}
	return h.current
}

func (h *EditorHost) nextPage(prefix string) string {
	h.seq++
	return fmt.Sprintf("%s-%d", prefix, h.seq)
}

func (h *EditorHost) origin() (int, int) {
	x, y, _, _ := h.view.GetInnerRect()
	return x, y
}

func (h *EditorHost) OpenInput(opts editor.InputSpec, ed editor.CellEditor) editor.Input {
	if h.current != nil {
		h.current.Close()
	}
	in := &hostInput{host: h, opts: opts, page: h.nextPage("input")}
	capture := h.captureFor(in, ed)
	switch opts.Kind {
	case editor.InputCheckbox:
		in.checkbox = tview.NewCheckbox().SetChecked(opts.Checked)
		in.checkbox.SetFieldBackgroundColor(inputColor)
		in.checkbox.SetInputCapture(capture)
		in.primitive = in.checkbox
	case editor.InputSelect:
		in.list = newSelectList(opts)
		in.list.SetInputCapture(capture)
		in.primitive = in.list
	default:
		in.field = newTextField(opts)
		in.field.SetInputCapture(capture)
		in.primitive = in.field
	}

	h.current = in
	h.pages.AddPage(in.page, in.primitive, false, true)
	in.SetRect(opts.X, opts.Y, opts.Width, opts.Height)
	h.setFocus(in.primitive)
	return in
}

// captureFor binds the commit and cancel keys of an input to ed.
func (h *EditorHost) captureFor(in *hostInput, ed editor.CellEditor) func(*tcell.EventKey) *tcell.EventKey {
	commit := func(move selection.Direction) {
		err := ed.Commit(move)
		var verr *editor.ValidationError
		if err != nil && !errors.As(err, &verr) && h.onError != nil {
			h.onError(err)
		}
	}
	return func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			if event.Modifiers()&tcell.ModShift != 0 {
				commit(selection.Up)
			} else {
				commit(selection.Down)
			}
			return nil
		case tcell.KeyTab:
			commit(selection.Right)
			return nil
		case tcell.KeyBacktab:
			commit(selection.Left)
			return nil
		case tcell.KeyEscape:
			ed.Cancel()
			return nil
		case tcell.KeyRune:
			if in.list != nil && in.opts.Multiple && event.Rune() == ' ' {
				in.toggle(in.list.GetCurrentItem())
				return nil
			}
		}
		return event
	}
}

func newTextField(opts editor.InputSpec) *tview.InputField {
	field := tview.NewInputField().
		SetText(opts.Text).
		SetFieldBackgroundColor(inputColor)
	switch opts.Charset {
	case editor.CharsetFloat:
		field.SetAcceptanceFunc(tview.InputFieldFloat)
	case editor.CharsetInteger:
		field.SetAcceptanceFunc(tview.InputFieldInteger)
	}
	switch opts.Kind {
	case editor.InputDate:
		field.SetPlaceholder("YYYY-MM-DD")
	case editor.InputCombo:
		options := opts.Options
		field.SetAutocompleteFunc(func(text string) []string {
			if text == "" {
				return nil
			}
			var entries []string
			for _, o := range options {
				if strings.HasPrefix(strings.ToLower(o), strings.ToLower(text)) {
					entries = append(entries, o)
				}
			}
			return entries
		})
	}
	return field
}

func newSelectList(opts editor.InputSpec) *tview.List {
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetBackgroundColor(inputColor)
	for i, o := range opts.Options {
		list.AddItem(selectLabel(o, opts.Multiple, slices.Contains(opts.Selected, i)), "", 0, nil)
	}
	if len(opts.Selected) > 0 {
		list.SetCurrentItem(opts.Selected[0])
	}
	return list
}

func selectLabel(option string, multiple, selected bool) string {
	if !multiple {
		return option
	}
	if selected {
		return "[x] " + option
	}
	return "[ ] " + option
}

func (h *EditorHost) ShowNotification(n *editor.Notification) {
	page := h.nextPage("notice")
	h.notices[n] = page

	text := tview.NewTextView().
		SetText(n.Message).
		SetTextColor(tcell.ColorWhite)
	text.SetBackgroundColor(tcell.ColorDarkRed)

	ox, oy := h.origin()
	width := max(n.Width, runewidth.StringWidth(n.Message))
	text.SetRect(ox+n.X, oy+n.Y, width, 1)
	h.pages.AddPage(page, text, false, true)
	if h.current != nil {
		h.setFocus(h.current.primitive)
	}
}

func (h *EditorHost) HideNotification(n *editor.Notification) {
	page, ok := h.notices[n]
	if !ok {
		return
	}
	delete(h.notices, n)
	h.pages.RemovePage(page)
}

// hostInput is one of the tview widgets behind editor.Input.
type hostInput struct {
	host      *EditorHost
	opts      editor.InputSpec
	page      string
	primitive tview.Primitive

	field    *tview.InputField
	checkbox *tview.Checkbox
	list     *tview.List
	// toggled holds the chosen indices of a multiple select.
	toggled []int
	closed  bool
}

func (in *hostInput) Text() string {
	if in.field == nil {
		return ""
	}
	return in.field.GetText()
}

func (in *hostInput) Checked() bool {
	return in.checkbox != nil && in.checkbox.IsChecked()
}

func (in *hostInput) Selected() []int {
	if in.list == nil {
		return nil
	}
	if in.opts.Multiple {
		if in.toggled == nil {
			return slices.Clone(in.opts.Selected)
		}
		return slices.Sorted(slices.Values(in.toggled))
	}
	if in.list.GetItemCount() == 0 {
		return nil
	}
	return []int{in.list.GetCurrentItem()}
}

func (in *hostInput) toggle(index int) {
	if index < 0 || index >= len(in.opts.Options) {
		return
	}
	if in.toggled == nil {
		in.toggled = slices.Clone(in.opts.Selected)
		if in.toggled == nil {
			in.toggled = []int{}
		}
	}
	selected := !slices.Contains(in.toggled, index)
	if selected {
		in.toggled = append(in.toggled, index)
	} else {
		in.toggled = slices.DeleteFunc(in.toggled, func(i int) bool { return i == index })
	}
	in.list.SetItemText(index, selectLabel(in.opts.Options[index], true, selected), "")
}

// SetRect places the input over the cell at (x, y) in grid coordinates.
// Select lists start at the cell and grow downward.
func (in *hostInput) SetRect(x, y, width, height int) {
	ox, oy := in.host.origin()
	if in.list != nil {
		height = min(max(len(in.opts.Options), 1), maxListHeight)
		width = max(width, in.listWidth())
	}
	in.primitive.SetRect(ox+x, oy+y, width, height)
}

func (in *hostInput) listWidth() int {
	w := 0
	for _, o := range in.opts.Options {
		w = max(w, runewidth.StringWidth(selectLabel(o, in.opts.Multiple, false)))
	}
	return w
}

func (in *hostInput) SetVisible(visible bool) {
	if in.closed {
		return
	}
	if visible {
		in.host.pages.ShowPage(in.page)
	} else {
		in.host.pages.HidePage(in.page)
	}
}

func (in *hostInput) SetInvalid(invalid bool) {
	color := inputColor
	if invalid {
		color = invalidInputColor
	}
	switch {
	case in.field != nil:
		in.field.SetFieldBackgroundColor(color)
	case in.checkbox != nil:
		in.checkbox.SetFieldBackgroundColor(color)
	case in.list != nil:
		in.list.SetBackgroundColor(color)
	}
}

func (in *hostInput) Close() {
	if in.closed {
		return
	}
	in.closed = true
	h := in.host
	h.pages.RemovePage(in.page)
	if h.current == in {
		h.current = nil
		h.setFocus(h.view)
	}
}
