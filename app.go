package main

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"dgrid/internal/datamodel"
	"dgrid/internal/editor"
	"dgrid/internal/grid"
	"dgrid/internal/msgloop"
	"dgrid/internal/selection"
)

const (
	pagePicker  = "picker"
	pageMain    = "main"
	pageConfirm = "confirm"

	// canvasStep is the growth increment of the grid surfaces, in cells.
	canvasStep = 128
)

// App is the terminal front end: a grid over the open source with a title
// bar, a status bar and a command palette.
type App struct {
	app        *tview.Application
	pages      *tview.Pages
	view       *GridView
	grid       *grid.DataGrid
	selection  *selection.BasicSelectionModel
	controller *editController
	host       *EditorHost
	dialogs    *confirmDialogs

	// references to key components
	picker         *Picker
	titleBar       *tview.TextView
	statusBar      *tview.TextView
	commandPalette *tview.InputField
	layout         *tview.Flex

	paletteMode PaletteMode
	// dirty is set when a file source has unsaved edits.
	dirty      bool
	disconnect func()

	ctx      context.Context
	config   *Config
	settings *Settings
	source   *Source
}

// editController reports the start of every edit to the app.
type editController struct {
	*editor.Controller
	onEdit func(cell editor.Cell)
}

func (c *editController) Edit(cell editor.Cell, opts *editor.Options) bool {
	if !c.Controller.Edit(cell, opts) {
		return false
	}
	if c.onEdit != nil {
		c.onEdit(cell)
	}
	return true
}

// confirmDialogs asks grid questions in a modal. The grid only asks before
// large copies, so Confirm answers false and repeats the copy once the user
// agrees.
type confirmDialogs struct {
	app      *App
	approved bool
}

func (d *confirmDialogs) Confirm(message string) bool {
	if d.approved {
		d.approved = false
		return true
	}
	d.app.showConfirm(message, "Copy", func() {
		d.approved = true
		d.app.copySelection()
	})
	return false
}

func (d *confirmDialogs) Alert(message string) {
	d.app.SetStatusMessage(tview.Escape(message))
}

// mouseActionString converts tview.MouseAction to a human-readable string
func mouseActionString(action tview.MouseAction) string {
	switch action {
	case tview.MouseLeftDown:
		return "LeftDown"
	case tview.MouseLeftUp:
		return "LeftUp"
	case tview.MouseScrollUp:
		return "ScrollUp"
	case tview.MouseScrollDown:
		return "ScrollDown"
	case tview.MouseScrollLeft:
		return "ScrollLeft"
	case tview.MouseScrollRight:
		return "ScrollRight"
	case tview.MouseLeftClick:
		return "LeftClick"
	case tview.MouseRightClick:
		return "RightClick"
	case tview.MouseMiddleClick:
		return "MiddleClick"
	case tview.MouseMove:
		return "Move"
	case tview.MouseLeftDoubleClick:
		return "LeftDoubleClick"
	default:
		return fmt.Sprintf("Unknown(%d)", action)
	}
}

// newApp builds the interface over an open source. It does not start the
// event loop.
func newApp(ctx context.Context, config *Config, settings *Settings, source *Source) (*App, error) {
	modeName, headersName := config.Mode, config.Headers
	if modeName == "" {
		modeName = string(selection.CellMode)
	}
	if headersName == "" {
		headersName = string(grid.HeadersAll)
	}
	mode, err := parseSelectionMode(modeName)
	if err != nil {
		return nil, err
	}
	headers, err := parseHeaderVisibility(headersName)
	if err != nil {
		return nil, err
	}

	tview.Styles.ContrastBackgroundColor = tcell.ColorBlack
	a := &App{
		app:         tview.NewApplication().EnableMouse(true),
		pages:       tview.NewPages(),
		paletteMode: PaletteModeDefault,
		ctx:         ctx,
		config:      config,
		settings:    settings,
		source:      source,
	}
	a.dialogs = &confirmDialogs{app: a}

	style := settings.Style()
	sizes := settings.DefaultSizes()
	minimums := grid.TerminalMinimumSizes
	copyConfig := settings.CopyConfig()
	a.view = NewGridView(grid.Options{
		Style:             &style,
		DefaultSizes:      &sizes,
		MinimumSizes:      &minimums,
		HeaderVisibility:  headers,
		CellRenderers:     settings.CellRenderers(),
		CopyConfig:        &copyConfig,
		StretchLastRow:    config.StretchLastRow,
		StretchLastColumn: config.StretchLastColumn,
		ScrollMargin:      1,
		ScrollBarSize:     1,
		CanvasStep:        canvasStep,
		Loop:              msgloop.New(func() { go a.app.Draw() }),
		Clock:             msgloop.NewClock(clock.New(), func(fn func()) { a.app.QueueUpdateDraw(fn) }),
		Dialogs:           a.dialogs,
		OnError:           a.SetStatusErrorWithSentry,
	})
	a.grid = a.view.Grid()
	a.grid.SetKeyHandler(grid.NewBasicKeyHandler())
	a.grid.SetMouseHandler(grid.NewBasicMouseHandler(grid.TerminalResizeInsets))

	a.host = NewEditorHost(a.pages, a.view, func(p tview.Primitive) { a.app.SetFocus(p) }).
		SetErrorFunc(a.SetStatusErrorWithSentry)
	a.controller = &editController{Controller: editor.NewController(a.host), onEdit: a.onEdit}
	a.controller.OnError = func(err error) {
		if breadcrumbs != nil {
			breadcrumbs.RecordEdit(a.selection.CursorRow(), a.selection.CursorColumn(), "failed")
		}
		a.SetStatusErrorWithSentry(err)
	}
	a.grid.SetEditorController(a.controller)
	a.view.SetEditorController(a.controller)
	a.view.SetMouseFunc(func(action tview.MouseAction) {
		if breadcrumbs != nil && action != tview.MouseMove {
			breadcrumbs.RecordMouse(mouseActionString(action))
		}
	})

	a.picker = NewPicker(a.selectFromPicker, a.closePicker)
	a.setupTitleBar()
	a.setupStatusBar()
	a.setupCommandPalette()
	a.setupKeyBindings()

	a.bindModel(mode)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.titleBar, 1, 0, false).
		AddItem(a.view, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false).
		AddItem(a.commandPalette, 1, 0, false)
	a.pages.AddPage(pageMain, a.layout, true, true)

	pickerOverlay := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(a.picker, pickerRows+1, 0, true).
		AddItem(nil, 0, 1, false)
	a.pages.AddPage(pagePicker, pickerOverlay, true, false)
	a.app.SetRoot(a.pages, true).SetFocus(a.view)
	return a, nil
}

// run starts the event loop and blocks until the app stops.
func (a *App) run() error {
	if err := a.app.Run(); err != nil {
		CaptureError(err)
		return err
	}
	return nil
}

// bindModel shows the source's current model with a fresh selection.
func (a *App) bindModel(mode selection.Mode) {
	m := a.source.Model
	if a.selection != nil && a.selection.DataModel() == m {
		return
	}
	if a.disconnect != nil {
		a.disconnect()
		a.disconnect = nil
	}
	old := a.selection
	a.grid.SetDataModel(m)

	sel := selection.New(selection.Options{DataModel: m, SelectionMode: mode})
	if err := a.grid.SetSelectionModel(sel); err != nil {
		a.SetStatusErrorWithSentry(err)
		return
	}
	if old != nil {
		old.Dispose()
	}
	a.selection = sel
	if m.RowCount(datamodel.Body) > 0 && m.ColumnCount(datamodel.Body) > 0 {
		sel.Select(selection.Args{Clear: selection.ClearAll})
	}

	stopSelection := sel.Changed().Connect(func(struct{}) { a.updateStatusWithCellContent() })
	stopModel := m.Changed().Connect(func(args datamodel.ChangedArgs) {
		if args.Type == datamodel.CellsChanged && !a.source.Type.IsDatabase() {
			a.dirty = true
			a.updateTitle()
		}
	})
	a.disconnect = func() {
		stopSelection()
		stopModel()
	}
	a.dirty = false
	a.grid.SetEditingEnabled(!a.config.ReadOnly && a.source.Editable())
	a.updateTitle()
	a.updateStatusWithCellContent()
}

func (a *App) rebind() {
	mode := selection.CellMode
	if a.selection != nil {
		mode = a.selection.SelectionMode()
	}
	a.bindModel(mode)
}

func (a *App) onEdit(cell editor.Cell) {
	if breadcrumbs != nil {
		breadcrumbs.RecordEdit(cell.Row, cell.Column, "start")
	}
	a.SetStatusMessage(editStatus(cell.Grid.DataModel().Metadata(datamodel.Body, cell.Row, cell.Column)))
}

func (a *App) setupTitleBar() {
	a.titleBar = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	a.titleBar.SetBackgroundColor(tcell.ColorDarkSlateGray)
	a.titleBar.SetTextColor(tcell.ColorWhite)
	a.titleBar.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action == tview.MouseLeftClick {
			a.openPicker()
			return action, nil
		}
		return action, event
	})
}

func (a *App) updateTitle() {
	if a.titleBar == nil {
		return
	}
	title := fmt.Sprintf(" %s %s ▾", sourceIcons[a.source.Type], tview.Escape(a.source.Name))
	if a.dirty {
		title += " [yellow]●[white]"
	}
	if a.config.ReadOnly || !a.source.Editable() {
		title += " (read-only)"
	}
	a.titleBar.SetText(title)
}

func (a *App) setupStatusBar() {
	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWrap(false)

	a.statusBar.SetBackgroundColor(tcell.ColorLightGray)
	a.statusBar.SetTextColor(tcell.ColorBlack)
	a.statusBar.SetText("Ready")
}

func (a *App) setupCommandPalette() {
	a.commandPalette = tview.NewInputField().
		SetLabel("").
		SetFieldBackgroundColor(tcell.ColorBlack).
		SetFieldTextColor(tcell.ColorWhite)
	a.commandPalette.SetBackgroundColor(tcell.ColorBlack)
	a.setPaletteMode(PaletteModeDefault, false)

	a.commandPalette.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if isCtrl(event, 'q') {
			a.app.Stop()
			return nil
		}
		switch event.Key() {
		case tcell.KeyEnter:
			text := a.commandPalette.GetText()
			mode := a.paletteMode
			a.setPaletteMode(PaletteModeDefault, false)
			a.app.SetFocus(a.view)
			switch mode {
			case PaletteModeCommand:
				a.executeCommand(text)
			case PaletteModeSQL:
				a.executeSQL(text)
			case PaletteModeGoto:
				a.executeGoto(text)
			}
			return nil
		case tcell.KeyEscape:
			a.setPaletteMode(PaletteModeDefault, false)
			a.app.SetFocus(a.view)
			return nil
		}
		return event
	})
}

func (a *App) setPaletteMode(mode PaletteMode, focus bool) {
	if breadcrumbs != nil && mode != a.paletteMode {
		breadcrumbs.RecordGrid("palette", mode.String())
	}
	if mode == PaletteModeSQL && !a.source.Type.IsDatabase() {
		a.SetStatusError(fmt.Sprintf("%s sources cannot run queries", a.source.Type))
		return
	}
	a.paletteMode = mode
	a.commandPalette.SetLabel(mode.Glyph())
	a.commandPalette.SetText("")
	a.commandPalette.SetPlaceholder(mode.placeholder())
	a.commandPalette.SetPlaceholderStyle(a.commandPalette.GetPlaceholderStyle().Italic(true))
	if focus {
		a.app.SetFocus(a.commandPalette)
	}
}

func (a *App) openPicker() {
	names, err := a.source.Names(a.ctx)
	if err != nil {
		a.SetStatusErrorWithSentry(err)
		return
	}
	if len(names) == 0 {
		a.SetStatusMessage(fmt.Sprintf("%s sources have a single table", a.source.Type))
		return
	}
	a.controller.Cancel()
	a.picker.SetItems(names)
	a.pages.ShowPage(pagePicker)
	a.app.SetFocus(a.picker)
}

func (a *App) closePicker() {
	a.pages.HidePage(pagePicker)
	a.app.SetFocus(a.view)
}

// selectFromPicker handles selecting a table or sheet from the picker
func (a *App) selectFromPicker(name string) {
	a.closePicker()
	a.switchTo(name)
}

func (a *App) switchTo(name string) {
	if a.dirty {
		a.SetStatusError("Unsaved changes, save with Ctrl+S first")
		return
	}
	if breadcrumbs != nil {
		breadcrumbs.RecordData("switch " + name)
	}
	if err := a.source.Switch(a.ctx, name); err != nil {
		a.SetStatusError(err.Error())
		return
	}
	a.rebind()
	a.SetStatusMessage(fmt.Sprintf("%s: %d rows", tview.Escape(name), a.grid.DataModel().RowCount(datamodel.Body)))
}

// reload reads the source again, keeping the cursor where it was.
func (a *App) reload() {
	if breadcrumbs != nil {
		breadcrumbs.RecordData("reload")
	}
	a.controller.Cancel()
	row, column := a.selection.CursorRow(), a.selection.CursorColumn()
	before := a.source.Model
	if err := a.source.Reload(a.ctx); err != nil {
		a.SetStatusErrorWithSentry(fmt.Errorf("reload %s: %w", a.source.Name, err))
		return
	}
	if a.source.Model != before {
		a.rebind()
	}
	a.dirty = false
	a.updateTitle()
	if row >= 0 && column >= 0 {
		a.gotoCell(row, column)
	}
	a.SetStatusMessage("Reloaded " + tview.Escape(a.source.Name))
}

// reloadFromDisk reloads after the file changed on disk unless there are
// edits it would discard.
func (a *App) reloadFromDisk() {
	if a.dirty {
		a.SetStatusError(tview.Escape(a.source.Path) + " changed on disk, Ctrl+R to reload")
		return
	}
	a.reload()
}

func (a *App) save() {
	if breadcrumbs != nil {
		breadcrumbs.RecordData("save")
	}
	if a.source.Type.IsDatabase() {
		a.SetStatusMessage("Database edits are written as they are made")
		return
	}
	if err := a.source.Save(); err != nil {
		a.SetStatusErrorWithSentry(fmt.Errorf("save %s: %w", a.source.Path, err))
		return
	}
	a.dirty = false
	a.updateTitle()
	a.SetStatusMessage("Saved " + tview.Escape(a.source.Path))
}

func (a *App) copySelection() {
	if err := a.grid.CopyToClipboard(); err != nil {
		a.SetStatusErrorWithSentry(err)
	}
}

// showConfirm shows a modal with an accept and a cancel button.
func (a *App) showConfirm(message, accept string, onAccept func()) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{accept, "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			a.pages.RemovePage(pageConfirm)
			a.app.SetFocus(a.view)
			if label == accept {
				onAccept()
			}
		})
	a.pages.AddPage(pageConfirm, modal, true, true)
	a.app.SetFocus(modal)
}
