package main

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"dgrid/internal/gfx"
	"dgrid/internal/grid"
	"dgrid/internal/selection"
)

// maxFlushes bounds the message loop passes run before each frame.
const maxFlushes = 10

type scrollAxis int

const (
	axisNone scrollAxis = iota
	axisVertical
	axisHorizontal
)

// GridView hosts a DataGrid in a tview layout. It sizes the grid to its
// inner rect, blits the grid surfaces to the screen, draws the scroll bars
// and translates tcell input into grid events.
type GridView struct {
	*tview.Box
	grid       *grid.DataGrid
	metrics    *grid.FixedMetrics
	controller inputTracker

	// pressed is set while the grid owns a left button press.
	pressed bool
	// drag state of a scroll bar thumb
	dragAxis scrollAxis
	dragGrab int

	onMouse   func(action tview.MouseAction)
	afterDraw func()
}

// inputTracker is the part of the editor controller the view drives.
type inputTracker interface {
	Editing() bool
	UpdatePosition()
}

// NewGridView creates the grid from opts. opts.Metrics is replaced with
// metrics the view keeps in sync with its rect.
func NewGridView(opts grid.Options) *GridView {
	metrics := &grid.FixedMetrics{}
	opts.Metrics = metrics
	gv := &GridView{
		Box:     tview.NewBox(),
		metrics: metrics,
	}
	gv.grid = grid.New(opts)
	return gv
}

// Grid returns the hosted grid.
func (gv *GridView) Grid() *grid.DataGrid { return gv.grid }

// SetEditorController records the controller whose inputs follow the grid
// on every frame.
func (gv *GridView) SetEditorController(c inputTracker) *GridView {
	gv.controller = c
	return gv
}

// SetMouseFunc installs a callback seeing every mouse action.
func (gv *GridView) SetMouseFunc(fn func(action tview.MouseAction)) *GridView {
	gv.onMouse = fn
	return gv
}

// SetAfterDrawFunc installs a callback run at the end of Draw.
func (gv *GridView) SetAfterDrawFunc(fn func()) *GridView {
	gv.afterDraw = fn
	return gv
}

// flush runs the grid's message loop until it is idle.
func (gv *GridView) flush() {
	loop := gv.grid.Loop()
	for i := 0; i < maxFlushes && loop.Pending(gv.grid) > 0; i++ {
		loop.Flush()
	}
}

// Draw implements tview.Primitive
func (gv *GridView) Draw(screen tcell.Screen) {
	gv.Box.DrawForSubclass(screen, gv)
	x, y, width, height := gv.GetInnerRect()

	gv.metrics.Width, gv.metrics.Height = width, height
	gv.metrics.OriginX, gv.metrics.OriginY = float64(x), float64(y)
	gv.grid.Fit()
	gv.flush()

	canvas, _ := gv.grid.Canvas().(*gfx.CellCanvas)
	overlay, _ := gv.grid.Overlay().(*gfx.CellCanvas)
	if canvas != nil {
		vw := min(gv.grid.ViewportWidth(), width, canvas.Width())
		vh := min(gv.grid.ViewportHeight(), height, canvas.Height())
		for cy := 0; cy < vh; cy++ {
			for cx := 0; cx < vw; cx++ {
				cell := canvas.Composite(overlay, cx, cy)
				if cell.Cont {
					continue
				}
				runes := []rune(cell.Content())
				style := tcell.StyleDefault.Foreground(tcellColor(cell.Fg)).Background(tcellColor(cell.Bg))
				screen.SetContent(x+cx, y+cy, runes[0], runes[1:], style)
			}
		}
	}

	gv.drawScrollBars(screen, x, y)

	if gv.controller != nil && gv.controller.Editing() {
		gv.controller.UpdatePosition()
	}
	if gv.afterDraw != nil {
		gv.afterDraw()
	}
}

func tcellColor(c color.NRGBA) tcell.Color {
	if c.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

var (
	scrollTrackStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(0xE8, 0xE8, 0xE8))
	scrollThumbStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(0x9A, 0x9A, 0x9A))
)

// drawScrollBars draws the visible bars along the right and bottom edges
// of the viewport.
func (gv *GridView) drawScrollBars(screen tcell.Screen, x, y int) {
	vw, vh := gv.grid.ViewportWidth(), gv.grid.ViewportHeight()
	size := gv.grid.ScrollBarSize()

	if bar := gv.grid.VScrollBar(); bar.Visible {
		offset, length := bar.Thumb(vh)
		for i := 0; i < vh; i++ {
			style := scrollTrackStyle
			if i >= offset && i < offset+length {
				style = scrollThumbStyle
			}
			for j := 0; j < size; j++ {
				screen.SetContent(x+vw+j, y+i, ' ', nil, style)
			}
		}
	}
	if bar := gv.grid.HScrollBar(); bar.Visible {
		offset, length := bar.Thumb(vw)
		for i := 0; i < vw; i++ {
			style := scrollTrackStyle
			if i >= offset && i < offset+length {
				style = scrollThumbStyle
			}
			for j := 0; j < size; j++ {
				screen.SetContent(x+i, y+vh+j, ' ', nil, style)
			}
		}
	}
	if gv.grid.VScrollBar().Visible && gv.grid.HScrollBar().Visible {
		for j := 0; j < size; j++ {
			for i := 0; i < size; i++ {
				screen.SetContent(x+vw+i, y+vh+j, ' ', nil, scrollTrackStyle)
			}
		}
	}
}

// translateKey converts a tcell key event. It reports false for keys the
// grid has no use for.
func translateKey(event *tcell.EventKey) (grid.KeyEvent, bool) {
	mod := event.Modifiers()
	ke := grid.KeyEvent{
		Shift: mod&tcell.ModShift != 0,
		Ctrl:  mod&tcell.ModCtrl != 0,
		Alt:   mod&tcell.ModAlt != 0,
		Meta:  mod&tcell.ModMeta != 0,
	}

	// Tab, Enter and Backspace share codes with Ctrl+I, Ctrl+M and Ctrl+H,
	// so the named keys are matched first.
	switch event.Key() {
	case tcell.KeyLeft:
		ke.Key = grid.KeyArrowLeft
	case tcell.KeyRight:
		ke.Key = grid.KeyArrowRight
	case tcell.KeyUp:
		ke.Key = grid.KeyArrowUp
	case tcell.KeyDown:
		ke.Key = grid.KeyArrowDown
	case tcell.KeyPgUp:
		ke.Key = grid.KeyPageUp
	case tcell.KeyPgDn:
		ke.Key = grid.KeyPageDown
	case tcell.KeyEscape:
		ke.Key = grid.KeyEscape
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ke.Key = grid.KeyDelete
	case tcell.KeyEnter:
		ke.Key = grid.KeyEnter
	case tcell.KeyTab:
		ke.Key = grid.KeyTab
	case tcell.KeyBacktab:
		ke.Key = grid.KeyTab
		ke.Shift = true
	case tcell.KeyRune:
		ke.Rune = event.Rune()
	default:
		k := event.Key()
		if k < tcell.KeyCtrlA || k > tcell.KeyCtrlZ {
			return ke, false
		}
		ke.Rune = rune('a' + (k - tcell.KeyCtrlA))
		ke.Ctrl = true
	}
	return ke, true
}

func mouseEvent(event *tcell.EventMouse) grid.MouseEvent {
	x, y := event.Position()
	mod := event.Modifiers()
	return grid.MouseEvent{
		ClientX: float64(x),
		ClientY: float64(y),
		Shift:   mod&tcell.ModShift != 0,
		Ctrl:    mod&tcell.ModCtrl != 0,
		Alt:     mod&tcell.ModAlt != 0,
		Meta:    mod&tcell.ModMeta != 0,
	}
}

// InputHandler returns the handler for keyboard events
func (gv *GridView) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return gv.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if ke, ok := translateKey(event); ok {
			gv.grid.HandleKeyDown(ke)
		}
	})
}

// MouseHandler returns the handler for mouse events
func (gv *GridView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return gv.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		x, y := event.Position()
		captured := gv.pressed || gv.dragAxis != axisNone
		if !captured && !gv.InRect(x, y) {
			if action == tview.MouseMove {
				gv.grid.HandleMouseLeave(mouseEvent(event))
			}
			return false, nil
		}
		if gv.onMouse != nil {
			gv.onMouse(action)
		}
		me := mouseEvent(event)

		switch action {
		case tview.MouseLeftDown:
			setFocus(gv)
			if gv.scrollBarDown(x, y) {
				return true, gv
			}
			gv.grid.HandleMouseDown(me)
			gv.pressed = true
			return true, gv
		case tview.MouseMove:
			if gv.dragAxis != axisNone {
				gv.scrollBarDrag(x, y)
				return true, gv
			}
			gv.grid.HandleMouseMove(me)
			if gv.pressed {
				return true, gv
			}
			return true, nil
		case tview.MouseLeftUp:
			if gv.dragAxis != axisNone {
				gv.dragAxis = axisNone
				return true, nil
			}
			if gv.pressed {
				gv.pressed = false
				gv.grid.HandleMouseUp(me)
			}
			return true, nil
		case tview.MouseLeftClick:
			return true, nil
		case tview.MouseLeftDoubleClick:
			gv.grid.HandleDoubleClick(me)
			return true, nil
		case tview.MouseRightClick:
			me.Button = 2
			return gv.grid.HandleContextMenu(me), nil
		case tview.MouseScrollUp:
			return gv.wheel(me, 0, -1), nil
		case tview.MouseScrollDown:
			return gv.wheel(me, 0, 1), nil
		case tview.MouseScrollLeft:
			return gv.wheel(me, -1, 0), nil
		case tview.MouseScrollRight:
			return gv.wheel(me, 1, 0), nil
		}
		return false, nil
	})
}

// wheel scrolls one line. Shift turns vertical wheel motion horizontal.
func (gv *GridView) wheel(me grid.MouseEvent, dx, dy float64) bool {
	if me.Shift && dx == 0 {
		dx, dy = dy, 0
	}
	gv.grid.HandleWheel(grid.WheelEvent{MouseEvent: me, DeltaX: dx, DeltaY: dy, DeltaMode: grid.DeltaLine})
	return true
}

// scrollBarDown handles a press on a scroll bar track. Pressing the thumb
// starts a drag; pressing the track pages toward the pointer.
func (gv *GridView) scrollBarDown(sx, sy int) bool {
	x, y, _, _ := gv.GetInnerRect()
	lx, ly := sx-x, sy-y
	vw, vh := gv.grid.ViewportWidth(), gv.grid.ViewportHeight()
	size := gv.grid.ScrollBarSize()

	if bar := gv.grid.VScrollBar(); bar.Visible && lx >= vw && lx < vw+size && ly < vh {
		offset, length := bar.Thumb(vh)
		switch {
		case ly < offset:
			gv.grid.ScrollByPage(selection.Up)
		case ly >= offset+length:
			gv.grid.ScrollByPage(selection.Down)
		default:
			gv.dragAxis, gv.dragGrab = axisVertical, ly-offset
		}
		return true
	}
	if bar := gv.grid.HScrollBar(); bar.Visible && ly >= vh && ly < vh+size && lx < vw {
		offset, length := bar.Thumb(vw)
		switch {
		case lx < offset:
			gv.grid.ScrollByPage(selection.Left)
		case lx >= offset+length:
			gv.grid.ScrollByPage(selection.Right)
		default:
			gv.dragAxis, gv.dragGrab = axisHorizontal, lx-offset
		}
		return true
	}
	return false
}

func (gv *GridView) scrollBarDrag(sx, sy int) {
	x, y, _, _ := gv.GetInnerRect()
	switch gv.dragAxis {
	case axisVertical:
		bar := gv.grid.VScrollBar()
		track := gv.grid.ViewportHeight()
		gv.grid.ScrollTo(gv.grid.ScrollX(), thumbValue(bar, track, sy-y-gv.dragGrab))
	case axisHorizontal:
		bar := gv.grid.HScrollBar()
		track := gv.grid.ViewportWidth()
		gv.grid.ScrollTo(thumbValue(bar, track, sx-x-gv.dragGrab), gv.grid.ScrollY())
	}
}

// thumbValue is the scroll value that puts the thumb at offset.
func thumbValue(bar grid.ScrollBar, track, offset int) int {
	_, length := bar.Thumb(track)
	free := track - length
	if free <= 0 {
		return 0
	}
	offset = max(0, min(offset, free))
	return (offset*bar.Maximum + free/2) / free
}
