package grid

// The host forwards raw input through these methods. They track the mouse
// button state and route events to the installed handlers.

// HandleKeyDown routes a key press. Keys are swallowed while the mouse is
// down; Escape abandons the press.
func (g *DataGrid) HandleKeyDown(event KeyEvent) bool {
	if g.disposed {
		return false
	}
	if g.mousedown {
		if event.Key == KeyEscape {
			g.releaseMouse()
		}
		return true
	}
	if g.keyHandler == nil {
		return false
	}
	return g.keyHandler.OnKeyDown(g, event)
}

func (g *DataGrid) HandleMouseDown(event MouseEvent) {
	if g.disposed || event.Button != 0 {
		return
	}
	g.mousedown = true
	if g.mouseHandler != nil {
		g.mouseHandler.OnMouseDown(g, event)
	}
}

// HandleMouseMove routes to OnMouseMove while a button is held and to
// OnMouseHover otherwise.
func (g *DataGrid) HandleMouseMove(event MouseEvent) {
	if g.disposed || g.mouseHandler == nil {
		return
	}
	if g.mousedown {
		g.mouseHandler.OnMouseMove(g, event)
	} else {
		g.mouseHandler.OnMouseHover(g, event)
	}
}

func (g *DataGrid) HandleMouseUp(event MouseEvent) {
	if g.disposed || event.Button != 0 || !g.mousedown {
		return
	}
	g.mousedown = false
	if g.mouseHandler != nil {
		g.mouseHandler.OnMouseUp(g, event)
	}
}

func (g *DataGrid) HandleDoubleClick(event MouseEvent) {
	if g.disposed || event.Button != 0 || g.mouseHandler == nil {
		return
	}
	g.mouseHandler.OnMouseDoubleClick(g, event)
}

func (g *DataGrid) HandleContextMenu(event MouseEvent) bool {
	if g.disposed || g.mouseHandler == nil {
		return false
	}
	return g.mouseHandler.OnContextMenu(g, event)
}

func (g *DataGrid) HandleMouseLeave(event MouseEvent) {
	if g.disposed || g.mousedown || g.mouseHandler == nil {
		return
	}
	g.mouseHandler.OnMouseLeave(g, event)
}

// HandleWheel routes a wheel event. Accelerated wheel events are left to
// the host, which commonly zooms with them.
func (g *DataGrid) HandleWheel(event WheelEvent) bool {
	if g.disposed || event.Accel() || g.mouseHandler == nil {
		return false
	}
	return g.mouseHandler.OnWheel(g, event)
}
