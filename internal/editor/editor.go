// Package editor edits single grid cells through inputs supplied by the
// host. A Controller picks an editor for a cell from its metadata, and the
// editor validates the input before the value is written back.
package editor

import (
	"errors"

	"dgrid/internal/datamodel"
	"dgrid/internal/msgloop"
	"dgrid/internal/render"
	"dgrid/internal/selection"
)

// ErrNotEditing is returned by Commit when no edit is in progress.
var ErrNotEditing = errors.New("editor is not editing")

// DefaultInvalidMessage is shown when a failed check gives no reason.
const DefaultInvalidMessage = "Invalid input!"

// Grid is the part of a data grid the editors use.
type Grid interface {
	DataModel() datamodel.DataModel
	Editable() bool
	MoveCursor(direction selection.Direction)
	ScrollToCursor()
	CellRect(row, column int) (x, y, width, height int, ok bool)
	ViewportHeight() int
	Clock() msgloop.Clock
}

// Cell identifies the body cell being edited.
type Cell struct {
	Grid   Grid
	Row    int
	Column int
}

func (c Cell) metadata() datamodel.Metadata {
	return c.Grid.DataModel().Metadata(datamodel.Body, c.Row, c.Column)
}

func (c Cell) data() any {
	return c.Grid.DataModel().Data(datamodel.Body, c.Row, c.Column)
}

// Response is handed to OnCommit after a successful commit.
type Response struct {
	Cell           Cell
	Value          any
	CursorMovement selection.Direction
}

// Options configure one edit. The controller fills in Host and the
// callbacks when they are nil.
type Options struct {
	Editor    CellEditor
	Validator Validator
	Host      Host
	OnCommit  func(Response)
	OnCancel  func()
	// InitialInput replaces the cell's text, as when editing starts by
	// typing a character.
	InitialInput string
}

// CellEditor edits one cell at a time.
type CellEditor interface {
	Edit(cell Cell, opts *Options)
	// Commit validates the input and hands the value to OnCommit. An
	// invalid input keeps the editor open and returns a *ValidationError.
	Commit(move selection.Direction) error
	Cancel()
	// UpdatePosition follows the cell after the grid scrolled or resized.
	UpdatePosition()
}

// InputKind is the widget an editor asks the host for.
type InputKind string

const (
	InputText     InputKind = "text"
	InputDate     InputKind = "date"
	InputCheckbox InputKind = "checkbox"
	InputSelect   InputKind = "select"
	InputCombo    InputKind = "combo"
)

// Charset restricts what may be typed into a text input.
type Charset string

const (
	CharsetAny     Charset = ""
	CharsetFloat   Charset = "float"
	CharsetInteger Charset = "integer"
)

// InputSpec describes an input to open over a cell.
type InputSpec struct {
	Kind    InputKind
	X       int
	Y       int
	Width   int
	Height  int
	Text    string
	Charset Charset
	Checked bool
	// Options are the choices of select and combo inputs.
	Options  []string
	Selected []int
	Multiple bool
}

// Input is a widget opened by the host.
type Input interface {
	Text() string
	Checked() bool
	Selected() []int
	SetRect(x, y, width, height int)
	SetVisible(visible bool)
	SetInvalid(invalid bool)
	Close()
}

// Host opens inputs and shows notifications. The editor passed to
// OpenInput is committed or cancelled by the input's key bindings.
type Host interface {
	OpenInput(req InputSpec, editor CellEditor) Input
	ShowNotification(n *Notification)
	HideNotification(n *Notification)
}

// session is the state shared by every editor while it edits.
type session struct {
	cell    Cell
	opts    Options
	input   Input
	notice  *Notification
	editing bool
}

// begin opens an input for cell. It reports false when there is no host.
func (s *session) begin(e CellEditor, cell Cell, opts *Options, req InputSpec) bool {
	s.cell = cell
	s.opts = Options{}
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.Host == nil {
		debugLog("no host to edit cell (%d, %d)\n", cell.Row, cell.Column)
		return false
	}
	x, y, w, h, visible := cell.Grid.CellRect(cell.Row, cell.Column)
	req.X, req.Y, req.Width, req.Height = x, y, w, h
	s.input = s.opts.Host.OpenInput(req, e)
	s.input.SetVisible(visible)
	s.editing = true
	return true
}

// commit reads and validates the input, then closes the editor and
// reports the value.
func (s *session) commit(move selection.Direction, read func() (any, error), validator Validator) error {
	if !s.editing {
		return ErrNotEditing
	}
	value, err := read()
	if err != nil {
		return s.invalid(err)
	}
	if s.opts.Validator != nil {
		validator = s.opts.Validator
	}
	if validator != nil {
		if err := validator.Validate(s.cell, value); err != nil {
			return s.invalid(err)
		}
	}
	s.input.SetInvalid(false)
	s.close()
	if s.opts.OnCommit != nil {
		s.opts.OnCommit(Response{Cell: s.cell, Value: value, CursorMovement: move})
	}
	return nil
}

// invalid flags the input and shows why it was refused.
func (s *session) invalid(err error) error {
	message := err.Error()
	var verr *ValidationError
	if errors.As(err, &verr) {
		message = verr.Message
	}
	if message == "" {
		message = DefaultInvalidMessage
	}
	debugLog("invalid input for cell (%d, %d): %s\n", s.cell.Row, s.cell.Column, message)

	s.input.SetInvalid(true)
	if s.notice != nil {
		s.notice.Close()
	}
	x, y, w, h, _ := s.cell.Grid.CellRect(s.cell.Row, s.cell.Column)
	placement, ny := PlaceBottom, y+h+1
	if ny >= s.cell.Grid.ViewportHeight() {
		placement, ny = PlaceTop, y-1
	}
	s.notice = showNotification(s.opts.Host, s.cell.Grid.Clock(), Notification{
		Message:   message,
		X:         x,
		Y:         ny,
		Width:     w,
		Placement: placement,
	})
	return &ValidationError{Message: message}
}

func (s *session) cancel() {
	if !s.editing {
		return
	}
	s.close()
	if s.opts.OnCancel != nil {
		s.opts.OnCancel()
	}
}

func (s *session) close() {
	if s.notice != nil {
		s.notice.Close()
		s.notice = nil
	}
	s.input.Close()
	s.editing = false
}

func (s *session) updatePosition() {
	if !s.editing {
		return
	}
	x, y, w, h, visible := s.cell.Grid.CellRect(s.cell.Row, s.cell.Column)
	s.input.SetRect(x, y, w, h)
	s.input.SetVisible(visible)
}

// initialText is the text an input starts with.
func initialText(opts *Options, value any) string {
	if opts != nil && opts.InitialInput != "" {
		return opts.InitialInput
	}
	return render.FormatValue(value)
}
