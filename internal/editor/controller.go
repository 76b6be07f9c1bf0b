package editor

import (
	"fmt"
	"reflect"
	"strings"

	"dgrid/internal/datamodel"
	"dgrid/internal/selection"
)

// CellEditorController starts and stops cell edits for a grid.
type CellEditorController interface {
	// SetEditor overrides the editor for a data type key such as "string",
	// "number:option" or "default".
	SetEditor(key string, resolve Resolver)
	Edit(cell Cell, opts *Options) bool
	Cancel()
}

// Resolver returns the editor for a cell, or nil to fall through.
type Resolver func(cell Cell) CellEditor

// Static returns a Resolver that always returns e.
func Static(e CellEditor) Resolver {
	return func(Cell) CellEditor { return e }
}

type metadataOverride struct {
	key        string
	identifier datamodel.Metadata
	resolve    Resolver
}

// Controller picks an editor for each cell. Overrides keyed by data type
// win over overrides matched on metadata, which win over the built-in
// editors.
type Controller struct {
	host Host

	typeOverrides     map[string]Resolver
	metadataOverrides []metadataOverride

	editor CellEditor
	cell   *Cell

	// OnError receives failures writing a committed value.
	OnError func(error)
}

func NewController(host Host) *Controller {
	return &Controller{host: host, typeOverrides: make(map[string]Resolver)}
}

func (c *Controller) SetEditor(key string, resolve Resolver) {
	c.typeOverrides[key] = resolve
}

// SetMetadataEditor overrides the editor for cells whose metadata matches
// identifier. Empty fields of identifier match anything.
func (c *Controller) SetMetadataEditor(identifier datamodel.Metadata, resolve Resolver) {
	key := metadataKey(identifier)
	for i, o := range c.metadataOverrides {
		if o.key == key {
			c.metadataOverrides[i].resolve = resolve
			return
		}
	}
	c.metadataOverrides = append(c.metadataOverrides, metadataOverride{key: key, identifier: identifier, resolve: resolve})
}

// Editing reports whether an edit is in progress.
func (c *Controller) Editing() bool { return c.editor != nil }

// Editor returns the active editor, or nil.
func (c *Controller) Editor() CellEditor { return c.editor }

// Edit cancels any edit in progress and starts editing cell. It reports
// whether an editor was found.
func (c *Controller) Edit(cell Cell, opts *Options) bool {
	if !cell.Grid.Editable() {
		debugLog("grid cannot be edited\n")
		return false
	}
	c.Cancel()
	c.cell = &cell

	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.Host == nil {
		o.Host = c.host
	}
	if o.OnCommit == nil {
		o.OnCommit = c.onCommit
	}
	if o.OnCancel == nil {
		o.OnCancel = c.onCancel
	}

	e := o.Editor
	if e == nil {
		e = c.editorFor(cell)
	}
	if e == nil {
		c.cell = nil
		return false
	}
	c.editor = e
	e.Edit(cell, &o)
	return true
}

func (c *Controller) Cancel() {
	if c.editor != nil {
		e := c.editor
		c.editor = nil
		e.Cancel()
	}
	c.cell = nil
}

// UpdatePosition moves the active editor's input over its cell.
func (c *Controller) UpdatePosition() {
	if c.editor != nil {
		c.editor.UpdatePosition()
	}
}

// onCommit writes the value and moves the cursor as the commit asked.
func (c *Controller) onCommit(r Response) {
	c.editor = nil
	c.cell = nil
	grid := r.Cell.Grid
	m, ok := grid.DataModel().(datamodel.MutableDataModel)
	if !ok {
		return
	}
	if err := m.SetData(datamodel.Body, r.Cell.Row, r.Cell.Column, r.Value); err != nil {
		err = fmt.Errorf("set cell (%d, %d): %w", r.Cell.Row, r.Cell.Column, err)
		debugLog("%v\n", err)
		if c.OnError != nil {
			c.OnError(err)
		}
		return
	}
	if r.CursorMovement != "" && r.CursorMovement != selection.None {
		grid.MoveCursor(r.CursorMovement)
		grid.ScrollToCursor()
	}
}

func (c *Controller) onCancel() {
	c.editor = nil
	c.cell = nil
}

// dataTypeKey is the metadata type, suffixed for enumerated cells.
func dataTypeKey(md datamodel.Metadata) string {
	key := md.Type
	if key == "" {
		return "default"
	}
	if con := md.Constraint; con != nil {
		switch {
		case con.DynamicEnum:
			key += ":dynamic-option"
		case len(con.Enum) > 0:
			key += ":option"
		}
	}
	return key
}

// builtin maps data type keys to the stock editors.
var builtin = map[string]func() CellEditor{
	"string":                 func() CellEditor { return NewTextEditor() },
	"number":                 func() CellEditor { return NewNumberEditor() },
	"integer":                func() CellEditor { return NewIntegerEditor() },
	"boolean":                func() CellEditor { return NewBooleanEditor() },
	"date":                   func() CellEditor { return NewDateEditor() },
	"string:option":          func() CellEditor { return NewOptionEditor() },
	"number:option":          func() CellEditor { return NewOptionEditor() },
	"integer:option":         func() CellEditor { return NewOptionEditor() },
	"date:option":            func() CellEditor { return NewOptionEditor() },
	"array:option":           func() CellEditor { return NewOptionEditor() },
	"string:dynamic-option":  func() CellEditor { return NewDynamicOptionEditor() },
	"number:dynamic-option":  func() CellEditor { return NewDynamicOptionEditor() },
	"integer:dynamic-option": func() CellEditor { return NewDynamicOptionEditor() },
	"date:dynamic-option":    func() CellEditor { return NewDynamicOptionEditor() },
}

func (c *Controller) editorFor(cell Cell) CellEditor {
	md := cell.metadata()
	key := dataTypeKey(md)

	if resolve, ok := c.typeOverrides[key]; ok {
		return resolve(cell)
	}
	for _, o := range c.metadataOverrides {
		if matchMetadata(md, o.identifier) {
			if e := o.resolve(cell); e != nil {
				return e
			}
			break
		}
	}
	if newEditor, ok := builtin[key]; ok {
		return newEditor()
	}
	if resolve, ok := c.typeOverrides["default"]; ok {
		return resolve(cell)
	}
	switch cell.data().(type) {
	case map[string]any, []any:
		return nil
	}
	return NewTextEditor()
}

// matchMetadata reports whether every field set in identifier equals the
// same field of md.
func matchMetadata(md, identifier datamodel.Metadata) bool {
	if identifier.Name != "" && identifier.Name != md.Name {
		return false
	}
	if identifier.Type != "" && identifier.Type != md.Type {
		return false
	}
	if identifier.Format != "" && identifier.Format != md.Format {
		return false
	}
	want := identifier.Constraint
	if want == nil {
		return true
	}
	got := md.Constraint
	if got == nil {
		return false
	}
	switch {
	case want.Required && !got.Required,
		want.DynamicEnum && !got.DynamicEnum,
		want.Pattern != "" && want.Pattern != got.Pattern,
		want.Minimum != nil && (got.Minimum == nil || *want.Minimum != *got.Minimum),
		want.Maximum != nil && (got.Maximum == nil || *want.Maximum != *got.Maximum),
		want.MinLength != nil && (got.MinLength == nil || *want.MinLength != *got.MinLength),
		want.MaxLength != nil && (got.MaxLength == nil || *want.MaxLength != *got.MaxLength),
		want.Enum != nil && !reflect.DeepEqual(want.Enum, got.Enum):
		return false
	}
	return true
}

// metadataKey identifies an override so setting the same identifier twice
// replaces it.
func metadataKey(md datamodel.Metadata) string {
	var b strings.Builder
	field := func(name string, value any) {
		fmt.Fprintf(&b, "[%s:%v]", name, value)
	}
	if md.Name != "" {
		field("name", md.Name)
	}
	if md.Type != "" {
		field("type", md.Type)
	}
	if md.Format != "" {
		field("format", md.Format)
	}
	if c := md.Constraint; c != nil {
		b.WriteString("constraint:")
		if c.Required {
			field("required", true)
		}
		if c.Minimum != nil {
			field("minimum", *c.Minimum)
		}
		if c.Maximum != nil {
			field("maximum", *c.Maximum)
		}
		if c.MinLength != nil {
			field("minLength", *c.MinLength)
		}
		if c.MaxLength != nil {
			field("maxLength", *c.MaxLength)
		}
		if c.Pattern != "" {
			field("pattern", c.Pattern)
		}
		if c.Enum != nil {
			field("enum", c.Enum)
		}
		if c.DynamicEnum {
			field("enum", "dynamic")
		}
	}
	return b.String()
}
