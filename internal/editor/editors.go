package editor

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"dgrid/internal/datamodel"
	"dgrid/internal/render"
	"dgrid/internal/selection"
)

var errInvalidInput = &ValidationError{Message: "Invalid input"}

// TextEditor edits free text.
type TextEditor struct {
	session
}

func NewTextEditor() *TextEditor { return &TextEditor{} }

func (e *TextEditor) Edit(cell Cell, opts *Options) {
	e.begin(e, cell, opts, InputSpec{Kind: InputText, Text: initialText(opts, cell.data())})
}

func (e *TextEditor) Commit(move selection.Direction) error {
	if !e.editing {
		return ErrNotEditing
	}
	return e.commit(move, e.read, textValidator(e.cell.metadata()))
}

func (e *TextEditor) read() (any, error) { return e.input.Text(), nil }

func (e *TextEditor) Cancel()         { e.cancel() }
func (e *TextEditor) UpdatePosition() { e.updatePosition() }

func textValidator(md datamodel.Metadata) Validator {
	v := NewTextValidator()
	c := md.Constraint
	if c == nil {
		return v
	}
	if c.MinLength != nil {
		v.MinLength = *c.MinLength
	}
	if c.MaxLength != nil {
		v.MaxLength = *c.MaxLength
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			debugLog("ignoring pattern %q: %v\n", c.Pattern, err)
		} else {
			v.Pattern = re
		}
	}
	return v
}

// NumberEditor edits floating point numbers. Empty input clears the cell.
type NumberEditor struct {
	session
}

func NewNumberEditor() *NumberEditor { return &NumberEditor{} }

func (e *NumberEditor) Edit(cell Cell, opts *Options) {
	e.begin(e, cell, opts, InputSpec{Kind: InputText, Charset: CharsetFloat, Text: initialText(opts, cell.data())})
}

func (e *NumberEditor) Commit(move selection.Direction) error {
	if !e.editing {
		return ErrNotEditing
	}
	v := NewNumberValidator()
	v.Min, v.Max = bounds(e.cell.metadata())
	return e.commit(move, e.read, v)
}

func (e *NumberEditor) read() (any, error) { return parseNumber(e.input.Text(), false) }

func (e *NumberEditor) Cancel()         { e.cancel() }
func (e *NumberEditor) UpdatePosition() { e.updatePosition() }

// IntegerEditor edits whole numbers. Empty input clears the cell.
type IntegerEditor struct {
	session
}

func NewIntegerEditor() *IntegerEditor { return &IntegerEditor{} }

func (e *IntegerEditor) Edit(cell Cell, opts *Options) {
	e.begin(e, cell, opts, InputSpec{Kind: InputText, Charset: CharsetInteger, Text: initialText(opts, cell.data())})
}

func (e *IntegerEditor) Commit(move selection.Direction) error {
	if !e.editing {
		return ErrNotEditing
	}
	v := NewIntegerValidator()
	v.Min, v.Max = bounds(e.cell.metadata())
	return e.commit(move, e.read, v)
}

func (e *IntegerEditor) read() (any, error) { return parseNumber(e.input.Text(), true) }

func (e *IntegerEditor) Cancel()         { e.cancel() }
func (e *IntegerEditor) UpdatePosition() { e.updatePosition() }

// parseNumber reads a number. Whole numbers are returned as int when
// integer is set; other values stay float64 for the validator to refuse.
func parseNumber(text string, integer bool) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errInvalidInput
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int cannot hold.
	if integer && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int(f), nil
	}
	return f, nil
}

func bounds(md datamodel.Metadata) (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	if c := md.Constraint; c != nil {
		if c.Minimum != nil {
			lo = *c.Minimum
		}
		if c.Maximum != nil {
			hi = *c.Maximum
		}
	}
	return lo, hi
}

// BooleanEditor edits a flag with a checkbox.
type BooleanEditor struct {
	session
}

func NewBooleanEditor() *BooleanEditor { return &BooleanEditor{} }

func (e *BooleanEditor) Edit(cell Cell, opts *Options) {
	checked, _ := cell.data().(bool)
	e.begin(e, cell, opts, InputSpec{Kind: InputCheckbox, Checked: checked})
}

func (e *BooleanEditor) Commit(move selection.Direction) error {
	return e.commit(move, e.read, nil)
}

func (e *BooleanEditor) read() (any, error) { return e.input.Checked(), nil }

func (e *BooleanEditor) Cancel()         { e.cancel() }
func (e *BooleanEditor) UpdatePosition() { e.updatePosition() }

// DateEditor edits calendar dates written as YYYY-MM-DD.
type DateEditor struct {
	session
}

func NewDateEditor() *DateEditor { return &DateEditor{} }

func (e *DateEditor) Edit(cell Cell, opts *Options) {
	text := initialText(opts, cell.data())
	if t, ok := cell.data().(time.Time); ok && (opts == nil || opts.InitialInput == "") {
		text = t.Format(time.DateOnly)
	}
	e.begin(e, cell, opts, InputSpec{Kind: InputDate, Text: text})
}

func (e *DateEditor) Commit(move selection.Direction) error {
	return e.commit(move, e.read, nil)
}

func (e *DateEditor) read() (any, error) {
	text := strings.TrimSpace(e.input.Text())
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, text)
	if err != nil {
		return nil, errInvalidInput
	}
	return t.Format(time.DateOnly), nil
}

func (e *DateEditor) Cancel()         { e.cancel() }
func (e *DateEditor) UpdatePosition() { e.updatePosition() }

// OptionEditor picks from the enumerated values of a cell's constraint.
// Array typed cells take several values.
type OptionEditor struct {
	session
	values []any
}

func NewOptionEditor() *OptionEditor { return &OptionEditor{} }

func (e *OptionEditor) Edit(cell Cell, opts *Options) {
	md := cell.metadata()
	e.values = nil
	if md.Constraint != nil {
		e.values = md.Constraint.Enum
	}
	req := InputSpec{Kind: InputSelect, Multiple: md.Type == "array"}
	current := cell.data()
	for i, v := range e.values {
		text := render.FormatValue(v)
		req.Options = append(req.Options, text)
		if selected(current, text) {
			req.Selected = append(req.Selected, i)
		}
	}
	e.begin(e, cell, opts, req)
}

// selected reports whether an option's text is among the current value.
func selected(current any, text string) bool {
	if values, ok := current.([]any); ok {
		return slices.ContainsFunc(values, func(v any) bool { return render.FormatValue(v) == text })
	}
	return current != nil && render.FormatValue(current) == text
}

func (e *OptionEditor) Commit(move selection.Direction) error {
	return e.commit(move, e.read, nil)
}

func (e *OptionEditor) read() (any, error) {
	indices := e.input.Selected()
	var picked []any
	for _, i := range indices {
		if i >= 0 && i < len(e.values) {
			picked = append(picked, e.values[i])
		}
	}
	if e.cell.metadata().Type == "array" {
		return picked, nil
	}
	if len(picked) == 0 {
		return nil, nil
	}
	return picked[0], nil
}

func (e *OptionEditor) Cancel()         { e.cancel() }
func (e *OptionEditor) UpdatePosition() { e.updatePosition() }

// DynamicOptionEditor takes free input and suggests the distinct values
// already in the column.
type DynamicOptionEditor struct {
	session
}

func NewDynamicOptionEditor() *DynamicOptionEditor { return &DynamicOptionEditor{} }

func (e *DynamicOptionEditor) Edit(cell Cell, opts *Options) {
	e.begin(e, cell, opts, InputSpec{
		Kind:    InputCombo,
		Text:    initialText(opts, cell.data()),
		Options: distinctValues(cell),
	})
}

// distinctValues lists the texts of a column in order of first appearance.
func distinctValues(cell Cell) []string {
	m := cell.Grid.DataModel()
	seen := make(map[string]bool)
	var values []string
	for row := 0; row < m.RowCount(datamodel.Body); row++ {
		v := m.Data(datamodel.Body, row, cell.Column)
		if v == nil {
			continue
		}
		text := render.FormatValue(v)
		if !seen[text] {
			seen[text] = true
			values = append(values, text)
		}
	}
	return values
}

func (e *DynamicOptionEditor) Commit(move selection.Direction) error {
	return e.commit(move, e.read, nil)
}

func (e *DynamicOptionEditor) read() (any, error) {
	text := e.input.Text()
	switch e.cell.metadata().Type {
	case "number":
		return parseNumber(text, false)
	case "integer":
		return parseNumber(text, true)
	}
	return text, nil
}

func (e *DynamicOptionEditor) Cancel()         { e.cancel() }
func (e *DynamicOptionEditor) UpdatePosition() { e.updatePosition() }
