package datamodel

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
)

// Field is a Table Schema field descriptor.
type Field struct {
	Name        string          `json:"name"`
	Type        string          `json:"type,omitempty"`
	Format      string          `json:"format,omitempty"`
	Title       string          `json:"title,omitempty"`
	Constraints *jsonConstraint `json:"constraints,omitempty"`
	Constraint  *jsonConstraint `json:"constraint,omitempty"`
}

type jsonConstraint struct {
	Required  bool     `json:"required,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Enum      any      `json:"enum,omitempty"` // a list, or the string "dynamic"
}

// Schema is a Table Schema document.
type Schema struct {
	Fields        []Field  `json:"fields"`
	PrimaryKey    any      `json:"primaryKey,omitempty"` // string or []string
	MissingValues []string `json:"missingValues,omitempty"`
}

// JSONDocument is the on-disk form read by LoadJSON.
type JSONDocument struct {
	Schema Schema           `json:"schema"`
	Data   []map[string]any `json:"data"`
}

// JSONModel is a mutable model over rows of JSON objects described by a
// Table Schema. Primary key fields form the row header.
type JSONModel struct {
	Base

	headerFields []Field
	bodyFields   []Field
	data         []map[string]any
	missing      map[string]bool
}

// NewJSONModel creates a model over data. data is not copied.
func NewJSONModel(schema Schema, data []map[string]any) (*JSONModel, error) {
	m := &JSONModel{}
	if err := m.load(schema, data); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadJSON reads a JSONDocument.
func LoadJSON(r io.Reader) (*JSONModel, error) {
	var doc JSONDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON model: %w", err)
	}
	return NewJSONModel(doc.Schema, doc.Data)
}

func (m *JSONModel) load(schema Schema, data []map[string]any) error {
	keys, err := primaryKeys(schema.PrimaryKey)
	if err != nil {
		return err
	}
	var header, body []Field
	for _, f := range schema.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema field without a name")
		}
		if slices.Contains(keys, f.Name) {
			header = append(header, f)
		} else {
			body = append(body, f)
		}
	}
	for _, k := range keys {
		if !slices.ContainsFunc(header, func(f Field) bool { return f.Name == k }) {
			return fmt.Errorf("primary key %q is not a field", k)
		}
	}

	missing := map[string]bool{}
	for _, v := range schema.MissingValues {
		missing[v] = true
	}
	if data == nil {
		data = []map[string]any{}
	}
	for _, row := range data {
		normalizeRow(row, schema.Fields)
	}

	m.headerFields = header
	m.bodyFields = body
	m.data = data
	m.missing = missing
	return nil
}

func primaryKeys(v any) ([]string, error) {
	switch pk := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{pk}, nil
	case []string:
		return pk, nil
	case []any:
		keys := make([]string, 0, len(pk))
		for _, k := range pk {
			s, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("primary key entries must be strings, got %T", k)
			}
			keys = append(keys, s)
		}
		return keys, nil
	}
	return nil, fmt.Errorf("unsupported primary key %T", v)
}

// normalizeRow turns integral JSON numbers of integer fields into int64.
func normalizeRow(row map[string]any, fields []Field) {
	for _, f := range fields {
		if f.Type != "integer" {
			continue
		}
		if n, ok := row[f.Name].(float64); ok && n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			row[f.Name] = int64(n)
		}
	}
}

func (m *JSONModel) RowCount(region Region) int {
	if region == Body {
		return len(m.data)
	}
	return 1
}

func (m *JSONModel) ColumnCount(region Region) int {
	if region == Body {
		return len(m.bodyFields)
	}
	return len(m.headerFields)
}

func (m *JSONModel) field(region Region, column int) (Field, bool) {
	fields := m.bodyFields
	if ColumnRegionOf(region) == RowHeader {
		fields = m.headerFields
	}
	if column < 0 || column >= len(fields) {
		return Field{}, false
	}
	return fields[column], true
}

func (m *JSONModel) Data(region Region, row, column int) any {
	f, ok := m.field(region, column)
	if !ok {
		return nil
	}
	if region == ColumnHeader || region == CornerHeader {
		if f.Title != "" {
			return f.Title
		}
		return f.Name
	}
	if row < 0 || row >= len(m.data) {
		return nil
	}
	value := m.data[row][f.Name]
	if s, ok := value.(string); ok && m.missing[s] {
		return nil
	}
	return value
}

func (m *JSONModel) Metadata(region Region, row, column int) Metadata {
	f, ok := m.field(region, column)
	if !ok {
		return Metadata{}
	}
	md := Metadata{Name: f.Name, Type: f.Type, Format: f.Format}
	c := f.Constraint
	if c == nil {
		c = f.Constraints
	}
	if c != nil {
		md.Constraint = &Constraint{
			Required:  c.Required,
			Minimum:   c.Minimum,
			Maximum:   c.Maximum,
			MinLength: c.MinLength,
			MaxLength: c.MaxLength,
			Pattern:   c.Pattern,
		}
		switch enum := c.Enum.(type) {
		case []any:
			md.Constraint.Enum = enum
		case string:
			md.Constraint.DynamicEnum = enum == "dynamic"
		}
	}
	return md
}

// SetData writes a body or row header cell.
func (m *JSONModel) SetData(region Region, row, column int, value any) error {
	if region != Body && region != RowHeader {
		return ErrReadOnly
	}
	f, ok := m.field(region, column)
	if !ok || row < 0 || row >= len(m.data) {
		return fmt.Errorf("cell (%d, %d) out of range", row, column)
	}
	m.data[row][f.Name] = value
	m.EmitChanged(ChangedArgs{
		Type:       CellsChanged,
		Region:     region,
		Row:        row,
		Column:     column,
		RowSpan:    1,
		ColumnSpan: 1,
	})
	return nil
}

// Rows returns the underlying row objects.
func (m *JSONModel) Rows() []map[string]any { return m.data }

// InsertRows inserts rows before index.
func (m *JSONModel) InsertRows(index int, rows ...map[string]any) {
	if len(rows) == 0 {
		return
	}
	index = max(0, min(index, len(m.data)))
	for _, row := range rows {
		normalizeRow(row, append(m.headerFields[:len(m.headerFields):len(m.headerFields)], m.bodyFields...))
	}
	m.data = slices.Insert(m.data, index, rows...)
	m.EmitChanged(ChangedArgs{Type: RowsInserted, Region: Body, Index: index, Span: len(rows)})
}

// RemoveRows removes span rows starting at index.
func (m *JSONModel) RemoveRows(index, span int) {
	if index < 0 || index >= len(m.data) || span <= 0 {
		return
	}
	span = min(span, len(m.data)-index)
	m.data = slices.Delete(m.data, index, index+span)
	m.EmitChanged(ChangedArgs{Type: RowsRemoved, Region: Body, Index: index, Span: span})
}

// MoveRows moves span rows starting at index so the first lands on
// destination.
func (m *JSONModel) MoveRows(index, span, destination int) {
	n := len(m.data)
	if index < 0 || index >= n || span <= 0 {
		return
	}
	span = min(span, n-index)
	destination = max(0, min(destination, n-span))
	if destination == index {
		return
	}
	moved := slices.Clone(m.data[index : index+span])
	rest := slices.Delete(slices.Clone(m.data), index, index+span)
	m.data = slices.Insert(rest, destination, moved...)
	m.EmitChanged(ChangedArgs{Type: RowsMoved, Region: Body, Index: index, Span: span, Destination: destination})
}

// Replace swaps the schema and data and resets the model.
func (m *JSONModel) Replace(schema Schema, data []map[string]any) error {
	if err := m.load(schema, data); err != nil {
		return err
	}
	m.EmitChanged(ChangedArgs{Type: ModelReset})
	return nil
}

var _ MutableDataModel = (*JSONModel)(nil)
