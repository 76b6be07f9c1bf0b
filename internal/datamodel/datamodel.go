// Package datamodel defines the tabular data the grid displays and a few
// concrete sources for it.
package datamodel

import (
	"errors"

	"dgrid/internal/signal"
)

// Region is a content area of the grid.
type Region string

const (
	Body         Region = "body"
	RowHeader    Region = "row-header"
	ColumnHeader Region = "column-header"
	CornerHeader Region = "corner-header"

	// Void is the space outside all content. Models never hold data for it.
	Void Region = "void"
)

// ErrReadOnly is returned by SetData for cells that cannot be written.
var ErrReadOnly = errors.New("cell is read-only")

// Constraint restricts the values a cell accepts.
type Constraint struct {
	Required    bool
	Minimum     *float64
	Maximum     *float64
	MinLength   *int
	MaxLength   *int
	Pattern     string
	Enum        []any
	DynamicEnum bool // offer the distinct values of the column
}

// Metadata describes a cell. Type is one of string, number, integer,
// boolean or date when known.
type Metadata struct {
	Name       string
	Type       string
	Format     string
	Constraint *Constraint
}

// ChangeType discriminates ChangedArgs.
type ChangeType string

const (
	RowsInserted    ChangeType = "rows-inserted"
	ColumnsInserted ChangeType = "columns-inserted"
	RowsRemoved     ChangeType = "rows-removed"
	ColumnsRemoved  ChangeType = "columns-removed"
	RowsMoved       ChangeType = "rows-moved"
	ColumnsMoved    ChangeType = "columns-moved"
	CellsChanged    ChangeType = "cells-changed"
	ModelReset      ChangeType = "model-reset"
)

// ChangedArgs describes a change to a model.
//
// Rows and columns changes use Region, Index and Span (and Destination for
// moves). Rows changes have Region Body or ColumnHeader; columns changes
// have Body or RowHeader. Cells changes use Region, Row, Column, RowSpan and
// ColumnSpan.
type ChangedArgs struct {
	Type        ChangeType
	Region      Region
	Index       int
	Span        int
	Destination int
	Row         int
	Column      int
	RowSpan     int
	ColumnSpan  int
}

// DataModel provides the content of a grid.
type DataModel interface {
	// RowCount returns the number of rows of Body or ColumnHeader.
	RowCount(region Region) int
	// ColumnCount returns the number of columns of Body or RowHeader.
	ColumnCount(region Region) int
	Data(region Region, row, column int) any
	Metadata(region Region, row, column int) Metadata
	Changed() *signal.Signal[ChangedArgs]
}

// MutableDataModel is a DataModel whose cells can be written.
type MutableDataModel interface {
	DataModel
	SetData(region Region, row, column int, value any) error
}

// Base provides the Changed signal for models that embed it.
type Base struct {
	changed *signal.Signal[ChangedArgs]
}

func (b *Base) Changed() *signal.Signal[ChangedArgs] {
	if b.changed == nil {
		b.changed = signal.New[ChangedArgs]()
	}
	return b.changed
}

// EmitChanged delivers args to the listeners of Changed.
func (b *Base) EmitChanged(args ChangedArgs) {
	b.changed.Emit(args)
}

// RowRegionValid reports whether r is a valid argument to RowCount.
func RowRegionValid(r Region) bool {
	return r == Body || r == ColumnHeader
}

// ColumnRegionValid reports whether r is a valid argument to ColumnCount.
func ColumnRegionValid(r Region) bool {
	return r == Body || r == RowHeader
}

// RowRegionOf returns the region whose rows a cell region uses.
func RowRegionOf(r Region) Region {
	if r == ColumnHeader || r == CornerHeader {
		return ColumnHeader
	}
	return Body
}

// ColumnRegionOf returns the region whose columns a cell region uses.
func ColumnRegionOf(r Region) Region {
	if r == RowHeader || r == CornerHeader {
		return RowHeader
	}
	return Body
}
