// Package render paints individual grid cells.
package render

import (
	"dgrid/internal/datamodel"
	"dgrid/internal/gfx"
)

// CellConfig describes the cell being painted. X and Y are in viewport
// coordinates.
type CellConfig struct {
	X      int
	Y      int
	Width  int
	Height int

	Region   datamodel.Region
	Row      int
	Column   int
	Value    any
	Metadata datamodel.Metadata
}

// CellRenderer paints one cell. The grid saves the graphics state before
// each call and restores it afterwards, so a renderer may clip or change
// styles freely.
type CellRenderer interface {
	Paint(gc *gfx.GraphicsContext, config CellConfig)
}

// Option is a renderer setting computed per cell. A nil Option resolves to
// the zero value.
type Option[T any] func(config CellConfig) T

// Static returns an Option that always resolves to v.
func Static[T any](v T) Option[T] {
	return func(CellConfig) T { return v }
}

// Resolve computes the option for config.
func (o Option[T]) Resolve(config CellConfig) T {
	if o == nil {
		var zero T
		return zero
	}
	return o(config)
}
