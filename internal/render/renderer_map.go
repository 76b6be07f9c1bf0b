package render

import (
	"maps"

	"dgrid/internal/datamodel"
	"dgrid/internal/signal"
)

// RendererMap picks the renderer for a cell by region.
type RendererMap struct {
	values   map[datamodel.Region]Option[CellRenderer]
	fallback CellRenderer
	changed  *signal.Signal[struct{}]
}

// NewRendererMap creates a map. A nil fallback is replaced by a default
// TextRenderer.
func NewRendererMap(values map[datamodel.Region]Option[CellRenderer], fallback CellRenderer) *RendererMap {
	if fallback == nil {
		fallback = NewTextRenderer()
	}
	return &RendererMap{
		values:   maps.Clone(values),
		fallback: fallback,
		changed:  signal.New[struct{}](),
	}
}

// Changed is emitted after Update.
func (m *RendererMap) Changed() *signal.Signal[struct{}] { return m.changed }

// Get returns the renderer for config.
func (m *RendererMap) Get(config CellConfig) CellRenderer {
	if r := m.values[config.Region].Resolve(config); r != nil {
		return r
	}
	return m.fallback
}

// Fallback returns the renderer used when no region entry applies.
func (m *RendererMap) Fallback() CellRenderer { return m.fallback }

// Update merges values into the map and replaces the fallback when it is
// not nil.
func (m *RendererMap) Update(values map[datamodel.Region]Option[CellRenderer], fallback CellRenderer) {
	if m.values == nil {
		m.values = map[datamodel.Region]Option[CellRenderer]{}
	}
	maps.Copy(m.values, values)
	if fallback != nil {
		m.fallback = fallback
	}
	m.changed.Emit(struct{}{})
}
