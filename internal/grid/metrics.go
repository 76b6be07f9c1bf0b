package grid

import "math"

// SurfaceMetrics reports the geometry of the surface hosting the grid.
type SurfaceMetrics interface {
	// Size returns the size of the whole grid, scroll bars included.
	Size() (width, height int)
	DPIScale() float64
	// PointerToLocal converts a pointer position into grid coordinates.
	PointerToLocal(clientX, clientY float64) (x, y float64)
}

// FixedMetrics is a SurfaceMetrics the host updates whenever the grid is
// laid out.
type FixedMetrics struct {
	Width   int
	Height  int
	Scale   float64
	OriginX float64
	OriginY float64
}

func (m *FixedMetrics) Size() (int, int) { return m.Width, m.Height }

func (m *FixedMetrics) DPIScale() float64 {
	if m.Scale <= 0 {
		return 1
	}
	return m.Scale
}

func (m *FixedMetrics) PointerToLocal(clientX, clientY float64) (float64, float64) {
	return clientX - m.OriginX, clientY - m.OriginY
}

// ScrollBar is the state of one scroll bar. The host draws it.
type ScrollBar struct {
	Visible bool
	Value   int
	Maximum int
	Page    int
}

// Thumb returns the offset and length of the thumb on a track of the given
// length.
func (b ScrollBar) Thumb(track int) (offset, length int) {
	if track <= 0 {
		return 0, 0
	}
	total := b.Maximum + b.Page
	if total <= 0 || b.Page >= total {
		return 0, track
	}
	length = max(1, int(math.Round(float64(track)*float64(b.Page)/float64(total))))
	length = min(length, track)
	if b.Maximum > 0 {
		offset = int(math.Round(float64(track-length) * float64(b.Value) / float64(b.Maximum)))
	}
	return max(0, min(offset, track-length)), length
}
