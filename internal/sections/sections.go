// Package sections tracks the offsets and sizes of a run of contiguous,
// variably sized rows or columns.
package sections

import "sort"

// MinimumFloor is the smallest size any section may take.
const MinimumFloor = 2

// section is a materialized entry whose size differs from the default.
type section struct {
	index  int
	offset int
	size   int
}

// Options configure a new List.
type Options struct {
	DefaultSize int
	MinimumSize int
}

// List is an indexed collection of contiguous sections. Only sections with a
// non-default size are stored; every other index is implicitly DefaultSize.
type List struct {
	count       int
	length      int
	minimumSize int
	defaultSize int
	sections    []*section
}

// New creates an empty section list.
func New(opts Options) *List {
	minSize := max(opts.MinimumSize, MinimumFloor)
	return &List{minimumSize: minSize, defaultSize: max(opts.DefaultSize, minSize)}
}

// Length returns the total size of all sections.
func (l *List) Length() int { return l.length }

// Count returns the number of sections in the list.
func (l *List) Count() int { return l.count }

// DefaultSize returns the size of sections that were never resized.
func (l *List) DefaultSize() int { return l.defaultSize }

// MinimumSize returns the smallest size a section may be resized to.
func (l *List) MinimumSize() int { return l.minimumSize }

// SetDefaultSize changes the size of every non-materialized section. The
// value is clamped to the minimum size.
func (l *List) SetDefaultSize(size int) {
	size = l.ClampSize(size)
	if size == l.defaultSize {
		return
	}
	delta := size - l.defaultSize
	l.defaultSize = size
	l.length += delta * (l.count - len(l.sections))

	for i, curr := range l.sections {
		if i == 0 {
			curr.offset = curr.index * size
			continue
		}
		prev := l.sections[i-1]
		gap := curr.index - prev.index - 1
		curr.offset = prev.offset + prev.size + gap*size
	}
}

// SetMinimumSize changes the minimum section size. Raising it above the
// default size raises the default size as well. Sections that were already
// resized keep their size.
func (l *List) SetMinimumSize(size int) {
	if size < MinimumFloor {
		size = MinimumFloor
	}
	if size == l.minimumSize {
		return
	}
	l.minimumSize = size
	if size > l.defaultSize {
		l.SetDefaultSize(size)
	}
}

// ClampSize clamps a size to the minimum section size.
func (l *List) ClampSize(size int) int {
	if size < l.minimumSize {
		return l.minimumSize
	}
	return size
}

// IndexOf returns the index of the section containing offset, or -1.
func (l *List) IndexOf(offset int) int {
	if offset < 0 || offset >= l.length || l.count == 0 {
		return -1
	}
	if len(l.sections) == 0 {
		return offset / l.defaultSize
	}

	i := sort.Search(len(l.sections), func(i int) bool {
		s := l.sections[i]
		return s.offset+s.size > offset
	})
	if i < len(l.sections) && l.sections[i].offset <= offset {
		return l.sections[i].index
	}
	if i == 0 {
		return offset / l.defaultSize
	}

	s := l.sections[i-1]
	span := offset - (s.offset + s.size)
	return s.index + span/l.defaultSize + 1
}

// OffsetOf returns the offset of the section at index, or -1.
func (l *List) OffsetOf(index int) int {
	if index < 0 || index >= l.count {
		return -1
	}
	if len(l.sections) == 0 {
		return index * l.defaultSize
	}

	i := l.lowerBound(index)
	if i < len(l.sections) && l.sections[i].index == index {
		return l.sections[i].offset
	}
	if i == 0 {
		return index * l.defaultSize
	}

	s := l.sections[i-1]
	span := index - s.index - 1
	return s.offset + s.size + span*l.defaultSize
}

// ExtentOf returns the last offset covered by the section at index, or -1.
func (l *List) ExtentOf(index int) int {
	if index < 0 || index >= l.count {
		return -1
	}
	if len(l.sections) == 0 {
		return (index+1)*l.defaultSize - 1
	}

	i := l.lowerBound(index)
	if i < len(l.sections) && l.sections[i].index == index {
		s := l.sections[i]
		return s.offset + s.size - 1
	}
	if i == 0 {
		return (index+1)*l.defaultSize - 1
	}

	s := l.sections[i-1]
	span := index - s.index
	return s.offset + s.size + span*l.defaultSize - 1
}

// SizeOf returns the size of the section at index, or -1.
func (l *List) SizeOf(index int) int {
	if index < 0 || index >= l.count {
		return -1
	}
	i := l.lowerBound(index)
	if i < len(l.sections) && l.sections[i].index == index {
		return l.sections[i].size
	}
	return l.defaultSize
}

// Resize sets the size of the section at index. Out of range indices are
// ignored and the size is clamped to the minimum.
func (l *List) Resize(index, size int) {
	if index < 0 || index >= l.count {
		return
	}
	size = l.ClampSize(size)

	i := l.lowerBound(index)
	var s *section
	if i < len(l.sections) && l.sections[i].index == index {
		s = l.sections[i]
	} else {
		s = &section{index: index, offset: l.OffsetOf(index), size: l.defaultSize}
		l.sections = append(l.sections, nil)
		copy(l.sections[i+1:], l.sections[i:])
		l.sections[i] = s
	}

	delta := size - s.size
	if delta == 0 {
		return
	}
	s.size = size
	l.length += delta

	for _, later := range l.sections[i+1:] {
		later.offset += delta
	}
}

// Insert adds count default sized sections before index.
func (l *List) Insert(index, count int) {
	if count <= 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > l.count {
		index = l.count
	}

	span := count * l.defaultSize
	l.count += count
	l.length += span

	for _, s := range l.sections[l.lowerBound(index):] {
		s.index += count
		s.offset += span
	}
}

// Remove deletes count sections starting at index.
func (l *List) Remove(index, count int) {
	if index < 0 || index >= l.count || count <= 0 {
		return
	}
	if count > l.count-index {
		count = l.count - index
	}

	if len(l.sections) == 0 {
		l.count -= count
		l.length -= count * l.defaultSize
		return
	}
	if count == l.count {
		l.Clear()
		return
	}

	i := l.lowerBound(index)
	j := l.lowerBound(index + count)
	removed := j - i

	span := (count - removed) * l.defaultSize
	for _, s := range l.sections[i:j] {
		span += s.size
	}
	l.sections = append(l.sections[:i], l.sections[j:]...)

	l.count -= count
	l.length -= span

	for _, s := range l.sections[i:] {
		s.index -= count
		s.offset -= span
	}
}

// Move relocates count sections starting at index so that the first of them
// lands on destination.
func (l *List) Move(index, count, destination int) {
	if index < 0 || index >= l.count || count <= 0 {
		return
	}
	if len(l.sections) == 0 {
		return
	}

	if count > l.count-index {
		count = l.count - index
	}
	if destination < 0 {
		destination = 0
	}
	if destination > l.count-count {
		destination = l.count - count
	}
	if index == destination {
		return
	}

	i1 := min(index, destination)
	k1 := l.lowerBound(i1)
	if k1 == len(l.sections) {
		return
	}

	i2 := max(index+count-1, destination+count-1)
	k2 := l.upperBound(i2) - 1
	if k2 < k1 {
		return
	}

	pivot := index + count
	if destination < index {
		pivot = index
	}

	count1 := pivot - i1
	count2 := i2 - pivot + 1
	span1 := count1 * l.defaultSize
	span2 := count2 * l.defaultSize

	for _, s := range l.sections[k1 : k2+1] {
		if s.index < pivot {
			span1 += s.size - l.defaultSize
		} else {
			span2 += s.size - l.defaultSize
		}
	}

	k3 := l.lowerBound(pivot)
	if k1 <= k3 && k3 <= k2 {
		rotate(l.sections[k1:k2+1], k3-k1)
	}

	for _, s := range l.sections[k1 : k2+1] {
		if s.index < pivot {
			s.index += count2
			s.offset += span2
		} else {
			s.index -= count1
			s.offset -= span1
		}
	}
}

// Reset returns every section to the default size.
func (l *List) Reset() {
	l.sections = l.sections[:0]
	l.length = l.count * l.defaultSize
}

// Clear removes all sections.
func (l *List) Clear() {
	l.count = 0
	l.length = 0
	l.sections = l.sections[:0]
}

func (l *List) lowerBound(index int) int {
	return sort.Search(len(l.sections), func(i int) bool {
		return l.sections[i].index >= index
	})
}

func (l *List) upperBound(index int) int {
	return sort.Search(len(l.sections), func(i int) bool {
		return l.sections[i].index > index
	})
}

// rotate shifts s left by delta positions.
func rotate(s []*section, delta int) {
	n := len(s)
	if n <= 1 {
		return
	}
	delta %= n
	if delta < 0 {
		delta += n
	}
	if delta == 0 {
		return
	}
	reverse(s[:delta])
	reverse(s[delta:])
	reverse(s)
}

func reverse(s []*section) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
