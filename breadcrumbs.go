package main

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// BreadcrumbType is the Sentry category of a breadcrumb
type BreadcrumbType string

const (
	BreadcrumbKeyboard BreadcrumbType = "keyboard"
	BreadcrumbMouse    BreadcrumbType = "mouse"
	BreadcrumbGrid     BreadcrumbType = "grid"
	BreadcrumbEdit     BreadcrumbType = "edit"
	BreadcrumbData     BreadcrumbType = "data"
)

// aggregateWindow is how close two breadcrumbs must be to fold together.
const aggregateWindow = 100 * time.Millisecond

// BreadcrumbEntry is a single recorded event
type BreadcrumbEntry struct {
	Type      BreadcrumbType
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
	Level     sentry.Level
	Count     int
}

// BreadcrumbBuffer is a thread-safe ring of breadcrumbs. Repeats of the same
// event arriving in quick succession are folded into one entry.
type BreadcrumbBuffer struct {
	mu           sync.Mutex
	entries      []BreadcrumbEntry
	maxSize      int
	currentIndex int
	count        int
	now          func() time.Time
}

func NewBreadcrumbBuffer(maxSize int) *BreadcrumbBuffer {
	return &BreadcrumbBuffer{
		entries: make([]BreadcrumbEntry, maxSize),
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (b *BreadcrumbBuffer) addEntry(entry BreadcrumbEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry.Timestamp = b.now()
	entry.Count = 1
	if b.count > 0 {
		last := &b.entries[(b.currentIndex-1+b.maxSize)%b.maxSize]
		if canAggregate(last, &entry) {
			last.Count++
			last.Timestamp = entry.Timestamp
			return
		}
	}

	b.entries[b.currentIndex] = entry
	b.currentIndex = (b.currentIndex + 1) % b.maxSize
	if b.count < b.maxSize {
		b.count++
	}
}

func canAggregate(last, current *BreadcrumbEntry) bool {
	if last.Type != current.Type || last.Message != current.Message {
		return false
	}
	return current.Timestamp.Sub(last.Timestamp) <= aggregateWindow
}

// RecordKeyboard records a key press
func (b *BreadcrumbBuffer) RecordKeyboard(key string, modifiers string) {
	b.addEntry(BreadcrumbEntry{
		Type:    BreadcrumbKeyboard,
		Message: fmt.Sprintf("Key: %s", key),
		Level:   sentry.LevelDebug,
		Data: map[string]interface{}{
			"key":       key,
			"modifiers": modifiers,
		},
	})
}

// RecordMouse records a mouse action
func (b *BreadcrumbBuffer) RecordMouse(action string) {
	b.addEntry(BreadcrumbEntry{
		Type:    BreadcrumbMouse,
		Message: fmt.Sprintf("Mouse: %s", action),
		Level:   sentry.LevelDebug,
		Data:    map[string]interface{}{"action": action},
	})
}

// RecordGrid records a change to the grid itself, such as a resize or a
// change of selection mode.
func (b *BreadcrumbBuffer) RecordGrid(action string, detail string) {
	b.addEntry(BreadcrumbEntry{
		Type:    BreadcrumbGrid,
		Message: fmt.Sprintf("Grid: %s %s", action, detail),
		Level:   sentry.LevelInfo,
		Data: map[string]interface{}{
			"action": action,
			"detail": detail,
		},
	})
}

// RecordEdit records a cell edit
func (b *BreadcrumbBuffer) RecordEdit(row, column int, outcome string) {
	b.addEntry(BreadcrumbEntry{
		Type:    BreadcrumbEdit,
		Message: fmt.Sprintf("Edit: %s", outcome),
		Level:   sentry.LevelInfo,
		Data: map[string]interface{}{
			"row":    row,
			"column": column,
		},
	})
}

// RecordData records an operation on the data source
func (b *BreadcrumbBuffer) RecordData(operation string) {
	b.addEntry(BreadcrumbEntry{
		Type:    BreadcrumbData,
		Message: fmt.Sprintf("Data: %s", operation),
		Level:   sentry.LevelInfo,
		Data:    map[string]interface{}{"operation": operation},
	})
}

// drain returns the entries oldest first as Sentry breadcrumbs and empties
// the buffer.
func (b *BreadcrumbBuffer) drain() []*sentry.Breadcrumb {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*sentry.Breadcrumb, 0, b.count)
	start := (b.currentIndex - b.count + b.maxSize) % b.maxSize
	for i := 0; i < b.count; i++ {
		e := b.entries[(start+i)%b.maxSize]
		message, data := e.Message, e.Data
		if e.Count > 1 {
			message = fmt.Sprintf("%s (x%d)", e.Message, e.Count)
			data = maps.Clone(e.Data)
			data["count"] = e.Count
		}
		out = append(out, &sentry.Breadcrumb{
			Message:   message,
			Category:  string(e.Type),
			Data:      data,
			Timestamp: e.Timestamp,
			Level:     e.Level,
		})
	}

	b.entries = make([]BreadcrumbEntry, b.maxSize)
	b.currentIndex = 0
	b.count = 0
	return out
}

// Flush adds the pending breadcrumbs to the Sentry scope
func (b *BreadcrumbBuffer) Flush() {
	crumbs := b.drain()
	if len(crumbs) == 0 {
		return
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		for _, bc := range crumbs {
			scope.AddBreadcrumb(bc, 100)
		}
	})
}

// Global breadcrumb buffer instance
var breadcrumbs *BreadcrumbBuffer

// InitBreadcrumbs initializes the global breadcrumb buffer
func InitBreadcrumbs(maxSize int) {
	breadcrumbs = NewBreadcrumbBuffer(maxSize)
}
