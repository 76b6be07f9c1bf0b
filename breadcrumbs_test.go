package main

import (
	"testing"
	"time"
)

func newTestBuffer(size int) (*BreadcrumbBuffer, *time.Time) {
	now := time.Unix(1000, 0)
	b := NewBreadcrumbBuffer(size)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreadcrumbAggregation(t *testing.T) {
	b, now := newTestBuffer(10)
	b.RecordKeyboard("Down", "")
	*now = now.Add(50 * time.Millisecond)
	b.RecordKeyboard("Down", "")
	*now = now.Add(50 * time.Millisecond)
	b.RecordKeyboard("Down", "")
	*now = now.Add(time.Second)
	b.RecordKeyboard("Down", "")
	b.RecordData("reload")

	crumbs := b.drain()
	tests := []struct {
		message  string
		category string
	}{
		{"Key: Down (x3)", "keyboard"},
		{"Key: Down", "keyboard"},
		{"Data: reload", "data"},
	}
	if len(crumbs) != len(tests) {
		t.Fatalf("drain() returned %d breadcrumbs, want %d", len(crumbs), len(tests))
	}
	for i, tt := range tests {
		if crumbs[i].Message != tt.message || crumbs[i].Category != tt.category {
			t.Errorf("crumbs[%d] = %q/%q, want %q/%q", i, crumbs[i].Message, crumbs[i].Category, tt.message, tt.category)
		}
	}
	if got := crumbs[0].Data["count"]; got != 3 {
		t.Errorf("count = %v, want 3", got)
	}
	if len(b.drain()) != 0 {
		t.Errorf("drain() did not empty the buffer")
	}
}

func TestBreadcrumbRingKeepsNewest(t *testing.T) {
	b, _ := newTestBuffer(3)
	for _, op := range []string{"a", "b", "c", "d", "e"} {
		b.RecordData(op)
	}

	crumbs := b.drain()
	want := []string{"Data: c", "Data: d", "Data: e"}
	if len(crumbs) != len(want) {
		t.Fatalf("drain() returned %d breadcrumbs, want %d", len(crumbs), len(want))
	}
	for i := range want {
		if crumbs[i].Message != want[i] {
			t.Errorf("crumbs[%d] = %q, want %q", i, crumbs[i].Message, want[i])
		}
	}
}
