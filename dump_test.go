package main

import (
	"strings"
	"testing"

	"dgrid/internal/datamodel"
	"dgrid/internal/grid"
)

func TestRenderDump(t *testing.T) {
	m, err := datamodel.NewJSONModel(testSchema, testPeople(5))
	if err != nil {
		t.Fatalf("NewJSONModel() error = %v", err)
	}

	tests := []struct {
		name    string
		headers grid.HeaderVisibility
		limit   int
		want    []string
		notWant []string
	}{
		{"all headers", grid.HeadersAll, 0, []string{"id", "name", "person1", "person5"}, nil},
		{"no headers", grid.HeadersNone, 0, []string{"person1"}, []string{"name", "id"}},
		{"limited", grid.HeadersColumn, 2, []string{"name", "person2"}, []string{"person3", "id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderDump(m, tt.headers, tt.limit, 0)
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("renderDump() missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("renderDump() contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestDumpTextTruncates(t *testing.T) {
	got := dumpText(strings.Repeat("x", 100))
	if !strings.HasSuffix(got, "…") || len([]rune(got)) != maxDumpCellWidth {
		t.Errorf("dumpText() = %q (%d runes), want %d runes ending in …", got, len([]rune(got)), maxDumpCellWidth)
	}
}
