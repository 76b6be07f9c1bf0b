package main

import (
	"os"
	"path/filepath"
	"testing"

	"dgrid/internal/gfx"
	"dgrid/internal/grid"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := loadSettingsFile(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("loadSettingsFile() error = %v", err)
	}
	if got := s.DefaultSizes(); got != grid.TerminalSizes {
		t.Errorf("DefaultSizes() = %+v, want %+v", got, grid.TerminalSizes)
	}
	if got := s.CopyConfig().Separator; got != "\t" {
		t.Errorf("CopyConfig().Separator = %q, want tab", got)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := `
sizes:
  column_width: 20
  row_header_width: 1
padding:
  inset: 2
theme:
  background: "#101010"
copy:
  separator: ","
  headers: all
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := loadSettingsFile(path)
	if err != nil {
		t.Fatalf("loadSettingsFile() error = %v", err)
	}
	sizes := s.DefaultSizes()
	if sizes.ColumnWidth != 20 {
		t.Errorf("ColumnWidth = %d, want 20", sizes.ColumnWidth)
	}
	if sizes.RowHeaderWidth != grid.TerminalMinimumSizes.RowHeaderWidth {
		t.Errorf("RowHeaderWidth = %d, want the minimum %d", sizes.RowHeaderWidth, grid.TerminalMinimumSizes.RowHeaderWidth)
	}
	if sizes.RowHeight != grid.TerminalSizes.RowHeight {
		t.Errorf("RowHeight = %d, want %d", sizes.RowHeight, grid.TerminalSizes.RowHeight)
	}
	if p := s.TextPadding(); p.Inset != 2 || p.Gutter != 3 {
		t.Errorf("TextPadding() = %+v, want inset 2 and gutter 3", p)
	}
	if got := s.Style().BackgroundColor; got != gfx.Color("#101010") {
		t.Errorf("BackgroundColor = %q, want #101010", got)
	}
	c := s.CopyConfig()
	if c.Separator != "," || c.Headers != grid.CopyHeadersAll {
		t.Errorf("CopyConfig() = %q/%q, want ,/all", c.Separator, c.Headers)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "sizes: [1, 2"},
		{"bad copy headers", "copy:\n  headers: sideways\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := loadSettingsFile(path); err == nil {
				t.Errorf("loadSettingsFile() error = nil, want an error")
			}
		})
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	s := &Settings{}
	for _, src := range []string{"a.db", "b.json", "a.db"} {
		s.AddRecent(src)
	}
	if err := SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if len(loaded.Recent) != 2 || loaded.Recent[0] != "a.db" || loaded.Recent[1] != "b.json" {
		t.Errorf("Recent = %v, want [a.db b.json]", loaded.Recent)
	}
}

func TestAddRecentBounded(t *testing.T) {
	s := &Settings{}
	for i := 0; i < maxRecentSources+5; i++ {
		s.AddRecent(string(rune('a' + i)))
	}
	if len(s.Recent) != maxRecentSources {
		t.Errorf("len(Recent) = %d, want %d", len(s.Recent), maxRecentSources)
	}
	if s.Recent[0] != string(rune('a'+maxRecentSources+4)) {
		t.Errorf("Recent[0] = %q, want the newest source", s.Recent[0])
	}
}
