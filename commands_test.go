package main

import (
	"errors"
	"testing"

	"dgrid/internal/grid"
	"dgrid/internal/selection"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    command
		wantErr bool
	}{
		{line: "q", want: command{name: "quit"}},
		{line: "  reload ", want: command{name: "reload"}},
		{line: "w", want: command{name: "save"}},
		{line: "sheet Sheet2", want: command{name: "table", args: []string{"Sheet2"}}},
		{line: "table", wantErr: true},
		{line: "mode row", want: command{name: "mode", args: []string{"row"}, mode: selection.RowMode}},
		{line: "mode diagonal", wantErr: true},
		{line: "headers none", want: command{name: "headers", args: []string{"none"}, headers: grid.HeadersNone}},
		{line: "fit", want: command{name: "fit", padding: 2}},
		{line: "fit 4", want: command{name: "fit", args: []string{"4"}, padding: 4}},
		{line: "fit -1", wantErr: true},
		{line: "stretch column", want: command{name: "stretch", args: []string{"column"}}},
		{line: "stretch", wantErr: true},
		{line: "goto 10 3", want: command{name: "goto", args: []string{"10", "3"}, row: 9, column: 2}},
		{line: "frobnicate", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.name != tt.want.name || got.mode != tt.want.mode || got.headers != tt.want.headers ||
				got.padding != tt.want.padding || got.row != tt.want.row || got.column != tt.want.column {
				t.Errorf("parseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseCommandEmpty(t *testing.T) {
	if _, err := parseCommand("   "); !errors.Is(err, errUsage) {
		t.Errorf("parseCommand() error = %v, want errUsage", err)
	}
}

func TestParseGoto(t *testing.T) {
	tests := []struct {
		text        string
		row, column int
		wantErr     bool
	}{
		{"1", 0, 0, false},
		{"12 4", 11, 3, false},
		{"12,4", 11, 3, false},
		{"0", 0, 0, true},
		{"a", 0, 0, true},
		{"", 0, 0, true},
		{"1 2 3", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			row, column, err := parseGoto(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseGoto(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if !tt.wantErr && (row != tt.row || column != tt.column) {
				t.Errorf("parseGoto(%q) = (%d, %d), want (%d, %d)", tt.text, row, column, tt.row, tt.column)
			}
		})
	}
}
