package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandDump(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() { config = Config{} })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{writePeople(t), "--dump", "--headers", "column"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, s := range []string{"name", "Alice", "Bob", "people.json: 2 rows"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}
}

func TestRootCommandErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tests := []struct {
		name string
		args []string
	}{
		{"no source", []string{}},
		{"unknown type", []string{"data.csv", "--dump"}},
		{"bad headers", []string{"", "--dump", "--headers", "some"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { config = Config{} })
			if tt.name == "bad headers" {
				tt.args[0] = writePeople(t)
			}
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() { rootCmd.SetArgs(nil) })
			if err := rootCmd.Execute(); err == nil {
				t.Errorf("Execute(%v) error = nil", tt.args)
			}
		})
	}
}
