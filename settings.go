package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"dgrid/internal/gfx"
	"dgrid/internal/grid"
	"dgrid/internal/render"
)

// maxRecentSources bounds Settings.Recent.
const maxRecentSources = 10

// Settings is the persisted user configuration
type Settings struct {
	TelemetryEnabled bool   `yaml:"telemetry_enabled"`
	SentryDSN        string `yaml:"sentry_dsn,omitempty"`

	Sizes   SizeSettings    `yaml:"sizes"`
	Padding PaddingSettings `yaml:"padding"`
	Theme   ThemeSettings   `yaml:"theme"`
	Copy    CopySettings    `yaml:"copy"`

	// Recent lists the last opened sources, newest first.
	Recent []string `yaml:"recent,omitempty"`
}

// SizeSettings are section sizes in terminal cells. Zero keeps the
// terminal default.
type SizeSettings struct {
	RowHeight          int `yaml:"row_height,omitempty"`
	ColumnWidth        int `yaml:"column_width,omitempty"`
	RowHeaderWidth     int `yaml:"row_header_width,omitempty"`
	ColumnHeaderHeight int `yaml:"column_header_height,omitempty"`
}

type PaddingSettings struct {
	Inset  *float64 `yaml:"inset,omitempty"`
	Gutter *float64 `yaml:"gutter,omitempty"`
}

// ThemeSettings override the grid colors. Any CSS color the grid accepts
// may be used.
type ThemeSettings struct {
	Background      string `yaml:"background,omitempty"`
	Void            string `yaml:"void,omitempty"`
	GridLine        string `yaml:"grid_line,omitempty"`
	HeaderBack      string `yaml:"header_background,omitempty"`
	HeaderGridLine  string `yaml:"header_grid_line,omitempty"`
	SelectionFill   string `yaml:"selection_fill,omitempty"`
	SelectionBorder string `yaml:"selection_border,omitempty"`
	CursorBorder    string `yaml:"cursor_border,omitempty"`
	Text            string `yaml:"text,omitempty"`
}

type CopySettings struct {
	Separator        string `yaml:"separator,omitempty"`
	Headers          string `yaml:"headers,omitempty"`
	WarningThreshold int    `yaml:"warning_threshold,omitempty"`
}

// getConfigDir returns the configuration directory per the XDG base directory layout
func getConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "dgrid"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".config", "dgrid"), nil
}

func getSettingsPath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "settings.yaml"), nil
}

// LoadSettings reads settings.yaml. A missing file yields the defaults.
func LoadSettings() (*Settings, error) {
	settingsPath, err := getSettingsPath()
	if err != nil {
		return nil, err
	}
	return loadSettingsFile(settingsPath)
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("could not parse settings file: %w", err)
	}
	if settings.Copy.Headers != "" {
		if _, err := parseCopyHeaders(settings.Copy.Headers); err != nil {
			return nil, fmt.Errorf("could not parse settings file: %w", err)
		}
	}
	return &settings, nil
}

// SaveSettings writes the settings to settings.yaml
func SaveSettings(settings *Settings) error {
	settingsPath, err := getSettingsPath()
	if err != nil {
		return err
	}
	return saveSettingsFile(settingsPath, settings)
}

func saveSettingsFile(path string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("could not marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write settings file: %w", err)
	}

	return nil
}

// AddRecent moves source to the front of the recent list.
func (s *Settings) AddRecent(source string) {
	s.Recent = slices.DeleteFunc(s.Recent, func(r string) bool { return r == source })
	s.Recent = slices.Insert(s.Recent, 0, source)
	if len(s.Recent) > maxRecentSources {
		s.Recent = s.Recent[:maxRecentSources]
	}
}

// DefaultSizes returns the terminal sizes with the configured overrides.
func (s *Settings) DefaultSizes() grid.Sizes {
	sizes := grid.TerminalSizes
	override := func(dst *int, v, floor int) {
		if v > 0 {
			*dst = max(v, floor)
		}
	}
	minimums := grid.TerminalMinimumSizes
	override(&sizes.RowHeight, s.Sizes.RowHeight, minimums.RowHeight)
	override(&sizes.ColumnWidth, s.Sizes.ColumnWidth, minimums.ColumnWidth)
	override(&sizes.RowHeaderWidth, s.Sizes.RowHeaderWidth, minimums.RowHeaderWidth)
	override(&sizes.ColumnHeaderHeight, s.Sizes.ColumnHeaderHeight, minimums.ColumnHeaderHeight)
	return sizes
}

// CellRenderers returns a text renderer for every region using the
// configured padding and text color.
func (s *Settings) CellRenderers() *render.RendererMap {
	r := render.NewTextRenderer()
	r.Padding = s.TextPadding()
	if s.Theme.Text != "" {
		r.TextColor = render.Static(gfx.Color(s.Theme.Text))
	}
	return render.NewRendererMap(nil, r)
}

func (s *Settings) TextPadding() render.Padding {
	p := render.TerminalPadding
	if s.Padding.Inset != nil {
		p.Inset = *s.Padding.Inset
	}
	if s.Padding.Gutter != nil {
		p.Gutter = *s.Padding.Gutter
	}
	return p
}

// Style returns the terminal style with the theme applied.
func (s *Settings) Style() grid.Style {
	style := grid.TerminalStyle()
	set := func(dst *gfx.Color, v string) {
		if v != "" {
			*dst = gfx.Color(v)
		}
	}
	set(&style.BackgroundColor, s.Theme.Background)
	set(&style.VoidColor, s.Theme.Void)
	set(&style.GridLineColor, s.Theme.GridLine)
	set(&style.HeaderBackgroundColor, s.Theme.HeaderBack)
	set(&style.HeaderGridLineColor, s.Theme.HeaderGridLine)
	set(&style.SelectionFillColor, s.Theme.SelectionFill)
	set(&style.SelectionBorderColor, s.Theme.SelectionBorder)
	set(&style.CursorBorderColor, s.Theme.CursorBorder)
	return style
}

// CopyConfig returns the default copy configuration with the configured
// overrides.
func (s *Settings) CopyConfig() grid.CopyConfig {
	c := grid.DefaultCopyConfig()
	if s.Copy.Separator != "" {
		c.Separator = s.Copy.Separator
	}
	if h, err := parseCopyHeaders(s.Copy.Headers); err == nil && s.Copy.Headers != "" {
		c.Headers = h
	}
	if s.Copy.WarningThreshold > 0 {
		c.WarningThreshold = s.Copy.WarningThreshold
	}
	return c
}

func parseCopyHeaders(v string) (grid.CopyHeaders, error) {
	switch h := grid.CopyHeaders(v); h {
	case grid.CopyHeadersNone, grid.CopyHeadersRow, grid.CopyHeadersColumn, grid.CopyHeadersAll:
		return h, nil
	}
	return "", fmt.Errorf("invalid copy headers %q: want none, row, column or all", v)
}
