package grid

import "dgrid/internal/gfx"

// ScrollShadow is the gradient drawn along a body edge that has more
// content beyond it.
type ScrollShadow struct {
	Size   int
	Color1 gfx.Color
	Color2 gfx.Color
	Color3 gfx.Color
}

// Style holds the colors the grid paints with. An empty color is not
// painted. The specific grid line colors override GridLineColor and
// HeaderGridLineColor.
type Style struct {
	VoidColor       gfx.Color
	BackgroundColor gfx.Color

	RowBackgroundColor    func(index int) gfx.Color
	ColumnBackgroundColor func(index int) gfx.Color

	GridLineColor           gfx.Color
	VerticalGridLineColor   gfx.Color
	HorizontalGridLineColor gfx.Color

	HeaderBackgroundColor         gfx.Color
	HeaderGridLineColor           gfx.Color
	HeaderVerticalGridLineColor   gfx.Color
	HeaderHorizontalGridLineColor gfx.Color

	SelectionFillColor   gfx.Color
	SelectionBorderColor gfx.Color

	CursorFillColor   gfx.Color
	CursorBorderColor gfx.Color

	HeaderSelectionFillColor   gfx.Color
	HeaderSelectionBorderColor gfx.Color

	ScrollShadow *ScrollShadow
}

// DefaultStyle returns the stock light theme.
func DefaultStyle() Style {
	return Style{
		VoidColor:                  "#F3F3F3",
		BackgroundColor:            "#FFFFFF",
		GridLineColor:              "rgba(20, 20, 20, 0.15)",
		HeaderBackgroundColor:      "#F3F3F3",
		HeaderGridLineColor:        "rgba(20, 20, 20, 0.25)",
		SelectionFillColor:         "rgba(49, 119, 229, 0.2)",
		SelectionBorderColor:       "rgba(0, 107, 247, 1.0)",
		CursorBorderColor:          "rgba(0, 107, 247, 1.0)",
		HeaderSelectionFillColor:   "rgba(20, 20, 20, 0.1)",
		HeaderSelectionBorderColor: "rgba(0, 107, 247, 1.0)",
		ScrollShadow: &ScrollShadow{
			Size:   10,
			Color1: "rgba(0, 0, 0, 0.20)",
			Color2: "rgba(0, 0, 0, 0.05)",
			Color3: "rgba(0, 0, 0, 0.00)",
		},
	}
}

// TerminalStyle is DefaultStyle with grid lines strong enough to read as
// box-drawing glyphs and a one cell scroll shadow.
func TerminalStyle() Style {
	s := DefaultStyle()
	s.GridLineColor = "rgba(20, 20, 20, 0.35)"
	s.HeaderGridLineColor = "rgba(20, 20, 20, 0.5)"
	s.ScrollShadow = &ScrollShadow{
		Size:   1,
		Color1: "rgba(0, 0, 0, 0.10)",
		Color2: "rgba(0, 0, 0, 0.05)",
		Color3: "rgba(0, 0, 0, 0.00)",
	}
	return s
}

// firstColor returns the first non-empty color.
func firstColor(colors ...gfx.Color) gfx.Color {
	for _, c := range colors {
		if c != "" {
			return c
		}
	}
	return ""
}
