package grid

import (
	"dgrid/internal/gfx"
	"dgrid/internal/msgloop"
	"dgrid/internal/render"
)

// HeaderVisibility selects the header regions that take up space.
type HeaderVisibility string

const (
	HeadersAll    HeaderVisibility = "all"
	HeadersRow    HeaderVisibility = "row"
	HeadersColumn HeaderVisibility = "column"
	HeadersNone   HeaderVisibility = "none"
)

// Sizes holds one size per section list.
type Sizes struct {
	RowHeight          int
	ColumnWidth        int
	RowHeaderWidth     int
	ColumnHeaderHeight int
}

var (
	DefaultSizes        = Sizes{RowHeight: 20, ColumnWidth: 64, RowHeaderWidth: 64, ColumnHeaderHeight: 20}
	DefaultMinimumSizes = Sizes{RowHeight: 20, ColumnWidth: 10, RowHeaderWidth: 10, ColumnHeaderHeight: 20}

	// Terminal sizes count cells. A row is one line of text plus its grid
	// line.
	TerminalSizes        = Sizes{RowHeight: 2, ColumnWidth: 12, RowHeaderWidth: 6, ColumnHeaderHeight: 2}
	TerminalMinimumSizes = Sizes{RowHeight: 2, ColumnWidth: 3, RowHeaderWidth: 3, ColumnHeaderHeight: 2}
)

// CopyHeaders selects the header regions included in copied text.
type CopyHeaders string

const (
	CopyHeadersNone   CopyHeaders = "none"
	CopyHeadersRow    CopyHeaders = "row"
	CopyHeadersColumn CopyHeaders = "column"
	CopyHeadersAll    CopyHeaders = "all"
)

// CopyConfig controls CopyToClipboard.
type CopyConfig struct {
	Separator string
	Format    render.Formatter
	Headers   CopyHeaders
	// WarningThreshold is the cell count above which the user is asked to
	// confirm the copy.
	WarningThreshold int
}

// DefaultCopyConfig copies tab separated values without headers.
func DefaultCopyConfig() CopyConfig {
	return CopyConfig{
		Separator:        "\t",
		Format:           render.FormatGeneric(""),
		Headers:          CopyHeadersNone,
		WarningThreshold: 1e6,
	}
}

// Options configure New. Zero values select the defaults.
type Options struct {
	Style            *Style
	DefaultSizes     *Sizes
	MinimumSizes     *Sizes
	HeaderVisibility HeaderVisibility
	CellRenderers    *render.RendererMap
	CopyConfig       *CopyConfig

	StretchLastRow    bool
	StretchLastColumn bool

	// ScrollMargin is the extra distance ScrollToRow and friends leave
	// between the target and the page edge. Defaults to 10.
	ScrollMargin int
	// CanvasStep is the increment the backing surfaces grow and shrink by.
	// Defaults to 512.
	CanvasStep int
	// ScrollBarSize is the thickness of a visible scroll bar. Defaults
	// to 15.
	ScrollBarSize int

	Metrics    SurfaceMetrics
	Loop       *msgloop.Loop
	// Clock runs the autoselect and notification timers. Without one the
	// timers never fire.
	Clock      msgloop.Clock
	NewSurface func(width, height int) gfx.Surface

	Clipboard Clipboard
	Dialogs   Dialogs

	// OnError receives panics recovered while painting cells.
	OnError func(error)
}
