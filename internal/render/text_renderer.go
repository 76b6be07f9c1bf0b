package render

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"dgrid/internal/gfx"
)

type VerticalAlignment string

const (
	AlignTop    VerticalAlignment = "top"
	AlignCenter VerticalAlignment = "center"
	AlignBottom VerticalAlignment = "bottom"
)

type HorizontalAlignment string

const (
	AlignLeft   HorizontalAlignment = "left"
	AlignMiddle HorizontalAlignment = "center"
	AlignRight  HorizontalAlignment = "right"
)

// ElideDirection selects which end of overlong text is replaced with an
// ellipsis.
type ElideDirection string

const (
	ElideLeft  ElideDirection = "left"
	ElideRight ElideDirection = "right"
	ElideNone  ElideDirection = "none"
)

const ellipsis = "…"

// Padding positions text inside a cell.
type Padding struct {
	Inset  float64 // distance of left or right aligned text from the cell edge
	Gutter float64 // width removed from the text box for left or right alignment
	Top    float64 // baseline offset below the font height for top alignment
	Bottom float64 // baseline offset above the cell bottom for bottom alignment
}

// DefaultPadding suits pixel surfaces.
var DefaultPadding = Padding{Inset: 8, Gutter: 14, Top: 2, Bottom: 2}

// TerminalPadding suits surfaces where one pixel is one terminal cell and
// the last row of each cell is its grid line.
var TerminalPadding = Padding{Inset: 1, Gutter: 3, Top: 0, Bottom: 1}

// TextRenderer draws cell values as plain text.
type TextRenderer struct {
	Font                Option[string]
	TextColor           Option[gfx.Color]
	BackgroundColor     Option[gfx.Color]
	VerticalAlignment   Option[VerticalAlignment]
	HorizontalAlignment Option[HorizontalAlignment]
	ElideDirection      Option[ElideDirection]
	WrapText            Option[bool]
	Format              Formatter
	Padding             Padding

	fontHeights map[string]float64
}

// NewTextRenderer returns a renderer drawing black, vertically centered,
// left aligned text elided on the right.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{
		Font:                Static("12px sans-serif"),
		TextColor:           Static(gfx.Color("#000000")),
		VerticalAlignment:   Static(AlignCenter),
		HorizontalAlignment: Static(AlignLeft),
		ElideDirection:      Static(ElideRight),
		WrapText:            Static(false),
		Format:              FormatGeneric(""),
		Padding:             DefaultPadding,
	}
}

func (r *TextRenderer) Paint(gc *gfx.GraphicsContext, config CellConfig) {
	r.DrawBackground(gc, config)
	r.DrawText(gc, config)
}

// DrawBackground fills the cell when a background color resolves.
func (r *TextRenderer) DrawBackground(gc *gfx.GraphicsContext, config CellConfig) {
	color := r.BackgroundColor.Resolve(config)
	if color == "" {
		return
	}
	gc.SetFillStyle(color)
	gc.FillRect(float64(config.X), float64(config.Y), float64(config.Width), float64(config.Height))
}

// DrawText lays out and draws the formatted value.
func (r *TextRenderer) DrawText(gc *gfx.GraphicsContext, config CellConfig) {
	font := r.Font.Resolve(config)
	if font == "" {
		return
	}
	color := r.TextColor.Resolve(config)
	if color == "" {
		return
	}
	format := r.Format
	if format == nil {
		format = FormatGeneric("")
	}
	text := format(config)
	if text == "" {
		return
	}

	vAlign := r.VerticalAlignment.Resolve(config)
	if vAlign == "" {
		vAlign = AlignCenter
	}
	hAlign := r.HorizontalAlignment.Resolve(config)
	if hAlign == "" {
		hAlign = AlignLeft
	}
	elide := r.ElideDirection.Resolve(config)
	wrap := r.WrapText.Resolve(config)

	x, y := float64(config.X), float64(config.Y)
	width, height := float64(config.Width), float64(config.Height)

	var boxHeight float64
	if vAlign == AlignCenter {
		boxHeight = height - 1
	} else {
		boxHeight = height - r.Padding.Bottom
	}
	if boxHeight <= 0 {
		return
	}

	textHeight := r.fontHeight(gc, font)

	var textX, textY, boxWidth float64
	switch vAlign {
	case AlignTop:
		textY = y + r.Padding.Top + textHeight
	case AlignCenter:
		textY = y + height/2 + textHeight/2
	case AlignBottom:
		textY = y + height - r.Padding.Bottom
	default:
		panic("unreachable")
	}
	switch hAlign {
	case AlignLeft:
		textX = x + r.Padding.Inset
		boxWidth = width - r.Padding.Gutter
	case AlignMiddle:
		textX = x + width/2
		boxWidth = width
	case AlignRight:
		textX = x + width - r.Padding.Inset
		boxWidth = width - r.Padding.Gutter
	default:
		panic("unreachable")
	}

	if textHeight > boxHeight {
		gc.BeginPath()
		gc.Rect(x, y, width, height-1)
		gc.Clip()
	}

	gc.SetFont(font)
	gc.SetFillStyle(color)
	gc.SetTextAlign(string(hAlign))
	gc.SetTextBaseline("bottom")

	if elide == ElideNone && !wrap {
		gc.FillText(text, textX, textY)
		return
	}

	textWidth := gc.MeasureText(text).Width

	if wrap && textWidth > boxWidth {
		gc.BeginPath()
		gc.Rect(x, y, width, height-1)
		gc.Clip()

		words := splitWords(text)
		line := words[0]
		words = words[1:]
		curY := textY

		if len(words) == 0 {
			lineWidth := gc.MeasureText(line).Width
			for lineWidth > boxWidth && line != "" {
				clusters := graphemes(line)
				for i := len(clusters); i > 0; i-- {
					head := strings.Join(clusters[:i], "")
					if gc.MeasureText(head).Width < boxWidth || i == 1 {
						line = strings.Join(clusters[i:], "")
						lineWidth = gc.MeasureText(line).Width
						gc.FillText(head, textX, curY)
						curY += textHeight
						break
					}
				}
			}
		} else {
			for _, word := range words {
				next := line + " " + word
				if gc.MeasureText(next).Width > boxWidth {
					gc.FillText(line, textX, curY)
					curY += textHeight
					line = word
				} else {
					line = next
				}
			}
		}
		gc.FillText(line, textX, curY)
		return
	}

	switch elide {
	case ElideRight:
		for textWidth > boxWidth {
			clusters := graphemes(text)
			n := len(clusters)
			if n <= 1 {
				break
			}
			if n > 4 && textWidth >= 2*boxWidth {
				text = strings.Join(clusters[:n/2+1], "") + ellipsis
			} else {
				text = strings.Join(clusters[:n-2], "") + ellipsis
			}
			textWidth = gc.MeasureText(text).Width
		}
	case ElideLeft:
		for textWidth > boxWidth {
			clusters := graphemes(text)
			n := len(clusters)
			if n <= 1 {
				break
			}
			if n > 4 && textWidth >= 2*boxWidth {
				text = ellipsis + strings.Join(clusters[n/2:], "")
			} else {
				text = ellipsis + strings.Join(clusters[2:], "")
			}
			textWidth = gc.MeasureText(text).Width
		}
	}

	gc.FillText(text, textX, textY)
}

// fontHeight measures font once and caches the result.
func (r *TextRenderer) fontHeight(gc *gfx.GraphicsContext, font string) float64 {
	if h, ok := r.fontHeights[font]; ok {
		return h
	}
	gc.Save()
	gc.SetFont(font)
	h := gc.MeasureText("M").Height
	gc.Restore()
	if h <= 0 {
		h = fontSize(font)
	}
	if r.fontHeights == nil {
		r.fontHeights = map[string]float64{}
	}
	r.fontHeights[font] = h
	return h
}

// fontSize extracts the pixel size from a CSS font string, "12px" in
// "bold 12px sans-serif".
func fontSize(font string) float64 {
	for _, part := range strings.Fields(font) {
		if size, ok := strings.CutSuffix(part, "px"); ok {
			if v, err := strconv.ParseFloat(size, 64); err == nil {
				return v
			}
		}
	}
	return 12
}

// splitWords splits text at single whitespace characters that precede a
// word character.
func splitWords(text string) []string {
	runes := []rune(text)
	var words []string
	start := 0
	for i := 0; i+1 < len(runes); i++ {
		if unicode.IsSpace(runes[i]) && isWordRune(runes[i+1]) {
			words = append(words, string(runes[start:i]))
			start = i + 1
		}
	}
	return append(words, string(runes[start:]))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func graphemes(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
