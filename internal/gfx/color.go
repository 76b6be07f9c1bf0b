package gfx

import (
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Transparent is the fully transparent color.
var Transparent = color.NRGBA{}

var namedColors = map[string]color.NRGBA{
	"transparent": {},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"navy":        {0, 0, 128, 255},
	"teal":        {0, 128, 128, 255},
}

// ParseColor parses a CSS color string. It understands hex notation
// (#rgb, #rrggbb, #rrggbbaa), rgb(), rgba() and a handful of names.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Transparent, false
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}

	if strings.HasPrefix(s, "#") {
		if len(s) == 9 {
			a, err := strconv.ParseUint(s[7:], 16, 8)
			if err != nil {
				return Transparent, false
			}
			c, ok := parseHex(s[:7])
			c.A = uint8(a)
			return c, ok
		}
		return parseHex(s)
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Transparent, false
	}
	fn := s[:open]
	if fn != "rgb" && fn != "rgba" {
		return Transparent, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Transparent, false
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Transparent, false
		}
		channels[i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	alpha := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Transparent, false
		}
		alpha = math.Max(0, math.Min(1, v))
	}
	return color.NRGBA{channels[0], channels[1], channels[2], uint8(math.Round(alpha * 255))}, true
}

func parseHex(s string) (color.NRGBA, bool) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Transparent, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}, true
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{r, g, b, uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))}
}

// Over composites src over dst.
func Over(src, dst color.NRGBA) color.NRGBA {
	if src.A == 0 {
		return dst
	}
	if src.A == 255 || dst.A == 0 {
		return src
	}
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255
	oa := sa + da*(1-sa)
	mixed := toColorful(dst).BlendRgb(toColorful(src), sa/oa)
	return fromColorful(mixed, oa)
}

// WithAlpha scales the alpha channel of c by alpha.
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha >= 1 {
		return c
	}
	c.A = uint8(math.Round(float64(c.A) * math.Max(0, alpha)))
	return c
}

// ColorStop is a gradient stop.
type ColorStop struct {
	Offset float64
	Color  color.NRGBA
}

// LinearGradient is a gradient between two points. Points are in device
// coordinates of the context that created it.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

func (*LinearGradient) isPaint() {}

// AddColorStop adds a stop at offset in [0, 1]. Unparseable colors are
// ignored.
func (g *LinearGradient) AddColorStop(offset float64, css string) {
	c, ok := ParseColor(css)
	if !ok {
		return
	}
	offset = math.Max(0, math.Min(1, offset))
	g.Stops = append(g.Stops, ColorStop{Offset: offset, Color: c})
	sort.SliceStable(g.Stops, func(i, j int) bool { return g.Stops[i].Offset < g.Stops[j].Offset })
}

// ColorAt returns the gradient color at a device point.
func (g *LinearGradient) ColorAt(x, y float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return Transparent
	}
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	length := dx*dx + dy*dy
	t := 0.0
	if length > 0 {
		t = ((x-g.X0)*dx + (y-g.Y0)*dy) / length
	}

	first, last := g.Stops[0], g.Stops[len(g.Stops)-1]
	if t <= first.Offset {
		return first.Color
	}
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		mixed := toColorful(a.Color).BlendRgb(toColorful(b.Color), f)
		alpha := (float64(a.Color.A) + (float64(b.Color.A)-float64(a.Color.A))*f) / 255
		return fromColorful(mixed, alpha)
	}
	return last.Color
}
