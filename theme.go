package notemark

import (
	"image/color"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette carries the foreground colors shared by the raster renderer in
// the layout subpackage and by RenderANSI.
type Palette struct {
	Normal    color.RGBA
	Link      color.RGBA
	Code      color.RGBA
	Quote     color.RGBA
	Note      color.RGBA
	Tip       color.RGBA
	Important color.RGBA
	Warning   color.RGBA
	Caution   color.RGBA
}

var builtinPalettes = map[string]Palette{
	"default": {
		Normal:    color.RGBA{0, 0, 0, 255},
		Link:      color.RGBA{0, 102, 204, 255},
		Code:      color.RGBA{200, 0, 0, 255},
		Quote:     color.RGBA{100, 100, 100, 255},
		Note:      color.RGBA{31, 111, 235, 255},
		Tip:       color.RGBA{26, 127, 55, 255},
		Important: color.RGBA{130, 80, 223, 255},
		Warning:   color.RGBA{154, 103, 0, 255},
		Caution:   color.RGBA{207, 34, 46, 255},
	},
	"dark": {
		Normal:    color.RGBA{220, 220, 220, 255},
		Link:      color.RGBA{88, 166, 255, 255},
		Code:      color.RGBA{255, 123, 114, 255},
		Quote:     color.RGBA{139, 148, 158, 255},
		Note:      color.RGBA{88, 166, 255, 255},
		Tip:       color.RGBA{63, 185, 80, 255},
		Important: color.RGBA{163, 113, 247, 255},
		Warning:   color.RGBA{210, 153, 34, 255},
		Caution:   color.RGBA{248, 81, 73, 255},
	},
}

// AvailablePalettes returns the names of built-in palettes.
func AvailablePalettes() []string {
	names := make([]string, 0, len(builtinPalettes))
	for name := range builtinPalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PaletteByName returns a built-in palette by name. An empty name yields
// the default palette.
func PaletteByName(name string) (Palette, bool) {
	if name == "" {
		return builtinPalettes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	p, ok := builtinPalettes[normalized]
	return p, ok
}

// DefaultPalette returns the default built-in palette.
func DefaultPalette() Palette {
	return builtinPalettes["default"]
}

// Alert maps an alert type to its quote color. AlertNone yields the plain
// quote gray.
func (p Palette) Alert(t AlertType) color.RGBA {
	switch t {
	case AlertNote:
		return p.Note
	case AlertTip:
		return p.Tip
	case AlertImportant:
		return p.Important
	case AlertWarning:
		return p.Warning
	case AlertCaution:
		return p.Caution
	default:
		return p.Quote
	}
}

// ColorAt returns the gradient color for rune position pos inside the
// tag's range. Single-stop tags are flat; multi-stop tags interpolate
// linearly in RGB across the covered text. Positions outside the range
// clamp to the nearest stop.
func (t ColorTag) ColorAt(pos int) color.RGBA {
	n := len(t.Colors)
	if n == 0 {
		return color.RGBA{A: 255}
	}
	span := t.EndPos - t.StartPos - 1
	rel := pos - t.StartPos
	if n == 1 || span <= 0 || rel <= 0 {
		return stopRGBA(t.Colors[0])
	}
	if rel >= span {
		return stopRGBA(t.Colors[n-1])
	}
	scaled := float64(rel) / float64(span) * float64(n-1)
	seg := int(scaled)
	if seg >= n-1 {
		return stopRGBA(t.Colors[n-1])
	}
	a := stopColorful(t.Colors[seg])
	b := stopColorful(t.Colors[seg+1])
	blended := a.BlendRgb(b, scaled-float64(seg)).Clamped()
	return color.RGBA{
		R: uint8(blended.R*255 + 0.5),
		G: uint8(blended.G*255 + 0.5),
		B: uint8(blended.B*255 + 0.5),
		A: 255,
	}
}

func stopRGBA(s RGB) color.RGBA {
	return color.RGBA{R: s.R, G: s.G, B: s.B, A: 255}
}

func stopColorful(s RGB) colorful.Color {
	return colorful.Color{
		R: float64(s.R) / 255,
		G: float64(s.G) / 255,
		B: float64(s.B) / 255,
	}
}
