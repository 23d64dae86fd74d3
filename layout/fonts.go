// Package layout measures and renders parsed documents into images.
//
// An Engine walks display text character by character, switching font
// faces as the annotation context changes, wrapping at the right edge
// and either counting height (Measure) or drawing glyphs and recording
// clickable rectangles (Render). Both passes share one walker, so a
// surface sized from Measure always fits the subsequent Render.
package layout

import (
	"os"
	"strings"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FaceQuery selects a font face. Mono wins over Family, Family over the
// default family's bold/italic variants.
type FaceQuery struct {
	Scale  float64
	Bold   bool
	Italic bool
	Mono   bool
	Family string
}

type faceKey struct {
	sizeQ  int32 // size in quarter points
	bold   bool
	italic bool
	mono   bool
	family string
}

// Face is a sized font face that can also report glyph coverage.
type Face struct {
	font.Face
	fnt *sfnt.Font
	buf *sfnt.Buffer
}

// HasGlyph reports whether the face's font carries a real glyph for r,
// not the .notdef box.
func (f *Face) HasGlyph(r rune) bool {
	idx, err := f.fnt.GlyphIndex(f.buf, r)
	return err == nil && idx != 0
}

// Fonts caches sized faces over the bundled Go font family, with named
// families resolved from the system when a document asks for one. Not
// safe for concurrent use.
type Fonts struct {
	BasePt float64

	regular    *sfnt.Font
	bold       *sfnt.Font
	italic     *sfnt.Font
	boldItalic *sfnt.Font
	mono       *sfnt.Font

	named map[string]*sfnt.Font // nil entry records a failed lookup
	faces map[faceKey]*Face
	buf   sfnt.Buffer
}

// NewFonts parses the bundled fonts at the given base size in points.
func NewFonts(basePt float64) (*Fonts, error) {
	f := &Fonts{
		BasePt: basePt,
		named:  make(map[string]*sfnt.Font),
		faces:  make(map[faceKey]*Face),
	}
	var err error
	if f.regular, err = opentype.Parse(goregular.TTF); err != nil {
		return nil, err
	}
	if f.bold, err = opentype.Parse(gobold.TTF); err != nil {
		return nil, err
	}
	if f.italic, err = opentype.Parse(goitalic.TTF); err != nil {
		return nil, err
	}
	if f.boldItalic, err = opentype.Parse(gobolditalic.TTF); err != nil {
		return nil, err
	}
	if f.mono, err = opentype.Parse(gomono.TTF); err != nil {
		return nil, err
	}
	return f, nil
}

// Face returns the cached face for a query, creating it on first use.
// Unresolvable named families fall back to the default family.
func (f *Fonts) Face(q FaceQuery) *Face {
	scale := q.Scale
	if scale <= 0 {
		scale = 1
	}
	size := f.BasePt * scale
	key := faceKey{
		sizeQ:  int32(size * 4),
		bold:   q.Bold,
		italic: q.Italic,
		mono:   q.Mono,
		family: strings.ToLower(q.Family),
	}
	if face, ok := f.faces[key]; ok {
		return face
	}

	fnt := f.pick(q)
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// regular at base size parses from known-good bytes
		fnt = f.regular
		face, _ = opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    f.BasePt,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	wrapped := &Face{Face: face, fnt: fnt, buf: &f.buf}
	f.faces[key] = wrapped
	return wrapped
}

func (f *Fonts) pick(q FaceQuery) *sfnt.Font {
	if q.Mono {
		return f.mono
	}
	if q.Family != "" {
		if fnt := f.lookupNamed(q.Family); fnt != nil {
			return fnt
		}
	}
	switch {
	case q.Bold && q.Italic:
		return f.boldItalic
	case q.Bold:
		return f.bold
	case q.Italic:
		return f.italic
	default:
		return f.regular
	}
}

// lookupNamed resolves a system font by name. Misses are cached so each
// name hits the filesystem at most once.
func (f *Fonts) lookupNamed(name string) *sfnt.Font {
	key := strings.ToLower(name)
	if fnt, ok := f.named[key]; ok {
		return fnt
	}
	f.named[key] = nil
	path, err := findfont.Find(name)
	if err != nil {
		path, err = findfont.Find(name + ".ttf")
	}
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil
	}
	f.named[key] = fnt
	return fnt
}
