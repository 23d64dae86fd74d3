package layout

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/cadvik/notemark"
)

const (
	// wrapMargin keeps a small gutter at the right edge; a character
	// that would cross bounds.Max.X-wrapMargin wraps before placement.
	wrapMargin = 10

	// listIndentUnit indents a list item by one unit plus one per
	// nesting level.
	listIndentUnit = 20

	// quoteIndent shifts blockquote lines right.
	quoteIndent = 20
)

// headingScale holds the font size multiplier per heading level;
// index 0 is body text.
var headingScale = [7]float64{1, 1.6, 1.4, 1.2, 1.1, 1.0, 1.0}

// Engine lays out parsed display text inside a rectangle. It reuses the
// Fonts cache across calls and is not safe for concurrent use.
type Engine struct {
	Fonts   *Fonts
	Palette notemark.Palette
}

// NewEngine pairs a font cache with a palette.
func NewEngine(f *Fonts, p notemark.Palette) *Engine {
	return &Engine{Fonts: f, Palette: p}
}

// formatKey is the context that decides the active font face. The walker
// rebuilds the face whenever the key changes between characters.
type formatKey struct {
	headingLevel int
	styleType    notemark.StyleType
	inQuote      bool
	family       string
}

// Measure returns the pixel height the document occupies when laid out
// inside bounds. It runs the same walk as Render without drawing, so the
// two always agree.
func (e *Engine) Measure(res *notemark.Result, bounds image.Rectangle) int {
	return e.walk(res, bounds, nil)
}

// Render draws the document into dst inside bounds and returns the
// height used. It also grows each Link.Rect to the union of its glyph
// cells and records each task item's checkbox cell in MarkRect, both in
// dst coordinates.
func (e *Engine) Render(dst draw.Image, res *notemark.Result, bounds image.Rectangle) int {
	return e.walk(res, bounds, dst)
}

// RenderImage measures res at the given width, allocates an image tall
// enough plus the margin on every side, fills it with bg and renders
// into it.
func (e *Engine) RenderImage(res *notemark.Result, width, margin int, bg color.Color) *image.RGBA {
	if margin < 0 {
		margin = 0
	}
	inner := image.Rect(margin, margin, width-margin, 1<<24)
	height := e.Measure(res, inner)
	img := image.NewRGBA(image.Rect(0, 0, width, height+2*margin))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	e.Render(img, res, inner)
	return img
}

func (e *Engine) walk(res *notemark.Result, bounds image.Rectangle, dst draw.Image) int {
	text := []rune(res.DisplayText)
	x, y := bounds.Min.X, bounds.Min.Y
	cur := formatKey{}
	face := e.Fonts.Face(FaceQuery{Scale: 1})
	lineHeight := face.Metrics().Height.Ceil()
	lastList, lastQuote := -1, -1

	for i, r := range text {
		if r == '\n' {
			cur = formatKey{}
			face = e.Fonts.Face(FaceQuery{Scale: 1})
			x = bounds.Min.X
			y += lineHeight
			lineHeight = face.Metrics().Height.Ceil()
			lastList, lastQuote = -1, -1
			continue
		}

		linkIdx := res.LinkAt(i)
		headIdx := res.HeadingAt(i)
		styleIdx := res.StyleAt(i)
		listIdx := res.ListItemAt(i)
		quoteIdx := res.BlockquoteAt(i)
		colorIdx := res.ColorTagAt(i)
		fontIdx := res.FontTagAt(i)

		if listIdx >= 0 && listIdx != lastList {
			if i == res.ListItems[listIdx].StartPos {
				x += listIndentUnit * (1 + res.ListItems[listIdx].IndentLevel)
			}
			lastList = listIdx
		}
		if quoteIdx >= 0 && quoteIdx != lastQuote {
			if i == res.Blockquotes[quoteIdx].StartPos {
				x += quoteIndent
			}
			lastQuote = quoteIdx
		}

		key := formatKey{inQuote: quoteIdx >= 0}
		if headIdx >= 0 {
			key.headingLevel = res.Headings[headIdx].Level
		}
		if styleIdx >= 0 {
			key.styleType = res.Styles[styleIdx].Type
		}
		if fontIdx >= 0 {
			key.family = res.FontTags[fontIdx].Name
		}
		if key != cur {
			face = e.faceFor(key)
			if h := face.Metrics().Height.Ceil(); h > lineHeight {
				lineHeight = h
			}
			cur = key
		}

		// start each link with a fresh rect even when the first rune
		// has no glyph, so repeated renders never union stale cells
		if dst != nil && linkIdx >= 0 && i == res.Links[linkIdx].StartPos {
			res.Links[linkIdx].Rect = image.Rectangle{}
		}

		if !face.HasGlyph(r) {
			continue
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		w := adv.Ceil()
		if x+w > bounds.Max.X-wrapMargin && x > bounds.Min.X {
			x = bounds.Min.X
			y += lineHeight
		}
		cell := image.Rect(x, y, x+w, y+lineHeight)

		if dst != nil {
			col := e.charColor(res, i, linkIdx, styleIdx, quoteIdx, colorIdx)
			e.drawRune(dst, r, x, y, face, col)
			if cur.styleType == notemark.StyleStrikethrough {
				mid := y + lineHeight/2
				draw.Draw(dst, image.Rect(x, mid, x+w, mid+1), image.NewUniform(col), image.Point{}, draw.Src)
			}
			if linkIdx >= 0 {
				l := &res.Links[linkIdx]
				l.Rect = l.Rect.Union(cell)
			}
			if listIdx >= 0 {
				item := &res.ListItems[listIdx]
				if item.IsTask && i == item.StartPos {
					item.MarkRect = cell
				}
			}
		}
		x += w
	}
	return y + lineHeight - bounds.Min.Y
}

func (e *Engine) faceFor(key formatKey) *Face {
	q := FaceQuery{Scale: 1, Family: key.family}
	if key.headingLevel > 0 {
		q.Scale = headingScale[key.headingLevel]
		q.Bold = true
	}
	if key.inQuote {
		q.Italic = true
	}
	switch key.styleType {
	case notemark.StyleItalic:
		q.Italic = true
	case notemark.StyleBold:
		q.Bold = true
	case notemark.StyleBoldItalic:
		q.Bold = true
		q.Italic = true
	case notemark.StyleCode:
		q.Mono = true
	}
	return e.Fonts.Face(q)
}

// charColor resolves the foreground with link color first, then color
// tag gradients, inline code, quote tint, and finally normal text.
func (e *Engine) charColor(res *notemark.Result, pos, linkIdx, styleIdx, quoteIdx, colorIdx int) color.Color {
	if linkIdx >= 0 {
		return e.Palette.Link
	}
	if colorIdx >= 0 {
		return res.ColorTags[colorIdx].ColorAt(pos)
	}
	if styleIdx >= 0 && res.Styles[styleIdx].Type == notemark.StyleCode {
		return e.Palette.Code
	}
	if quoteIdx >= 0 {
		return e.Palette.Alert(res.Blockquotes[quoteIdx].Alert)
	}
	return e.Palette.Normal
}

func (e *Engine) drawRune(dst draw.Image, r rune, x, y int, face *Face, col color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(string(r))
}
