package notemark

import "image"

// StyleType identifies one kind of inline style span.
type StyleType uint8

const (
	StyleNone StyleType = iota
	StyleItalic
	StyleBold
	StyleBoldItalic
	StyleCode
	StyleStrikethrough
)

func (t StyleType) String() string {
	switch t {
	case StyleItalic:
		return "italic"
	case StyleBold:
		return "bold"
	case StyleBoldItalic:
		return "bolditalic"
	case StyleCode:
		return "code"
	case StyleStrikethrough:
		return "strikethrough"
	default:
		return "none"
	}
}

// AlertType classifies a blockquote carrying GitHub-style alert syntax
// ("> [!NOTE]" and friends). AlertNone is a plain quote.
type AlertType uint8

const (
	AlertNone AlertType = iota
	AlertNote
	AlertTip
	AlertImportant
	AlertWarning
	AlertCaution
)

// Link is one [text](url) occurrence. StartPos/EndPos are rune offsets
// into Result.DisplayText covering the visible text. Rect is filled in
// by a render pass and stays zero until then.
type Link struct {
	Text     string
	URL      string
	StartPos int
	EndPos   int
	Rect     image.Rectangle
}

// Heading covers the text of one heading line. Level is 1 through 6.
type Heading struct {
	Level    int
	StartPos int
	EndPos   int
}

// Style covers one inline style span in the display text.
type Style struct {
	Type     StyleType
	StartPos int
	EndPos   int
}

// ListItem covers one list item line, bullet or ordered marker included.
// Task items additionally carry their zero-based checkbox ordinal and,
// after a render pass, the rectangle of the checkbox glyph.
type ListItem struct {
	StartPos    int
	EndPos      int
	IndentLevel int
	IsTask      bool
	Checked     bool
	TaskIndex   int
	MarkRect    image.Rectangle
}

// Blockquote covers one quoted line, alert prefix included when present.
type Blockquote struct {
	Alert    AlertType
	StartPos int
	EndPos   int
}

// MaxGradientColors bounds how many color stops one <color:> tag keeps.
// Extra stops are dropped.
const MaxGradientColors = 8

// RGB is one gradient stop.
type RGB struct {
	R, G, B uint8
}

// ColorTag covers the content of one <color:#rrggbb[_#rrggbb...]> tag.
type ColorTag struct {
	Colors   []RGB
	StartPos int
	EndPos   int
}

// FontTag covers the content of one <font:Name> tag.
type FontTag struct {
	Name     string
	StartPos int
	EndPos   int
}

// Result is the outcome of one Parse. DisplayText is the input with all
// recognized markup removed; the annotation slices refer into it by rune
// offset. All ranges are half-open [StartPos, EndPos). Results hold a
// pooled parse state, so release them with Free when done; after Free the
// Result and its slices must not be touched.
type Result struct {
	DisplayText string
	Links       []Link
	Headings    []Heading
	Styles      []Style
	ListItems   []ListItem
	Blockquotes []Blockquote
	ColorTags   []ColorTag
	FontTags    []FontTag

	state *parseState
}

// LinkAt returns the index of the link covering rune position pos,
// or -1 when none does.
func (r *Result) LinkAt(pos int) int {
	for i := range r.Links {
		if pos >= r.Links[i].StartPos && pos < r.Links[i].EndPos {
			return i
		}
	}
	return -1
}

// HeadingAt returns the index of the heading covering pos, or -1.
func (r *Result) HeadingAt(pos int) int {
	for i := range r.Headings {
		if pos >= r.Headings[i].StartPos && pos < r.Headings[i].EndPos {
			return i
		}
	}
	return -1
}

// StyleAt returns the index of the style span covering pos, or -1.
// When spans from nested emphasis overlap, the innermost one wins
// because inner spans are recorded first.
func (r *Result) StyleAt(pos int) int {
	for i := range r.Styles {
		if pos >= r.Styles[i].StartPos && pos < r.Styles[i].EndPos {
			return i
		}
	}
	return -1
}

// ListItemAt returns the index of the list item covering pos, or -1.
func (r *Result) ListItemAt(pos int) int {
	for i := range r.ListItems {
		if pos >= r.ListItems[i].StartPos && pos < r.ListItems[i].EndPos {
			return i
		}
	}
	return -1
}

// BlockquoteAt returns the index of the blockquote covering pos, or -1.
func (r *Result) BlockquoteAt(pos int) int {
	for i := range r.Blockquotes {
		if pos >= r.Blockquotes[i].StartPos && pos < r.Blockquotes[i].EndPos {
			return i
		}
	}
	return -1
}

// ColorTagAt returns the index of the color tag covering pos, or -1.
func (r *Result) ColorTagAt(pos int) int {
	for i := range r.ColorTags {
		if pos >= r.ColorTags[i].StartPos && pos < r.ColorTags[i].EndPos {
			return i
		}
	}
	return -1
}

// FontTagAt returns the index of the font tag covering pos, or -1.
// With nested font tags the innermost one wins.
func (r *Result) FontTagAt(pos int) int {
	for i := range r.FontTags {
		if pos >= r.FontTags[i].StartPos && pos < r.FontTags[i].EndPos {
			return i
		}
	}
	return -1
}
