package notemark

import "sync"

// MaxInputSize is the largest input Parse will process. Oversized input
// yields an empty Result rather than an error, matching the fallback for
// malformed markup.
const MaxInputSize = 1 << 20

// maxTagDepth bounds recursion through nested <color:>/<font:> tags and
// emphasis content. Deeper nesting is kept as literal text.
const maxTagDepth = 8

// maxFontNameLen bounds the name accepted from a <font:> tag.
const maxFontNameLen = 64

var statePool = sync.Pool{
	New: func() any { return new(parseState) },
}

// parseState is the working set of one Parse call. All slices are reused
// across parses via statePool; Free returns the state to the pool.
type parseState struct {
	src []rune
	pos int
	out []rune

	links       []Link
	headings    []Heading
	styles      []Style
	listItems   []ListItem
	blockquotes []Blockquote
	colorTags   []ColorTag
	fontTags    []FontTag

	depth     int
	taskCount int
}

func (st *parseState) reset(input string) {
	st.src = append(st.src[:0], []rune(input)...)
	st.pos = 0
	st.out = st.out[:0]
	st.links = st.links[:0]
	st.headings = st.headings[:0]
	st.styles = st.styles[:0]
	st.listItems = st.listItems[:0]
	st.blockquotes = st.blockquotes[:0]
	st.colorTags = st.colorTags[:0]
	st.fontTags = st.fontTags[:0]
	st.depth = 0
	st.taskCount = 0
}

// parseMark snapshots the output and annotation high-water marks so a
// failed tag scan can roll back everything its content loop emitted.
type parseMark struct {
	out       int
	styles    int
	colorTags int
	fontTags  int
}

func (st *parseState) mark() parseMark {
	return parseMark{
		out:       len(st.out),
		styles:    len(st.styles),
		colorTags: len(st.colorTags),
		fontTags:  len(st.fontTags),
	}
}

func (st *parseState) restore(m parseMark) {
	st.out = st.out[:m.out]
	st.styles = st.styles[:m.styles]
	st.colorTags = st.colorTags[:m.colorTags]
	st.fontTags = st.fontTags[:m.fontTags]
}

// Parse strips markup from input and returns the display text with
// positional annotations. It never fails: malformed constructs stay as
// literal text and oversized input yields an empty Result. Pair every
// Parse with a Free.
func Parse(input string) *Result {
	st := statePool.Get().(*parseState)
	if len(input) > MaxInputSize {
		st.reset("")
		return &Result{state: st}
	}
	st.reset(input)
	st.run()
	return &Result{
		DisplayText: string(st.out),
		Links:       st.links,
		Headings:    st.headings,
		Styles:      st.styles,
		ListItems:   st.listItems,
		Blockquotes: st.blockquotes,
		ColorTags:   st.colorTags,
		FontTags:    st.fontTags,
		state:       st,
	}
}

// Free releases the Result's pooled parse state. The Result and its
// annotation slices must not be used afterwards. Free on nil or an
// already freed Result is a no-op.
func Free(r *Result) {
	if r == nil || r.state == nil {
		return
	}
	statePool.Put(r.state)
	*r = Result{}
}

// lineTracker carries the annotation index for a block construct whose
// end offset is only known once its line ends.
type lineTracker struct {
	active bool
	index  int
}

func (st *parseState) run() {
	atLineStart := true
	inCodeBlock := false
	var list, heading lineTracker

	closeLine := func() {
		if list.active {
			st.listItems[list.index].EndPos = len(st.out)
			list = lineTracker{}
		}
		if heading.active {
			st.headings[heading.index].EndPos = len(st.out)
			heading = lineTracker{}
		}
	}

	for st.pos < len(st.src) {
		if atLineStart && st.scanFence(&inCodeBlock) {
			continue
		}
		if inCodeBlock {
			st.scanCodeBlockLine()
			continue
		}
		if atLineStart {
			switch {
			case st.scanRule():
				atLineStart = false
				continue
			case st.scanListItem(&list):
				atLineStart = false
				continue
			case st.scanHeading(&heading):
				atLineStart = false
				continue
			case st.scanBlockquote():
				atLineStart = false
				continue
			}
		}
		if st.scanInline() {
			atLineStart = false
			continue
		}
		r := st.src[st.pos]
		if r == '\n' || r == '\r' {
			closeLine()
			atLineStart = true
		} else {
			atLineStart = false
		}
		st.out = append(st.out, r)
		st.pos++
	}
	closeLine()
}

// scanInline tries every inline extractor at the cursor. On success the
// cursor and output have advanced past the construct.
func (st *parseState) scanInline() bool {
	switch st.src[st.pos] {
	case '<':
		return st.scanColorTag() || st.scanFontTag()
	case '[':
		return st.scanLink()
	case '`':
		return st.scanCode()
	case '*', '_':
		return st.scanEmphasis()
	case '~':
		return st.scanStrikethrough()
	}
	return false
}
