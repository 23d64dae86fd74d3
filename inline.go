package notemark

// hasPrefixAt reports whether src continues with the literal s at pos.
// The prefixes matched here are all ASCII, so byte indexing is fine.
func hasPrefixAt(src []rune, pos int, s string) bool {
	if pos+len(s) > len(src) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if src[pos+i] != rune(s[i]) {
			return false
		}
	}
	return true
}

// scanLink handles [text](url) and [text](url "title"). The visible text
// may itself carry emphasis and strikethrough markers, which are stripped
// into style annotations. An empty URL demotes the whole construct to
// plain text with no link annotation.
func (st *parseState) scanLink() bool {
	src := st.src
	textStart := st.pos + 1
	textEnd := -1
	for i := textStart; i < len(src); i++ {
		if src[i] == ']' {
			textEnd = i
			break
		}
		if src[i] == '\n' {
			return false
		}
	}
	if textEnd < 0 || textEnd+1 >= len(src) || src[textEnd+1] != '(' {
		return false
	}
	urlStart := textEnd + 2
	j := urlStart
	for j < len(src) && src[j] != ')' {
		if src[j] == '"' || src[j] == '\'' {
			quote := src[j]
			j++
			for j < len(src) && src[j] != quote {
				j++
			}
			if j < len(src) {
				j++
			}
			continue
		}
		if src[j] == '\n' {
			return false
		}
		j++
	}
	if j >= len(src) {
		return false
	}
	closeParen := j
	urlEnd := urlStart
	for urlEnd < closeParen && src[urlEnd] != ' ' && src[urlEnd] != '"' && src[urlEnd] != '\'' {
		urlEnd++
	}

	base := len(st.out)
	clean := st.stripLinkStyles(src[textStart:textEnd], base)
	if urlEnd > urlStart {
		st.links = append(st.links, Link{
			Text:     string(clean),
			URL:      string(src[urlStart:urlEnd]),
			StartPos: base,
			EndPos:   base + len(clean),
		})
	}
	st.out = append(st.out, clean...)
	st.pos = closeParen + 1
	return true
}

// stripLinkStyles removes emphasis and strikethrough markers from link
// text, recording the spans at basePos-relative offsets. Markers act as
// toggles; an unclosed marker simply leaves no span.
func (st *parseState) stripLinkStyles(src []rune, basePos int) []rune {
	clean := make([]rune, 0, len(src))
	boldItalic, bold, italic, strike := -1, -1, -1, -1
	toggle := func(open *int, t StyleType) {
		if *open < 0 {
			*open = len(clean)
			return
		}
		if len(clean) > *open {
			st.styles = append(st.styles, Style{
				Type:     t,
				StartPos: basePos + *open,
				EndPos:   basePos + len(clean),
			})
		}
		*open = -1
	}
	i := 0
	for i < len(src) {
		r := src[i]
		switch {
		case i+2 < len(src) && (r == '*' || r == '_') && src[i+1] == r && src[i+2] == r:
			toggle(&boldItalic, StyleBoldItalic)
			i += 3
		case i+1 < len(src) && (r == '*' || r == '_') && src[i+1] == r:
			toggle(&bold, StyleBold)
			i += 2
		case i+1 < len(src) && r == '~' && src[i+1] == '~':
			toggle(&strike, StyleStrikethrough)
			i += 2
		case r == '*' || r == '_':
			toggle(&italic, StyleItalic)
			i++
		default:
			clean = append(clean, r)
			i++
		}
	}
	return clean
}

// scanCode handles `code`. Empty spans stay literal.
func (st *parseState) scanCode() bool {
	src := st.src
	i := st.pos + 1
	for i < len(src) && src[i] != '`' {
		i++
	}
	if i >= len(src) || i == st.pos+1 {
		return false
	}
	start := len(st.out)
	st.out = append(st.out, src[st.pos+1:i]...)
	st.styles = append(st.styles, Style{
		Type:     StyleCode,
		StartPos: start,
		EndPos:   len(st.out),
	})
	st.pos = i + 1
	return true
}

// scanEmphasis handles runs of one to three '*' or '_' closed by a run of
// the same marker and length. The opening run must be followed by a
// non-space character. Content is reparsed for nested emphasis and
// strikethrough, so **_text_** yields bold over italic.
func (st *parseState) scanEmphasis() bool {
	src := st.src
	marker := src[st.pos]
	n := 0
	i := st.pos
	for i < len(src) && src[i] == marker && n < 3 {
		n++
		i++
	}
	if i >= len(src) || src[i] == ' ' || src[i] == '\n' || src[i] == '\r' {
		return false
	}
	textStart := i
	for j := textStart; j < len(src); j++ {
		if src[j] != marker {
			continue
		}
		cnt := 0
		k := j
		for k < len(src) && src[k] == marker && cnt < n {
			cnt++
			k++
		}
		if cnt != n || j == textStart {
			continue
		}
		base := len(st.out)
		st.parseNested(src[textStart:j])
		var t StyleType
		switch n {
		case 3:
			t = StyleBoldItalic
		case 2:
			t = StyleBold
		default:
			t = StyleItalic
		}
		st.styles = append(st.styles, Style{Type: t, StartPos: base, EndPos: len(st.out)})
		st.pos = k
		return true
	}
	return false
}

// parseNested runs the emphasis and strikethrough extractors over a
// content slice, appending to the display text. Beyond maxTagDepth the
// content is kept literal.
func (st *parseState) parseNested(content []rune) {
	if st.depth >= maxTagDepth {
		st.out = append(st.out, content...)
		return
	}
	st.depth++
	savedSrc, savedPos := st.src, st.pos
	st.src, st.pos = content, 0
	for st.pos < len(st.src) {
		r := st.src[st.pos]
		if (r == '*' || r == '_') && st.scanEmphasis() {
			continue
		}
		if r == '~' && st.scanStrikethrough() {
			continue
		}
		st.out = append(st.out, r)
		st.pos++
	}
	st.src, st.pos = savedSrc, savedPos
	st.depth--
}

// scanStrikethrough handles ~~text~~. Content is kept literal; empty or
// unterminated spans stay literal.
func (st *parseState) scanStrikethrough() bool {
	src := st.src
	if !hasPrefixAt(src, st.pos, "~~") {
		return false
	}
	i := st.pos + 2
	for i+1 < len(src) && !(src[i] == '~' && src[i+1] == '~') {
		i++
	}
	if i+1 >= len(src) || i == st.pos+2 {
		return false
	}
	start := len(st.out)
	st.out = append(st.out, src[st.pos+2:i]...)
	st.styles = append(st.styles, Style{
		Type:     StyleStrikethrough,
		StartPos: start,
		EndPos:   len(st.out),
	})
	st.pos = i + 2
	return true
}

func hexNibble(r rune) (uint8, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint8(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint8(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint8(r-'A') + 10, true
	}
	return 0, false
}

func hexByteAt(src []rune, pos int) (uint8, bool) {
	if pos+1 >= len(src) {
		return 0, false
	}
	hi, ok := hexNibble(src[pos])
	if !ok {
		return 0, false
	}
	lo, ok := hexNibble(src[pos+1])
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

// scanColorTag handles <color:#rrggbb[_#rrggbb...]>content</color>.
// Content may nest font tags, emphasis and strikethrough but not another
// color tag directly. A missing closer rolls everything back so the tag
// stays literal.
func (st *parseState) scanColorTag() bool {
	src := st.src
	if st.depth >= maxTagDepth || !hasPrefixAt(src, st.pos, "<color:") {
		return false
	}
	i := st.pos + len("<color:")
	var colors []RGB
	for {
		if i >= len(src) || src[i] != '#' {
			return false
		}
		var c RGB
		var ok bool
		if c.R, ok = hexByteAt(src, i+1); !ok {
			return false
		}
		if c.G, ok = hexByteAt(src, i+3); !ok {
			return false
		}
		if c.B, ok = hexByteAt(src, i+5); !ok {
			return false
		}
		if len(colors) < MaxGradientColors {
			colors = append(colors, c)
		}
		i += 7
		if i < len(src) && src[i] == '_' {
			i++
			continue
		}
		break
	}
	if i >= len(src) || src[i] != '>' {
		return false
	}

	m := st.mark()
	savedPos := st.pos
	tagStart := len(st.out)
	st.pos = i + 1
	st.depth++
	for st.pos < len(st.src) {
		if hasPrefixAt(st.src, st.pos, "</color>") {
			st.depth--
			st.pos += len("</color>")
			st.colorTags = append(st.colorTags, ColorTag{
				Colors:   colors,
				StartPos: tagStart,
				EndPos:   len(st.out),
			})
			return true
		}
		r := st.src[st.pos]
		if r == '<' && st.scanFontTag() {
			continue
		}
		if (r == '*' || r == '_') && st.scanEmphasis() {
			continue
		}
		if r == '~' && st.scanStrikethrough() {
			continue
		}
		st.out = append(st.out, r)
		st.pos++
	}
	st.depth--
	st.restore(m)
	st.pos = savedPos
	return false
}

// scanFontTag handles <font:Name>content</font>. The name is trimmed and
// rejected when empty or implausibly long. Content may nest color tags,
// emphasis and strikethrough. A missing closer rolls everything back.
func (st *parseState) scanFontTag() bool {
	src := st.src
	if st.depth >= maxTagDepth || !hasPrefixAt(src, st.pos, "<font:") {
		return false
	}
	i := st.pos + len("<font:")
	nameStart := i
	for i < len(src) && src[i] != '>' && src[i] != '\n' && src[i] != '<' {
		i++
	}
	if i >= len(src) || src[i] != '>' {
		return false
	}
	name := trimRunes(src[nameStart:i])
	if len(name) == 0 || len(name) > maxFontNameLen {
		return false
	}

	m := st.mark()
	savedPos := st.pos
	tagStart := len(st.out)
	st.pos = i + 1
	st.depth++
	for st.pos < len(st.src) {
		if hasPrefixAt(st.src, st.pos, "</font>") {
			st.depth--
			st.pos += len("</font>")
			st.fontTags = append(st.fontTags, FontTag{
				Name:     string(name),
				StartPos: tagStart,
				EndPos:   len(st.out),
			})
			return true
		}
		r := st.src[st.pos]
		if r == '<' && st.scanColorTag() {
			continue
		}
		if (r == '*' || r == '_') && st.scanEmphasis() {
			continue
		}
		if r == '~' && st.scanStrikethrough() {
			continue
		}
		st.out = append(st.out, r)
		st.pos++
	}
	st.depth--
	st.restore(m)
	st.pos = savedPos
	return false
}

func trimRunes(src []rune) []rune {
	start, end := 0, len(src)
	for start < end && (src[start] == ' ' || src[start] == '\t') {
		start++
	}
	for end > start && (src[end-1] == ' ' || src[end-1] == '\t') {
		end--
	}
	return src[start:end]
}
