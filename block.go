package notemark

import "strings"

var alertKeywords = []struct {
	name   string
	alert  AlertType
	prefix string
}{
	{"NOTE", AlertNote, "NOTE: "},
	{"TIP", AlertTip, "TIP: "},
	{"IMPORTANT", AlertImportant, "IMPORTANT: "},
	{"WARNING", AlertWarning, "WARNING: "},
	{"CAUTION", AlertCaution, "CAUTION: "},
}

// scanFence toggles code-block mode on a ``` line. The opening fence
// swallows its language hint and newline; the closing fence leaves the
// newline so the block is followed by a line break.
func (st *parseState) scanFence(inCodeBlock *bool) bool {
	src := st.src
	i := st.pos
	for i < len(src) && src[i] == ' ' {
		i++
	}
	if !hasPrefixAt(src, i, "```") {
		return false
	}
	i += 3
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if *inCodeBlock {
		*inCodeBlock = false
		st.pos = i
		return true
	}
	*inCodeBlock = true
	if i < len(src) {
		i++
	}
	st.pos = i
	return true
}

// scanCodeBlockLine copies one fenced line verbatim, newline included,
// and styles its content as code.
func (st *parseState) scanCodeBlockLine() {
	src := st.src
	i := st.pos
	for i < len(src) && src[i] != '\n' && src[i] != '\r' {
		i++
	}
	if i > st.pos {
		start := len(st.out)
		st.out = append(st.out, src[st.pos:i]...)
		st.styles = append(st.styles, Style{
			Type:     StyleCode,
			StartPos: start,
			EndPos:   len(st.out),
		})
	}
	if i < len(src) && src[i] == '\r' {
		i++
	}
	if i < len(src) && src[i] == '\n' {
		st.out = append(st.out, '\n')
		i++
	}
	st.pos = i
}

// scanRule handles a thematic break: a line holding only spaces and at
// least three of the same marker, '-', '*' or '_'. It wins over the list
// and emphasis scanners, so "- - -" is a rule, not a bullet. The break
// renders as a short box-drawing run with no annotation.
func (st *parseState) scanRule() bool {
	src := st.src
	if st.pos >= len(src) {
		return false
	}
	marker := src[st.pos]
	if marker != '-' && marker != '*' && marker != '_' {
		return false
	}
	count := 0
	i := st.pos
	for i < len(src) && src[i] != '\n' && src[i] != '\r' {
		switch src[i] {
		case marker:
			count++
		case ' ':
		default:
			return false
		}
		i++
	}
	if count < 3 {
		return false
	}
	st.out = append(st.out, '─', '─', '─')
	st.pos = i
	return true
}

// scanListItem handles ordered, bullet and task list lines. Leading
// spaces set the indent level (two spaces per level) and stay in the
// display text. Bullet markers become "• ", task markers become a
// checkbox glyph, ordered markers are kept as written.
func (st *parseState) scanListItem(tracker *lineTracker) bool {
	src := st.src
	i := st.pos
	spaces := 0
	for i < len(src) && src[i] == ' ' {
		spaces++
		i++
	}
	digitEnd := i
	for digitEnd < len(src) && src[digitEnd] >= '0' && src[digitEnd] <= '9' {
		digitEnd++
	}
	ordered := digitEnd > i && digitEnd+1 < len(src) &&
		src[digitEnd] == '.' && src[digitEnd+1] == ' '
	bullet := !ordered && i+1 < len(src) &&
		(src[i] == '-' || src[i] == '+' || src[i] == '*') && src[i+1] == ' '
	if !ordered && !bullet {
		return false
	}

	st.out = append(st.out, src[st.pos:i]...)
	st.pos = i
	item := ListItem{StartPos: len(st.out), IndentLevel: spaces / 2}

	switch {
	case ordered:
		st.out = append(st.out, src[i:digitEnd]...)
		st.out = append(st.out, '.', ' ')
		st.pos = digitEnd + 2
	case taskMarkAt(src, i):
		checked := src[i+3] == 'x' || src[i+3] == 'X'
		glyph := '□'
		if checked {
			glyph = '■'
		}
		st.out = append(st.out, glyph, ' ')
		item.IsTask = true
		item.Checked = checked
		item.TaskIndex = st.taskCount
		st.taskCount++
		st.pos = i + 6
	default:
		st.out = append(st.out, '•', ' ')
		st.pos = i + 2
	}

	st.listItems = append(st.listItems, item)
	*tracker = lineTracker{active: true, index: len(st.listItems) - 1}
	return true
}

// taskMarkAt reports a "- [ ] " or "- [x] " marker at pos.
func taskMarkAt(src []rune, pos int) bool {
	if pos+5 >= len(src) {
		return false
	}
	return src[pos] == '-' && src[pos+1] == ' ' && src[pos+2] == '[' &&
		(src[pos+3] == ' ' || src[pos+3] == 'x' || src[pos+3] == 'X') &&
		src[pos+4] == ']' && src[pos+5] == ' '
}

// scanHeading handles "# " through "###### ". The hashes and the space
// are dropped; the heading range spans the rest of the line.
func (st *parseState) scanHeading(tracker *lineTracker) bool {
	src := st.src
	level := 0
	i := st.pos
	for i < len(src) && src[i] == '#' && level < 6 {
		level++
		i++
	}
	if level == 0 || i >= len(src) || src[i] != ' ' {
		return false
	}
	st.pos = i + 1
	st.headings = append(st.headings, Heading{Level: level, StartPos: len(st.out)})
	*tracker = lineTracker{active: true, index: len(st.headings) - 1}
	return true
}

// scanBlockquote handles "> " lines, nested quotes and GitHub alerts.
// Plain quotes get one '▌' per nesting level; an alert marker becomes an
// uppercase prefix on its own line, with the content pulled up from the
// following quoted line. Quote content runs through the inline
// extractors.
func (st *parseState) scanBlockquote() bool {
	src := st.src
	if src[st.pos] != '>' {
		return false
	}
	nest := 0
	i := st.pos
	for i < len(src) && src[i] == '>' {
		nest++
		i++
		if i < len(src) && src[i] == ' ' {
			i++
		}
	}
	st.pos = i

	q := Blockquote{StartPos: len(st.out)}
	if !st.scanAlertMarker(&q) {
		for n := 0; n < nest; n++ {
			st.out = append(st.out, '▌')
		}
		st.out = append(st.out, ' ')
	}
	idx := len(st.blockquotes)
	st.blockquotes = append(st.blockquotes, q)

	for st.pos < len(st.src) && st.src[st.pos] != '\n' && st.src[st.pos] != '\r' {
		if st.scanInline() {
			continue
		}
		st.out = append(st.out, st.src[st.pos])
		st.pos++
	}
	st.blockquotes[idx].EndPos = len(st.out)
	return true
}

// scanAlertMarker consumes "[!TYPE]" after a quote prefix when TYPE is a
// known alert keyword, case-insensitively. It emits the display prefix
// and a line break, then skips ahead to the content on the next quoted
// line.
func (st *parseState) scanAlertMarker(q *Blockquote) bool {
	src := st.src
	if !hasPrefixAt(src, st.pos, "[!") {
		return false
	}
	wordStart := st.pos + 2
	wordEnd := wordStart
	for wordEnd < len(src) && src[wordEnd] != ']' && src[wordEnd] != '\n' {
		wordEnd++
	}
	if wordEnd >= len(src) || src[wordEnd] != ']' {
		return false
	}
	word := string(src[wordStart:wordEnd])
	for _, kw := range alertKeywords {
		if !strings.EqualFold(word, kw.name) {
			continue
		}
		q.Alert = kw.alert
		st.out = append(st.out, []rune(kw.prefix)...)
		st.out = append(st.out, '\n')
		i := wordEnd + 1
		for i < len(src) && src[i] == ' ' {
			i++
		}
		if i < len(src) && src[i] == '\r' {
			i++
		}
		if i < len(src) && src[i] == '\n' {
			i++
		}
		if i < len(src) && src[i] == '>' {
			i++
			if i < len(src) && src[i] == ' ' {
				i++
			}
		}
		st.pos = i
		return true
	}
	return false
}
