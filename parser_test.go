package notemark

import (
	"strings"
	"testing"
)

func TestParseLink(t *testing.T) {
	res := Parse("[Click](https://x.test)")
	defer Free(res)
	if res.DisplayText != "Click" {
		t.Fatalf("display = %q, want %q", res.DisplayText, "Click")
	}
	if len(res.Links) != 1 {
		t.Fatalf("links = %d, want 1", len(res.Links))
	}
	l := res.Links[0]
	if l.Text != "Click" || l.URL != "https://x.test" {
		t.Fatalf("link = %+v", l)
	}
	if l.StartPos != 0 || l.EndPos != 5 {
		t.Fatalf("link range = [%d,%d), want [0,5)", l.StartPos, l.EndPos)
	}
	if res.LinkAt(2) != 0 || res.LinkAt(5) != -1 {
		t.Fatalf("LinkAt lookup wrong")
	}
}

func TestParseLinkWithTitle(t *testing.T) {
	res := Parse(`[a](https://e.test "The Title")`)
	defer Free(res)
	if len(res.Links) != 1 {
		t.Fatalf("links = %d, want 1", len(res.Links))
	}
	if res.Links[0].URL != "https://e.test" {
		t.Fatalf("url = %q, want title stripped", res.Links[0].URL)
	}
	if res.DisplayText != "a" {
		t.Fatalf("display = %q", res.DisplayText)
	}
}

func TestParseLinkEmptyURL(t *testing.T) {
	res := Parse("[txt]()")
	defer Free(res)
	if res.DisplayText != "txt" {
		t.Fatalf("display = %q, want %q", res.DisplayText, "txt")
	}
	if len(res.Links) != 0 {
		t.Fatalf("empty url must not produce a link, got %d", len(res.Links))
	}
}

func TestParseLinkStyledText(t *testing.T) {
	res := Parse("[**bold** link](https://e.test)")
	defer Free(res)
	if res.DisplayText != "bold link" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.Links) != 1 {
		t.Fatalf("links = %d, want 1", len(res.Links))
	}
	if got := res.Links[0]; got.StartPos != 0 || got.EndPos != 9 {
		t.Fatalf("link range = [%d,%d), want [0,9)", got.StartPos, got.EndPos)
	}
	if len(res.Styles) != 1 {
		t.Fatalf("styles = %d, want 1", len(res.Styles))
	}
	s := res.Styles[0]
	if s.Type != StyleBold || s.StartPos != 0 || s.EndPos != 4 {
		t.Fatalf("style = %+v, want bold over [0,4)", s)
	}
}

func TestParseHeading(t *testing.T) {
	res := Parse("## Title\nbody")
	defer Free(res)
	if res.DisplayText != "Title\nbody" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.Headings) != 1 {
		t.Fatalf("headings = %d, want 1", len(res.Headings))
	}
	h := res.Headings[0]
	if h.Level != 2 || h.StartPos != 0 || h.EndPos != 5 {
		t.Fatalf("heading = %+v, want level 2 over [0,5)", h)
	}
	if res.HeadingAt(8) != -1 {
		t.Fatalf("body text must not be inside the heading")
	}
}

func TestParseHeadingLevels(t *testing.T) {
	for level := 1; level <= 6; level++ {
		input := strings.Repeat("#", level) + " x"
		res := Parse(input)
		if len(res.Headings) != 1 || res.Headings[0].Level != level {
			t.Fatalf("input %q: headings = %+v", input, res.Headings)
		}
		Free(res)
	}
	res := Parse("####### seven")
	defer Free(res)
	if len(res.Headings) != 0 {
		t.Fatalf("seven hashes must not be a heading: %+v", res.Headings)
	}
}

func TestParseNestedEmphasis(t *testing.T) {
	res := Parse("**_a_**")
	defer Free(res)
	if res.DisplayText != "a" {
		t.Fatalf("display = %q, want %q", res.DisplayText, "a")
	}
	if len(res.Styles) != 2 {
		t.Fatalf("styles = %+v, want italic and bold", res.Styles)
	}
	if res.Styles[0].Type != StyleItalic || res.Styles[1].Type != StyleBold {
		t.Fatalf("styles = %+v, want inner italic recorded first", res.Styles)
	}
	for _, s := range res.Styles {
		if s.StartPos != 0 || s.EndPos != 1 {
			t.Fatalf("style range = %+v, want [0,1)", s)
		}
	}
	if idx := res.StyleAt(0); idx != 0 {
		t.Fatalf("StyleAt must prefer the inner span, got %d", idx)
	}
}

func TestParseEmphasisVariants(t *testing.T) {
	cases := []struct {
		input   string
		display string
		style   StyleType
	}{
		{"*i*", "i", StyleItalic},
		{"_i_", "i", StyleItalic},
		{"**b**", "b", StyleBold},
		{"__b__", "b", StyleBold},
		{"***bi***", "bi", StyleBoldItalic},
		{"~~gone~~", "gone", StyleStrikethrough},
		{"`code`", "code", StyleCode},
	}
	for _, tc := range cases {
		res := Parse(tc.input)
		if res.DisplayText != tc.display {
			t.Fatalf("input %q: display = %q, want %q", tc.input, res.DisplayText, tc.display)
		}
		if len(res.Styles) != 1 || res.Styles[0].Type != tc.style {
			t.Fatalf("input %q: styles = %+v", tc.input, res.Styles)
		}
		Free(res)
	}
}

func TestParseEmphasisRejectsSpaceAfterOpener(t *testing.T) {
	cases := []string{"* not emphasis", "** also not", "2 * 3 * 4"}
	for _, input := range cases {
		res := Parse(input)
		if len(res.Styles) != 0 {
			t.Fatalf("input %q: styles = %+v, want none", input, res.Styles)
		}
		Free(res)
	}
}

func TestParseUnterminatedStaysLiteral(t *testing.T) {
	cases := []string{
		"**abc",
		"~~abc",
		"`abc",
		"[text](https://x.test",
		"[text(https://x.test)",
		"<color:#ff0000>abc",
		"<font:Arial>abc",
		"<color:#zzzzzz>abc</color>",
	}
	for _, input := range cases {
		res := Parse(input)
		if res.DisplayText != input {
			t.Fatalf("input %q: display = %q, want untouched", input, res.DisplayText)
		}
		if len(res.Links)+len(res.Styles)+len(res.ColorTags)+len(res.FontTags) != 0 {
			t.Fatalf("input %q produced annotations", input)
		}
		Free(res)
	}
}

func TestParseColorTag(t *testing.T) {
	res := Parse("<color:#ff0000_#0000ff>hi</color>")
	defer Free(res)
	if res.DisplayText != "hi" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.ColorTags) != 1 {
		t.Fatalf("colorTags = %+v", res.ColorTags)
	}
	tag := res.ColorTags[0]
	if tag.StartPos != 0 || tag.EndPos != 2 {
		t.Fatalf("tag range = [%d,%d)", tag.StartPos, tag.EndPos)
	}
	want := []RGB{{255, 0, 0}, {0, 0, 255}}
	if len(tag.Colors) != 2 || tag.Colors[0] != want[0] || tag.Colors[1] != want[1] {
		t.Fatalf("colors = %+v, want %+v", tag.Colors, want)
	}
}

func TestParseColorTagStopCap(t *testing.T) {
	stops := make([]string, 0, MaxGradientColors+3)
	for i := 0; i < MaxGradientColors+3; i++ {
		stops = append(stops, "#102030")
	}
	input := "<color:" + strings.Join(stops, "_") + ">x</color>"
	res := Parse(input)
	defer Free(res)
	if len(res.ColorTags) != 1 {
		t.Fatalf("colorTags = %+v", res.ColorTags)
	}
	if got := len(res.ColorTags[0].Colors); got != MaxGradientColors {
		t.Fatalf("stops = %d, want cap %d", got, MaxGradientColors)
	}
}

func TestParseFontTagInsideColorTag(t *testing.T) {
	res := Parse("<color:#00ff00>a<font: Arial >b</font>c</color>")
	defer Free(res)
	if res.DisplayText != "abc" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.ColorTags) != 1 || len(res.FontTags) != 1 {
		t.Fatalf("tags = %+v / %+v", res.ColorTags, res.FontTags)
	}
	if res.ColorTags[0].StartPos != 0 || res.ColorTags[0].EndPos != 3 {
		t.Fatalf("color range = %+v", res.ColorTags[0])
	}
	ft := res.FontTags[0]
	if ft.Name != "Arial" || ft.StartPos != 1 || ft.EndPos != 2 {
		t.Fatalf("font tag = %+v, want trimmed Arial over [1,2)", ft)
	}
}

func TestParseTagDepthCap(t *testing.T) {
	const levels = maxTagDepth + 2
	var open, close strings.Builder
	for i := 0; i < levels; i++ {
		if i%2 == 0 {
			open.WriteString("<color:#112233>")
		} else {
			open.WriteString("<font:Arial>")
		}
	}
	for i := levels - 1; i >= 0; i-- {
		if i%2 == 0 {
			close.WriteString("</color>")
		} else {
			close.WriteString("</font>")
		}
	}
	res := Parse(open.String() + "x" + close.String())
	defer Free(res)
	if got := len(res.ColorTags) + len(res.FontTags); got != maxTagDepth {
		t.Fatalf("tags = %d, want depth cap %d", got, maxTagDepth)
	}
	if !strings.Contains(res.DisplayText, "<color:#112233>") {
		t.Fatalf("markup past the cap should stay literal, display = %q", res.DisplayText)
	}
}

func TestParseLists(t *testing.T) {
	res := Parse("- one\n  - two\n3. three\n")
	defer Free(res)
	if res.DisplayText != "• one\n  • two\n3. three\n" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.ListItems) != 3 {
		t.Fatalf("items = %+v", res.ListItems)
	}
	if res.ListItems[0].IndentLevel != 0 || res.ListItems[1].IndentLevel != 1 {
		t.Fatalf("indents = %+v", res.ListItems)
	}
	if res.ListItems[1].StartPos != 8 {
		t.Fatalf("indented item start = %d, want after leading spaces", res.ListItems[1].StartPos)
	}
	if res.ListItems[2].StartPos != 14 || res.ListItems[2].EndPos != 22 {
		t.Fatalf("ordered item range = %+v", res.ListItems[2])
	}
}

func TestParseTaskItems(t *testing.T) {
	res := Parse("- [ ] buy\n- [x] done\n")
	defer Free(res)
	if res.DisplayText != "□ buy\n■ done\n" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.ListItems) != 2 {
		t.Fatalf("items = %+v", res.ListItems)
	}
	first, second := res.ListItems[0], res.ListItems[1]
	if !first.IsTask || first.Checked || first.TaskIndex != 0 {
		t.Fatalf("first task = %+v", first)
	}
	if !second.IsTask || !second.Checked || second.TaskIndex != 1 {
		t.Fatalf("second task = %+v", second)
	}
}

func TestParseBlockquote(t *testing.T) {
	res := Parse("> hi\n>> deep\n")
	defer Free(res)
	if res.DisplayText != "▌ hi\n▌▌ deep\n" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.Blockquotes) != 2 {
		t.Fatalf("quotes = %+v", res.Blockquotes)
	}
	if res.Blockquotes[0].Alert != AlertNone {
		t.Fatalf("plain quote classified as alert: %+v", res.Blockquotes[0])
	}
}

func TestParseAlerts(t *testing.T) {
	cases := []struct {
		marker string
		alert  AlertType
		prefix string
	}{
		{"NOTE", AlertNote, "NOTE: "},
		{"tip", AlertTip, "TIP: "},
		{"Important", AlertImportant, "IMPORTANT: "},
		{"WARNING", AlertWarning, "WARNING: "},
		{"caution", AlertCaution, "CAUTION: "},
	}
	for _, tc := range cases {
		res := Parse("> [!" + tc.marker + "]\n> stay sharp\n")
		if len(res.Blockquotes) != 1 {
			t.Fatalf("marker %q: quotes = %+v", tc.marker, res.Blockquotes)
		}
		q := res.Blockquotes[0]
		if q.Alert != tc.alert {
			t.Fatalf("marker %q: alert = %v", tc.marker, q.Alert)
		}
		want := tc.prefix + "\nstay sharp"
		if got := res.DisplayText[:len(want)]; got != want {
			t.Fatalf("marker %q: display = %q, want prefix %q", tc.marker, res.DisplayText, want)
		}
		Free(res)
	}
}

func TestParseUnknownAlertStaysQuote(t *testing.T) {
	res := Parse("> [!BOGUS] text\n")
	defer Free(res)
	if len(res.Blockquotes) != 1 || res.Blockquotes[0].Alert != AlertNone {
		t.Fatalf("quotes = %+v", res.Blockquotes)
	}
	if !strings.Contains(res.DisplayText, "[!BOGUS]") {
		t.Fatalf("unknown marker must stay literal, display = %q", res.DisplayText)
	}
}

func TestParseQuoteInlineContent(t *testing.T) {
	res := Parse("> see [docs](https://d.test) and `x`\n")
	defer Free(res)
	if len(res.Links) != 1 || res.Links[0].URL != "https://d.test" {
		t.Fatalf("links = %+v", res.Links)
	}
	if len(res.Styles) != 1 || res.Styles[0].Type != StyleCode {
		t.Fatalf("styles = %+v", res.Styles)
	}
	if res.BlockquoteAt(res.Links[0].StartPos) != 0 {
		t.Fatalf("link must sit inside the quote range")
	}
}

func TestParseCodeFence(t *testing.T) {
	res := Parse("```go\nsum := a + b\n```\nafter")
	defer Free(res)
	if res.DisplayText != "sum := a + b\n\nafter" {
		t.Fatalf("display = %q", res.DisplayText)
	}
	if len(res.Styles) != 1 || res.Styles[0].Type != StyleCode {
		t.Fatalf("styles = %+v", res.Styles)
	}
	if res.Styles[0].StartPos != 0 || res.Styles[0].EndPos != 12 {
		t.Fatalf("code range = %+v", res.Styles[0])
	}
}

func TestParseFenceDisablesInline(t *testing.T) {
	res := Parse("```\n**not bold** [no](https://x.test)\n```\n")
	defer Free(res)
	if len(res.Links) != 0 {
		t.Fatalf("links inside fence = %+v", res.Links)
	}
	if !strings.Contains(res.DisplayText, "**not bold**") {
		t.Fatalf("fence content must stay verbatim, display = %q", res.DisplayText)
	}
}

func TestParseHorizontalRule(t *testing.T) {
	for _, input := range []string{"---\nx", "-----\nx", "- - -\nx", "***\nx", "___\nx"} {
		res := Parse(input)
		if !strings.HasPrefix(res.DisplayText, "───\n") {
			t.Fatalf("input %q: display = %q", input, res.DisplayText)
		}
		if len(res.ListItems) != 0 {
			t.Fatalf("input %q classified as list: %+v", input, res.ListItems)
		}
		Free(res)
	}
	res := Parse("--\nx")
	defer Free(res)
	if strings.Contains(res.DisplayText, "─") {
		t.Fatalf("two hyphens are not a rule, display = %q", res.DisplayText)
	}
}

func TestParseDisplayTextStable(t *testing.T) {
	inputs := []string{
		"# Release v2\n\n- [x] ship [it](https://r.test)\n- [ ] tell **everyone**\n",
		"> [!WARNING]\n> stay back\n\nplain *text* here\n",
		"1. first\n2. second\n\n---\n",
		"<color:#ff0000_#00ff00>festive</color> and <font:Arial>named</font>\n",
		"```sh\nmake release\n```\n",
	}
	for _, input := range inputs {
		first := Parse(input)
		second := Parse(first.DisplayText)
		if second.DisplayText != first.DisplayText {
			t.Fatalf("input %q: reparse changed display %q -> %q",
				input, first.DisplayText, second.DisplayText)
		}
		Free(second)
		Free(first)
	}
}

func TestParseOversizedInput(t *testing.T) {
	res := Parse(strings.Repeat("a", MaxInputSize+1))
	defer Free(res)
	if res.DisplayText != "" {
		t.Fatalf("oversized input must yield an empty result")
	}
	if len(res.Links)+len(res.Headings)+len(res.Styles) != 0 {
		t.Fatalf("oversized input produced annotations")
	}
}

func TestFreeIsIdempotent(t *testing.T) {
	res := Parse("x")
	Free(res)
	Free(res)
	Free(nil)
	if res.DisplayText != "" || res.state != nil {
		t.Fatalf("freed result must be cleared: %+v", res)
	}
}

func TestParseReusesPooledState(t *testing.T) {
	for i := 0; i < 100; i++ {
		res := Parse("# h\n- [ ] t\n> q\n[l](https://x.test) **b**\n")
		if len(res.Links) != 1 || len(res.Headings) != 1 || len(res.ListItems) != 1 {
			t.Fatalf("iteration %d: %+v", i, res)
		}
		Free(res)
	}
}
