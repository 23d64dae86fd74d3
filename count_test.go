package notemark

import "testing"

// The counters run the real extractors, so they must agree with a full
// parse even on inputs where a naive scan would drift: rules that look
// like lists, styles hidden inside link text, markup inside fences.
func TestCountMatchesParse(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"# one\n## two\n### three\n",
		"[a](https://a.test) [b](https://b.test) [c]()",
		"[**styled** link](https://s.test)",
		"- - -\n- real item\n",
		"```\n[not a link](https://x.test)\n# not a heading\n```\n",
		"> [!NOTE]\n> alpha\n> beta\n",
		"**_nested_** and ~~struck~~",
		"<color:#ff0000>a<font:Mono>b</font></color>",
		"<color:#ff0000>unterminated",
		"1. a\n- [ ] b\n  - c\n",
	}
	kinds := []ElementKind{
		KindLink, KindHeading, KindStyle, KindListItem,
		KindBlockquote, KindColorTag, KindFontTag,
	}
	for _, input := range inputs {
		res := Parse(input)
		want := map[ElementKind]int{
			KindLink:       len(res.Links),
			KindHeading:    len(res.Headings),
			KindStyle:      len(res.Styles),
			KindListItem:   len(res.ListItems),
			KindBlockquote: len(res.Blockquotes),
			KindColorTag:   len(res.ColorTags),
			KindFontTag:    len(res.FontTags),
		}
		Free(res)
		for _, kind := range kinds {
			if got := CountElements(kind, input); got != want[kind] {
				t.Fatalf("input %q kind %d: count = %d, parse = %d",
					input, kind, got, want[kind])
			}
		}
	}
}

func TestCountRuleIsNotAList(t *testing.T) {
	if got := CountElements(KindListItem, "- - -\n"); got != 0 {
		t.Fatalf("rule counted as %d list items", got)
	}
	if got := CountElements(KindListItem, "- - x\n"); got != 1 {
		t.Fatalf("bullet counted as %d list items, want 1", got)
	}
}

func TestCountUnknownKind(t *testing.T) {
	if got := CountElements(ElementKind(200), "# x"); got != 0 {
		t.Fatalf("unknown kind counted %d", got)
	}
}

func TestCountOversizedInput(t *testing.T) {
	big := make([]byte, MaxInputSize+1)
	for i := range big {
		big[i] = '#'
	}
	if got := CountElements(KindHeading, string(big)); got != 0 {
		t.Fatalf("oversized input counted %d", got)
	}
}
