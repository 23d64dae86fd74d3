package notemark

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func TestRenderANSIHeading(t *testing.T) {
	res := Parse("# Hi\nbody\n")
	defer Free(res)
	out := RenderANSI(res, ANSIOptions{})
	if !strings.Contains(out, "\x1b[1m") {
		t.Fatalf("heading must be bold: %q", out)
	}
	if !strings.Contains(out, "Hi\x1b[0m\n──\n") {
		t.Fatalf("heading must be underlined to its width: %q", out)
	}
}

func TestRenderANSILinkPlain(t *testing.T) {
	res := Parse("see [docs](https://docs.test) now\n")
	defer Free(res)
	out := RenderANSI(res, ANSIOptions{})
	if !strings.Contains(out, "\x1b[4m") {
		t.Fatalf("link text must be underlined: %q", out)
	}
	if !strings.Contains(out, "(https://docs.test)") {
		t.Fatalf("plain mode must append the URL: %q", out)
	}
	if strings.Contains(out, osc8Start) {
		t.Fatalf("plain mode must not emit OSC 8: %q", out)
	}
}

func TestRenderANSILinkOSC8(t *testing.T) {
	res := Parse("[docs](https://docs.test)\n")
	defer Free(res)
	out := RenderANSI(res, ANSIOptions{OSC8: true})
	if !strings.Contains(out, osc8Start+"https://docs.test\x1b\\") {
		t.Fatalf("missing hyperlink open: %q", out)
	}
	if !strings.Contains(out, osc8End) {
		t.Fatalf("missing hyperlink close: %q", out)
	}
	if strings.Contains(out, "(https://docs.test)") {
		t.Fatalf("OSC 8 mode must not append the URL: %q", out)
	}
}

func TestRenderANSIWrapWidth(t *testing.T) {
	res := Parse(strings.Repeat("word ", 30) + "\n")
	defer Free(res)
	out := RenderANSI(res, ANSIOptions{Width: 20})
	for _, line := range strings.Split(out, "\n") {
		if w := ansi.PrintableRuneWidth(line); w > 20 {
			t.Fatalf("line %q is %d columns wide", line, w)
		}
	}
}

func TestRenderANSIQuoteColors(t *testing.T) {
	res := Parse("> [!CAUTION]\n> danger\n")
	defer Free(res)
	out := RenderANSI(res, ANSIOptions{})
	if !strings.Contains(out, "\x1b[38;2;207;34;46m") {
		t.Fatalf("caution color missing: %q", out)
	}
	if !strings.Contains(out, "\x1b[3m") {
		t.Fatalf("quote text must be italic: %q", out)
	}
}

func TestRenderANSIGradient(t *testing.T) {
	res := Parse("<color:#ff0000_#0000ff>abc</color>\n")
	defer Free(res)
	out := RenderANSI(res, ANSIOptions{})
	if !strings.Contains(out, "\x1b[38;2;255;0;0m") {
		t.Fatalf("first stop missing: %q", out)
	}
	if !strings.Contains(out, "\x1b[38;2;0;0;255m") {
		t.Fatalf("last stop missing: %q", out)
	}
}

func TestRenderANSIResetsAtEnd(t *testing.T) {
	res := Parse("**tail**")
	defer Free(res)
	out := RenderANSI(res, ANSIOptions{})
	if !strings.HasSuffix(out, sgrReset) {
		t.Fatalf("styled output must end with a reset: %q", out)
	}
}

func TestFitURL(t *testing.T) {
	cases := []struct {
		url   string
		limit int
		want  string
	}{
		{"https://a.test", 40, "https://a.test"},
		{"https://example.test/path", 20, "example.test/path"},
		{"https://example.test/very/long/path/segment", 10, "https://e…"},
		{"no-scheme", 3, "no…"},
	}
	for _, tc := range cases {
		if got := fitURL(tc.url, tc.limit); got != tc.want {
			t.Fatalf("fitURL(%q, %d) = %q, want %q", tc.url, tc.limit, got, tc.want)
		}
	}
}
