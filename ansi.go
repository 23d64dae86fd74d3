package notemark

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
)

const (
	sgrReset  = "\x1b[0m"
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

// ANSIOptions configures RenderANSI. The zero value renders unwrapped
// with the default palette and no hyperlinks.
type ANSIOptions struct {
	// Width wraps output at this column when positive. Wrapping is
	// skipped when OSC8 is on; link sequences defeat width accounting.
	Width int

	// Palette overrides the default color scheme.
	Palette *Palette

	// OSC8 emits terminal hyperlinks instead of appending the URL after
	// the link text.
	OSC8 bool
}

// DetectOSC8Support reports whether the current environment likely
// supports OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("DOMTERM") != "" {
		return true
	}
	if os.Getenv("WT_SESSION") != "" {
		return true
	}
	termProgram := os.Getenv("TERM_PROGRAM")
	if termProgram == "iTerm.app" || termProgram == "WezTerm" || termProgram == "vscode" {
		return true
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}

// ansiAttrs is the per-rune style derived from the annotations; runes
// with equal attrs share one SGR prefix.
type ansiAttrs struct {
	bold      bool
	italic    bool
	strike    bool
	underline bool
	fg        color.RGBA
	hasFG     bool
}

func (a ansiAttrs) prefix() string {
	var b strings.Builder
	if a.bold {
		b.WriteString("\x1b[1m")
	}
	if a.italic {
		b.WriteString("\x1b[3m")
	}
	if a.underline {
		b.WriteString("\x1b[4m")
	}
	if a.strike {
		b.WriteString("\x1b[9m")
	}
	if a.hasFG {
		fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", a.fg.R, a.fg.G, a.fg.B)
	}
	return b.String()
}

// RenderANSI turns a parse result into styled terminal text. Headings
// are bold and underlined with a box-drawing rule sized to the heading
// width; link URLs follow the link text in parentheses unless OSC 8
// hyperlinks are enabled.
func RenderANSI(res *Result, opts ANSIOptions) string {
	pal := DefaultPalette()
	if opts.Palette != nil {
		pal = *opts.Palette
	}

	var b strings.Builder
	text := []rune(res.DisplayText)
	cur := ansiAttrs{}
	open := false
	headingStart := -1
	activeLink := -1

	closeRun := func() {
		if open {
			b.WriteString(sgrReset)
			open = false
		}
		cur = ansiAttrs{}
	}
	endLink := func() {
		if activeLink < 0 {
			return
		}
		l := res.Links[activeLink]
		activeLink = -1
		if opts.OSC8 {
			b.WriteString(osc8End)
			return
		}
		closeRun()
		limit := 40
		if opts.Width > 0 {
			limit = opts.Width / 2
		}
		b.WriteString(" (" + fitURL(l.URL, limit) + ")")
	}

	for i, r := range text {
		linkIdx := res.LinkAt(i)
		if activeLink >= 0 && linkIdx != activeLink {
			endLink()
		}

		if r == '\n' {
			endLink()
			closeRun()
			if headingStart >= 0 {
				rule := runewidth.StringWidth(string(text[headingStart:i]))
				if opts.Width > 0 && rule > opts.Width {
					rule = opts.Width
				}
				if rule > 0 {
					b.WriteString("\n" + strings.Repeat("─", rule))
				}
				headingStart = -1
			}
			b.WriteRune('\n')
			continue
		}

		headIdx := res.HeadingAt(i)
		if headIdx >= 0 && i == res.Headings[headIdx].StartPos {
			headingStart = i
		}

		attrs := ansiAttrs{}
		if headIdx >= 0 {
			attrs.bold = true
		}
		quoteIdx := res.BlockquoteAt(i)
		if quoteIdx >= 0 {
			attrs.italic = true
		}
		if styleIdx := res.StyleAt(i); styleIdx >= 0 {
			switch res.Styles[styleIdx].Type {
			case StyleItalic:
				attrs.italic = true
			case StyleBold:
				attrs.bold = true
			case StyleBoldItalic:
				attrs.bold = true
				attrs.italic = true
			case StyleCode:
				attrs.fg = pal.Code
				attrs.hasFG = true
			case StyleStrikethrough:
				attrs.strike = true
			}
		}
		if quoteIdx >= 0 && !attrs.hasFG {
			attrs.fg = pal.Alert(res.Blockquotes[quoteIdx].Alert)
			attrs.hasFG = true
		}
		if colorIdx := res.ColorTagAt(i); colorIdx >= 0 {
			attrs.fg = res.ColorTags[colorIdx].ColorAt(i)
			attrs.hasFG = true
		}
		if linkIdx >= 0 {
			attrs.underline = true
			attrs.fg = pal.Link
			attrs.hasFG = true
		}

		if attrs != cur {
			closeRun()
			if attrs != (ansiAttrs{}) {
				b.WriteString(attrs.prefix())
				open = true
			}
			cur = attrs
		}
		if linkIdx >= 0 && activeLink < 0 {
			if opts.OSC8 {
				b.WriteString(osc8Start + res.Links[linkIdx].URL + "\x1b\\")
			}
			activeLink = linkIdx
		}
		b.WriteRune(r)
	}
	endLink()
	closeRun()
	if headingStart >= 0 {
		rule := runewidth.StringWidth(string(text[headingStart:]))
		if opts.Width > 0 && rule > opts.Width {
			rule = opts.Width
		}
		if rule > 0 {
			b.WriteString("\n" + strings.Repeat("─", rule))
		}
	}

	out := b.String()
	if opts.Width > 0 && !opts.OSC8 {
		out = wordwrap.String(out, opts.Width)
	}
	return out
}

func truncateWithEllipsis(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

// fitURL shortens a URL for inline display, dropping the scheme before
// resorting to truncation.
func fitURL(url string, limit int) string {
	if ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
	}
	return truncateWithEllipsis(url, limit)
}
