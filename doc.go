// Package notemark parses a Markdown subset into plain display text plus
// positional annotations, for hosts that draw the text themselves.
//
// Parse strips the markup from its input and records every construct it
// removed as a rune-offset range into the resulting display text: links,
// headings, inline styles, list items, blockquotes and the <color:>/<font:>
// extension tags. Hosts walk the display text and consult the annotations
// to decide how each character is styled, which is what the layout
// subpackage does for raster output and RenderANSI does for terminals.
//
// Core properties:
//   - Display text carries no markup; annotations never overlap per kind
//   - CountElements runs the same extractors as Parse, so counts and
//     parse results cannot disagree
//   - Unterminated or malformed constructs fall back to literal text
//   - Parse states are pooled; pair every Parse with a Free
//
// Example:
//
//	res := notemark.Parse("# Notes\n\n- [ ] ship [v2](https://example.test)\n")
//	defer notemark.Free(res)
//	fmt.Println(res.DisplayText)
//	for _, l := range res.Links {
//		fmt.Println(l.Text, "->", l.URL)
//	}
//
// The layout subpackage measures and renders parsed documents into images,
// and the interact subpackage maps pointer input back onto links and task
// checkboxes.
package notemark
