package notemark

// ElementKind selects an annotation kind for CountElements.
type ElementKind uint8

const (
	KindLink ElementKind = iota
	KindHeading
	KindStyle
	KindListItem
	KindBlockquote
	KindColorTag
	KindFontTag
)

// CountElements reports how many annotations of the given kind a Parse
// of input would produce. It runs the same extractor machinery as Parse,
// so the count always matches the length of the corresponding Result
// slice. Unknown kinds and oversized input count zero.
func CountElements(kind ElementKind, input string) int {
	r := Parse(input)
	defer Free(r)
	switch kind {
	case KindLink:
		return len(r.Links)
	case KindHeading:
		return len(r.Headings)
	case KindStyle:
		return len(r.Styles)
	case KindListItem:
		return len(r.ListItems)
	case KindBlockquote:
		return len(r.Blockquotes)
	case KindColorTag:
		return len(r.ColorTags)
	case KindFontTag:
		return len(r.FontTags)
	}
	return 0
}
