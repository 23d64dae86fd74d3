// Package interact maps pointer input back onto rendered documents. A
// Registry collects the clickable rectangles a render pass produced and
// answers hit tests against them; DispatchClick routes hits to
// host-provided collaborators.
package interact

import (
	"image"
	"sync"
)

// MaxRegions caps how many clickable regions one Registry holds. Regions
// registered beyond the cap are dropped silently; a document with more
// than MaxRegions clickable spots simply has inert ones at the end.
const MaxRegions = 64

// checkboxPadding widens a checkbox hit rectangle horizontally so near
// misses still toggle.
const checkboxPadding = 4

// Kind tells a link region from a checkbox region.
type Kind uint8

const (
	KindLink Kind = iota + 1
	KindCheckbox
)

// Region is one clickable rectangle in render coordinates.
type Region struct {
	Kind    Kind
	Rect    image.Rectangle
	URL     string
	Index   int
	Checked bool
}

// URLOpener opens a link target, typically in the system browser.
type URLOpener interface {
	OpenURL(url string) error
}

// CheckboxStore loads and stores the markup a rendered document came
// from, so checkbox toggles can be written back.
type CheckboxStore interface {
	Load() ([]byte, error)
	Store([]byte) error
}

// Redrawer is asked to re-render after a checkbox toggle changed the
// backing text.
type Redrawer interface {
	RequestRedraw()
}

// Logger receives dispatch diagnostics. A nil logger is silent.
type Logger interface {
	Printf(format string, v ...any)
}

// Registry holds the clickable regions of one rendered surface. All
// methods are safe for concurrent use. Collaborators are consulted by
// DispatchClick and may be nil.
type Registry struct {
	Opener URLOpener
	Store  CheckboxStore
	Redraw Redrawer
	Log    Logger

	mu      sync.Mutex
	regions []Region
	offX    int
	offY    int
}

// NewRegistry returns an empty registry with no collaborators.
func NewRegistry() *Registry {
	return &Registry{}
}

// Clear drops all regions, typically at the start of a render pass.
// The hit-test offset persists until the next SetOffset.
func (g *Registry) Clear() {
	g.mu.Lock()
	g.regions = g.regions[:0]
	g.mu.Unlock()
}

// AddLink registers a link region. Empty rectangles and empty URLs are
// ignored, as is anything past MaxRegions.
func (g *Registry) AddLink(rect image.Rectangle, url string) {
	if rect.Empty() || url == "" {
		return
	}
	g.add(Region{Kind: KindLink, Rect: rect, URL: url})
}

// AddCheckbox registers a checkbox region for the task with the given
// zero-based ordinal. The rectangle is widened by the hit padding.
func (g *Registry) AddCheckbox(rect image.Rectangle, index int, checked bool) {
	if rect.Empty() || index < 0 {
		return
	}
	rect.Min.X -= checkboxPadding
	rect.Max.X += checkboxPadding
	g.add(Region{Kind: KindCheckbox, Rect: rect, Index: index, Checked: checked})
}

func (g *Registry) add(r Region) {
	g.mu.Lock()
	if len(g.regions) < MaxRegions {
		g.regions = append(g.regions, r)
	}
	g.mu.Unlock()
}

// SetOffset records the translation from pointer coordinates to the
// render coordinates regions were registered in.
func (g *Registry) SetOffset(x, y int) {
	g.mu.Lock()
	g.offX, g.offY = x, y
	g.mu.Unlock()
}

// Len reports how many regions are registered.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.regions)
}

// HasRegions reports whether any region is registered.
func (g *Registry) HasRegions() bool {
	return g.Len() > 0
}

// HitTest subtracts the recorded offset from pt and returns the first
// registered region containing the translated point. Registration order
// breaks overlap ties.
func (g *Registry) HitTest(pt image.Point) (Region, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := pt.Sub(image.Pt(g.offX, g.offY))
	for _, r := range g.regions {
		if p.In(r.Rect) {
			return r, true
		}
	}
	return Region{}, false
}

// DispatchClick acts on a hit region: links go to the URL opener,
// checkboxes toggle in the backing store and trigger a redraw. It
// reports whether the click was consumed.
func (g *Registry) DispatchClick(r Region) bool {
	switch r.Kind {
	case KindLink:
		if g.Opener == nil {
			return false
		}
		if err := g.Opener.OpenURL(r.URL); err != nil {
			g.logf("open %s: %v", r.URL, err)
			return false
		}
		return true
	case KindCheckbox:
		if !ToggleCheckbox(g.Store, r.Index) {
			return false
		}
		if g.Redraw != nil {
			g.Redraw.RequestRedraw()
		}
		return true
	}
	return false
}

// StampAlpha writes a minimal alpha value onto every fully transparent
// pixel under a registered region. Layered surfaces drop clicks on
// zero-alpha pixels; the stamp keeps the regions clickable without
// visibly tinting them.
func (g *Registry) StampAlpha(img *image.RGBA) {
	if img == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	bounds := img.Bounds()
	for _, r := range g.regions {
		clipped := r.Rect.Intersect(bounds)
		for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
			row := img.PixOffset(clipped.Min.X, y)
			for x := 0; x < clipped.Dx(); x++ {
				a := row + x*4 + 3
				if img.Pix[a] == 0 {
					img.Pix[a] = 1
				}
			}
		}
	}
}

func (g *Registry) logf(format string, v ...any) {
	if g.Log != nil {
		g.Log.Printf(format, v...)
	}
}
