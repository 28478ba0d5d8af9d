// ABOUTME: Size-keyed render caching for rich cell output controls.
// ABOUTME: Two memoization layers map (width, extra keys) to lines and to content views.

package output

import (
	"fmt"
	"strings"

	"github.com/mauromedda/nbterm-go/pkg/tui/width"
)

// DefaultCacheSize bounds each of the two per-control caches.
const DefaultCacheSize = 20

// Renderer turns raw content into terminal text at a given size. The
// returned string's trailing newline is stripped and the remainder split
// into display lines; anything else it contains (ANSI styling, graphics
// escape sequences) passes through untouched.
type Renderer interface {
	Render(data []byte, width, height int) (string, error)
}

// DisplayContent is a lazily built view over one rendered line set,
// exposing line count and indexed access. It references the lines it was
// built from; when the control renders fresh lines for a new key, views
// for old keys simply age out of the cache.
type DisplayContent struct {
	lines []string
}

// LineCount returns the number of display lines.
func (d *DisplayContent) LineCount() int {
	return len(d.lines)
}

// Line returns the i-th display line, or "" out of range.
func (d *DisplayContent) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Control caches the rendered output of one piece of cell content so the
// renderer runs only when the available size (or an extra key such as a
// graphic's visibility) actually changes, not on every redraw.
//
// Height is deliberately absent from the default cache key: text-like
// content reflows by width alone. Controls carrying a graphic mix its
// visibility into the key instead.
type Control struct {
	data     []byte
	renderer Renderer
	graphic  *Graphic

	rendered []string
	format   *lruCache[[]string]
	content  *lruCache[*DisplayContent]

	invalidateFns []func()
	unsubscribe   []func()
}

// ControlOption configures a Control at construction.
type ControlOption func(*Control)

// WithGraphic attaches a terminal graphic whose visibility participates in
// the cache key. The control re-renders when the graphic moves, resizes,
// or changes visibility.
func WithGraphic(g *Graphic) ControlOption {
	return func(c *Control) { c.graphic = g }
}

// WithCacheSize overrides the bounded capacity of both cache layers.
func WithCacheSize(n int) ControlOption {
	return func(c *Control) {
		c.format = newLRU[[]string](n)
		c.content = newLRU[*DisplayContent](n)
	}
}

// NewControl builds a control over raw content and the renderer selected
// for its content type.
func NewControl(data []byte, r Renderer, opts ...ControlOption) *Control {
	c := &Control{
		data:     data,
		renderer: r,
		format:   newLRU[[]string](DefaultCacheSize),
		content:  newLRU[*DisplayContent](DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.graphic != nil {
		c.unsubscribe = append(c.unsubscribe,
			c.graphic.OnResize.Subscribe(func(Placement) { c.fireInvalidate() }),
			c.graphic.OnMove.Subscribe(func(Placement) { c.fireInvalidate() }),
		)
	}
	return c
}

// Close detaches the control from its graphic's event streams.
func (c *Control) Close() {
	for _, un := range c.unsubscribe {
		un()
	}
	c.unsubscribe = nil
}

// OnInvalidate registers fn to run whenever the attached graphic reports a
// placement change, signalling the UI that cached output may be stale.
func (c *Control) OnInvalidate(fn func()) {
	c.invalidateFns = append(c.invalidateFns, fn)
}

func (c *Control) fireInvalidate() {
	for _, fn := range c.invalidateFns {
		fn()
	}
}

// key builds the cache key for a width: extra keys first, width last, so
// a visibility flip at the same width is a distinct key.
func (c *Control) key(w int) string {
	if c.graphic == nil {
		return fmt.Sprintf("%d", w)
	}
	return fmt.Sprintf("%t|%d", c.graphic.Visible(), w)
}

// Lines returns the rendered display lines for the given size, rendering
// at most once per distinct cache key. Renderer errors propagate unchanged
// and are not cached.
func (c *Control) Lines(w, h int) ([]string, error) {
	lines, err := c.format.GetOrCompute(c.key(w), func() ([]string, error) {
		return c.render(w, h)
	})
	if err != nil {
		return nil, err
	}
	c.rendered = lines
	return lines, nil
}

// Content wraps the cached lines for the given size in a DisplayContent
// view, reusing the view while the key is unchanged even when called on
// every redraw.
func (c *Control) Content(w, h int) (*DisplayContent, error) {
	return c.content.GetOrCompute(c.key(w), func() (*DisplayContent, error) {
		lines, err := c.Lines(w, h)
		if err != nil {
			return nil, err
		}
		return &DisplayContent{lines: lines}, nil
	})
}

// PreferredWidth returns the widest visible line already rendered, capped
// at max. It never triggers a render: before the first Lines call it
// reports 0 and the caller falls back to the available width.
func (c *Control) PreferredWidth(max int) int {
	widest := 0
	for _, line := range c.rendered {
		if w := width.Visible(line); w > widest {
			widest = w
		}
	}
	if widest > max {
		return max
	}
	return widest
}

// PreferredHeight returns the line count at the given width, reusing
// cached lines when present and rendering only when none exist yet.
func (c *Control) PreferredHeight(w, maxHeight int) (int, error) {
	if len(c.rendered) > 0 {
		return len(c.rendered), nil
	}
	lines, err := c.Lines(w, maxHeight)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// render invokes the renderer once and splits its output into lines.
func (c *Control) render(w, h int) ([]string, error) {
	text, err := c.renderer.Render(c.data, w, h)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}
