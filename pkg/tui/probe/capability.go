// ABOUTME: Process-wide cache of probed terminal capabilities.
// ABOUTME: Each fact is computed by at most one probe round-trip; negatives are memoized too.

package probe

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mauromedda/nbterm-go/internal/log"
	"github.com/mauromedda/nbterm-go/pkg/tui/escape"
	"github.com/mauromedda/nbterm-go/pkg/tui/terminal"
)

// Prober issues one query round-trip. Satisfied by *Engine; tests inject
// counting doubles.
type Prober interface {
	Query(code QueryCode) (*escape.Sequence, error)
}

// fallback character cell size in pixels, used when neither the kernel nor
// the emulator reports pixel dimensions.
const (
	fallbackCellWidth  = 10
	fallbackCellHeight = 22
)

// PixelSize is a width/height pair in pixels.
type PixelSize struct {
	Width  int
	Height int
}

// Capabilities lazily probes and memoizes terminal facts for the process
// lifetime. Capabilities are assumed stable once probed: a terminal whose
// support changes mid-session keeps its first-observed answer.
//
// A Capabilities with a nil prober reports safe defaults everywhere, which
// is how restricted environments (no tty, no raw mode) degrade.
type Capabilities struct {
	prober Prober
	term   terminal.Terminal

	group singleflight.Group

	mu    sync.Mutex
	bg    *string
	pixel *PixelSize
	cell  *PixelSize
	sixel *bool
	kitty *bool
}

// NewCapabilities builds a capability cache over the given terminal and
// prober. Either may be nil, in which case the affected accessors return
// their defaults without probing.
func NewCapabilities(term terminal.Terminal, prober Prober) *Capabilities {
	return &Capabilities{prober: prober, term: term}
}

// ProbeAll eagerly computes every capability fact. Intended to run once at
// startup so later accesses never stall the UI thread.
func (c *Capabilities) ProbeAll() {
	c.BackgroundColor()
	c.TermPixelSize()
	c.CellPixelSize()
	c.HasSixelGraphics()
	c.HasKittyGraphics()
}

// cached memoizes one capability fact: the first caller computes the value
// (concurrent duplicates collapsed via singleflight), everyone afterwards
// reads the stored copy, including negative results.
func cached[T any](c *Capabilities, slot **T, key string, compute func() T) T {
	c.mu.Lock()
	if *slot != nil {
		v := **slot
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(key, func() (any, error) {
		return compute(), nil
	})
	val := v.(T)

	c.mu.Lock()
	defer c.mu.Unlock()
	if *slot == nil {
		*slot = &val
	}
	return **slot
}

// query runs one probe, swallowing errors into a nil response: a failed or
// unanswered query is a negative capability, not a fault.
func (c *Capabilities) query(code QueryCode) *escape.Sequence {
	if c.prober == nil {
		return nil
	}
	seq, err := c.prober.Query(code)
	if err != nil {
		log.Debug("capability probe %s failed: %v", code, err)
		return nil
	}
	return seq
}

// BackgroundColor returns the terminal's default background as a hex color
// like "#1e2a3c", or "" when the terminal does not answer OSC 11. Channels
// wider than 8 bits are truncated to their first two hex digits.
func (c *Capabilities) BackgroundColor() string {
	return cached(c, &c.bg, "bg", func() string {
		seq := c.query(QueryBackgroundColor)
		if seq == nil || seq.Kind != escape.KindOSC {
			return ""
		}
		return ParseBackgroundColor(seq.Payload)
	})
}

// TermPixelSize returns the terminal text area in pixels. The kernel
// window-size ioctl is tried first; emulators that leave it zero are asked
// with the CSI 14t escape probe. (0, 0) means pixels are unavailable.
func (c *Capabilities) TermPixelSize() PixelSize {
	return cached(c, &c.pixel, "pixel", c.probePixelSize)
}

// CellPixelSize returns the pixel size of one character cell, derived from
// the text-area pixel size divided by the cell counts. When pixel
// dimensions are unavailable a fixed estimate is returned instead of
// failing, so downstream image sizing always has something to work with.
func (c *Capabilities) CellPixelSize() PixelSize {
	return cached(c, &c.cell, "cell", c.probeCellSize)
}

// HasSixelGraphics reports whether the terminal answered the XTSMGRAPHICS
// sixel probe affirmatively: three numeric parameters with the second
// (the status field) equal to zero.
func (c *Capabilities) HasSixelGraphics() bool {
	return cached(c, &c.sixel, "sixel", func() bool {
		seq := c.query(QuerySixel)
		if seq == nil || seq.Kind != escape.KindCSI {
			return false
		}
		params := splitParams(seq.Params)
		return len(params) >= 3 && params[1] == 0
	})
}

// HasKittyGraphics reports whether the terminal acknowledged the kitty
// graphics query: an APC payload starting with the protocol marker "G"
// whose second semicolon-delimited field is "OK".
func (c *Capabilities) HasKittyGraphics() bool {
	return cached(c, &c.kitty, "kitty", func() bool {
		seq := c.query(QueryKitty)
		if seq == nil || seq.Kind != escape.KindAPC {
			return false
		}
		if !strings.HasPrefix(seq.Payload, "G") {
			return false
		}
		fields := strings.Split(strings.TrimLeft(seq.Payload, "G"), ";")
		return len(fields) >= 2 && fields[1] == "OK"
	})
}

func (c *Capabilities) probePixelSize() PixelSize {
	if c.term != nil {
		if w, h := c.term.PixelSize(); w > 0 {
			return PixelSize{Width: w, Height: h}
		}
	}
	seq := c.query(QueryPixelDimensions)
	if seq == nil || seq.Kind != escape.KindCSI || seq.Final != 't' {
		return PixelSize{}
	}
	// Response params: 4 ; height ; width
	params := splitParams(seq.Params)
	if len(params) < 3 || params[0] != 4 {
		return PixelSize{}
	}
	return PixelSize{Width: params[2], Height: params[1]}
}

func (c *Capabilities) probeCellSize() PixelSize {
	px := c.TermPixelSize()
	if px.Width == 0 || c.term == nil {
		return PixelSize{Width: fallbackCellWidth, Height: fallbackCellHeight}
	}
	cols, rows, err := c.term.Size()
	if err != nil || cols == 0 || rows == 0 {
		return PixelSize{Width: fallbackCellWidth, Height: fallbackCellHeight}
	}
	return PixelSize{Width: px.Width / cols, Height: px.Height / rows}
}

// ParseBackgroundColor extracts a hex color from an OSC 11 payload of the
// form "11;rgb:RRRR/GGGG/BBBB". Returns "" when the payload does not match.
func ParseBackgroundColor(payload string) string {
	rest, ok := strings.CutPrefix(payload, "11;")
	if !ok {
		return ""
	}
	rest, ok = strings.CutPrefix(rest, "rgb:")
	if !ok {
		return ""
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 {
		return ""
	}
	for _, p := range parts {
		if len(p) < 2 || len(p) > 4 || !isHex(p) {
			return ""
		}
	}
	return fmt.Sprintf("#%s%s%s", parts[0][:2], parts[1][:2], parts[2][:2])
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') {
			continue
		}
		return false
	}
	return len(s) > 0
}

// splitParams parses a CSI parameter string into its numeric fields,
// skipping any leading private marker such as '?'.
func splitParams(s string) []int {
	s = strings.TrimLeft(s, "?<=>")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
