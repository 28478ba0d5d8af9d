// ABOUTME: Visible display width of strings carrying ANSI escape sequences.
// ABOUTME: Grapheme-aware via uniseg/runewidth; caches non-ASCII measurements in an LRU.

package width

import (
	"container/list"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const cacheSize = 512

// lruEntry holds a cached width measurement.
type lruEntry struct {
	key   string
	value int
}

// cache is an O(1) LRU for non-ASCII string widths. Rendered display lines
// are measured repeatedly by PreferredWidth across redraws, so memoizing
// the slow path pays off.
type cache struct {
	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List
	size  int
}

func newCache(size int) *cache {
	return &cache{
		items: make(map[string]*list.Element, size),
		order: list.New(),
		size:  size,
	}
}

func (c *cache) get(key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return 0, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(lruEntry).value, true
}

func (c *cache) put(key string, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return
	}
	if c.order.Len() >= c.size {
		back := c.order.Back()
		if back != nil {
			c.order.Remove(back)
			delete(c.items, back.Value.(lruEntry).key)
		}
	}
	c.items[key] = c.order.PushFront(lruEntry{key: key, value: value})
}

var widthCache = newCache(cacheSize)

// Visible returns the display width of s in terminal cells. ANSI escape
// sequences contribute zero width; grapheme clusters may occupy two cells
// (East Asian characters, emoji).
func Visible(s string) int {
	if s == "" {
		return 0
	}
	if isPlainASCII(s) {
		return len(s)
	}
	if w, ok := widthCache.get(s); ok {
		return w
	}
	w := compute(s)
	widthCache.put(s, w)
	return w
}

// isPlainASCII reports whether s is printable ASCII with no escapes.
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

func compute(s string) int {
	stripped := StripANSI(s)
	w := 0
	state := -1
	for len(stripped) > 0 {
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(stripped, state)
		if len(cluster) > 0 {
			r, _ := utf8.DecodeRuneInString(cluster)
			w += runewidth.RuneWidth(r)
		}
		stripped = rest
		state = newState
	}
	return w
}

// StripANSI removes ANSI escape sequences (CSI, OSC, APC, two-byte ESC
// forms) from s, leaving only printable payload.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] != 0x1b {
			b.WriteByte(s[i])
			i++
			continue
		}
		i = skipSequence(s, i)
	}
	return b.String()
}

// skipSequence advances past the escape sequence starting at s[i] and
// returns the index of the first byte after it. Unterminated sequences
// consume the remainder of the string.
func skipSequence(s string, i int) int {
	i++ // ESC
	if i >= len(s) {
		return i
	}
	switch s[i] {
	case '[':
		// CSI: params and intermediates end at a final byte 0x40-0x7E.
		for i++; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7E {
				return i + 1
			}
		}
		return i
	case ']', '_', 'P', 'X', '^':
		// String-carrying sequences end at ST or (for OSC) BEL.
		for i++; i < len(s); i++ {
			if s[i] == 0x07 {
				return i + 1
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return i
	default:
		// Two-byte ESC sequence.
		return i + 1
	}
}
