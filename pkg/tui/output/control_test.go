// ABOUTME: Tests for the render cache control and its invalidation behavior.
// ABOUTME: A counting renderer verifies render-once-per-key semantics.

package output

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// countingRenderer records every Render call and emits width-stamped lines.
type countingRenderer struct {
	calls []string
	fail  error
}

func (r *countingRenderer) Render(data []byte, width, height int) (string, error) {
	r.calls = append(r.calls, fmt.Sprintf("%dx%d", width, height))
	if r.fail != nil {
		return "", r.fail
	}
	return fmt.Sprintf("%s @%d\nsecond line\n", data, width), nil
}

func TestControl_RendersOncePerWidth(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{}
	c := NewControl([]byte("hello"), r)

	first, err := c.Lines(80, 24)
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	again, err := c.Lines(80, 24)
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("renderer ran %d times for one size, want 1", len(r.calls))
	}
	if len(first) != 2 || first[0] != "hello @80" {
		t.Errorf("lines = %q", first)
	}
	if &first[0] != &again[0] {
		t.Error("repeated call should return the cached slice")
	}

	// A width change is a new key and renders again.
	if _, err := c.Lines(81, 24); err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("renderer ran %d times across two widths, want 2", len(r.calls))
	}
	if r.calls[1] != "81x24" {
		t.Errorf("second render at %s, want 81x24", r.calls[1])
	}
}

func TestControl_HeightNotInKey(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{}
	c := NewControl([]byte("x"), r)

	c.Lines(80, 24)
	c.Lines(80, 50)
	if len(r.calls) != 1 {
		t.Errorf("height change re-rendered (%d calls), key must be width only", len(r.calls))
	}
}

func TestControl_Content_ReusesView(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{}
	c := NewControl([]byte("body"), r)

	v1, err := c.Content(80, 24)
	if err != nil {
		t.Fatalf("Content() error: %v", err)
	}
	v2, _ := c.Content(80, 24)
	if v1 != v2 {
		t.Error("same key must return the same DisplayContent")
	}
	if v1.LineCount() != 2 || v1.Line(0) != "body @80" {
		t.Errorf("content view lines: %d, %q", v1.LineCount(), v1.Line(0))
	}
	if v1.Line(-1) != "" || v1.Line(99) != "" {
		t.Error("out-of-range Line must return empty")
	}
}

func TestControl_GraphicVisibilityInKey(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{}
	g := NewGraphic()
	c := NewControl([]byte("img"), r, WithGraphic(g))

	c.Lines(80, 24)
	g.SetVisible(false)
	c.Lines(80, 24)
	if len(r.calls) != 2 {
		t.Fatalf("visibility flip at same width must re-render, got %d calls", len(r.calls))
	}

	// Flipping back hits the earlier cached entry.
	g.SetVisible(true)
	c.Lines(80, 24)
	if len(r.calls) != 2 {
		t.Errorf("restored visibility should be served from cache, got %d calls", len(r.calls))
	}
}

func TestControl_InvalidateOnGraphicEvents(t *testing.T) {
	t.Parallel()

	g := NewGraphic()
	c := NewControl(nil, &countingRenderer{}, WithGraphic(g))

	fired := 0
	c.OnInvalidate(func() { fired++ })

	g.Move(3, 4)
	g.Resize(10, 5)
	g.SetVisible(false)
	if fired != 3 {
		t.Errorf("invalidate fired %d times, want 3", fired)
	}

	// No-op placement changes stay silent.
	g.Move(3, 4)
	g.SetVisible(false)
	if fired != 3 {
		t.Errorf("no-op changes fired invalidate (%d)", fired)
	}

	c.Close()
	g.Move(9, 9)
	if fired != 3 {
		t.Errorf("closed control still receives events (%d)", fired)
	}
}

func TestControl_RendererErrorNotCached(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{fail: errors.New("boom")}
	c := NewControl([]byte("x"), r)

	if _, err := c.Lines(80, 24); err == nil {
		t.Fatal("expected renderer error")
	}

	// Recovery: the next call retries rather than replaying the failure.
	r.fail = nil
	lines, err := c.Lines(80, 24)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("retry lines = %q", lines)
	}
	if len(r.calls) != 2 {
		t.Errorf("renderer ran %d times, want 2 (fail then retry)", len(r.calls))
	}
}

func TestControl_PreferredWidth(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{}
	c := NewControl([]byte("wide content line"), r)

	// Before any render there is nothing to measure, and no render happens.
	if got := c.PreferredWidth(100); got != 0 {
		t.Errorf("PreferredWidth before render = %d, want 0", got)
	}
	if len(r.calls) != 0 {
		t.Fatal("PreferredWidth must never render")
	}

	c.Lines(80, 24)
	want := len("wide content line @80")
	if got := c.PreferredWidth(100); got != want {
		t.Errorf("PreferredWidth = %d, want %d", got, want)
	}
	if got := c.PreferredWidth(5); got != 5 {
		t.Errorf("PreferredWidth cap = %d, want 5", got)
	}
}

func TestControl_PreferredHeight(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{}
	c := NewControl([]byte("x"), r)

	h, err := c.PreferredHeight(80, 24)
	if err != nil {
		t.Fatalf("PreferredHeight() error: %v", err)
	}
	if h != 2 {
		t.Errorf("height = %d, want 2", h)
	}
	if len(r.calls) != 1 {
		t.Fatalf("first PreferredHeight should render once, got %d", len(r.calls))
	}

	// With lines already rendered, no further render happens.
	if _, err := c.PreferredHeight(120, 24); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 1 {
		t.Errorf("PreferredHeight re-rendered (%d calls)", len(r.calls))
	}
}

func TestControl_TrailingNewlineStripped(t *testing.T) {
	t.Parallel()

	c := NewControl([]byte("x"), &countingRenderer{})
	lines, err := c.Lines(10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasSuffix(lines[len(lines)-1], "\n") {
		t.Error("trailing newline must be stripped before splitting")
	}
	if len(lines) != 2 {
		t.Errorf("line count = %d, want 2", len(lines))
	}
}

func TestControl_CacheEviction(t *testing.T) {
	t.Parallel()

	r := &countingRenderer{}
	c := NewControl([]byte("x"), r, WithCacheSize(2))

	c.Lines(10, 5)
	c.Lines(20, 5)
	c.Lines(30, 5) // evicts width 10
	if len(r.calls) != 3 {
		t.Fatalf("setup renders = %d", len(r.calls))
	}

	c.Lines(10, 5)
	if len(r.calls) != 4 {
		t.Errorf("evicted width should re-render, got %d calls", len(r.calls))
	}
	c.Lines(30, 5)
	if len(r.calls) != 4 {
		t.Errorf("resident width re-rendered, got %d calls", len(r.calls))
	}
}
