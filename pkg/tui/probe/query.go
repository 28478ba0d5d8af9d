// ABOUTME: Query/response protocol engine for terminal capability probing.
// ABOUTME: Brackets each query between Device Attributes fence posts and classifies the reply.

package probe

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mauromedda/nbterm-go/internal/log"
	"github.com/mauromedda/nbterm-go/pkg/tui/escape"
	"github.com/mauromedda/nbterm-go/pkg/tui/terminal"
)

// QueryCode identifies one terminal capability query.
type QueryCode int

const (
	// QueryDevice is the Secondary Device Attributes request, used as the
	// fence-post delimiter around every other query.
	QueryDevice QueryCode = iota
	// QueryPixelDimensions asks for the text area size in pixels (CSI 14t).
	QueryPixelDimensions
	// QueryBackgroundColor asks for the default background color (OSC 11).
	QueryBackgroundColor
	// QuerySixel asks for sixel graphics geometry (XTSMGRAPHICS).
	QuerySixel
	// QueryKitty sends a 1x1 kitty graphics query (APC a=q).
	QueryKitty
)

// queryCodes maps each QueryCode to its fixed outbound byte string.
// The kitty query is followed by erase-line and column-1 sequences: konsole
// echoes unknown APC payloads to the screen, and this clears the artifact.
var queryCodes = map[QueryCode]string{
	QueryDevice:          "\x1b[>0c",
	QueryPixelDimensions: "\x1b[14t",
	QueryBackgroundColor: "\x1b]11;?\x1b\\",
	QuerySixel:           "\x1b[?1;1;0S",
	QueryKitty:           "\x1b_Gi=1,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\" + "\x1b[1K" + "\x1b[1G",
}

// String returns the query name.
func (q QueryCode) String() string {
	switch q {
	case QueryDevice:
		return "device"
	case QueryPixelDimensions:
		return "pixel-dimensions"
	case QueryBackgroundColor:
		return "background-color"
	case QuerySixel:
		return "sixel"
	case QueryKitty:
		return "kitty"
	default:
		return "unknown"
	}
}

// Bytes returns the escape sequence emitted for this query.
func (q QueryCode) Bytes() []byte {
	return []byte(queryCodes[q])
}

// ErrTimeout is returned when the terminal does not complete both fence
// posts within Engine.Timeout.
var ErrTimeout = errors.New("probe: timed out waiting for terminal response")

// Engine drives single query/response round-trips against a Terminal.
//
// Queries have no declared length and terminals silently ignore ones they
// do not understand, so each query is bracketed between two Device
// Attributes requests: nearly every emulator answers those, and the real
// response (if any) is whatever arrives between the two answers.
type Engine struct {
	Term terminal.Terminal

	// Timeout bounds the wait for the second fence post. Zero preserves
	// the historical behavior of blocking until the terminal answers.
	Timeout time.Duration

	// tmux wraps outbound sequences in the tmux passthrough envelope.
	tmux bool
}

// NewEngine returns an Engine for the given terminal. The tmux passthrough
// envelope is applied automatically when running inside tmux.
func NewEngine(term terminal.Terminal) *Engine {
	return &Engine{
		Term: term,
		tmux: os.Getenv("TMUX") != "",
	}
}

type readResult struct {
	b   byte
	err error
}

// Query performs one probe round-trip and returns the classified response,
// or nil when the terminal answered the fence posts but not the query
// itself (an unsupported feature, not an error).
func (e *Engine) Query(code QueryCode) (seq *escape.Sequence, err error) {
	guard, gerr := terminal.AcquireRaw(e.Term)
	if gerr != nil {
		return nil, gerr
	}
	defer func() {
		if rerr := guard.Release(); rerr != nil && err == nil {
			seq, err = nil, rerr
		}
	}()

	if err := e.emit(QueryDevice.Bytes()); err != nil {
		return nil, err
	}

	var deadline <-chan time.Time
	if e.Timeout > 0 {
		timer := time.NewTimer(e.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	// Reads happen on demand, one byte per loop iteration, only after the
	// iteration's emits are done: reading ahead would race the terminal
	// between our writes and whatever it has buffered. On a timeout the
	// goroutine may stay blocked in at most one outstanding Read; it exits
	// on the next byte or read error.
	done := make(chan struct{})
	defer close(done)
	req := make(chan struct{})
	ch := make(chan readResult)
	go e.readLoop(req, ch, done)

	var acc []byte
	querySent := false
	fenced := false

	for {
		var r readResult
		select {
		case req <- struct{}{}:
		case <-deadline:
			return nil, ErrTimeout
		}
		select {
		case r = <-ch:
		case <-deadline:
			return nil, ErrTimeout
		}
		if r.err != nil {
			return nil, fmt.Errorf("probe %s: %w", code, r.err)
		}
		acc = append(acc, r.b)

		// Pipeline the query right behind the first delimiter: waiting for
		// the delimiter to be answered first would let a slow terminal
		// interleave the two responses.
		if !querySent {
			querySent = true
			if err := e.emit(code.Bytes()); err != nil {
				return nil, err
			}
		}

		start, end, ok := findDeviceResponse(acc)
		if !ok {
			continue
		}
		if !fenced {
			// Everything before the first fence post is noise; the query's
			// answer lies between this match and the next.
			fenced = true
			acc = acc[:0]
			if err := e.emit(QueryDevice.Bytes()); err != nil {
				return nil, err
			}
			continue
		}
		// Second fence post: drop it, classify what is left.
		acc = append(acc[:start], acc[end:]...)
		break
	}

	s, ok := escape.Classify(acc)
	if !ok {
		log.Debug("probe %s: no classifiable response in %q", code, acc)
		return nil, nil
	}
	return &s, nil
}

// emit writes and flushes one escape sequence, applying tmux passthrough
// when needed.
func (e *Engine) emit(p []byte) error {
	if e.tmux {
		p = wrapTmuxPassthrough(p)
	}
	if _, err := e.Term.Write(p); err != nil {
		return fmt.Errorf("emitting query: %w", err)
	}
	if err := e.Term.Flush(); err != nil {
		return fmt.Errorf("flushing query: %w", err)
	}
	return nil
}

// readLoop performs one single-byte read per request until an error or
// done. Waiting for a request keeps the engine from consuming terminal
// input it has not asked for yet.
func (e *Engine) readLoop(req <-chan struct{}, ch chan<- readResult, done <-chan struct{}) {
	var b [1]byte
	for {
		select {
		case <-req:
		case <-done:
			return
		}
		n, err := e.Term.Read(b[:])
		var r readResult
		if n > 0 {
			r.b = b[0]
		}
		r.err = err
		select {
		case ch <- r:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

// findDeviceResponse locates a Secondary Device Attributes answer
// (ESC [ > digits-and-semicolons c) in buf, returning its bounds.
func findDeviceResponse(buf []byte) (start, end int, ok bool) {
	for i := 0; i+3 < len(buf); i++ {
		if buf[i] != escape.ESC || buf[i+1] != '[' || buf[i+2] != '>' {
			continue
		}
		j := i + 3
		digits := false
		for j < len(buf) && (buf[j] == ';' || (buf[j] >= '0' && buf[j] <= '9')) {
			if buf[j] != ';' {
				digits = true
			}
			j++
		}
		if digits && j < len(buf) && buf[j] == 'c' {
			return i, j + 1, true
		}
	}
	return 0, 0, false
}

// wrapTmuxPassthrough wraps an escape sequence in the tmux passthrough
// envelope, doubling every ESC in the payload.
func wrapTmuxPassthrough(p []byte) []byte {
	escaped := strings.ReplaceAll(string(p), "\x1b", "\x1b\x1b")
	return []byte("\x1bPtmux;\x1b" + escaped + "\x1b\\")
}
