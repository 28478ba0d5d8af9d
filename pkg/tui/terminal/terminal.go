// ABOUTME: Defines the Terminal interface for raw mode, size queries, and raw I/O.
// ABOUTME: Abstracts terminal operations so implementations can target real or virtual terminals.

package terminal

// Terminal abstracts low-level terminal operations: raw mode, cell and
// pixel size queries, raw byte I/O, and resize notifications.
//
// Read delivers unbuffered input bytes; in raw mode it returns as soon as
// at least one byte is available. PixelSize may report (0, 0) on platforms
// or emulators that do not expose pixel dimensions; callers fall back to
// escape-sequence probing in that case.
type Terminal interface {
	EnterRawMode() error
	ExitRawMode() error
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Flush() error
	Size() (cols, rows int, err error)
	PixelSize() (width, height int)
	OnResize(fn func(cols, rows int))
}
