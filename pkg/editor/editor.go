// Package editor maintains the in-progress input line: a bounded byte
// buffer with a cursor. Every operation preserves
// 0 <= cursor <= length <= Capacity.
package editor

import "strings"

// Capacity bounds the line buffer. Inserts into a full buffer are
// dropped.
const Capacity = 1024

// Editor is one session's input line. The zero value is not usable;
// call New.
type Editor struct {
	buf    []byte
	cursor int
}

// New returns an empty editor.
func New() *Editor {
	return &Editor{buf: make([]byte, 0, Capacity)}
}

// Len returns the current content length in bytes.
func (e *Editor) Len() int { return len(e.buf) }

// Cursor returns the cursor position, in [0, Len()].
func (e *Editor) Cursor() int { return e.cursor }

// Insert places one byte at the cursor and advances it. A full buffer
// makes this a no-op.
func (e *Editor) Insert(b byte) {
	if len(e.buf) >= Capacity {
		return
	}
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = b
	e.cursor++
}

// Backspace removes the byte left of the cursor. A no-op at the start
// of the line.
func (e *Editor) Backspace() {
	if e.cursor == 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
}

// DeleteForward removes the byte under the cursor. A no-op at the end
// of the line.
func (e *Editor) DeleteForward() {
	if e.cursor >= len(e.buf) {
		return
	}
	e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
}

// Home moves the cursor to the start of the line.
func (e *Editor) Home() { e.cursor = 0 }

// End moves the cursor past the last byte.
func (e *Editor) End() { e.cursor = len(e.buf) }

// Left moves the cursor one byte left, clamped at the start.
func (e *Editor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// Right moves the cursor one byte right, clamped at the end.
func (e *Editor) Right() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

// Set replaces the whole line, truncating to capacity, and leaves the
// cursor at the end.
func (e *Editor) Set(text string) {
	if len(text) > Capacity {
		text = text[:Capacity]
	}
	e.buf = append(e.buf[:0], text...)
	e.cursor = len(e.buf)
}

// Clear empties the line for reuse after submission.
func (e *Editor) Clear() {
	e.buf = e.buf[:0]
	e.cursor = 0
}

// Snapshot returns a copy of the current content for submission or
// echo.
func (e *Editor) Snapshot() string { return string(e.buf) }

// Display renders the line for the input row. With echo on the
// literal content is shown; with echo off every byte becomes one mask
// rune so the displayed length always matches the content length.
func (e *Editor) Display(echo bool, mask rune) string {
	if echo {
		return string(e.buf)
	}
	return strings.Repeat(string(mask), len(e.buf))
}
