package terminal

import "unicode/utf8"

// maxHistory bounds the recalled command lines.
const maxHistory = 64

// Editor is the console input line with command history. Up/Down walk history;
// editing a recalled line leaves history untouched.
type Editor struct {
	buf     string
	history []string
	// pos indexes history while recalling; len(history) means the live line.
	pos   int
	draft string
}

// Text returns the current line.
func (e *Editor) Text() string {
	return e.buf
}

// Insert appends s at the end of the line.
func (e *Editor) Insert(s string) {
	e.buf += s
}

// Backspace removes the last rune.
func (e *Editor) Backspace() {
	if e.buf == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(e.buf)
	e.buf = e.buf[:len(e.buf)-size]
}

// Enter returns the line, records it in history and clears the editor. Empty lines return "".
func (e *Editor) Enter() string {
	line := e.buf
	e.buf, e.draft = "", ""
	if line == "" {
		e.pos = len(e.history)
		return ""
	}
	if n := len(e.history); n == 0 || e.history[n-1] != line {
		e.history = append(e.history, line)
		if len(e.history) > maxHistory {
			e.history = e.history[len(e.history)-maxHistory:]
		}
	}
	e.pos = len(e.history)
	return line
}

// Prev recalls the previous history entry.
func (e *Editor) Prev() {
	if e.pos == 0 {
		return
	}
	if e.pos == len(e.history) {
		e.draft = e.buf
	}
	e.pos--
	e.buf = e.history[e.pos]
}

// Next moves toward the live line, restoring what was typed before recalling.
func (e *Editor) Next() {
	if e.pos >= len(e.history) {
		return
	}
	e.pos++
	if e.pos == len(e.history) {
		e.buf = e.draft
		return
	}
	e.buf = e.history[e.pos]
}
