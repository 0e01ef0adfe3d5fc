package terminal

import (
	"strings"
	"unicode/utf8"
)

// Scrollback holds completed lines plus the line being edited. The last entry
// of lines is always the current line; pending is typed input not yet committed.
// Scrollback is not safe for concurrent use; Device guards it.
type Scrollback struct {
	lines    []string
	pending  string
	capacity int
}

// NewScrollback returns a buffer holding one blank current line.
func NewScrollback(capacity int) *Scrollback {
	b := &Scrollback{lines: []string{""}}
	b.SetCapacity(capacity)
	return b
}

// Write appends text to the current line. Every line break commits the
// current line and starts a new one.
func (b *Scrollback) Write(text string) {
	if text == "" {
		return
	}
	segments := strings.Split(text, "\n")
	b.lines[len(b.lines)-1] += segments[0]
	b.lines = append(b.lines, segments[1:]...)
	b.Truncate()
}

// CommitInput moves pending input onto the current line, starts a new line
// and returns the committed text.
func (b *Scrollback) CommitInput() string {
	committed := b.pending
	b.lines[len(b.lines)-1] += committed
	b.lines = append(b.lines, "")
	b.pending = ""
	return committed
}

// Backspace removes the last character of pending input.
func (b *Scrollback) Backspace() {
	if b.pending == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.pending)
	b.pending = b.pending[:len(b.pending)-size]
}

// AppendChar adds one character to pending input.
func (b *Scrollback) AppendChar(r rune) {
	b.pending += string(r)
}

// Append adds a complete line after the current one. The appended line
// becomes the current line.
func (b *Scrollback) Append(line string) {
	b.lines = append(b.lines, line)
	b.Truncate()
}

// Truncate drops the oldest lines until at most capacity remain.
func (b *Scrollback) Truncate() {
	if len(b.lines) <= b.capacity {
		return
	}
	kept := make([]string, b.capacity)
	copy(kept, b.lines[len(b.lines)-b.capacity:])
	b.lines = kept
}

// SetCapacity changes the line limit. The new limit applies on the next
// mutation. Limits below one are raised to one so the current line survives.
func (b *Scrollback) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	b.capacity = n
}

// Capacity returns the line limit.
func (b *Scrollback) Capacity() int {
	return b.capacity
}

// Lines returns a copy of all lines, oldest first.
func (b *Scrollback) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Pending returns typed input that has not been committed.
func (b *Scrollback) Pending() string {
	return b.pending
}
