package terminal

const (
	// DefaultCursorPeriod is the number of frames the cursor stays hidden
	// before it is drawn.
	DefaultCursorPeriod = 30
	// DefaultCursorGlyph is drawn after the pending input.
	DefaultCursorGlyph = "_"
)

// Cursor is a frame-counted blinker. It is hidden for the first period
// frames of a cycle and shown until the cycle resets at twice the period.
type Cursor struct {
	glyph   string
	period  int
	frames  int
	visible bool
}

// NewCursor returns a hidden cursor at the start of its cycle.
func NewCursor(glyph string, period int) *Cursor {
	if period < 1 {
		period = DefaultCursorPeriod
	}
	return &Cursor{glyph: glyph, period: period}
}

// Tick advances the blinker by one frame.
func (c *Cursor) Tick() {
	c.frames++
	c.visible = c.frames > c.period
	if c.frames >= c.period*2 {
		c.visible = true
		c.frames = 0
	}
}

// Visible reports whether the glyph is currently drawn.
func (c *Cursor) Visible() bool {
	return c.visible
}

// Glyph returns the glyph to draw this frame, empty while hidden.
func (c *Cursor) Glyph() string {
	if c.visible {
		return c.glyph
	}
	return ""
}
