// Package terminal implements an in-process pseudo-terminal for real-time loops:
// a scrollback buffer with a live input line, a blinking cursor, and a blocking
// line reader that can be driven either by the loop that owns the device or by
// a worker goroutine fed through an event queue.
package terminal

import (
	"context"
	"image"
	"image/color"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"gameterm/internal/logger"
	"gameterm/internal/render"
)

// Mode selects how ReadLine obtains events.
type Mode int

const (
	// ModeOwner polls the EventSource directly and presents frames itself.
	ModeOwner Mode = iota
	// ModeWorker blocks on the event queue; the owning loop pushes events.
	ModeWorker
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeOwner:
		return "owner"
	case ModeWorker:
		return "worker"
	default:
		return "unknown"
	}
}

// Config holds the visual and timing settings of a device. Size is in the
// renderer's units: pixels for a raster renderer, cells for a cell renderer.
type Config struct {
	FPS          int
	Background   color.Color
	Foreground   color.Color
	Size         image.Point
	AddSafe      bool
	CursorGlyph  string
	CursorPeriod int
}

// DefaultConfig returns a 500x350 white-on-black device at 60 frames per second.
func DefaultConfig() Config {
	return Config{
		FPS:          60,
		Background:   color.NRGBA{A: 255},
		Foreground:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Size:         image.Pt(500, 350),
		AddSafe:      true,
		CursorGlyph:  DefaultCursorGlyph,
		CursorPeriod: DefaultCursorPeriod,
	}
}

// Presenter receives frames produced while a read is in progress.
type Presenter interface {
	Present(frame render.Surface)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(frame render.Surface)

// Present implements Presenter.
func (f PresenterFunc) Present(frame render.Surface) {
	f(frame)
}

// Option configures a Device.
type Option func(*Device)

// WithEventSource sets the source polled in owner mode.
func WithEventSource(src EventSource) Option {
	return func(d *Device) {
		d.source = src
	}
}

// WithPresenter sets where frames go while a read is in progress.
func WithPresenter(p Presenter) Option {
	return func(d *Device) {
		d.presenter = p
	}
}

// WithMode sets the initial read mode.
func WithMode(m Mode) Option {
	return func(d *Device) {
		d.mode = m
	}
}

// Device is the terminal. It owns its scrollback, cursor and event queue.
// Buffer state is guarded by an internal mutex so frames can be taken from the
// owning loop while a worker goroutine reads lines.
type Device struct {
	mu        sync.Mutex
	buf       *Scrollback
	cursor    *Cursor
	lastInput string
	backlog   []Event
	mode      Mode

	renderMu sync.Mutex

	id        string
	cfg       Config
	size      image.Point
	renderer  render.Renderer
	source    EventSource
	presenter Presenter
	queue     *EventQueue
	clock     Clock

	dead     chan struct{}
	killOnce sync.Once

	logger *log.Logger
}

// New creates a device drawing through r. The buffer holds as many lines as
// fit in cfg.Size; with AddSafe the surface is padded so the last row is not
// cut in half.
func New(r render.Renderer, cfg Config, opts ...Option) *Device {
	lineHeight := r.LineHeight()
	if lineHeight < 1 {
		lineHeight = 1
	}

	size := cfg.Size
	if cfg.AddSafe {
		size.Y += size.Y % lineHeight
	}

	d := &Device{
		buf:      NewScrollback(cfg.Size.Y / lineHeight),
		cursor:   NewCursor(cfg.CursorGlyph, cfg.CursorPeriod),
		id:       uuid.NewString(),
		cfg:      cfg,
		size:     size,
		renderer: r,
		queue:    NewEventQueue(),
		dead:     make(chan struct{}),
		logger:   logger.NewStyledLogger("Terminal"),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.logger.Debug("Device created", "device", d.id, "capacity", d.buf.Capacity(), "mode", d.mode)
	return d
}

// ID returns the device identifier used in logs.
func (d *Device) ID() string {
	return d.id
}

// Size returns the padded surface size of a frame.
func (d *Device) Size() image.Point {
	return d.size
}

// Mode returns the current read mode.
func (d *Device) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// SetMode switches the read mode. It must not be called while a read is in progress.
func (d *Device) SetMode(m Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = m
	d.logger.Debug("Mode changed", "device", d.id, "mode", m)
}

// Input applies one event. It returns true when Enter committed a line.
func (d *Device) Input(ev Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inputLocked(ev)
}

func (d *Device) inputLocked(ev Event) bool {
	if ev.Type == EventKeyDown {
		switch ev.Rune {
		case KeyEnter:
			d.lastInput = d.buf.CommitInput()
			d.buf.Truncate()
			d.logger.Debug("Line committed", "device", d.id, "line", d.lastInput)
			return true
		case KeyBackspace:
			d.buf.Backspace()
		default:
			if unicode.IsPrint(ev.Rune) {
				d.buf.AppendChar(ev.Rune)
			}
		}
	}
	d.updateLocked()
	return false
}

// Update truncates the buffer and advances the cursor by one frame.
func (d *Device) Update() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updateLocked()
}

func (d *Device) updateLocked() {
	d.buf.Truncate()
	d.cursor.Tick()
}

// ReadLine blocks until a line is committed and returns it. In owner mode it
// polls the event source and presents a frame every iteration, paced to the
// configured FPS; a quit event aborts with ErrQuit. In worker mode it takes
// events from the queue one at a time. Kill wakes a blocked read with ErrKilled.
func (d *Device) ReadLine(ctx context.Context) (string, error) {
	if d.Dead() {
		return "", ErrKilled
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-d.dead:
			cancel()
		case <-ctx.Done():
		}
	}()

	if d.Mode() == ModeWorker {
		return d.readQueued(ctx)
	}
	return d.readPolled(ctx)
}

func (d *Device) readPolled(ctx context.Context) (string, error) {
	for {
		events := d.takeBacklog()
		if d.source != nil {
			events = append(events, d.source.PollEvents()...)
		}

		for i, ev := range events {
			if ev.Type == EventQuit {
				return "", ErrQuit
			}
			if d.Input(ev) {
				d.keepBacklog(events[i+1:])
				return d.LastInput(), nil
			}
		}

		d.Update()
		d.Present()
		if err := d.clock.Tick(ctx, d.cfg.FPS); err != nil {
			return "", d.cancelErr(err)
		}
	}
}

func (d *Device) readQueued(ctx context.Context) (string, error) {
	for {
		d.Present()
		ev, err := d.queue.Pop(ctx)
		if err != nil {
			return "", d.cancelErr(err)
		}
		// Kill may land while Pop hands back an event; never commit after it.
		if d.Dead() {
			return "", ErrKilled
		}
		if d.Input(ev) {
			return d.LastInput(), nil
		}
	}
}

// takeBacklog returns events that arrived after a commit in an earlier poll.
func (d *Device) takeBacklog() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	events := d.backlog
	d.backlog = nil
	return events
}

func (d *Device) keepBacklog(events []Event) {
	if len(events) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.backlog = append(d.backlog, events...)
}

// Pump drains the event source into the backlog of the next owner-mode read,
// so keys typed while a command runs are not lost. A quit event stops the
// drain and returns ErrQuit.
func (d *Device) Pump() error {
	if d.source == nil {
		return nil
	}
	events := d.source.PollEvents()
	for i, ev := range events {
		if ev.Type == EventQuit {
			d.keepBacklog(events[:i])
			return ErrQuit
		}
	}
	d.keepBacklog(events)
	return nil
}

func (d *Device) cancelErr(err error) error {
	if d.Dead() {
		return ErrKilled
	}
	return err
}

// Push enqueues an event for a worker-mode read.
func (d *Device) Push(ev Event) {
	d.queue.Push(ev)
}

// Queue exposes the event queue shared with the worker.
func (d *Device) Queue() *EventQueue {
	return d.queue
}

// Kill marks the device dead and wakes any blocked read.
func (d *Device) Kill() {
	d.killOnce.Do(func() {
		close(d.dead)
		d.logger.Debug("Device killed", "device", d.id)
	})
}

// Dead reports whether Kill has been called.
func (d *Device) Dead() bool {
	select {
	case <-d.dead:
		return true
	default:
		return false
	}
}

// Done is closed when the device is killed.
func (d *Device) Done() <-chan struct{} {
	return d.dead
}

// Frame renders the buffer with the device's renderer.
func (d *Device) Frame() render.Surface {
	return d.RenderWith(d.renderer, d.size)
}

// RenderWith renders the buffer through r onto a surface of the given size.
// The current line gets the pending input and cursor glyph appended. Rows that
// fail to render are skipped and the rows below move up.
func (d *Device) RenderWith(r render.Renderer, size image.Point) render.Surface {
	d.mu.Lock()
	lines := d.buf.Lines()
	lines[len(lines)-1] += d.buf.Pending() + d.cursor.Glyph()
	d.mu.Unlock()

	d.renderMu.Lock()
	defer d.renderMu.Unlock()

	surface := r.Compose(d.cfg.Background, size)
	lineHeight := r.LineHeight()
	y := 0
	for i, line := range lines {
		sprite, err := r.RenderText(line, d.cfg.Foreground)
		if err != nil {
			d.logger.Debug("Skipping row", "device", d.id, "row", i, "error", err)
			continue
		}
		surface.Blit(sprite, image.Pt(0, y))
		y += lineHeight
	}
	return surface
}

// Present hands the current frame to the presenter, if one is configured.
func (d *Device) Present() {
	if d.presenter == nil {
		return
	}
	d.presenter.Present(d.Frame())
}

// Echo appends a complete line without going through input.
func (d *Device) Echo(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Append(line)
	d.cursor.Tick()
}

// Write implements io.Writer. Escape sequences are dropped since the device
// draws plain text.
func (d *Device) Write(p []byte) (int, error) {
	d.WriteString(string(p))
	return len(p), nil
}

// WriteString writes text to the current line.
func (d *Device) WriteString(s string) {
	text := ansi.Strip(s)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Write(text)
}

// SetCapacity changes how many lines are kept. It takes effect on the next mutation.
func (d *Device) SetCapacity(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.SetCapacity(n)
}

// Capacity returns the line limit.
func (d *Device) Capacity() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Capacity()
}

// Lines returns a copy of the buffer lines.
func (d *Device) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Lines()
}

// Pending returns typed input not yet committed.
func (d *Device) Pending() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Pending()
}

// LastInput returns the most recently committed line.
func (d *Device) LastInput() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastInput
}

// CursorVisible reports whether the cursor glyph is drawn this frame.
func (d *Device) CursorVisible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor.Visible()
}
