// Package input adapts host event loops to terminal events.
package input

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"gameterm/internal/terminal"
)

// TcellSource pumps events from a tcell screen into a buffered channel so they
// can be drained without blocking. It implements terminal.EventSource.
type TcellSource struct {
	screen tcell.Screen
	events chan terminal.Event
	done   chan struct{}
	once   sync.Once
}

// NewTcellSource starts pumping events from screen. Call Close before Fini.
func NewTcellSource(screen tcell.Screen) *TcellSource {
	s := &TcellSource{
		screen: screen,
		events: make(chan terminal.Event, 64),
		done:   make(chan struct{}),
	}
	go s.pump()
	return s
}

func (s *TcellSource) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- Translate(ev):
		case <-s.done:
			return
		}
	}
}

// PollEvents implements terminal.EventSource.
func (s *TcellSource) PollEvents() []terminal.Event {
	var out []terminal.Event
	for {
		select {
		case ev := <-s.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Events returns the translated event stream for hosts that forward events
// to a worker instead of polling.
func (s *TcellSource) Events() <-chan terminal.Event {
	return s.events
}

// Close stops the pump. Events already buffered can still be drained.
func (s *TcellSource) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Translate maps a tcell event onto a terminal event. Ctrl-C and interrupts
// request quit; keys the terminal does not edit with become EventOther.
func Translate(ev tcell.Event) terminal.Event {
	switch tev := ev.(type) {
	case *tcell.EventKey:
		switch tev.Key() {
		case tcell.KeyEnter:
			return terminal.KeyDown(terminal.KeyEnter)
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			return terminal.KeyDown(terminal.KeyBackspace)
		case tcell.KeyCtrlC:
			return terminal.Quit()
		case tcell.KeyRune:
			return terminal.KeyDown(tev.Rune())
		}
	case *tcell.EventInterrupt:
		return terminal.Quit()
	}
	return terminal.Event{Type: terminal.EventOther}
}
