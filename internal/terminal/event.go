package terminal

// EventType classifies an input event.
type EventType int

const (
	// EventOther is any event the terminal ignores apart from updating.
	EventOther EventType = iota
	// EventKeyDown carries a typed character or control code.
	EventKeyDown
	// EventQuit asks the host loop to terminate.
	EventQuit
)

// Control codes carried by key-down events.
const (
	KeyEnter     = '\r'
	KeyBackspace = '\b'
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventOther:
		return "Other"
	case EventKeyDown:
		return "KeyDown"
	case EventQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Event is a single input event delivered to a Device.
type Event struct {
	Type EventType
	Rune rune
}

// KeyDown returns a key-down event for r.
func KeyDown(r rune) Event {
	return Event{Type: EventKeyDown, Rune: r}
}

// Quit returns a quit event.
func Quit() Event {
	return Event{Type: EventQuit}
}

// Keys converts text into one key-down event per rune. Newlines become Enter.
func Keys(text string) []Event {
	events := make([]Event, 0, len(text))
	for _, r := range text {
		if r == '\n' {
			r = KeyEnter
		}
		events = append(events, KeyDown(r))
	}
	return events
}

// EventSource is polled by the owning loop. PollEvents must not block; it
// returns whatever arrived since the previous call, oldest first.
type EventSource interface {
	PollEvents() []Event
}

// EventSourceFunc adapts a function to EventSource.
type EventSourceFunc func() []Event

// PollEvents implements EventSource.
func (f EventSourceFunc) PollEvents() []Event {
	return f()
}
