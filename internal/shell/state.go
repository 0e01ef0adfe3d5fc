package shell

// State is what the shell is doing right now.
type State int

const (
	// StatePrompt - waiting for a command line
	StatePrompt State = iota
	// StateRunning - a command handler is executing
	StateRunning
	// StateInput - a command handler is waiting for a line of input
	StateInput
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StatePrompt:
		return "Prompt"
	case StateRunning:
		return "Running"
	case StateInput:
		return "Input"
	default:
		return "Unknown"
	}
}
