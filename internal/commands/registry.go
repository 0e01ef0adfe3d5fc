package commands

import (
	"sync"

	"github.com/charmbracelet/log"

	"gameterm/internal/logger"
)

// Registry maps command names to declarations. Each shell owns one.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	order    []string
	logger   *log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		logger:   logger.NewStyledLogger("Commands"),
	}
}

// Register adds a command. A command with the same name is replaced and keeps
// its position in Names.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil {
		return ErrInvalidCommand
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name()]; exists {
		r.logger.Warn("Replacing registered command", "command", cmd.Name())
	} else {
		r.order = append(r.order, cmd.Name())
	}
	r.commands[cmd.Name()] = cmd
	r.logger.Debug("Registered command", "command", cmd.Name(), "args", cmd.Args())
	return nil
}

// Unregister removes a command by name. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; !exists {
		return
	}
	delete(r.commands, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a command by exact name.
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// Names returns command names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
