// Package shell runs a command loop on top of a terminal device: it prints a
// prompt, reads a line, splits it like a POSIX shell and dispatches the first
// word to a registered command.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"gameterm/internal/commands"
	"gameterm/internal/logger"
	"gameterm/internal/output"
	"gameterm/internal/render"
	"gameterm/internal/terminal"
)

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt sets the text written before every command line.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithCommandPrefix sets a prefix that is stripped from the command word,
// e.g. "/" so that "/help" runs help.
func WithCommandPrefix(prefix string) Option {
	return func(s *Shell) {
		s.prefix = prefix
	}
}

// WithStreams sets the streams used while the shell is not bound.
func WithStreams(streams commands.Streams) Option {
	return func(s *Shell) {
		s.streams = streams
	}
}

// Shell dispatches command lines read from a terminal device.
type Shell struct {
	id       string
	device   *terminal.Device
	registry *commands.Registry
	prompt   string
	prefix   string

	mu          sync.Mutex
	streams     commands.Streams
	saved       commands.Streams
	bound       bool
	state       State
	helpEnabled bool

	dead     chan struct{}
	killOnce sync.Once

	logger *log.Logger
}

// New creates a shell over device with an empty command registry. Until Bind
// is called, commands talk to the process's standard streams.
func New(device *terminal.Device, opts ...Option) *Shell {
	s := &Shell{
		id:          uuid.NewString(),
		device:      device,
		registry:    commands.NewRegistry(),
		streams:     commands.ProcessStreams(),
		state:       StatePrompt,
		helpEnabled: true,
		dead:        make(chan struct{}),
		logger:      logger.NewStyledLogger("Shell"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = s.streams.WithDefaults()
	return s
}

// ID returns the shell identifier used in logs.
func (s *Shell) ID() string {
	return s.id
}

// Device returns the terminal the shell reads from.
func (s *Shell) Device() *terminal.Device {
	return s.device
}

// Command registers a command.
func (s *Shell) Command(cmd *commands.Command) error {
	return s.registry.Register(cmd)
}

// Names lists registered commands in registration order.
func (s *Shell) Names() []string {
	return s.registry.Names()
}

// DisableHelp turns off the built-in help command.
func (s *Shell) DisableHelp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helpEnabled = false
}

// Bind points all three streams at the device and remembers the previous ones.
func (s *Shell) Bind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound {
		return
	}
	s.saved = s.streams
	s.streams = commands.Streams{Out: s.device, Err: s.device, In: s.device}
	s.bound = true
	s.logger.Debug("Bound streams to device", "shell", s.id, "device", s.device.ID())
}

// Unbind restores the streams saved by Bind.
func (s *Shell) Unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.bound {
		return
	}
	s.streams = s.saved
	s.saved = commands.Streams{}
	s.bound = false
}

// Streams returns the streams commands currently use.
func (s *Shell) Streams() commands.Streams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams
}

// State returns what the shell is doing.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Shell) setState(state State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	s.state = state
	return prev
}

// RunCmd runs one command. Unknown commands and parse failures are reported
// on the shell's streams and are not errors. Errors returned by a handler are
// printed as "<cmd>: <err>", except kill, quit and context errors, which are
// returned so the loop can stop.
func (s *Shell) RunCmd(ctx context.Context, cmd string, args []string) error {
	name := strings.TrimPrefix(cmd, s.prefix)
	streams := s.Streams()

	s.mu.Lock()
	help := s.helpEnabled
	s.mu.Unlock()

	if name == "help" && help {
		plainPrinter(streams.Out).Println(commands.HelpText(s.registry.Names()))
		return nil
	}

	c, ok := s.registry.Get(name)
	if !ok {
		plainPrinter(streams.Out).Println(name + ": command not found!")
		return nil
	}

	logger.CommandDispatch(name, args)
	prev := s.setState(StateRunning)
	defer s.setState(prev)

	streams.In = &inputReader{shell: s, in: streams.In}
	err := c.Execute(ctx, streams, args)
	switch {
	case err == nil, errors.Is(err, commands.ErrParse):
		return nil
	case errors.Is(err, terminal.ErrKilled),
		errors.Is(err, terminal.ErrQuit),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		s.logger.Debug("Command failed", "shell", s.id, "command", name, "error", err)
		plainPrinter(streams.Err).Error(fmt.Sprintf("%s: %v", name, err))
		return nil
	}
}

// Mainloop prompts, reads and dispatches until the shell is killed, which
// returns nil after printing "exiting mainloop". When the device is in owner
// mode the loop also drains the event source and presents a frame between
// commands; a quit event ends the loop with terminal.ErrQuit.
func (s *Shell) Mainloop(ctx context.Context, fps int) error {
	owner := s.device.Mode() == terminal.ModeOwner
	s.logger.Debug("Mainloop started", "shell", s.id, "mode", s.device.Mode())

	var clock terminal.Clock
	for !s.Dead() {
		streams := s.Streams()
		_, _ = io.WriteString(streams.Out, s.prompt)

		line, err := streams.In.ReadLine(ctx)
		if errors.Is(err, terminal.ErrKilled) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if err := s.dispatch(ctx, line); err != nil {
			if errors.Is(err, terminal.ErrKilled) {
				break
			}
			return err
		}

		if err := clock.Tick(ctx, fps); err != nil {
			return err
		}
		if owner {
			if err := s.device.Pump(); err != nil {
				return err
			}
			s.device.Present()
		}
	}

	plainPrinter(s.Streams().Out).Println("exiting mainloop")
	s.logger.Debug("Mainloop exited", "shell", s.id)
	return nil
}

func (s *Shell) dispatch(ctx context.Context, line string) error {
	words, err := shellquote.Split(line)
	if err != nil {
		plainPrinter(s.Streams().Err).Error(fmt.Sprintf("syntax error: %v", err))
		return nil
	}
	if len(words) == 0 {
		return nil
	}
	for i := range words {
		words[i] = strings.TrimSpace(words[i])
	}
	return s.RunCmd(ctx, words[0], words[1:])
}

// plainPrinter writes shell feedback. Errors get the "error: " prefix.
func plainPrinter(w io.Writer) *output.Printer {
	return output.NewPrinter(output.WithWriter(w), output.PlainText())
}

// Start switches the device to worker mode and runs Mainloop on its own
// goroutine. The host keeps calling AddEvent and Update from its loop. The
// channel receives Mainloop's result and is then closed.
func (s *Shell) Start(ctx context.Context, fps int) <-chan error {
	s.device.SetMode(terminal.ModeWorker)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		errc <- s.Mainloop(ctx, fps)
	}()
	return errc
}

// AddEvent forwards a host event to a worker-mode read.
func (s *Shell) AddEvent(ev terminal.Event) {
	s.device.Push(ev)
}

// Update advances the cursor and returns the frame to draw, or nil once the
// shell is dead.
func (s *Shell) Update() render.Surface {
	if s.Dead() {
		return nil
	}
	s.device.Update()
	return s.device.Frame()
}

// Kill stops the main loop and wakes any read blocked on the device.
func (s *Shell) Kill() {
	s.killOnce.Do(func() {
		close(s.dead)
		s.device.Kill()
		s.logger.Debug("Shell killed", "shell", s.id)
	})
}

// Dead reports whether Kill has been called.
func (s *Shell) Dead() bool {
	select {
	case <-s.dead:
		return true
	default:
		return false
	}
}

// inputReader marks the shell as waiting for input while a handler reads.
type inputReader struct {
	shell *Shell
	in    commands.LineReader
}

func (r *inputReader) ReadLine(ctx context.Context) (string, error) {
	prev := r.shell.setState(StateInput)
	defer r.shell.setState(prev)
	return r.in.ReadLine(ctx)
}
