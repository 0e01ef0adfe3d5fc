package shell

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameterm/internal/commands"
	"gameterm/internal/commands/builtin"
	"gameterm/internal/output"
	"gameterm/internal/render"
	"gameterm/internal/terminal"
)

func newDevice(opts ...terminal.Option) *terminal.Device {
	cfg := terminal.DefaultConfig()
	cfg.Size = image.Pt(60, 20)
	cfg.FPS = 0
	return terminal.New(render.NewCells(), cfg, opts...)
}

// captured returns a shell whose unbound streams write to buffers.
func captured(t *testing.T, opts ...Option) (*Shell, *output.CaptureBuffer, *output.CaptureBuffer) {
	t.Helper()
	out := output.NewCaptureBuffer()
	errOut := output.NewCaptureBuffer()
	opts = append([]Option{WithStreams(commands.Streams{Out: out, Err: errOut})}, opts...)
	s := New(newDevice(), opts...)
	for _, cmd := range builtin.Defaults(s, nil) {
		require.NoError(t, s.Command(cmd))
	}
	return s, out, errOut
}

func waitForLine(t *testing.T, d *terminal.Device, line string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, l := range d.Lines() {
			if l == line {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond, "line %q never appeared in %q", line, d.Lines())
}

func typeLine(s *Shell, text string) {
	for _, ev := range terminal.Keys(text + "\n") {
		s.AddEvent(ev)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Prompt", StatePrompt.String())
	assert.Equal(t, "Running", StateRunning.String())
	assert.Equal(t, "Input", StateInput.String())
	assert.Equal(t, "Unknown", State(9).String())
}

func TestRunCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      string
		args     []string
		expected string
	}{
		{name: "unknown command", cmd: "bogus", expected: "bogus: command not found!\n"},
		{name: "flagless", cmd: "say_hi", expected: "hi\n"},
		{name: "with flag", cmd: "say_hi", args: []string{"--hello"}, expected: "hello\n"},
		{name: "positional", cmd: "add", args: []string{"4", "5"}, expected: "9.0\n"},
		{name: "howdy", cmd: "add", args: []string{"8", "5"}, expected: "howdy\n"},
		{name: "negative positional", cmd: "add", args: []string{"-5", "3"}, expected: "-2.0\n"},
		{
			name:     "help",
			cmd:      "help",
			expected: "Commands:\n\nsay_hi\nadd\necho\nexit\nversion\n\n\nfor help on any individual command, type <cmd> -h.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, _ := captured(t)
			require.NoError(t, s.RunCmd(context.Background(), tt.cmd, tt.args))
			assert.Equal(t, tt.expected, out.String())
			assert.Equal(t, StatePrompt, s.State())
		})
	}
}

func TestRunCmd_ParseFailureIsAbsorbed(t *testing.T) {
	s, out, errOut := captured(t)

	require.NoError(t, s.RunCmd(context.Background(), "add", []string{"1"}))
	assert.Contains(t, errOut.String(), "add: error:")

	require.NoError(t, s.RunCmd(context.Background(), "add", []string{"-h"}))
	assert.Contains(t, out.String(), "second number")
}

func TestRunCmd_CommandPrefix(t *testing.T) {
	s, out, _ := captured(t, WithCommandPrefix("/"))

	require.NoError(t, s.RunCmd(context.Background(), "/say_hi", nil))
	require.NoError(t, s.RunCmd(context.Background(), "say_hi", nil))
	require.NoError(t, s.RunCmd(context.Background(), "/nope", nil))
	assert.Equal(t, "hi\nhi\nnope: command not found!\n", out.String())
}

func TestRunCmd_DisableHelp(t *testing.T) {
	s, out, _ := captured(t)
	s.DisableHelp()

	require.NoError(t, s.RunCmd(context.Background(), "help", nil))
	assert.Equal(t, "help: command not found!\n", out.String())
}

func TestRunCmd_HandlerErrors(t *testing.T) {
	s, _, errOut := captured(t)
	require.NoError(t, s.Command(commands.New("fail", "fails.").Run(func(*commands.Invocation) error {
		return errors.New("boom")
	})))
	require.NoError(t, s.Command(commands.New("quit", "quits.").Run(func(*commands.Invocation) error {
		return terminal.ErrQuit
	})))

	require.NoError(t, s.RunCmd(context.Background(), "fail", nil))
	assert.Equal(t, "error: fail: boom\n", errOut.String())

	assert.ErrorIs(t, s.RunCmd(context.Background(), "quit", nil), terminal.ErrQuit)
}

func TestRunCmd_StateDuringHandler(t *testing.T) {
	s, _, _ := captured(t)
	var seen State
	require.NoError(t, s.Command(commands.New("peek", "").Run(func(*commands.Invocation) error {
		seen = s.State()
		return nil
	})))

	require.NoError(t, s.RunCmd(context.Background(), "peek", nil))
	assert.Equal(t, StateRunning, seen)
	assert.Equal(t, StatePrompt, s.State())
}

func TestBindUnbind(t *testing.T) {
	s, out, _ := captured(t)
	device := s.Device()

	s.Bind()
	s.Bind()
	assert.Equal(t, device, s.Streams().Out)
	assert.Equal(t, device, s.Streams().Err)
	assert.Equal(t, device, s.Streams().In)

	require.NoError(t, s.RunCmd(context.Background(), "say_hi", nil))
	assert.Equal(t, []string{"hi", ""}, device.Lines())
	assert.Empty(t, out.String())

	s.Unbind()
	assert.Equal(t, out, s.Streams().Out)
	require.NoError(t, s.RunCmd(context.Background(), "say_hi", nil))
	assert.Equal(t, "hi\n", out.String())
}

func TestMainloop_Worker(t *testing.T) {
	s, _, _ := captured(t, WithPrompt("> "))
	s.Bind()
	device := s.Device()

	errc := s.Start(context.Background(), 0)
	assert.Equal(t, terminal.ModeWorker, device.Mode())

	typeLine(s, "bogus")
	waitForLine(t, device, "bogus: command not found!")

	typeLine(s, `add 4 "5"`)
	waitForLine(t, device, "9.0")

	typeLine(s, "echo")
	require.Eventually(t, func() bool {
		return s.State() == StateInput
	}, 2*time.Second, 5*time.Millisecond)
	typeLine(s, "parrot")
	waitForLine(t, device, "parrot")
	require.Eventually(t, func() bool {
		return s.State() == StatePrompt
	}, 2*time.Second, 5*time.Millisecond)

	frame := s.Update()
	require.NotNil(t, frame)
	assert.Equal(t, device.Size(), frame.Size())

	typeLine(s, "exit")
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("mainloop did not exit")
	}

	lines := device.Lines()
	assert.Contains(t, lines, "> bogus")
	assert.Contains(t, lines, "> exit")
	assert.Contains(t, lines, "exiting mainloop")
	assert.True(t, s.Dead())
	assert.Nil(t, s.Update())
}

func TestMainloop_KillWakesWorker(t *testing.T) {
	s, _, _ := captured(t, WithPrompt("$ "))
	s.Bind()
	errc := s.Start(context.Background(), 60)

	require.Eventually(t, func() bool {
		return s.Device().Lines()[0] == "$ "
	}, 2*time.Second, 5*time.Millisecond)

	s.Kill()
	s.Kill()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("kill did not stop the mainloop")
	}
	waitForLine(t, s.Device(), "$ exiting mainloop")
}

func TestMainloop_ContextCancel(t *testing.T) {
	s, _, _ := captured(t)
	s.Bind()
	ctx, cancel := context.WithCancel(context.Background())
	errc := s.Start(ctx, 0)

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not stop the mainloop")
	}
}

// batches is an event source handing out one batch per poll.
type batches struct {
	mu  sync.Mutex
	all [][]terminal.Event
}

func (b *batches) PollEvents() []terminal.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.all) == 0 {
		return nil
	}
	next := b.all[0]
	b.all = b.all[1:]
	return next
}

func TestMainloop_Owner(t *testing.T) {
	src := &batches{all: [][]terminal.Event{terminal.Keys("say_hi --hello\nexit\n")}}
	var frames int
	device := newDevice(
		terminal.WithEventSource(src),
		terminal.WithPresenter(terminal.PresenterFunc(func(render.Surface) { frames++ })),
	)
	s := New(device, WithPrompt("> "))
	for _, cmd := range builtin.Defaults(s, device) {
		require.NoError(t, s.Command(cmd))
	}
	s.Bind()

	require.NoError(t, s.Mainloop(context.Background(), 0))
	assert.Equal(t, []string{"> say_hi --hello", "hello", "> exit", "exiting mainloop", ""}, device.Lines())
	assert.Positive(t, frames)
}

func TestMainloop_OwnerQuit(t *testing.T) {
	src := &batches{all: [][]terminal.Event{
		terminal.Keys("say_hi\n"),
		{terminal.Quit()},
	}}
	device := newDevice(terminal.WithEventSource(src))
	s := New(device)
	for _, cmd := range builtin.Defaults(s, nil) {
		require.NoError(t, s.Command(cmd))
	}
	s.Bind()

	err := s.Mainloop(context.Background(), 0)
	assert.ErrorIs(t, err, terminal.ErrQuit)
	assert.Contains(t, device.Lines(), "hi")
}

func TestMainloop_SyntaxError(t *testing.T) {
	src := &batches{all: [][]terminal.Event{terminal.Keys("say_hi \"unterminated\n\nexit\n")}}
	device := newDevice(terminal.WithEventSource(src))
	s := New(device)
	for _, cmd := range builtin.Defaults(s, nil) {
		require.NoError(t, s.Command(cmd))
	}
	s.Bind()

	require.NoError(t, s.Mainloop(context.Background(), 0))

	var syntax bool
	for _, line := range device.Lines() {
		if strings.HasPrefix(line, "error: syntax error:") {
			syntax = true
		}
	}
	assert.True(t, syntax, "lines: %q", device.Lines())
}

func TestMainloop_UnboundReadsProcessStreams(t *testing.T) {
	out := output.NewCaptureBuffer()
	in := commands.NewReaderLines(strings.NewReader("say_hi\nbogus\n"))
	s := New(newDevice(), WithPrompt("> "), WithStreams(commands.Streams{Out: out, Err: out, In: in}))
	for _, cmd := range builtin.Defaults(s, nil) {
		require.NoError(t, s.Command(cmd))
	}

	require.NoError(t, s.Mainloop(context.Background(), 0))
	assert.Equal(t, "> hi\n> bogus: command not found!\n> exiting mainloop\n", out.String())
}
