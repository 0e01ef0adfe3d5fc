package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"gameterm/internal/output"
)

// LineReader reads one committed line of input.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

// Streams are the handles a command writes to and reads from.
type Streams struct {
	Out io.Writer
	Err io.Writer
	In  LineReader
}

var stdinLines = NewReaderLines(os.Stdin)

// ProcessStreams returns the process's standard streams.
func ProcessStreams() Streams {
	return Streams{Out: os.Stdout, Err: os.Stderr, In: stdinLines}
}

// WithDefaults fills unset streams from the process streams.
func (s Streams) WithDefaults() Streams {
	std := ProcessStreams()
	if s.Out == nil {
		s.Out = std.Out
	}
	if s.Err == nil {
		s.Err = std.Err
	}
	if s.In == nil {
		s.In = std.In
	}
	return s
}

// ReaderLines reads newline-terminated lines from an io.Reader.
type ReaderLines struct {
	mu sync.Mutex
	r  *bufio.Reader
}

// NewReaderLines wraps r.
func NewReaderLines(r io.Reader) *ReaderLines {
	return &ReaderLines{r: bufio.NewReader(r)}
}

// ReadLine implements LineReader. The underlying read cannot be interrupted;
// ctx is only checked before it starts.
func (l *ReaderLines) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := l.r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Invocation is what a handler receives: the parsed arguments and the
// streams of the shell that dispatched it.
type Invocation struct {
	ctx     context.Context
	name    string
	args    map[string]string
	flags   *pflag.FlagSet
	streams Streams
	printer *output.Printer
}

func newInvocation(ctx context.Context, c *Command, flags *pflag.FlagSet, positional []string, streams Streams) *Invocation {
	args := make(map[string]string, len(c.args))
	for i, a := range c.args {
		if i < len(positional) {
			args[a.name] = positional[i]
		}
	}
	return &Invocation{
		ctx:     ctx,
		name:    c.name,
		args:    args,
		flags:   flags,
		streams: streams,
		printer: output.NewPrinter(output.WithWriter(streams.Out), output.PlainText()),
	}
}

// Context returns the context of the dispatching loop.
func (i *Invocation) Context() context.Context {
	return i.ctx
}

// Name returns the command name.
func (i *Invocation) Name() string {
	return i.name
}

// Arg returns a positional argument verbatim.
func (i *Invocation) Arg(name string) string {
	return i.args[name]
}

// Changed reports whether a flag was given on the command line.
func (i *Invocation) Changed(name string) bool {
	return i.flags.Changed(name)
}

// String returns a positional argument or string flag.
func (i *Invocation) String(name string) (string, error) {
	if v, ok := i.args[name]; ok {
		return v, nil
	}
	return i.flags.GetString(name)
}

// Bool returns a positional argument or flag as a bool.
func (i *Invocation) Bool(name string) (bool, error) {
	if v, ok := i.args[name]; ok {
		b, err := strconv.ParseBool(v)
		return b, invalid(name, v, err)
	}
	return i.flags.GetBool(name)
}

// Int returns a positional argument or flag as an int.
func (i *Invocation) Int(name string) (int, error) {
	if v, ok := i.args[name]; ok {
		n, err := strconv.Atoi(v)
		return n, invalid(name, v, err)
	}
	return i.flags.GetInt(name)
}

// Int64 returns a positional argument or flag as an int64.
func (i *Invocation) Int64(name string) (int64, error) {
	if v, ok := i.args[name]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		return n, invalid(name, v, err)
	}
	return i.flags.GetInt64(name)
}

// Float returns a positional argument or flag as a float64.
func (i *Invocation) Float(name string) (float64, error) {
	if v, ok := i.args[name]; ok {
		f, err := strconv.ParseFloat(v, 64)
		return f, invalid(name, v, err)
	}
	return i.flags.GetFloat64(name)
}

// Duration returns a positional argument or flag as a time.Duration.
func (i *Invocation) Duration(name string) (time.Duration, error) {
	if v, ok := i.args[name]; ok {
		d, err := time.ParseDuration(v)
		return d, invalid(name, v, err)
	}
	return i.flags.GetDuration(name)
}

// Strings returns a string-slice flag, or a positional argument as a
// one-element slice.
func (i *Invocation) Strings(name string) ([]string, error) {
	if v, ok := i.args[name]; ok {
		return []string{v}, nil
	}
	return i.flags.GetStringSlice(name)
}

func invalid(name, value string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid value %q for %s", value, name)
}

// Out is where the command's output goes.
func (i *Invocation) Out() io.Writer {
	return i.streams.Out
}

// Err is where the command's diagnostics go.
func (i *Invocation) Err() io.Writer {
	return i.streams.Err
}

// In is the line source of the shell.
func (i *Invocation) In() LineReader {
	return i.streams.In
}

// Printer writes plain semantic output to Out.
func (i *Invocation) Printer() *output.Printer {
	return i.printer
}

// ReadLine reads one line from the shell's input.
func (i *Invocation) ReadLine() (string, error) {
	return i.streams.In.ReadLine(i.ctx)
}
