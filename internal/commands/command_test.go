package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameterm/internal/output"
)

type lines []string

func (l *lines) ReadLine(context.Context) (string, error) {
	if len(*l) == 0 {
		return "", errors.New("no input")
	}
	line := (*l)[0]
	*l = (*l)[1:]
	return line, nil
}

func testStreams(in ...string) (Streams, *output.CaptureBuffer, *output.CaptureBuffer) {
	out := output.NewCaptureBuffer()
	errOut := output.NewCaptureBuffer()
	input := lines(in)
	return Streams{Out: out, Err: errOut, In: &input}, out, errOut
}

func TestNew_SplitsDoc(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantShort string
		wantLong  string
	}{
		{name: "one line", doc: "Adds numbers.", wantShort: "Adds numbers."},
		{
			name:      "extended",
			doc:       "Adds numbers.\n\nPrints howdy when the first is a multiple of 8.",
			wantShort: "Adds numbers.",
			wantLong:  "Prints howdy when the first is a multiple of 8.",
		},
		{name: "empty", doc: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("x", tt.doc)
			assert.Equal(t, tt.wantShort, c.Short())
			assert.Equal(t, tt.wantLong, c.Long())
		})
	}
}

func TestExecute_PositionalArgs(t *testing.T) {
	var got []string
	cmd := New("add", "Adds.").
		Arg("num1", "first").
		Arg("num2", "second").
		Run(func(inv *Invocation) error {
			got = []string{inv.Arg("num1"), inv.Arg("num2")}
			f, err := inv.Float("num1")
			require.NoError(t, err)
			assert.Equal(t, 4.0, f)
			return nil
		})

	streams, _, _ := testStreams()
	require.NoError(t, cmd.Execute(context.Background(), streams, []string{"4", "5"}))
	assert.Equal(t, []string{"4", "5"}, got)
}

func TestExecute_NegativePositional(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantArgs  []string
		wantCount int
	}{
		{name: "first negative", args: []string{"-5", "3"}, wantArgs: []string{"-5", "3"}},
		{name: "second negative", args: []string{"3", "-5"}, wantArgs: []string{"3", "-5"}},
		{name: "both negative", args: []string{"-1.5", "-2"}, wantArgs: []string{"-1.5", "-2"}},
		{name: "flag after negative", args: []string{"-5", "--count", "2", "3"}, wantArgs: []string{"-5", "3"}, wantCount: 2},
		{name: "negative flag value", args: []string{"--count", "-4", "1", "-2"}, wantArgs: []string{"1", "-2"}, wantCount: -4},
		{name: "explicit separator", args: []string{"-7", "--", "-x"}, wantArgs: []string{"-7", "-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			var count int
			cmd := New("add", "Adds.").
				Arg("num1", "first").
				Arg("num2", "second").
				Flag("count", 0, "repeat").
				Run(func(inv *Invocation) error {
					got = []string{inv.Arg("num1"), inv.Arg("num2")}
					var err error
					count, err = inv.Int("count")
					return err
				})

			streams, _, errOut := testStreams()
			require.NoError(t, cmd.Execute(context.Background(), streams, tt.args), errOut.String())
			assert.Equal(t, tt.wantArgs, got)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestExecute_NegativeLookalikeStillAFlag(t *testing.T) {
	cmd := New("add", "Adds.").Arg("num1", "").Arg("num2", "").Run(func(*Invocation) error {
		return nil
	})

	streams, _, errOut := testStreams()
	err := cmd.Execute(context.Background(), streams, []string{"-x", "3"})
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, errOut.String(), "unknown shorthand flag")
}

func TestExecute_WrongArgCount(t *testing.T) {
	called := false
	cmd := New("add", "Adds.").Arg("num1", "").Arg("num2", "").Run(func(*Invocation) error {
		called = true
		return nil
	})

	for _, args := range [][]string{nil, {"1"}, {"1", "2", "3"}} {
		streams, _, errOut := testStreams()
		err := cmd.Execute(context.Background(), streams, args)
		assert.ErrorIs(t, err, ErrParse)
		assert.Contains(t, errOut.String(), "Usage:")
		assert.Contains(t, errOut.String(), "add: error:")
	}
	assert.False(t, called)
}

func TestExecute_Help(t *testing.T) {
	called := false
	cmd := New("add", "Adds two numbers.\n\nPrints howdy sometimes.").
		Arg("num1", "the first number").
		Arg("num2", "the second number").
		Run(func(*Invocation) error {
			called = true
			return nil
		})

	for _, flag := range []string{"-h", "--help"} {
		streams, out, _ := testStreams()
		err := cmd.Execute(context.Background(), streams, []string{flag})
		assert.ErrorIs(t, err, ErrParse)

		help := out.String()
		assert.Contains(t, help, "Adds two numbers.")
		assert.Contains(t, help, "Prints howdy sometimes.")
		assert.Contains(t, help, "num1")
		assert.Contains(t, help, "the second number")
		assert.Contains(t, help, "add num1 num2")
	}
	assert.False(t, called)
}

func TestExecute_Flags(t *testing.T) {
	type seen struct {
		hello bool
		count int
		big   int64
		ratio float64
		name  string
		wait  time.Duration
		tags  []string
	}

	var got seen
	cmd := New("opts", "Options.").
		Flag("hello", false, "").
		Flag("count", 1, "").
		Flag("big", int64(2), "").
		Flag("ratio", 0.5, "").
		Flag("name", "anon", "").
		Flag("wait", time.Second, "").
		Flag("tags", []string{}, "").
		Run(func(inv *Invocation) error {
			var err error
			got.hello, err = inv.Bool("hello")
			require.NoError(t, err)
			got.count, err = inv.Int("count")
			require.NoError(t, err)
			got.big, err = inv.Int64("big")
			require.NoError(t, err)
			got.ratio, err = inv.Float("ratio")
			require.NoError(t, err)
			got.name, err = inv.String("name")
			require.NoError(t, err)
			got.wait, err = inv.Duration("wait")
			require.NoError(t, err)
			got.tags, err = inv.Strings("tags")
			require.NoError(t, err)
			return nil
		})

	tests := []struct {
		name string
		args []string
		want seen
	}{
		{
			name: "defaults",
			args: []string{},
			want: seen{count: 1, big: 2, ratio: 0.5, name: "anon", wait: time.Second, tags: []string{}},
		},
		{
			name: "all set",
			args: []string{"--hello", "--count=3", "--big", "9", "--ratio", "1.5", "--name", "bob", "--wait", "2ms", "--tags", "a,b"},
			want: seen{hello: true, count: 3, big: 9, ratio: 1.5, name: "bob", wait: 2 * time.Millisecond, tags: []string{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = seen{}
			streams, _, _ := testStreams()
			require.NoError(t, cmd.Execute(context.Background(), streams, tt.args))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecute_BadFlagValue(t *testing.T) {
	cmd := New("n", "").Flag("count", 1, "").Run(noop)
	streams, _, errOut := testStreams()

	err := cmd.Execute(context.Background(), streams, []string{"--count", "many"})
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, errOut.String(), "n: error:")

	err = cmd.Execute(context.Background(), streams, []string{"--unknown"})
	assert.ErrorIs(t, err, ErrParse)
}

func TestExecute_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	cmd := New("fail", "").Run(func(*Invocation) error {
		return boom
	})

	streams, _, _ := testStreams()
	err := cmd.Execute(context.Background(), streams, nil)
	assert.Same(t, boom, err)
}

func TestExecute_InvalidPositionalConversion(t *testing.T) {
	cmd := New("add", "").Arg("num1", "").Run(func(inv *Invocation) error {
		_, err := inv.Float("num1")
		return err
	})

	streams, _, _ := testStreams()
	err := cmd.Execute(context.Background(), streams, []string{"abc"})
	require.Error(t, err)
	assert.Equal(t, `invalid value "abc" for num1`, err.Error())
}

func TestExecute_RejectsInvalidDeclaration(t *testing.T) {
	cmd := New("x", "").Flag("n", struct{}{}, "")
	streams, _, _ := testStreams()
	assert.ErrorIs(t, cmd.Execute(context.Background(), streams, nil), ErrUnsupportedType)
}

func TestInvocation_StreamsAndReadLine(t *testing.T) {
	cmd := New("echo", "").Run(func(inv *Invocation) error {
		line, err := inv.ReadLine()
		if err != nil {
			return err
		}
		inv.Printer().Println(line)
		_, err = inv.Err().Write([]byte("done"))
		return err
	})

	streams, out, errOut := testStreams("hello there")
	require.NoError(t, cmd.Execute(context.Background(), streams, nil))
	assert.Equal(t, "hello there\n", out.String())
	assert.Equal(t, "done", errOut.String())
}

func TestInvocation_Context(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	cmd := New("ctx", "").Run(func(inv *Invocation) error {
		assert.Equal(t, "v", inv.Context().Value(key{}))
		assert.Equal(t, "ctx", inv.Name())
		return nil
	})

	streams, _, _ := testStreams()
	require.NoError(t, cmd.Execute(ctx, streams, nil))
}

func TestReaderLines(t *testing.T) {
	r := NewReaderLines(strings.NewReader("one\r\ntwo\nthree"))
	ctx := context.Background()

	for _, want := range []string{"one", "two", "three"} {
		got, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.ReadLine(ctx)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.ReadLine(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommand_Usage(t *testing.T) {
	cmd := New("say_hi", "Greets.").Flag("hello", false, "say hello instead").Run(noop)
	usage := cmd.Usage()
	assert.Contains(t, usage, "say_hi")
	assert.Contains(t, usage, "--hello")
	assert.Contains(t, usage, "say hello instead")
}
