package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Execute parses args against the declaration and runs the handler. Parse
// failures print usage and the error to streams.Err and return ErrParse;
// -h/--help prints help to streams.Out and also returns ErrParse. Handler
// errors are returned unchanged.
func (c *Command) Execute(ctx context.Context, streams Streams, args []string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	streams = streams.WithDefaults()

	parser, ran := c.parser(streams)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	parser.SetArgs(numericPositionals(parser.Flags(), args))

	err := parser.ExecuteContext(ctx)
	if *ran {
		return err
	}
	if err != nil {
		fmt.Fprint(streams.Err, parser.UsageString())
		fmt.Fprintf(streams.Err, "%s: error: %v\n", c.name, err)
		return fmt.Errorf("%w: %s: %v", ErrParse, c.name, err)
	}
	return fmt.Errorf("%w: %s: help requested", ErrParse, c.name)
}

// Usage returns the usage text of the synthesized parser.
func (c *Command) Usage() string {
	parser, _ := c.parser(Streams{}.WithDefaults())
	return parser.UsageString()
}

func (c *Command) parser(streams Streams) (*cobra.Command, *bool) {
	ran := new(bool)
	parser := &cobra.Command{
		Use:           c.use(),
		Short:         c.short,
		Long:          c.longHelp(),
		Args:          cobra.ExactArgs(len(c.args)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			*ran = true
			return c.handler(newInvocation(cmd.Context(), c, cmd.Flags(), positional, streams))
		},
	}
	parser.CompletionOptions.DisableDefaultCmd = true
	parser.SetOut(streams.Out)
	parser.SetErr(streams.Err)

	for _, f := range c.flags {
		addFlag(parser.Flags(), f)
	}
	return parser, ran
}

// numericPositionals moves negative numbers behind a "--" so pflag does not
// read "-5" as a shorthand flag. Positionals that follow the first negative
// number move with it to keep their order; flags and their values stay put.
func numericPositionals(fs *pflag.FlagSet, args []string) []string {
	var front, back []string
	moved := false
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			back = append(back, args[i+1:]...)
			i = len(args)
		case isNegativeNumber(a):
			moved = true
			back = append(back, a)
		case strings.HasPrefix(a, "-") && len(a) > 1:
			front = append(front, a)
			if takesValue(fs, a) && i+1 < len(args) {
				i++
				front = append(front, args[i])
			}
		case moved:
			back = append(back, a)
		default:
			front = append(front, a)
		}
	}
	if !moved {
		return args
	}
	return append(append(front, "--"), back...)
}

func isNegativeNumber(s string) bool {
	if !strings.HasPrefix(s, "-") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// takesValue reports whether a flag token without "=" consumes the next argument.
func takesValue(fs *pflag.FlagSet, token string) bool {
	if strings.Contains(token, "=") {
		return false
	}
	var f *pflag.Flag
	if name, ok := strings.CutPrefix(token, "--"); ok {
		f = fs.Lookup(name)
	} else if name := token[1:]; len(name) == 1 {
		f = fs.ShorthandLookup(name)
	}
	return f != nil && f.NoOptDefVal == ""
}

func (c *Command) longHelp() string {
	parts := []string{c.short}
	if c.long != "" {
		parts = append(parts, c.long)
	}
	if args := c.argsHelp(); args != "" {
		parts = append(parts, args)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func addFlag(fs *pflag.FlagSet, f flagSpec) {
	switch def := f.def.(type) {
	case bool:
		fs.Bool(f.name, def, f.help)
	case int:
		fs.Int(f.name, def, f.help)
	case int64:
		fs.Int64(f.name, def, f.help)
	case float64:
		fs.Float64(f.name, def, f.help)
	case string:
		fs.String(f.name, def, f.help)
	case time.Duration:
		fs.Duration(f.name, def, f.help)
	case []string:
		fs.StringSlice(f.name, def, f.help)
	}
}
