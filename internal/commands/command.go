// Package commands declares shell commands and synthesizes their argument
// parsers. A command states its positional arguments and flags up front;
// each invocation builds a fresh cobra parser from that declaration.
package commands

import (
	"fmt"
	"strings"
	"time"
)

// Handler runs a parsed command.
type Handler func(inv *Invocation) error

type argSpec struct {
	name string
	help string
}

type flagSpec struct {
	name string
	def  interface{}
	help string
}

// Command is a declared shell command.
type Command struct {
	name    string
	short   string
	long    string
	args    []argSpec
	flags   []flagSpec
	handler Handler
	err     error
}

// New declares a command. The doc text up to the first blank line is the
// short description; anything after it is the extended description.
func New(name, doc string) *Command {
	c := &Command{name: name}
	doc = strings.TrimSpace(doc)
	if short, long, found := strings.Cut(doc, "\n\n"); found {
		c.short = strings.TrimSpace(short)
		c.long = strings.TrimSpace(long)
	} else {
		c.short = doc
	}
	return c
}

// Arg adds a required positional argument.
func (c *Command) Arg(name, help string) *Command {
	c.args = append(c.args, argSpec{name: name, help: help})
	return c
}

// Flag adds an optional --name flag. The default's type decides how the value
// is parsed: bool, int, int64, float64, string, time.Duration or []string.
func (c *Command) Flag(name string, def interface{}, help string) *Command {
	switch def.(type) {
	case bool, int, int64, float64, string, time.Duration, []string:
	default:
		if c.err == nil {
			c.err = fmt.Errorf("%w: flag --%s of %s has type %T", ErrUnsupportedType, name, c.name, def)
		}
	}
	c.flags = append(c.flags, flagSpec{name: name, def: def, help: help})
	return c
}

// Run sets the handler.
func (c *Command) Run(h Handler) *Command {
	c.handler = h
	return c
}

// Name returns the command name.
func (c *Command) Name() string {
	return c.name
}

// Short returns the one-line description.
func (c *Command) Short() string {
	return c.short
}

// Long returns the extended description, if any.
func (c *Command) Long() string {
	return c.long
}

// Args returns the positional argument names in order.
func (c *Command) Args() []string {
	names := make([]string, len(c.args))
	for i, a := range c.args {
		names[i] = a.name
	}
	return names
}

// Validate reports declaration errors.
func (c *Command) Validate() error {
	if c.err != nil {
		return c.err
	}
	if c.name == "" {
		return fmt.Errorf("%w: command name cannot be empty", ErrInvalidCommand)
	}
	if strings.ContainsAny(c.name, " \t\n") {
		return fmt.Errorf("%w: command name %q contains whitespace", ErrInvalidCommand, c.name)
	}
	if c.handler == nil {
		return fmt.Errorf("%w: command %s has no handler", ErrInvalidCommand, c.name)
	}
	return nil
}

// use renders the cobra usage line, e.g. "add num1 num2".
func (c *Command) use() string {
	parts := append([]string{c.name}, c.Args()...)
	return strings.Join(parts, " ")
}

// argsHelp lists the positional arguments for the extended help text.
func (c *Command) argsHelp() string {
	if len(c.args) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Arguments:\n")
	for _, a := range c.args {
		fmt.Fprintf(&b, "  %-12s %s\n", a.name, a.help)
	}
	return strings.TrimRight(b.String(), "\n")
}
