package builtin

import "gameterm/internal/commands"

// SayHi prints "hi", or "hello" with --hello.
func SayHi() *commands.Command {
	return commands.New("say_hi", "say hi.\n\nif hello is set, say hello instead.").
		Flag("hello", false, "say hello instead of hi").
		Run(func(inv *commands.Invocation) error {
			hello, err := inv.Bool("hello")
			if err != nil {
				return err
			}
			if hello {
				inv.Printer().Println("hello")
			} else {
				inv.Printer().Println("hi")
			}
			return nil
		})
}
