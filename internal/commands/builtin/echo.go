package builtin

import "gameterm/internal/commands"

// Echo waits for one line of input and prints it back.
func Echo() *commands.Command {
	return commands.New("echo", "ask user for input, and print it once enter has been pressed.").
		Run(func(inv *commands.Invocation) error {
			line, err := inv.ReadLine()
			if err != nil {
				return err
			}
			inv.Printer().Println(line)
			return nil
		})
}
