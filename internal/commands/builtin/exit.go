package builtin

import "gameterm/internal/commands"

// Exit kills the shell.
func Exit(k Killer) *commands.Command {
	return commands.New("exit", "kill the shell.").
		Run(func(*commands.Invocation) error {
			k.Kill()
			return nil
		})
}
