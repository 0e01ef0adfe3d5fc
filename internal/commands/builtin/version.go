package builtin

import (
	"gameterm/internal/commands"
	"gameterm/internal/version"
)

// Version prints the build version.
func Version() *commands.Command {
	return commands.New("version", "show version information.").
		Run(func(inv *commands.Invocation) error {
			inv.Printer().Println(version.GetFormattedVersion())
			return nil
		})
}
