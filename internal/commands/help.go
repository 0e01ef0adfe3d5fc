package commands

import "strings"

// HelpText lists command names one per line between a header and a hint on
// per-command help.
func HelpText(names []string) string {
	var b strings.Builder
	b.WriteString("Commands:\n\n")
	for _, name := range names {
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("\n\nfor help on any individual command, type <cmd> -h.")
	return b.String()
}
