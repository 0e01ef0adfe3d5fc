// Package builtin provides the stock commands of a gameterm shell.
package builtin

import (
	"image"

	"gameterm/internal/commands"
	"gameterm/internal/render"
)

// Killer stops a shell's main loop.
type Killer interface {
	Kill()
}

// Snapshotter renders a terminal's current contents through any renderer.
type Snapshotter interface {
	RenderWith(r render.Renderer, size image.Point) render.Surface
	Capacity() int
}

// Defaults returns the stock commands. src may be nil, in which case no
// screenshot command is offered.
func Defaults(k Killer, src Snapshotter) []*commands.Command {
	cmds := []*commands.Command{
		SayHi(),
		Add(),
		Echo(),
		Exit(k),
		Version(),
	}
	if src != nil {
		cmds = append(cmds, Screenshot(src))
	}
	return cmds
}
