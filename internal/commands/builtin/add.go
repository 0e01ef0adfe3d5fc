package builtin

import (
	"math"
	"strconv"
	"strings"

	"gameterm/internal/commands"
)

// Add prints the sum of two numbers, or "howdy" when the first one is a
// whole multiple of 8.
func Add() *commands.Command {
	return commands.New("add", "add two numbers.\n\nnote: if num1 is divisible by 8, it will say \"howdy\" instead.").
		Arg("num1", "first number").
		Arg("num2", "second number").
		Run(func(inv *commands.Invocation) error {
			num1, err := inv.Float("num1")
			if err != nil {
				return err
			}
			if num1 == math.Trunc(num1) && math.Mod(num1, 8) == 0 {
				inv.Printer().Println("howdy")
				return nil
			}

			num2, err := inv.Float("num2")
			if err != nil {
				return err
			}
			inv.Printer().Println(formatFloat(num1 + num2))
			return nil
		})
}

// formatFloat prints whole numbers with a trailing ".0" so sums always read
// as floats.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
