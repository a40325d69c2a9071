package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"
)

// ColorScheme is the [fang.ColorSchemeFunc] for compass help and errors.
func ColorScheme(c lipgloss.LightDarkFunc) fang.ColorScheme {
	cs := fang.DefaultColorScheme(c)

	cs.Title = c(charmtone.Malibu, charmtone.Guppy)
	cs.Program = charmtone.Guac
	cs.Flag = c(charmtone.Charple, charmtone.Cheeky)
	cs.ErrorHeader = [2]color.Color{
		charmtone.Salt,
		charmtone.Cherry,
	}

	return cs
}
