package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = newPalette(paletteColors{
	heading:   "#7D56F4",
	done:      "#04B575",
	failed:    "#FF0000",
	attention: "#FFA500",
	muted:     "#626262",
})

type paletteColors struct {
	heading, done, failed, attention, muted string
}

// palette holds the dashboard styles, named by what they mark on screen.
type palette struct {
	heading   lipgloss.Style
	done      lipgloss.Style
	failed    lipgloss.Style
	attention lipgloss.Style
	muted     lipgloss.Style
}

func newPalette(c paletteColors) palette {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return palette{
		heading:   fg(c.heading).Bold(true).MarginBottom(1),
		done:      fg(c.done).Bold(true),
		failed:    fg(c.failed).Bold(true),
		attention: fg(c.attention),
		muted:     fg(c.muted).Italic(true),
	}
}
