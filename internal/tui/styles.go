package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/timbenroeck/macos-capture-transcripts/internal/parse"
)

var (
	colorAccent = lipgloss.Color("12")  // bright blue
	colorDim    = lipgloss.Color("240") // gray
	colorCursor = lipgloss.Color("11")  // bright yellow
	colorFrame  = lipgloss.Color("238") // dark gray

	styleInput  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleCursor = lipgloss.NewStyle().Foreground(colorCursor).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)

	stylePanel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFrame)
	styleActivePanel = stylePanel.BorderForeground(colorAccent)
	styleStatusBar   = styleDim.Padding(0, 1)

	// source column, fixed width so names line up
	sourceColumn = lipgloss.NewStyle().Width(7)
	sourceStyles = map[string]lipgloss.Style{
		parse.SourceTeams: sourceColumn.Foreground(colorAccent),
		parse.SourceZoom:  sourceColumn.Foreground(lipgloss.Color("10")),
		parse.SourceWebex: sourceColumn.Foreground(lipgloss.Color("13")),
	}
)

func sourceLabel(source string) string {
	if s, ok := sourceStyles[source]; ok {
		return s.Render(source)
	}
	return sourceColumn.Render(source)
}
