package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/timbenroeck/macos-capture-transcripts/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

var snippetCleaner = strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "")

func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return styleDim.Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
	}

	end := min(m.offset+max(height/linesPerItem, 1), len(m.results))
	lines := make([]string, 0, height)
	for i := m.offset; i < end; i++ {
		lines = append(lines, formatResultLine(m.results[i], width, i == m.cursor)...)
	}
	blank := strings.Repeat(" ", width)
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

// transcriptName strips the "<source>:" prefix from an archive key.
func transcriptName(key string) string {
	if _, name, ok := strings.Cut(key, ":"); ok {
		return name
	}
	return key
}

func fit(s string, width int) string {
	return runewidth.Truncate(s, max(width, 0), "")
}

// formatResultLine renders one result as a title line (source, MM-DD,
// name) and a dimmed "speaker: snippet" line.
func formatResultLine(r search.Result, width int, selected bool) []string {
	date := r.ConvertedAt
	if len(date) >= 10 {
		date = date[5:10] // MM-DD of an RFC 3339 stamp
	}

	marker := "  "
	if selected {
		marker = styleCursor.Render("> ")
	}
	// marker, source column, date, two separators
	title := fmt.Sprintf("%s%s %s %s", marker, sourceLabel(r.Source), date,
		fit(transcriptName(r.Key), width-2-7-5-2))

	snippet := snippetCleaner.Replace(r.Snippet)
	if r.Speaker != "" {
		snippet = r.Speaker + ": " + snippet
	}
	return []string{title, "    " + styleDim.Render(fit(snippet, width-4))}
}

// adjustListScroll keeps the cursor inside the visible window of a list
// listHeight lines tall.
func (m *model) adjustListScroll(listHeight int) {
	visible := max(listHeight/linesPerItem, 1)
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+visible:
		m.offset = m.cursor - visible + 1
	}
}
