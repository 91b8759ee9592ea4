package parse

import (
	"strings"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

const unknownSpeaker = "Unknown Speaker"

// ParseZoom reads Zoom's transcript table. A row holding an AXImage starts a
// speaker block; following rows hold "HH:MM:SS" plus text, or continuation
// text for the current timestamp.
func ParseZoom(root Node) []transcript.Entry {
	table := root
	if root.Role != "AXTable" {
		if t, ok := findRole(root, "AXTable"); ok {
			table = t
		}
	}

	var (
		entries []transcript.Entry
		speaker string
		stamp   string
		buf     []string
	)

	flush := func() {
		if speaker != "" && stamp != "" && len(buf) > 0 {
			text := strings.TrimSpace(strings.Join(buf, " "))
			if text != "" {
				entries = append(entries, transcript.Entry{
					Speaker:   speaker,
					Text:      text,
					Timestamp: ParseEntryTime(stamp),
					Stamp:     stamp,
				})
			}
		}
		buf = nil
	}

	for _, row := range table.Children {
		if len(row.Children) == 0 {
			continue
		}
		cell := row.Children[0]
		if len(cell.Children) == 0 {
			continue
		}

		var values []string
		hasImage := false
		for _, item := range cell.Children {
			switch item.Role {
			case "AXTextArea":
				values = append(values, item.StringValue())
			case "AXImage":
				hasImage = true
			}
		}

		switch {
		case hasImage:
			flush()
			stamp = ""
			speaker = unknownSpeaker
			if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
				speaker = strings.TrimSpace(values[0])
			}
		case len(values) > 0 && speaker != "":
			if len(values) >= 2 && strings.Count(values[0], ":") == 2 {
				flush()
				stamp = strings.TrimSpace(values[0])
				buf = append(buf, strings.TrimSpace(values[1]))
			} else {
				for _, v := range values {
					buf = append(buf, strings.TrimSpace(v))
				}
			}
		}
	}
	flush()

	return entries
}

// findRole returns the first node with the given role, depth first.
func findRole(n Node, role string) (Node, bool) {
	if n.Role == role {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := findRole(c, role); ok {
			return found, true
		}
	}
	return Node{}, false
}
