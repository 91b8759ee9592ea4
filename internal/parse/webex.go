package parse

import (
	"strings"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

// ParseWebex reads the first AXTable of a Webex tree. Each AXRow's first
// AXCell holds static texts (speaker and "HH:MM[:SS]") and a scroll area
// wrapping the message text area. Rows missing any part are dropped.
func ParseWebex(root Node) []transcript.Entry {
	table, ok := findRole(root, "AXTable")
	if !ok {
		return nil
	}

	var entries []transcript.Entry
	for _, row := range table.Children {
		if row.Role != "AXRow" || len(row.Children) == 0 {
			continue
		}
		cell := row.Children[0]
		if cell.Role != "AXCell" {
			continue
		}

		var speaker, stamp, text string
		for _, child := range cell.Children {
			switch child.Role {
			case "AXStaticText":
				v := strings.TrimSpace(child.StringValue())
				if n := strings.Count(v, ":"); n == 1 || n == 2 {
					stamp = v
				} else {
					speaker = v
				}
			case "AXScrollArea":
				for _, gc := range child.Children {
					if gc.Role == "AXTextArea" {
						text = strings.TrimSpace(gc.StringValue())
						break
					}
				}
			}
		}

		if speaker == "" || stamp == "" || text == "" {
			continue
		}
		entries = append(entries, transcript.Entry{
			Speaker:   speaker,
			Text:      text,
			Timestamp: ParseEntryTime(stamp),
			Stamp:     stamp,
		})
	}
	return entries
}
