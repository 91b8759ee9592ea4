package compose

import (
	"strings"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

// Paragraphs merges each maximal run of same-speaker entries into one
// paragraph, joining texts with a single space. Entries with no text after
// normalization are skipped entirely, so they neither start nor break a run.
func Paragraphs(entries []transcript.Entry) []transcript.Paragraph {
	var (
		out     []transcript.Paragraph
		speaker string
		started bool
		buf     []string
	)

	flush := func() {
		if len(buf) > 0 {
			out = append(out, transcript.Paragraph{
				Speaker: speaker,
				Text:    strings.Join(buf, " "),
			})
		}
		buf = buf[:0]
	}

	for _, e := range entries {
		n := e.Normalized()
		if n.Text == "" {
			continue
		}
		if !started || n.Speaker != speaker {
			flush()
			speaker = n.Speaker
			started = true
		}
		buf = append(buf, n.Text)
	}
	flush()

	return out
}
