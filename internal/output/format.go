package output

import (
	"io"
	"strings"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

// Mode selects how a Document is rendered.
type Mode string

const (
	// ModeReconciled renders speaker paragraphs.
	ModeReconciled Mode = "reconciled"
	// ModeFullHistory renders one block per entry with its timestamp.
	ModeFullHistory Mode = "full-history"
)

// Document is the final structure handed to the writer.
type Document struct {
	Mode       Mode
	Entries    []transcript.Entry     // ModeFullHistory
	Paragraphs []transcript.Paragraph // ModeReconciled
}

// Block is one rendered speaker block.
type Block struct {
	Speaker string
	Stamp   string // entry clock, empty when absent
	Text    string
	Line    int // 1-based line of the block header in the text output
}

func (b Block) header() string {
	if b.Stamp == "" {
		return "[" + b.Speaker + "]"
	}
	return "[" + b.Speaker + "] " + b.Stamp
}

// Blocks lays out a document as speaker blocks with their line numbers.
func Blocks(doc Document) []Block {
	var blocks []Block
	switch doc.Mode {
	case ModeFullHistory:
		blocks = make([]Block, 0, len(doc.Entries))
		for _, e := range doc.Entries {
			b := Block{Speaker: e.Speaker, Stamp: e.Clock(), Text: e.Text}
			blocks = append(blocks, b)
		}
	default:
		blocks = make([]Block, 0, len(doc.Paragraphs))
		for _, p := range doc.Paragraphs {
			blocks = append(blocks, Block{Speaker: p.Speaker, Text: p.Text})
		}
	}

	line := 1
	for i := range blocks {
		blocks[i].Line = line
		// header + text lines + blank separator
		line += 2 + strings.Count(blocks[i].Text, "\n") + 1
	}
	return blocks
}

// Encode serializes doc in the transcript text format:
//
//	[Speaker] HH:MM:SS
//	text
//
// with the timestamp present only for full-history documents.
func Encode(w io.Writer, doc Document) error {
	var b strings.Builder
	for i, blk := range Blocks(doc) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(blk.header())
		b.WriteString("\n")
		b.WriteString(blk.Text)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Text returns the serialized document.
func Text(doc Document) string {
	var b strings.Builder
	Encode(&b, doc)
	return b.String()
}

// Paragraphs renders the reconciled path.
func Paragraphs(ps []transcript.Paragraph) string {
	return Text(Document{Mode: ModeReconciled, Paragraphs: ps})
}

// FullHistory renders entries one block each, in the given order.
func FullHistory(entries []transcript.Entry) string {
	return Text(Document{Mode: ModeFullHistory, Entries: entries})
}
