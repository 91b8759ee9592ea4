// Package render draws archived transcripts for the terminal: the
// `mct preview` output and the TUI preview pane.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // keyword highlights
)

// speakerColors cycles bold foregrounds so each speaker keeps one color.
var speakerColors = []string{
	"\033[1;34m", // blue
	"\033[1;32m", // green
	"\033[1;35m", // magenta
	"\033[1;36m", // cyan
	"\033[1;33m", // yellow
}

type Options struct {
	HitBlockID int
	Context    int    // blocks before/after hit to show; < 0 shows all
	Width      int    // wrap width (0 = no wrap)
	Query      string // search query for keyword highlighting
}

var (
	ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// FTS5 syntax that is not part of any matched word
	queryOperators = map[string]bool{"AND": true, "OR": true, "NOT": true, "NEAR": true}
	queryPunct     = `"*()^:`
)

// queryPattern builds a case-insensitive matcher for the words of an FTS5
// query, or nil when the query has no words.
func queryPattern(query string) *regexp.Regexp {
	var alts []string
	for _, f := range strings.Fields(query) {
		if queryOperators[strings.ToUpper(f)] {
			continue
		}
		if w := strings.Trim(f, queryPunct); w != "" {
			alts = append(alts, regexp.QuoteMeta(w))
		}
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(alts, "|") + `)`)
}

func highlightKeywords(text, query string) string {
	re := queryPattern(query)
	if re == nil {
		return text
	}
	return re.ReplaceAllString(text, colorBoldRed+"${1}"+colorReset)
}

// wrapLine splits line into pieces of at most maxWidth visible columns.
// Escape sequences are carried along without counting toward the width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var (
		out   []string
		cur   strings.Builder
		width int
	)
	emit := func(text string) {
		for _, r := range text {
			rw := runewidth.RuneWidth(r)
			if width+rw > maxWidth && width > 0 {
				out = append(out, cur.String())
				cur.Reset()
				width = 0
			}
			cur.WriteRune(r)
			width += rw
		}
	}

	pos := 0
	for _, loc := range ansiRe.FindAllStringIndex(line, -1) {
		emit(line[pos:loc[0]])
		cur.WriteString(line[loc[0]:loc[1]])
		pos = loc[1]
	}
	emit(line[pos:])

	if cur.Len() > 0 || len(out) == 0 {
		out = append(out, cur.String())
	}
	return out
}

// speakerColor assigns colors in order of first appearance.
func speakerColor(palette map[string]string, speaker string) string {
	if c, ok := palette[speaker]; ok {
		return c
	}
	c := speakerColors[len(palette)%len(speakerColors)]
	palette[speaker] = c
	return c
}

// page accumulates wrapped output lines.
type page struct {
	b     strings.Builder
	width int
	lines int
}

func (p *page) println(format string, args ...any) {
	for _, l := range wrapLine(fmt.Sprintf(format, args...), p.width) {
		p.b.WriteString(l)
		p.b.WriteByte('\n')
		p.lines++
	}
}

// RenderTranscript renders an archived transcript and returns the content,
// the 0-based line of the hit block header (-1 without a hit), and any error.
func RenderTranscript(db *index.DB, key string, opts Options) (string, int, error) {
	switch {
	case opts.Context == 0:
		opts.Context = 10
	case opts.Context < 0:
		opts.Context = int(^uint(0) >> 2)
	}

	tr, err := db.GetTranscriptByKey(key)
	if err != nil {
		return "", -1, fmt.Errorf("get transcript: %w", err)
	}
	if tr == nil {
		return "", -1, fmt.Errorf("transcript not found: %s", key)
	}

	blocks, hitIdx, before, total, err := db.GetBlocksWindow(key, opts.HitBlockID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get blocks: %w", err)
	}
	if total == 0 {
		return "(empty transcript)", -1, nil
	}

	p := &page{width: opts.Width}
	p.println("%s--- %s [%s, %s] %s ---%s", colorDim, key, tr.Source, tr.Mode, tr.ConvertedAt, colorReset)
	if tr.Discontinuities > 0 {
		p.println("%s(%d capture gaps, %d snapshots skipped)%s", colorDim, tr.Discontinuities, tr.Skipped, colorReset)
	}
	if before > 0 {
		p.println("%s... (%d blocks before) ...%s", colorDim, before, colorReset)
	}

	hitLine := -1
	palette := make(map[string]string)
	for i, blk := range blocks {
		if i == hitIdx {
			hitLine = p.lines
			p.println("%s>> %s %s <<%s", colorHit, blk.Speaker, blk.Ts, colorReset)
		} else {
			p.println("%s%s%s %s%s%s", speakerColor(palette, blk.Speaker), blk.Speaker, colorReset, colorDim, blk.Ts, colorReset)
		}
		for _, tl := range strings.Split(highlightKeywords(blk.Text, opts.Query), "\n") {
			p.println("  %s", tl)
		}
		p.println("")
	}

	if after := total - before - len(blocks); after > 0 {
		p.println("%s... (%d blocks after) ...%s", colorDim, after, colorReset)
	}
	return p.b.String(), hitLine, nil
}
