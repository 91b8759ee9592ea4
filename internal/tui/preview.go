package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
	"github.com/timbenroeck/macos-capture-transcripts/internal/render"
	"github.com/timbenroeck/macos-capture-transcripts/internal/search"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	cacheKey string
	content  string
	hitLine  int
	err      error
}

// previewCacheKey identifies one rendering of a result: the same block
// renders differently per query highlight and wrap width.
func previewCacheKey(r search.Result, query string, width int) string {
	return fmt.Sprintf("%s\x00%d\x00%d\x00%s", r.Key, r.BlockID, width, query)
}

// loadPreviewCmd returns a tea.Cmd that renders the transcript preview async.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	cacheKey := previewCacheKey(r, query, width)
	return func() tea.Msg {
		content, hitLine, err := render.RenderTranscript(db, r.Key, render.Options{
			HitBlockID: r.BlockID,
			Context:    -1,
			Width:      width,
			Query:      query,
		})
		return previewRenderedMsg{
			cacheKey: cacheKey,
			content:  content,
			hitLine:  hitLine,
			err:      err,
		}
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelDelta = 3
	return vp
}
