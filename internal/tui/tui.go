// Package tui is the interactive browser behind `mct list` and `mct search`.
package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
	"github.com/timbenroeck/macos-capture-transcripts/internal/open"
	"github.com/timbenroeck/macos-capture-transcripts/internal/search"
)

const (
	debounceDelay    = 200 * time.Millisecond
	previewCacheSize = 64
)

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeList
)

type resultsMsg struct {
	query   string
	results []search.Result
	err     error
}

type queryTickMsg struct {
	query string
}

// selection is what the user picked before the program exited.
type selection struct {
	result search.Result
	edit   bool // open in $EDITOR instead of copying the path
}

type model struct {
	db       *index.DB
	opts     search.Options
	mode     tuiMode
	query    string
	input    textinput.Model
	results  []search.Result
	cursor   int
	offset   int // first visible result
	preview  viewport.Model
	shown    string // cache key of the preview on screen
	previews *lru.Cache[string, previewRenderedMsg]
	width    int
	height   int
	ready    bool
	quitting bool
	selected *selection
}

func newModel(db *index.DB, mode tuiMode, query string, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = map[tuiMode]string{modeSearch: "Search transcripts...", modeList: "Filter..."}[mode]
	ti.Prompt = "> "
	ti.PromptStyle = styleInput
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	ti.SetValue(query)
	ti.Focus()

	// size is a positive constant, New cannot fail
	cache, _ := lru.New[string, previewRenderedMsg](previewCacheSize)

	return model{
		db:       db,
		opts:     opts,
		mode:     mode,
		query:    query,
		input:    ti,
		preview:  viewport.New(0, 0),
		previews: cache,
	}
}

// Run starts the search browser and blocks until it exits.
func Run(db *index.DB, query string, opts search.Options) error {
	return run(db, newModel(db, modeSearch, query, opts))
}

// RunList browses every archived transcript, newest first.
func RunList(db *index.DB, opts search.Options) error {
	return run(db, newModel(db, modeList, "", opts))
}

func run(db *index.DB, m model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	sel := final.(model).selected
	switch {
	case sel == nil:
		return nil
	case sel.edit:
		return open.OpenTranscript(db, sel.result.Key, sel.result.BlockID)
	default:
		return copyOutputPath(db, sel.result)
	}
}

// copyOutputPath puts the converted file of r on the clipboard, or prints
// it when no clipboard is available.
func copyOutputPath(db *index.DB, r search.Result) error {
	tr, err := db.GetTranscriptByKey(r.Key)
	if err != nil {
		return fmt.Errorf("get transcript: %w", err)
	}
	if tr == nil {
		return fmt.Errorf("transcript not found: %s", r.Key)
	}
	if err := clipboard.WriteAll(tr.OutputPath); err != nil {
		fmt.Println(tr.OutputPath)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", tr.OutputPath)
	return nil
}

func (m model) Init() tea.Cmd {
	if m.mode == modeSearch && m.query == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.fetch(m.query))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		l := m.layout()
		m.preview = newViewport(l.previewW, l.panelH)
		m.shown = "" // wrap width changed
		cmd := m.loadCurrentPreview()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case queryTickMsg:
		if msg.query != m.query {
			return m, nil
		}
		return m, m.fetch(msg.query)

	case resultsMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.cursor, m.offset, m.shown = 0, 0, ""
		m.results = msg.results
		switch {
		case msg.err != nil:
			m.results = nil
			m.preview.SetContent("Error: " + msg.err.Error())
		case len(m.results) == 0:
			m.preview.SetContent("")
		}
		cmd := m.loadCurrentPreview()
		return m, cmd

	case previewRenderedMsg:
		if msg.err == nil {
			m.previews.Add(msg.cacheKey, msg)
		}
		if msg.cacheKey != m.shown && msg.cacheKey == m.wantPreviewKey() {
			m.showPreview(msg)
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	half := m.layout().panelH / 2
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
		r, ok := m.current()
		if !ok {
			return m, nil
		}
		m.selected = &selection{result: r, edit: key.Matches(msg, keys.Edit)}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		return m.moveCursor(m.cursor - 1)
	case key.Matches(msg, keys.Down):
		return m.moveCursor(m.cursor + 1)

	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(half)
		return m, nil
	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(half)
		return m, nil
	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(2 * half)
		return m, nil
	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(2 * half)
		return m, nil
	case key.Matches(msg, keys.PreviewTop):
		m.preview.GotoTop()
		return m, nil
	case key.Matches(msg, keys.PreviewBottom):
		m.preview.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, tea.Tick(debounceDelay, func(time.Time) tea.Msg {
			return queryTickMsg{query: q}
		}))
	}
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}

	region, idx := m.hitTest(msg.X, msg.Y)
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown

	switch {
	case region == regionPreview && wheel:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd

	case region == regionList && msg.Button == tea.MouseButtonWheelUp:
		m.offset = max(m.offset-1, 0)
	case region == regionList && msg.Button == tea.MouseButtonWheelDown:
		m.offset = min(m.offset+1, max(len(m.results)-m.layout().visibleItems(), 0))
	case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if idx < len(m.results) {
			return m.moveCursor(idx)
		}
	}
	return m, nil
}

// moveCursor selects result i when it exists and loads its preview.
func (m model) moveCursor(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.results) || i == m.cursor {
		return m, nil
	}
	m.cursor = i
	m.adjustListScroll(m.layout().panelH)
	cmd := m.loadCurrentPreview()
	return m, cmd
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	l := m.layout()

	list := stylePanel.Width(l.listW).Height(l.panelH).Render(m.renderList(l.listW, l.panelH))

	m.preview.Width, m.preview.Height = l.previewW, l.panelH
	pane := styleActivePanel.Width(l.previewW).Height(l.panelH).Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, pane),
		m.statusBar(),
	)
}

func (m model) current() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

func (m model) statusBar() string {
	noun := "results"
	if m.mode == modeList {
		noun = "transcripts"
	}
	return styleStatusBar.Render(fmt.Sprintf(
		"%d %s | up/dn/click select | C-u/C-d/home/end preview | Enter copy path | C-o edit | Esc quit",
		len(m.results), noun))
}

// fetch loads results for query: every transcript in list mode with an
// empty filter, full-text search otherwise.
func (m model) fetch(query string) tea.Cmd {
	db, opts, mode := m.db, m.opts, m.mode
	opts.Query = query
	return func() tea.Msg {
		var (
			results []search.Result
			err     error
		)
		switch {
		case query != "":
			results, err = search.Search(db, opts)
		case mode == modeList:
			results, err = search.ListAll(db, opts)
		}
		return resultsMsg{query: query, results: results, err: err}
	}
}

func (m model) wantPreviewKey() string {
	r, ok := m.current()
	if !ok {
		return ""
	}
	return previewCacheKey(r, m.query, m.layout().previewW)
}

// loadCurrentPreview shows the selected transcript from the cache, or
// returns a command rendering it.
func (m *model) loadCurrentPreview() tea.Cmd {
	r, ok := m.current()
	if !ok {
		return nil
	}
	width := m.layout().previewW
	cacheKey := previewCacheKey(r, m.query, width)
	if cacheKey == m.shown {
		return nil
	}
	if cached, ok := m.previews.Get(cacheKey); ok {
		m.showPreview(cached)
		return nil
	}
	return loadPreviewCmd(m.db, r, m.query, width)
}

func (m *model) showPreview(msg previewRenderedMsg) {
	switch {
	case msg.err != nil:
		m.preview.SetContent("Preview error: " + msg.err.Error())
	case msg.hitLine > 0:
		m.preview.SetContent(msg.content)
		m.preview.SetYOffset(msg.hitLine)
	default:
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
	}
	m.shown = msg.cacheKey
}
