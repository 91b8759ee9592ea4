package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// result list
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Edit  key.Binding
	Quit  key.Binding

	// preview pane
	PreviewUp     key.Binding
	PreviewDn     key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	PreviewTop    key.Binding
	PreviewBottom key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("up/C-k", "previous transcript")),
	Down:  key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("dn/C-j", "next transcript")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "copy output path")),
	Edit:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "open in $EDITOR")),
	Quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),

	PreviewUp:     key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("C-u", "preview half page up")),
	PreviewDn:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-d", "preview half page down")),
	PageUp:        key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "preview page up")),
	PageDown:      key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "preview page down")),
	PreviewTop:    key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "transcript start")),
	PreviewBottom: key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "transcript end")),
}
