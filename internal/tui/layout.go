package tui

// layout is the panel geometry for the current terminal size.
type layout struct {
	listW    int // list content width
	previewW int // preview content width
	panelH   int // content height of both panels
}

const (
	chromeRows = 6 // input row, status bar, two borders per panel
	minPanel   = 20
)

func (m model) layout() layout {
	l := layout{listW: 40, previewW: 60, panelH: 20}
	if m.width > 0 {
		l.listW = max(m.width*40/100-4, minPanel)
		l.previewW = max(m.width*60/100-4, minPanel)
	}
	if m.height > 0 {
		l.panelH = max(m.height-chromeRows, 5)
	}
	return l
}

func (l layout) visibleItems() int {
	return max(l.panelH/linesPerItem, 1)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel and, for the list, the
// index of the result under the pointer.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	l := m.layout()
	row := y - 2 // input row, top border
	if row < 0 || row >= l.panelH {
		return regionNone, -1
	}
	switch {
	case x >= 1 && x <= l.listW:
		return regionList, m.offset + row/linesPerItem
	case x > l.listW+2: // past both list borders
		return regionPreview, -1
	}
	return regionNone, -1
}
