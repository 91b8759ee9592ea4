package transcript

import "time"

const clockLayout = "15:04:05"

// Entry is one utterance as shown by a captioning surface.
type Entry struct {
	Speaker   string
	Text      string
	Timestamp time.Time // zero when the source has no per-entry time
	Stamp     string    // timestamp as captured, kept when it does not parse
}

// HasTimestamp reports whether the entry carries its own time, parsed or not.
func (e Entry) HasTimestamp() bool {
	return !e.Timestamp.IsZero() || e.Stamp != ""
}

// Clock returns the time shown next to the speaker. A captured wall-clock
// stamp ("10:15", "09:00:01") is returned as captured; other parsed times
// are shown as HH:MM:SS; an unparsable stamp is returned verbatim.
func (e Entry) Clock() string {
	if isClock(e.Stamp) {
		return e.Stamp
	}
	if !e.Timestamp.IsZero() {
		return e.Timestamp.Format(clockLayout)
	}
	return e.Stamp
}

func isClock(s string) bool {
	for _, layout := range []string{clockLayout, "15:04"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Snapshot is one capture of the visible entries, top to bottom.
type Snapshot struct {
	Name       string // base name of the source file
	Path       string
	CapturedAt time.Time
	Entries    []Entry
}

// Paragraph is a maximal run of one speaker's entries.
type Paragraph struct {
	Speaker string
	Text    string
}
