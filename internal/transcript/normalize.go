package transcript

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds s to NFC, trims it and collapses internal whitespace
// runs to a single space.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// ContentEqual reports whether a and b carry the same speaker and text
// after normalization. Timestamps are not compared.
func ContentEqual(a, b Entry) bool {
	return Normalize(a.Speaker) == Normalize(b.Speaker) &&
		Normalize(a.Text) == Normalize(b.Text)
}

// Normalized returns a copy of e with speaker and text normalized.
func (e Entry) Normalized() Entry {
	return Entry{
		Speaker:   Normalize(e.Speaker),
		Text:      Normalize(e.Text),
		Timestamp: e.Timestamp,
		Stamp:     e.Stamp,
	}
}
