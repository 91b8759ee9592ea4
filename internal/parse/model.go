package parse

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

// Sources understood by Parse.
const (
	SourceAuto      = "auto"
	SourceCanonical = "canonical"
	SourceTeams     = "teams"
	SourceZoom      = "zoom"
	SourceWebex     = "webex"
)

// Sources lists every concrete source name.
var Sources = []string{SourceCanonical, SourceTeams, SourceZoom, SourceWebex}

// Node is one element of a serialized accessibility tree.
type Node struct {
	Role        string          `json:"role"`
	Subrole     string          `json:"subrole"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Value       json.RawMessage `json:"value"`
	Children    []Node          `json:"children"`
}

// HasValue reports whether the node carried a value attribute.
func (n Node) HasValue() bool {
	return len(n.Value) > 0 && string(n.Value) != "null"
}

// StringValue returns the value attribute as text. Non-string scalars are
// returned in their JSON form.
func (n Node) StringValue() string {
	if !n.HasValue() {
		return ""
	}
	var s string
	if err := json.Unmarshal(n.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(n.Value))
}

// Result is the canonical content of one snapshot source.
type Result struct {
	Source     string
	CapturedAt time.Time // zero unless the source embeds it
	Entries    []transcript.Entry
}

var entryTimeLayouts = []string{
	"15:04:05",
	"15:04",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseEntryTime parses a per-entry timestamp; a zero time means absent or
// unparsable.
func ParseEntryTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range entryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
