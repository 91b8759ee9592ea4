package parse

import (
	"regexp"
	"strings"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

// trailing "(Guest)", "(External)" and similar tags
var speakerTagRe = regexp.MustCompile(`\s*\(.*\)\s*$`)

// ParseTeams walks a Teams live-captions tree. A caption is an AXGroup with
// exactly two children: a group wrapping one static text (the speaker) and
// a static text (the caption).
func ParseTeams(root Node) []transcript.Entry {
	var entries []transcript.Entry
	walkTeams(root, &entries)
	return entries
}

func walkTeams(n Node, out *[]transcript.Entry) {
	if speaker, text, ok := teamsCaption(n); ok {
		text = transcript.Normalize(text)
		if text != "" {
			*out = append(*out, transcript.Entry{
				Speaker: CleanSpeaker(speaker),
				Text:    text,
			})
		}
		return
	}
	for _, c := range n.Children {
		walkTeams(c, out)
	}
}

func teamsCaption(n Node) (speaker, text string, ok bool) {
	if n.Role != "AXGroup" || len(n.Children) != 2 {
		return "", "", false
	}
	head, body := n.Children[0], n.Children[1]
	if head.Role != "AXGroup" || len(head.Children) != 1 {
		return "", "", false
	}
	name := head.Children[0]
	if name.Role != "AXStaticText" || !name.HasValue() {
		return "", "", false
	}
	if body.Role != "AXStaticText" || !body.HasValue() {
		return "", "", false
	}
	return name.StringValue(), body.StringValue(), true
}

// CleanSpeaker strips a trailing parenthesized tag from a display name. A
// label that is nothing but a tag is kept as is, and an empty label becomes
// "Unknown Speaker", so the result is never empty.
func CleanSpeaker(s string) string {
	s = strings.TrimSpace(s)
	if name := strings.TrimSpace(speakerTagRe.ReplaceAllString(s, "")); name != "" {
		return name
	}
	if s != "" {
		return s
	}
	return unknownSpeaker
}
