package parse

import (
	"errors"
	"testing"
	"time"
)

func TestParseCanonicalArray(t *testing.T) {
	data := []byte(`[
		{"speaker": "Alice", "text": "hello", "timestamp": "09:00:01"},
		{"speaker": "Bob", "text": ""}
	]`)
	res, err := ParseCanonical(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	if got := res.Entries[0].Timestamp.Format("15:04:05"); got != "09:00:01" {
		t.Errorf("timestamp = %s", got)
	}
	if res.Entries[1].HasTimestamp() {
		t.Error("second entry should have no timestamp")
	}
	if !res.CapturedAt.IsZero() {
		t.Error("array form has no captured_at")
	}
}

func TestParseCanonicalObject(t *testing.T) {
	data := []byte(`{"captured_at": "2024-05-01-10-00-00", "entries": [{"speaker": "A", "text": "one"}]}`)
	res, err := ParseCanonical(data)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !res.CapturedAt.Equal(want) {
		t.Errorf("captured_at = %v, want %v", res.CapturedAt, want)
	}
}

func TestParseCanonicalMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"no speaker", `[{"text": "hi"}]`, "speaker"},
		{"blank speaker", `[{"speaker": "  ", "text": "hi"}]`, "speaker"},
		{"no text", `[{"speaker": "A"}]`, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCanonical([]byte(tt.data))
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Field != tt.field {
				t.Errorf("field = %s, want %s", fe.Field, tt.field)
			}
		})
	}
}

func TestIsCanonical(t *testing.T) {
	tests := []struct {
		data string
		want bool
	}{
		{`[]`, true},
		{`{"entries": []}`, true},
		{`{"role": "AXGroup"}`, false},
		{`not json`, false},
		{``, false},
	}
	for _, tt := range tests {
		if got := IsCanonical([]byte(tt.data)); got != tt.want {
			t.Errorf("IsCanonical(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

const teamsTree = `{
  "role": "AXGroup", "description": "Live Captions",
  "children": [
    {"role": "AXGroup", "children": [
      {"role": "AXGroup", "children": [{"role": "AXStaticText", "value": "Alice Smith (Guest)"}]},
      {"role": "AXStaticText", "value": "  good   morning "}
    ]},
    {"role": "AXGroup", "children": [
      {"role": "AXGroup", "children": [{"role": "AXStaticText", "value": "Bob"}]},
      {"role": "AXStaticText", "value": "   "}
    ]},
    {"role": "AXGroup", "children": [
      {"role": "AXGroup", "children": [{"role": "AXStaticText", "value": "Bob"}]},
      {"role": "AXStaticText", "value": "hi"}
    ]}
  ]
}`

func TestParseTeams(t *testing.T) {
	res, err := Parse([]byte(teamsTree), SourceAuto, SourceTeams)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != SourceTeams {
		t.Fatalf("source = %s", res.Source)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %+v", res.Entries)
	}
	if res.Entries[0].Speaker != "Alice Smith" || res.Entries[0].Text != "good morning" {
		t.Errorf("first entry = %+v", res.Entries[0])
	}
	if res.Entries[1].Speaker != "Bob" || res.Entries[1].Text != "hi" {
		t.Errorf("second entry = %+v", res.Entries[1])
	}
}

func TestCleanSpeaker(t *testing.T) {
	tests := map[string]string{
		"Alice Smith (Guest)": "Alice Smith",
		"  Bob  ":             "Bob",
		"(Guest)":             "(Guest)",
		"  ":                  unknownSpeaker,
	}
	for in, want := range tests {
		if got := CleanSpeaker(in); got != want {
			t.Errorf("CleanSpeaker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTeamsTagOnlySpeaker(t *testing.T) {
	tree := `{"role": "AXGroup", "children": [
	  {"role": "AXGroup", "children": [
	    {"role": "AXGroup", "children": [{"role": "AXStaticText", "value": "(Guest)"}]},
	    {"role": "AXStaticText", "value": "first"}]},
	  {"role": "AXGroup", "children": [
	    {"role": "AXGroup", "children": [{"role": "AXStaticText", "value": ""}]},
	    {"role": "AXStaticText", "value": "second"}]}
	]}`
	res, err := Parse([]byte(tree), SourceTeams, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %+v", res.Entries)
	}
	if res.Entries[0].Speaker != "(Guest)" || res.Entries[1].Speaker != unknownSpeaker {
		t.Errorf("speakers = %q, %q", res.Entries[0].Speaker, res.Entries[1].Speaker)
	}
}

const zoomTree = `{
  "role": "AXTable", "description": "Transcript list",
  "children": [
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXImage"}, {"role": "AXTextArea", "value": "Alice"}]}]},
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXTextArea", "value": "00:00:01"}, {"role": "AXTextArea", "value": "hello"}]}]},
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXTextArea", "value": "everyone"}]}]},
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXTextArea", "value": "00:00:09"}, {"role": "AXTextArea", "value": "agenda first"}]}]},
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXImage"}, {"role": "AXTextArea", "value": "Bob"}]}]},
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXTextArea", "value": "00:00:15"}, {"role": "AXTextArea", "value": "sounds good"}]}]}
  ]
}`

func TestParseZoom(t *testing.T) {
	res, err := Parse([]byte(zoomTree), SourceZoom, SourceTeams)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ speaker, stamp, text string }{
		{"Alice", "00:00:01", "hello everyone"},
		{"Alice", "00:00:09", "agenda first"},
		{"Bob", "00:00:15", "sounds good"},
	}
	if len(res.Entries) != len(want) {
		t.Fatalf("entries = %+v", res.Entries)
	}
	for i, w := range want {
		e := res.Entries[i]
		if e.Speaker != w.speaker || e.Text != w.text || e.Timestamp.Format("15:04:05") != w.stamp {
			t.Errorf("entry %d = %+v, want %+v", i, e, w)
		}
	}
}

func TestParseZoomBlankSpeaker(t *testing.T) {
	tree := `{"role": "AXTable", "children": [
	  {"role": "AXRow", "children": [{"role": "AXCell", "children": [
	    {"role": "AXImage"}, {"role": "AXTextArea", "value": "  "}]}]},
	  {"role": "AXRow", "children": [{"role": "AXCell", "children": [
	    {"role": "AXTextArea", "value": "00:00:01"}, {"role": "AXTextArea", "value": "hello"}]}]}
	]}`
	res, err := Parse([]byte(tree), SourceZoom, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Speaker != unknownSpeaker {
		t.Errorf("entries = %+v", res.Entries)
	}
}

const webexTree = `{
  "role": "AXWindow",
  "children": [{"role": "AXTable", "children": [
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXStaticText", "value": "Carol"},
      {"role": "AXStaticText", "value": "10:15"},
      {"role": "AXScrollArea", "children": [{"role": "AXTextArea", "value": " let's start "}]}
    ]}]},
    {"role": "AXRow", "children": [{"role": "AXCell", "children": [
      {"role": "AXStaticText", "value": "Dan"}
    ]}]}
  ]}]
}`

func TestParseWebex(t *testing.T) {
	res, err := Parse([]byte(webexTree), SourceWebex, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("entries = %+v", res.Entries)
	}
	e := res.Entries[0]
	if e.Speaker != "Carol" || e.Text != "let's start" || e.Timestamp.Format("15:04") != "10:15" {
		t.Errorf("entry = %+v", e)
	}
	if e.Clock() != "10:15" {
		t.Errorf("clock = %q, want the captured 10:15", e.Clock())
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"role":`), SourceTeams, ""); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNodeStringValue(t *testing.T) {
	n := Node{Value: []byte(`42`)}
	if n.StringValue() != "42" {
		t.Errorf("StringValue = %q", n.StringValue())
	}
	if (Node{Value: []byte(`null`)}).HasValue() {
		t.Error("null value should count as absent")
	}
}
