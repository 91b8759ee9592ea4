package compose

import (
	"testing"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

func TestParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   []transcript.Entry
		want []transcript.Paragraph
	}{
		{
			name: "merges runs",
			in: []transcript.Entry{
				{Speaker: "X", Text: "hi"},
				{Speaker: "X", Text: "there"},
				{Speaker: "Y", Text: "ok"},
			},
			want: []transcript.Paragraph{{Speaker: "X", Text: "hi there"}, {Speaker: "Y", Text: "ok"}},
		},
		{
			name: "empty text does not break a run",
			in: []transcript.Entry{
				{Speaker: "X", Text: "hi"},
				{Speaker: "Y", Text: "   "},
				{Speaker: "X", Text: "again"},
			},
			want: []transcript.Paragraph{{Speaker: "X", Text: "hi again"}},
		},
		{
			name: "speaker labels are normalized",
			in: []transcript.Entry{
				{Speaker: "Alice ", Text: "one\n"},
				{Speaker: " Alice", Text: " two  three"},
			},
			want: []transcript.Paragraph{{Speaker: "Alice", Text: "one two three"}},
		},
		{
			name: "alternating speakers",
			in: []transcript.Entry{
				{Speaker: "A", Text: "1"},
				{Speaker: "B", Text: "2"},
				{Speaker: "A", Text: "3"},
			},
			want: []transcript.Paragraph{{Speaker: "A", Text: "1"}, {Speaker: "B", Text: "2"}, {Speaker: "A", Text: "3"}},
		},
		{
			name: "blank first speaker starts its own run",
			in: []transcript.Entry{
				{Speaker: "", Text: "a"},
				{Speaker: "", Text: "b"},
				{Speaker: "B", Text: "c"},
			},
			want: []transcript.Paragraph{{Speaker: "", Text: "a b"}, {Speaker: "B", Text: "c"}},
		},
		{name: "empty input", in: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paragraphs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			for i := 1; i < len(got); i++ {
				if got[i].Speaker == got[i-1].Speaker {
					t.Errorf("adjacent paragraphs share speaker %q", got[i].Speaker)
				}
			}
		})
	}
}
