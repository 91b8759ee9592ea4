package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

// FieldError reports a canonical record without a required field.
type FieldError struct {
	Index int
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("entry %d: missing %s", e.Index, e.Field)
}

type canonicalRecord struct {
	Speaker   *string `json:"speaker"`
	Text      *string `json:"text"`
	Timestamp string  `json:"timestamp"`
}

type canonicalDoc struct {
	CapturedAt string            `json:"captured_at"`
	Entries    []canonicalRecord `json:"entries"`
}

var capturedAtLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02-15-04-05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseCanonical decodes the canonical entry schema. Every record needs a
// non-empty speaker and a text key; text may be empty.
func ParseCanonical(data []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	var doc canonicalDoc
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Entries); err != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	res := &Result{Source: SourceCanonical}
	// an unparsable captured_at is left zero; the loader decides whether
	// the snapshot can still be ordered by its file name
	res.CapturedAt = parseCapturedAt(doc.CapturedAt)

	res.Entries = make([]transcript.Entry, 0, len(doc.Entries))
	for i, rec := range doc.Entries {
		if rec.Speaker == nil || strings.TrimSpace(*rec.Speaker) == "" {
			return nil, &FieldError{Index: i, Field: "speaker"}
		}
		if rec.Text == nil {
			return nil, &FieldError{Index: i, Field: "text"}
		}
		res.Entries = append(res.Entries, transcript.Entry{
			Speaker:   strings.TrimSpace(*rec.Speaker),
			Text:      *rec.Text,
			Timestamp: ParseEntryTime(rec.Timestamp),
			Stamp:     strings.TrimSpace(rec.Timestamp),
		})
	}
	return res, nil
}

func parseCapturedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range capturedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
