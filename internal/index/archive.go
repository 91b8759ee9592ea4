package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timbenroeck/macos-capture-transcripts/internal/output"
)

const timeLayout = "2006-01-02T15:04:05Z"

// Record is one finished conversion.
type Record struct {
	Source          string
	InputPath       string
	OutputPath      string
	Document        output.Document
	Snapshots       int
	Skipped         int
	Discontinuities int
	Entries         int // reconciled entry count; 0 means count the document
	ConvertedAt     time.Time
}

// Key is the archive key for a record: "<source>:<output base name>".
func (r Record) Key() string {
	base := strings.TrimSuffix(filepath.Base(r.OutputPath), filepath.Ext(r.OutputPath))
	return r.Source + ":" + base
}

// Save replaces any archived transcript with the same key and returns the
// run id assigned to this conversion.
func Save(db *DB, rec Record) (string, error) {
	key := rec.Key()
	runID := uuid.NewString()
	if rec.ConvertedAt.IsZero() {
		rec.ConvertedAt = time.Now()
	}

	blocks := output.Blocks(rec.Document)
	entries := rec.Entries
	if entries == 0 {
		entries = len(rec.Document.Entries) + len(rec.Document.Paragraphs)
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if err := deleteTranscriptTx(tx, key); err != nil {
		return "", fmt.Errorf("delete old transcript: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO transcripts (`+transcriptColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key,
		rec.Source,
		string(rec.Document.Mode),
		rec.InputPath,
		rec.OutputPath,
		runID,
		rec.ConvertedAt.UTC().Format(timeLayout),
		rec.Snapshots,
		rec.Skipped,
		rec.Discontinuities,
		entries,
	)
	if err != nil {
		return "", err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO blocks (transcript_key, block_id, speaker, ts, text, line_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, b := range blocks {
		if _, err := stmt.Exec(key, i, b.Speaker, b.Stamp, b.Text, b.Line); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// Prune drops archived transcripts whose output file no longer exists.
func Prune(db *DB) (int, error) {
	keys, err := db.AllTranscriptKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key, path := range keys {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		if err := db.DeleteTranscript(key); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
