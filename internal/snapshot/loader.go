package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/timbenroeck/macos-capture-transcripts/internal/parse"
	"github.com/timbenroeck/macos-capture-transcripts/internal/scan"
	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

// Loader turns snapshot files into ordered Snapshots.
type Loader struct {
	// Source is one of the parse.Source* names; "" means auto.
	Source string
	Logger *slog.Logger
}

// Skipped records a snapshot excluded from a run.
type Skipped struct {
	Path string
	Err  error
}

// Result is the outcome of loading a directory.
type Result struct {
	Source    string // source of the first usable snapshot
	Scanned   int
	Snapshots []transcript.Snapshot
	Skipped   []Skipped
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// LoadDir loads every snapshot under dir, skipping malformed and
// unorderable ones with a warning, and returns the rest sorted by capture
// time. It fails only when nothing usable remains.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Result, error) {
	files, err := scan.ScanSnapshots(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &EmptyInputError{Path: dir, Reason: "directory not found"}
		}
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, &EmptyInputError{Path: dir, Reason: "no snapshot files found"}
	}

	res := &Result{Scanned: len(files)}
	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap, source, err := l.loadSnapshot(fi.Path)
		if err != nil {
			if !IsSkippable(err) {
				return nil, err
			}
			l.logger().Warn("skipping snapshot", "file", fi.Name, "err", err)
			res.Skipped = append(res.Skipped, Skipped{Path: fi.Path, Err: err})
			continue
		}
		if res.Source == "" {
			res.Source = source
		}
		res.Snapshots = append(res.Snapshots, snap)
	}

	if len(res.Snapshots) == 0 {
		return nil, &EmptyInputError{
			Path:   dir,
			Reason: fmt.Sprintf("none of %d snapshot files could be used", len(files)),
		}
	}

	Sort(res.Snapshots)
	return res, nil
}

func (l *Loader) loadSnapshot(path string) (transcript.Snapshot, string, error) {
	pr, err := parse.ParseFile(path, l.Source, parse.SourceTeams)
	if err != nil {
		return transcript.Snapshot{}, "", &MalformedSnapshotError{Path: path, Err: err}
	}

	capturedAt, err := ParseCaptureTime(path)
	if err != nil {
		if pr.CapturedAt.IsZero() {
			return transcript.Snapshot{}, "", &UnorderableSnapshotError{Path: path, Err: err}
		}
		capturedAt = pr.CapturedAt
	}

	return transcript.Snapshot{
		Name:       filepath.Base(path),
		Path:       path,
		CapturedAt: capturedAt,
		Entries:    pr.Entries,
	}, pr.Source, nil
}

// LoadFile loads a single full-history snapshot. No capture time is needed.
func (l *Loader) LoadFile(ctx context.Context, path string) (transcript.Snapshot, string, error) {
	if err := ctx.Err(); err != nil {
		return transcript.Snapshot{}, "", err
	}
	pr, err := parse.ParseFile(path, l.Source, parse.SourceZoom)
	if err != nil {
		if os.IsNotExist(err) {
			return transcript.Snapshot{}, "", &EmptyInputError{Path: path, Reason: "file not found"}
		}
		return transcript.Snapshot{}, "", &EmptyInputError{Path: path, Reason: fmt.Sprintf("not valid snapshot content: %v", err)}
	}

	unparsed := 0
	for _, e := range pr.Entries {
		if e.Stamp != "" && e.Timestamp.IsZero() {
			unparsed++
		}
	}
	if unparsed > 0 {
		l.logger().Warn("entry timestamps kept as captured", "file", filepath.Base(path), "unparsed", unparsed)
	}

	capturedAt := pr.CapturedAt
	if t, err := ParseCaptureTime(path); err == nil {
		capturedAt = t
	}
	return transcript.Snapshot{
		Name:       filepath.Base(path),
		Path:       path,
		CapturedAt: capturedAt,
		Entries:    pr.Entries,
	}, pr.Source, nil
}

// Sort orders snapshots by capture time. Equal times keep discovery order.
func Sort(snaps []transcript.Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].CapturedAt.Before(snaps[j].CapturedAt)
	})
}
