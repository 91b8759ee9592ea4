// Package convert runs one input path through the loader, the reconciler
// or the full-history path, and the output writer.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/timbenroeck/macos-capture-transcripts/internal/compose"
	"github.com/timbenroeck/macos-capture-transcripts/internal/output"
	"github.com/timbenroeck/macos-capture-transcripts/internal/reconcile"
	"github.com/timbenroeck/macos-capture-transcripts/internal/snapshot"
	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

type Options struct {
	Source     string
	OutputDir  string
	Match      transcript.MatchFunc
	MinOverlap int
	Logger     *slog.Logger
	// Progress receives one line per reconciled snapshot; nil disables it.
	Progress io.Writer
}

// Report summarizes a finished conversion.
type Report struct {
	Source          string
	InputPath       string
	OutputPath      string
	Document        output.Document
	Snapshots       int
	Skipped         []snapshot.Skipped
	Discontinuities []reconcile.Discontinuity
	Entries         int
}

func (r Report) String() string {
	return fmt.Sprintf("mode=%s source=%s snapshots=%d skipped=%d gaps=%d entries=%d blocks=%d",
		r.Document.Mode, r.Source, r.Snapshots, len(r.Skipped), len(r.Discontinuities),
		r.Entries, len(output.Blocks(r.Document)))
}

// Run converts input, a snapshot directory or a single full-history file,
// and writes the transcript under opts.OutputDir.
func Run(ctx context.Context, input string, opts Options) (*Report, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, &snapshot.EmptyInputError{Path: input, Reason: "input not found"}
	}

	var rep *Report
	if info.IsDir() {
		rep, err = reconcileDir(ctx, input, opts)
	} else {
		rep, err = fullHistory(ctx, input, opts)
	}
	if err != nil {
		return nil, err
	}

	rep.InputPath = input
	rep.OutputPath = output.Path(opts.OutputDir, input)
	if _, err := os.Stat(rep.OutputPath); err == nil {
		logger(opts).Info("overwriting existing transcript", "path", rep.OutputPath)
	}
	if err := output.WriteFile(rep.OutputPath, []byte(output.Text(rep.Document))); err != nil {
		return nil, err
	}
	return rep, nil
}

func logger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

func reconcileDir(ctx context.Context, dir string, opts Options) (*Report, error) {
	loader := &snapshot.Loader{Source: opts.Source, Logger: opts.Logger}
	loaded, err := loader.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	engine := reconcile.New(reconcile.Options{
		Match:      opts.Match,
		MinOverlap: opts.MinOverlap,
		Logger:     opts.Logger,
	})
	total := len(loaded.Snapshots)
	for i, s := range loaded.Snapshots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := engine.Add(s)
		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "Processing snapshot %d/%d: %s (+%d, overlap %d)\n",
				i+1, total, s.Name, step.Appended, step.Overlap)
		}
	}

	entries := engine.Entries()
	if len(entries) == 0 {
		return nil, &snapshot.EmptyInputError{Path: dir, Reason: "no transcript entries found in any snapshot"}
	}

	return &Report{
		Source: loaded.Source,
		Document: output.Document{
			Mode:       output.ModeReconciled,
			Paragraphs: compose.Paragraphs(entries),
		},
		Snapshots:       total,
		Skipped:         loaded.Skipped,
		Discontinuities: engine.Discontinuities(),
		Entries:         len(entries),
	}, nil
}

func fullHistory(ctx context.Context, path string, opts Options) (*Report, error) {
	loader := &snapshot.Loader{Source: opts.Source, Logger: opts.Logger}
	snap, source, err := loader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(snap.Entries) == 0 {
		return nil, &snapshot.EmptyInputError{Path: path, Reason: "no transcript entries found"}
	}

	return &Report{
		Source: source,
		Document: output.Document{
			Mode:    output.ModeFullHistory,
			Entries: snap.Entries,
		},
		Snapshots: 1,
		Entries:   len(snap.Entries),
	}, nil
}
