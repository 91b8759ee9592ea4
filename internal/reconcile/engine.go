// Package reconcile stitches overlapping caption snapshots into one
// deduplicated entry sequence.
//
// Each snapshot is a contiguous window of the true transcript. For every
// new snapshot the engine finds the longest run of entries that ends the
// transcript so far and starts the snapshot, then appends only what follows
// that run. Comparison is limited to a trailing window sized to the
// largest snapshot seen.
package reconcile

import (
	"log/slog"
	"time"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

type Options struct {
	// Match compares entries across snapshots; nil means transcript.Exact.
	Match transcript.MatchFunc
	// MinOverlap is the shortest run accepted as an overlap. Shorter
	// alignments are treated as no overlap. Values below 1 mean 1.
	MinOverlap int
	Logger     *slog.Logger
}

// Discontinuity marks a snapshot that shared nothing with the transcript
// tail, usually a capture gap.
type Discontinuity struct {
	SnapshotIndex int
	Name          string
	CapturedAt    time.Time
	Position      int // transcript length before the snapshot was appended
}

// Step describes how one snapshot was merged.
type Step struct {
	Index         int
	Name          string
	Overlap       int
	Appended      int
	Discontinuity bool
}

type Engine struct {
	match      transcript.MatchFunc
	minOverlap int
	logger     *slog.Logger

	entries []transcript.Entry
	window  int // largest snapshot size seen
	seen    int
	gaps    []Discontinuity
}

func New(opts Options) *Engine {
	e := &Engine{
		match:      opts.Match,
		minOverlap: opts.MinOverlap,
		logger:     opts.Logger,
	}
	if e.match == nil {
		e.match = transcript.Exact
	}
	if e.minOverlap < 1 {
		e.minOverlap = 1
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Add merges the next snapshot in capture order.
func (e *Engine) Add(s transcript.Snapshot) Step {
	step := Step{Index: e.seen, Name: s.Name}
	e.seen++

	if len(s.Entries) > e.window {
		e.window = len(s.Entries)
	}

	if len(e.entries) == 0 {
		e.entries = append(e.entries, s.Entries...)
		step.Appended = len(s.Entries)
		return step
	}

	m := e.overlap(s.Entries)
	if m < e.minOverlap {
		m = 0
	}

	if m == 0 && len(s.Entries) > 0 {
		step.Discontinuity = true
		e.gaps = append(e.gaps, Discontinuity{
			SnapshotIndex: step.Index,
			Name:          s.Name,
			CapturedAt:    s.CapturedAt,
			Position:      len(e.entries),
		})
		e.logger.Debug("no overlap with transcript tail", "snapshot", s.Name, "position", len(e.entries))
	}

	fresh := s.Entries[m:]
	e.entries = append(e.entries, fresh...)
	step.Overlap = m
	step.Appended = len(fresh)
	return step
}

// overlap returns the largest m such that the last m transcript entries
// match the first m entries of next, in order.
func (e *Engine) overlap(next []transcript.Entry) int {
	tail := e.Window()
	limit := len(tail)
	if len(next) < limit {
		limit = len(next)
	}
	for m := limit; m > 0; m-- {
		if e.alignedAt(tail[len(tail)-m:], next[:m]) {
			return m
		}
	}
	return 0
}

func (e *Engine) alignedAt(a, b []transcript.Entry) bool {
	for i := range a {
		if !e.match(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Window returns the trailing entries considered for overlap.
func (e *Engine) Window() []transcript.Entry {
	if len(e.entries) <= e.window {
		return e.entries
	}
	return e.entries[len(e.entries)-e.window:]
}

// Entries returns the reconciled sequence so far.
func (e *Engine) Entries() []transcript.Entry {
	out := make([]transcript.Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

func (e *Engine) Discontinuities() []Discontinuity {
	out := make([]Discontinuity, len(e.gaps))
	copy(out, e.gaps)
	return out
}

type Result struct {
	Entries         []transcript.Entry
	Discontinuities []Discontinuity
	Steps           []Step
}

// Reconcile merges snapshots that are already in capture order.
func Reconcile(snaps []transcript.Snapshot, opts Options) Result {
	e := New(opts)
	steps := make([]Step, 0, len(snaps))
	for _, s := range snaps {
		steps = append(steps, e.Add(s))
	}
	return Result{
		Entries:         e.Entries(),
		Discontinuities: e.Discontinuities(),
		Steps:           steps,
	}
}
