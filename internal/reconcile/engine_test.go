package reconcile

import (
	"io"
	"log/slog"
	"testing"

	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

func e(speaker, text string) transcript.Entry {
	return transcript.Entry{Speaker: speaker, Text: text}
}

func snap(name string, entries ...transcript.Entry) transcript.Snapshot {
	return transcript.Snapshot{Name: name, Entries: entries}
}

func opts() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func assertEntries(t *testing.T, got, want []transcript.Entry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if !transcript.ContentEqual(got[i], want[i]) {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestIdenticalSnapshotTwice(t *testing.T) {
	s := snap("s", e("A", "one"), e("B", "two"), e("A", "three"))
	once := Reconcile([]transcript.Snapshot{s}, opts())
	twice := Reconcile([]transcript.Snapshot{s, s}, opts())
	assertEntries(t, twice.Entries, once.Entries)
	if len(twice.Discontinuities) != 0 {
		t.Errorf("unexpected discontinuities: %+v", twice.Discontinuities)
	}
	if twice.Steps[1].Overlap != 3 || twice.Steps[1].Appended != 0 {
		t.Errorf("second step = %+v", twice.Steps[1])
	}
}

func TestNoOverlapConcatenates(t *testing.T) {
	s1 := snap("s1", e("A", "one"), e("A", "two"))
	s2 := snap("s2", e("B", "three"), e("B", "four"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, opts())
	assertEntries(t, res.Entries, []transcript.Entry{
		e("A", "one"), e("A", "two"), e("B", "three"), e("B", "four"),
	})
	if len(res.Discontinuities) != 1 {
		t.Fatalf("discontinuities = %+v", res.Discontinuities)
	}
	d := res.Discontinuities[0]
	if d.SnapshotIndex != 1 || d.Name != "s2" || d.Position != 2 {
		t.Errorf("discontinuity = %+v", d)
	}
}

func TestPrefersMaximalOverlap(t *testing.T) {
	s1 := snap("s1", e("X", "A"), e("X", "B"), e("X", "C"))
	s2 := snap("s2", e("X", "B"), e("X", "C"), e("X", "D"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, opts())
	assertEntries(t, res.Entries, []transcript.Entry{
		e("X", "A"), e("X", "B"), e("X", "C"), e("X", "D"),
	})
	if res.Steps[1].Overlap != 2 || res.Steps[1].Appended != 1 {
		t.Errorf("step = %+v", res.Steps[1])
	}
}

func TestRepeatedLinesPickLongestAlignment(t *testing.T) {
	// tail [yes, no, yes] and next [no, yes, maybe]: m=2 must win over m=1
	s1 := snap("s1", e("A", "yes"), e("A", "no"), e("A", "yes"))
	s2 := snap("s2", e("A", "no"), e("A", "yes"), e("A", "maybe"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, opts())
	assertEntries(t, res.Entries, []transcript.Entry{
		e("A", "yes"), e("A", "no"), e("A", "yes"), e("A", "maybe"),
	})
}

func TestScenarioThreeSnapshots(t *testing.T) {
	s1 := snap("s1", e("A", "one"), e("A", "two"))
	s2 := snap("s2", e("A", "two"), e("B", "three"))
	s3 := snap("s3", e("B", "three"), e("B", "four"))
	res := Reconcile([]transcript.Snapshot{s1, s2, s3}, opts())
	assertEntries(t, res.Entries, []transcript.Entry{
		e("A", "one"), e("A", "two"), e("B", "three"), e("B", "four"),
	})
	if len(res.Discontinuities) != 0 {
		t.Errorf("unexpected discontinuities: %+v", res.Discontinuities)
	}
}

func TestContainedSnapshotContributesNothing(t *testing.T) {
	s1 := snap("s1", e("A", "one"), e("A", "two"), e("B", "three"))
	s2 := snap("s2", e("A", "two"), e("B", "three"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, opts())
	assertEntries(t, res.Entries, s1.Entries)
	if res.Steps[1].Appended != 0 {
		t.Errorf("step = %+v", res.Steps[1])
	}
}

func TestWhitespaceDifferencesStillOverlap(t *testing.T) {
	s1 := snap("s1", e("A", "hello  world"))
	s2 := snap("s2", e(" A", "hello world "), e("B", "next"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, opts())
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %+v", res.Entries)
	}
}

func TestPartialUtteranceIsNotAnOverlap(t *testing.T) {
	s1 := snap("s1", e("A", "we should"))
	s2 := snap("s2", e("A", "we should ship it"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, opts())
	if len(res.Entries) != 2 || len(res.Discontinuities) != 1 {
		t.Fatalf("entries = %+v, gaps = %+v", res.Entries, res.Discontinuities)
	}
}

func TestFuzzyMatcherMergesRevisedText(t *testing.T) {
	o := opts()
	o.Match = transcript.Fuzzy(0.85)
	s1 := snap("s1", e("A", "we will ship on friday"))
	s2 := snap("s2", e("A", "we will ship on Friday."), e("B", "great"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, o)
	if len(res.Entries) != 2 || res.Entries[1].Text != "great" {
		t.Fatalf("entries = %+v", res.Entries)
	}
}

func TestMinOverlap(t *testing.T) {
	o := opts()
	o.MinOverlap = 2
	s1 := snap("s1", e("A", "one"), e("A", "two"))
	s2 := snap("s2", e("A", "two"), e("A", "three"))
	res := Reconcile([]transcript.Snapshot{s1, s2}, o)
	if len(res.Entries) != 4 || len(res.Discontinuities) != 1 {
		t.Fatalf("entries = %+v, gaps = %+v", res.Entries, res.Discontinuities)
	}
}

func TestWindowBoundedByLargestSnapshot(t *testing.T) {
	en := New(opts())
	en.Add(snap("s1", e("A", "1"), e("A", "2"), e("A", "3")))
	en.Add(snap("s2", e("A", "3"), e("A", "4")))
	en.Add(snap("s3", e("A", "4"), e("A", "5")))
	if got := len(en.Entries()); got != 5 {
		t.Fatalf("entries = %d", got)
	}
	if got := len(en.Window()); got != 3 {
		t.Errorf("window = %d, want 3", got)
	}
}

func TestEmptySnapshots(t *testing.T) {
	res := Reconcile([]transcript.Snapshot{
		snap("empty"),
		snap("s1", e("A", "one")),
		snap("empty2"),
	}, opts())
	assertEntries(t, res.Entries, []transcript.Entry{e("A", "one")})
	if len(res.Discontinuities) != 0 {
		t.Errorf("empty snapshots must not record discontinuities: %+v", res.Discontinuities)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	en := New(opts())
	en.Add(snap("s1", e("A", "one")))
	got := en.Entries()
	got[0].Text = "changed"
	if en.Entries()[0].Text != "one" {
		t.Fatal("Entries must not expose internal state")
	}
}
