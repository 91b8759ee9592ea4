package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/timbenroeck/macos-capture-transcripts/internal/output"
	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func teamsRecord(outPath string) Record {
	return Record{
		Source:     "teams",
		InputPath:  "/captures/standup",
		OutputPath: outPath,
		Document: output.Document{
			Mode: output.ModeReconciled,
			Paragraphs: []transcript.Paragraph{
				{Speaker: "A", Text: "one two"},
				{Speaker: "B", Text: "deploy the release tomorrow"},
				{Speaker: "A", Text: "agreed"},
			},
		},
		Snapshots:       3,
		Skipped:         1,
		Discontinuities: 0,
		ConvertedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndGet(t *testing.T) {
	db := testDB(t)
	rec := teamsRecord("converted_transcripts/standup.txt")

	runID, err := Save(db, rec)
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("expected run id")
	}

	tr, err := db.GetTranscriptByKey("teams:standup")
	if err != nil {
		t.Fatal(err)
	}
	if tr == nil {
		t.Fatal("transcript not found")
	}
	if tr.RunID != runID || tr.Mode != "reconciled" || tr.Snapshots != 3 || tr.Skipped != 1 {
		t.Errorf("transcript = %+v", tr)
	}
	if tr.ConvertedAt != "2024-05-01T10:00:00Z" {
		t.Errorf("converted_at = %s", tr.ConvertedAt)
	}

	blocks, err := db.GetBlocks("teams:standup")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[1].Speaker != "B" || blocks[1].LineNumber != 4 {
		t.Errorf("block 1 = %+v", blocks[1])
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	db := testDB(t)
	rec := teamsRecord("out/standup.txt")
	if _, err := Save(db, rec); err != nil {
		t.Fatal(err)
	}
	rec.Document.Paragraphs = rec.Document.Paragraphs[:1]
	if _, err := Save(db, rec); err != nil {
		t.Fatal(err)
	}

	n, err := db.TranscriptCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("transcripts = %d", n)
	}
	b, err := db.BlockCount()
	if err != nil {
		t.Fatal(err)
	}
	if b != 1 {
		t.Errorf("blocks = %d", b)
	}

	var fts int
	if err := db.Raw().QueryRow("SELECT COUNT(*) FROM blocks_fts WHERE blocks_fts MATCH 'deploy'").Scan(&fts); err != nil {
		t.Fatal(err)
	}
	if fts != 0 {
		t.Errorf("stale FTS rows: %d", fts)
	}
}

func TestGetBlocksWindow(t *testing.T) {
	db := testDB(t)
	if _, err := Save(db, teamsRecord("out/standup.txt")); err != nil {
		t.Fatal(err)
	}

	blocks, hitIdx, startPos, total, err := db.GetBlocksWindow("teams:standup", 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || startPos != 1 || len(blocks) != 2 || hitIdx != 1 {
		t.Errorf("blocks=%d hit=%d start=%d total=%d", len(blocks), hitIdx, startPos, total)
	}

	blocks, hitIdx, _, _, err = db.GetBlocksWindow("teams:standup", -1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 3 || hitIdx != -1 {
		t.Errorf("no-hit window: blocks=%d hit=%d", len(blocks), hitIdx)
	}
}

func TestListTranscripts(t *testing.T) {
	db := testDB(t)
	older := teamsRecord("out/older.txt")
	older.ConvertedAt = older.ConvertedAt.Add(-time.Hour)
	zoom := Record{
		Source:     "zoom",
		OutputPath: "out/call.txt",
		Document: output.Document{Mode: output.ModeFullHistory, Entries: []transcript.Entry{
			{Speaker: "A", Text: "hello"},
		}},
		ConvertedAt: older.ConvertedAt.Add(2 * time.Hour),
	}
	for _, r := range []Record{older, teamsRecord("out/standup.txt"), zoom} {
		if _, err := Save(db, r); err != nil {
			t.Fatal(err)
		}
	}

	all, err := db.ListTranscripts("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Key != "zoom:call" || all[2].Key != "teams:older" {
		t.Errorf("list = %+v", all)
	}

	teams, err := db.ListTranscripts("teams", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 1 || teams[0].Key != "teams:standup" {
		t.Errorf("filtered list = %+v", teams)
	}
}

func TestPrune(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.txt")
	if err := os.WriteFile(kept, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(db, teamsRecord(kept)); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(db, teamsRecord(filepath.Join(dir, "gone.txt"))); err != nil {
		t.Fatal(err)
	}

	pruned, err := Prune(db)
	if err != nil {
		t.Fatal(err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d", pruned)
	}
	if tr, _ := db.GetTranscriptByKey("teams:kept"); tr == nil {
		t.Error("kept transcript was pruned")
	}
}

func TestOpenDBCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mct.db")
	db, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	// reopening keeps the schema version and does not wipe data
	db, err = OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := Save(db, teamsRecord("out/standup.txt")); err != nil {
		t.Fatal(err)
	}
}
