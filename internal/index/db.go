package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS transcripts (
    transcript_key  TEXT PRIMARY KEY,
    source          TEXT NOT NULL,
    mode            TEXT NOT NULL,
    input_path      TEXT NOT NULL,
    output_path     TEXT NOT NULL,
    run_id          TEXT NOT NULL,
    converted_at    TEXT NOT NULL DEFAULT '',
    snapshots       INTEGER NOT NULL DEFAULT 0,
    skipped         INTEGER NOT NULL DEFAULT 0,
    discontinuities INTEGER NOT NULL DEFAULT 0,
    entries         INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS blocks (
    transcript_key TEXT NOT NULL,
    block_id       INTEGER NOT NULL,
    speaker        TEXT NOT NULL,
    ts             TEXT NOT NULL DEFAULT '',
    text           TEXT NOT NULL,
    line_number    INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (transcript_key, block_id)
);

CREATE VIRTUAL TABLE IF NOT EXISTS blocks_fts USING fts5(
    text,
    content=blocks,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS blocks_ai AFTER INSERT ON blocks BEGIN
    INSERT INTO blocks_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS blocks_ad AFTER DELETE ON blocks BEGIN
    INSERT INTO blocks_fts(blocks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS blocks_au AFTER UPDATE ON blocks BEGIN
    INSERT INTO blocks_fts(blocks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO blocks_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

// OpenDB opens (creating if needed) the archive at dbPath. ":memory:" is
// accepted for tests.
func OpenDB(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// schemaVersion should be bumped whenever block layout changes; archived
// transcripts from older versions are dropped and rebuilt on next convert.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if _, err := d.db.Exec("DELETE FROM blocks"); err != nil {
		return err
	}
	if _, err := d.db.Exec("DELETE FROM transcripts"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

func (d *DB) AllTranscriptKeys() (map[string]string, error) {
	rows, err := d.db.Query("SELECT transcript_key, output_path FROM transcripts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var k, p string
		if err := rows.Scan(&k, &p); err != nil {
			return nil, err
		}
		keys[k] = p
	}
	return keys, rows.Err()
}

func (d *DB) DeleteTranscript(key string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteTranscriptTx(tx, key); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteTranscriptTx(tx *sql.Tx, key string) error {
	if _, err := tx.Exec("DELETE FROM blocks WHERE transcript_key = ?", key); err != nil {
		return err
	}
	_, err := tx.Exec("DELETE FROM transcripts WHERE transcript_key = ?", key)
	return err
}

func (d *DB) TranscriptCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM transcripts").Scan(&n)
	return n, err
}

func (d *DB) BlockCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM blocks").Scan(&n)
	return n, err
}

type TranscriptRow struct {
	Key             string
	Source          string
	Mode            string
	InputPath       string
	OutputPath      string
	RunID           string
	ConvertedAt     string
	Snapshots       int
	Skipped         int
	Discontinuities int
	Entries         int
}

const transcriptColumns = `transcript_key, source, mode, input_path, output_path, run_id,
	converted_at, snapshots, skipped, discontinuities, entries`

func scanTranscript(sc interface{ Scan(...any) error }, t *TranscriptRow) error {
	return sc.Scan(&t.Key, &t.Source, &t.Mode, &t.InputPath, &t.OutputPath, &t.RunID,
		&t.ConvertedAt, &t.Snapshots, &t.Skipped, &t.Discontinuities, &t.Entries)
}

func (d *DB) GetTranscriptByKey(key string) (*TranscriptRow, error) {
	var t TranscriptRow
	err := scanTranscript(d.db.QueryRow(
		"SELECT "+transcriptColumns+" FROM transcripts WHERE transcript_key = ?", key,
	), &t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTranscripts returns archived transcripts, newest conversion first.
func (d *DB) ListTranscripts(source string, limit int) ([]TranscriptRow, error) {
	query := "SELECT " + transcriptColumns + " FROM transcripts"
	var args []any
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY converted_at DESC, transcript_key"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		var t TranscriptRow
		if err := scanTranscript(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type BlockRow struct {
	TranscriptKey string
	BlockID       int
	Speaker       string
	Ts            string
	Text          string
	LineNumber    int
}

func (d *DB) GetBlocks(key string) ([]BlockRow, error) {
	rows, err := d.db.Query(
		"SELECT transcript_key, block_id, speaker, ts, text, line_number FROM blocks WHERE transcript_key = ? ORDER BY block_id",
		key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []BlockRow
	for rows.Next() {
		var b BlockRow
		if err := rows.Scan(&b.TranscriptKey, &b.BlockID, &b.Speaker, &b.Ts, &b.Text, &b.LineNumber); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// GetBlocksWindow returns a window of blocks around a hit block.
// startPos is the number of blocks before the returned window.
// totalCount is the total number of blocks in the transcript.
func (d *DB) GetBlocksWindow(key string, hitBlockID, context int) (blocks []BlockRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM blocks WHERE transcript_key = ?", key,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	// block ids are dense from 0, so the id is also the position
	hitPos := -1
	if hitBlockID >= 0 && hitBlockID < totalCount {
		hitPos = hitBlockID
	}

	startPos = 0
	limit := totalCount
	if hitPos >= 0 {
		startPos = hitPos - context
		if startPos < 0 {
			startPos = 0
		}
		endPos := hitPos + context + 1
		if endPos > totalCount {
			endPos = totalCount
		}
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT transcript_key, block_id, speaker, ts, text, line_number FROM blocks WHERE transcript_key = ? ORDER BY block_id LIMIT ? OFFSET ?",
		key, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	localHitIdx := -1
	for rows.Next() {
		var b BlockRow
		if err := rows.Scan(&b.TranscriptKey, &b.BlockID, &b.Speaker, &b.Ts, &b.Text, &b.LineNumber); err != nil {
			return nil, -1, 0, 0, err
		}
		if b.BlockID == hitBlockID {
			localHitIdx = len(blocks)
		}
		blocks = append(blocks, b)
	}
	return blocks, localHitIdx, startPos, totalCount, rows.Err()
}
