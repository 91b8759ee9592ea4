package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
)

type Result struct {
	Key         string
	BlockID     int
	ConvertedAt string
	Source      string
	Mode        string
	OutputPath  string
	Speaker     string
	Snippet     string
	Rank        float64
}

type Options struct {
	Query   string
	Source  string // "" = all, "teams", "zoom", ...
	Speaker string // "" = all
	Since   string // "" = no filter, e.g. "2024-01-01"
	Limit   int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// headSnippet returns the first n runes of text.
func headSnippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return text
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	// Deduplicate: keep only the best-ranked result per transcript
	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []interface{}

	// FTS match
	conditions = append(conditions, "blocks_fts MATCH ?")
	args = append(args, opts.Query)

	conditions, args = appendFilters(conditions, args, opts)
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			b.transcript_key,
			b.block_id,
			t.converted_at,
			t.source,
			t.mode,
			t.output_path,
			b.speaker,
			snippet(blocks_fts, 0, '>>>','<<<', '...', 40) as snip,
			bm25(blocks_fts, 1.0) as rank
		FROM blocks_fts
		JOIN blocks b ON blocks_fts.rowid = b.rowid
		JOIN transcripts t ON b.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []interface{}

	// LIKE match for CJK substring search
	conditions = append(conditions, "b.text LIKE ?")
	args = append(args, "%"+opts.Query+"%")

	conditions, args = appendFilters(conditions, args, opts)
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			b.transcript_key,
			b.block_id,
			t.converted_at,
			t.source,
			t.mode,
			t.output_path,
			b.speaker,
			b.text
		FROM blocks b
		JOIN transcripts t ON b.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY t.converted_at DESC, b.block_id
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.Key, &r.BlockID, &r.ConvertedAt,
			&r.Source, &r.Mode, &r.OutputPath,
			&r.Speaker, &fullText,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		r.Rank = 0
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.Key, &r.BlockID, &r.ConvertedAt,
			&r.Source, &r.Mode, &r.OutputPath,
			&r.Speaker, &r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func appendFilters(conditions []string, args []interface{}, opts Options) ([]string, []interface{}) {
	if opts.Source != "" {
		conditions = append(conditions, "t.source = ?")
		args = append(args, opts.Source)
	}
	if opts.Speaker != "" {
		conditions = append(conditions, "b.speaker = ? COLLATE NOCASE")
		args = append(args, opts.Speaker)
	}
	if opts.Since != "" {
		conditions = append(conditions, "t.converted_at >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

// ListAll returns one result per archived transcript, newest first, with
// the opening block as snippet.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	rows, err := db.ListTranscripts(opts.Source, opts.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(rows))
	for _, t := range rows {
		if opts.Since != "" && t.ConvertedAt < opts.Since {
			continue
		}
		r := Result{
			Key:         t.Key,
			BlockID:     -1,
			ConvertedAt: t.ConvertedAt,
			Source:      t.Source,
			Mode:        t.Mode,
			OutputPath:  t.OutputPath,
		}
		blocks, _, _, _, err := db.GetBlocksWindow(t.Key, 0, 0)
		if err != nil {
			return nil, err
		}
		if len(blocks) > 0 {
			r.Speaker = blocks[0].Speaker
			r.Snippet = headSnippet(blocks[0].Text, 120)
		}
		results = append(results, r)
	}
	return results, nil
}
