package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// IsCanonical reports whether data looks like the canonical entry schema:
// a top-level array, or an object with an "entries" key.
func IsCanonical(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '[' {
		return true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return false
	}
	_, ok := fields["entries"]
	return ok
}

// Parse decodes data as the given source. SourceAuto selects canonical when
// the data is canonical-shaped, otherwise fallback.
func Parse(data []byte, source, fallback string) (*Result, error) {
	if source == "" || source == SourceAuto {
		source = fallback
		if IsCanonical(data) {
			source = SourceCanonical
		}
	}

	if source == SourceCanonical {
		return ParseCanonical(data)
	}

	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode %s tree: %w", source, err)
	}

	res := &Result{Source: source}
	switch source {
	case SourceTeams:
		res.Entries = ParseTeams(root)
	case SourceZoom:
		res.Entries = ParseZoom(root)
	case SourceWebex:
		res.Entries = ParseWebex(root)
	default:
		return nil, fmt.Errorf("unknown source: %s", source)
	}
	return res, nil
}

// ParseFile reads and parses one snapshot file.
func ParseFile(path, source, fallback string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, source, fallback)
}
