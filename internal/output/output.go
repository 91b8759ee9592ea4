package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the relative directory converted transcripts go to.
const DefaultDir = "converted_transcripts"

const fallbackName = "transcript"

// OutputWriteError is fatal: the transcript could not be written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// Path derives the output file for an input file or directory:
// <outDir>/<base name without extension>.txt
func Path(outDir, input string) string {
	if outDir == "" {
		outDir = DefaultDir
	}
	base := filepath.Base(filepath.Clean(input))
	if info, err := os.Stat(input); err != nil || !info.IsDir() {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = fallbackName
	}
	return filepath.Join(outDir, base+".txt")
}

// WriteFile creates the parent directory and replaces path with data. The data
// goes to a temp file in the same directory first, so a failed write never
// leaves a partial transcript behind.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &OutputWriteError{Path: path, Err: fmt.Errorf("create output dir: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &OutputWriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &OutputWriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &OutputWriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &OutputWriteError{Path: path, Err: err}
	}
	return nil
}
