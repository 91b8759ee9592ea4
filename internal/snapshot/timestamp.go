package snapshot

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

// CaptureLayout is the capture-time pattern embedded in snapshot names.
const CaptureLayout = "2006-01-02-15-04-05"

var captureRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}`)

var errNoCaptureTime = errors.New("no YYYY-MM-DD-HH-MM-SS timestamp in name")

// ParseCaptureTime extracts the capture time from a snapshot file name.
func ParseCaptureTime(name string) (time.Time, error) {
	m := captureRe.FindString(filepath.Base(name))
	if m == "" {
		return time.Time{}, errNoCaptureTime
	}
	t, err := time.Parse(CaptureLayout, m)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", m, err)
	}
	return t, nil
}
