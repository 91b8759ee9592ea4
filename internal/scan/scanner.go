package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type FileInfo struct {
	Path  string
	Name  string
	Mtime int64
	Size  int64
}

// ScanSnapshots lists the *.json files under root in lexical walk order,
// which is the discovery order used to break capture-time ties.
func ScanSnapshots(root string) ([]FileInfo, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var files []FileInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Name:  d.Name(),
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	return files, err
}
