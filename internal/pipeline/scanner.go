package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered input file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the scanned root, slash separated.
	RelPath string
	// Size is the file size in bytes.
	Size int64
}

// ScanIcons returns the .icns files under root, skipping hidden
// directories. A root that is itself a file is returned as the only
// source regardless of its extension.
func ScanIcons(root string) ([]Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []Source{{AbsPath: root, RelPath: filepath.Base(root), Size: info.Size()}}, nil
	}

	var sources []Source
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), icnsExt) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Size:    info.Size(),
		})
		return nil
	})
	return sources, err
}

// Load reads the source into an Input named by its relative path.
func (s Source) Load() (Input, error) {
	data, err := os.ReadFile(s.AbsPath)
	if err != nil {
		return Input{}, fmt.Errorf("read %s: %w", s.RelPath, err)
	}
	return Input{Name: s.RelPath, Data: data}, nil
}
