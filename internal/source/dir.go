// Package source lists ARGOS dump files in an input directory and opens them
// as line streams.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadmeName is the only non-data file expected in an input directory. It is
// always skipped.
const ReadmeName = "README.txt"

// maxLineSize bounds a single line; ARGOS lines are well under 200 bytes.
const maxLineSize = 1 << 20

// Dir is a directory of ARGOS dump files.
type Dir struct {
	path string
}

// NewDir creates a Dir rooted at path. The directory is not read until Files
// is called.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// Files returns the names of the data files in listing order, skipping
// subdirectories and README.txt.
func (d *Dir) Files() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == ReadmeName {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Open opens a file by name for reading. The caller must close it.
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.path, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Lines returns a line scanner over r that tolerates long lines and strips
// trailing carriage returns.
func Lines(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return s
}
