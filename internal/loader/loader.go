// Package loader handles input file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/resh-hvh/uvm/internal/assembler"
)

// Loader handles loading source and binary files from disk.
type Loader struct{}

// New creates a new loader.
func New() *Loader {
	return &Loader{}
}

// LoadSource reads a source file and returns its lines.
func (l *Loader) LoadSource(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	lines, err := assembler.ReadLines(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return lines, nil
}

// LoadBinary reads a binary instruction stream.
func (l *Loader) LoadBinary(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
