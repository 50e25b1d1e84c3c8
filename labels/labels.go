// Package labels - index-to-name lookup tables for object classes.
package labels

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrLabelNotFound reports a class index absent from the map. It usually
// means the detection source and the label file disagree on the index
// offset; ignoring it would silently attach wrong labels.
var ErrLabelNotFound = errors.New("label not found")

// Map is a read-only mapping from class index to display name. It is
// immutable after construction and safe for concurrent reads.
type Map struct {
	names  []string
	offset int
}

// New builds a Map from an ordered list of class names.
//
// Arguments:
//   - names: Class names in index order.
//   - offset: The index of the first name, 0 or 1, matching the
//     convention of the detection source.
//
// Returns:
//   - *Map: The constructed map.
//   - error: An error if names is empty or offset is not 0 or 1.
func New(names []string, offset int) (*Map, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no class names given")
	}
	if offset != 0 && offset != 1 {
		return nil, fmt.Errorf("offset must be 0 or 1, got %d", offset)
	}
	owned := make([]string, len(names))
	copy(owned, names)
	return &Map{names: owned, offset: offset}, nil
}

// Parse reads a newline-delimited list of class names. Blank lines are
// skipped; surrounding whitespace is trimmed.
func Parse(r io.Reader, offset int) (*Map, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label list: %w", err)
	}
	return New(names, offset)
}

// LoadFile reads a label map from a local text file, one class name per
// line.
func LoadFile(path string, offset int) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()
	return Parse(f, offset)
}

// Lookup returns the display name for a class index. An index outside the
// loaded range returns ErrLabelNotFound rather than a garbled label.
func (m *Map) Lookup(index int) (string, error) {
	i := index - m.offset
	if i < 0 || i >= len(m.names) {
		return "", fmt.Errorf("%w: index %d (offset %d, %d classes)",
			ErrLabelNotFound, index, m.offset, len(m.names))
	}
	return m.names[i], nil
}

// Len returns the number of loaded class names.
func (m *Map) Len() int { return len(m.names) }

// Offset returns the index of the first class name.
func (m *Map) Offset() int { return m.offset }
