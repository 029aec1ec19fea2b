package pathindex

import (
	"iter"

	"github.com/meigma/pathindex/internal/pathutil"
	"github.com/meigma/pathindex/internal/tree"
)

// DirEntry describes one child of a directory.
type DirEntry struct {
	Name     string
	IsDir    bool
	Location string // empty for directories
}

// ReadDir returns the children of the directory at path sorted by name.
//
// It returns ErrNotExist if the directory does not exist and ErrInvalidPath
// if path names or passes through a file.
func (idx *Index) ReadDir(path string) ([]DirEntry, error) {
	dir, err := tree.LookupDir(idx.root, pathutil.Segments(path))
	if err != nil {
		return nil, err
	}
	names := dir.Names()
	entries := make([]DirEntry, 0, len(names))
	for _, name := range names {
		child := dir.Children[name]
		entries = append(entries, DirEntry{
			Name:     name,
			IsDir:    child.IsDir(),
			Location: child.Location,
		})
	}
	return entries, nil
}

// Files returns an iterator over every file path and its location, in
// depth-first order with siblings sorted by name.
func (idx *Index) Files() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for path, e := range idx.root.Walk() {
			if e.IsDir() {
				continue
			}
			if !yield(path, e.Location) {
				return
			}
		}
	}
}

// Len returns the number of files in the index.
func (idx *Index) Len() int {
	n := 0
	for range idx.Files() {
		n++
	}
	return n
}
