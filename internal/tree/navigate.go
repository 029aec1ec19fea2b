package tree

import (
	"errors"
	"fmt"

	"github.com/meigma/pathindex/internal/pathutil"
)

// Sentinel errors for navigation.
var (
	// ErrInvalidPath is returned when a path crosses a file where a
	// directory is required.
	ErrInvalidPath = errors.New("pathindex: invalid path")

	// ErrNotExist is returned by Lookup when a segment does not exist.
	ErrNotExist = errors.New("pathindex: path does not exist")
)

// Resolve returns the directory named by segments, creating missing
// directories along the way. Empty segments are skipped and zero segments
// resolve to root.
//
// The whole path is checked before anything is created, so a call that
// fails with ErrInvalidPath leaves the tree unchanged.
func Resolve(root *Entry, segments []string) (*Entry, error) {
	if err := check(root, segments); err != nil {
		return nil, err
	}
	current := root
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		next, ok := current.Children[seg]
		if !ok {
			next = NewDirectory()
			current.Set(seg, next)
		}
		current = next
	}
	return current, nil
}

// Lookup returns the entry named by segments without modifying the tree.
//
// It returns ErrNotExist when a segment is missing and ErrInvalidPath when
// an intermediate segment is a file. The final entry may be of either kind.
func Lookup(root *Entry, segments []string) (*Entry, error) {
	current := root
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if !current.IsDir() {
			return nil, invalidPath(segments[:i])
		}
		next, ok := current.Children[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, pathutil.Join(segments[:i+1]...))
		}
		current = next
	}
	return current, nil
}

// LookupDir is Lookup restricted to directories: a final file entry is
// reported as ErrInvalidPath.
func LookupDir(root *Entry, segments []string) (*Entry, error) {
	e, err := Lookup(root, segments)
	if err != nil {
		return nil, err
	}
	if !e.IsDir() {
		return nil, invalidPath(segments)
	}
	return e, nil
}

// check walks the existing part of segments and fails on the first file.
func check(root *Entry, segments []string) error {
	current := root
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		next, ok := current.Children[seg]
		if !ok {
			return nil
		}
		if !next.IsDir() {
			return invalidPath(segments[:i+1])
		}
		current = next
	}
	return nil
}

func invalidPath(segments []string) error {
	return fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, pathutil.Join(segments...))
}
