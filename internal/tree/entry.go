// Package tree defines the in-memory namespace of the index: directory and
// file entries and the navigator that resolves paths against them.
package tree

import (
	"iter"
	"slices"

	"github.com/meigma/pathindex/internal/pathutil"
)

// Kind identifies whether an entry is a directory or a file.
type Kind uint8

const (
	KindDirectory Kind = iota
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "directory":
		return KindDirectory, true
	case "file":
		return KindFile, true
	default:
		return 0, false
	}
}

// Entry is a node of the namespace.
//
// Children is only meaningful for directories and Location only for files.
// A directory exclusively owns its children; there are no parent pointers
// because navigation always starts at the root.
type Entry struct {
	Kind     Kind
	Children map[string]*Entry
	Location string
}

// NewDirectory returns an empty directory entry.
func NewDirectory() *Entry {
	return &Entry{Kind: KindDirectory, Children: make(map[string]*Entry)}
}

// NewFile returns a file entry pointing at location.
func NewFile(location string) *Entry {
	return &Entry{Kind: KindFile, Location: location}
}

// IsDir reports whether e is a directory.
func (e *Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Names returns the names of e's children in lexicographic order.
func (e *Entry) Names() []string {
	names := make([]string, 0, len(e.Children))
	for name := range e.Children {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Child returns the named child of e.
func (e *Entry) Child(name string) (*Entry, bool) {
	if !e.IsDir() {
		return nil, false
	}
	child, ok := e.Children[name]
	return child, ok
}

// Set inserts child under name, replacing any existing entry.
func (e *Entry) Set(name string, child *Entry) {
	if e.Children == nil {
		e.Children = make(map[string]*Entry)
	}
	e.Children[name] = child
}

// Remove detaches and returns the named child.
func (e *Entry) Remove(name string) (*Entry, bool) {
	child, ok := e.Children[name]
	if ok {
		delete(e.Children, name)
	}
	return child, ok
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := &Entry{Kind: e.Kind, Location: e.Location}
	if e.IsDir() {
		c.Children = make(map[string]*Entry, len(e.Children))
		for name, child := range e.Children {
			c.Children[name] = child.Clone()
		}
	}
	return c
}

// Walk returns an iterator over all descendants of e in depth-first order,
// visiting siblings by name. Yielded paths are relative to e.
func (e *Entry) Walk() iter.Seq2[string, *Entry] {
	return func(yield func(string, *Entry) bool) {
		e.walk(nil, yield)
	}
}

func (e *Entry) walk(prefix []string, yield func(string, *Entry) bool) bool {
	for _, name := range e.Names() {
		child := e.Children[name]
		segs := append(slices.Clip(prefix), name)
		if !yield(pathutil.Join(segs...), child) {
			return false
		}
		if child.IsDir() && !child.walk(segs, yield) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are structurally equal: same kinds, same
// locations for files and equal children, recursively.
func Equal(a, b *Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindFile {
		return a.Location == b.Location
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for name, ac := range a.Children {
		bc, ok := b.Children[name]
		if !ok || !Equal(ac, bc) {
			return false
		}
	}
	return true
}
