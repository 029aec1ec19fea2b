package pathindex

import (
	"fmt"
	"unicode/utf8"

	"github.com/meigma/pathindex/internal/pathutil"
	"github.com/meigma/pathindex/internal/tree"
)

// AddFile records location for the file at path, creating missing parent
// directories. Any existing entry at path, file or directory, is replaced.
//
// It returns ErrInvalidPath if a parent segment is a file, path names the
// root directory or path is not valid UTF-8, and ErrInvalidLocation if
// location is not valid UTF-8.
func (idx *Index) AddFile(path, location string) error {
	if err := idx.writable(); err != nil {
		return err
	}
	if err := checkPath(path); err != nil {
		return err
	}
	if !utf8.ValidString(location) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidLocation, location)
	}
	parent, leaf := pathutil.SplitLeaf(path)
	if leaf == "" {
		return rootPathError(path)
	}
	dir, err := tree.Resolve(idx.root, parent)
	if err != nil {
		return err
	}
	dir.Set(leaf, tree.NewFile(location))
	return idx.persist()
}

// FilePath returns the location stored for the file at path, or "" if there
// is no file there. Use LookupFile to tell a missing file from an empty
// location.
func (idx *Index) FilePath(path string) string {
	location, _ := idx.LookupFile(path)
	return location
}

// LookupFile returns the location stored for the file at path and whether
// such a file exists.
func (idx *Index) LookupFile(path string) (string, bool) {
	segs := pathutil.Segments(path)
	if len(segs) == 0 {
		return "", false
	}
	e, err := tree.Lookup(idx.root, segs)
	if err != nil || e.IsDir() {
		return "", false
	}
	return e.Location, true
}

// RemoveFile deletes the file at path. It returns false, leaving the index
// untouched, if there is no file at path.
func (idx *Index) RemoveFile(path string) (bool, error) {
	if err := idx.writable(); err != nil {
		return false, err
	}
	dir, leaf, ok := idx.parentOf(path)
	if !ok {
		return false, nil
	}
	child, ok := dir.Child(leaf)
	if !ok || child.IsDir() {
		return false, nil
	}
	dir.Remove(leaf)
	return true, idx.persist()
}

// CreateDirectory ensures every directory along path exists.
//
// It returns ErrInvalidPath, creating nothing, if a segment of path is a file
// or path is not valid UTF-8.
func (idx *Index) CreateDirectory(path string) error {
	if err := idx.writable(); err != nil {
		return err
	}
	if err := checkPath(path); err != nil {
		return err
	}
	if _, err := tree.Resolve(idx.root, pathutil.Segments(path)); err != nil {
		return err
	}
	return idx.persist()
}

// RenameDirectory moves the directory at oldPath, with everything below it,
// to newPath. Missing parents of newPath are created and an existing entry
// at newPath is replaced.
//
// It returns false if there is no directory at oldPath. It returns
// ErrInvalidPath if newPath is the root, lies inside oldPath, passes
// through a file or is not valid UTF-8. Renaming a directory onto itself succeeds without change.
func (idx *Index) RenameDirectory(oldPath, newPath string) (bool, error) {
	return idx.move(oldPath, newPath, tree.KindDirectory)
}

// MoveFile moves the file at srcPath to destPath. Missing parents of
// destPath are created and an existing entry at destPath is replaced.
//
// It returns false if there is no file at srcPath. It returns
// ErrInvalidPath if destPath is the root, passes through a file or is not
// valid UTF-8.
func (idx *Index) MoveFile(srcPath, destPath string) (bool, error) {
	return idx.move(srcPath, destPath, tree.KindFile)
}

func (idx *Index) move(src, dest string, kind tree.Kind) (bool, error) {
	if err := idx.writable(); err != nil {
		return false, err
	}
	srcDir, srcLeaf, ok := idx.parentOf(src)
	if !ok {
		return false, nil
	}
	entry, ok := srcDir.Child(srcLeaf)
	if !ok || entry.Kind != kind {
		return false, nil
	}

	if err := checkPath(dest); err != nil {
		return false, err
	}
	srcSegs := pathutil.Segments(src)
	destSegs := pathutil.Segments(dest)
	if len(destSegs) == 0 {
		return false, rootPathError(dest)
	}
	if pathutil.Equal(srcSegs, destSegs) {
		return true, nil
	}
	if pathutil.IsAncestor(srcSegs, destSegs) {
		return false, fmt.Errorf("%w: cannot move %s into itself", ErrInvalidPath, pathutil.Join(srcSegs...))
	}

	destParent, destLeaf := destSegs[:len(destSegs)-1], destSegs[len(destSegs)-1]
	destDir, err := tree.Resolve(idx.root, destParent)
	if err != nil {
		return false, err
	}
	srcDir.Remove(srcLeaf)
	destDir.Set(destLeaf, entry)
	return true, idx.persist()
}

// DeleteDirectory removes the directory at path and everything below it.
// It returns false if there is no directory at path; the root directory
// cannot be deleted.
func (idx *Index) DeleteDirectory(path string) (bool, error) {
	if err := idx.writable(); err != nil {
		return false, err
	}
	dir, leaf, ok := idx.parentOf(path)
	if !ok {
		return false, nil
	}
	child, ok := dir.Child(leaf)
	if !ok || !child.IsDir() {
		return false, nil
	}
	dir.Remove(leaf)
	return true, idx.persist()
}

// DirectoryExists reports whether path names a directory. A path that
// passes through a file is reported as false, not as an error.
func (idx *Index) DirectoryExists(path string) bool {
	_, err := tree.LookupDir(idx.root, pathutil.Segments(path))
	return err == nil
}

// parentOf finds the existing parent directory of path without creating
// anything. ok is false for the root path or an unreachable parent.
func (idx *Index) parentOf(path string) (dir *tree.Entry, leaf string, ok bool) {
	parent, leaf := pathutil.SplitLeaf(path)
	if leaf == "" {
		return nil, "", false
	}
	dir, err := tree.LookupDir(idx.root, parent)
	if err != nil {
		return nil, "", false
	}
	return dir, leaf, true
}

// checkPath rejects paths the text index formats cannot store exactly.
func checkPath(path string) error {
	if !utf8.ValidString(path) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPath, path)
	}
	return nil
}

func rootPathError(path string) error {
	return fmt.Errorf("%w: %q names the root directory", ErrInvalidPath, path)
}
