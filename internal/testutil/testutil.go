// Package testutil provides helpers for building and comparing namespace
// trees in tests.
package testutil

import (
	"fmt"
	"math/rand" //nolint:gosec // deterministic trees for tests
	"strings"
	"testing"

	"github.com/meigma/pathindex/internal/pathutil"
	"github.com/meigma/pathindex/internal/tree"
)

// TestEntry describes one entry of a test tree. Entries with Dir set are
// directories; all others are files pointing at Location.
type TestEntry struct {
	Path     string
	Location string
	Dir      bool
}

// BuildTree creates a tree containing entries. Parent directories are
// created as needed.
func BuildTree(tb testing.TB, entries []TestEntry) *tree.Entry {
	tb.Helper()

	root := tree.NewDirectory()
	for _, e := range entries {
		parent, leaf := pathutil.SplitLeaf(e.Path)
		if leaf == "" {
			tb.Fatalf("test entry %q names the root", e.Path)
		}
		dir, err := tree.Resolve(root, parent)
		if err != nil {
			tb.Fatalf("resolve %q: %v", e.Path, err)
		}
		if e.Dir {
			if _, err := tree.Resolve(dir, []string{leaf}); err != nil {
				tb.Fatalf("resolve %q: %v", e.Path, err)
			}
			continue
		}
		dir.Set(leaf, tree.NewFile(e.Location))
	}
	return root
}

// RandomTree builds a deterministic pseudo-random tree with roughly n
// entries spread over nested directories.
func RandomTree(tb testing.TB, n int, seed int64) *tree.Entry {
	tb.Helper()

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic
	root := tree.NewDirectory()
	dirs := [][]string{nil}
	for i := range n {
		parent := dirs[rng.Intn(len(dirs))]
		name := fmt.Sprintf("e%03d", i)
		dir, err := tree.Resolve(root, parent)
		if err != nil {
			tb.Fatalf("resolve %v: %v", parent, err)
		}
		if rng.Intn(3) == 0 {
			dir.Set(name, tree.NewDirectory())
			dirs = append(dirs, append(parent[:len(parent):len(parent)], name))
			continue
		}
		location := ""
		if rng.Intn(10) != 0 {
			location = fmt.Sprintf("blob-%08x", rng.Uint32())
		}
		dir.Set(name, tree.NewFile(location))
	}
	return root
}

// Dump renders a tree as sorted "path kind location" lines, which makes
// structural differences readable in failure output.
func Dump(root *tree.Entry) string {
	if root == nil {
		return "<nil>\n"
	}
	var sb strings.Builder
	for path, e := range root.Walk() {
		if e.IsDir() {
			fmt.Fprintf(&sb, "%s/\n", path)
			continue
		}
		fmt.Fprintf(&sb, "%s -> %q\n", path, e.Location)
	}
	return sb.String()
}

// RequireTreeEqual fails the test unless want and got are structurally equal.
func RequireTreeEqual(tb testing.TB, want, got *tree.Entry) {
	tb.Helper()
	if !tree.Equal(want, got) {
		tb.Fatalf("trees differ\nwant:\n%s\ngot:\n%s", Dump(want), Dump(got))
	}
}
