// Package pathutil provides path manipulation for slash-separated logical paths.
package pathutil

import "strings"

// Separator delimits segments of a logical path.
const Separator = "/"

// Split returns the segments of a slash-separated path.
//
// Empty segments produced by leading, trailing or repeated slashes are
// preserved; use Segments to drop them. "." and ".." are not interpreted.
func Split(path string) []string {
	return strings.Split(path, Separator)
}

// Segments returns the non-empty segments of path in order.
func Segments(path string) []string {
	parts := Split(path)
	result := parts[:0] // reuse backing array
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// SplitLeaf separates the last non-empty segment of path from its parent
// segments. An empty leaf means path names the root.
func SplitLeaf(path string) (parent []string, leaf string) {
	segs := Segments(path)
	if len(segs) == 0 {
		return nil, ""
	}
	return segs[:len(segs)-1], segs[len(segs)-1]
}

// Join joins segments into a slash-separated path.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}

// IsAncestor reports whether a is a proper prefix of b.
func IsAncestor(a, b []string) bool {
	if len(a) >= len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal reports whether a and b contain the same segments.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
