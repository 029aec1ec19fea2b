package pathindex

import (
	"errors"

	"github.com/meigma/pathindex/internal/codec"
	"github.com/meigma/pathindex/internal/store"
	"github.com/meigma/pathindex/internal/tree"
)

// Errors re-exported from internal packages.
var (
	// ErrInvalidPath is returned when a path passes through a file where a
	// directory is required, names the root where an entry is required, or
	// is not valid UTF-8.
	ErrInvalidPath = tree.ErrInvalidPath

	// ErrNotExist is returned by ReadDir when the directory does not exist.
	ErrNotExist = tree.ErrNotExist

	// ErrCorrupt is returned when the index file cannot be decoded.
	ErrCorrupt = codec.ErrCorrupt

	// ErrDigestMismatch is returned when the index file does not match its
	// recorded digest.
	ErrDigestMismatch = store.ErrDigestMismatch
)

var (
	// ErrClosed is returned by mutating operations after Close.
	ErrClosed = errors.New("pathindex: index is closed")

	// ErrInvalidLocation is returned by AddFile when the location is not
	// valid UTF-8.
	ErrInvalidLocation = errors.New("pathindex: invalid location")
)
