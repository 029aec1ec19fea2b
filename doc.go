// Package pathindex provides a persistent, path-addressed directory index
// that maps logical file paths onto opaque location tokens.
//
// The index stores no file content. A location is whatever the caller uses
// to find the real bytes, typically the identifier of an encrypted blob.
// The namespace is a tree of directories and files held in memory and
// rewritten in full to a single index file after every change.
//
// # Quick Start
//
// Open an index rooted at a base directory and record a file:
//
//	idx, err := pathindex.Open("/var/lib/vault")
//	if err != nil {
//	    return err
//	}
//	defer idx.Close()
//
//	if err := idx.AddFile("docs/report.pdf", "blob-7f3a"); err != nil {
//	    return err
//	}
//	loc := idx.FilePath("docs/report.pdf") // "blob-7f3a"
//
// # Paths
//
// Paths are slash-separated. Empty segments from leading, trailing or
// repeated slashes are ignored, and "." and ".." are ordinary names.
// Missing parent directories are created on demand by AddFile,
// CreateDirectory and the destination side of RenameDirectory and MoveFile.
// A path that passes through a file fails with [ErrInvalidPath].
//
// # Overwrites
//
// AddFile, RenameDirectory and MoveFile replace whatever already exists at
// the destination name, file or directory, without warning. Check with
// [Index.DirectoryExists] or [Index.LookupFile] first when that matters.
//
// # Persistence
//
// The index file is named "index" inside the base directory and is written
// atomically together with a digest sidecar that is verified on open. The
// stored form is indented JSON by default; YAML and a FlatBuffers snapshot
// are available through [WithFormat], and zstd compression through
// [WithCompression].
//
// # Concurrency
//
// An Index is not safe for concurrent use. Callers that share one must
// serialize access themselves.
package pathindex
