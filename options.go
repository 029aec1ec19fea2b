package pathindex

import (
	"log/slog"
	"os"

	"github.com/meigma/pathindex/internal/codec"
)

// Re-export types from internal/codec for public API.
type (
	// Format identifies how the index file is serialized.
	Format = codec.Format

	// Compression identifies the compression applied to the index file.
	Compression = codec.Compression
)

// Re-export format and compression constants.
const (
	FormatJSON        = codec.FormatJSON
	FormatYAML        = codec.FormatYAML
	FormatFlatBuffers = codec.FormatFlatBuffers

	CompressionNone = codec.CompressionNone
	CompressionZstd = codec.CompressionZstd
)

// ParseFormat parses a format name ("json", "yaml" or "flatbuffers").
var ParseFormat = codec.ParseFormat

// ParseCompression parses a compression name ("none" or "zstd").
var ParseCompression = codec.ParseCompression

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used for load and save diagnostics.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		idx.logger = logger
	}
}

// WithIndexName sets the file name of the index inside the base directory.
// Defaults to "index".
func WithIndexName(name string) Option {
	return func(idx *Index) {
		idx.indexName = name
	}
}

// WithFormat sets the format used when saving. Existing index files are
// read in whatever format they were written in.
func WithFormat(f Format) Option {
	return func(idx *Index) {
		idx.format = f
	}
}

// WithCompression sets the compression used when saving. Compressed index
// files are detected on load regardless of this setting.
func WithCompression(c Compression) Option {
	return func(idx *Index) {
		idx.compression = c
	}
}

// WithMaxDecoderMemory limits the memory used to decompress the index file.
// Set limit to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(idx *Index) {
		idx.maxDecoderMemory = limit
	}
}

// WithVerifyDigest controls whether Open checks the index file against its
// digest sidecar. Digests are always written. Defaults to true.
func WithVerifyDigest(enabled bool) Option {
	return func(idx *Index) {
		idx.verifyDigest = enabled
	}
}

// WithResetCorrupt makes Open recover, with a warning, instead of failing
// when the existing index file is damaged. An index that fails digest
// verification but still decodes is kept as is. An index that cannot be
// decoded is removed and Open starts empty. By default Open fails.
func WithResetCorrupt(enabled bool) Option {
	return func(idx *Index) {
		idx.resetCorrupt = enabled
	}
}

// WithDirPerm sets the permissions used when creating the base directory.
func WithDirPerm(mode os.FileMode) Option {
	return func(idx *Index) {
		idx.dirPerm = mode
	}
}

// WithFilePerm sets the permissions of the index file.
func WithFilePerm(mode os.FileMode) Option {
	return func(idx *Index) {
		idx.filePerm = mode
	}
}
