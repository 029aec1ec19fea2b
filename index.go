package pathindex

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/meigma/pathindex/internal/codec"
	"github.com/meigma/pathindex/internal/store"
	"github.com/meigma/pathindex/internal/tree"
)

// Index maps logical paths to location tokens and keeps the mapping in an
// index file under its base directory.
//
// Index is the handle returned by Open; there is no global registry of open
// indexes. It is not safe for concurrent use.
type Index struct {
	root    *tree.Entry
	store   *store.Store
	baseDir string
	closed  bool

	indexName        string
	format           Format
	compression      Compression
	maxDecoderMemory uint64
	verifyDigest     bool
	resetCorrupt     bool
	dirPerm          fs.FileMode
	filePerm         fs.FileMode
	logger           *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (idx *Index) log() *slog.Logger {
	if idx.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return idx.logger
}

// Open loads the index stored in baseDir, creating the directory if needed.
//
// A missing index file yields an empty index. An index file that cannot be
// decoded or fails digest verification is an error unless WithResetCorrupt
// is set.
func Open(baseDir string, opts ...Option) (*Index, error) {
	idx := &Index{
		baseDir:          baseDir,
		indexName:        store.DefaultIndexName,
		format:           FormatJSON,
		compression:      CompressionNone,
		maxDecoderMemory: codec.DefaultMaxDecoderMemory,
		verifyDigest:     true,
	}
	for _, opt := range opts {
		opt(idx)
	}

	storeOpts := []store.Option{store.WithVerifyDigest(idx.verifyDigest)}
	if idx.dirPerm != 0 {
		storeOpts = append(storeOpts, store.WithDirPerm(idx.dirPerm))
	}
	if idx.filePerm != 0 {
		storeOpts = append(storeOpts, store.WithFilePerm(idx.filePerm))
	}
	s, err := store.New(baseDir, idx.indexName, storeOpts...)
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	idx.store = s

	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) load() error {
	data, err := idx.store.Read()
	if errors.Is(err, fs.ErrNotExist) {
		idx.log().Debug("no index file, starting empty", "path", idx.store.Path())
		idx.root = tree.NewDirectory()
		return nil
	}
	if errors.Is(err, ErrDigestMismatch) && idx.resetCorrupt && data != nil {
		if root, decodeErr := idx.decode(data); decodeErr == nil {
			idx.log().Warn("index does not match its digest, keeping decodable index",
				"path", idx.store.Path(), "error", err)
			idx.root = root
			return nil
		}
	}
	var root *tree.Entry
	if err == nil {
		root, err = idx.decode(data)
	}
	if err != nil {
		if idx.resetCorrupt && (errors.Is(err, ErrCorrupt) || errors.Is(err, ErrDigestMismatch)) {
			idx.log().Warn("discarding unreadable index", "path", idx.store.Path(), "error", err)
			if err := idx.store.Remove(); err != nil {
				return fmt.Errorf("discard index %s: %w", idx.store.Path(), err)
			}
			idx.root = tree.NewDirectory()
			return nil
		}
		return fmt.Errorf("load index %s: %w", idx.store.Path(), err)
	}
	idx.root = root
	idx.log().Debug("index loaded", "path", idx.store.Path(), "bytes", len(data), "files", idx.Len())
	return nil
}

func (idx *Index) decode(data []byte) (*tree.Entry, error) {
	raw, err := codec.Decompress(data, idx.maxDecoderMemory)
	if err != nil {
		return nil, err
	}
	return codec.Decode(raw)
}

// Save writes the whole index to disk. Mutating operations call it
// implicitly; it is only needed to rewrite an unchanged index, for example
// after changing format.
func (idx *Index) Save() error {
	if idx.closed {
		return ErrClosed
	}
	return idx.persist()
}

func (idx *Index) persist() error {
	data, err := codec.Encode(idx.root, idx.format)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	data, err = codec.Compress(data, idx.compression)
	if err != nil {
		return fmt.Errorf("compress index: %w", err)
	}
	if err := idx.store.Write(data); err != nil {
		return err
	}
	idx.log().Debug("index saved", "path", idx.store.Path(), "bytes", len(data),
		"format", idx.format, "compression", idx.compression)
	return nil
}

// Close saves the index and releases the handle. Later mutating calls
// return ErrClosed; queries keep answering from memory. Closing twice is a
// no-op.
func (idx *Index) Close() error {
	if idx.closed {
		return nil
	}
	idx.closed = true
	return idx.persist()
}

// writable reports ErrClosed for mutations after Close.
func (idx *Index) writable() error {
	if idx.closed {
		return ErrClosed
	}
	return nil
}

// BaseDir returns the base directory the index was opened with.
func (idx *Index) BaseDir() string {
	return idx.baseDir
}

// IndexPath returns the path of the index file.
func (idx *Index) IndexPath() string {
	return idx.store.Path()
}

// Structure returns the whole tree serialized as text. It uses the
// configured format when that is a text format and JSON otherwise.
func (idx *Index) Structure() (string, error) {
	f := idx.format
	if !f.IsText() {
		f = FormatJSON
	}
	data, err := codec.Encode(idx.root, f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
