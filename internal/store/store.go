// Package store reads and writes the index file of a base directory.
//
// The index is always rewritten in full: data goes to a temp file in the
// same directory which is then renamed over the target. A sidecar file holds
// the digest of the stored bytes so a damaged index is detected on load.
//
// The sidecar may list more than one digest. Before the index is replaced
// the sidecar is rewritten to accept both the current and the new bytes, so
// an interrupted save never leaves an index that fails verification.
package store

import (
	_ "crypto/sha256" // registers the digest algorithm
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
)

const (
	// DefaultIndexName is the file name of the index under the base directory.
	DefaultIndexName = "index"

	digestSuffix = ".digest"

	defaultDirPerm  = 0o750
	defaultFilePerm = 0o600
)

// ErrDigestMismatch is returned when the index file does not match its
// recorded digest.
var ErrDigestMismatch = errors.New("pathindex: index digest mismatch")

// Store persists index bytes at a fixed path.
type Store struct {
	path         string
	dirPerm      os.FileMode
	filePerm     os.FileMode
	verifyDigest bool
}

// Option configures a Store.
type Option func(*Store)

// WithDirPerm sets the permissions used when creating the base directory.
func WithDirPerm(mode os.FileMode) Option {
	return func(s *Store) {
		s.dirPerm = mode
	}
}

// WithFilePerm sets the permissions of the index and digest files.
func WithFilePerm(mode os.FileMode) Option {
	return func(s *Store) {
		s.filePerm = mode
	}
}

// WithVerifyDigest controls whether Read checks the digest sidecar.
// Digests are always written. Defaults to true.
func WithVerifyDigest(enabled bool) Option {
	return func(s *Store) {
		s.verifyDigest = enabled
	}
}

// New returns a Store for the index file name inside baseDir.
func New(baseDir, name string, opts ...Option) (*Store, error) {
	if baseDir == "" {
		return nil, errors.New("pathindex: base directory is empty")
	}
	if name == "" {
		name = DefaultIndexName
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("pathindex: invalid index file name %q", name)
	}
	s := &Store{
		path:         filepath.Join(baseDir, name),
		dirPerm:      defaultDirPerm,
		filePerm:     defaultFilePerm,
		verifyDigest: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the index file path.
func (s *Store) Path() string {
	return s.path
}

// DigestPath returns the digest sidecar path.
func (s *Store) DigestPath() string {
	return s.path + digestSuffix
}

// Init creates the base directory if it does not exist.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), s.dirPerm); err != nil {
		return fmt.Errorf("create base directory: %w", err)
	}
	return nil
}

// Read returns the stored index bytes. A missing index is reported with an
// error matching fs.ErrNotExist. When the bytes do not match the recorded
// digest, Read returns them together with an error wrapping
// ErrDigestMismatch.
func (s *Store) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if !s.verifyDigest {
		return data, nil
	}
	return data, s.verify(data)
}

func (s *Store) verify(data []byte) error {
	digests, err := s.readDigests()
	if err != nil {
		return err
	}
	if digests == nil {
		return nil
	}
	for _, dgst := range digests {
		verifier := dgst.Verifier()
		if _, err := verifier.Write(data); err != nil {
			return err
		}
		if verifier.Verified() {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDigestMismatch, s.path)
}

// readDigests parses the sidecar, one digest per line. A missing sidecar
// yields nil.
func (s *Store) readDigests() ([]digest.Digest, error) {
	raw, err := os.ReadFile(s.DigestPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index digest: %w", err)
	}
	var digests []digest.Digest
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		dgst, err := digest.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDigestMismatch, err)
		}
		if !dgst.Algorithm().Available() {
			return nil, fmt.Errorf("%w: unsupported algorithm %s", ErrDigestMismatch, dgst.Algorithm())
		}
		digests = append(digests, dgst)
	}
	if len(digests) == 0 {
		return nil, fmt.Errorf("%w: empty digest file", ErrDigestMismatch)
	}
	return digests, nil
}

// Write replaces the index with data and records its digest.
//
// The sidecar first lists the digests of both data and the current index,
// then the index is replaced, then the sidecar is narrowed to data alone.
func (s *Store) Write(data []byte) error {
	next := digest.FromBytes(data)
	if err := s.stageDigest(next); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, s.filePerm); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	return s.writeDigests(next)
}

// stageDigest records next alongside the digest of the index currently on
// disk, if there is one.
func (s *Store) stageDigest(next digest.Digest) error {
	current, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.writeDigests(next)
	}
	if err != nil {
		return fmt.Errorf("read index file: %w", err)
	}
	return s.writeDigests(next, digest.FromBytes(current))
}

func (s *Store) writeDigests(digests ...digest.Digest) error {
	var sb strings.Builder
	for _, dgst := range digests {
		sb.WriteString(dgst.String())
		sb.WriteByte('\n')
	}
	if err := writeFileAtomic(s.DigestPath(), []byte(sb.String()), s.filePerm); err != nil {
		return fmt.Errorf("write index digest: %w", err)
	}
	return nil
}

// Remove deletes the index and its digest. Missing files are ignored.
func (s *Store) Remove() error {
	for _, p := range []string{s.path, s.DigestPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// writeFileAtomic writes data to a temp file then renames to target,
// ensuring atomic replacement of the target file.
func writeFileAtomic(target string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".pathindex-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
