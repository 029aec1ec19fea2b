package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "base")
	s, err := New(dir, "", opts...)
	require.NoError(t, err)
	require.NoError(t, s.Init())
	return s, dir
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("default name", func(t *testing.T) {
		t.Parallel()
		s, err := New("/tmp/base", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/base", DefaultIndexName), s.Path())
		assert.Equal(t, s.Path()+".digest", s.DigestPath())
	})

	t.Run("empty base dir", func(t *testing.T) {
		t.Parallel()
		_, err := New("", "index")
		assert.Error(t, err)
	})

	t.Run("name with separator", func(t *testing.T) {
		t.Parallel()
		_, err := New("/tmp/base", "../index")
		assert.Error(t, err)
	})
}

func TestReadMissing(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	_, err := s.Read()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteRead(t *testing.T) {
	t.Parallel()

	s, dir := newTestStore(t)
	data := []byte(`{"type": "directory"}`)
	require.NoError(t, s.Write(data))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	raw, err := os.ReadFile(s.DigestPath())
	require.NoError(t, err)
	assert.Equal(t, digest.FromBytes(data).String(), strings.TrimSpace(string(raw)))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(defaultFilePerm), info.Mode().Perm())

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWriteOverwrites(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	require.NoError(t, s.Write([]byte("first version of the index")))
	require.NoError(t, s.Write([]byte("second")))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestDigestMismatch(t *testing.T) {
	t.Parallel()

	t.Run("tampered index", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		require.NoError(t, s.Write([]byte("saved")))
		require.NoError(t, os.WriteFile(s.Path(), []byte("tampered"), 0o600))

		got, err := s.Read()
		assert.ErrorIs(t, err, ErrDigestMismatch)
		assert.Equal(t, "tampered", string(got), "data is returned with the mismatch")
	})

	t.Run("garbage digest", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		require.NoError(t, s.Write([]byte("saved")))
		require.NoError(t, os.WriteFile(s.DigestPath(), []byte("not-a-digest"), 0o600))

		_, err := s.Read()
		assert.ErrorIs(t, err, ErrDigestMismatch)
	})

	t.Run("verification disabled", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t, WithVerifyDigest(false))
		require.NoError(t, s.Write([]byte("saved")))
		require.NoError(t, os.WriteFile(s.Path(), []byte("tampered"), 0o600))

		got, err := s.Read()
		require.NoError(t, err)
		assert.Equal(t, "tampered", string(got))
	})

	t.Run("missing digest accepted", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		require.NoError(t, os.WriteFile(s.Path(), []byte("legacy"), 0o600))

		got, err := s.Read()
		require.NoError(t, err)
		assert.Equal(t, "legacy", string(got))
	})
}

func TestInterruptedWrite(t *testing.T) {
	t.Parallel()

	first := []byte("first")
	second := []byte("second")

	t.Run("after staging the digest", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		require.NoError(t, s.Write(first))
		require.NoError(t, s.stageDigest(digest.FromBytes(second)))

		got, err := s.Read()
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("after replacing the index", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		require.NoError(t, s.Write(first))
		require.NoError(t, s.stageDigest(digest.FromBytes(second)))
		require.NoError(t, writeFileAtomic(s.Path(), second, defaultFilePerm))

		got, err := s.Read()
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("completed write accepts only the new data", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		require.NoError(t, s.Write(first))
		require.NoError(t, s.Write(second))

		raw, err := os.ReadFile(s.DigestPath())
		require.NoError(t, err)
		assert.Equal(t, digest.FromBytes(second).String()+"\n", string(raw))

		require.NoError(t, os.WriteFile(s.Path(), first, 0o600))
		_, err = s.Read()
		assert.ErrorIs(t, err, ErrDigestMismatch)
	})

	t.Run("stale digest beside new data", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		require.NoError(t, s.Write(first))
		stale, err := os.ReadFile(s.DigestPath())
		require.NoError(t, err)
		require.NoError(t, s.Write(second))
		require.NoError(t, os.WriteFile(s.DigestPath(), stale, 0o600))

		got, err := s.Read()
		assert.ErrorIs(t, err, ErrDigestMismatch)
		assert.Equal(t, second, got)
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	require.NoError(t, s.Remove(), "removing missing files is not an error")
	require.NoError(t, s.Write([]byte("data")))
	require.NoError(t, s.Remove())

	_, err := os.Stat(s.Path())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = os.Stat(s.DigestPath())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestInitCreatesBaseDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")
	s, err := New(dir, "idx", WithDirPerm(0o700))
	require.NoError(t, err)
	require.NoError(t, s.Init())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
