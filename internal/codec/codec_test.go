package codec

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pathindex/internal/testutil"
	"github.com/meigma/pathindex/internal/tree"
)

var allFormats = []Format{FormatJSON, FormatYAML, FormatFlatBuffers}

func testTrees(tb testing.TB) map[string]*tree.Entry {
	tb.Helper()
	return map[string]*tree.Entry{
		"empty": tree.NewDirectory(),
		"flat": testutil.BuildTree(tb, []testutil.TestEntry{
			{Path: "a.txt", Location: "blob-1"},
			{Path: "b.txt", Location: "blob-2"},
		}),
		"nested": testutil.BuildTree(tb, []testutil.TestEntry{
			{Path: "docs/reports/q1.pdf", Location: "enc/aa/01"},
			{Path: "docs/reports/q2.pdf", Location: "enc/aa/02"},
			{Path: "docs/empty", Dir: true},
			{Path: "photos/2024/img.jpg", Location: "enc/bb/03"},
		}),
		"empty location": testutil.BuildTree(tb, []testutil.TestEntry{
			{Path: "a/placeholder", Location: ""},
		}),
		"awkward names": testutil.BuildTree(tb, []testutil.TestEntry{
			{Path: "with space/file name.txt", Location: "loc with space"},
			{Path: "quote\"dir/back\\slash", Location: "\"quoted\""},
			{Path: "日本語/ファイル", Location: "unicode-é"},
			{Path: "./../x", Location: "dots"},
			{Path: "123/true", Location: "null"},
			{Path: "colon: name/- dash", Location: "a: b"},
			{Path: "html/<tag>&", Location: "<>&"},
		}),
		"yaml scalars": testutil.BuildTree(tb, []testutil.TestEntry{
			{Path: "null/~", Location: "~"},
			{Path: "true/no", Location: "false"},
			{Path: ".inf/-.Inf", Location: ".nan"},
			{Path: "<</<<", Location: "<<"},
			{Path: "0x1F/1e3", Location: "0o17"},
			{Path: "2024-01-02", Location: "12:30:00"},
			{Path: "&a/*a", Location: "!!str"},
			{Path: "#c/%d", Location: "@e"},
			{Path: "[x]/{y}", Location: "|"},
			{Path: "'q'/>", Location: "`b`"},
			{Path: "---", Location: "..."},
		}),
		"control characters": testutil.BuildTree(tb, []testutil.TestEntry{
			{Path: "tab\there", Location: "loc\twith tab"},
			{Path: "new\nline", Location: "multi\nline\n"},
			{Path: "cr\rlf", Location: "\r\n"},
			{Path: "nul\x00/bell\a", Location: "\x00\x1b\x7f"},
			{Path: " leading/trailing ", Location: "  spaced  "},
		}),
		"unicode": testutil.BuildTree(tb, []testutil.TestEntry{
			{Path: "nbsp\u00a0/bom\ufeff", Location: "zero\u200bwidth"},
			{Path: "sep\u2028/para\u2029", Location: "nel\u0085"},
			{Path: "emoji\U0001F600", Location: "tag\U000E0041"},
			{Path: "Ελληνικά/עברית", Location: "العربية"},
		}),
		"random": testutil.RandomTree(tb, 300, 42),
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for name, root := range testTrees(t) {
		for _, f := range allFormats {
			for _, c := range []Compression{CompressionNone, CompressionZstd} {
				t.Run(fmt.Sprintf("%s/%s/%s", name, f, c), func(t *testing.T) {
					t.Parallel()

					data, err := Encode(root, f)
					require.NoError(t, err)
					data, err = Compress(data, c)
					require.NoError(t, err)
					assert.Equal(t, c == CompressionZstd, IsCompressed(data))

					raw, err := Decompress(data, DefaultMaxDecoderMemory)
					require.NoError(t, err)
					got, err := Decode(raw)
					require.NoError(t, err)
					testutil.RequireTreeEqual(t, root, got)
				})
			}
		}
	}
}

// Decoding must restore every entry, not an empty placeholder tree.
func TestDecodeIsNotPlaceholder(t *testing.T) {
	t.Parallel()

	root := testutil.BuildTree(t, []testutil.TestEntry{{Path: "a/b", Location: "loc"}})
	for _, f := range allFormats {
		data, err := Encode(root, f)
		require.NoError(t, err)
		got, err := Decode(data)
		require.NoError(t, err)
		assert.NotEmpty(t, got.Children, "format %s decoded an empty tree", f)
	}
}

func TestEncodeJSONLayout(t *testing.T) {
	t.Parallel()

	root := testutil.BuildTree(t, []testutil.TestEntry{
		{Path: "g", Location: ""},
		{Path: "a/f", Location: "loc1"},
	})
	want := `{
  "type": "directory",
  "contents": {
    "a": {
      "type": "directory",
      "contents": {
        "f": {
          "type": "file",
          "path": "loc1"
        }
      }
    },
    "g": {
      "type": "file"
    }
  }
}
`
	data, err := Encode(root, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	root := testutil.RandomTree(t, 200, 7)
	for _, f := range allFormats {
		first, err := Encode(root, f)
		require.NoError(t, err)
		for range 5 {
			again, err := Encode(root.Clone(), f)
			require.NoError(t, err)
			require.True(t, bytes.Equal(first, again), "format %s output is not stable", f)
		}
	}
}

func TestEncodeYAMLOrder(t *testing.T) {
	t.Parallel()

	root := testutil.BuildTree(t, []testutil.TestEntry{
		{Path: "b", Location: "2"},
		{Path: "a", Location: "1"},
	})
	data, err := Encode(root, FormatYAML)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "type: directory")
	assert.Less(t, bytes.Index(data, []byte(`"a":`)), bytes.Index(data, []byte(`"b":`)))
}

func TestEncodeYAMLLayout(t *testing.T) {
	t.Parallel()

	root := testutil.BuildTree(t, []testutil.TestEntry{
		{Path: "g", Location: ""},
		{Path: "a/.inf", Location: "null"},
		{Path: "e", Dir: true},
	})
	want := `type: directory
contents:
  "a":
    type: directory
    contents:
      ".inf":
        type: file
        path: "null"
  "e":
    type: directory
  "g":
    type: file
`
	data, err := Encode(root, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestEncodeRejectsFileRoot(t *testing.T) {
	t.Parallel()

	_, err := Encode(tree.NewFile("x"), FormatJSON)
	assert.Error(t, err)
	_, err = Encode(nil, FormatJSON)
	assert.Error(t, err)
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	badName := tree.NewDirectory()
	badName.Set("bad\xff", tree.NewFile("loc"))
	badLocation := tree.NewDirectory()
	badLocation.Set("f", tree.NewFile("\xff\x01tok"))

	for _, root := range []*tree.Entry{badName, badLocation} {
		for _, f := range allFormats {
			_, err := Encode(root, f)
			assert.Error(t, err, "format %s", f)
		}
	}
}

func TestDecodeFlatBuffersRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	badName := tree.NewDirectory()
	badName.Set("bad\xff", tree.NewFile("loc"))
	badLocation := tree.NewDirectory()
	badLocation.Set("f", tree.NewFile("\xff\x01tok"))

	for _, root := range []*tree.Entry{badName, badLocation} {
		_, err := Decode(encodeFlatBuffers(root))
		assert.ErrorIs(t, err, ErrCorrupt)
	}
}

func FuzzRoundTrip(f *testing.F) {
	for _, seed := range [][2]string{
		{"file", "loc"},
		{".inf", "null"},
		{"<<", "~"},
		{"a\tb", "c\nd"},
		{"\x00", "\x7f"},
		{" x ", "- y"},
		{"\u2028", "\ufeff"},
		{"\"quoted\"", "back\\slash"},
	} {
		f.Add(seed[0], seed[1])
	}
	f.Fuzz(func(t *testing.T, name, location string) {
		if validName(name) != nil || validLocation(location) != nil {
			t.Skip()
		}
		root := tree.NewDirectory()
		dir := tree.NewDirectory()
		dir.Set(name, tree.NewFile(location))
		root.Set(name, dir)

		for _, format := range allFormats {
			data, err := Encode(root, format)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err, "format %s:\n%s", format, data)
			testutil.RequireTreeEqual(t, root, got)
		}
	})
}

func TestDecodeRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"bad json", `{"type": "directory",`},
		{"unknown type", `{"type": "symlink"}`},
		{"file root", `{"type": "file", "path": "x"}`},
		{"file with contents", `{"type": "directory", "contents": {"f": {"type": "file", "contents": {"x": {"type": "file"}}}}}`},
		{"empty name", `{"type": "directory", "contents": {"": {"type": "file"}}}`},
		{"slash in name", `{"type": "directory", "contents": {"a/b": {"type": "file"}}}`},
		{"null child", `{"type": "directory", "contents": {"a": null}}`},
		{"bad yaml", "type: [directory"},
		{"yaml unknown type", "type: pipe\n"},
		{"garbage flatbuffers", "\x30\x30\x30\x30PIDX\x01\x02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	root := testutil.BuildTree(t, []testutil.TestEntry{{Path: "a", Location: "x"}})
	for _, f := range allFormats {
		data, err := Encode(root, f)
		require.NoError(t, err)
		got, err := Detect(data)
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range allFormats {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	got, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)
	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.True(t, FormatJSON.IsText())
	assert.True(t, FormatYAML.IsText())
	assert.False(t, FormatFlatBuffers.IsText())
}

func TestCompression(t *testing.T) {
	t.Parallel()

	t.Run("passthrough", func(t *testing.T) {
		t.Parallel()
		data := []byte(`{"type": "directory"}`)
		out, err := Decompress(data, 0)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})

	t.Run("truncated frame", func(t *testing.T) {
		t.Parallel()
		data, err := Compress(bytes.Repeat([]byte("pathindex "), 100), CompressionZstd)
		require.NoError(t, err)
		_, err = Decompress(data[:len(data)/2], 0)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("parse", func(t *testing.T) {
		t.Parallel()
		c, err := ParseCompression("zstd")
		require.NoError(t, err)
		assert.Equal(t, CompressionZstd, c)
		_, err = ParseCompression("gzip")
		assert.Error(t, err)
	})
}
