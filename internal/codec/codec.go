// Package codec serializes the namespace tree to its persisted forms and
// back. Every format round-trips: Decode(Encode(t)) is structurally equal
// to t.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/meigma/pathindex/internal/fb"
	"github.com/meigma/pathindex/internal/pathutil"
	"github.com/meigma/pathindex/internal/tree"
)

// ErrCorrupt is returned when persisted data cannot be decoded into a valid
// tree.
var ErrCorrupt = errors.New("pathindex: corrupt index")

// Format identifies a serialization format.
type Format uint8

const (
	// FormatJSON is an indented JSON document keyed by child name.
	FormatJSON Format = iota
	// FormatYAML mirrors the JSON layout as YAML.
	FormatYAML
	// FormatFlatBuffers is a compact binary snapshot.
	FormatFlatBuffers
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatFlatBuffers:
		return "flatbuffers"
	default:
		return "unknown"
	}
}

// IsText reports whether f produces human-readable output.
func (f Format) IsText() bool {
	return f == FormatJSON || f == FormatYAML
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "flatbuffers", "fb", "binary":
		return FormatFlatBuffers, nil
	default:
		return 0, fmt.Errorf("invalid index format: %q (valid: json, yaml, flatbuffers)", s)
	}
}

// Encode serializes root in the given format.
func Encode(root *tree.Entry, f Format) ([]byte, error) {
	if root == nil || !root.IsDir() {
		return nil, errors.New("pathindex: root must be a directory")
	}
	if err := checkTree(root); err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		return encodeJSON(root)
	case FormatYAML:
		return encodeYAML(root)
	case FormatFlatBuffers:
		return encodeFlatBuffers(root), nil
	default:
		return nil, fmt.Errorf("pathindex: unknown format %d", f)
	}
}

// checkTree rejects entries that Decode would refuse, so a saved index can
// always be loaded again.
func checkTree(e *tree.Entry) error {
	if !e.IsDir() {
		if err := validLocation(e.Location); err != nil {
			return fmt.Errorf("pathindex: cannot encode: %w", err)
		}
		return nil
	}
	for name, child := range e.Children {
		if err := validName(name); err != nil {
			return fmt.Errorf("pathindex: cannot encode: %w", err)
		}
		if err := checkTree(child); err != nil {
			return err
		}
	}
	return nil
}

// Decode reconstructs a tree from data, detecting the format.
func Decode(data []byte) (*tree.Entry, error) {
	f, err := Detect(data)
	if err != nil {
		return nil, err
	}
	return DecodeFormat(data, f)
}

// DecodeFormat reconstructs a tree from data encoded in format f.
func DecodeFormat(data []byte, f Format) (*tree.Entry, error) {
	var (
		root *tree.Entry
		err  error
	)
	switch f {
	case FormatJSON:
		root, err = decodeJSON(data)
	case FormatYAML:
		root, err = decodeYAML(data)
	case FormatFlatBuffers:
		root, err = decodeFlatBuffers(data)
	default:
		return nil, fmt.Errorf("pathindex: unknown format %d", f)
	}
	if err != nil {
		return nil, err
	}
	if !root.IsDir() {
		return nil, fmt.Errorf("%w: root is a %s", ErrCorrupt, root.Kind)
	}
	return root, nil
}

// Detect sniffs the format of data.
func Detect(data []byte) (Format, error) {
	if len(data) >= 8 && string(data[4:8]) == fb.IndexIdentifier {
		return FormatFlatBuffers, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("%w: empty index data", ErrCorrupt)
	}
	if trimmed[0] == '{' {
		return FormatJSON, nil
	}
	return FormatYAML, nil
}

// wireEntry is the text layout shared by the JSON and YAML formats.
type wireEntry struct {
	Type     string                `json:"type" yaml:"type"`
	Path     string                `json:"path,omitempty" yaml:"path,omitempty"`
	Contents map[string]*wireEntry `json:"contents,omitempty" yaml:"contents,omitempty"`
}

func fromWire(w *wireEntry, segs []string) (*tree.Entry, error) {
	where := pathutil.Join(segs...)
	if where == "" {
		where = "/"
	}
	if w == nil {
		return nil, fmt.Errorf("%w: %s: null entry", ErrCorrupt, where)
	}
	kind, ok := tree.ParseKind(w.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown type %q", ErrCorrupt, where, w.Type)
	}
	if kind == tree.KindFile {
		if len(w.Contents) > 0 {
			return nil, fmt.Errorf("%w: %s: file has contents", ErrCorrupt, where)
		}
		if err := validLocation(w.Path); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, where, err)
		}
		return tree.NewFile(w.Path), nil
	}
	dir := tree.NewDirectory()
	for name, child := range w.Contents {
		if err := validName(name); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, where, err)
		}
		entry, err := fromWire(child, append(segs[:len(segs):len(segs)], name))
		if err != nil {
			return nil, err
		}
		dir.Set(name, entry)
	}
	return dir, nil
}

func validName(name string) error {
	if name == "" {
		return errors.New("empty entry name")
	}
	if strings.Contains(name, pathutil.Separator) {
		return fmt.Errorf("entry name %q contains %q", name, pathutil.Separator)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("entry name %q is not valid UTF-8", name)
	}
	return nil
}

func validLocation(location string) error {
	if !utf8.ValidString(location) {
		return fmt.Errorf("location %q is not valid UTF-8", location)
	}
	return nil
}
