package codec

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/meigma/pathindex/internal/fb"
	"github.com/meigma/pathindex/internal/tree"
)

// flatBuffersVersion is the snapshot layout version written to the index.
const flatBuffersVersion = 1

func encodeFlatBuffers(root *tree.Entry) []byte {
	builder := flatbuffers.NewBuilder(1024)
	rootOffset := buildNode(builder, "", root)

	fb.IndexStart(builder)
	fb.IndexAddVersion(builder, flatBuffersVersion)
	fb.IndexAddRoot(builder, rootOffset)
	fb.FinishIndexBuffer(builder, fb.IndexEnd(builder))
	return builder.FinishedBytes()
}

// buildNode serializes e bottom-up. Strings and child vectors must be
// created before the node table is started.
func buildNode(builder *flatbuffers.Builder, name string, e *tree.Entry) flatbuffers.UOffsetT {
	var childrenOffset flatbuffers.UOffsetT
	if e.IsDir() && len(e.Children) > 0 {
		names := e.Names()
		offsets := make([]flatbuffers.UOffsetT, len(names))
		for i, child := range names {
			offsets[i] = buildNode(builder, child, e.Children[child])
		}
		fb.NodeStartChildrenVector(builder, len(offsets))
		for i := len(offsets) - 1; i >= 0; i-- {
			builder.PrependUOffsetT(offsets[i])
		}
		childrenOffset = builder.EndVector(len(offsets))
	}

	var nameOffset, locationOffset flatbuffers.UOffsetT
	if name != "" {
		nameOffset = builder.CreateString(name)
	}
	if !e.IsDir() && e.Location != "" {
		locationOffset = builder.CreateString(e.Location)
	}

	fb.NodeStart(builder)
	if nameOffset != 0 {
		fb.NodeAddName(builder, nameOffset)
	}
	fb.NodeAddKind(builder, kindToFB(e.Kind))
	if locationOffset != 0 {
		fb.NodeAddLocation(builder, locationOffset)
	}
	if childrenOffset != 0 {
		fb.NodeAddChildren(builder, childrenOffset)
	}
	return fb.NodeEnd(builder)
}

func decodeFlatBuffers(data []byte) (root *tree.Entry, err error) {
	if len(data) < 8 || string(data[4:8]) != fb.IndexIdentifier {
		return nil, fmt.Errorf("%w: missing %s identifier", ErrCorrupt, fb.IndexIdentifier)
	}
	// Accessors index into the buffer without bounds checks of their own.
	defer func() {
		if r := recover(); r != nil {
			root, err = nil, fmt.Errorf("%w: malformed snapshot: %v", ErrCorrupt, r)
		}
	}()

	idx := fb.GetRootAsIndex(data, 0)
	if v := idx.Version(); v != flatBuffersVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrCorrupt, v)
	}
	node := idx.Root(nil)
	if node == nil {
		return nil, fmt.Errorf("%w: snapshot has no root", ErrCorrupt)
	}
	return readNode(node)
}

func readNode(node *fb.Node) (*tree.Entry, error) {
	kind, err := kindFromFB(node.Kind())
	if err != nil {
		return nil, err
	}
	if kind == tree.KindFile {
		if node.ChildrenLength() > 0 {
			return nil, fmt.Errorf("%w: file has children", ErrCorrupt)
		}
		location := string(node.Location())
		if err := validLocation(location); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		return tree.NewFile(location), nil
	}

	dir := tree.NewDirectory()
	var child fb.Node
	for i := range node.ChildrenLength() {
		if !node.Children(&child, i) {
			return nil, fmt.Errorf("%w: unreadable child %d", ErrCorrupt, i)
		}
		name := string(child.Name())
		if err := validName(name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if _, dup := dir.Children[name]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrCorrupt, name)
		}
		entry, err := readNode(&child)
		if err != nil {
			return nil, err
		}
		dir.Set(name, entry)
	}
	return dir, nil
}

func kindToFB(k tree.Kind) fb.Kind {
	if k == tree.KindFile {
		return fb.KindFile
	}
	return fb.KindDirectory
}

func kindFromFB(k fb.Kind) (tree.Kind, error) {
	switch k {
	case fb.KindDirectory:
		return tree.KindDirectory, nil
	case fb.KindFile:
		return tree.KindFile, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %s", ErrCorrupt, k)
	}
}
