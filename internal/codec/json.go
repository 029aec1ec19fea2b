package codec

import (
	"encoding/json"
	"fmt"

	"github.com/meigma/pathindex/internal/tree"
)

func toWire(e *tree.Entry) *wireEntry {
	w := &wireEntry{Type: e.Kind.String()}
	if e.Kind == tree.KindFile {
		w.Path = e.Location
		return w
	}
	if len(e.Children) > 0 {
		w.Contents = make(map[string]*wireEntry, len(e.Children))
		for name, child := range e.Children {
			w.Contents[name] = toWire(child)
		}
	}
	return w
}

// encodeJSON relies on encoding/json emitting map keys in sorted order.
func encodeJSON(root *tree.Entry) ([]byte, error) {
	data, err := json.MarshalIndent(toWire(root), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decodeJSON(data []byte) (*tree.Entry, error) {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return fromWire(&w, nil)
}
