package codec

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"

	"github.com/meigma/pathindex/internal/tree"
)

// yamlIndent is the number of spaces per nesting level.
const yamlIndent = 2

// encodeYAML builds the document as an AST so that entry names and
// locations are always double-quoted. Plain scalars would let names such as
// "null", ".inf" or "<<" come back as other types, and would not survive
// control characters.
func encodeYAML(root *tree.Entry) ([]byte, error) {
	return []byte(yamlEntry(root, 0).String() + "\n"), nil
}

func yamlEntry(e *tree.Entry, depth int) *ast.MappingNode {
	pairs := []*ast.MappingValueNode{
		yamlPair(plainScalar("type", depth), plainScalar(e.Kind.String(), depth)),
	}
	if e.Kind == tree.KindFile {
		if e.Location != "" {
			pairs = append(pairs, yamlPair(plainScalar("path", depth), quotedScalar(e.Location, depth)))
		}
		return ast.Mapping(yamlToken(depth), false, pairs...)
	}
	if len(e.Children) > 0 {
		contents := make([]*ast.MappingValueNode, 0, len(e.Children))
		for _, name := range e.Names() {
			contents = append(contents, yamlPair(quotedScalar(name, depth+1), yamlEntry(e.Children[name], depth+2)))
		}
		pairs = append(pairs, yamlPair(plainScalar("contents", depth), ast.Mapping(yamlToken(depth+1), false, contents...)))
	}
	return ast.Mapping(yamlToken(depth), false, pairs...)
}

func yamlPair(key *ast.StringNode, value ast.Node) *ast.MappingValueNode {
	return ast.MappingValue(yamlToken(key.GetToken().Position.IndentLevel), key, value)
}

func yamlToken(depth int) *token.Token {
	return &token.Token{Position: yamlPosition(depth)}
}

func yamlPosition(depth int) *token.Position {
	return &token.Position{
		Column:      depth*yamlIndent + 1,
		IndentNum:   yamlIndent,
		IndentLevel: depth,
	}
}

// plainScalar is used for the fixed field names and kinds.
func plainScalar(s string, depth int) *ast.StringNode {
	return ast.String(&token.Token{
		Type:     token.StringType,
		Value:    s,
		Origin:   s,
		Position: yamlPosition(depth),
	})
}

func quotedScalar(s string, depth int) *ast.StringNode {
	return ast.String(&token.Token{
		Type:     token.DoubleQuoteType,
		Value:    s,
		Origin:   strconv.Quote(s),
		Position: yamlPosition(depth),
	})
}

func decodeYAML(data []byte) (*tree.Entry, error) {
	var w wireEntry
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return fromWire(&w, nil)
}
