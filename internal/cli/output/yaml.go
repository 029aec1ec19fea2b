package output

import (
	"io"

	"github.com/goccy/go-yaml"
)

// PrintYAML writes data as YAML to the writer.
func PrintYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w, yaml.Indent(2))
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(data)
}
