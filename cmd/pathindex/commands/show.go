package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/pathindex"
	"github.com/meigma/pathindex/internal/cli/output"
)

var outputFormat string

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the whole index structure",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIndex(cmd, func(idx *pathindex.Index) error {
			structure, err := idx.Structure()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), structure)
			return nil
		})
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List the contents of a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		printer, err := newPrinter(cmd)
		if err != nil {
			return err
		}
		return withIndex(cmd, func(idx *pathindex.Index) error {
			entries, err := idx.ReadDir(path)
			if err != nil {
				return err
			}
			list := make(dirList, 0, len(entries))
			for _, e := range entries {
				item := listItem{Name: e.Name, Type: "file", Location: e.Location}
				if e.IsDir {
					item.Type = "directory"
				}
				list = append(list, item)
			}
			return printer.Print(list)
		})
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List every file and its location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := newPrinter(cmd)
		if err != nil {
			return err
		}
		return withIndex(cmd, func(idx *pathindex.Index) error {
			var list fileList
			for path, location := range idx.Files() {
				list = append(list, fileItem{Path: path, Location: location})
			}
			return printer.Print(list)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pathindex %s (commit %s, built %s)\n", Version, Commit, Date)
	},
}

func init() {
	for _, c := range []*cobra.Command{lsCmd, filesCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")
	}
}

func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(cmd.OutOrStdout(), format), nil
}

type listItem struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

type dirList []listItem

func (l dirList) Headers() []string { return []string{"Name", "Type", "Location"} }

func (l dirList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, item := range l {
		rows = append(rows, []string{item.Name, item.Type, item.Location})
	}
	return rows
}

type fileItem struct {
	Path     string `json:"path" yaml:"path"`
	Location string `json:"location" yaml:"location"`
}

type fileList []fileItem

func (l fileList) Headers() []string { return []string{"Path", "Location"} }

func (l fileList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, item := range l {
		rows = append(rows, []string{item.Path, item.Location})
	}
	return rows
}
