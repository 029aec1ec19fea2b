package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/pathindex"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir PATH",
	Short: "Create a directory and any missing parents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateIndex(cmd, func(idx *pathindex.Index) error {
			return idx.CreateDirectory(args[0])
		})
	},
}

var mvdirCmd = &cobra.Command{
	Use:   "mvdir OLD NEW",
	Short: "Rename or move a directory with its contents",
	Long: `Move the directory at OLD, with everything below it, to NEW.

Missing parent directories of NEW are created. An existing file or
directory at NEW is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateIndex(cmd, func(idx *pathindex.Index) error {
			ok, err := idx.RenameDirectory(args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no directory at %s", args[0])
			}
			return nil
		})
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir PATH",
	Short: "Delete a directory with its contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateIndex(cmd, func(idx *pathindex.Index) error {
			ok, err := idx.DeleteDirectory(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no directory at %s", args[0])
			}
			return nil
		})
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists PATH",
	Short: "Report whether a directory exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIndex(cmd, func(idx *pathindex.Index) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), idx.DirectoryExists(args[0]))
			return nil
		})
	},
}
